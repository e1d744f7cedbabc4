/*
=================================================================================
FORWARD CONNECTIVITY MATRIX (FCM)
=================================================================================

For every (source, delay) pair, a contiguous row of {target, weight}
terminals in fixed-point, addressed as row[source*MAX_DELAY + (delay-1)].
This is the structure the gather stage streams every cycle, so each row
is one contiguous slice of {target, weight, plastic} Terminal structs,
allocated once at Finalize, and a table of N*MaxDelay Row headers gives
O(1) lookup, keeping the hot loop free of per-terminal pointer chasing.

Built via an explicit Builder accumulate-then-Finalize transition: no
mutation once finalized, so the gather stage never has to guard against
a row changing shape mid-cycle.
=================================================================================
*/

package conn

import (
	"math"
	"sort"

	"github.com/SynapticNetworks/nemo/fxp"
	"github.com/SynapticNetworks/nemo/simerr"
)

// MaxDelay is the hard ceiling on synapse delay: it keeps the recent-firing
// word and the STDP window both within one 64-bit word.
const MaxDelay = 64

// Terminal is one forward synaptic terminal: a target neuron and its
// fixed-point weight.
type Terminal struct {
	Target  int
	Weight  int32
	Plastic bool
}

// Row is an O(1)-addressable, order-preserving view of one (source,delay)
// row of the finalized FCM. A zero-length Row represents an absent
// (source,delay) pair.
type Row struct {
	terminals []Terminal
}

// Len returns the number of terminals in the row.
func (r Row) Len() int { return len(r.terminals) }

// At returns the i'th terminal, in original insertion order.
func (r Row) At(i int) Terminal { return r.terminals[i] }

type pendingSynapse struct {
	target  int
	weight  float64
	plastic bool
}

// Builder accumulates synapses by (source, delay) before Finalize flattens
// them into the contiguous FCM.
type Builder struct {
	n      int
	rows   map[int64][]pendingSynapse // key = source*MaxDelay + (delay-1)
	maxAbs float64
	count  int
}

// SynapseCount returns the number of synapses successfully added so far,
// usable as a stable synapse id.
func (b *Builder) SynapseCount() int { return b.count }

// NewBuilder creates a Builder for a network of n neurons.
func NewBuilder(n int) *Builder {
	return &Builder{n: n, rows: make(map[int64][]pendingSynapse)}
}

func rowKey(source, delay int) int64 {
	return int64(source)*MaxDelay + int64(delay-1)
}

// AddSynapse registers one synapse. delay must be in [1, MaxDelay]; source
// and target must be valid local indices. Duplicate (source, target,
// delay) triples fail with InvalidInput.
func (b *Builder) AddSynapse(source, target int, delay int, weight float64, plastic bool) error {
	if delay < 1 || delay > MaxDelay {
		return simerr.Newf(simerr.InvalidInput, "delay %d out of range [1,%d]", delay, MaxDelay)
	}
	if source < 0 || source >= b.n {
		return simerr.Newf(simerr.InvalidInput, "source %d out of range [0,%d)", source, b.n)
	}
	if target < 0 || target >= b.n {
		return simerr.Newf(simerr.InvalidInput, "target %d out of range [0,%d)", target, b.n)
	}
	key := rowKey(source, delay)
	for _, existing := range b.rows[key] {
		if existing.target == target {
			return simerr.Newf(simerr.InvalidInput, "duplicate synapse (source=%d,target=%d,delay=%d)", source, target, delay)
		}
	}
	b.rows[key] = append(b.rows[key], pendingSynapse{target: target, weight: weight, plastic: plastic})
	if a := math.Abs(weight); a > b.maxAbs {
		b.maxAbs = a
	}
	b.count++
	return nil
}

// PlasticRef locates a plastic synapse's forward-matrix weight slot,
// handed to the ReverseConnectivityMatrix builder so it can address the
// live weight directly.
type PlasticRef struct {
	Source, Delay int
	Index         int // position within the forward row
}

// FinalizeResult bundles the flattened FCM with the bookkeeping the
// ReverseConnectivityMatrix and OutgoingIndex builders need.
type FinalizeResult struct {
	FCM         *Matrix
	PlasticRefs []PlasticRef // in insertion order, one per plastic synapse
	MaxDelay    int          // largest delay actually used (<= MaxDelay)
	Format      fxp.Format
}

// Finalize chooses the fixed-point format (see fxp.ChooseFracBits's
// five-bit headroom rule), then copies every accumulated row into one
// contiguous N*MaxDelay array, absent rows becoming zero-length.
// fracBitsOverride, if non-nil, replaces the computed value.
func (b *Builder) Finalize(fracBitsOverride *int) *FinalizeResult {
	var fracBits uint
	if fracBitsOverride != nil {
		fracBits = uint(*fracBitsOverride)
	} else {
		fracBits = fxp.ChooseFracBits(b.maxAbs)
	}
	format := fxp.NewFormat(fracBits)

	m := &Matrix{
		n:    b.n,
		rows: make([]Row, b.n*MaxDelay),
	}

	var refs []PlasticRef
	usedMaxDelay := 0

	// Deterministic iteration: sort keys so Finalize output (and therefore
	// PlasticRefs order, which feeds the RCM) never depends on Go's
	// randomized map iteration.
	keys := make([]int64, 0, len(b.rows))
	for k := range b.rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		pending := b.rows[key]
		source := int(key / MaxDelay)
		delay := int(key%MaxDelay) + 1
		if delay > usedMaxDelay {
			usedMaxDelay = delay
		}
		terminals := make([]Terminal, len(pending))
		for i, p := range pending {
			terminals[i] = Terminal{Target: p.target, Weight: format.FromFloat(p.weight), Plastic: p.plastic}
			if p.plastic {
				refs = append(refs, PlasticRef{Source: source, Delay: delay, Index: i})
			}
		}
		m.rows[key] = Row{terminals: terminals}
	}

	return &FinalizeResult{FCM: m, PlasticRefs: refs, MaxDelay: usedMaxDelay, Format: format}
}

// Matrix is the finalized, immutable forward connectivity matrix.
type Matrix struct {
	n    int
	rows []Row
}

// N returns the number of neurons addressed by this matrix.
func (m *Matrix) N() int { return m.n }

// GetRow returns the Row for (source, delay) in O(1). Delay out of range
// returns an empty row.
func (m *Matrix) GetRow(source, delay int) Row {
	if delay < 1 || delay > MaxDelay || source < 0 || source >= m.n {
		return Row{}
	}
	return m.rows[rowKey(source, delay)]
}

// SetWeight updates the weight of the i'th terminal in (source,delay)'s
// row in place. Used exclusively by ApplyStdp to write back
// plastic-synapse weight changes.
func (m *Matrix) SetWeight(source, delay, index int, weight int32) {
	m.rows[rowKey(source, delay)].terminals[index].Weight = weight
}

// GetSynapses returns parallel arrays describing every outgoing synapse
// from source, in insertion order. Weights are converted back to float64.
func (m *Matrix) GetSynapses(source int, format fxp.Format) (targets []int, delays []int, weights []float64, plastic []bool) {
	for delay := 1; delay <= MaxDelay; delay++ {
		row := m.GetRow(source, delay)
		for i := 0; i < row.Len(); i++ {
			t := row.At(i)
			targets = append(targets, t.Target)
			delays = append(delays, delay)
			weights = append(weights, format.ToFloat(t.Weight))
			plastic = append(plastic, t.Plastic)
		}
	}
	return targets, delays, weights, plastic
}
