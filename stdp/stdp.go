/*
=================================================================================
STDP ENGINE - SPIKE-TIMING-DEPENDENT PLASTICITY TABLE AND MASK SCAN
=================================================================================

A conforming STDP engine fits entirely in 64-bit bit operations: recent
firing history is kept as a 64-bit shift register per neuron, and timing
distance is read off it with trailing/leading-zero-count instead of a
per-synapse timestamp comparison. The configured function is a short
table of signed fixed-point deltas sampled at integer millisecond offsets
around a postsynaptic firing: fn[0 .. preFireWindow-1] covers pre-fire
arrivals (arrivals seen BEFORE the postsynaptic neuron's own fire-window
position), fn[preFireWindow .. preFireWindow+postFireWindow-1] covers
post-fire arrivals. Masks derived from each table entry's sign and
whether it's configured non-zero accelerate the per-synapse scan the
cycle pipeline runs in its STDP-accumulate stage.

Potentiation and depression are asymmetric by construction (separate
pre-fire and post-fire tables), but the scan itself is table-scan plus
bit-mask, not a continuous exponential-decay curve evaluated per spike
event - deterministic fixed-point arithmetic over a cycle-driven firing
history has no room for a per-event floating-point kernel.
=================================================================================
*/

package stdp

import (
	"math/bits"

	"github.com/SynapticNetworks/nemo/fxp"
	"github.com/SynapticNetworks/nemo/simerr"
)

// Engine holds the configured STDP function table and derived masks. The
// zero value is a disabled engine: ClosestDelta always reports no arrival,
// and the network layer refuses ApplyStdp outright with Unsupported so a
// caller can tell "no arrival in range" apart from "STDP never
// configured".
type Engine struct {
	format Format

	preFireWindow  int
	postFireWindow int

	table []int32 // length preFireWindow+postFireWindow, in fxp units

	potentiationMask uint64 // table-index space: bit i set iff table[i] > 0
	depressionMask   uint64 // table-index space: bit i set iff table[i] < 0
	activeMask       uint64 // raw sourceRecent bit-position space: bit set iff that window position has a non-zero configured delta

	minWeight int32
	maxWeight int32

	enabled bool
}

// Format is the subset of fxp.Format the engine needs to convert the
// configured float deltas into fixed-point table entries.
type Format = fxp.Format

// New returns a disabled Engine. Call Enable to configure it.
func New(format Format) *Engine {
	return &Engine{format: format}
}

// Enable configures the STDP function. prefire[i]
// describes the weight delta for a pre-synaptic arrival i+1 cycles before
// the aligned post-fire position (prefire[0] is closest); postfire[i]
// describes a post-synaptic-led arrival i cycles after. The combined
// window must fit in 64 bits.
func (e *Engine) Enable(prefire, postfire []float64, minWeight, maxWeight float64) error {
	if len(prefire)+len(postfire) > 64 {
		return simerr.Newf(simerr.InvalidInput, "stdp window %d exceeds 64 bits", len(prefire)+len(postfire))
	}
	if len(prefire)+len(postfire) == 0 {
		return simerr.New(simerr.InvalidInput, "stdp window must be non-empty")
	}

	e.preFireWindow = len(prefire)
	e.postFireWindow = len(postfire)
	e.table = make([]int32, len(prefire)+len(postfire))
	e.potentiationMask = 0
	e.depressionMask = 0
	e.activeMask = 0

	pw := uint(e.postFireWindow)
	for i, v := range prefire {
		e.table[i] = e.format.FromFloat(v)
		if v > 0 {
			e.potentiationMask |= 1 << uint(i)
		} else if v < 0 {
			e.depressionMask |= 1 << uint(i)
		}
		if v != 0 {
			// raw bit position of prefire table index i is pw+1+i (see ClosestDelta).
			e.activeMask |= 1 << (pw + 1 + uint(i))
		}
	}
	for i, v := range postfire {
		pos := e.preFireWindow + i
		e.table[pos] = e.format.FromFloat(v)
		if v > 0 {
			e.potentiationMask |= 1 << uint(pos)
		} else if v < 0 {
			e.depressionMask |= 1 << uint(pos)
		}
		if v != 0 {
			// raw bit position of postfire table index i (postDist i) is pw-i.
			e.activeMask |= 1 << (pw - uint(i))
		}
	}

	e.minWeight = e.format.FromFloat(minWeight)
	e.maxWeight = e.format.FromFloat(maxWeight)
	e.enabled = true
	return nil
}

// Enabled reports whether STDP has been configured.
func (e *Engine) Enabled() bool { return e.enabled }

// PotentiationMask returns the derived mask of window positions whose
// configured table entry is potentiating (positive delta).
func (e *Engine) PotentiationMask() uint64 { return e.potentiationMask }

// DepressionMask returns the derived mask of window positions whose
// configured table entry is depressing (negative delta).
func (e *Engine) DepressionMask() uint64 { return e.depressionMask }

// PostFireWindow returns the configured post-fire window length, the cycle
// offset (from a postsynaptic firing) at which CyclePipeline recognizes a
// neuron as ready for STDP accumulation.
func (e *Engine) PostFireWindow() int { return e.postFireWindow }

// noDist marks "no arrival in range" in a true-cycle-distance comparison.
const noDist = 1 << 30

// ClosestDelta computes the table entry selected by the closest pre-fire or
// post-fire arrival in sourceRecent, a 64-bit recent-firing word from the
// presynaptic neuron already aligned so that bit postFireWindow corresponds
// to "arrived at the same cycle the postsynaptic neuron fired". Arrivals at
// a window position whose configured delta is exactly zero are masked out
// first, so they never shadow a real potentiating or depressing arrival
// one position further out: a coincident (dt=0) arrival resolves to the
// post side, postfire[0], matching Enable's prefire[i]/postfire[i]
// indexing convention. Bit position pw itself is the zero-distance
// post-fire arrival; the closest possible pre-fire arrival sits one bit
// further out, at pw+1. Returns (delta, applies): applies is false if no
// (non-zero-delta) arrival is in range, or if the nearest pre- and
// post-fire arrivals are equidistant from the firing.
func (e *Engine) ClosestDelta(sourceRecent uint64) (delta int32, applies bool) {
	if !e.enabled {
		return 0, false
	}
	sourceRecent &= e.activeMask
	pw := uint(e.postFireWindow)

	// Post-fire bucket: bits [1, pw], distance pw-b, bit pw itself is dt=0.
	postMask := ((uint64(1) << pw) - 1) << 1
	postWord := sourceRecent & postMask

	// Pre-fire bucket: bits (pw, 63], distance b-pw-1, closest is pw+1.
	preWord := sourceRecent >> (pw + 1)

	trueDistPre, trueDistPost := noDist, noDist
	var preDist, postDist int
	if preWord != 0 {
		preDist = bits.TrailingZeros64(preWord)
		trueDistPre = preDist + 1
	}
	if postWord != 0 {
		postDist = bits.LeadingZeros64(postWord << (64 - pw - 1))
		trueDistPost = postDist
	}

	switch {
	case trueDistPre == noDist && trueDistPost == noDist:
		return 0, false
	case trueDistPre == trueDistPost:
		return 0, false // equidistant: no update
	case trueDistPre < trueDistPost:
		return e.tableAt(preDist)
	default:
		return e.tableAt(e.preFireWindow + postDist)
	}
}

func (e *Engine) tableAt(idx int) (int32, bool) {
	if idx < 0 || idx >= len(e.table) {
		return 0, false
	}
	return e.table[idx], true
}

// Clamp saturates a plastic synapse weight after applying reward*delta.
// Excitatory synapses are clamped to [0, maxWeight] and inhibitory
// synapses to [minWeight, 0], so no synapse changes sign.
func (e *Engine) Clamp(weight int32, excitatory bool) int32 {
	if excitatory {
		if weight < 0 {
			return 0
		}
		if weight > e.maxWeight {
			return e.maxWeight
		}
		return weight
	}
	if weight > 0 {
		return 0
	}
	if weight < e.minWeight {
		return e.minWeight
	}
	return weight
}
