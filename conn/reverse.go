/*
=================================================================================
REVERSE CONNECTIVITY MATRIX (RCM)
=================================================================================

For every target neuron, a compact row of (source, delay, forwardAddress)
triples for its plastic incoming synapses. STDP accumulation is
per-target, so this is the index that makes "iterate this neuron's
plastic incoming synapses" O(fan-in) instead of a scan over every synapse
in the network.

Rows are pitched (padded to a fixed width, n*maxIncoming) rather than
individually sized, trading a little memory for predictable addressing
over one flat backing array.
=================================================================================
*/

package conn

import "github.com/SynapticNetworks/nemo/simerr"

// ReverseEntry points back at one plastic synapse's live weight slot in
// the FCM, plus its position in the shared PendingDelta accumulator.
type ReverseEntry struct {
	Source        int
	Delay         int
	ForwardIndex  int // index within FCM.GetRow(Source,Delay)
	AccumulatorIx int // index into the PendingDelta/Accumulator array
}

// Reverse is the finalized, pitched reverse connectivity matrix.
type Reverse struct {
	n             int
	pitch         int
	rows          []ReverseEntry // n * pitch, absent entries have ForwardIndex == -1
	rowLens       []int
	maxIncoming   int
	excitatory    []bool // parallel to PlasticRefs / accumulator index
	plasticCount  int
}

// BuildReverse constructs the RCM from a FinalizeResult, assigning each
// plastic synapse a PendingDelta accumulator slot (AccumulatorIx) in the
// same order as refs.
func BuildReverse(n int, refs []PlasticRef, targetOf func(source, delay, index int) int, excitatoryOf func(source, delay, index int) bool) (*Reverse, error) {
	incomingCount := make([]int, n)
	for _, ref := range refs {
		target := targetOf(ref.Source, ref.Delay, ref.Index)
		if target < 0 || target >= n {
			return nil, simerr.Newf(simerr.Logic, "plastic synapse target %d out of range", target)
		}
		incomingCount[target]++
	}

	maxIncoming := 0
	for _, c := range incomingCount {
		if c > maxIncoming {
			maxIncoming = c
		}
	}

	r := &Reverse{
		n:           n,
		pitch:       maxIncoming,
		rows:        make([]ReverseEntry, n*maxIncoming),
		rowLens:     make([]int, n),
		maxIncoming: maxIncoming,
		excitatory:  make([]bool, len(refs)),
	}
	for i := range r.rows {
		r.rows[i].ForwardIndex = -1
	}

	for accIx, ref := range refs {
		target := targetOf(ref.Source, ref.Delay, ref.Index)
		excitatory := excitatoryOf(ref.Source, ref.Delay, ref.Index)
		r.excitatory[accIx] = excitatory

		slot := target*maxIncoming + r.rowLens[target]
		r.rows[slot] = ReverseEntry{
			Source:        ref.Source,
			Delay:         ref.Delay,
			ForwardIndex:  ref.Index,
			AccumulatorIx: accIx,
		}
		r.rowLens[target]++
	}
	r.plasticCount = len(refs)
	return r, nil
}

// N returns the number of neurons addressed.
func (r *Reverse) N() int { return r.n }

// PlasticCount returns the total number of plastic synapses tracked.
func (r *Reverse) PlasticCount() int { return r.plasticCount }

// Excitatory reports whether the plastic synapse at accumulator index i is
// excitatory (weight >= 0) for clamping purposes.
func (r *Reverse) Excitatory(i int) bool { return r.excitatory[i] }

// ForEachIncoming calls fn for every plastic synapse incoming to target,
// in build order.
func (r *Reverse) ForEachIncoming(target int, fn func(ReverseEntry)) {
	if target < 0 || target >= r.n {
		return
	}
	base := target * r.maxIncoming
	for i := 0; i < r.rowLens[target]; i++ {
		fn(r.rows[base+i])
	}
}

// ForEach calls fn for every plastic synapse tracked by the RCM, across all
// targets. Used by ApplyStdp to gather/scatter the full weight vector by
// AccumulatorIx.
func (r *Reverse) ForEach(fn func(ReverseEntry)) {
	for target := 0; target < r.n; target++ {
		r.ForEachIncoming(target, fn)
	}
}
