/*
=================================================================================
PENDING DELTA ACCUMULATOR
=================================================================================

Parallel to the forward connectivity matrix weights, one signed fixed-point
accumulator per plastic synapse. Zero at the start of an STDP epoch;
flushed and cleared by ApplyStdp using saturating addition into the live
weight with [minWeight, maxWeight] clamping.
=================================================================================
*/

package stdp

import "github.com/SynapticNetworks/nemo/fxp"

// Accumulator holds one pending weight delta per plastic synapse, indexed
// by the synapse's position in the reverse connectivity matrix.
type Accumulator struct {
	format fxp.Format
	deltas []int32
}

// NewAccumulator allocates an Accumulator for n plastic synapses.
func NewAccumulator(format fxp.Format, n int) *Accumulator {
	return &Accumulator{format: format, deltas: make([]int32, n)}
}

// Add accumulates delta into synapse i's pending weight change, saturating.
func (a *Accumulator) Add(i int, delta int32) {
	sum, _ := a.format.SaturatingAdd(a.deltas[i], delta)
	a.deltas[i] = sum
}

// Get returns the current pending delta for synapse i.
func (a *Accumulator) Get(i int) int32 { return a.deltas[i] }

// Clear zeroes every pending delta.
func (a *Accumulator) Clear() {
	for i := range a.deltas {
		a.deltas[i] = 0
	}
}

// N returns the number of tracked synapses.
func (a *Accumulator) N() int { return len(a.deltas) }

// Apply folds reward*delta[i] into weight[i] for every synapse, clamping
// per Clamp, then clears the accumulator. When reward == 0 only the
// accumulator is cleared.
func (e *Engine) Apply(acc *Accumulator, weights []int32, excitatory []bool, reward float64) {
	if reward != 0 {
		for i := range weights {
			delta := acc.Get(i)
			if delta == 0 {
				continue
			}
			scaledDelta := int32(float64(delta) * reward)
			sum, _ := e.format.SaturatingAdd(weights[i], scaledDelta)
			weights[i] = e.Clamp(sum, excitatory[i])
		}
	}
	acc.Clear()
}
