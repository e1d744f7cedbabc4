/*
=================================================================================
CYCLE PIPELINE - ONE-MILLISECOND ADVANCE
=================================================================================

Step advances the whole network by one cycle, in a fixed stage order:

 1. Gather   - drain this cycle's incoming bin, stream FCM rows into
               per-target fixed-point current accumulators.
 2. Noise    - add each neuron's scaled thalamic Gaussian draw.
 3. Integrate - four-substep Izhikevich integration, early-terminating on
               firing; externalFirings are OR'd in afterward.
 4. Reset    - v<-c, u<-u+d for every fired neuron.
 5. UpdateHistory - shift the recent-firing ring and write the new bit.
 6. Scatter  - enqueue each firing into future incoming bins.
 7. STDP accumulate - for neurons exactly postFireWindow cycles past their
               fire, scan plastic incoming synapses and accumulate deltas.
 8. Commit   - advance the cycle counter and flush to the firing buffer.

Steps 2/3 (noise and integrate, run as one pass) are trivially parallel
across neurons and run through parallelByPartition. Step 7 is
independent across target neurons and is parallelized the same way.
Gather, reset, history update and scatter run sequentially on the
calling goroutine.
=================================================================================
*/

package network

import (
	"sort"

	"github.com/SynapticNetworks/nemo/conn"
	"github.com/SynapticNetworks/nemo/queue"
	"github.com/SynapticNetworks/nemo/simerr"
)

// Step advances the simulation one cycle. externalFirings is a set of
// local neuron indices forced to fire this cycle; unknown indices fail
// with InvalidInput and leave state unmodified. Returns the local
// indices that fired this cycle (natural union forced), in ascending
// order.
func (net *Network) Step(externalFirings []int) ([]int, error) {
	if !net.finalized {
		return nil, simerr.New(simerr.Logic, "network not finalized")
	}
	if net.cycle == ^uint64(0) {
		// the error taxonomy has no distinct overflow code; this
		// structural impossibility maps onto Logic (see DESIGN.md).
		return nil, simerr.New(simerr.Logic, "cycle counter overflow")
	}

	forced := make(map[int]bool, len(externalFirings))
	for _, idx := range externalFirings {
		if idx < 0 || idx >= net.n {
			return nil, simerr.Newf(simerr.InvalidInput, "external firing index %d out of range [0,%d)", idx, net.n)
		}
		forced[idx] = true
	}

	current := make([]int32, net.n)

	// --- 1. Gather ---
	spikeGroups := net.incoming.Drain(net.cycle)
	for _, sg := range spikeGroups {
		row := net.fcm.GetRow(sg.Source, sg.Delay)
		for i := 0; i < row.Len(); i++ {
			t := row.At(i)
			sum, saturated := net.format.SaturatingAdd(current[t.Target], t.Weight)
			current[t.Target] = sum
			if saturated {
				net.overflowCount[t.Target]++
			}
		}
	}

	// --- 2. Noise (folded into the same parallel pass as Integrate) ---
	fired := make([]bool, net.n)
	parallelByPartition(net.idx, net.cfg.Workers, func(start, end int) {
		for n := start; n < end; n++ {
			noise := net.neurons.DrawNoise(n)
			currentFloat := net.format.ToFloat(current[n]) + noise
			naturallyFired := net.neurons.Integrate(n, currentFloat)
			fired[n] = naturallyFired || forced[n]
		}
	})

	// --- 4. Reset ---
	for n := 0; n < net.n; n++ {
		if fired[n] {
			net.neurons.Reset(n)
		}
	}

	// --- 5. UpdateHistory ---
	for n := 0; n < net.n; n++ {
		var bit uint64
		if fired[n] {
			bit = 1
		}
		net.ring.UpdateHistory(n, bit)
	}

	// --- 6. Scatter ---
	var scatterErr error
	for n := 0; n < net.n; n++ {
		if !fired[n] {
			continue
		}
		for _, delay := range net.outgoing.DelaysFor(n) {
			if err := net.incoming.Enqueue(net.cycle, delay, queue.SpikeGroup{Source: n, Delay: delay}); err != nil {
				scatterErr = err
			}
		}
	}
	if scatterErr != nil {
		return nil, scatterErr
	}

	// --- 7. STDP accumulate ---
	// Every plastic synapse belongs to exactly one target, so each
	// target's ReverseEntries touch disjoint Accumulator slots; running
	// the per-target scan across workers needs no synchronization.
	if net.engine.Enabled() {
		pw := uint(net.engine.PostFireWindow())
		parallelByPartition(net.idx, net.cfg.Workers, func(start, end int) {
			for target := start; target < end; target++ {
				word := net.ring.WriteBuffer(target)
				if (word>>pw)&1 == 0 {
					continue
				}
				net.rcm.ForEachIncoming(target, func(e conn.ReverseEntry) {
					aligned := net.ring.WriteBuffer(e.Source) >> uint(e.Delay)
					delta, applies := net.engine.ClosestDelta(aligned)
					if applies {
						net.acc.Add(e.AccumulatorIx, delta)
					}
				})
			}
		})
	}

	// --- 8. Commit ---
	net.ring.Commit()
	net.cycle++
	net.clock.Tick()

	var out []int
	for n := 0; n < net.n; n++ {
		if fired[n] {
			out = append(out, n)
			net.fbuf.Push(net.cycle-1, n)
		}
	}
	sort.Ints(out)
	return out, nil
}

// ApplyStdp folds the accumulated pending deltas into every plastic
// synapse's live weight, scaled by reward, then clears the accumulator
// regardless of reward. Fails with Unsupported if STDP was never
// configured for this network.
func (net *Network) ApplyStdp(reward float64) error {
	if !net.finalized {
		return simerr.New(simerr.Logic, "network not finalized")
	}
	if !net.engine.Enabled() {
		return simerr.New(simerr.Unsupported, "stdp not configured for this network")
	}

	weights := make([]int32, net.acc.N())
	excitatory := make([]bool, net.acc.N())
	net.rcm.ForEach(func(e conn.ReverseEntry) {
		weights[e.AccumulatorIx] = net.fcm.GetRow(e.Source, e.Delay).At(e.ForwardIndex).Weight
		excitatory[e.AccumulatorIx] = net.rcm.Excitatory(e.AccumulatorIx)
	})

	net.engine.Apply(net.acc, weights, excitatory, reward)

	net.rcm.ForEach(func(e conn.ReverseEntry) {
		net.fcm.SetWeight(e.Source, e.Delay, e.ForwardIndex, weights[e.AccumulatorIx])
	})
	return nil
}
