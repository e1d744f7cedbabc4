package network

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildRing wires a ring of n standard regular-spiking neurons, i -> i+1
// mod n, each synapse carrying weight (strong enough to fire its target in
// a single sub-step).
func buildRing(t *testing.T, n, delay int, weight float64, seed uint64) *Network {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = seed
	net := New(n, cfg)
	for i := 0; i < n; i++ {
		addStandardNeuron(t, net, i)
	}
	for i := 0; i < n; i++ {
		_, err := net.AddSynapse(i, (i+1)%n, delay, weight, false)
		require.NoError(t, err)
	}
	require.NoError(t, net.Finalize())
	return net
}

func TestRingSize1000Delay1(t *testing.T) {
	const n = 1000
	net := buildRing(t, n, 1, 1000, 1)
	for c := 0; c < 2000; c++ {
		var forced []int
		if c == 0 {
			forced = []int{0}
		}
		fired, err := net.Step(forced)
		require.NoError(t, err)
		require.Equal(t, []int{c % n}, fired, "cycle %d", c)
	}
}

func TestRingSize1000Delay3(t *testing.T) {
	const n = 1000
	net := buildRing(t, n, 3, 1000, 1)
	for c := 0; c < 2000; c++ {
		var forced []int
		if c == 0 {
			forced = []int{0}
		}
		fired, err := net.Step(forced)
		require.NoError(t, err)
		if c%3 == 0 {
			require.Equal(t, []int{(c / 3) % n}, fired, "cycle %d", c)
		} else {
			require.Empty(t, fired, "cycle %d", c)
		}
	}
}

func TestRingSize2000ImpulseAt1500(t *testing.T) {
	const n = 2000
	net := buildRing(t, n, 1, 1000, 1)
	for c := 0; c < 2500; c++ {
		var forced []int
		if c == 0 {
			forced = []int{1500}
		}
		fired, err := net.Step(forced)
		require.NoError(t, err)
		require.Equal(t, []int{(1500 + c) % n}, fired, "cycle %d", c)
	}
}

// buildSmallworldLike wires a deterministic non-ring topology (each neuron
// to its next two ring-neighbors, a cheap stand-in for a smallworld graph)
// for the repeated-run determinism scenario.
func buildSmallworldLike(t *testing.T, n int, seed uint64) *Network {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = seed
	cfg.SizeMultiplier = 2.0 // generous headroom: every neuron could fire in one cycle
	net := New(n, cfg)
	for i := 0; i < n; i++ {
		require.NoError(t, net.AddNeuron(i, 0.02, 0.2, -65, 8, 0.2*-65, -65, 0.5))
	}
	for i := 0; i < n; i++ {
		_, err := net.AddSynapse(i, (i+1)%n, 1, 5, false)
		require.NoError(t, err)
		_, err = net.AddSynapse(i, (i+3)%n, 2, 3, false)
		require.NoError(t, err)
	}
	require.NoError(t, net.Finalize())
	return net
}

func TestRepeatedRunDeterminism(t *testing.T) {
	const n = 50
	const cycles = 1000

	run := func() [][]int {
		net := buildSmallworldLike(t, n, 42)
		var trace [][]int
		for c := 0; c < cycles; c++ {
			var forced []int
			if c == 0 {
				forced = []int{0}
			}
			fired, err := net.Step(forced)
			require.NoError(t, err)
			trace = append(trace, fired)
		}
		return trace
	}

	traceA := run()
	traceB := run()
	require.Equal(t, traceA, traceB)
}

func TestStdpRoundTrip(t *testing.T) {
	net := New(2, DefaultConfig())
	addStandardNeuron(t, net, 0)
	addStandardNeuron(t, net, 1)
	_, err := net.AddSynapse(0, 1, 1, 10, true)
	require.NoError(t, err)
	require.NoError(t, net.SetStdpFunction(
		[]float64{-1, -2, -3},
		[]float64{5, 4, 3},
		0, 100,
	))
	require.NoError(t, net.Finalize())

	for c := 0; c < 20; c++ {
		var forced []int
		switch c {
		case 10:
			forced = []int{0}
		case 11:
			forced = []int{1}
		}
		_, err := net.Step(forced)
		require.NoError(t, err)
	}

	require.NoError(t, net.ApplyStdp(1.0))
	_, _, weights, _, err := net.GetSynapsesFrom(0)
	require.NoError(t, err)
	require.Len(t, weights, 1)
	require.InDelta(t, 15.0, weights[0], 1e-3)
}

func TestApplyStdpZeroRewardOnlyClearsAccumulator(t *testing.T) {
	net := New(2, DefaultConfig())
	addStandardNeuron(t, net, 0)
	addStandardNeuron(t, net, 1)
	_, err := net.AddSynapse(0, 1, 1, 10, true)
	require.NoError(t, err)
	require.NoError(t, net.SetStdpFunction(
		[]float64{-1, -2, -3},
		[]float64{5, 4, 3},
		0, 100,
	))
	require.NoError(t, net.Finalize())

	for c := 0; c < 20; c++ {
		var forced []int
		switch c {
		case 10:
			forced = []int{0}
		case 11:
			forced = []int{1}
		}
		_, err := net.Step(forced)
		require.NoError(t, err)
	}

	require.NoError(t, net.ApplyStdp(0))
	_, _, weights, _, err := net.GetSynapsesFrom(0)
	require.NoError(t, err)
	require.InDelta(t, 10.0, weights[0], 1e-3)
}
