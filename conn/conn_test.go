package conn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForwardRowOrderPreserved(t *testing.T) {
	b := NewBuilder(5)
	require.NoError(t, b.AddSynapse(0, 3, 2, 1.0, false))
	require.NoError(t, b.AddSynapse(0, 1, 2, 2.0, false))
	require.NoError(t, b.AddSynapse(0, 4, 2, 3.0, false))

	res := b.Finalize(nil)
	row := res.FCM.GetRow(0, 2)
	require.Equal(t, 3, row.Len())
	require.Equal(t, 3, row.At(0).Target)
	require.Equal(t, 1, row.At(1).Target)
	require.Equal(t, 4, row.At(2).Target)
}

func TestDuplicateSynapseFails(t *testing.T) {
	b := NewBuilder(5)
	require.NoError(t, b.AddSynapse(0, 1, 1, 1.0, false))
	require.Error(t, b.AddSynapse(0, 1, 1, 2.0, false))
}

func TestInvalidDelayFails(t *testing.T) {
	b := NewBuilder(5)
	require.Error(t, b.AddSynapse(0, 1, 0, 1.0, false))
	require.Error(t, b.AddSynapse(0, 1, MaxDelay+1, 1.0, false))
}

func TestGetSynapsesRoundTrip(t *testing.T) {
	b := NewBuilder(3)
	require.NoError(t, b.AddSynapse(0, 1, 1, 5.0, true))
	require.NoError(t, b.AddSynapse(0, 2, 3, -2.5, false))

	res := b.Finalize(nil)
	targets, delays, weights, plastic := res.FCM.GetSynapses(0, res.Format)
	require.Equal(t, []int{1, 2}, targets)
	require.Equal(t, []int{1, 3}, delays)
	require.InDelta(t, 5.0, weights[0], 1e-2)
	require.InDelta(t, -2.5, weights[1], 1e-2)
	require.Equal(t, []bool{true, false}, plastic)
}

func TestOutgoingIndexFindsNonEmptyDelays(t *testing.T) {
	b := NewBuilder(3)
	require.NoError(t, b.AddSynapse(0, 1, 1, 1.0, false))
	require.NoError(t, b.AddSynapse(0, 2, 5, 1.0, false))
	res := b.Finalize(nil)
	out := BuildOutgoing(res.FCM)
	require.Equal(t, []int{1, 5}, out.DelaysFor(0))
	require.Empty(t, out.DelaysFor(1))
}

func TestBuildReverseGroupsByTarget(t *testing.T) {
	b := NewBuilder(3)
	require.NoError(t, b.AddSynapse(0, 2, 1, 1.0, true))
	require.NoError(t, b.AddSynapse(1, 2, 3, 2.0, true))
	require.NoError(t, b.AddSynapse(0, 1, 1, 3.0, false)) // not plastic

	res := b.Finalize(nil)
	targetOf := func(source, delay, index int) int {
		return res.FCM.GetRow(source, delay).At(index).Target
	}
	excitatoryOf := func(source, delay, index int) bool {
		return res.FCM.GetRow(source, delay).At(index).Weight >= 0
	}
	rcm, err := BuildReverse(3, res.PlasticRefs, targetOf, excitatoryOf)
	require.NoError(t, err)
	require.Equal(t, 2, rcm.PlasticCount())

	var sources []int
	rcm.ForEachIncoming(2, func(e ReverseEntry) {
		sources = append(sources, e.Source)
	})
	require.ElementsMatch(t, []int{0, 1}, sources)
	require.Empty(t, func() []int {
		var s []int
		rcm.ForEachIncoming(0, func(e ReverseEntry) { s = append(s, e.Source) })
		return s
	}())

	var byAccIx = make([]int, rcm.PlasticCount())
	rcm.ForEach(func(e ReverseEntry) {
		byAccIx[e.AccumulatorIx] = e.Source
	})
	require.ElementsMatch(t, []int{0, 1}, byAccIx)
}
