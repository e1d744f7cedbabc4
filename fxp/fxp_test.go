package fxp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	f := NewFormat(16)
	for _, v := range []float64{0, 1, -1, 3.5, -3.5, 100.25} {
		q := f.FromFloat(v)
		got := f.ToFloat(q)
		require.InDelta(t, v, got, 1.0/65536)
	}
}

func TestSaturatingAddOverflows(t *testing.T) {
	f := NewFormat(2)
	sum, sat := f.SaturatingAdd(maxQ-1, 10)
	require.True(t, sat)
	require.Equal(t, int32(maxQ), sum)

	sum, sat = f.SaturatingAdd(minQ+1, -10)
	require.True(t, sat)
	require.Equal(t, int32(minQ), sum)

	sum, sat = f.SaturatingAdd(10, 20)
	require.False(t, sat)
	require.Equal(t, int32(30), sum)
}

func TestChooseFracBitsLeavesHeadroom(t *testing.T) {
	fb := ChooseFracBits(4.0)
	format := NewFormat(fb)
	maxCurrent := format.FromFloat(4.0)
	// 32 simultaneous max-weight spikes must not saturate.
	acc := int32(0)
	for i := 0; i < 32; i++ {
		var sat bool
		acc, sat = format.SaturatingAdd(acc, maxCurrent)
		require.False(t, sat)
	}
}
