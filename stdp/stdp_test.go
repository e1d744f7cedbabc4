package stdp

import (
	"testing"

	"github.com/SynapticNetworks/nemo/fxp"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*Engine, fxp.Format) {
	format := fxp.NewFormat(16)
	e := New(format)
	err := e.Enable([]float64{-1, -2, -3}, []float64{5, 4, 3}, 0, 100)
	require.NoError(t, err)
	return e, format
}

func TestEnableDerivesMasks(t *testing.T) {
	e, _ := newEngine(t)
	require.True(t, e.Enabled())
	require.Equal(t, 3, e.PostFireWindow())
	// prefire is all-negative -> depression mask covers positions 0..2.
	require.Equal(t, uint64(0b111), e.DepressionMask())
	// postfire is all-positive -> potentiation mask covers positions 3..5.
	require.Equal(t, uint64(0b111<<3), e.PotentiationMask())
}

func TestClosestDeltaSimultaneousArrivalIsPostSide(t *testing.T) {
	e, format := newEngine(t)
	// postFireWindow = 3: bit 3 itself is the dt=0 coincident arrival,
	// which resolves to the post side.
	word := uint64(1 << 3)
	delta, applies := e.ClosestDelta(word)
	require.True(t, applies)
	require.Equal(t, format.FromFloat(5), delta) // postfire[0]
}

func TestClosestDeltaPostFireCloser(t *testing.T) {
	e, format := newEngine(t)
	// postFireWindow = 3. Bit 2 is one cycle after the firing (postDist=1)
	// and bit 5 is the closest pre-fire arrival (preDist=1, true distance
	// 2): post-fire arrival is closer.
	word := uint64(1<<2 | 1<<5)
	delta, applies := e.ClosestDelta(word)
	require.True(t, applies)
	require.Equal(t, format.FromFloat(4), delta) // postfire[1]
}

func TestClosestDeltaPreFireCloser(t *testing.T) {
	e, format := newEngine(t)
	word := uint64(1<<4 | 1<<1) // preDist=0 (bit4, true dist 1), postDist=2 (bit1, true dist 2)
	delta, applies := e.ClosestDelta(word)
	require.True(t, applies)
	require.Equal(t, format.FromFloat(-1), delta) // prefire[0]
}

func TestClosestDeltaEquidistantNoUpdate(t *testing.T) {
	e, _ := newEngine(t)
	// postFireWindow=3: bit 3 (dt=0, true post distance 0) and bit 4
	// (closest pre-fire, true distance 1) are NOT equidistant by
	// themselves; true equidistance needs matching true distances. bit 2
	// (true post distance 1) and bit 4 (true pre distance 1) tie.
	word := uint64(1<<2 | 1<<4)
	_, applies := e.ClosestDelta(word)
	require.False(t, applies)
}

func TestClosestDeltaNoArrivalNoUpdate(t *testing.T) {
	e, _ := newEngine(t)
	_, applies := e.ClosestDelta(0)
	require.False(t, applies)
}

func TestClosestDeltaSkipsZeroConfiguredEntry(t *testing.T) {
	format := fxp.NewFormat(16)
	e := New(format)
	// postfire[0] (the dt=0 coincident position) is configured to exactly
	// zero; a coincident arrival must not stop there and report applies
	// with a zero delta, it must keep scanning outward to the arrival at
	// postfire[1].
	require.NoError(t, e.Enable([]float64{-1, -2, -3}, []float64{0, 4, 3}, 0, 100))

	word := uint64(1<<3 | 1<<2) // bit pw=3: the dt=0 coincident arrival; bit 2: one cycle after
	delta, applies := e.ClosestDelta(word)
	require.True(t, applies)
	require.Equal(t, format.FromFloat(4), delta) // postfire[1], not the masked postfire[0]
}

func TestClosestDeltaAllZeroNoArrival(t *testing.T) {
	format := fxp.NewFormat(16)
	e := New(format)
	require.NoError(t, e.Enable([]float64{0, 0}, []float64{0, 0}, 0, 100))
	_, applies := e.ClosestDelta(^uint64(0))
	require.False(t, applies)
}

func TestApplyStdpClearsOnZeroReward(t *testing.T) {
	e, format := newEngine(t)
	acc := NewAccumulator(format, 1)
	acc.Add(0, format.FromFloat(5))
	weights := []int32{format.FromFloat(10)}
	excit := []bool{true}
	e.Apply(acc, weights, excit, 0)
	require.Equal(t, int32(0), acc.Get(0))
	require.Equal(t, format.FromFloat(10), weights[0])
}

func TestApplyStdpClampsExcitatory(t *testing.T) {
	e, format := newEngine(t)
	acc := NewAccumulator(format, 1)
	acc.Add(0, format.FromFloat(50))
	weights := []int32{format.FromFloat(90)}
	excit := []bool{true}
	e.Apply(acc, weights, excit, 1.0)
	require.Equal(t, format.FromFloat(100), weights[0]) // clamped to maxWeight
}

func TestApplyStdpFloorsAtZero(t *testing.T) {
	e, format := newEngine(t)
	acc := NewAccumulator(format, 1)
	acc.Add(0, format.FromFloat(-50))
	weights := []int32{format.FromFloat(10)}
	excit := []bool{true}
	e.Apply(acc, weights, excit, 1.0)
	require.Equal(t, int32(0), weights[0])
}
