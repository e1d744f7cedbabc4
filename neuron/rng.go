/*
=================================================================================
PER-NEURON DETERMINISTIC RNG STREAM
=================================================================================

Thalamic noise must be reproducible across runs given the same seed,
regardless of how many worker goroutines execute the gather/integrate
stage. A single global math/rand source shared across neurons would make
the noise draw order depend on scheduling; each neuron instead owns its
own splitmix64 stream, so per-neuron determinism never depends on
goroutine scheduling order.

splitmix64 is wrapped in a gonum/stat/distuv.Normal-compatible
rand.Source64 so the Gaussian transform itself (gonum's, rather than
hand-rolled) comes from the numerics library the rest of this
ecosystem already depends on, while the bit stream stays per-neuron.
=================================================================================
*/

package neuron

import "gonum.org/v1/gonum/stat/distuv"

// SplitMix64 is a minimal, fast, deterministic 64-bit generator used as
// the per-neuron RNG state.
type SplitMix64 struct {
	state uint64
}

// NewSplitMix64 seeds a stream. Distinct seeds (e.g. derived from a
// neuron's global index) give statistically independent streams.
func NewSplitMix64(seed uint64) *SplitMix64 {
	return &SplitMix64{state: seed}
}

// Uint64 advances and returns the next 64-bit value.
func (s *SplitMix64) Uint64() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Int63 satisfies rand.Source.
func (s *SplitMix64) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// Seed satisfies rand.Source, reseeding the stream.
func (s *SplitMix64) Seed(seed int64) {
	s.state = uint64(seed)
}

// State returns the raw generator state, for snapshotting.
func (s *SplitMix64) State() uint64 { return s.state }

// SetState restores a previously captured state.
func (s *SplitMix64) SetState(state uint64) { s.state = state }

// NoiseStream draws Gaussian samples for one neuron's thalamic noise term.
type NoiseStream struct {
	src    *SplitMix64
	normal distuv.Normal
}

// NewNoiseStream builds a standard-normal (mean 0, stddev 1) stream seeded
// deterministically from seed; callers scale the draw by sigma themselves
// before adding it into a neuron's input current.
func NewNoiseStream(seed uint64) *NoiseStream {
	src := NewSplitMix64(seed)
	return &NoiseStream{
		src:    src,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// Next draws the next standard-normal sample.
func (n *NoiseStream) Next() float64 {
	return n.normal.Rand()
}

// State exposes the underlying generator state for snapshotting.
func (n *NoiseStream) State() uint64 { return n.src.State() }

// SetState restores a previously captured generator state.
func (n *NoiseStream) SetState(state uint64) { n.src.SetState(state) }
