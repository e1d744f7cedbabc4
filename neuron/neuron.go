/*
=================================================================================
NEURON STATE - IZHIKEVICH POINT-NEURON DYNAMICS
=================================================================================

Per-neuron parameters (a,b,c,d,sigma) are immutable after finalization;
state (u,v) evolves every cycle. Parameters, state and RNG streams are
kept in three parallel slices indexed by local index (one struct per
neuron in each): the cycle pipeline's integrate stage streams every
neuron's (a,b,c,d,u,v) once per cycle, so contiguous slices keep that
stream cache-friendly and make a worker-pool partition a plain sub-slice
range rather than a set of pointers, with no per-neuron allocation in the
hot path.

This package models discrete, four-substep Izhikevich dynamics rather
than continuous threshold-and-decay behavior driven by goroutines and
channels; only the package name, doc.go's research-framing idiom, and the
biologically-commented constants style carry over from the rest of this
tree's conventions.
=================================================================================
*/

package neuron

import "github.com/SynapticNetworks/nemo/simerr"

// Params are the immutable Izhikevich parameters of one neuron.
type Params struct {
	A, B, C, D float64
	Sigma      float64 // thalamic noise standard deviation, sigma >= 0
}

// State is the per-cycle-mutable Izhikevich membrane state.
type State struct {
	U, V float64
}

// Store holds every neuron's parameters, state, and RNG stream in three
// parallel slices, indexed by dense local index.
type Store struct {
	params []Params
	state  []State
	noise  []*NoiseStream
}

// NewStore allocates a Store for n neurons, all zeroed. Set must be called
// for every index before Integrate is used.
func NewStore(n int) *Store {
	return &Store{
		params: make([]Params, n),
		state:  make([]State, n),
		noise:  make([]*NoiseStream, n),
	}
}

// N returns the number of neurons held.
func (s *Store) N() int { return len(s.params) }

// Set installs a neuron's immutable parameters, initial state, and RNG
// seed. sigma must be >= 0.
func (s *Store) Set(n int, p Params, initial State, rngSeed uint64) error {
	if n < 0 || n >= len(s.params) {
		return simerr.Newf(simerr.InvalidInput, "neuron index %d out of range [0,%d)", n, len(s.params))
	}
	if p.Sigma < 0 {
		return simerr.Newf(simerr.InvalidInput, "sigma must be >= 0, got %f", p.Sigma)
	}
	s.params[n] = p
	s.state[n] = initial
	s.noise[n] = NewNoiseStream(rngSeed)
	return nil
}

// Get returns neuron n's parameters and current state.
func (s *Store) Get(n int) (Params, State) {
	return s.params[n], s.state[n]
}

// DrawNoise draws neuron n's next Gaussian sample, scaled by its sigma.
// A neuron with sigma == 0 contributes no noise term and does not advance
// its stream, keeping determinism independent of sigma reconfiguration
// history for quiescent neurons.
func (s *Store) DrawNoise(n int) float64 {
	if s.params[n].Sigma == 0 {
		return 0
	}
	return s.noise[n].Next() * s.params[n].Sigma
}

// subStepDt is the Euler sub-step size; four sub-steps per 1ms cycle.
const subStepDt = 0.25

// FireThreshold is the membrane potential at which a neuron is considered
// to have fired.
const FireThreshold = 30.0

// Integrate runs the four-substep Izhikevich integration for neuron n
// given total input current current (already converted from fixed-point),
// early-terminating and freezing v,u on the sub-step that crosses
// threshold. Returns whether the neuron fired naturally this cycle. It
// does NOT apply the reset (v<-c, u<-u+d); the cycle pipeline does that
// uniformly for every fired neuron, natural or forced, after merging in
// externalFirings.
func (s *Store) Integrate(n int, current float64) (fired bool) {
	p := s.params[n]
	st := s.state[n]

	for step := 0; step < 4; step++ {
		dv := (0.04*st.V*st.V + 5*st.V + 140 - st.U + current) * subStepDt
		du := (p.A * (p.B*st.V - st.U)) * subStepDt
		st.V += dv
		st.U += du
		if st.V >= FireThreshold {
			fired = true
			break
		}
	}

	s.state[n] = st
	return fired
}

// Reset applies the post-fire reset (v<-c, u<-u+d) to neuron n, regardless
// of whether the firing was natural or forced via externalFirings.
func (s *Store) Reset(n int) {
	p := s.params[n]
	s.state[n].V = p.C
	s.state[n].U += p.D
}
