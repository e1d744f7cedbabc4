/*
Package neuron implements the Izhikevich point-neuron model driving NeMo's
per-cycle integration stage.

# Overview

Unlike the continuous-time, goroutine-per-neuron model this package's name
once described, NeMo neurons are pure state: a (a,b,c,d,sigma) parameter
tuple and a (u,v) state pair, stored in parallel slices so a cycle pipeline
can stream every neuron's dynamics once per millisecond without per-neuron
allocation or indirection.

# Four-substep integration

Each cycle, CyclePipeline converts accumulated fixed-point current to
float64 and calls Integrate, which runs four 0.25ms Euler sub-steps of the
Izhikevich ODE:

	v' = 0.04v^2 + 5v + 140 - u + I
	u' = a(bv - u)

evaluating v >= 30 after every sub-step and freezing state the instant a
neuron crosses threshold, rather than integrating through it.

# Per-neuron RNG

Thalamic noise must be reproducible given a fixed seed independent of
worker-pool scheduling, so each neuron owns its own splitmix64 stream
(rng.go) rather than drawing from one shared generator.
*/
package neuron
