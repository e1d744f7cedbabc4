/*
Package network composes fxp, conn, queue, firing, stdp and neuron into the
finalized simulation facade: a builder (New/AddNeuron/AddSynapse/
SetStdpFunction) that transitions once, via Finalize, into a cycle-stepped
engine (Step/ApplyStdp) with no further structural mutation.

# Construction and finalization

Before Finalize, Network only accumulates pending state and validates it
eagerly: out-of-range indices, duplicate neurons, and oversized STDP
windows all fail fast with InvalidInput rather than surfacing at
Finalize. Finalize computes every derived structure in one pass - the
fixed-point format, the flattened ForwardConnectivityMatrix, the
ReverseConnectivityMatrix and its PendingDelta accumulator, the
OutgoingIndex, the sized IncomingQueue, the RecentFiringRing and
FiringBuffer, and (if configured) the STDPEngine - and locks the network
against further addNeuron/addSynapse/setStdpFunction calls.

# The cycle pipeline

Step (pipeline.go) runs the eight-stage cycle pipeline once per call, in a
fixed order: gather, noise, integrate, reset, history update, scatter,
STDP accumulate, commit. Config.Workers controls how many goroutines
parallelByPartition fans the trivially-parallel stages across;
Workers<=1 runs every stage synchronously on the calling goroutine.
*/
package network
