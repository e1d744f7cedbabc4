/*
=================================================================================
NETWORK - CONSTRUCTION API AND FINALIZED SIMULATION FACADE
=================================================================================

Network is the single construction-and-simulation facade for one finalized
spiking network: it composes conn.Matrix/Reverse/Outgoing, queue.Incoming,
firing.Ring/Buffer, stdp.Engine/Accumulator and neuron.Store into one
object built from specialized, independently-testable modules, the same
composition principle the rest of this tree uses at the single-synapse
scale.

Before Finalize, Network is a builder: AddNeuron/AddSynapse/SetStdpFunction
accumulate state and fail fast on invalid input. Finalize locks the network
- it transitions once into the flat, contiguous arrays the cycle pipeline
runs against, with no mutation after - and computes every derived
structure in one pass. After Finalize, only Step/ApplyStdp/queries are
legal; any further add* call fails with Logic.
=================================================================================
*/

package network

import (
	"github.com/SynapticNetworks/nemo/conn"
	"github.com/SynapticNetworks/nemo/firing"
	"github.com/SynapticNetworks/nemo/fxp"
	"github.com/SynapticNetworks/nemo/mapper"
	"github.com/SynapticNetworks/nemo/neuron"
	"github.com/SynapticNetworks/nemo/queue"
	"github.com/SynapticNetworks/nemo/simerr"
	"github.com/SynapticNetworks/nemo/stdp"
	"github.com/sirupsen/logrus"
)

type pendingNeuron struct {
	set  bool
	a, b, c, d, sigma float64
	u, v              float64
	rngSeed           uint64
}

type pendingStdp struct {
	configured bool
	prefire    []float64
	postfire   []float64
	minWeight  float64
	maxWeight  float64
}

// Network is both the builder and, after Finalize, the simulation facade.
type Network struct {
	cfg Config
	log *logrus.Entry

	n          int
	finalized  bool
	pendingNeu []pendingNeuron
	connB      *conn.Builder
	stdpPend   pendingStdp

	// populated by Finalize:
	neurons  *neuron.Store
	fcm      *conn.Matrix
	rcm      *conn.Reverse
	outgoing *conn.Outgoing
	incoming *queue.Incoming
	ring     *firing.Ring
	fbuf     *firing.Buffer
	engine   *stdp.Engine
	acc      *stdp.Accumulator
	format   fxp.Format
	idx      *mapper.Mapper

	cycle uint64
	clock *Clock

	overflowCount []uint32 // per-neuron count of saturating-add overflows during gather
}

// New creates a builder for a network of exactly n neurons (local indices
// 0..n-1). cfg.PartitionSize/SizeMultiplier apply at Finalize, cfg.Workers
// at every Step, and cfg.Seed derives each neuron's RNG seed in AddNeuron;
// cfg.MaxDelay bounds the delay range accepted by AddSynapse.
func New(n int, cfg Config) *Network {
	if cfg.MaxDelay <= 0 || cfg.MaxDelay > conn.MaxDelay {
		cfg.MaxDelay = conn.MaxDelay
	}
	if cfg.PartitionSize <= 0 {
		cfg.PartitionSize = n
		if cfg.PartitionSize == 0 {
			cfg.PartitionSize = 1
		}
	}
	return &Network{
		cfg:           cfg,
		log:           logrus.WithField("component", "network"),
		n:             n,
		pendingNeu:    make([]pendingNeuron, n),
		connB:         conn.NewBuilder(n),
		clock:         NewClock(),
		overflowCount: make([]uint32, n),
	}
}

// AddNeuron installs neuron local's Izhikevich parameters and initial
// state. sigma must be >= 0; duplicate installation
// of the same index fails with InvalidInput.
func (net *Network) AddNeuron(local int, a, b, c, d, u, v, sigma float64) error {
	if net.finalized {
		return simerr.New(simerr.Logic, "cannot add neuron after finalize")
	}
	if local < 0 || local >= net.n {
		return simerr.Newf(simerr.InvalidInput, "neuron index %d out of range [0,%d)", local, net.n)
	}
	if net.pendingNeu[local].set {
		return simerr.Newf(simerr.InvalidInput, "duplicate neuron index %d", local)
	}
	if sigma < 0 {
		return simerr.Newf(simerr.InvalidInput, "sigma must be >= 0, got %f", sigma)
	}
	net.pendingNeu[local] = pendingNeuron{set: true, a: a, b: b, c: c, d: d, sigma: sigma, u: u, v: v, rngSeed: net.cfg.Seed ^ (uint64(local)*0x9E3779B97F4A7C15 + 1)}
	return nil
}

// AddSynapse registers a synapse. delay must be in
// [1, cfg.MaxDelay]. Returns a synapse id stable for the lifetime of the
// network (its insertion order within the network).
func (net *Network) AddSynapse(source, target, delay int, weight float64, plastic bool) (int, error) {
	if net.finalized {
		return 0, simerr.New(simerr.Logic, "cannot add synapse after finalize")
	}
	if delay < 1 || delay > net.cfg.MaxDelay {
		return 0, simerr.Newf(simerr.InvalidInput, "delay %d out of range [1,%d]", delay, net.cfg.MaxDelay)
	}
	id := net.connB.SynapseCount()
	if err := net.connB.AddSynapse(source, target, delay, weight, plastic); err != nil {
		return 0, err
	}
	return id, nil
}

// SetStdpFunction configures STDP for the network.
// len(prefire)+len(postfire) must be <= 64.
func (net *Network) SetStdpFunction(prefire, postfire []float64, minWeight, maxWeight float64) error {
	if net.finalized {
		return simerr.New(simerr.Logic, "cannot configure stdp after finalize")
	}
	if len(prefire)+len(postfire) > 64 {
		return simerr.Newf(simerr.InvalidInput, "stdp window %d exceeds 64", len(prefire)+len(postfire))
	}
	net.stdpPend = pendingStdp{
		configured: true,
		prefire:    append([]float64(nil), prefire...),
		postfire:   append([]float64(nil), postfire...),
		minWeight:  minWeight,
		maxWeight:  maxWeight,
	}
	return nil
}

// Finalize locks the network, materializing every derived structure:
// the fixed-point format, FCM/RCM/OutgoingIndex, the incoming queue sized
// from worst-case fan-out, the recent-firing ring, and (if configured)
// the STDP engine. Subsequent add*/SetStdpFunction calls fail.
func (net *Network) Finalize() error {
	if net.finalized {
		return simerr.New(simerr.Logic, "network already finalized")
	}
	for i, p := range net.pendingNeu {
		if !p.set {
			return simerr.Newf(simerr.Logic, "neuron %d was never added", i)
		}
	}

	var fracOverride *int
	if net.cfg.FracBitsOverride != nil {
		fracOverride = net.cfg.FracBitsOverride
	}
	result := net.connB.Finalize(fracOverride)
	net.fcm = result.FCM
	net.format = result.Format

	net.neurons = neuron.NewStore(net.n)
	for i, p := range net.pendingNeu {
		if err := net.neurons.Set(i, neuron.Params{A: p.a, B: p.b, C: p.c, D: p.d, Sigma: p.sigma}, neuron.State{U: p.u, V: p.v}, p.rngSeed); err != nil {
			return err
		}
	}

	targetOf := func(source, delay, index int) int { return net.fcm.GetRow(source, delay).At(index).Target }
	excitatoryOf := func(source, delay, index int) bool { return net.fcm.GetRow(source, delay).At(index).Weight >= 0 }
	rcm, err := conn.BuildReverse(net.n, result.PlasticRefs, targetOf, excitatoryOf)
	if err != nil {
		return err
	}
	net.rcm = rcm
	net.acc = stdp.NewAccumulator(net.format, rcm.PlasticCount())

	net.outgoing = conn.BuildOutgoing(net.fcm)

	maxOutgoingWarps := 0
	for s := 0; s < net.n; s++ {
		maxOutgoingWarps += len(net.outgoing.DelaysFor(s))
	}
	incoming, err := queue.NewIncoming(net.cfg.MaxDelay, maxOutgoingWarps, sizeMultiplierOrDefault(net.cfg.SizeMultiplier))
	if err != nil {
		return err
	}
	net.incoming = incoming

	net.ring = firing.NewRing(net.n)
	net.fbuf = firing.NewBuffer()

	net.engine = stdp.New(net.format)
	if net.stdpPend.configured {
		if err := net.engine.Enable(net.stdpPend.prefire, net.stdpPend.postfire, net.stdpPend.minWeight, net.stdpPend.maxWeight); err != nil {
			return err
		}
	}

	mb := mapper.NewBuilder(net.cfg.PartitionSize)
	for i := 0; i < net.n; i++ {
		if err := mb.Add(int64(i)); err != nil {
			return simerr.Wrap(simerr.Logic, "mapper construction failed", err)
		}
	}
	net.idx = mb.Build()

	net.finalized = true
	net.log.WithFields(logrus.Fields{
		"neurons":   net.n,
		"frac_bits": net.format.FracBits(),
		"plastic":   rcm.PlasticCount(),
	}).Info("network finalized")
	return nil
}

func sizeMultiplierOrDefault(m float64) float64 {
	if m <= 0 {
		return queue.DefaultSizeMultiplier
	}
	return m
}

// Finalized reports whether Finalize has been called successfully.
func (net *Network) Finalized() bool { return net.finalized }

// N returns the number of neurons in the network.
func (net *Network) N() int { return net.n }

// Format returns the fixed-point format chosen at finalization.
func (net *Network) Format() fxp.Format {
	return net.format
}

// GetSynapsesFrom returns parallel arrays describing source's outgoing
// synapses.
func (net *Network) GetSynapsesFrom(source int) (targets []int, delays []int, weights []float64, plastic []bool, err error) {
	if !net.finalized {
		return nil, nil, nil, nil, simerr.New(simerr.Logic, "network not finalized")
	}
	if source < 0 || source >= net.n {
		return nil, nil, nil, nil, simerr.Newf(simerr.InvalidInput, "source %d out of range", source)
	}
	targets, delays, weights, plastic = net.fcm.GetSynapses(source, net.format)
	return targets, delays, weights, plastic, nil
}

// ReadFiring drains every firing recorded since the last ReadFiring call,
// in cycle-then-local-index order, and advances the buffer's read cursor.
func (net *Network) ReadFiring() ([]firing.Entry, error) {
	if !net.finalized {
		return nil, simerr.New(simerr.Logic, "network not finalized")
	}
	return net.fbuf.Flush(), nil
}

// ToGlobal converts a dense local neuron index to the sparse global index
// it was added under.
func (net *Network) ToGlobal(local int) (int64, error) {
	if !net.finalized {
		return 0, simerr.New(simerr.Logic, "network not finalized")
	}
	return net.idx.ToGlobal(local)
}

// ToLocal converts a sparse global neuron index back to its dense local
// index.
func (net *Network) ToLocal(global int64) (int, error) {
	if !net.finalized {
		return 0, simerr.New(simerr.Logic, "network not finalized")
	}
	return net.idx.ToLocal(global)
}

// PartitionOf returns the partition owning a local neuron index, the same
// grouping the worker pool uses to split cycle stages across goroutines.
func (net *Network) PartitionOf(local int) (int, error) {
	if !net.finalized {
		return 0, simerr.New(simerr.Logic, "network not finalized")
	}
	if local < 0 || local >= net.n {
		return 0, simerr.Newf(simerr.InvalidInput, "local index %d out of range [0,%d)", local, net.n)
	}
	return net.idx.PartitionOf(local), nil
}

// PartitionCount returns the number of partitions the worker pool divides
// this network's neurons into.
func (net *Network) PartitionCount() int {
	return net.idx.PartitionCount()
}
