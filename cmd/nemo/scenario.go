/*
=================================================================================
SCENARIO - YAML FRONT-END FOR network.Network
=================================================================================

A scenario file is the CLI's unit of work: enough to build a Network via
the builder API (addNeuron/addSynapse/setStdpFunction), finalize it, and
drive it for a fixed number of cycles, optionally forcing firings or
applying STDP reward at specific cycles.
=================================================================================
*/

package main

import (
	"os"

	"github.com/SynapticNetworks/nemo/network"
	"github.com/SynapticNetworks/nemo/simerr"
	"gopkg.in/yaml.v3"
)

// NeuronSpec is one addNeuron call.
type NeuronSpec struct {
	Index int     `yaml:"index"`
	A     float64 `yaml:"a"`
	B     float64 `yaml:"b"`
	C     float64 `yaml:"c"`
	D     float64 `yaml:"d"`
	U     float64 `yaml:"u"`
	V     float64 `yaml:"v"`
	Sigma float64 `yaml:"sigma"`
}

// SynapseSpec is one addSynapse call.
type SynapseSpec struct {
	Source  int     `yaml:"source"`
	Target  int     `yaml:"target"`
	Delay   int     `yaml:"delay"`
	Weight  float64 `yaml:"weight"`
	Plastic bool    `yaml:"plastic"`
}

// StdpSpec configures setStdpFunction, omitted entirely to run without
// plasticity.
type StdpSpec struct {
	Prefire   []float64 `yaml:"prefire"`
	Postfire  []float64 `yaml:"postfire"`
	MinWeight float64   `yaml:"min_weight"`
	MaxWeight float64   `yaml:"max_weight"`
}

// ForcedFiring forces a set of neurons to fire on one cycle, feeding
// Step's externalFirings argument.
type ForcedFiring struct {
	Cycle  uint64 `yaml:"cycle"`
	Forced []int  `yaml:"forced"`
}

// RewardEvent calls applyStdp(Reward) immediately after the named cycle's
// Step completes.
type RewardEvent struct {
	Cycle  uint64  `yaml:"cycle"`
	Reward float64 `yaml:"reward"`
}

// Scenario is the whole of a `nemo run` input file.
type Scenario struct {
	Network  network.Config `yaml:",inline"`
	Neurons  []NeuronSpec    `yaml:"neurons"`
	Synapses []SynapseSpec   `yaml:"synapses"`
	Stdp     *StdpSpec       `yaml:"stdp"`
	Cycles   uint64          `yaml:"cycles"`
	Firings  []ForcedFiring  `yaml:"firings"`
	Rewards  []RewardEvent   `yaml:"rewards"`
}

// loadScenario reads and parses a scenario file, defaulting Network to
// network.DefaultConfig() for any field the file does not set.
func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, simerr.Wrap(simerr.InvalidInput, "reading scenario file", err)
	}
	s := &Scenario{Network: network.DefaultConfig()}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, simerr.Wrap(simerr.InvalidInput, "parsing scenario file", err)
	}
	return s, nil
}

// build constructs and finalizes a Network from the scenario.
func (s *Scenario) build() (*network.Network, error) {
	n := 0
	for _, spec := range s.Neurons {
		if spec.Index+1 > n {
			n = spec.Index + 1
		}
	}

	net := network.New(n, s.Network)
	for _, spec := range s.Neurons {
		if err := net.AddNeuron(spec.Index, spec.A, spec.B, spec.C, spec.D, spec.U, spec.V, spec.Sigma); err != nil {
			return nil, err
		}
	}
	for _, spec := range s.Synapses {
		if _, err := net.AddSynapse(spec.Source, spec.Target, spec.Delay, spec.Weight, spec.Plastic); err != nil {
			return nil, err
		}
	}
	if s.Stdp != nil {
		if err := net.SetStdpFunction(s.Stdp.Prefire, s.Stdp.Postfire, s.Stdp.MinWeight, s.Stdp.MaxWeight); err != nil {
			return nil, err
		}
	}
	if err := net.Finalize(); err != nil {
		return nil, err
	}
	return net, nil
}
