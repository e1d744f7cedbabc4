/*
=================================================================================
NETWORK CONFIGURATION
=================================================================================

YAML-tagged so the CLI front-end (cmd/nemo) can load scenario files
directly into a Config. Every field carries a short trailing comment
stating its role and typical range.
=================================================================================
*/

package network

// Config collects every tunable chosen once, at finalization, and held
// fixed for the lifetime of a Network.
type Config struct {
	MaxDelay         int      `yaml:"max_delay"`          // ring size in cycles, 1-64
	FracBitsOverride *int     `yaml:"frac_bits_override"` // overrides the computed fxp fraction-bit count
	PartitionSize    int      `yaml:"partition_size"`     // neurons per partition, unit of worker-pool/locality chunking
	Workers          int      `yaml:"workers"`            // number of worker goroutines started for each parallel stage; 0 or 1 disables parallelism
	SizeMultiplier   float64  `yaml:"size_multiplier"`    // incoming-queue bin capacity = ceil(maxOutgoingWarps * this), default 0.1
	Seed             uint64   `yaml:"seed"`               // base seed; per-neuron seeds are derived deterministically from it
}

// DefaultConfig returns the documented default tuning.
func DefaultConfig() Config {
	return Config{
		MaxDelay:       64,
		PartitionSize:  128,
		Workers:        1,
		SizeMultiplier: 0.1,
		Seed:           1,
	}
}
