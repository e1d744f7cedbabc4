/*
=================================================================================
MAPPER - LOCAL/GLOBAL NEURON INDEX BIJECTION
=================================================================================

The simulation core addresses neurons by dense local index 0..N-1 so that
connectivity matrices and per-neuron state arrays can be plain contiguous
slices. User-facing APIs (network construction, firing output) instead
speak in sparse global indices chosen by whatever assembled the network.
Mapper is the bijection between the two, and additionally groups local
indices into fixed-size partitions, the unit of locality the cycle
pipeline's worker pool uses to split integrate and STDP-accumulate work
across goroutines without splitting a partition across two workers.
=================================================================================
*/

package mapper

import "github.com/SynapticNetworks/nemo/simerr"

// Mapper is immutable once built: a finalized network never changes its
// index assignment.
type Mapper struct {
	partitionSize int
	localToGlobal []int64
	globalToLocal map[int64]int
}

// Builder accumulates global indices in insertion order, then produces a
// Mapper that assigns dense local indices 0..N-1 in that same order.
type Builder struct {
	order         []int64
	seen          map[int64]bool
	partitionSize int
}

// NewBuilder creates a Builder. partitionSize must be >= 1.
func NewBuilder(partitionSize int) *Builder {
	if partitionSize < 1 {
		partitionSize = 1
	}
	return &Builder{
		seen:          make(map[int64]bool),
		partitionSize: partitionSize,
	}
}

// Add registers a global index, assigning it the next dense local index.
// Duplicate global indices fail with InvalidInput.
func (b *Builder) Add(globalIndex int64) error {
	if b.seen[globalIndex] {
		return simerr.Newf(simerr.InvalidInput, "duplicate global index %d", globalIndex)
	}
	b.seen[globalIndex] = true
	b.order = append(b.order, globalIndex)
	return nil
}

// Build finalizes the bijection.
func (b *Builder) Build() *Mapper {
	g2l := make(map[int64]int, len(b.order))
	for i, g := range b.order {
		g2l[g] = i
	}
	return &Mapper{
		partitionSize: b.partitionSize,
		localToGlobal: append([]int64(nil), b.order...),
		globalToLocal: g2l,
	}
}

// N returns the number of neurons in this mapping.
func (m *Mapper) N() int { return len(m.localToGlobal) }

// PartitionSize returns the fixed partition size chosen at construction.
func (m *Mapper) PartitionSize() int { return m.partitionSize }

// PartitionCount returns the number of partitions needed to cover N
// neurons, rounding up.
func (m *Mapper) PartitionCount() int {
	n := m.N()
	if n == 0 {
		return 0
	}
	return (n + m.partitionSize - 1) / m.partitionSize
}

// PartitionOf returns the partition index owning a given local index.
func (m *Mapper) PartitionOf(local int) int {
	return local / m.partitionSize
}

// LocalRange returns the [start, end) local-index range covered by a
// partition.
func (m *Mapper) LocalRange(partition int) (start, end int) {
	start = partition * m.partitionSize
	end = start + m.partitionSize
	if end > m.N() {
		end = m.N()
	}
	return start, end
}

// ToGlobal converts a dense local index to its sparse global index.
// Out-of-range local indices fail with InvalidInput.
func (m *Mapper) ToGlobal(local int) (int64, error) {
	if local < 0 || local >= len(m.localToGlobal) {
		return 0, simerr.Newf(simerr.InvalidInput, "local index %d out of range [0,%d)", local, len(m.localToGlobal))
	}
	return m.localToGlobal[local], nil
}

// ToLocal converts a sparse global index to its dense local index.
// Unknown global indices fail with InvalidInput.
func (m *Mapper) ToLocal(global int64) (int, error) {
	local, ok := m.globalToLocal[global]
	if !ok {
		return 0, simerr.Newf(simerr.InvalidInput, "unknown global index %d", global)
	}
	return local, nil
}
