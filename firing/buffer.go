/*
=================================================================================
FIRING BUFFER - APPEND-ONLY PRODUCER/CONSUMER OUTPUT QUEUE
=================================================================================

The cycle pipeline pushes (cycle, localIndex) pairs for every neuron that
fires, natural or forced. Network.ReadFiring flushes everything
accumulated since the last read and advances the cursor. Entries are
always ordered by cycle then by local index, a record-now-flush-later
idiom rather than notifying synchronously on every firing.
=================================================================================
*/

package firing

// Entry is one fired-neuron observation.
type Entry struct {
	Cycle uint64
	Local int
}

// Buffer is a single-producer single-consumer append/flush queue.
type Buffer struct {
	entries []Entry
	cursor  int
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Push appends an entry. Within one cycle, callers must push in increasing
// local-index order (CyclePipeline iterates neurons in local-index order),
// which combined with monotonically increasing cycle numbers satisfies the
// cycle-then-index ordering invariant without an explicit sort.
func (b *Buffer) Push(cycle uint64, local int) {
	b.entries = append(b.entries, Entry{Cycle: cycle, Local: local})
}

// Flush returns every entry pushed since the last Flush and advances the
// read cursor, then compacts the backing array so a long-running
// simulation doesn't retain every cycle's firings forever.
func (b *Buffer) Flush() []Entry {
	pending := b.entries[b.cursor:]
	out := make([]Entry, len(pending))
	copy(out, pending)

	b.entries = b.entries[:0]
	b.cursor = 0
	return out
}
