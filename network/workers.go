/*
=================================================================================
FIXED WORKER POOL
=================================================================================

The gather, integrate, and scatter stages are trivially parallel across
neurons once a stage's inputs are stabilized. Rather than spinning up a
goroutine per neuron or per synapse, each parallel stage starts a fixed
number of worker goroutines (Config.Workers) and waits for them; the
workers are started afresh on every call, not kept alive between
cycles. Observable output is identical regardless of worker count.

parallelByPartition is that pool. It distributes whole partitions (the
contiguous local-index ranges mapper.Mapper hands out, the same unit
cache/kernel layout reasons about) across a fixed number of worker
goroutines, rather than splitting the neuron range into arbitrary
equal-size chunks - a network with a skewed partition size still gets
partition-aligned work units instead of chunk boundaries that straddle
partitions.
=================================================================================
*/

package network

import (
	"sync"

	"github.com/SynapticNetworks/nemo/mapper"
)

// parallelByPartition runs fn(start,end) once per partition of idx,
// draining a shared queue of partitions across `workers` goroutines, and
// blocks until every partition has run. Because current accumulation is
// fixed-point/saturating (commutative), firings write to distinct slots,
// and scatter only appends to future bins, no ordering guarantee is lost
// by running partitions concurrently.
func parallelByPartition(idx *mapper.Mapper, workers int, fn func(start, end int)) {
	count := idx.PartitionCount()
	if count == 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > count {
		workers = count
	}
	if workers == 1 {
		for p := 0; p < count; p++ {
			start, end := idx.LocalRange(p)
			fn(start, end)
		}
		return
	}

	type span struct{ start, end int }
	jobs := make(chan span, count)
	for p := 0; p < count; p++ {
		start, end := idx.LocalRange(p)
		jobs <- span{start, end}
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				fn(j.start, j.end)
			}
		}()
	}
	wg.Wait()
}
