// Package stealpool provides a fixed-size, work-stealing worker pool for Go.
//
// Each worker owns a private double-ended queue. Tasks are inserted round robin
// across the workers; a worker drains its own queue newest-first and, when it
// runs dry, steals the oldest task from a randomly chosen sibling. Tasks are
// fire-and-forget closures: the pool only tracks how many are still
// unfinished, which is what the Wait family observes.
//
// # Quick Start
//
//	pool := stealpool.NewPool(4) // 4 workers, 0 means GOMAXPROCS
//	defer pool.Close()
//
//	pool.Insert(func() {
//		// Your code here
//	})
//	pool.Each(0, 1, 100, func(i int) {
//		// One task per index
//	})
//
//	if !pool.WaitFor(5 * time.Second) {
//		// still busy
//	}
//
// # Key Concepts
//
// Worker: one goroutine plus its task deque. The owner pops from the back,
// thieves pop from the front, and no goroutine ever holds two workers' locks.
//
// Clear: discards every queued task that has not started yet and waits for the
// ones that already started. Inserts made while Clear runs are dropped.
//
// Close: clears the pool, stops every worker and joins them. Inserts after
// Close are rejected.
//
// # Failure Handling
//
// A panicking task is recovered on its worker and handed to the configured
// core.PanicHandler; the task still counts as finished. Use
// core.FatalPanicHandler to make any task panic terminate the process.
//
// # Observability
//
// Pool.Stats, Pool.WorkerStats and Pool.RecentTasks expose runtime state.
// The observability/prometheus package exports the core.Metrics hooks and
// periodic Stats snapshots to Prometheus.
package stealpool
