package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Pool is a fixed set of Workers with per-worker queues and work stealing.
//
// Insert spreads tasks round robin over the workers. Each worker drains its
// own queue newest-first and, when that is empty, steals the oldest task of a
// randomly chosen sibling. Tasks run to completion on whichever worker
// dequeued them; there is no ordering guarantee between tasks.
//
// Clear, Wait and Close must not be called from a task running on the same
// pool: they wait for the unfinished count to reach zero, and that count
// includes the calling task.
type Pool struct {
	id           string
	workers      []*Worker
	idleInterval time.Duration
	lockOSThread bool

	logger              Logger
	panicHandler        PanicHandler
	metrics             Metrics
	rejectedTaskHandler RejectedTaskHandler
	history             *executionHistory

	// Accepted but not yet finished or discarded.
	unfinished atomic.Int64
	// Round robin cursor; the target is next % len(workers).
	next         atomic.Uint64
	clearing     atomic.Int32
	shuttingDown atomic.Bool
	closed       atomic.Bool

	active    atomic.Int32
	executed  atomic.Uint64
	stolen    atomic.Uint64
	rejected  atomic.Uint64
	discarded atomic.Uint64

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPool creates a pool with the given number of workers and starts them.
// threads <= 0 uses runtime.GOMAXPROCS(0), minimum 1.
func NewPool(threads int) *Pool {
	config := DefaultPoolConfig()
	config.Workers = threads
	return NewPoolWithConfig(config)
}

// NewPoolWithConfig creates a pool from config and starts its workers.
// A nil config is equivalent to DefaultPoolConfig().
func NewPoolWithConfig(config *PoolConfig) *Pool {
	cfg := config.withDefaults()

	p := &Pool{
		id:                  cfg.ID,
		workers:             make([]*Worker, cfg.Workers),
		idleInterval:        cfg.IdleInterval,
		lockOSThread:        cfg.LockOSThread,
		logger:              cfg.Logger,
		panicHandler:        cfg.PanicHandler,
		metrics:             cfg.Metrics,
		rejectedTaskHandler: cfg.RejectedTaskHandler,
		history:             newExecutionHistory(cfg.HistoryCapacity),
	}
	for i := range p.workers {
		p.workers[i] = newWorker(i, cfg.Seed)
	}

	p.wg.Add(len(p.workers))
	for _, w := range p.workers {
		go p.workerLoop(w)
	}

	p.logger.Info("pool started", F("pool", p.id), F("workers", len(p.workers)))
	return p
}

// ID returns the ID of the pool
func (p *Pool) ID() string {
	return p.id
}

// WorkerCount returns the number of workers
func (p *Pool) WorkerCount() int {
	return len(p.workers)
}

// Insert queues task on the next worker in round robin order.
//
// While a Clear is in progress, after Close, or for a nil task, the task is
// dropped without being counted and the RejectedTaskHandler is notified.
func (p *Pool) Insert(task Task) {
	p.InsertNamed("", task)
}

// InsertNamed is Insert with a display name used in execution records.
func (p *Pool) InsertNamed(name string, task Task) {
	if task == nil {
		p.reject(RejectReasonNilTask)
		return
	}
	if p.closed.Load() {
		p.reject(RejectReasonClosed)
		return
	}
	if p.clearing.Load() != 0 {
		p.reject(RejectReasonClearing)
		return
	}

	item := TaskItem{Name: name, Task: task}
	if p.history.Enabled() {
		item.ID = NewTaskID()
		item.Name = taskName(name, task)
	}

	p.unfinished.Add(1)
	w := p.workers[(p.next.Add(1)-1)%uint64(len(p.workers))]
	depth := w.push(item)
	p.metrics.RecordQueueDepth(p.id, w.id, depth)

	// Close may have run to completion between the closed check and the push.
	// Its final sweep then missed this task and no worker is left to run it.
	if p.shuttingDown.Load() {
		p.sweepAfterClose()
	}
}

func (p *Pool) reject(reason string) {
	p.rejected.Add(1)
	p.rejectedTaskHandler.HandleRejectedTask(p.id, reason)
	p.metrics.RecordTaskRejected(p.id, reason)
}

// Clear discards every queued task, then waits for tasks that were already
// running to finish. Inserts made while Clear runs are dropped.
// It returns the number of discarded tasks.
func (p *Pool) Clear() int {
	p.clearing.Add(1)
	defer p.clearing.Add(-1)

	discarded := p.sweep()
	p.Wait()

	p.logger.Info("pool cleared", F("pool", p.id), F("discarded", discarded))
	return discarded
}

// sweep empties every worker queue, one worker lock at a time.
func (p *Pool) sweep() int {
	discarded := 0
	for _, w := range p.workers {
		n := w.clear()
		p.unfinished.Add(-int64(n))
		discarded += n
	}
	if discarded > 0 {
		p.discarded.Add(uint64(discarded))
		p.metrics.RecordTasksDiscarded(p.id, discarded)
	}
	return discarded
}

// sweepAfterClose discards tasks queued by Inserts that raced Close.
func (p *Pool) sweepAfterClose() {
	if n := p.sweep(); n > 0 {
		p.logger.Warn("discarded tasks queued during close", F("pool", p.id), F("discarded", n))
	}
}

// Poll reports whether every accepted task has finished or been discarded.
func (p *Pool) Poll() bool {
	return p.unfinished.Load() == 0
}

// Wait blocks until Poll reports true.
func (p *Pool) Wait() {
	for !p.Poll() {
		time.Sleep(p.idleInterval)
	}
}

// WaitFor is WaitUntil(time.Now().Add(timeout)).
func (p *Pool) WaitFor(timeout time.Duration) bool {
	return p.WaitUntil(time.Now().Add(timeout))
}

// WaitUntil blocks until the pool is quiescent or deadline passes.
// It returns false on timeout. The pool is checked at least once, even for a
// deadline in the past.
func (p *Pool) WaitUntil(deadline time.Time) bool {
	for {
		if p.Poll() {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		time.Sleep(min(p.idleInterval, remaining))
	}
}

// WaitContext blocks until the pool is quiescent or ctx is done.
func (p *Pool) WaitContext(ctx context.Context) error {
	if p.Poll() {
		return nil
	}

	ticker := time.NewTicker(p.idleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if p.Poll() {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if p.Poll() {
				return nil
			}
		}
	}
}

// Close discards queued tasks, waits for running ones, and stops every worker.
// Later calls are no-ops; Inserts after Close are rejected.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.Clear()

		p.shuttingDown.Store(true)
		p.wg.Wait()

		// Inserts that passed the closed check before it was set may have
		// queued work no worker will ever run.
		p.sweepAfterClose()

		p.logger.Info("pool closed", F("pool", p.id))
	})
}

// IsRunning returns whether the pool's workers are still running.
func (p *Pool) IsRunning() bool {
	return !p.shuttingDown.Load()
}

// Unfinished returns the number of accepted tasks not yet finished or discarded.
func (p *Pool) Unfinished() int {
	return int(p.unfinished.Load())
}

// QueuedTaskCount returns the number of tasks waiting in worker queues.
func (p *Pool) QueuedTaskCount() int {
	total := 0
	for _, w := range p.workers {
		total += w.queued()
	}
	return total
}

// ActiveTaskCount returns the number of tasks currently executing.
func (p *Pool) ActiveTaskCount() int {
	return int(p.active.Load())
}

// Stats returns current observability data for this pool.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		ID:         p.id,
		Workers:    len(p.workers),
		Queued:     p.QueuedTaskCount(),
		Unfinished: p.Unfinished(),
		Active:     p.ActiveTaskCount(),
		Executed:   p.executed.Load(),
		Stolen:     p.stolen.Load(),
		Rejected:   p.rejected.Load(),
		Discarded:  p.discarded.Load(),
		Clearing:   p.clearing.Load() != 0,
		Running:    p.IsRunning(),
	}
}

// WorkerStats returns per-worker observability data, indexed by worker ID.
func (p *Pool) WorkerStats() []WorkerStats {
	out := make([]WorkerStats, len(p.workers))
	for i, w := range p.workers {
		out[i] = w.stats()
	}
	return out
}

// RecentTasks returns completed task execution records in newest-first order.
func (p *Pool) RecentTasks(limit int) []TaskExecutionRecord {
	return p.history.Recent(limit)
}
