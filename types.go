package stealpool

import (
	"iter"

	"github.com/Swind/go-steal-pool/core"
)

// Re-export commonly used types from core package for convenience.
// This allows users to import only the stealpool package for most use cases.

// Task is the unit of work (Closure)
type Task = core.Task

// Pool is the work-stealing pool
type Pool = core.Pool

// PoolConfig holds pool options and handlers
type PoolConfig = core.PoolConfig

// PoolStats and WorkerStats are runtime snapshots
type PoolStats = core.PoolStats
type WorkerStats = core.WorkerStats

// TaskExecutionRecord describes one completed task
type TaskExecutionRecord = core.TaskExecutionRecord

// NewPool creates a pool with the given number of workers and starts them.
// threads <= 0 uses runtime.GOMAXPROCS(0).
func NewPool(threads int) *Pool {
	return core.NewPool(threads)
}

// NewPoolWithConfig creates a pool from config and starts its workers.
func NewPoolWithConfig(config *PoolConfig) *Pool {
	return core.NewPoolWithConfig(config)
}

// DefaultPoolConfig returns a config with default handlers.
var DefaultPoolConfig = core.DefaultPoolConfig

// EachItem inserts one task per element of items.
func EachItem[T any](p *Pool, items []T, fn func(T)) {
	core.EachItem(p, items, fn)
}

// EachSeq inserts one task per value yielded by seq.
func EachSeq[T any](p *Pool, seq iter.Seq[T], fn func(T)) {
	core.EachSeq(p, seq, fn)
}
