package core

import (
	"runtime"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleInterval is how long an idle worker, or a waiting caller, sleeps
// before looking for work again.
const DefaultIdleInterval = time.Millisecond

// PoolConfig holds configuration options for Pool.
// All handlers are optional; if not provided, default implementations will be used.
type PoolConfig struct {
	// ID names the pool in logs, metrics and execution records.
	// Defaults to "pool-<uuid>".
	ID string

	// Workers is the number of workers. Values <= 0 use runtime.GOMAXPROCS(0), minimum 1.
	Workers int

	// IdleInterval is the sleep between polls of idle workers and Wait* calls.
	// Defaults to DefaultIdleInterval.
	IdleInterval time.Duration

	// Seed decorrelates victim selection between pools. Each worker mixes in its own index.
	Seed uint64

	// HistoryCapacity bounds RecentTasks. 0 uses the default of 100, negative disables history.
	HistoryCapacity int

	// LockOSThread pins every worker goroutine to its own OS thread.
	LockOSThread bool

	// Logger receives lifecycle logs. Defaults to NoOpLogger.
	Logger Logger

	// PanicHandler is called when a task panics. Defaults to DefaultPanicHandler.
	PanicHandler PanicHandler

	// Metrics is called to record task execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// RejectedTaskHandler is called when Insert drops a task. Defaults to DefaultRejectedTaskHandler.
	RejectedTaskHandler RejectedTaskHandler
}

// DefaultPoolConfig returns a config with default handlers.
func DefaultPoolConfig() *PoolConfig {
	logger := NewNoOpLogger()
	return &PoolConfig{
		IdleInterval:        DefaultIdleInterval,
		Logger:              logger,
		PanicHandler:        &DefaultPanicHandler{},
		Metrics:             &NilMetrics{},
		RejectedTaskHandler: &DefaultRejectedTaskHandler{Logger: logger},
	}
}

// ResolveWorkerCount clamps a requested worker count the way NewPool does.
func ResolveWorkerCount(requested int) int {
	if requested > 0 {
		return requested
	}
	return max(1, runtime.GOMAXPROCS(0))
}

// withDefaults returns a copy of c with every unset field filled in.
func (c *PoolConfig) withDefaults() PoolConfig {
	var out PoolConfig
	if c != nil {
		out = *c
	}

	out.Workers = ResolveWorkerCount(out.Workers)
	if out.ID == "" {
		out.ID = "pool-" + uuid.NewString()
	}
	if out.IdleInterval <= 0 {
		out.IdleInterval = DefaultIdleInterval
	}
	if out.Logger == nil {
		out.Logger = NewNoOpLogger()
	}
	if out.PanicHandler == nil {
		out.PanicHandler = &DefaultPanicHandler{}
	}
	if out.Metrics == nil {
		out.Metrics = &NilMetrics{}
	}
	if out.RejectedTaskHandler == nil {
		out.RejectedTaskHandler = &DefaultRejectedTaskHandler{Logger: out.Logger}
	}
	return out
}
