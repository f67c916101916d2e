package core

import (
	"fmt"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a task panics during execution.
// The worker has already recovered the panic; the task counts as finished
// once HandlePanic returns.
//
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called when a task panics.
	//
	// Parameters:
	// - poolID: The ID of the pool that ran the task
	// - workerID: The index of the worker that ran the task
	// - panicInfo: The panic value recovered from the task
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(poolID string, workerID int, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler logs the panic and lets the worker continue.
type DefaultPanicHandler struct {
	Logger Logger
}

// HandlePanic logs panic information. Without a Logger it prints to stdout.
func (h *DefaultPanicHandler) HandlePanic(poolID string, workerID int, panicInfo any, stackTrace []byte) {
	if h.Logger != nil {
		h.Logger.Error("task panicked",
			F("pool", poolID), F("worker", workerID), F("panic", panicInfo), F("stack", string(stackTrace)))
		return
	}
	fmt.Printf("[Worker %d @ %s] Panic: %v\nStack trace:\n%s",
		workerID, poolID, panicInfo, stackTrace)
}

// FatalPanicHandler re-raises the panic on the worker goroutine, which
// terminates the process. Use it when a failing task must never be survived.
type FatalPanicHandler struct{}

// HandlePanic panics with the original value and the task's stack trace.
func (h *FatalPanicHandler) HandlePanic(poolID string, workerID int, panicInfo any, stackTrace []byte) {
	panic(fmt.Sprintf("stealpool: task panicked on worker %d @ %s: %v\n%s",
		workerID, poolID, panicInfo, stackTrace))
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting pool metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods are called from worker goroutines and from Insert; they should be
// non-blocking and fast to avoid impacting task execution performance.
type Metrics interface {
	// RecordTaskDuration records how long a task took to execute.
	RecordTaskDuration(poolID string, duration time.Duration)

	// RecordTaskPanic records that a task panicked during execution.
	RecordTaskPanic(poolID string, panicInfo any)

	// RecordQueueDepth records the depth of one worker queue right after a push.
	RecordQueueDepth(poolID string, workerID int, depth int)

	// RecordTaskRejected records that Insert dropped a task.
	RecordTaskRejected(poolID string, reason string)

	// RecordTaskStolen records that a worker took a task from a sibling queue.
	RecordTaskStolen(poolID string)

	// RecordTasksDiscarded records how many queued tasks a Clear dropped.
	RecordTasksDiscarded(poolID string, count int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

func (m *NilMetrics) RecordTaskDuration(poolID string, duration time.Duration) {}
func (m *NilMetrics) RecordTaskPanic(poolID string, panicInfo any)             {}
func (m *NilMetrics) RecordQueueDepth(poolID string, workerID int, depth int)   {}
func (m *NilMetrics) RecordTaskRejected(poolID string, reason string)           {}
func (m *NilMetrics) RecordTaskStolen(poolID string)                            {}
func (m *NilMetrics) RecordTasksDiscarded(poolID string, count int)             {}

// =============================================================================
// RejectedTaskHandler: Interface for handling rejected tasks
// =============================================================================

// Reasons passed to RejectedTaskHandler and Metrics.RecordTaskRejected.
const (
	RejectReasonClearing = "clearing"
	RejectReasonClosed   = "closed"
	RejectReasonNilTask  = "nil task"
)

// RejectedTaskHandler is called when Insert drops a task instead of queueing it.
// This happens when:
// - A Clear is in progress
// - The pool has been closed
// - The task is nil
//
// Implementations should be thread-safe as they may be called concurrently.
type RejectedTaskHandler interface {
	HandleRejectedTask(poolID string, reason string)
}

// DefaultRejectedTaskHandler logs rejected tasks at debug level.
// Rejection during Clear is expected behaviour, so nothing is printed without a Logger.
type DefaultRejectedTaskHandler struct {
	Logger Logger
}

// HandleRejectedTask logs the rejected task.
func (h *DefaultRejectedTaskHandler) HandleRejectedTask(poolID string, reason string) {
	if h.Logger == nil {
		return
	}
	h.Logger.Debug("task rejected", F("pool", poolID), F("reason", reason))
}
