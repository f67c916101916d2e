package core

import (
	"sync"
	"testing"
	"time"
)

// newUnstartedPool builds a Pool whose workers never run, so queue contents
// can be inspected deterministically.
func newUnstartedPool(workers int) *Pool {
	cfg := (&PoolConfig{ID: "unstarted", Workers: workers, Seed: 7}).withDefaults()
	p := &Pool{
		id:                  cfg.ID,
		workers:             make([]*Worker, cfg.Workers),
		idleInterval:        cfg.IdleInterval,
		logger:              cfg.Logger,
		panicHandler:        cfg.PanicHandler,
		metrics:             cfg.Metrics,
		rejectedTaskHandler: cfg.RejectedTaskHandler,
		history:             newExecutionHistory(cfg.HistoryCapacity),
	}
	for i := range p.workers {
		p.workers[i] = newWorker(i, cfg.Seed)
	}
	return p
}

func newTestPool(t *testing.T, workers int) *Pool {
	t.Helper()
	p := NewPoolWithConfig(&PoolConfig{ID: t.Name(), Workers: workers})
	t.Cleanup(p.Close)
	return p
}

type recordingMetrics struct {
	NilMetrics

	mu        sync.Mutex
	durations int
	panics    int
	stolen    int
	discarded int
	rejected  map[string]int
	depths    map[int]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{rejected: make(map[string]int), depths: make(map[int]int)}
}

func (m *recordingMetrics) RecordTaskDuration(poolID string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations++
}

func (m *recordingMetrics) RecordTaskPanic(poolID string, panicInfo any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics++
}

func (m *recordingMetrics) RecordQueueDepth(poolID string, workerID int, depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depths[workerID] = depth
}

func (m *recordingMetrics) RecordTaskRejected(poolID string, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}

func (m *recordingMetrics) RecordTaskStolen(poolID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stolen++
}

func (m *recordingMetrics) RecordTasksDiscarded(poolID string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded += count
}

type recordingPanicHandler struct {
	mu     sync.Mutex
	values []any
	worker []int
}

func (h *recordingPanicHandler) HandlePanic(poolID string, workerID int, panicInfo any, stackTrace []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, panicInfo)
	h.worker = append(h.worker, workerID)
}

func (h *recordingPanicHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.values)
}
