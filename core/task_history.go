package core

import (
	"reflect"
	"runtime"
	"sync"
)

const defaultTaskHistoryCapacity = 100

// executionHistory keeps the last limit execution records.
// records grows up to limit and then wraps; next is the slot written next.
type executionHistory struct {
	mu      sync.Mutex
	records []TaskExecutionRecord
	next    int
	limit   int
}

func newExecutionHistory(capacity int) *executionHistory {
	switch {
	case capacity < 0:
		capacity = 0
	case capacity == 0:
		capacity = defaultTaskHistoryCapacity
	}
	return &executionHistory{limit: capacity}
}

// Enabled is false for a history created with a negative capacity.
func (h *executionHistory) Enabled() bool {
	return h.limit > 0
}

func (h *executionHistory) Add(rec TaskExecutionRecord) {
	if h.limit == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) < h.limit {
		h.records = append(h.records, rec)
	} else {
		h.records[h.next] = rec
	}
	h.next = (h.next + 1) % h.limit
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (h *executionHistory) Recent(limit int) []TaskExecutionRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.records)
	if n == 0 {
		return nil
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]TaskExecutionRecord, limit)
	for i := range out {
		out[i] = h.records[(h.next-1-i+n)%n]
	}
	return out
}

// taskName returns name, or the symbol of task's function when name is empty.
func taskName(name string, task Task) string {
	if name != "" {
		return name
	}
	if fn := runtime.FuncForPC(reflect.ValueOf(task).Pointer()); fn != nil && fn.Name() != "" {
		return fn.Name()
	}
	return "anonymous"
}
