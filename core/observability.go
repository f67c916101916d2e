package core

import "time"

// TaskExecutionRecord captures a completed task execution event.
type TaskExecutionRecord struct {
	TaskID     TaskID
	Name       string
	PoolID     string
	WorkerID   int
	Stolen     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Panicked   bool
}

// PoolStats represents runtime observability state for a pool.
type PoolStats struct {
	ID         string
	Workers    int
	Queued     int
	Unfinished int
	Active     int
	Executed   uint64
	Stolen     uint64
	Rejected   uint64
	Discarded  uint64
	Clearing   bool
	Running    bool
}

// WorkerStats represents runtime observability state for one worker.
type WorkerStats struct {
	ID       int
	Queued   int
	Executed uint64
	Stolen   uint64
}
