package core

import "github.com/google/uuid"

// Task is the unit of work (Closure)
type Task func()

// TaskID identifies one accepted task in execution records.
type TaskID = uuid.UUID

// NewTaskID returns a fresh random TaskID.
func NewTaskID() TaskID {
	return uuid.New()
}

// TaskItem is what a worker queue holds.
type TaskItem struct {
	ID   TaskID
	Name string
	Task Task
}
