package core

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// taskDeque is a slice-backed double-ended queue.
// It is not safe for concurrent use; the owning Worker's mutex guards it.
type taskDeque struct {
	tasks []TaskItem
}

func newTaskDeque() taskDeque {
	return taskDeque{tasks: make([]TaskItem, 0, defaultQueueCap)}
}

func (d *taskDeque) PushBack(item TaskItem) {
	d.tasks = append(d.tasks, item)
}

// PopBack removes the most recently pushed task (owner side).
func (d *taskDeque) PopBack() (TaskItem, bool) {
	n := len(d.tasks)
	if n == 0 {
		return TaskItem{}, false
	}

	item := d.tasks[n-1]
	// Zero out the element in the underlying array to prevent memory leak
	d.tasks[n-1] = TaskItem{}
	d.tasks = d.tasks[:n-1]
	d.maybeCompact()

	return item, true
}

// PopFront removes the oldest task (thief side).
func (d *taskDeque) PopFront() (TaskItem, bool) {
	if len(d.tasks) == 0 {
		return TaskItem{}, false
	}

	item := d.tasks[0]
	d.tasks[0] = TaskItem{}
	d.tasks = d.tasks[1:]
	d.maybeCompact()

	return item, true
}

func (d *taskDeque) Len() int {
	return len(d.tasks)
}

// Clear drops every queued task and returns how many were dropped.
func (d *taskDeque) Clear() int {
	n := len(d.tasks)
	// Create a new slice to release all task references
	d.tasks = make([]TaskItem, 0, defaultQueueCap)
	return n
}

func (d *taskDeque) maybeCompact() {
	n := len(d.tasks)
	c := cap(d.tasks)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		d.tasks = make([]TaskItem, 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	newSlice := make([]TaskItem, n, newCap)
	copy(newSlice, d.tasks)
	d.tasks = newSlice
}
