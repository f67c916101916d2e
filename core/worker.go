package core

import (
	"math/rand/v2"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// Worker is one goroutine plus its private task deque.
//
// The owner pops from the back of queue; thieves pop from the front. queue is
// only touched while holding mu, and no goroutine ever holds two Workers' mu
// at once.
type Worker struct {
	id int

	mu    sync.Mutex
	queue taskDeque

	// rng is only used by the worker's own goroutine.
	rng *rand.Rand

	executed atomic.Uint64
	stolen   atomic.Uint64
}

func newWorker(id int, seed uint64) *Worker {
	return &Worker{
		id:    id,
		queue: newTaskDeque(),
		rng:   rand.New(rand.NewPCG(seed, uint64(id)+1)),
	}
}

// ID returns the worker's index in its pool.
func (w *Worker) ID() int {
	return w.id
}

func (w *Worker) push(item TaskItem) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue.PushBack(item)
	return w.queue.Len()
}

func (w *Worker) popBack() (TaskItem, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.PopBack()
}

func (w *Worker) popFront() (TaskItem, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.PopFront()
}

func (w *Worker) clear() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.Clear()
}

func (w *Worker) queued() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.Len()
}

func (w *Worker) stats() WorkerStats {
	return WorkerStats{
		ID:       w.id,
		Queued:   w.queued(),
		Executed: w.executed.Load(),
		Stolen:   w.stolen.Load(),
	}
}

// workerLoop is the main loop for each worker
func (p *Pool) workerLoop(w *Worker) {
	defer p.wg.Done()

	if p.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	for !p.shuttingDown.Load() {
		item, stolen, ok := p.nextTask(w)
		if !ok {
			time.Sleep(p.idleInterval)
			continue
		}
		p.execute(w, item, stolen)
	}
}

// nextTask pops from the worker's own queue, falling back to one steal attempt
// from a random victim (possibly the worker itself).
func (p *Pool) nextTask(w *Worker) (item TaskItem, stolen bool, ok bool) {
	if item, ok = w.popBack(); ok {
		return item, false, true
	}

	victim := p.workers[w.rng.IntN(len(p.workers))]
	if item, ok = victim.popFront(); !ok {
		return TaskItem{}, false, false
	}

	if victim != w {
		w.stolen.Add(1)
		p.stolen.Add(1)
		p.metrics.RecordTaskStolen(p.id)
		return item, true, true
	}
	return item, false, true
}

// execute runs one task to completion and retires it from the unfinished count.
func (p *Pool) execute(w *Worker, item TaskItem, stolen bool) {
	p.active.Add(1)
	startedAt := time.Now()
	panicked := false

	defer func() {
		if rec := recover(); rec != nil {
			panicked = true
			p.metrics.RecordTaskPanic(p.id, rec)
			p.panicHandler.HandlePanic(p.id, w.id, rec, debug.Stack())
		}

		finishedAt := time.Now()
		duration := finishedAt.Sub(startedAt)
		p.metrics.RecordTaskDuration(p.id, duration)
		p.history.Add(TaskExecutionRecord{
			TaskID:     item.ID,
			Name:       item.Name,
			PoolID:     p.id,
			WorkerID:   w.id,
			Stolen:     stolen,
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			Duration:   duration,
			Panicked:   panicked,
		})

		w.executed.Add(1)
		p.executed.Add(1)
		p.active.Add(-1)
		p.unfinished.Add(-1)
	}()

	item.Task()
}
