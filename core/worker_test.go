package core

import (
	"errors"
	"testing"
)

// TestWorker_OwnQueueIsLIFO verifies a worker drains its own queue newest-first
// Given: an unstarted pool whose worker 0 holds tasks a, b, c
// When: worker 0 asks for its next task
// Then: it gets c, and the task is not counted as stolen
func TestWorker_OwnQueueIsLIFO(t *testing.T) {
	// Arrange
	p := newUnstartedPool(2)
	w := p.workers[0]
	for _, name := range []string{"a", "b", "c"} {
		w.push(itemNamed(name))
	}

	// Act
	item, stolen, ok := p.nextTask(w)

	// Assert
	if !ok || item.Name != "c" {
		t.Fatalf("nextTask() = %q, ok=%v; want \"c\", true", item.Name, ok)
	}
	if stolen {
		t.Error("own-queue pop reported as stolen")
	}
}

// TestWorker_StealTakesOldest verifies stealing pops the front of the victim
// Given: worker 0 holds tasks a, b, c and worker 1 is empty
// When: worker 1 asks for work until a steal succeeds
// Then: it steals a, and the steal is counted once
func TestWorker_StealTakesOldest(t *testing.T) {
	// Arrange
	metrics := newRecordingMetrics()
	p := newUnstartedPool(2)
	p.metrics = metrics
	victim, thief := p.workers[0], p.workers[1]
	for _, name := range []string{"a", "b", "c"} {
		victim.push(itemNamed(name))
	}

	// Act - victim choice is random, so retry until worker 0 is picked
	var (
		item   TaskItem
		stolen bool
		ok     bool
	)
	for range 1000 {
		if item, stolen, ok = p.nextTask(thief); ok {
			break
		}
	}

	// Assert
	if !ok {
		t.Fatal("thief never obtained a task in 1000 attempts")
	}
	if item.Name != "a" || !stolen {
		t.Errorf("stole %q (stolen=%v), want \"a\" (stolen=true)", item.Name, stolen)
	}
	if thief.stolen.Load() != 1 || p.stolen.Load() != 1 || metrics.stolen != 1 {
		t.Errorf("steal counters = worker %d, pool %d, metrics %d; want 1 each",
			thief.stolen.Load(), p.stolen.Load(), metrics.stolen)
	}
	if victim.queued() != 2 {
		t.Errorf("victim queue = %d, want 2", victim.queued())
	}
}

// TestWorker_NothingToSteal verifies an idle worker reports no work
func TestWorker_NothingToSteal(t *testing.T) {
	p := newUnstartedPool(3)

	for range 50 {
		if _, _, ok := p.nextTask(p.workers[1]); ok {
			t.Fatal("nextTask() on empty pool = true, want false")
		}
	}
}

// TestWorker_ExecuteRecoversPanic verifies a panicking task is retired normally
// Given: an unstarted pool with a recording panic handler and one accepted task that panics
// When: the worker executes it
// Then: the handler sees the panic, the unfinished count drops to zero, and history marks it panicked
func TestWorker_ExecuteRecoversPanic(t *testing.T) {
	// Arrange
	handler := &recordingPanicHandler{}
	metrics := newRecordingMetrics()
	p := newUnstartedPool(1)
	p.panicHandler = handler
	p.metrics = metrics

	boom := errors.New("boom")
	p.InsertNamed("exploding", func() { panic(boom) })
	item, _, ok := p.nextTask(p.workers[0])
	if !ok {
		t.Fatal("nextTask() = false, want the inserted task")
	}

	// Act
	p.execute(p.workers[0], item, false)

	// Assert
	if handler.count() != 1 || handler.values[0] != boom || handler.worker[0] != 0 {
		t.Errorf("panic handler got %v on workers %v, want [boom] on [0]", handler.values, handler.worker)
	}
	if !p.Poll() {
		t.Errorf("Poll() = false after panicking task, unfinished = %d", p.Unfinished())
	}
	if metrics.panics != 1 || metrics.durations != 1 {
		t.Errorf("metrics panics=%d durations=%d, want 1 and 1", metrics.panics, metrics.durations)
	}
	records := p.RecentTasks(1)
	if len(records) != 1 || !records[0].Panicked || records[0].Name != "exploding" {
		t.Errorf("RecentTasks(1) = %+v, want one panicked record named exploding", records)
	}
	if p.ActiveTaskCount() != 0 {
		t.Errorf("ActiveTaskCount() = %d, want 0", p.ActiveTaskCount())
	}
}

// TestFatalPanicHandler_Repanics verifies the fatal handler re-raises
func TestFatalPanicHandler_Repanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FatalPanicHandler.HandlePanic did not panic")
		}
	}()
	(&FatalPanicHandler{}).HandlePanic("pool", 3, "bad", nil)
}
