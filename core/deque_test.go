package core

import "testing"

func itemNamed(name string) TaskItem {
	return TaskItem{Name: name, Task: func() {}}
}

// TestTaskDeque_Ends verifies the owner and thief ends of the deque
// Given: a deque with tasks a, b, c pushed in order
// When: PopBack and PopFront are called
// Then: PopBack returns the newest task and PopFront the oldest
func TestTaskDeque_Ends(t *testing.T) {
	// Arrange
	d := newTaskDeque()
	d.PushBack(itemNamed("a"))
	d.PushBack(itemNamed("b"))
	d.PushBack(itemNamed("c"))

	// Act
	back, okBack := d.PopBack()
	front, okFront := d.PopFront()

	// Assert
	if !okBack || back.Name != "c" {
		t.Errorf("PopBack() = %q, %v; want \"c\", true", back.Name, okBack)
	}
	if !okFront || front.Name != "a" {
		t.Errorf("PopFront() = %q, %v; want \"a\", true", front.Name, okFront)
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}

// TestTaskDeque_Empty verifies pops on an empty deque
// Given: an empty deque
// When: PopBack and PopFront are called
// Then: both report false
func TestTaskDeque_Empty(t *testing.T) {
	d := newTaskDeque()

	if _, ok := d.PopBack(); ok {
		t.Error("PopBack() on empty deque = true, want false")
	}
	if _, ok := d.PopFront(); ok {
		t.Error("PopFront() on empty deque = true, want false")
	}
}

// TestTaskDeque_Clear verifies Clear reports and drops queued tasks
func TestTaskDeque_Clear(t *testing.T) {
	d := newTaskDeque()
	for range 5 {
		d.PushBack(itemNamed("x"))
	}

	if got := d.Clear(); got != 5 {
		t.Errorf("Clear() = %d, want 5", got)
	}
	if d.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", d.Len())
	}
}

// TestTaskDeque_Compaction verifies a sparse backing array is shrunk
// Given: a deque that grew to 256 tasks
// When: all but 8 are popped from the front
// Then: capacity shrinks below the high-water mark and the rest stay in order
func TestTaskDeque_Compaction(t *testing.T) {
	// Arrange
	d := newTaskDeque()
	for i := range 256 {
		d.PushBack(TaskItem{Name: string(rune('A' + i%26)), Task: func() {}})
	}
	highWater := cap(d.tasks)

	// Act
	for range 248 {
		d.PopFront()
	}

	// Assert
	if cap(d.tasks) >= highWater {
		t.Errorf("cap = %d, want < %d after compaction", cap(d.tasks), highWater)
	}
	if d.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", d.Len())
	}
	first, _ := d.PopFront()
	if want := string(rune('A' + 248%26)); first.Name != want {
		t.Errorf("first remaining = %q, want %q", first.Name, want)
	}
}
