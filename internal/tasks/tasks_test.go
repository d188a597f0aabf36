package tasks

import "testing"

func TestDrainRunsInEnqueueOrder(t *testing.T) {
	q := NewQueue()
	var order []string
	q.Defer("a", func() { order = append(order, "a") })
	q.Defer("b", func() { order = append(order, "b") })
	q.Defer("c", func() { order = append(order, "c") })

	if n := q.Drain(); n != 3 {
		t.Fatalf("expected 3 tasks drained, got %d", n)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("wrong order: %v", order)
	}
}

func TestDrainEmptyQueue(t *testing.T) {
	q := NewQueue()
	if n := q.Drain(); n != 0 {
		t.Errorf("expected 0 from empty drain, got %d", n)
	}
}

func TestTaskEnqueuedDuringDrainRunsNextDrain(t *testing.T) {
	q := NewQueue()
	ran := false
	q.Defer("outer", func() {
		q.Defer("inner", func() { ran = true })
	})

	if n := q.Drain(); n != 1 {
		t.Fatalf("expected 1 task in first drain, got %d", n)
	}
	if ran {
		t.Error("inner task must not run in the same drain")
	}
	if n := q.Drain(); n != 1 {
		t.Fatalf("expected 1 task in second drain, got %d", n)
	}
	if !ran {
		t.Error("inner task should have run on the second drain")
	}
}
