package mpmcq

import (
	"errors"
	"testing"
)

// Scenarios below are ported directly from the C++ original's test suite
// (original_source/src/mpmc_queue_test.cpp): single-goroutine fill/drain,
// single-slot contention, and invalid-capacity rejection.

func TestNewInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		_, err := New[int](capacity)
		if !errors.Is(err, ErrInvalidCapacity) {
			t.Fatalf("New(%d): got err=%v, want ErrInvalidCapacity", capacity, err)
		}
	}
}

func TestCap(t *testing.T) {
	q, err := New[int](11)
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	if got := q.Cap(); got != 11 {
		t.Fatalf("Cap() = %d, want 11 (capacity is exact, not rounded)", got)
	}
}

func TestSingleGoroutineFillDrain(t *testing.T) {
	q, err := New[int](11)
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	if q.Len() != 0 || !q.Empty() {
		t.Fatalf("new queue: Len()=%d Empty()=%v, want 0/true", q.Len(), q.Empty())
	}

	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	if q.Len() != 10 || q.Empty() {
		t.Fatalf("after 10 pushes: Len()=%d Empty()=%v, want 10/false", q.Len(), q.Empty())
	}

	q.Pop()
	if q.Len() != 9 || q.Empty() {
		t.Fatalf("after 1 pop: Len()=%d Empty()=%v, want 9/false", q.Len(), q.Empty())
	}

	q.Pop()
	q.Push(99)
	if q.Len() != 9 || q.Empty() {
		t.Fatalf("after pop+push: Len()=%d Empty()=%v, want 9/false", q.Len(), q.Empty())
	}
}

func TestSingleSlotContention(t *testing.T) {
	q, err := New[int](1)
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	if ok := q.TryPush(1); !ok {
		t.Fatal("TryPush(1) on empty capacity-1 queue: want true")
	}
	if q.Len() != 1 || q.Empty() {
		t.Fatalf("after TryPush: Len()=%d Empty()=%v, want 1/false", q.Len(), q.Empty())
	}
	if ok := q.TryPush(2); ok {
		t.Fatal("TryPush(2) on full capacity-1 queue: want false")
	}

	v, ok := q.TryPop()
	if !ok || v != 1 {
		t.Fatalf("TryPop() = (%d, %v), want (1, true)", v, ok)
	}
	if q.Len() != 0 || !q.Empty() {
		t.Fatalf("after TryPop: Len()=%d Empty()=%v, want 0/true", q.Len(), q.Empty())
	}

	v, ok = q.TryPop()
	if ok {
		t.Fatalf("TryPop() on empty queue: got (%d, true), want (_, false)", v)
	}
}

func TestFIFOSingleProducer(t *testing.T) {
	q, err := New[int](4)
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	for i := 0; i < 100; i++ {
		q.Push(i)
		if v := q.Pop(); v != i {
			t.Fatalf("Pop() = %d, want %d", v, i)
		}
	}
}

func TestTryPushTryPopAcrossLaps(t *testing.T) {
	q, err := New[int](3)
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	for lap := 0; lap < 5; lap++ {
		for i := 0; i < 3; i++ {
			if !q.TryPush(lap*3 + i) {
				t.Fatalf("lap %d: TryPush(%d) failed", lap, i)
			}
		}
		if q.TryPush(-1) {
			t.Fatalf("lap %d: TryPush on full queue should fail", lap)
		}
		for i := 0; i < 3; i++ {
			v, ok := q.TryPop()
			if !ok || v != lap*3+i {
				t.Fatalf("lap %d: TryPop() = (%d, %v), want (%d, true)", lap, v, ok, lap*3+i)
			}
		}
		if _, ok := q.TryPop(); ok {
			t.Fatalf("lap %d: TryPop on empty queue should fail", lap)
		}
	}
}
