package executor

import (
	"sync/atomic"
	"testing"
)

func TestSingleThreadExecutorRunsInOrder(t *testing.T) {
	exec := NewSingleThreadExecutor()
	var order []int
	for i := 0; i < 5; i++ {
		idx := i
		exec.Submit(func() { order = append(order, idx) })
	}
	exec.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("expected in-order execution, got %v", order)
		}
	}
}

func TestThreadPoolExecutorRunsAll(t *testing.T) {
	exec := NewThreadPoolExecutor()
	var count int64
	for i := 0; i < 100; i++ {
		exec.Submit(func() { atomic.AddInt64(&count, 1) })
	}
	exec.Wait()

	if count != 100 {
		t.Errorf("expected 100 completions, got %d", count)
	}
}

func TestParallelForVisitsEveryIndex(t *testing.T) {
	n := 50
	seen := make([]int32, n)
	ParallelFor(n, NewThreadPoolExecutor(), func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, v := range seen {
		if v != 1 {
			t.Errorf("index %d visited %d times, want 1", i, v)
		}
	}
}
