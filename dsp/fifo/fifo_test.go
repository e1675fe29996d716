package fifo

import (
	"errors"
	"sync"
	"testing"
)

func TestNewRejectsInvalidCapacity(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{0, -1} {
		_, err := New[int](capacity)
		if !errors.Is(err, ErrInvalidCapacity) {
			t.Fatalf("New(%d) error = %v, want ErrInvalidCapacity", capacity, err)
		}
	}
}

func TestPushPullFIFOOrder(t *testing.T) {
	t.Parallel()

	f := MustNew[int](4)

	for i := 1; i <= 3; i++ {
		if !f.Push(i) {
			t.Fatalf("Push(%d) failed on non-full ring", i)
		}
	}

	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", f.Len())
	}

	for want := 1; want <= 3; want++ {
		var got int
		if !f.Pull(&got) {
			t.Fatalf("Pull failed, want %d", want)
		}

		if got != want {
			t.Fatalf("Pull = %d, want %d", got, want)
		}
	}

	got := -7
	if f.Pull(&got) {
		t.Fatal("Pull on empty ring reported a value")
	}

	if got != -7 {
		t.Fatalf("Pull on empty ring modified dst: %d", got)
	}
}

func TestPushBeyondCapacityFails(t *testing.T) {
	t.Parallel()

	f := MustNew[[3]int](5)

	for i := range 5 {
		if !f.Push([3]int{i, i, i}) {
			t.Fatalf("Push %d failed before capacity", i)
		}
	}

	for i := range 3 {
		if f.Push([3]int{99, 99, 99}) {
			t.Fatalf("extra Push %d succeeded on full ring", i)
		}
	}

	for i := range 5 {
		var v [3]int
		if !f.Pull(&v) {
			t.Fatalf("Pull %d failed", i)
		}

		if v != [3]int{i, i, i} {
			t.Fatalf("Pull %d = %v, queued entry corrupted", i, v)
		}
	}
}

func TestWrapAround(t *testing.T) {
	t.Parallel()

	f := MustNew[int](3)

	next := 0
	for round := range 10 {
		for range 2 {
			if !f.Push(next) {
				t.Fatalf("round %d: Push(%d) failed", round, next)
			}
			next++
		}

		for range 2 {
			var v int
			if !f.Pull(&v) {
				t.Fatalf("round %d: Pull failed", round)
			}
		}
	}

	if f.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", f.Len())
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	t.Parallel()

	const total = 20000

	f := MustNew[int](8)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 0; i < total; {
			if f.Push(i) {
				i++
			}
		}
	}()

	want := 0
	for want < total {
		var v int
		if !f.Pull(&v) {
			continue
		}

		if v != want {
			t.Fatalf("received %d, want %d", v, want)
		}
		want++
	}

	wg.Wait()
}

func BenchmarkPushPull(b *testing.B) {
	f := MustNew[[5]int32](5)
	v := [5]int32{0, 1, 2, 3, 4}

	b.ReportAllocs()

	for b.Loop() {
		f.Push(v)

		var out [5]int32
		f.Pull(&out)
	}
}
