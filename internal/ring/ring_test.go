package ring

import (
	"sync"
	"testing"
)

func TestSPSCCapacity(t *testing.T) {
	q, err := NewSPSC[int](8)
	if err != nil {
		t.Fatal(err)
	}
	for i := range 8 {
		if !q.TryPush(i) {
			t.Fatalf("push %d rejected", i)
		}
	}
	if q.TryPush(8) {
		t.Fatal("ninth push accepted")
	}
	if q.Len() != 8 {
		t.Fatalf("Len() = %d", q.Len())
	}
	for i := range 8 {
		v, ok := q.TryPop()
		if !ok || v != i {
			t.Fatalf("pop %d = %d, %v", i, v, ok)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Fatal("pop from empty queue")
	}
}

func TestSPSCInvalidCapacity(t *testing.T) {
	if _, err := NewSPSC[int](0); err != ErrCapacity {
		t.Fatalf("err = %v", err)
	}
}

func TestSPSCWrapAround(t *testing.T) {
	q, _ := NewSPSC[int](3)
	next := 0
	for round := range 10 {
		for range 2 {
			if !q.TryPush(next) {
				t.Fatalf("round %d: push rejected", round)
			}
			next++
		}
		for k := 2; k > 0; k-- {
			v, ok := q.TryPop()
			if !ok || v != next-k {
				t.Fatalf("round %d: pop = %d, %v", round, v, ok)
			}
		}
	}
}

func TestSPSCConcurrentOrder(t *testing.T) {
	const n = 100000
	q, _ := NewSPSC[int](16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; {
			if q.TryPush(i) {
				i++
			}
		}
	}()

	for want := 0; want < n; {
		v, ok := q.TryPop()
		if !ok {
			continue
		}
		if v != want {
			t.Fatalf("got %d, want %d", v, want)
		}
		want++
	}
	wg.Wait()
}

func TestSPSCPushPopDoesNotAllocate(t *testing.T) {
	q, _ := NewSPSC[[4]float64](4)
	allocs := testing.AllocsPerRun(100, func() {
		q.TryPush([4]float64{1, 2, 3, 4})
		q.TryPop()
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v", allocs)
	}
}

type frame struct{ seq, check int }

func TestTripleLatestWins(t *testing.T) {
	tb := NewTriple(func() *frame { return new(frame) })
	if _, fresh := tb.Front(); fresh {
		t.Fatal("fresh before publish")
	}
	for i := 1; i <= 3; i++ {
		tb.Back().seq = i
		tb.Publish()
	}
	f, fresh := tb.Front()
	if !fresh || f.seq != 3 {
		t.Fatalf("Front() = %d, %v", f.seq, fresh)
	}
	f, fresh = tb.Front()
	if fresh || f.seq != 3 {
		t.Fatalf("second Front() = %d, %v", f.seq, fresh)
	}
}

func TestTripleConcurrentFramesAreWhole(t *testing.T) {
	const n = 50000
	tb := NewTriple(func() *frame { return new(frame) })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= n; i++ {
			b := tb.Back()
			b.seq = i
			b.check = -i
			tb.Publish()
		}
	}()

	last := 0
	for {
		select {
		case <-done:
			f, _ := tb.Front()
			if f.seq != n {
				t.Fatalf("final seq = %d", f.seq)
			}
			return
		default:
		}
		f, _ := tb.Front()
		if f.check != -f.seq {
			t.Fatalf("torn frame: %+v", *f)
		}
		if f.seq < last {
			t.Fatalf("went backwards: %d after %d", f.seq, last)
		}
		last = f.seq
	}
}
