package seq_test

import (
	"sync"
	"testing"

	"github.com/taskmill/taskmill/seq"
)

func TestInput_ProducerCalledOncePerPosition(t *testing.T) {
	calls := 0
	in := seq.NewInput(func() (int, bool) {
		calls++
		return calls, true
	})

	// Probing availability repeatedly must not advance the producer.
	for i := 0; i < 5; i++ {
		if !in.More() {
			t.Fatal("expected a value to be available")
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 producer call after repeated More, got %d", calls)
	}

	if got := in.Take(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if calls != 1 {
		t.Errorf("Take of a cached value should not call the producer, got %d calls", calls)
	}

	if got := in.Take(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if calls != 2 {
		t.Errorf("expected 2 producer calls after two takes, got %d", calls)
	}
}

func TestInput_ProducerNeverCalledAfterEnd(t *testing.T) {
	calls := 0
	in := seq.NewInput(func() (int, bool) {
		calls++
		if calls > 3 {
			return 0, false
		}
		return calls, true
	})

	var values []int
	for {
		value, ok := in.Next()
		if !ok {
			break
		}
		values = append(values, value)
	}

	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %v", values)
	}

	// Poking the exhausted sequence must not resurrect the producer.
	for i := 0; i < 10; i++ {
		if in.More() {
			t.Fatal("exhausted input reported a value")
		}
		if _, ok := in.Next(); ok {
			t.Fatal("exhausted input yielded a value")
		}
	}
	if calls != 4 {
		t.Errorf("expected exactly 4 producer calls (3 values + end), got %d", calls)
	}
}

func TestInput_TakePastEndReturnsZero(t *testing.T) {
	in := seq.Of("only")
	if got := in.Take(); got != "only" {
		t.Fatalf("expected only, got %q", got)
	}
	if got := in.Take(); got != "" {
		t.Errorf("expected zero value past the end, got %q", got)
	}
}

func TestInput_CopiesShareCursor(t *testing.T) {
	first := seq.Of(1, 2, 3, 4, 5, 6)
	second := first

	var got []int
	for {
		value, ok := first.Next()
		if !ok {
			break
		}
		got = append(got, value)

		value, ok = second.Next()
		if !ok {
			break
		}
		got = append(got, value)
	}

	if len(got) != 6 {
		t.Fatalf("expected 6 values across both copies, got %v", got)
	}
	for i, v := range got {
		if v != i+1 {
			t.Errorf("position %d: expected %d, got %d (copies must not replay values)", i, i+1, v)
		}
	}
}

func TestInput_ConcurrentNextDeliversEachValueOnce(t *testing.T) {
	n := 1000
	i := 0
	in := seq.NewInput(func() (int, bool) {
		if i >= n {
			return 0, false
		}
		v := i
		i++
		return v, true
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	counts := make(map[int]int)

	workers := 8
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				value, ok := in.Next()
				if !ok {
					return
				}
				mu.Lock()
				counts[value]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(counts) != n {
		t.Fatalf("expected %d distinct values, got %d", n, len(counts))
	}
	for value, count := range counts {
		if count != 1 {
			t.Errorf("value %d delivered %d times", value, count)
		}
	}
}

func TestInput_Seq(t *testing.T) {
	in := seq.Of(10, 20, 30, 40)

	var head []int
	for value := range in.Seq() {
		head = append(head, value)
		if len(head) == 2 {
			break
		}
	}

	// The iterator shares the cursor, so the remaining values are still
	// there for a direct Next.
	value, ok := in.Next()
	if !ok || value != 30 {
		t.Fatalf("expected 30 after partial range, got (%d, %v)", value, ok)
	}

	if len(head) != 2 || head[0] != 10 || head[1] != 20 {
		t.Errorf("unexpected ranged prefix: %v", head)
	}
}

func TestFromSeq(t *testing.T) {
	in := seq.FromSeq(func(yield func(string) bool) {
		for _, s := range []string{"a", "b", "c"} {
			if !yield(s) {
				return
			}
		}
	})

	var got []string
	for {
		value, ok := in.Next()
		if !ok {
			break
		}
		got = append(got, value)
	}

	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("expected [a b c], got %v", got)
	}
}

func TestFromChan(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 7
	ch <- 8
	ch <- 9
	close(ch)

	in := seq.FromChan(ch)
	var got []int
	for {
		value, ok := in.Next()
		if !ok {
			break
		}
		got = append(got, value)
	}

	if len(got) != 3 || got[0] != 7 || got[2] != 9 {
		t.Errorf("expected [7 8 9], got %v", got)
	}
	if in.More() {
		t.Error("drained channel input should stay exhausted")
	}
}
