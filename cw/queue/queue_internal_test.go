package queue

import (
	"testing"
	"time"

	"github.com/hamwave/cw/cw"
)

// initHeadShift places an empty queue's indices at an arbitrary slot,
// the way a long-lived queue would sit after wrapping.
func initHeadShift(t *testing.T, q *Queue, shift int) {
	t.Helper()
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.len != 0 {
		t.Fatal("head shift requires an empty queue")
	}
	q.head = shift
	q.tail = shift
}

func TestIndexRoundTrip(t *testing.T) {
	q := New()
	if err := q.SetCapacity(30, 26); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < q.capacity; i++ {
		if got := q.prev(q.next(i)); got != i {
			t.Errorf("prev(next(%d)) = %d", i, got)
		}
		if got := q.next(q.prev(i)); got != i {
			t.Errorf("next(prev(%d)) = %d", i, got)
		}
	}

	if got := q.next(q.capacity - 1); got != 0 {
		t.Errorf("next(%d) = %d, want wrap to 0", q.capacity-1, got)
	}
	if got := q.prev(0); got != q.capacity-1 {
		t.Errorf("prev(0) = %d, want wrap to %d", got, q.capacity-1)
	}
}

// TestHeadShiftIdenticalSequences runs the same enqueue/dequeue
// workload with the indices starting at several positions; the
// externally observable sequence must not depend on where the ring
// happens to sit.
func TestHeadShiftIdenticalSequences(t *testing.T) {
	const capacity = 30

	for _, shift := range []int{0, capacity - 1, capacity / 2, 10} {
		q := New()
		if err := q.SetCapacity(capacity, 26); err != nil {
			t.Fatal(err)
		}
		initHeadShift(t, q, shift)

		for freq := 0; freq < capacity; freq++ {
			if err := q.Enqueue(cw.Tone{Frequency: freq, Duration: time.Microsecond}); err != nil {
				t.Fatalf("shift %d: enqueue %d: %v", shift, freq, err)
			}
		}
		if !q.IsFull() {
			t.Fatalf("shift %d: queue should be full", shift)
		}

		var tone cw.Tone
		for want := 0; want < capacity; want++ {
			if out := q.Dequeue(&tone); out != Dequeued {
				t.Fatalf("shift %d: dequeue %d: outcome %v", shift, want, out)
			}
			if tone.Frequency != want {
				t.Fatalf("shift %d: got frequency %d, want %d", shift, tone.Frequency, want)
			}
		}
		if out := q.Dequeue(&tone); out != Emptied {
			t.Fatalf("shift %d: expected Emptied, got %v", shift, out)
		}
	}
}

// TestLenMatchesIndices verifies the ring invariant after every
// operation of a mixed workload: len equals (tail-head) mod capacity,
// with the full queue as the tie-break.
func TestLenMatchesIndices(t *testing.T) {
	const capacity = 7

	q := New()
	if err := q.SetCapacity(capacity, capacity); err != nil {
		t.Fatal(err)
	}

	check := func(step string) {
		t.Helper()
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.len < 0 || q.len > q.capacity {
			t.Fatalf("%s: len %d out of range", step, q.len)
		}
		if q.len == q.capacity || q.len == 0 {
			if q.head != q.tail {
				t.Fatalf("%s: len %d but head %d != tail %d", step, q.len, q.head, q.tail)
			}
			return
		}
		if want := (q.tail - q.head + q.capacity) % q.capacity; q.len != want {
			t.Fatalf("%s: len %d, indices say %d", step, q.len, want)
		}
		if q.state == stateIdle && q.len != 0 {
			t.Fatalf("%s: idle queue holds %d tones", step, q.len)
		}
	}

	var tone cw.Tone
	tonein := cw.Tone{Frequency: 800, Duration: time.Microsecond}

	// walk the ring through several laps with uneven bursts
	for lap := 0; lap < 5; lap++ {
		for i := 0; i < capacity; i++ {
			_ = q.Enqueue(tonein)
			check("enqueue")
		}
		for i := 0; i < capacity-2; i++ {
			q.Dequeue(&tone)
			check("dequeue")
		}
		for i := 0; i < 2; i++ {
			_ = q.Enqueue(tonein)
			check("refill")
		}
		for q.Dequeue(&tone) == Dequeued {
			check("drain")
		}
		check("drained")
	}
}

// TestIdleImpliesEmpty covers the state automaton: idle implies
// len 0, while len 0 may transiently coexist with busy.
func TestIdleImpliesEmpty(t *testing.T) {
	q := New()
	var tone cw.Tone

	if q.state != stateIdle {
		t.Fatal("new queue must be idle")
	}

	if err := q.Enqueue(cw.Tone{Frequency: 800, Duration: time.Microsecond}); err != nil {
		t.Fatal(err)
	}
	if q.state != stateBusy {
		t.Fatal("enqueue must set busy")
	}

	if out := q.Dequeue(&tone); out != Dequeued {
		t.Fatalf("outcome %v", out)
	}
	// the automaton lags len by one dequeue, by design
	if q.state != stateBusy || q.len != 0 {
		t.Fatal("busy-but-empty window missing after final dequeue")
	}

	if out := q.Dequeue(&tone); out != Emptied {
		t.Fatalf("outcome %v", out)
	}
	if q.state != stateIdle || q.len != 0 {
		t.Fatal("Emptied must leave the queue idle and empty")
	}
}
