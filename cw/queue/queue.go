package queue

import (
	"fmt"
	"sync"

	"github.com/hamwave/cw/cw"
)

// Outcome is the result of a Dequeue call. The consumer's render loop
// needs three values, not two: Emptied tells it to flush synthesizer
// tail state (ramp-down, buffer drain) exactly once, after which Idle
// tells it to sleep until woken.
type Outcome int

const (
	// Idle means there was nothing to dequeue and the queue had
	// already drained before this call.
	Idle Outcome = iota

	// Emptied means there was nothing to dequeue and the queue has
	// just now transitioned to empty.
	Emptied

	// Dequeued means a valid tone was written to the out parameter.
	Dequeued
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Idle:
		return "idle"
	case Emptied:
		return "emptied"
	case Dequeued:
		return "dequeued"
	default:
		return "unknown"
	}
}

type state int

const (
	stateIdle state = iota
	stateBusy
)

// Queue is a bounded FIFO of tones serving any number of producer
// goroutines and one consumer goroutine.
//
// All methods are safe for concurrent use. The zero value is not
// usable; create queues with New.
type Queue struct {
	mu sync.Mutex

	// cond is signalled after every dequeue cycle and on flush or
	// reset; the wait primitives block on it.
	cond *sync.Cond

	// buffer always has cw.CapacityMax slots; only the first
	// capacity of them are in use.
	buffer []cw.Tone

	// head is the next slot to dequeue, tail the next to fill.
	// head == tail means either empty or full; len breaks the tie.
	head int
	tail int
	len  int

	capacity  int
	highWater int

	state state

	lowWaterMark int
	lowWaterFn   func()

	// keyHook observes the binary key level derived from each
	// dequeued tone. Called with the mutex held; must not block or
	// re-enter the queue.
	keyHook func(down bool)

	// wake is the consumer's wake primitive, invoked on the
	// idle-to-busy edge while the mutex is held. attached doubles
	// as the cancellation gate for the wait primitives.
	wake     func()
	attached bool
}

// New returns an empty queue configured at the maximum capacity and
// high water mark. Use SetCapacity before enqueueing to shrink it.
func New() *Queue {
	q := &Queue{
		buffer:    make([]cw.Tone, cw.CapacityMax),
		capacity:  cw.CapacityMax,
		highWater: cw.HighWaterMarkMax,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// next and prev are the only index arithmetic performed on the ring.

func (q *Queue) next(i int) int {
	return (i + 1) % q.capacity
}

func (q *Queue) prev(i int) int {
	return (i + q.capacity - 1) % q.capacity
}

// SetCapacity configures the queue's capacity and high water mark.
// Both must be positive, within their maximums, and the high water
// mark must not exceed the capacity. The head, tail and length are
// left untouched: resizing a queue that is in use is not supported,
// so configure before enqueueing.
func (q *Queue) SetCapacity(capacity, highWater int) error {
	if highWater <= 0 || highWater > cw.HighWaterMarkMax {
		// A high water mark of zero would leave the queue
		// permanently "full" for producers that honor it.
		return fmt.Errorf("high water mark %d: %w", highWater, cw.ErrInvalid)
	}
	if capacity <= 0 || capacity > cw.CapacityMax {
		return fmt.Errorf("capacity %d: %w", capacity, cw.ErrInvalid)
	}
	if highWater > capacity {
		return fmt.Errorf("high water mark %d above capacity %d: %w",
			highWater, capacity, cw.ErrInvalid)
	}

	q.mu.Lock()
	q.capacity = capacity
	q.highWater = highWater
	q.mu.Unlock()
	return nil
}

// RegisterLowWaterCallback arranges for fn to be called whenever a
// dequeue takes the queue length from above level to at or below it.
// The callback runs on the consumer goroutine after the queue's mutex
// has been released, so it may safely call back into the queue, e.g.
// to refill it. A nil fn disables the notification.
func (q *Queue) RegisterLowWaterCallback(fn func(), level int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if level < 0 || level >= q.capacity {
		return fmt.Errorf("low water level %d: %w", level, cw.ErrInvalid)
	}
	q.lowWaterMark = level
	q.lowWaterFn = fn
	return nil
}

// SetKeyHook registers an observer for the binary key level derived
// from each dequeued tone: down for a non-zero frequency, up for
// silence. The hook is invoked with the queue's mutex held and must
// not block or call back into the queue.
func (q *Queue) SetKeyHook(fn func(down bool)) {
	q.mu.Lock()
	q.keyHook = fn
	q.mu.Unlock()
}

// AttachConsumer registers the consumer's wake primitive and opens the
// cancellation gate for the wait primitives. Enqueue invokes wake,
// with the mutex held, when it flips the queue from idle to busy; the
// function must not block and must not re-enter the queue. A
// non-blocking send on a buffered channel is the expected shape.
func (q *Queue) AttachConsumer(wake func()) {
	q.mu.Lock()
	q.wake = wake
	q.attached = true
	q.mu.Unlock()
}

// DetachConsumer closes the cancellation gate. Goroutines blocked in a
// wait primitive are released and fail with cw.ErrWouldDeadlock.
func (q *Queue) DetachConsumer() {
	q.mu.Lock()
	q.wake = nil
	q.attached = false
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Enqueue appends a tone to the queue.
//
// Tones with a frequency outside [cw.FreqMin, cw.FreqMax] or with a
// negative duration are rejected with cw.ErrInvalid. A tone with zero
// duration is accepted and dropped: it would render no sound. If the
// queue is at capacity the tone is rejected with cw.ErrQueueFull and
// the caller should retry once the consumer has drained.
func (q *Queue) Enqueue(tone cw.Tone) error {
	if tone.Frequency < cw.FreqMin || tone.Frequency > cw.FreqMax {
		return fmt.Errorf("frequency %d Hz: %w", tone.Frequency, cw.ErrInvalid)
	}
	if tone.Duration < 0 {
		return fmt.Errorf("duration %v: %w", tone.Duration, cw.ErrInvalid)
	}
	if tone.Duration == 0 {
		// Nothing would be played; don't spend a slot on it.
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.len == q.capacity {
		return cw.ErrQueueFull
	}

	q.buffer[q.tail] = tone
	q.tail = q.next(q.tail)
	q.len++

	if q.state == stateIdle {
		// The consumer may be asleep waiting for work. Waking it
		// before the mutex is released guarantees it cannot
		// observe a busy, non-empty queue without a pending wake.
		q.state = stateBusy
		if q.wake != nil {
			q.wake()
		}
	}
	return nil
}

// Dequeue removes the tone at the head of the queue and writes it to
// tone. See Outcome for the three possible results; tone is written
// only when the result is Dequeued.
//
// A Forever tone that is alone in the queue is returned but retained:
// the consumer keeps receiving the same tone until a successor is
// enqueued behind it. The low water callback is never fired for such
// a self-repeat.
func (q *Queue) Dequeue(tone *cw.Tone) Outcome {
	q.mu.Lock()

	if q.state == stateIdle {
		q.mu.Unlock()
		return Idle
	}

	if q.len == 0 {
		// Busy but drained: the previous call returned the last
		// tone. Bring state back in sync with len.
		q.state = stateIdle
		q.notifyKey(false)
		q.cond.Broadcast()
		q.mu.Unlock()
		return Emptied
	}

	*tone = q.buffer[q.head]

	if tone.Forever && q.len == 1 {
		// Keep the head where it is; the tone is republished
		// until a successor arrives. Low water is deliberately
		// not evaluated here, or a client relying on the
		// callback for refill would be called endlessly.
		q.notifyKey(tone.Frequency != 0)
		q.cond.Broadcast()
		q.mu.Unlock()
		return Dequeued
	}

	lenBefore := q.len
	q.head = q.next(q.head)
	q.len--

	if q.len == 0 && q.head != q.tail {
		panic(fmt.Sprintf("cw/queue: emptied queue has head %d, tail %d", q.head, q.tail))
	}

	fn := q.lowWaterFn
	fire := fn != nil && lenBefore > q.lowWaterMark && q.len <= q.lowWaterMark

	q.notifyKey(tone.Frequency != 0)
	q.cond.Broadcast()
	q.mu.Unlock()

	// The callback may re-enter the queue, so it runs outside the
	// critical section. fire was computed under the lock, which is
	// what keeps it to one invocation per downward crossing.
	if fire {
		fn()
	}
	return Dequeued
}

// notifyKey is called with the mutex held.
func (q *Queue) notifyKey(down bool) {
	if q.keyHook != nil {
		q.keyHook(down)
	}
}

// Len returns the number of tones currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.len
}

// Capacity returns the configured capacity.
func (q *Queue) Capacity() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// HighWaterMark returns the configured high water mark.
func (q *Queue) HighWaterMark() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.highWater
}

// IsFull reports whether the queue is at capacity.
func (q *Queue) IsFull() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.len == q.capacity
}

// IsBusy reports whether the queue has dequeued work outstanding: it
// becomes true on the first enqueue and false again once the consumer
// has observed the drained queue.
func (q *Queue) IsBusy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state != stateIdle
}

// Flush discards all queued tones and forces the queue idle. If a
// consumer is attached, Flush then waits for the consumer to observe
// the idle queue; with no consumer the wait would deadlock, so it is
// skipped.
func (q *Queue) Flush() {
	q.mu.Lock()
	q.len = 0
	q.head = q.tail
	q.state = stateIdle
	attached := q.attached
	q.cond.Broadcast()
	q.mu.Unlock()

	if attached {
		// Ignore the gate error: attached can only have turned
		// false since the check, in which case the wait returns
		// immediately.
		_ = q.WaitForEmpty()
	}
}

// Reset flushes the queue and additionally clears the low water
// callback registration. It never waits.
func (q *Queue) Reset() {
	q.mu.Lock()
	q.len = 0
	q.head = q.tail
	q.state = stateIdle
	q.lowWaterMark = 0
	q.lowWaterFn = nil
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Backspace removes the most recently enqueued tones that together
// form one character: everything back to and including the last tone
// flagged First. If no First tone is resident the queue is left
// unchanged; in particular, once the consumer has dequeued the first
// tone of a character, that character can no longer be revoked.
func (q *Queue) Backspace() {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.len
	idx := q.tail
	found := false
	for n > 0 {
		n--
		idx = q.prev(idx)
		if q.buffer[idx].First {
			found = true
			break
		}
	}
	if found {
		q.len = n
		q.tail = idx
	}
}

// WaitForTone blocks until the head of the queue has advanced past the
// tone that was current on entry, or until the queue drains, whichever
// comes first. Fails with cw.ErrWouldDeadlock if no consumer is
// attached to wake this goroutine.
func (q *Queue) WaitForTone() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.attached {
		return cw.ErrWouldDeadlock
	}

	mark := q.head
	for q.head == mark && q.state != stateIdle {
		q.cond.Wait()
		if !q.attached {
			return cw.ErrWouldDeadlock
		}
	}
	return nil
}

// WaitForEmpty blocks until the consumer has drained the queue and
// observed it empty. Fails with cw.ErrWouldDeadlock if no consumer is
// attached.
func (q *Queue) WaitForEmpty() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.attached {
		return cw.ErrWouldDeadlock
	}

	for q.state != stateIdle {
		q.cond.Wait()
		if !q.attached {
			return cw.ErrWouldDeadlock
		}
	}
	return nil
}

// WaitForLevel blocks until the queue length is at or below level,
// returning immediately if it already is. Fails with
// cw.ErrWouldDeadlock if no consumer is attached.
func (q *Queue) WaitForLevel(level int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.attached {
		return cw.ErrWouldDeadlock
	}

	for q.len > level {
		q.cond.Wait()
		if !q.attached {
			return cw.ErrWouldDeadlock
		}
	}
	return nil
}
