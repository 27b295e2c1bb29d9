// Package gen drives the tone queue's consumer side: a generator owns
// the queue, a playback sink, and the goroutine that dequeues tones
// and renders them as PCM. It also carries the sending parameters
// (speed, frequency, volume, gap, weighting) and the element timings
// derived from them, and offers the producer-side veneer for
// enqueueing dots, dashes, characters and strings.
package gen

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hamwave/cw/cw"
	"github.com/hamwave/cw/cw/audio"
	"github.com/hamwave/cw/cw/queue"
)

// dotCalibration relates speed to element length: a unit (a dot at
// neutral weighting) lasts dotCalibration/speed, per the PARIS
// convention.
const dotCalibration = 1200000 * time.Microsecond

// foreverQuantum is the slice of sound rendered per dequeue of a
// forever tone. Each slice ends with another dequeue, so a successor
// tone is picked up within one quantum.
const foreverQuantum = 10 * time.Millisecond

// Generator renders tones from its queue to an audio sink.
type Generator struct {
	tq   *queue.Queue
	sink audio.Sink

	// toneSink is non-nil when the sink keys an oscillator instead
	// of playing PCM.
	toneSink audio.ToneSink

	mu        sync.Mutex
	speed     int
	frequency int
	volume    int
	gap       int
	weighting int

	// Derived timings, recomputed lazily when a parameter changes.
	inSync     bool
	dotLen     time.Duration
	dashLen    time.Duration
	eoeDelay   time.Duration
	eocDelay   time.Duration
	eowDelay   time.Duration
	additional time.Duration
	adjustment time.Duration

	wake    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	started bool

	render renderState
}

// New creates a generator rendering to sink, with all sending
// parameters at their initial values.
func New(sink audio.Sink) *Generator {
	g := &Generator{
		tq:        queue.New(),
		sink:      sink,
		speed:     cw.SpeedInitial,
		frequency: cw.FreqInitial,
		volume:    cw.VolumeInitial,
		gap:       cw.GapInitial,
		weighting: cw.WeightingInitial,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	g.toneSink, _ = sink.(audio.ToneSink)
	return g
}

// Queue exposes the generator's tone queue for direct producer use:
// low water registration, waits, length queries, flush, backspace.
func (g *Generator) Queue() *queue.Queue {
	return g.tq
}

// Start opens the sink and launches the consumer goroutine.
func (g *Generator) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return cw.ErrAlreadyStarted
	}
	if err := g.sink.Start(); err != nil {
		return fmt.Errorf("start sink: %w", err)
	}

	// a stopped generator may be started again
	g.done = make(chan struct{})
	select {
	case <-g.wake:
	default:
	}

	g.tq.AttachConsumer(func() {
		select {
		case g.wake <- struct{}{}:
		default:
		}
	})

	g.started = true
	g.wg.Add(1)
	go g.run()
	log.Debug("generator started", "speed", g.speed, "frequency", g.frequency)
	return nil
}

// Stop tears down the consumer: pending tones are discarded, waiters
// are released, the goroutine is joined and the sink closed.
func (g *Generator) Stop() error {
	g.mu.Lock()
	if !g.started {
		g.mu.Unlock()
		return cw.ErrNotStarted
	}
	g.started = false
	g.mu.Unlock()

	g.tq.Reset()
	g.tq.DetachConsumer()
	close(g.done)
	select {
	case g.wake <- struct{}{}:
	default:
	}
	g.wg.Wait()

	if g.toneSink != nil {
		_ = g.toneSink.SetTone(0, false)
	}
	err := g.sink.Close()
	log.Debug("generator stopped")
	return err
}

// run is the consumer loop: dequeue, render, and on an idle queue
// sleep until enqueue wakes it.
func (g *Generator) run() {
	defer g.wg.Done()

	var tone cw.Tone
	for {
		select {
		case <-g.done:
			return
		default:
		}

		switch g.tq.Dequeue(&tone) {
		case queue.Dequeued:
			if err := g.renderTone(&tone); err != nil {
				log.Error("render failed", "error", err)
			}
		case queue.Emptied:
			// The last tone has played; flush the synthesis
			// tail once before going quiet.
			if err := g.renderTail(); err != nil {
				log.Error("render tail failed", "error", err)
			}
		case queue.Idle:
			select {
			case <-g.wake:
			case <-g.done:
				return
			}
		}
	}
}

// SetSpeed sets the sending speed in WPM.
func (g *Generator) SetSpeed(wpm int) error {
	if wpm < cw.SpeedMin || wpm > cw.SpeedMax {
		return fmt.Errorf("speed %d wpm: %w", wpm, cw.ErrInvalid)
	}
	g.mu.Lock()
	if wpm != g.speed {
		g.speed = wpm
		g.inSync = false
	}
	g.mu.Unlock()
	return nil
}

// SetFrequency sets the tone frequency in Hz.
func (g *Generator) SetFrequency(hz int) error {
	if hz < cw.FreqMin || hz > cw.FreqMax {
		return fmt.Errorf("frequency %d Hz: %w", hz, cw.ErrInvalid)
	}
	g.mu.Lock()
	g.frequency = hz
	g.mu.Unlock()
	return nil
}

// SetVolume sets the volume in percent.
func (g *Generator) SetVolume(percent int) error {
	if percent < cw.VolumeMin || percent > cw.VolumeMax {
		return fmt.Errorf("volume %d%%: %w", percent, cw.ErrInvalid)
	}
	g.mu.Lock()
	g.volume = percent
	g.mu.Unlock()
	return nil
}

// SetGap sets the extra inter-character gap in units.
func (g *Generator) SetGap(gap int) error {
	if gap < cw.GapMin || gap > cw.GapMax {
		return fmt.Errorf("gap %d: %w", gap, cw.ErrInvalid)
	}
	g.mu.Lock()
	if gap != g.gap {
		g.gap = gap
		g.inSync = false
	}
	g.mu.Unlock()
	return nil
}

// SetWeighting sets the dot/dash weighting in percent.
func (g *Generator) SetWeighting(percent int) error {
	if percent < cw.WeightingMin || percent > cw.WeightingMax {
		return fmt.Errorf("weighting %d%%: %w", percent, cw.ErrInvalid)
	}
	g.mu.Lock()
	if percent != g.weighting {
		g.weighting = percent
		g.inSync = false
	}
	g.mu.Unlock()
	return nil
}

// Speed returns the sending speed in WPM.
func (g *Generator) Speed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speed
}

// Frequency returns the tone frequency in Hz.
func (g *Generator) Frequency() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frequency
}

// Volume returns the volume in percent.
func (g *Generator) Volume() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.volume
}

// Timings reports the current element timings, synchronizing them
// first if a parameter has changed.
type Timings struct {
	Dot            time.Duration
	Dash           time.Duration
	InterElement   time.Duration
	InterCharacter time.Duration
	InterWord      time.Duration
	Additional     time.Duration
	Adjustment     time.Duration
}

// Timings returns the element timings for the current parameters.
func (g *Generator) Timings() Timings {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.syncParameters()
	return Timings{
		Dot:            g.dotLen,
		Dash:           g.dashLen,
		InterElement:   g.eoeDelay,
		InterCharacter: g.eocDelay,
		InterWord:      g.eowDelay,
		Additional:     g.additional,
		Adjustment:     g.adjustment,
	}
}

// syncParameters recomputes the derived timings. Callers hold g.mu.
//
// A dot is one unit adjusted by weighting; a dash three dots. The
// inter-element gap gives back 28/22 of the weighting adjustment
// (PARIS spans 22 full and 28 empty units); the inter-character gap is
// three units minus the inter-element gap, and the inter-word gap seven
// units minus the inter-character gap. Farnsworth-style extra gaps get a 7/3-scaled adjustment at
// word ends to keep the rhythm.
func (g *Generator) syncParameters() {
	if g.inSync {
		return
	}

	unit := dotCalibration / time.Duration(g.speed)
	weighting := 2 * time.Duration(g.weighting-50) * unit / 100

	g.dotLen = unit + weighting
	g.dashLen = 3 * g.dotLen
	g.eoeDelay = unit - 28*weighting/22
	g.eocDelay = 3*unit - g.eoeDelay
	g.eowDelay = 7*unit - g.eocDelay
	g.additional = time.Duration(g.gap) * unit
	g.adjustment = 7 * g.additional / 3

	log.Debug("timings synchronized",
		"speed", g.speed,
		"dot", g.dotLen,
		"dash", g.dashLen,
		"interElement", g.eoeDelay,
		"interCharacter", g.eocDelay,
		"interWord", g.eowDelay)

	g.inSync = true
}
