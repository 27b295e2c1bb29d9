package gen

import (
	"math"
	"time"

	"github.com/hamwave/cw/cw"
)

// slopeDuration is the length of a single amplitude slope in a
// standard tone. Short enough to be inaudible as a fade, long enough
// to keep key clicks out of the spectrum.
const slopeDuration = 5 * time.Millisecond

// tailDuration is the silence written after the queue drains, giving
// the device time to play out the final slope.
const tailDuration = 5 * time.Millisecond

// renderState is the synthesis state carried between tones.
type renderState struct {
	// phase is the running sine phase, kept across tones so
	// consecutive marks at the same frequency join without a
	// discontinuity.
	phase float64

	// foreverActive is true while the same forever tone is being
	// republished; repeats are rendered without slopes.
	foreverActive bool

	// foreverTone is the forever tone rendered last, so that a new
	// forever tone following it is not mistaken for a repeat.
	foreverTone cw.Tone

	// keyedFreq is the frequency last sent to a ToneSink; zero
	// means the device is keyed off.
	keyedFreq int
}

// renderTone synthesizes one dequeued tone and writes it to the sink.
// A forever tone is rendered one quantum at a time; the loop's next
// dequeue either returns it again or picks up its successor.
func (g *Generator) renderTone(t *cw.Tone) error {
	g.mu.Lock()
	volume := g.volume
	g.mu.Unlock()

	duration := t.Duration
	slope := t.Slope
	repeat := false

	if t.Forever {
		duration = foreverQuantum
		if g.render.foreverActive && *t == g.render.foreverTone {
			slope = cw.SlopeNone
			repeat = true
		}
		g.render.foreverActive = true
		g.render.foreverTone = *t
	} else {
		g.render.foreverActive = false
	}

	if g.toneSink != nil && !repeat {
		if t.Frequency != g.render.keyedFreq {
			if err := g.toneSink.SetTone(t.Frequency, t.Frequency > 0); err != nil {
				return err
			}
			g.render.keyedFreq = t.Frequency
		}
	}

	samples := g.synthesize(t.Frequency, volume, duration, slope)
	return g.sink.Write(samples)
}

// renderTail is called once when the queue reports Emptied: it keys
// the sink off and plays a short stretch of silence so the falling
// slope of the last tone is not clipped by the device.
func (g *Generator) renderTail() error {
	g.render.foreverActive = false
	if g.toneSink != nil && g.render.keyedFreq != 0 {
		if err := g.toneSink.SetTone(0, false); err != nil {
			return err
		}
		g.render.keyedFreq = 0
	}
	return g.sink.Write(make([]float32, cw.SampleRate*int64(tailDuration)/int64(time.Second)))
}

// synthesize renders a phase-continuous sine of the given frequency
// and duration with raised-cosine slopes per the slope mode. A zero
// frequency yields silence of the same length; the phase is held so a
// following mark continues smoothly.
func (g *Generator) synthesize(freq, volume int, duration time.Duration, slope cw.SlopeMode) []float32 {
	n := int(int64(cw.SampleRate) * int64(duration) / int64(time.Second))
	samples := make([]float32, n)
	if n == 0 {
		return samples
	}

	amplitude := float64(volume) / 100

	slopeN := int(int64(cw.SampleRate) * int64(slopeDuration) / int64(time.Second))
	switch slope {
	case cw.SlopeStandard:
		if 2*slopeN > n {
			slopeN = n / 2
		}
	case cw.SlopeRising, cw.SlopeFalling:
		if slopeN > n {
			slopeN = n
		}
	case cw.SlopeNone:
		slopeN = 0
	}

	if freq == 0 {
		// Silence. Phase is deliberately untouched.
		return samples
	}

	step := 2 * math.Pi * float64(freq) / float64(cw.SampleRate)
	phase := g.render.phase

	for i := 0; i < n; i++ {
		a := amplitude
		switch slope {
		case cw.SlopeStandard:
			if i < slopeN {
				a = amplitude * risedCosine(i, slopeN)
			} else if i >= n-slopeN {
				a = amplitude * risedCosine(n-1-i, slopeN)
			}
		case cw.SlopeRising:
			if i < slopeN {
				a = amplitude * risedCosine(i, slopeN)
			}
		case cw.SlopeFalling:
			if i >= n-slopeN {
				a = amplitude * risedCosine(n-1-i, slopeN)
			}
		}
		samples[i] = float32(a * math.Sin(phase))
		phase += step
	}

	g.render.phase = math.Mod(phase, 2*math.Pi)
	return samples
}

// risedCosine is the raised-cosine ramp value at position i of a
// slope slopeN samples long, rising from 0 toward 1.
func risedCosine(i, slopeN int) float64 {
	if slopeN == 0 {
		return 1
	}
	return 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(slopeN)))
}
