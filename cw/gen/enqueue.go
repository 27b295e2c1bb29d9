package gen

import (
	"fmt"

	"github.com/hamwave/cw/cw"
	"github.com/hamwave/cw/cw/charset"
)

// EnqueueTone places an arbitrary tone on the queue, bypassing the
// element timings. The queue's validation applies.
func (g *Generator) EnqueueTone(tone cw.Tone) error {
	return g.tq.Enqueue(tone)
}

// EnqueueDot queues a dot followed by the inter-element gap. first
// marks the dot as the opening tone of a character, which is what
// makes the character backspaceable.
func (g *Generator) EnqueueDot(first bool) error {
	return g.enqueueElement(charset.Dot, first)
}

// EnqueueDash queues a dash followed by the inter-element gap.
func (g *Generator) EnqueueDash(first bool) error {
	return g.enqueueElement(charset.Dash, first)
}

func (g *Generator) enqueueElement(element rune, first bool) error {
	g.mu.Lock()
	g.syncParameters()
	freq := g.frequency
	markLen := g.dotLen
	if element == charset.Dash {
		markLen = g.dashLen
	}
	gapLen := g.eoeDelay
	g.mu.Unlock()

	err := g.tq.Enqueue(cw.Tone{
		Frequency: freq,
		Duration:  markLen,
		Slope:     cw.SlopeStandard,
		First:     first,
	})
	if err != nil {
		return err
	}
	return g.tq.Enqueue(cw.Tone{
		Frequency: 0,
		Duration:  gapLen,
		Slope:     cw.SlopeNone,
	})
}

// EnqueueCharacterSpace queues the silence that separates characters,
// timed to exclude the inter-element gap already queued after the
// last element.
func (g *Generator) EnqueueCharacterSpace() error {
	g.mu.Lock()
	g.syncParameters()
	d := g.eocDelay + g.additional
	g.mu.Unlock()

	return g.tq.Enqueue(cw.Tone{Frequency: 0, Duration: d, Slope: cw.SlopeNone})
}

// EnqueueWordSpace queues the silence that separates words. It is
// queued as two tones, word gap then Farnsworth adjustment, so that a
// low-water callback registered at level 1 can still observe the
// queue passing through level 2. When the extra gap is 0 the
// adjustment has zero duration and the queue drops it, so only the
// word gap is queued.
func (g *Generator) EnqueueWordSpace() error {
	g.mu.Lock()
	g.syncParameters()
	eow := g.eowDelay
	adjustment := g.adjustment
	g.mu.Unlock()

	if err := g.tq.Enqueue(cw.Tone{Frequency: 0, Duration: eow, Slope: cw.SlopeNone}); err != nil {
		return err
	}
	return g.tq.Enqueue(cw.Tone{Frequency: 0, Duration: adjustment, Slope: cw.SlopeNone})
}

// EnqueueRepresentation queues a string of dots and dashes as one
// character: the first element carries the character boundary marker,
// and the character space follows.
func (g *Generator) EnqueueRepresentation(rep string) error {
	if !charset.IsRepresentation(rep) {
		return fmt.Errorf("representation %q: %w", rep, cw.ErrInvalid)
	}
	for i, element := range rep {
		var err error
		switch element {
		case charset.Dot:
			err = g.EnqueueDot(i == 0)
		case charset.Dash:
			err = g.EnqueueDash(i == 0)
		}
		if err != nil {
			return err
		}
	}
	return g.EnqueueCharacterSpace()
}

// EnqueueCharacter queues one character. A space is queued as a word
// gap; anything else must have a Morse representation.
func (g *Generator) EnqueueCharacter(r rune) error {
	if r == ' ' {
		return g.EnqueueWordSpace()
	}
	rep, ok := charset.Representation(r)
	if !ok {
		return fmt.Errorf("%q: %w", r, cw.ErrUnknownCharacter)
	}
	return g.EnqueueRepresentation(rep)
}

// EnqueueString queues a whole string. Validation happens up front so
// a bad character does not leave half the string queued.
func (g *Generator) EnqueueString(s string) error {
	if err := charset.ValidateString(s); err != nil {
		return err
	}
	for _, r := range s {
		if err := g.EnqueueCharacter(r); err != nil {
			return err
		}
	}
	return nil
}

// EnqueueMarkForever queues a mark of indeterminate length at the
// current frequency: the queue republishes it until another tone is
// queued behind it. Used by the straight key while it is held down.
func (g *Generator) EnqueueMarkForever() error {
	g.mu.Lock()
	freq := g.frequency
	g.mu.Unlock()

	return g.tq.Enqueue(cw.Tone{
		Frequency: freq,
		Duration:  foreverQuantum,
		Slope:     cw.SlopeRising,
		Forever:   true,
	})
}

// EnqueueSpaceForever queues silence of indeterminate length,
// terminating a held mark.
func (g *Generator) EnqueueSpaceForever() error {
	return g.tq.Enqueue(cw.Tone{
		Frequency: 0,
		Duration:  foreverQuantum,
		Slope:     cw.SlopeNone,
		Forever:   true,
	})
}

// Backspace revokes the most recently queued character if it is still
// wholly queued. A character that has started playing stays.
func (g *Generator) Backspace() {
	g.tq.Backspace()
}

// WaitForTone blocks until the currently playing tone completes.
func (g *Generator) WaitForTone() error {
	return g.tq.WaitForTone()
}

// WaitForQueue blocks until every queued tone has been played.
func (g *Generator) WaitForQueue() error {
	return g.tq.WaitForEmpty()
}

// WaitForLevel blocks until the queue holds at most level tones.
func (g *Generator) WaitForLevel(level int) error {
	return g.tq.WaitForLevel(level)
}
