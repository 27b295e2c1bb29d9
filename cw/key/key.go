// Package key models a straight key: a single lever that holds the
// tone for as long as the operator holds the key. It rides on the
// queue's forever tones, so a press produces sound of indeterminate
// length that ends within a render slice or two after the release is
// queued behind it.
package key

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/hamwave/cw/cw/gen"
)

// StraightKey turns press/release events into forever tones on a
// generator's queue.
type StraightKey struct {
	gen *gen.Generator

	mu   sync.Mutex
	down bool
}

// NewStraight returns a straight key feeding the given generator.
func NewStraight(g *gen.Generator) *StraightKey {
	return &StraightKey{gen: g}
}

// Press closes the key: a mark of indeterminate length starts
// playing. Pressing an already-closed key is a no-op.
func (k *StraightKey) Press() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.down {
		return nil
	}
	if err := k.gen.EnqueueMarkForever(); err != nil {
		return err
	}
	k.down = true
	log.Debug("straight key closed")
	return nil
}

// Release opens the key: silence of indeterminate length supersedes
// the held mark. Releasing an open key is a no-op.
func (k *StraightKey) Release() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.down {
		return nil
	}
	if err := k.gen.EnqueueSpaceForever(); err != nil {
		return err
	}
	k.down = false
	log.Debug("straight key opened")
	return nil
}

// Set presses or releases the key to match down.
func (k *StraightKey) Set(down bool) error {
	if down {
		return k.Press()
	}
	return k.Release()
}

// IsDown reports whether the key is currently closed.
func (k *StraightKey) IsDown() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.down
}
