// Package audio provides the playback backends the generator renders
// into: a timing-only null device, the Linux console buzzer, and two
// soundcard backends (oto and PortAudio).
package audio

import (
	"fmt"

	"github.com/hamwave/cw/cw"
)

// Sink consumes rendered PCM. Implementations receive mono float32
// samples at cw.SampleRate and are expected to pace the caller: Write
// returns once the samples have been handed to the device, so the
// generator's wall clock follows the device clock.
type Sink interface {
	// Start opens the underlying device.
	Start() error

	// Write plays a block of samples, blocking until the device has
	// accepted it.
	Write(samples []float32) error

	// Close stops playback and releases the device.
	Close() error
}

// ToneSink is implemented by backends that key a fixed oscillator
// instead of playing PCM, such as the console buzzer. When a sink
// implements it, the generator calls SetTone whenever the keyed
// frequency changes and still calls Write for every tone, which such a
// sink uses only to keep time.
type ToneSink interface {
	// SetTone starts (on) or stops (off) a tone of the given
	// frequency on the device.
	SetTone(freq int, on bool) error
}

// Backend names accepted by New.
const (
	BackendNull      = "null"
	BackendConsole   = "console"
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
)

// New returns the named backend, unstarted. The "oto" and "portaudio"
// backends exist only in builds that include them; elsewhere they
// fail with cw.ErrUnsupported.
func New(name string) (Sink, error) {
	switch name {
	case BackendNull:
		return NewNull(), nil
	case BackendConsole:
		return NewConsole()
	case BackendOto:
		return NewOto()
	case BackendPortAudio:
		return NewPortAudio()
	default:
		return nil, fmt.Errorf("audio backend %q: %w", name, cw.ErrInvalid)
	}
}

// Backends returns the names of all selectable backends.
func Backends() []string {
	return []string{BackendNull, BackendConsole, BackendOto, BackendPortAudio}
}
