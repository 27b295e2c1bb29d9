//go:build !portaudio

package audio

import "github.com/hamwave/cw/cw"

// NewPortAudio fails in builds compiled without the portaudio tag.
func NewPortAudio() (Sink, error) {
	return nil, cw.ErrUnsupported
}
