//go:build portaudio

package audio

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/hamwave/cw/cw"
)

// portAudioFrames is the blocking-write chunk size, about 23 ms.
const portAudioFrames = 1024

// PortAudio plays through the default PortAudio output stream using
// blocking writes.
type PortAudio struct {
	stream *portaudio.Stream
	buf    []float32
}

// NewPortAudio returns a PortAudio soundcard backend.
func NewPortAudio() (Sink, error) {
	return &PortAudio{}, nil
}

// Start initializes PortAudio and opens the default output stream.
func (p *PortAudio) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	p.buf = make([]float32, portAudioFrames)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(cw.SampleRate), len(p.buf), &p.buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("portaudio open: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("portaudio start: %w", err)
	}
	p.stream = stream
	log.Debug("portaudio backend started", "frames", portAudioFrames)
	return nil
}

// Write plays the samples in stream-sized chunks, blocking on the
// device for each.
func (p *PortAudio) Write(samples []float32) error {
	if p.stream == nil {
		return cw.ErrNotStarted
	}
	for len(samples) > 0 {
		n := copy(p.buf, samples)
		samples = samples[n:]
		for i := n; i < len(p.buf); i++ {
			p.buf[i] = 0
		}
		if err := p.stream.Write(); err != nil {
			return fmt.Errorf("portaudio write: %w", err)
		}
	}
	return nil
}

// Close stops the stream and terminates PortAudio.
func (p *PortAudio) Close() error {
	if p.stream == nil {
		return nil
	}
	err := p.stream.Close()
	p.stream = nil
	portaudio.Terminate()
	return err
}
