//go:build !nocgo

package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"github.com/hamwave/cw/cw"
)

// Oto plays through the ebitengine/oto context, which picks the
// platform's native audio API. Samples are streamed to the player
// through a pipe; the pipe's backpressure is what paces the
// generator against the device clock.
type Oto struct {
	ctx    *oto.Context
	player *oto.Player
	pw     *io.PipeWriter
}

// NewOto returns an oto soundcard backend.
func NewOto() (Sink, error) {
	return &Oto{}, nil
}

// Start creates the audio context and begins playback of the sample
// stream.
func (o *Oto) Start() error {
	op := &oto.NewContextOptions{
		SampleRate:   cw.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("oto context: %w", err)
	}
	<-ready

	pr, pw := io.Pipe()
	o.ctx = ctx
	o.pw = pw
	o.player = ctx.NewPlayer(pr)
	o.player.Play()
	log.Debug("oto audio backend started", "sampleRate", cw.SampleRate)
	return nil
}

// Write streams a block of samples to the player.
func (o *Oto) Write(samples []float32) error {
	if o.pw == nil {
		return cw.ErrNotStarted
	}
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(s))
	}
	if _, err := o.pw.Write(buf); err != nil {
		return fmt.Errorf("oto write: %w", err)
	}
	return nil
}

// Close stops the player and releases the context.
func (o *Oto) Close() error {
	if o.pw != nil {
		_ = o.pw.Close()
		o.pw = nil
	}
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			return fmt.Errorf("oto close: %w", err)
		}
		o.player = nil
	}
	return nil
}
