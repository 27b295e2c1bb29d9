package audio

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/hamwave/cw/cw"
)

// Null is a backend that produces no sound but keeps real time: Write
// sleeps for the wall-clock duration of the samples it is given. It
// lets the rest of the library run, timings included, on machines
// with no usable audio device.
type Null struct {
	started bool
}

// NewNull returns a null backend.
func NewNull() *Null {
	return &Null{}
}

// Start marks the backend started.
func (n *Null) Start() error {
	n.started = true
	log.Debug("null audio backend started")
	return nil
}

// Write discards the samples after sleeping for their duration.
func (n *Null) Write(samples []float32) error {
	d := time.Duration(len(samples)) * time.Second / cw.SampleRate
	time.Sleep(d)
	return nil
}

// Close stops the backend.
func (n *Null) Close() error {
	n.started = false
	return nil
}
