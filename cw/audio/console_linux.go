//go:build linux

package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/hamwave/cw/cw"
)

// kiocsound is the console ioctl that starts or stops the buzzer. Its
// argument is the tone period in i8253 clock cycles; zero stops the
// tone.
const (
	kiocsound   = 0x4B2F
	clockTickHz = 1193180
)

const consoleDevice = "/dev/console"

// Console keys the PC speaker through the Linux console device. It is
// a ToneSink: the buzzer has no PCM path, so Write only keeps time
// while SetTone switches the tone on and off at element boundaries.
type Console struct {
	f *os.File
}

// NewConsole returns a console buzzer backend.
func NewConsole() (Sink, error) {
	return &Console{}, nil
}

// Start opens the console device. Opening usually requires elevated
// privileges; the error says so rather than guessing.
func (c *Console) Start() error {
	f, err := os.OpenFile(consoleDevice, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s (try as root): %w", consoleDevice, err)
	}
	c.f = f
	log.Debug("console audio backend started", "device", consoleDevice)
	return nil
}

// Write keeps wall-clock time for the samples; the sound itself is
// driven by SetTone.
func (c *Console) Write(samples []float32) error {
	d := time.Duration(len(samples)) * time.Second / cw.SampleRate
	time.Sleep(d)
	return nil
}

// SetTone starts or stops the buzzer.
func (c *Console) SetTone(freq int, on bool) error {
	if c.f == nil {
		return cw.ErrNotStarted
	}
	var arg int
	if on && freq > 0 {
		arg = clockTickHz / freq
	}
	if err := unix.IoctlSetInt(int(c.f.Fd()), kiocsound, arg); err != nil {
		return fmt.Errorf("console ioctl: %w", err)
	}
	return nil
}

// Close silences the buzzer and closes the device.
func (c *Console) Close() error {
	if c.f == nil {
		return nil
	}
	_ = unix.IoctlSetInt(int(c.f.Fd()), kiocsound, 0)
	err := c.f.Close()
	c.f = nil
	return err
}
