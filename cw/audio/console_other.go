//go:build !linux

package audio

import "github.com/hamwave/cw/cw"

// NewConsole fails on platforms without a console buzzer device.
func NewConsole() (Sink, error) {
	return nil, cw.ErrUnsupported
}
