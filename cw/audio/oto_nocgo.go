//go:build nocgo

package audio

import "github.com/hamwave/cw/cw"

// NewOto fails in builds without cgo audio support.
func NewOto() (Sink, error) {
	return nil, cw.ErrUnsupported
}
