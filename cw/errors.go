package cw

import "errors"

// Common errors for the library.
var (
	// ErrInvalid is returned when an argument is out of range: a
	// frequency outside [FreqMin, FreqMax], a negative duration, a
	// zero capacity, a high water mark above the capacity, or a bad
	// callback level.
	ErrInvalid = errors.New("argument out of range")

	// ErrQueueFull is returned by enqueue when the tone queue is at
	// capacity. The input was well formed; the producer should retry
	// after the consumer has drained some tones.
	ErrQueueFull = errors.New("tone queue is full")

	// ErrWouldDeadlock is returned by the wait primitives when the
	// consumer cannot wake the calling goroutine, so the wait would
	// block indefinitely.
	ErrWouldDeadlock = errors.New("wait would deadlock: no consumer attached")

	// ErrUnsupported is returned by an audio backend that is not
	// available on this platform or in this build.
	ErrUnsupported = errors.New("audio backend not supported")

	// ErrUnknownCharacter is returned when a character has no Morse
	// representation.
	ErrUnknownCharacter = errors.New("character not representable in Morse code")

	// ErrNotStarted is returned by generator operations that need a
	// running consumer, and by audio backends used before Start.
	ErrNotStarted = errors.New("generator not started")

	// ErrAlreadyStarted is returned when starting a generator twice.
	ErrAlreadyStarted = errors.New("generator already started")
)
