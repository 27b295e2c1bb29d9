// Package queue implements the tone queue that sits between producers
// of Morse elements and the single consumer that renders them.
//
// The queue is a fixed-capacity ring of tones with strict FIFO order.
// Producers enqueue dots, dashes, gaps and arbitrary tones; the
// consumer pulls them one at a time with a three-valued dequeue that
// distinguishes "here is a tone" from "the queue just drained" from
// "the queue was already idle". A tone flagged Forever sticks at the
// head of the queue until a successor arrives, which is how tones of
// indeterminate duration (a held-down key) are expressed without a
// separate control channel.
package queue
