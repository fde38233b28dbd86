// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package channel provides the sequential I/O media that protected
// streams serialize access to. A channel is not safe for concurrent use
// on its own; the stream package supplies the locking.
//
// Channels are identified by pointer. Two wrappers over the same
// *Buffer share a lock; two distinct buffers with equal contents do not.
package channel

// Reader reads one value per call into the pointer slot.
type Reader interface {
	Read(slot any) error
}

// Writer writes one value per call. A pointer value is dereferenced at
// the time of the write.
type Writer interface {
	Write(value any) error
}

// ReadWriter is a channel usable in both roles.
type ReadWriter interface {
	Reader
	Writer
}
