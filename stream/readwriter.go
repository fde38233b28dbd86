// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"sync"

	"github.com/ezrec/pstream/channel"
	"github.com/ezrec/pstream/registry"
)

// ReadWriter is a protected stream with an input and an output channel,
// which may be the same channel.
type ReadWriter struct {
	in   channel.Reader
	out  channel.Writer
	reg  *registry.Registry
	once sync.Once
}

// NewReadWriter binds a read-write stream to in and out.
func NewReadWriter(in channel.Reader, out channel.Writer, opts ...Option) (rw *ReadWriter) {
	cfg := newConfig(opts)

	rw = &ReadWriter{in: in, out: out, reg: cfg.registry}
	rw.reg.Acquire(in)
	if !rw.paired() {
		rw.reg.Acquire(out)
	}

	return
}

// NewReadWriterFrom binds a read-write stream to ch in both roles.
func NewReadWriterFrom(ch channel.ReadWriter, opts ...Option) *ReadWriter {
	return NewReadWriter(ch, ch, opts...)
}

// paired is true when both roles use one channel.
func (rw *ReadWriter) paired() bool {
	return any(rw.in) == any(rw.out)
}

// Channels returns the underlying input and output channels.
func (rw *ReadWriter) Channels() (channel.Reader, channel.Writer) {
	return rw.in, rw.out
}

// Read starts a batch whose first action reads into slot.
func (rw *ReadWriter) Read(slot any) *ReadWriteBatch {
	b := &ReadWriteBatch{batch: newBatch(rw.reg, rw.in, rw.out)}
	return b.ThenRead(slot)
}

// Write starts a batch whose first action writes value.
func (rw *ReadWriter) Write(value any) *ReadWriteBatch {
	b := &ReadWriteBatch{batch: newBatch(rw.reg, rw.in, rw.out)}
	return b.ThenWrite(value)
}

// Reader returns a new input-only stream over the input channel.
func (rw *ReadWriter) Reader() *Reader {
	return NewReader(rw.in, WithRegistry(rw.reg))
}

// Writer returns a new output-only stream over the output channel.
func (rw *ReadWriter) Writer() *Writer {
	return NewWriter(rw.out, WithRegistry(rw.reg))
}

// Close unregisters both channels.
func (rw *ReadWriter) Close() error {
	rw.once.Do(func() {
		rw.reg.Release(rw.in)
		if !rw.paired() {
			rw.reg.Release(rw.out)
		}
	})
	return nil
}
