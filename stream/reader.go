// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"sync"

	"github.com/ezrec/pstream/channel"
	"github.com/ezrec/pstream/registry"
)

// Reader is a protected input stream.
type Reader struct {
	ch   channel.Reader
	reg  *registry.Registry
	once sync.Once
}

// NewReader binds a reader to ch and registers it.
func NewReader(ch channel.Reader, opts ...Option) (r *Reader) {
	cfg := newConfig(opts)

	r = &Reader{ch: ch, reg: cfg.registry}
	r.reg.Acquire(ch)

	return
}

// Channel returns the underlying channel.
func (r *Reader) Channel() channel.Reader {
	return r.ch
}

// Read starts a batch whose first action reads into slot.
func (r *Reader) Read(slot any) *ReadBatch {
	b := &ReadBatch{batch: newBatch(r.reg, r.ch, nil)}
	return b.ThenRead(slot)
}

// Scan reads into every slot in one batch.
func (r *Reader) Scan(slots ...any) (err error) {
	if len(slots) == 0 {
		return
	}

	b := r.Read(slots[0])
	for _, slot := range slots[1:] {
		b.ThenRead(slot)
	}

	return b.Commit()
}

// Close unregisters the reader. Batches from it must be committed first.
func (r *Reader) Close() error {
	r.once.Do(func() {
		r.reg.Release(r.ch)
	})
	return nil
}
