// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"sync"

	"github.com/ezrec/pstream/channel"
	"github.com/ezrec/pstream/registry"
)

// Writer is a protected output stream.
type Writer struct {
	ch   channel.Writer
	reg  *registry.Registry
	once sync.Once
}

// NewWriter binds a writer to ch and registers it.
func NewWriter(ch channel.Writer, opts ...Option) (w *Writer) {
	cfg := newConfig(opts)

	w = &Writer{ch: ch, reg: cfg.registry}
	w.reg.Acquire(ch)

	return
}

// Channel returns the underlying channel.
func (w *Writer) Channel() channel.Writer {
	return w.ch
}

// Write starts a batch whose first action writes value. A pointer is
// dereferenced at commit time; any other value is held by copy.
func (w *Writer) Write(value any) *WriteBatch {
	b := &WriteBatch{batch: newBatch(w.reg, nil, w.ch)}
	return b.ThenWrite(value)
}

// Print writes every value in one batch.
func (w *Writer) Print(values ...any) (err error) {
	if len(values) == 0 {
		return
	}

	b := w.Write(values[0])
	for _, value := range values[1:] {
		b.ThenWrite(value)
	}

	return b.Commit()
}

// Close unregisters the writer. Batches from it must be committed first.
func (w *Writer) Close() error {
	w.once.Do(func() {
		w.reg.Release(w.ch)
	})
	return nil
}
