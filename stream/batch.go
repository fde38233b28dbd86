// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"github.com/eapache/queue"

	"github.com/ezrec/pstream/channel"
	"github.com/ezrec/pstream/registry"
)

// batch is the state shared by the three batch types.
type batch struct {
	reg     *registry.Registry
	in      channel.Reader
	out     channel.Writer
	actions *queue.Queue
	state   State
	err     error // Sticky; reported by the next commit.
}

func newBatch(reg *registry.Registry, in channel.Reader, out channel.Writer) batch {
	return batch{
		reg:     reg,
		in:      in,
		out:     out,
		actions: queue.New(),
	}
}

func (b *batch) push(op Op, value any) {
	if b.state != STATE_BUILDING {
		b.err = ErrBatchState
		return
	}

	b.actions.Add(action{op: op, in: b.in, out: b.out, value: value})
}

// move hands the queue to a new batch and leaves b inert.
func (b *batch) move() (next batch) {
	next = *b
	b.actions = nil
	b.err = nil
	if b.state == STATE_BUILDING {
		b.state = STATE_INERT
	}
	return
}

// identities lists the registry keys the batch must lock.
func (b *batch) identities() (ids []any) {
	if b.in != nil {
		ids = append(ids, b.in)
	}
	if b.out != nil {
		ids = append(ids, b.out)
	}
	return
}

func (b *batch) len() int {
	if b.actions == nil {
		return 0
	}
	return b.actions.Length()
}

// commit runs the queue under the channel lock(s). The first failing
// action's error is returned as is and the rest of the queue is dropped.
func (b *batch) commit() (err error) {
	if b.err != nil {
		err, b.err = b.err, nil
		return
	}

	if b.state != STATE_BUILDING {
		return
	}

	b.state = STATE_FLUSHING
	defer func() {
		b.actions = nil
		b.state = STATE_DONE
	}()

	if b.len() == 0 {
		return
	}

	// Lookup releases the management lock before any channel lock is taken.
	locks, err := b.reg.Lookup(b.identities()...)
	if err != nil {
		return
	}

	for _, lk := range locks {
		lk.Lock()
	}
	defer func() {
		for n := len(locks) - 1; n >= 0; n-- {
			locks[n].Unlock()
		}
	}()

	for b.actions.Length() > 0 {
		act := b.actions.Remove().(action)
		err = act.apply()
		if err != nil {
			return
		}
	}

	return
}

// ReadBatch is a pending chain of reads from one channel.
type ReadBatch struct {
	batch
}

// ThenRead queues a read into slot.
func (b *ReadBatch) ThenRead(slot any) *ReadBatch {
	b.push(OP_READ, slot)
	return b
}

// Move transfers the queued reads to a new batch. b becomes inert.
func (b *ReadBatch) Move() *ReadBatch {
	return &ReadBatch{batch: b.move()}
}

// Commit applies the queued reads atomically.
func (b *ReadBatch) Commit() error {
	return b.commit()
}

// Close is Commit, for use with defer.
func (b *ReadBatch) Close() error {
	return b.commit()
}

// Len returns the number of queued actions.
func (b *ReadBatch) Len() int {
	return b.len()
}

// State returns the batch life cycle stage.
func (b *ReadBatch) State() State {
	return b.state
}

// WriteBatch is a pending chain of writes to one channel.
type WriteBatch struct {
	batch
}

// ThenWrite queues a write of value.
func (b *WriteBatch) ThenWrite(value any) *WriteBatch {
	b.push(OP_WRITE, value)
	return b
}

// Move transfers the queued writes to a new batch. b becomes inert.
func (b *WriteBatch) Move() *WriteBatch {
	return &WriteBatch{batch: b.move()}
}

// Commit applies the queued writes atomically.
func (b *WriteBatch) Commit() error {
	return b.commit()
}

// Close is Commit, for use with defer.
func (b *WriteBatch) Close() error {
	return b.commit()
}

// Len returns the number of queued actions.
func (b *WriteBatch) Len() int {
	return b.len()
}

// State returns the batch life cycle stage.
func (b *WriteBatch) State() State {
	return b.state
}

// ReadWriteBatch is a pending chain of interleaved reads and writes over
// an input and an output channel.
type ReadWriteBatch struct {
	batch
}

// ThenRead queues a read into slot from the input channel.
func (b *ReadWriteBatch) ThenRead(slot any) *ReadWriteBatch {
	b.push(OP_READ, slot)
	return b
}

// ThenWrite queues a write of value to the output channel.
func (b *ReadWriteBatch) ThenWrite(value any) *ReadWriteBatch {
	b.push(OP_WRITE, value)
	return b
}

// Move transfers the queued actions to a new batch. b becomes inert.
func (b *ReadWriteBatch) Move() *ReadWriteBatch {
	return &ReadWriteBatch{batch: b.move()}
}

// Commit applies the queued actions atomically, holding both channel
// locks when the channels differ.
func (b *ReadWriteBatch) Commit() error {
	return b.commit()
}

// Close is Commit, for use with defer.
func (b *ReadWriteBatch) Close() error {
	return b.commit()
}

// Len returns the number of queued actions.
func (b *ReadWriteBatch) Len() int {
	return b.len()
}

// State returns the batch life cycle stage.
func (b *ReadWriteBatch) State() State {
	return b.state
}
