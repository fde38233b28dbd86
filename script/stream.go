// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"fmt"
	"sync"

	"go.starlark.net/starlark"

	"github.com/ezrec/pstream/stream"
)

// Stream exposes a protected stream to Starlark.
//
//	stdout.write("a", 1, "\n")         # one atomic write batch
//	x, y = stdin.read("int", "int")    # one atomic read batch
//	b = stdio.batch()
//	b.write("name? ").read("string")
//	name, = b.commit()
type Stream struct {
	name string
	r    *stream.Reader
	w    *stream.Writer
	rw   *stream.ReadWriter
}

var (
	_ starlark.Value    = (*Stream)(nil)
	_ starlark.HasAttrs = (*Stream)(nil)
)

// NewReaderStream exposes r as an input-only stream.
func NewReaderStream(name string, r *stream.Reader) *Stream {
	return &Stream{name: name, r: r}
}

// NewWriterStream exposes w as an output-only stream.
func NewWriterStream(name string, w *stream.Writer) *Stream {
	return &Stream{name: name, w: w}
}

// NewReadWriterStream exposes rw in both directions.
func NewReadWriterStream(name string, rw *stream.ReadWriter) *Stream {
	return &Stream{name: name, rw: rw}
}

func (s *Stream) String() string        { return fmt.Sprintf("<stream %s>", s.name) }
func (s *Stream) Type() string          { return "stream" }
func (s *Stream) Freeze()               {}
func (s *Stream) Truth() starlark.Bool  { return starlark.True }
func (s *Stream) Hash() (uint32, error) { return starlark.String(s.name).Hash() }

func (s *Stream) readable() bool {
	return s.r != nil || s.rw != nil
}

func (s *Stream) writable() bool {
	return s.w != nil || s.rw != nil
}

// Close releases the wrapped stream.
func (s *Stream) Close() (err error) {
	switch {
	case s.rw != nil:
		err = s.rw.Close()
	case s.r != nil:
		err = s.r.Close()
	case s.w != nil:
		err = s.w.Close()
	}
	return
}

// step is one queued script action; value is a read slot or a write value.
type step struct {
	op    stream.Op
	value any
}

// commit applies steps as a single protected batch.
func (s *Stream) commit(steps []step) (err error) {
	if len(steps) == 0 {
		return
	}

	switch {
	case s.rw != nil:
		var b *stream.ReadWriteBatch
		for _, st := range steps {
			switch {
			case b == nil && st.op == stream.OP_READ:
				b = s.rw.Read(st.value)
			case b == nil:
				b = s.rw.Write(st.value)
			case st.op == stream.OP_READ:
				b.ThenRead(st.value)
			default:
				b.ThenWrite(st.value)
			}
		}
		err = b.Commit()
	case s.r != nil:
		slots := make([]any, len(steps))
		for n, st := range steps {
			slots[n] = st.value
		}
		err = s.r.Scan(slots...)
	case s.w != nil:
		values := make([]any, len(steps))
		for n, st := range steps {
			values[n] = st.value
		}
		err = s.w.Print(values...)
	}

	return
}

var streamMethods = map[string]*starlark.Builtin{
	"write": starlark.NewBuiltin("write", streamWrite),
	"read":  starlark.NewBuiltin("read", streamRead),
	"batch": starlark.NewBuiltin("batch", streamBatch),
}

func (s *Stream) Attr(name string) (starlark.Value, error) {
	method, ok := streamMethods[name]
	if !ok {
		return nil, nil
	}
	return method.BindReceiver(s), nil
}

func (s *Stream) AttrNames() []string {
	return []string{"batch", "read", "write"}
}

func streamWrite(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: %w", fn.Name(), ErrKeywordArgs)
	}

	s := fn.Receiver().(*Stream)
	if !s.writable() {
		return nil, fmt.Errorf("%s: %w", fn.Name(), ErrNotWritable)
	}

	steps := make([]step, len(args))
	for n, arg := range args {
		steps[n] = step{op: stream.OP_WRITE, value: toGo(arg)}
	}

	if err := s.commit(steps); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return starlark.None, nil
}

func streamRead(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: %w", fn.Name(), ErrKeywordArgs)
	}

	s := fn.Receiver().(*Stream)
	if !s.readable() {
		return nil, fmt.Errorf("%s: %w", fn.Name(), ErrNotReadable)
	}

	steps := make([]step, len(args))
	for n, arg := range args {
		slot, err := newSlot(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		steps[n] = step{op: stream.OP_READ, value: slot}
	}

	if err := s.commit(steps); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return results(steps), nil
}

func streamBatch(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return &Batch{stream: fn.Receiver().(*Stream)}, nil
}

// results collects the values read by steps, in order.
func results(steps []step) starlark.Tuple {
	var tuple starlark.Tuple
	for _, st := range steps {
		if st.op == stream.OP_READ {
			tuple = append(tuple, fromSlot(st.value))
		}
	}
	return tuple
}

// Batch is a Starlark handle that accumulates steps for one commit.
type Batch struct {
	stream *Stream

	mu        sync.Mutex
	steps     []step
	frozen    bool
	committed bool
}

var (
	_ starlark.Value    = (*Batch)(nil)
	_ starlark.HasAttrs = (*Batch)(nil)
)

func (b *Batch) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("<batch %s len=%d>", b.stream.name, len(b.steps))
}

func (b *Batch) Type() string         { return "batch" }
func (b *Batch) Truth() starlark.Bool { return starlark.True }

func (b *Batch) Freeze() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
}

func (b *Batch) Hash() (uint32, error) {
	return 0, ErrUnhashable
}

// add queues st, failing on a frozen or committed batch.
func (b *Batch) add(st step) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.committed:
		err = ErrBatchCommitted
	case b.frozen:
		err = ErrBatchFrozen
	default:
		b.steps = append(b.steps, st)
	}
	return
}

var batchMethods = map[string]*starlark.Builtin{
	"write":  starlark.NewBuiltin("write", batchWrite),
	"read":   starlark.NewBuiltin("read", batchRead),
	"commit": starlark.NewBuiltin("commit", batchCommit),
}

func (b *Batch) Attr(name string) (starlark.Value, error) {
	method, ok := batchMethods[name]
	if !ok {
		return nil, nil
	}
	return method.BindReceiver(b), nil
}

func (b *Batch) AttrNames() []string {
	return []string{"commit", "read", "write"}
}

func batchWrite(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &value); err != nil {
		return nil, err
	}

	b := fn.Receiver().(*Batch)
	if !b.stream.writable() {
		return nil, fmt.Errorf("%s: %w", fn.Name(), ErrNotWritable)
	}

	if err := b.add(step{op: stream.OP_WRITE, value: toGo(value)}); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return b, nil
}

func batchRead(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var kind starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &kind); err != nil {
		return nil, err
	}

	b := fn.Receiver().(*Batch)
	if !b.stream.readable() {
		return nil, fmt.Errorf("%s: %w", fn.Name(), ErrNotReadable)
	}

	slot, err := newSlot(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	if err := b.add(step{op: stream.OP_READ, value: slot}); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return b, nil
}

func batchCommit(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	b := fn.Receiver().(*Batch)

	b.mu.Lock()
	if b.committed {
		b.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", fn.Name(), ErrBatchCommitted)
	}
	b.committed = true
	steps := b.steps
	b.steps = nil
	b.mu.Unlock()

	if err := b.stream.commit(steps); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return results(steps), nil
}
