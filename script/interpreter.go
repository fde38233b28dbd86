// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script drives protected streams from Starlark programs.
//
// A program runs once on the main thread. If it defines a global
// function named worker, that function is then called concurrently as
// worker(id) from Workers goroutines, each with its own Starlark thread.
// Stream methods commit atomically, so the output of concurrent workers
// never interleaves within one write or batch.
package script

import (
	"fmt"
	"log"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/pstream/channel"
	"github.com/ezrec/pstream/registry"
	"github.com/ezrec/pstream/stream"
)

// WorkerFunc is the global called on every worker goroutine.
const WorkerFunc = "worker"

// Interpreter runs scripts against a set of named streams.
type Interpreter struct {
	Verbose  bool               // If set, logs worker start and finish.
	Workers  int                // Goroutines running worker(); at least one.
	Registry *registry.Registry // Registry for buffer(), ring() and queue(); nil is registry.Default.
	Streams  map[string]*Stream // Predeclared streams, by global name.
	Output   *stream.Writer     // Destination of print(); nil discards.

	mu    sync.Mutex
	owned []*Stream
}

// NewInterpreter returns an interpreter over the process streams.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		Workers: 1,
		Streams: map[string]*Stream{
			"stdin":  NewReaderStream("stdin", stream.Stdin),
			"stdout": NewWriterStream("stdout", stream.Stdout),
			"stderr": NewWriterStream("stderr", stream.Stderr),
			"log":    NewWriterStream("log", stream.Log),
			"stdio":  NewReadWriterStream("stdio", stream.Stdio),
		},
		Output: stream.Log,
	}
}

func (it *Interpreter) registry() *registry.Registry {
	if it.Registry == nil {
		return registry.Default
	}
	return it.Registry
}

// print routes the Starlark print builtin to Output, one line per batch.
func (it *Interpreter) print(thread *starlark.Thread, msg string) {
	if it.Output == nil {
		return
	}

	err := it.Output.Write(msg).ThenWrite("\n").Commit()
	if err != nil && it.Verbose {
		log.Printf("script: %v: print: %v", thread.Name, err)
	}
}

// own wraps ch as a read-write stream released when Run returns.
func (it *Interpreter) own(kind string, ch channel.ReadWriter) *Stream {
	it.mu.Lock()
	defer it.mu.Unlock()

	name := fmt.Sprintf("%s%d", kind, len(it.owned))
	rw := stream.NewReadWriterFrom(ch, stream.WithRegistry(it.registry()))
	s := NewReadWriterStream(name, rw)
	it.owned = append(it.owned, s)

	return s
}

// buffer implements buffer(text=""): an in-memory text stream.
func (it *Interpreter) buffer(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "text?", &text); err != nil {
		return nil, err
	}

	return it.own("buffer", channel.NewBuffer(text)), nil
}

// ring implements ring(capacity=0): a bounded binary stream. Values are
// 64-bit ints, floats and bools; strings are rejected by the channel.
func (it *Interpreter) ring(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var capacity int
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "capacity?", &capacity); err != nil {
		return nil, err
	}

	return it.own("ring", &channel.Ring{Capacity: capacity}), nil
}

// queue implements queue(capacity=0): a bounded FIFO of values.
func (it *Interpreter) queue(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var capacity int
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "capacity?", &capacity); err != nil {
		return nil, err
	}

	return it.own("queue", &channel.Temporary{Capacity: capacity}), nil
}

func (it *Interpreter) predeclared() starlark.StringDict {
	dict := starlark.StringDict{
		"buffer": starlark.NewBuiltin("buffer", it.buffer),
		"ring":   starlark.NewBuiltin("ring", it.ring),
		"queue":  starlark.NewBuiltin("queue", it.queue),
	}
	for name, s := range it.Streams {
		dict[name] = s
	}
	return dict
}

func (it *Interpreter) release() {
	it.mu.Lock()
	defer it.mu.Unlock()

	for _, s := range it.owned {
		s.Close()
	}
	it.owned = nil
}

// Run executes src, then fans out to the worker function if defined.
// src may be a string, []byte or io.Reader; nil reads filename.
func (it *Interpreter) Run(filename string, src any) (err error) {
	defer it.release()

	opts := syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}

	thread := &starlark.Thread{Name: "main", Print: it.print}
	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, it.predeclared())
	if err != nil {
		return
	}

	value, ok := globals[WorkerFunc]
	if !ok {
		return
	}

	worker, ok := value.(starlark.Callable)
	if !ok {
		err = ErrWorkerCallable
		return
	}

	workers := max(it.Workers, 1)

	var g errgroup.Group
	for id := range workers {
		g.Go(func() (err error) {
			if it.Verbose {
				log.Printf("script: worker %d start", id)
			}

			th := &starlark.Thread{Name: fmt.Sprintf("worker%d", id), Print: it.print}
			_, err = starlark.Call(th, worker, starlark.Tuple{starlark.MakeInt(id)}, nil)
			if err != nil {
				err = &ErrWorker{Id: id, Err: err}
			}

			if it.Verbose {
				log.Printf("script: worker %d done: %v", id, err)
			}
			return
		})
	}

	err = g.Wait()

	return
}
