// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"errors"

	"github.com/ezrec/pstream/translate"
)

var f = translate.From

var (
	// Script errors
	ErrWorkerCallable = errors.New(f("worker is not callable"))
	ErrNotReadable    = errors.New(f("stream not readable"))
	ErrNotWritable    = errors.New(f("stream not writable"))
	ErrReadKind       = errors.New(f("read kind unknown"))
	ErrBatchFrozen    = errors.New(f("batch frozen"))
	ErrBatchCommitted = errors.New(f("batch committed"))
	ErrKeywordArgs    = errors.New(f("unexpected keyword arguments"))
	ErrUnhashable     = errors.New(f("unhashable type: batch"))
)

// ErrWorker reports the failure of one worker goroutine.
type ErrWorker struct {
	Id  int
	Err error
}

func (err *ErrWorker) Error() string {
	return f("worker %d: %v", err.Id, err.Err)
}

func (err *ErrWorker) Unwrap() error {
	return err.Err
}
