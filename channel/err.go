// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package channel

import (
	"errors"

	"github.com/ezrec/pstream/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull = errors.New(f("channel full"))
	ErrSlotInvalid = errors.New(f("slot invalid"))
	ErrValueType   = errors.New(f("value type unsupported"))
	ErrNotReadable = errors.New(f("channel not readable"))
	ErrNotWritable = errors.New(f("channel not writable"))
)

// ErrParse reports a token that could not be stored into a read slot.
type ErrParse struct {
	Token string
	Err   error
}

func (err *ErrParse) Error() string {
	return f("parse '%v' %v", err.Token, err.Err)
}

func (err *ErrParse) Unwrap() error {
	return err.Err
}
