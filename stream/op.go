// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"github.com/ezrec/pstream/channel"
)

// Op is the kind of a deferred action.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_READ  = Op(0) // read
	OP_WRITE = Op(1) // write
)

// action is one deferred I/O step.
type action struct {
	op    Op
	in    channel.Reader
	out   channel.Writer
	value any // Read slot, or the value to write.
}

func (act action) apply() (err error) {
	switch act.op {
	case OP_READ:
		err = act.in.Read(act.value)
	case OP_WRITE:
		err = act.out.Write(act.value)
	}
	return
}
