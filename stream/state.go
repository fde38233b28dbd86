// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

// State is the life cycle stage of a batch.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_BUILDING = State(0) // building
	STATE_FLUSHING = State(1) // flushing
	STATE_DONE     = State(2) // done
	STATE_INERT    = State(3) // inert
)
