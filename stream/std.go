// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"github.com/ezrec/pstream/channel"
)

// Protected process-wide streams. Each is an ordinary registered wrapper.
var (
	Stdin  = NewReader(channel.Stdin)
	Stdout = NewWriter(channel.Stdout)
	Stderr = NewWriter(channel.Stderr)
	Log    = NewWriter(channel.Log)
	Stdio  = NewReadWriter(channel.Stdin, channel.Stdout)
)
