// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package channel

import (
	"os"
)

// Process-wide channels. Log shares the stderr descriptor with Stderr but
// is a distinct channel, so it is protected by its own lock.
var (
	Stdin  = NewTape(os.Stdin, nil)
	Stdout = NewTape(nil, os.Stdout)
	Stderr = NewTape(nil, os.Stderr)
	Log    = NewTape(nil, os.Stderr)
)
