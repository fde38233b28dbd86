// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"errors"

	"github.com/ezrec/pstream/translate"
)

var f = translate.From

var (
	// Batch errors
	ErrBatchState = errors.New(f("batch no longer building"))
)
