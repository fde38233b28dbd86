// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package channel

import (
	"bufio"
	"io"
)

// Tape provides text I/O over a byte stream. Input is buffered so that
// the delimiter after a token is not lost between reads.
type Tape struct {
	input  *bufio.Reader
	output io.Writer
}

var _ ReadWriter = (*Tape)(nil)

// NewTape returns a tape reading from input and writing to output.
// Either may be nil, making that direction fail.
func NewTape(input io.Reader, output io.Writer) (tc *Tape) {
	tc = &Tape{output: output}
	if input != nil {
		tc.input = bufio.NewReader(input)
	}
	return
}

// Read scans the next token from the input stream, blocking as the
// underlying reader does.
func (tc *Tape) Read(slot any) (err error) {
	if tc.input == nil {
		err = ErrNotReadable
		return
	}

	return readText(tc.input, slot)
}

// Write sends the text form of value to the output stream.
func (tc *Tape) Write(value any) (err error) {
	if tc.output == nil {
		err = ErrNotWritable
		return
	}

	return writeText(tc.output, value)
}
