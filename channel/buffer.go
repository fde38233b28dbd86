// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package channel

import (
	"bytes"
)

// Buffer is an in-memory text channel. Writes append the formatted value
// with no separator; reads consume one white space delimited token.
type Buffer struct {
	data bytes.Buffer
}

var _ ReadWriter = (*Buffer)(nil)

// NewBuffer returns a buffer holding text.
func NewBuffer(text string) (buf *Buffer) {
	buf = &Buffer{}
	buf.data.WriteString(text)
	return
}

// Read scans the next token into slot. Returns io.EOF when no token
// remains.
func (buf *Buffer) Read(slot any) error {
	return readText(&buf.data, slot)
}

// Write appends the text form of value.
func (buf *Buffer) Write(value any) error {
	return writeText(&buf.data, value)
}

// Len returns the number of unread bytes.
func (buf *Buffer) Len() int {
	return buf.data.Len()
}

// String returns the unread text.
func (buf *Buffer) String() string {
	return buf.data.String()
}

// Reset discards all content.
func (buf *Buffer) Reset() {
	buf.data.Reset()
}
