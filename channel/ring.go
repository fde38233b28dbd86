// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package channel

import (
	"encoding/binary"
	"io"
	"reflect"
)

const (
	// RING_DEFAULT_CAPACITY is the default capacity in bytes for a new ring.
	RING_DEFAULT_CAPACITY = 65536
)

// Ring is a bounded binary channel holding fixed-size values encoded with
// encoding/binary. Reads consume from ReadIndex up to WriteIndex; Rewind
// replays everything written so far.
type Ring struct {
	Capacity int              // Capacity in bytes.
	Order    binary.ByteOrder // Defaults to little endian.

	WriteIndex int
	ReadIndex  int
	Data       []byte
}

var _ ReadWriter = (*Ring)(nil)

func (ring *Ring) order() binary.ByteOrder {
	if ring.Order == nil {
		return binary.LittleEndian
	}
	return ring.Order
}

func (ring *Ring) capacity() int {
	if ring.Capacity == 0 {
		return RING_DEFAULT_CAPACITY
	}
	return ring.Capacity
}

// Rewind resets the read position to the start of the data.
func (ring *Ring) Rewind() {
	ring.ReadIndex = 0
}

// Reset empties the ring.
func (ring *Ring) Reset() {
	ring.ReadIndex = 0
	ring.WriteIndex = 0
	ring.Data = ring.Data[:0]
}

// Unmarshal loads ring data from a reader, replacing any existing data.
func (ring *Ring) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	if len(data) > ring.capacity() {
		err = ErrChannelFull
		return
	}

	ring.Data = data
	ring.ReadIndex = 0
	ring.WriteIndex = len(ring.Data)

	return
}

// Marshal writes the ring's data to a writer up to the current write position.
func (ring *Ring) Marshal(file io.Writer) (err error) {
	_, err = file.Write(ring.Data[:ring.WriteIndex])

	return
}

// Read decodes one value into slot. Returns io.EOF if the ring is drained
// and io.ErrUnexpectedEOF if only part of a value remains.
func (ring *Ring) Read(slot any) (err error) {
	if rv := reflect.ValueOf(slot); rv.Kind() != reflect.Pointer || rv.IsNil() {
		err = ErrSlotInvalid
		return
	}

	size := binary.Size(slot)
	if size < 0 {
		err = ErrValueType
		return
	}

	avail := ring.WriteIndex - ring.ReadIndex
	switch {
	case avail == 0:
		err = io.EOF
		return
	case avail < size:
		err = io.ErrUnexpectedEOF
		return
	}

	n, err := binary.Decode(ring.Data[ring.ReadIndex:ring.WriteIndex], ring.order(), slot)
	if err != nil {
		return
	}

	ring.ReadIndex += n

	return
}

// Write encodes value at the write position.
// Returns ErrChannelFull if the value would exceed capacity.
func (ring *Ring) Write(value any) (err error) {
	size := binary.Size(value)
	if size < 0 {
		err = ErrValueType
		return
	}

	if ring.WriteIndex+size > ring.capacity() {
		err = ErrChannelFull
		return
	}

	ring.Data, err = binary.Append(ring.Data[:ring.WriteIndex], ring.order(), value)
	if err != nil {
		return
	}

	ring.WriteIndex = len(ring.Data)

	return
}
