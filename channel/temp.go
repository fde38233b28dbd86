// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package channel

import (
	"io"
	"reflect"
)

// Temporary is a bounded FIFO of Go values. Writes store a copy of the
// value: pointers are dereferenced, and slices and maps are copied one
// level deep so later changes by the caller do not reach queued data.
// Reads assign the oldest value to the slot, which must accept its type.
type Temporary struct {
	Capacity int // Capacity in values; zero is unbounded.

	Data []any
}

var _ ReadWriter = (*Temporary)(nil)

// Len returns the number of queued values.
func (temp *Temporary) Len() int {
	return len(temp.Data)
}

// Reset discards all queued values.
func (temp *Temporary) Reset() {
	clear(temp.Data)
	temp.Data = temp.Data[:0]
}

// Read pops the oldest value into slot. Returns io.EOF when empty and
// ErrValueType if the value is not assignable to the slot.
func (temp *Temporary) Read(slot any) (err error) {
	rv := reflect.ValueOf(slot)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		err = ErrSlotInvalid
		return
	}

	if len(temp.Data) == 0 {
		err = io.EOF
		return
	}

	value := reflect.ValueOf(temp.Data[0])
	target := rv.Elem()
	if !value.IsValid() {
		target.SetZero()
	} else if value.Type().AssignableTo(target.Type()) {
		target.Set(value)
	} else {
		err = ErrValueType
		return
	}

	temp.Data[0] = nil
	temp.Data = temp.Data[1:]

	return
}

// Write queues a copy of value.
// Returns ErrChannelFull if the buffer has reached capacity.
func (temp *Temporary) Write(value any) (err error) {
	if temp.Capacity > 0 && len(temp.Data) >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.IsValid() && rv.CanInterface() {
		value = shallowCopy(rv).Interface()
	}

	temp.Data = append(temp.Data, value)

	return
}

// shallowCopy duplicates the backing store of slices and maps.
func shallowCopy(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		dup := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(dup, rv)
		return dup
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		dup := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			dup.SetMapIndex(iter.Key(), iter.Value())
		}
		return dup
	}
	return rv
}
