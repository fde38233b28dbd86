// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"fmt"

	"go.starlark.net/starlark"
)

// readKinds maps a read kind name to a constructor for its Go slot.
var readKinds = map[string]func() any{
	"int":    func() any { return new(int64) },
	"float":  func() any { return new(float64) },
	"string": func() any { return new(string) },
	"str":    func() any { return new(string) },
	"bool":   func() any { return new(bool) },
}

// newSlot returns a Go slot for the named kind.
func newSlot(kind starlark.Value) (slot any, err error) {
	name, ok := starlark.AsString(kind)
	if !ok {
		err = fmt.Errorf("%w: %v", ErrReadKind, kind)
		return
	}

	mk, ok := readKinds[name]
	if !ok {
		err = fmt.Errorf("%w: %q", ErrReadKind, name)
		return
	}

	slot = mk()
	return
}

// fromSlot converts a filled slot back to a Starlark value.
func fromSlot(slot any) starlark.Value {
	switch slot := slot.(type) {
	case *int64:
		return starlark.MakeInt64(*slot)
	case *float64:
		return starlark.Float(*slot)
	case *string:
		return starlark.String(*slot)
	case *bool:
		return starlark.Bool(*slot)
	}
	return starlark.None
}

// toGo converts a Starlark value to the Go value written to a channel.
func toGo(v starlark.Value) any {
	switch v := v.(type) {
	case starlark.String:
		return string(v)
	case starlark.Int:
		if n, ok := v.Int64(); ok {
			return n
		}
		return v.String()
	case starlark.Float:
		return float64(v)
	case starlark.Bool:
		return bool(v)
	}
	return v.String()
}
