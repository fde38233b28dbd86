// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package channel

import (
	"fmt"
	"io"
	"reflect"

	"github.com/ezrec/pstream/internal"
)

// writeText formats value onto w, dereferencing pointers first.
func writeText(w io.Writer, value any) (err error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.IsValid() && rv.CanInterface() {
		value = rv.Interface()
	}

	switch value := value.(type) {
	case []byte:
		_, err = w.Write(value)
	case string:
		_, err = io.WriteString(w, value)
	default:
		_, err = fmt.Fprint(w, value)
	}

	return
}

// readText scans one white space delimited token into slot.
func readText(rs internal.TokenScanner, slot any) (err error) {
	rv := reflect.ValueOf(slot)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		err = ErrSlotInvalid
		return
	}

	token, err := internal.ScanToken(rs)
	if err != nil {
		return
	}

	switch slot := slot.(type) {
	case *string:
		*slot = token
	case *[]byte:
		*slot = []byte(token)
	default:
		_, err = fmt.Sscan(token, slot)
		if err != nil {
			err = &ErrParse{Token: token, Err: err}
		}
	}

	return
}
