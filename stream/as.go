// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

// ReadAs reads one value of type T from r in its own batch.
func ReadAs[T any](r *Reader) (value T, err error) {
	err = r.Read(&value).Commit()
	return
}
