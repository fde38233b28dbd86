// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package channel

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type point struct {
	X, Y int
}

func TestTemporary(t *testing.T) {
	assert := assert.New(t)

	temp := &Temporary{Capacity: 3}
	p := point{1, 2}
	assert.NoError(temp.Write(&p))
	assert.NoError(temp.Write("two"))
	assert.NoError(temp.Write(nil))
	assert.Equal(ErrChannelFull, temp.Write(4))
	assert.Equal(3, temp.Len())

	// Stored by value.
	p.X = 100

	var got point
	var s string
	var e error = io.ErrClosedPipe
	assert.NoError(temp.Read(&got))
	assert.Equal(point{1, 2}, got)

	assert.Equal(ErrValueType, temp.Read(&got))
	assert.NoError(temp.Read(&s))
	assert.Equal("two", s)

	assert.NoError(temp.Read(&e))
	assert.Nil(e)

	assert.Equal(io.EOF, temp.Read(&s))
}

func TestTemporary_Unbounded(t *testing.T) {
	assert := assert.New(t)

	temp := &Temporary{}
	for n := range 100 {
		assert.NoError(temp.Write(n))
	}
	assert.Equal(100, temp.Len())

	var slot any
	assert.NoError(temp.Read(&slot))
	assert.Equal(0, slot)

	temp.Reset()
	assert.Equal(0, temp.Len())
	assert.Equal(ErrSlotInvalid, temp.Read(slot))
}

func TestTemporary_CopiesContainers(t *testing.T) {
	assert := assert.New(t)

	temp := &Temporary{}

	data := []byte("abc")
	counts := map[string]int{"a": 1}
	assert.NoError(temp.Write(data))
	assert.NoError(temp.Write(&counts))
	assert.NoError(temp.Write([]int(nil)))

	// The caller reuses its storage after the write.
	data[0] = 'X'
	counts["a"] = 99
	counts["b"] = 2

	var gotData []byte
	var gotCounts map[string]int
	var gotNil []int
	assert.NoError(temp.Read(&gotData))
	assert.NoError(temp.Read(&gotCounts))
	assert.NoError(temp.Read(&gotNil))
	assert.Equal("abc", string(gotData))
	assert.Equal(map[string]int{"a": 1}, gotCounts)
	assert.Nil(gotNil)
}
