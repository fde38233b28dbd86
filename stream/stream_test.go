// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/pstream/channel"
	"github.com/ezrec/pstream/registry"
)

const (
	numWorkers      = 16
	sameValuesInRow = 3
)

func TestReader_Atomicity(t *testing.T) {
	assert := assert.New(t)

	reg := registry.New()
	buf := &channel.Buffer{}
	for n := range numWorkers {
		for range sameValuesInRow {
			assert.NoError(buf.Write(fmt.Sprintf("%d ", n)))
		}
	}

	readings := make([][sameValuesInRow]int, numWorkers)
	start := make(chan struct{})
	var g errgroup.Group
	for n := range numWorkers {
		r := NewReader(buf, WithRegistry(reg))
		g.Go(func() error {
			defer r.Close()
			<-start
			reading := &readings[n]
			return r.Read(&reading[0]).ThenRead(&reading[1]).ThenRead(&reading[2]).Commit()
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	seen := map[int]bool{}
	for _, reading := range readings {
		assert.Equal(reading[0], reading[1], "%v", reading)
		assert.Equal(reading[0], reading[2], "%v", reading)
		seen[reading[0]] = true
	}
	assert.Len(seen, numWorkers)
	assert.Equal(0, reg.Len())
}

func TestWriter_Scenario(t *testing.T) {
	assert := assert.New(t)

	const workers = 5

	reg := registry.New()
	buf := &channel.Buffer{}
	start := make(chan struct{})
	var g errgroup.Group
	for n := range workers {
		w := NewWriter(buf, WithRegistry(reg))
		g.Go(func() error {
			defer w.Close()
			<-start
			id := strconv.Itoa(n) + " "
			return w.Write(id).ThenWrite(id).ThenWrite(id).Commit()
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	seen := map[int]bool{}
	for range workers {
		var group [sameValuesInRow]int
		for i := range group {
			group[i] = -1
			assert.NoError(buf.Read(&group[i]))
		}
		assert.Equal(group[0], group[1], "%v", group)
		assert.Equal(group[0], group[2], "%v", group)
		seen[group[0]] = true
	}
	assert.Len(seen, workers)
	assert.Empty(strings.TrimSpace(buf.String()))
}

func TestReadWriter_SelfPaired(t *testing.T) {
	assert := assert.New(t)

	reg := registry.New()
	buf := &channel.Buffer{}

	rw := NewReadWriterFrom(buf, WithRegistry(reg))
	defer rw.Close()
	assert.Equal(1, reg.Refs(buf))

	locks, err := reg.Lookup(rw.Channels())
	require.NoError(t, err)
	assert.Len(locks, 1)

	results := make([]bool, numWorkers)
	start := make(chan struct{})
	within(t, 10*time.Second, func() {
		var g errgroup.Group
		for n := range numWorkers {
			g.Go(func() error {
				<-start
				id := strconv.Itoa(n) + " "
				var got [sameValuesInRow]int
				err := rw.Write(id).ThenWrite(id).ThenWrite(id).
					ThenRead(&got[0]).ThenRead(&got[1]).ThenRead(&got[2]).
					Commit()
				results[n] = got == [sameValuesInRow]int{n, n, n}
				return err
			})
		}
		close(start)
		assert.NoError(g.Wait())
	})

	for n, ok := range results {
		assert.True(ok, "worker %d", n)
	}
}

func TestReadWriter_Distinct(t *testing.T) {
	assert := assert.New(t)

	reg := registry.New()
	a := &mockChannel{name: "a"}
	b := &mockChannel{name: "b"}

	ab := NewReadWriter(a, b, WithRegistry(reg))
	defer ab.Close()
	ba := NewReadWriter(b, a, WithRegistry(reg))
	defer ba.Close()
	assert.Equal(2, reg.Refs(a))
	assert.Equal(2, reg.Refs(b))

	locks, err := reg.Lookup(a, b)
	require.NoError(t, err)
	assert.Len(locks, 2)

	// Both locks are held while either channel is in use.
	var held sync.Mutex
	violations := 0
	check := func(any) error {
		for _, lk := range locks {
			if lk.TryLock() {
				lk.Unlock()
				held.Lock()
				violations++
				held.Unlock()
			}
		}
		return nil
	}
	a.onWrite = check
	b.onWrite = check

	within(t, 10*time.Second, func() {
		var wg sync.WaitGroup
		for range numWorkers {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for range 50 {
					assert.NoError(ab.Write(1).Commit())
				}
			}()
			go func() {
				defer wg.Done()
				for range 50 {
					assert.NoError(ba.Write(2).Commit())
				}
			}()
		}
		wg.Wait()
	})

	assert.Equal(0, violations)
	assert.Len(a.log, numWorkers*50)
	assert.Len(b.log, numWorkers*50)
}

func TestReadWriter_Interleaved(t *testing.T) {
	assert := assert.New(t)

	reg := registry.New()
	in := channel.NewBuffer("alice 30")
	out := &channel.Buffer{}
	rw := NewReadWriter(in, out, WithRegistry(reg))
	defer rw.Close()

	var name string
	var age int
	err := rw.Write("name? ").ThenRead(&name).ThenWrite("age? ").ThenRead(&age).
		ThenWrite("hello ").ThenWrite(&name).Commit()
	assert.NoError(err)
	assert.Equal("name? age? hello alice", out.String())
	assert.Equal(30, age)
}

func TestWrapper_RefCount(t *testing.T) {
	assert := assert.New(t)

	reg := registry.New()
	buf := &channel.Buffer{}

	w1 := NewWriter(buf, WithRegistry(reg))
	r1 := NewReader(buf, WithRegistry(reg))
	assert.Equal(2, reg.Refs(buf))
	assert.Equal(buf, w1.Channel())
	assert.Equal(buf, r1.Channel())

	assert.NoError(w1.Close())
	assert.NoError(w1.Close())
	assert.Equal(1, reg.Refs(buf))

	// The surviving wrapper keeps the entry usable.
	w2 := NewWriter(buf, WithRegistry(reg))
	assert.NoError(w2.Write("7").Commit())
	var n int
	assert.NoError(r1.Read(&n).Commit())
	assert.Equal(7, n)

	assert.NoError(r1.Close())
	assert.NoError(w2.Close())
	assert.Equal(0, reg.Len())

	// Use after close is caught at commit.
	assert.Equal(registry.ErrNotRegistered, w2.Write("8").Commit())
	assert.Equal("", buf.String())
}

func TestReadWriter_Split(t *testing.T) {
	assert := assert.New(t)

	reg := registry.New()
	in := channel.NewBuffer("1 2")
	out := &channel.Buffer{}
	rw := NewReadWriter(in, out, WithRegistry(reg))

	r := rw.Reader()
	w := rw.Writer()
	assert.Equal(2, reg.Refs(in))
	assert.Equal(2, reg.Refs(out))

	var a, b int
	assert.NoError(r.Scan(&a, &b))
	assert.NoError(w.Print(a, "+", b))
	assert.Equal("1+2", out.String())

	assert.NoError(rw.Close())
	assert.Equal(1, reg.Refs(in))
	assert.NoError(r.Close())
	assert.NoError(w.Close())
	assert.Equal(0, reg.Len())

	assert.NoError(r.Scan())
	assert.NoError(w.Print())
}

func TestReader_BlockingHoldsLock(t *testing.T) {
	assert := assert.New(t)

	reg := registry.New()
	release := make(chan struct{})
	entered := make(chan struct{})
	mc := &mockChannel{
		onRead: func(any) error {
			close(entered)
			<-release
			return nil
		},
	}
	r := NewReader(mc, WithRegistry(reg))
	defer r.Close()
	w := NewWriter(mc, WithRegistry(reg))
	defer w.Close()

	var slot int
	readDone := make(chan error)
	go func() { readDone <- r.Read(&slot).Commit() }()
	<-entered

	writeDone := make(chan error)
	go func() { writeDone <- w.Write(1).Commit() }()

	select {
	case <-writeDone:
		t.Fatal("write ran while a read batch held the channel")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	assert.NoError(<-readDone)
	assert.NoError(<-writeDone)
	assert.Equal([]string{"read", "write 1"}, mc.log)
}

func TestStd(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, registry.Default.Refs(channel.Stdin))
	assert.Equal(2, registry.Default.Refs(channel.Stdout))
	assert.Equal(1, registry.Default.Refs(channel.Stderr))
	assert.Equal(1, registry.Default.Refs(channel.Log))

	in, out := Stdio.Channels()
	assert.Equal(Stdin.Channel(), in)
	assert.Equal(Stdout.Channel(), out)
}
