// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"fmt"
	"testing"
	"time"
)

// mockChannel records every action and can inject behaviour.
type mockChannel struct {
	name    string
	log     []string
	onRead  func(slot any) error
	onWrite func(value any) error
}

func (mc *mockChannel) Read(slot any) (err error) {
	mc.log = append(mc.log, "read")
	if mc.onRead != nil {
		err = mc.onRead(slot)
	}
	return
}

func (mc *mockChannel) Write(value any) (err error) {
	mc.log = append(mc.log, fmt.Sprint("write ", value))
	if mc.onWrite != nil {
		err = mc.onWrite(value)
	}
	return
}

// within fails the test if fn does not return before the timeout.
func within(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("deadlock: no progress after %v", timeout)
	}
}
