// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package registry maps channel identities to reference counted locks.
//
// Every wrapper over a channel acquires the channel's entry when it is
// built and releases it when it is closed, so independent wrappers over
// one channel serialize through one lock. The map itself is guarded by a
// separate management mutex that is never held while a channel lock is
// taken.
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"log"
	"reflect"
	"slices"
	"sync"

	"github.com/ezrec/pstream/translate"
)

var f = translate.From

var (
	ErrNotRegistered = errors.New(f("channel not registered"))
)

// Lock is the per-channel mutex of a registry entry.
type Lock struct {
	sync.Mutex
	order uint64 // Creation serial; fixes the multi-lock acquisition order.
	refs  int
}

// Order returns the position of the lock in the acquisition order.
func (lk *Lock) Order() uint64 {
	return lk.order
}

// Registry is a table of channel identity to lock.
// Identities must be comparable; pointer values compare by identity.
type Registry struct {
	Verbose bool // If set, logs entry creation and eviction.

	mu      sync.Mutex
	serial  uint64
	entries map[any]*Lock
}

// Default is the process-wide registry.
var Default = New()

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[any]*Lock),
	}
}

// describe formats id for the verbose log: type and address for
// reference kinds, type and value otherwise.
func describe(id any) string {
	switch reflect.ValueOf(id).Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("%T@%p", id, id)
	}
	return fmt.Sprintf("%T(%v)", id, id)
}

// Acquire registers interest in id, creating its entry on first use.
func (reg *Registry) Acquire(id any) (lk *Lock) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	lk, ok := reg.entries[id]
	if !ok {
		reg.serial++
		lk = &Lock{order: reg.serial}
		reg.entries[id] = lk
		if reg.Verbose {
			log.Printf("registry: create %s order %d", describe(id), lk.order)
		}
	}
	lk.refs++

	return
}

// Release drops one reference to id. The entry is evicted when the last
// reference goes. Releasing an unknown id does nothing.
func (reg *Registry) Release(id any) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	lk, ok := reg.entries[id]
	if !ok {
		return
	}

	lk.refs--
	if lk.refs <= 0 {
		delete(reg.entries, id)
		if reg.Verbose {
			log.Printf("registry: evict %s order %d", describe(id), lk.order)
		}
	}
}

// Lookup returns the locks for ids, without duplicates, in acquisition
// order. The caller locks them after Lookup returns.
func (reg *Registry) Lookup(ids ...any) (locks []*Lock, err error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	locks = make([]*Lock, 0, len(ids))
	for _, id := range ids {
		lk, ok := reg.entries[id]
		if !ok {
			locks = nil
			err = ErrNotRegistered
			return
		}
		if !slices.Contains(locks, lk) {
			locks = append(locks, lk)
		}
	}

	slices.SortFunc(locks, func(a, b *Lock) int {
		return cmp.Compare(a.order, b.order)
	})

	return
}

// Refs returns the reference count of id, zero if it has no entry.
func (reg *Registry) Refs(id any) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	lk, ok := reg.entries[id]
	if !ok {
		return 0
	}
	return lk.refs
}

// Len returns the number of live entries.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return len(reg.entries)
}
