// Package future provides a one-shot boolean result that can be resolved
// from outside the waiting goroutine. Both the countdown manager and the
// deep-link launch monitor wait on one of these instead of keeping ad hoc
// resolver state.
package future

import "sync"

// Bool is a single-use boolean future. It resolves at most once; later
// Resolve calls are no-ops. An owner that abandons a future must Drop
// it so waiters unblock on the closed channel instead of hanging
// forever (see countdown.Manager).
type Bool struct {
	mu   sync.Mutex
	ch   chan bool
	done bool
}

// NewBool creates an unresolved future
func NewBool() *Bool {
	return &Bool{ch: make(chan bool, 1)}
}

// Resolved creates a future that already carries v
func Resolved(v bool) *Bool {
	f := NewBool()
	f.Resolve(v)
	return f
}

// Wait returns the channel that receives the resolved value
func (f *Bool) Wait() <-chan bool {
	return f.ch
}

// Resolve completes the future with v. Returns false if it was already resolved.
func (f *Bool) Resolve(v bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		return false
	}
	f.done = true
	f.ch <- v
	return true
}

// Drop abandons the future without resolving it: the channel is closed,
// so waiters receive the zero value with ok == false. No-op on a
// resolved future. Returns false if the future was already resolved
// or dropped.
func (f *Bool) Drop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		return false
	}
	f.done = true
	close(f.ch)
	return true
}

// Resolved reports whether the future has been resolved
func (f *Bool) IsResolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}
