// Package countdown implements the cancellable, resettable countdown that
// gates the Toss instruction dialog before a deep-link launch.
package countdown

import (
	"sync"
	"time"

	"github.com/roadshop/checkout-backend/internal/checkout/future"
)

// Manager runs at most one countdown at a time. Starting a new countdown
// drops the previous pending resolver without resolving it, so a stale
// countdown can never resolve out of order; the dropped channel is
// closed so its waiter unblocks and sees it was superseded.
//
// The channel returned by Start receives true when the countdown reaches
// zero naturally or Complete is called, false when Cancel is called, and
// is closed without a value when superseded or Reset. Callers use Reset
// only after the dependent action already finished via another path.
type Manager struct {
	mu       sync.Mutex
	onTick   func(remaining int)
	interval time.Duration

	remaining int
	pending   *future.Bool
	stop      chan struct{}
}

// New creates a manager ticking once per second
func New(onTick func(remaining int)) *Manager {
	return newWithInterval(onTick, time.Second)
}

func newWithInterval(onTick func(remaining int), interval time.Duration) *Manager {
	return &Manager{onTick: onTick, interval: interval}
}

// Start begins a countdown of the given number of seconds.
// A non-positive duration resolves immediately with true.
func (m *Manager) Start(seconds int) <-chan bool {
	m.mu.Lock()
	m.stopTimerLocked()
	m.dropPendingLocked()
	if seconds < 0 {
		seconds = 0
	}
	m.remaining = seconds
	tick := m.onTick

	if seconds == 0 {
		m.mu.Unlock()
		m.notify(tick, 0)
		return future.Resolved(true).Wait()
	}

	p := future.NewBool()
	stop := make(chan struct{})
	m.pending = p
	m.stop = stop
	m.mu.Unlock()

	m.notify(tick, seconds)
	go m.run(stop, p)
	return p.Wait()
}

// Cancel stops ticking and resolves the pending countdown with false
func (m *Manager) Cancel() {
	m.finish(false)
}

// Complete stops ticking and resolves the pending countdown with true
func (m *Manager) Complete() {
	m.finish(true)
}

// Reset stops ticking and drops the pending resolver without resolving it
func (m *Manager) Reset() {
	m.mu.Lock()
	m.stopTimerLocked()
	m.dropPendingLocked()
	m.remaining = 0
	tick := m.onTick
	m.mu.Unlock()

	m.notify(tick, 0)
}

// Remaining returns the current countdown value
func (m *Manager) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

func (m *Manager) finish(proceed bool) {
	m.mu.Lock()
	m.stopTimerLocked()
	p := m.pending
	m.pending = nil
	m.remaining = 0
	tick := m.onTick
	m.mu.Unlock()

	m.notify(tick, 0)
	if p != nil {
		p.Resolve(proceed)
	}
}

func (m *Manager) run(stop chan struct{}, p *future.Bool) {
	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			m.mu.Lock()
			if m.pending != p {
				// Superseded by a newer countdown
				m.mu.Unlock()
				return
			}
			m.remaining--
			remaining := m.remaining
			finished := remaining <= 0
			if finished {
				m.remaining = 0
				m.pending = nil
				m.stop = nil
				remaining = 0
			}
			tick := m.onTick
			m.mu.Unlock()

			m.notify(tick, remaining)
			if finished {
				p.Resolve(true)
				return
			}
		}
	}
}

// notify invokes the tick callback outside the manager lock so the
// callback may safely call back into the orchestrator.
func (m *Manager) notify(tick func(int), remaining int) {
	if tick != nil {
		tick(remaining)
	}
}

func (m *Manager) dropPendingLocked() {
	if m.pending != nil {
		m.pending.Drop()
		m.pending = nil
	}
}

func (m *Manager) stopTimerLocked() {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}
