package countdown

import (
	"sync"
	"testing"
	"time"
)

type tickRecorder struct {
	mu    sync.Mutex
	ticks []int
}

func (r *tickRecorder) record(remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, remaining)
}

func (r *tickRecorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.ticks))
	copy(out, r.ticks)
	return out
}

func waitResult(t *testing.T, ch <-chan bool) bool {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not resolve in time")
		return false
	}
}

func TestStartTicksDownAndResolvesTrue(t *testing.T) {
	rec := &tickRecorder{}
	m := newWithInterval(rec.record, 5*time.Millisecond)

	if got := waitResult(t, m.Start(5)); !got {
		t.Error("natural completion should resolve true")
	}

	want := []int{5, 4, 3, 2, 1, 0}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("ticks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ticks = %v, want %v", got, want)
		}
	}
	if m.Remaining() != 0 {
		t.Errorf("Remaining() = %d after completion", m.Remaining())
	}
}

func TestStartZeroResolvesImmediately(t *testing.T) {
	m := newWithInterval(nil, 5*time.Millisecond)

	if got := waitResult(t, m.Start(0)); !got {
		t.Error("Start(0) should resolve true immediately")
	}
	if got := waitResult(t, m.Start(-3)); !got {
		t.Error("Start with negative seconds should resolve true immediately")
	}
}

func TestCancelResolvesFalseAndAllowsRestart(t *testing.T) {
	rec := &tickRecorder{}
	m := newWithInterval(rec.record, 20*time.Millisecond)

	first := m.Start(60)
	m.Cancel()

	if got := waitResult(t, first); got {
		t.Error("cancelled countdown should resolve false")
	}
	if m.Remaining() != 0 {
		t.Errorf("Remaining() = %d after cancel", m.Remaining())
	}

	// Restart works independently; no leaked resolver fires twice.
	second := m.Start(1)
	if got := waitResult(t, second); !got {
		t.Error("restarted countdown should resolve true")
	}

	select {
	case v := <-first:
		t.Errorf("stale countdown channel received a second value: %v", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCompleteResolvesTrueEarly(t *testing.T) {
	m := newWithInterval(nil, time.Minute)

	ch := m.Start(30)
	m.Complete()

	if got := waitResult(t, ch); !got {
		t.Error("Complete should resolve true")
	}
	if m.Remaining() != 0 {
		t.Errorf("Remaining() = %d after complete", m.Remaining())
	}
}

func TestResetDropsResolverWithoutResolving(t *testing.T) {
	m := newWithInterval(nil, time.Minute)

	ch := m.Start(30)
	m.Reset()

	select {
	case v, ok := <-ch:
		if ok {
			t.Errorf("reset countdown must not resolve, got %v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("reset must close the pending channel")
	}

	// A new countdown still works after Reset.
	if got := waitResult(t, m.Start(0)); !got {
		t.Error("Start after Reset should work")
	}
}

func TestNewStartClosesPriorResolverWithoutResolving(t *testing.T) {
	m := newWithInterval(nil, 10*time.Millisecond)

	first := m.Start(60)
	second := m.Start(1)

	if got := waitResult(t, second); !got {
		t.Error("second countdown should resolve true")
	}

	// The first countdown's channel is closed, not resolved, so its
	// waiter unblocks instead of leaking.
	select {
	case v, ok := <-first:
		if ok {
			t.Errorf("superseded countdown must not resolve, got %v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("superseding Start must close the prior channel")
	}
}
