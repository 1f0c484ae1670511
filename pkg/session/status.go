package session

import (
	"context"
	"sync"
	"time"
)

// Status is the observable save state.
type Status string

const (
	StatusSaved   Status = "saved"
	StatusSaving  Status = "saving"
	StatusUnsaved Status = "unsaved"
)

// DefaultStatusDelay is how long a mutation shows as saving.
const DefaultStatusDelay = time.Second

// StatusTracker sequences save-status transitions around mutations.
//
// Begin moves to saving. Done arms a timer that settles to saved, or to
// unsaved when persistence failed. Only the timer of the latest Begin may
// settle. The tracker is purely observational and never blocks a mutation.
type StatusTracker struct {
	delay time.Duration

	mu          sync.Mutex
	status      Status
	generation  uint64
	timer       *time.Timer
	settled     chan struct{}
	subscribers []func(Status)
}

// NewStatusTracker creates a tracker in the saved state. A non-positive
// delay uses DefaultStatusDelay.
func NewStatusTracker(delay time.Duration) *StatusTracker {
	if delay <= 0 {
		delay = DefaultStatusDelay
	}
	settled := make(chan struct{})
	close(settled)
	return &StatusTracker{delay: delay, status: StatusSaved, settled: settled}
}

// Begin marks a mutation as in progress and returns its ticket.
func (t *StatusTracker) Begin() uint64 {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	if t.status != StatusSaving {
		t.settled = make(chan struct{})
	}
	changed := t.status != StatusSaving
	t.status = StatusSaving
	subs := t.subscribersLocked(changed)
	t.mu.Unlock()

	notify(subs, StatusSaving)
	return gen
}

// Done reports the persistence outcome of the mutation identified by ticket
// and schedules the settle transition.
func (t *StatusTracker) Done(ticket uint64, persisted bool) {
	target := StatusSaved
	if !persisted {
		target = StatusUnsaved
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if ticket != t.generation {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.settle(ticket, target)
	})
}

func (t *StatusTracker) settle(ticket uint64, target Status) {
	t.mu.Lock()
	if ticket != t.generation || t.status != StatusSaving {
		t.mu.Unlock()
		return
	}
	t.status = target
	t.timer = nil
	close(t.settled)
	subs := t.subscribersLocked(true)
	t.mu.Unlock()

	notify(subs, target)
}

// Status returns the current status.
func (t *StatusTracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// OnChange registers fn to be called after every status transition.
func (t *StatusTracker) OnChange(fn func(Status)) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, fn)
}

// Wait blocks until the status is no longer saving or ctx is done.
func (t *StatusTracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	settled := t.settled
	t.mu.Unlock()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Delay returns the settle delay.
func (t *StatusTracker) Delay() time.Duration {
	return t.delay
}

// Stop cancels a pending settle. The status stays where it is.
func (t *StatusTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *StatusTracker) subscribersLocked(changed bool) []func(Status) {
	if !changed || len(t.subscribers) == 0 {
		return nil
	}
	return append([]func(Status)(nil), t.subscribers...)
}

func notify(subs []func(Status), s Status) {
	for _, fn := range subs {
		fn(s)
	}
}
