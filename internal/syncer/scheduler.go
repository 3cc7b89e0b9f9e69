// Package syncer schedules debounced pushes of local mutations to the
// backend.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tkaraca/lingotrack/internal/api"
	"github.com/tkaraca/lingotrack/internal/timeutil"
)

// State is the scheduler's position in its Idle → Pending → InFlight
// cycle.
type State int

const (
	// StateIdle means nothing is scheduled or outstanding.
	StateIdle State = iota
	// StatePending means the debounce timer is armed.
	StatePending
	// StateInFlight means a push is outstanding.
	StateInFlight
)

// Flusher pushes the current local snapshot and folds the server's
// merged response back in. It must read the latest in-memory state when
// invoked, never a snapshot captured at schedule time.
type Flusher func(ctx context.Context) error

// Scheduler coalesces bursts of local mutations into at most one
// outbound sync per debounce window and guarantees at most one request
// in flight. A mutation arriving mid-flight marks the scheduler dirty
// and becomes part of the next cycle's payload rather than racing the
// outstanding request.
type Scheduler struct {
	mu       sync.Mutex
	clock    timeutil.Clock
	debounce time.Duration
	flush    Flusher

	state   State
	timer   timeutil.Timer
	dirty   bool
	stopped bool
}

// NewScheduler creates a scheduler around flush with the given debounce
// window.
func NewScheduler(clock timeutil.Clock, debounce time.Duration, flush Flusher) *Scheduler {
	return &Scheduler{
		clock:    clock,
		debounce: debounce,
		flush:    flush,
	}
}

// Schedule notes a local mutation. In Idle it arms the debounce timer;
// in Pending it re-arms it, extending the window; in InFlight it marks
// the scheduler dirty so another cycle runs after the current one.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	switch s.state {
	case StateIdle:
		s.state = StatePending
		s.timer = s.clock.AfterFunc(s.debounce, s.fire)
	case StatePending:
		s.timer.Reset(s.debounce)
	case StateInFlight:
		s.dirty = true
	}
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.stopped || s.state != StatePending {
		s.mu.Unlock()
		return
	}
	s.state = StateInFlight
	s.mu.Unlock()

	s.runFlush()
}

// SyncNow pushes immediately, bypassing the debounce window. If a push
// is already outstanding the mutation is folded into the next cycle
// instead.
func (s *Scheduler) SyncNow() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.state == StateInFlight {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	if s.state == StatePending && s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = StateInFlight
	s.mu.Unlock()

	s.runFlush()
}

func (s *Scheduler) runFlush() {
	// Failures are swallowed: local state stays authoritative and the
	// next mutation's debounce retries implicitly. A 401 is expected
	// (operate local-only) and not worth a warning.
	if err := s.flush(context.Background()); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			slog.Debug("sync skipped: not authenticated")
		} else {
			slog.Warn("sync failed; keeping local state", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.state = StateIdle
		return
	}
	if s.dirty {
		s.dirty = false
		s.state = StatePending
		s.timer = s.clock.AfterFunc(s.debounce, s.fire)
		return
	}
	s.state = StateIdle
}

// Syncing reports whether a push is outstanding, for UI feedback.
func (s *Scheduler) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateInFlight
}

// State returns the current scheduler state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stop cancels any pending timer and prevents further cycles. An
// in-flight push is left to finish; its result is still applied by the
// flusher.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.state == StatePending {
		s.state = StateIdle
	}
	s.dirty = false
}
