package client

import (
	"errors"
	"sync"
	"time"

	"bigtwo/internal/domain"
	"bigtwo/internal/wire"
)

// SubmitState is the per-actor in-flight guard, modeled as an explicit
// state machine instead of a boolean so a failure can never leave the actor
// stuck. Only Submitting blocks a new submission; Failed and Committed are
// as ready as Idle.
type SubmitState int

const (
	StateIdle SubmitState = iota
	StateSubmitting
	StateCommitted
	StateFailed
)

func (s SubmitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Sender delivers one enveloped request. The websocket Client satisfies it.
type Sender interface {
	Send(op int64, payload any) error
}

// ErrSubmitInFlight rejects a second submission before the first resolves.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

const (
	defaultSubmitAttempts = 3
	defaultSubmitBackoff  = 200 * time.Millisecond
)

// Submitter sends moves with bounded retry against transient transport
// failures. Rule rejections are not its concern; the server answers those
// with error events and the caller reports them through Fail.
type Submitter struct {
	mu      sync.Mutex
	state   SubmitState
	baseSeq int64

	sender   Sender
	attempts int
	backoff  time.Duration
	sleep    func(time.Duration)
}

// NewSubmitter wraps a sender with the default retry budget.
func NewSubmitter(sender Sender) *Submitter {
	return &Submitter{
		sender:   sender,
		attempts: defaultSubmitAttempts,
		backoff:  defaultSubmitBackoff,
		sleep:    time.Sleep,
	}
}

// WithRetry overrides the retry budget. Zero values keep the defaults.
func (s *Submitter) WithRetry(attempts int, backoff time.Duration) *Submitter {
	if attempts > 0 {
		s.attempts = attempts
	}
	if backoff > 0 {
		s.backoff = backoff
	}
	return s
}

// State returns the current guard state.
func (s *Submitter) State() SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SubmitPlay sends a play computed against the given ledger version.
func (s *Submitter) SubmitPlay(cards []domain.Card, version int64) error {
	return s.submit(wire.OpPlayCards, wire.PlayRequest{Cards: cards, Version: version}, version)
}

// SubmitPass sends a pass computed against the given ledger version.
func (s *Submitter) SubmitPass(version int64) error {
	return s.submit(wire.OpPassTurn, wire.PassRequest{Version: version}, version)
}

func (s *Submitter) submit(op int64, payload any, version int64) error {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	s.state = StateSubmitting
	s.baseSeq = version
	s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			s.sleep(s.backoff << (attempt - 1))
		}
		if lastErr = s.sender.Send(op, payload); lastErr == nil {
			// Delivered; the guard stays up until Resolve or Fail.
			return nil
		}
	}

	// Out of attempts: drop the guard immediately so the next state
	// change can trigger a fresh submission.
	s.mu.Lock()
	s.state = StateFailed
	s.mu.Unlock()
	return lastErr
}

// Resolve reports an authoritative event with the given seq. Any event
// advancing past the submission's base version settles it, whether it was
// this actor's move or someone else's that superseded it. Supersession is
// success, not an error.
func (s *Submitter) Resolve(seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitting {
		return
	}
	if seq > s.baseSeq {
		s.state = StateCommitted
	}
}

// Fail reports a definitive rejection of the in-flight submission. The
// guard clears unconditionally.
func (s *Submitter) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitting {
		return
	}
	s.state = StateFailed
}
