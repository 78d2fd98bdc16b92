package app

import (
	"time"

	"bigtwo/internal/domain"
)

// DefaultAutoPassDuration is how long an opponent of a provably unbeatable
// combination has before a pass is submitted on their behalf.
const DefaultAutoPassDuration = 10 * time.Second

// AutoPassTimer counts down for the player due to act after an unbeatable
// combination was played. It holds no goroutine or wall clock of its own;
// the match loop drives it through Tick with its own notion of now.
type AutoPassTimer struct {
	Active         bool               `json:"active"`
	TriggeringSeat int                `json:"triggering_seat"`
	TargetSeat     int                `json:"target_seat"`
	Combination    domain.Combination `json:"combination"`
	StartedAt      time.Time          `json:"started_at"`
	Duration       time.Duration      `json:"duration"`

	lastNotified int // whole seconds remaining at the last tick notification
}

// Start arms the countdown. Any previously running countdown is replaced.
func (t *AutoPassTimer) Start(now time.Time, triggeringSeat, targetSeat int, combo domain.Combination, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultAutoPassDuration
	}
	t.Active = true
	t.TriggeringSeat = triggeringSeat
	t.TargetSeat = targetSeat
	t.Combination = combo
	t.StartedAt = now
	t.Duration = duration
	t.lastNotified = int(duration / time.Second)
}

// Cancel disarms the countdown. It is a no-op on an inactive timer.
func (t *AutoPassTimer) Cancel() {
	t.Active = false
}

// Remaining reports how much countdown is left at now, clamped to zero.
func (t *AutoPassTimer) Remaining(now time.Time) time.Duration {
	if !t.Active {
		return 0
	}
	left := t.Duration - now.Sub(t.StartedAt)
	if left < 0 {
		left = 0
	}
	return left
}

// Tick advances the countdown to now. It reports whether the whole-second
// remainder changed since the last notification, and whether the countdown
// expired on this tick. An expired timer deactivates itself; the caller is
// responsible for submitting the forced pass.
func (t *AutoPassTimer) Tick(now time.Time) (notify bool, secondsLeft int, expired bool) {
	if !t.Active {
		return false, 0, false
	}
	left := t.Remaining(now)
	if left == 0 {
		t.Active = false
		return false, 0, true
	}
	secs := int(left / time.Second)
	if secs != t.lastNotified {
		t.lastNotified = secs
		return true, secs, false
	}
	return false, secs, false
}

// Snapshot renders the running countdown for state resyncs, or nil when the
// timer is idle.
func (t *AutoPassTimer) Snapshot(now time.Time) *TimerStartedPayload {
	if !t.Active {
		return nil
	}
	return &TimerStartedPayload{
		TriggeringSeat: t.TriggeringSeat,
		TargetSeat:     t.TargetSeat,
		Combination:    t.Combination,
		DurationMs:     t.Remaining(now).Milliseconds(),
		StartedAt:      t.StartedAt.UnixMilli(),
	}
}
