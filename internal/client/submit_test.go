package client

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigtwo/internal/domain"
	"bigtwo/internal/wire"
)

// scriptedSender fails the first n sends, then succeeds.
type scriptedSender struct {
	failures int
	calls    []int64
}

func (s *scriptedSender) Send(op int64, payload any) error {
	s.calls = append(s.calls, op)
	if s.failures > 0 {
		s.failures--
		return errors.New("transient network failure")
	}
	return nil
}

func newTestSubmitter(sender Sender) (*Submitter, *[]time.Duration) {
	s := NewSubmitter(sender)
	var slept []time.Duration
	s.sleep = func(d time.Duration) { slept = append(slept, d) }
	return s, &slept
}

func TestSubmitRetriesWithBackoff(t *testing.T) {
	t.Parallel()
	sender := &scriptedSender{failures: 2}
	s, slept := newTestSubmitter(sender)

	err := s.SubmitPass(4)
	require.NoError(t, err)
	assert.Len(t, sender.calls, 3)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}, *slept)
	assert.Equal(t, StateSubmitting, s.State())
}

func TestSubmitFailureClearsGuardImmediately(t *testing.T) {
	t.Parallel()
	sender := &scriptedSender{failures: 99}
	s, _ := newTestSubmitter(sender)

	err := s.SubmitPlay([]domain.Card{{Rank: domain.RankJ, Suit: domain.SuitClubs}}, 4)
	require.Error(t, err)
	assert.Len(t, sender.calls, defaultSubmitAttempts)
	assert.Equal(t, StateFailed, s.State())

	// The guard must not stick: a fresh submission goes straight through.
	sender.failures = 0
	assert.NoError(t, s.SubmitPass(5))
	assert.Equal(t, StateSubmitting, s.State())
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	t.Parallel()
	s, _ := newTestSubmitter(&scriptedSender{})

	require.NoError(t, s.SubmitPass(4))
	assert.ErrorIs(t, s.SubmitPass(4), ErrSubmitInFlight)
}

func TestResolveCommitsOnAdvancingSeq(t *testing.T) {
	t.Parallel()
	s, _ := newTestSubmitter(&scriptedSender{})
	require.NoError(t, s.SubmitPass(4))

	s.Resolve(4) // stale echo, not an answer
	assert.Equal(t, StateSubmitting, s.State())

	s.Resolve(5)
	assert.Equal(t, StateCommitted, s.State())
	assert.NoError(t, s.SubmitPass(5), "committed actor is ready again")
}

func TestSupersessionCountsAsSuccess(t *testing.T) {
	t.Parallel()
	s, _ := newTestSubmitter(&scriptedSender{})
	require.NoError(t, s.SubmitPass(4))

	// Someone else's move reached the ledger first; the pass is moot.
	s.Resolve(6)
	assert.Equal(t, StateCommitted, s.State())
}

func TestFailClearsInFlightOnly(t *testing.T) {
	t.Parallel()
	s, _ := newTestSubmitter(&scriptedSender{})

	s.Fail()
	assert.Equal(t, StateIdle, s.State(), "fail without a submission is a no-op")

	require.NoError(t, s.SubmitPass(4))
	s.Fail()
	assert.Equal(t, StateFailed, s.State())
	assert.NoError(t, s.SubmitPass(5))
}

func TestSubmitPlayEnvelopesOpcode(t *testing.T) {
	t.Parallel()
	sender := &scriptedSender{}
	s, _ := newTestSubmitter(sender)

	require.NoError(t, s.SubmitPlay([]domain.Card{{Rank: domain.Rank3, Suit: domain.SuitDiamonds}}, 0))
	require.Len(t, sender.calls, 1)
	assert.Equal(t, wire.OpPlayCards, sender.calls[0])
}
