package app

import (
	"github.com/google/uuid"

	"bigtwo/internal/domain"
)

// EventKind identifies emitted match events for dispatch to participants.
type EventKind string

const (
	EventMatchState    EventKind = "match_state"
	EventMatchStarted  EventKind = "match_started"
	EventHandDealt     EventKind = "hand_dealt"
	EventCardsPlayed   EventKind = "cards_played"
	EventPlayerPassed  EventKind = "player_passed"
	EventTrickWon      EventKind = "trick_won"
	EventTimerStarted  EventKind = "timer_started"
	EventTimerTick     EventKind = "timer_tick"
	EventTimerCancel   EventKind = "timer_cancelled"
	EventTimerExecuted EventKind = "timer_executed"
	EventMatchFinished EventKind = "match_finished"
	EventError         EventKind = "error"
)

// CancelReason tags why an auto-pass countdown was torn down.
type CancelReason string

const (
	CancelManualPass CancelReason = "manual_pass"
	CancelNewPlay    CancelReason = "new_play"
)

// Event is a match event with optional targeted recipients. Seq is the ledger
// version after the event's effect, so consumers can order and deduplicate.
type Event struct {
	ID         string    `json:"id"`
	Seq        int64     `json:"seq"`
	Kind       EventKind `json:"kind"`
	Payload    any       `json:"payload"`
	Recipients []string  `json:"-"` // user IDs; empty means broadcast
}

func newEvent(seq int64, kind EventKind, payload any, recipients ...string) Event {
	return Event{
		ID:         uuid.NewString(),
		Seq:        seq,
		Kind:       kind,
		Payload:    payload,
		Recipients: recipients,
	}
}

type MatchStartedPayload struct {
	FirstTurnSeat int   `json:"first_turn_seat"`
	HandSizes     []int `json:"hand_sizes"`
}

type HandDealtPayload struct {
	Seat int           `json:"seat"`
	Hand []domain.Card `json:"hand"`
}

type CardsPlayedPayload struct {
	Seat         int                `json:"seat"`
	Cards        []domain.Card      `json:"cards"`
	LastPlay     domain.Combination `json:"last_play"`
	NextTurnSeat int                `json:"next_turn_seat"`
}

type PlayerPassedPayload struct {
	Seat         int  `json:"seat"`
	Forced       bool `json:"forced"`
	NextTurnSeat int  `json:"next_turn_seat"`
}

type TrickWonPayload struct {
	WinnerSeat int `json:"winner_seat"`
}

type TimerStartedPayload struct {
	TriggeringSeat int                `json:"triggering_seat"`
	TargetSeat     int                `json:"target_seat"`
	Combination    domain.Combination `json:"combination"`
	DurationMs     int64              `json:"duration_ms"`
	StartedAt      int64              `json:"started_at"` // unix millis
}

type TimerTickPayload struct {
	TargetSeat       int `json:"target_seat"`
	SecondsRemaining int `json:"seconds_remaining"`
}

type TimerCancelledPayload struct {
	TargetSeat int          `json:"target_seat"`
	Reason     CancelReason `json:"reason"`
}

type TimerExecutedPayload struct {
	TargetSeat int `json:"target_seat"`
}

type MatchFinishedPayload struct {
	WinnerSeat     int          `json:"winner_seat"`
	FinalHandSizes []int        `json:"final_hand_sizes"`
	Penalties      []int        `json:"penalties"`
	SeriesScores   []int        `json:"series_scores,omitempty"`
	GameOver       bool         `json:"game_over"`
	Phase          domain.Phase `json:"phase"`
}

// ErrorPayload is sent only to the player whose request was rejected.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MatchStatePayload is the authoritative snapshot sent to a single player,
// typically on join or rejoin. Hand carries only that player's cards.
type MatchStatePayload struct {
	Phase        domain.Phase         `json:"phase"`
	Players      []string             `json:"players"`
	Seat         int                  `json:"seat"`
	Hand         []domain.Card        `json:"hand"`
	HandSizes    []int                `json:"hand_sizes"`
	CurrentTurn  int                  `json:"current_turn"`
	LastPlay     *domain.Combination  `json:"last_play,omitempty"`
	LastPlaySeat int                  `json:"last_play_seat"`
	Seq          int64                `json:"seq"`
	Timer        *TimerStartedPayload `json:"timer,omitempty"`
}
