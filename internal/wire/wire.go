package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"bigtwo/internal/app"
	"bigtwo/internal/domain"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartMatch   int64 = 1
	OpPlayCards    int64 = 2
	OpPassTurn     int64 = 3
	OpRequestState int64 = 4
	OpNewMatch     int64 = 5

	// Server -> Client events
	OpEvent int64 = 100
)

// PlayRequest is a play submission. Version is the ledger seq the move was
// computed against, or -1 to skip the optimistic check.
type PlayRequest struct {
	Cards   []domain.Card `json:"cards"`
	Version int64         `json:"version"`
}

// PassRequest is a pass submission.
type PassRequest struct {
	Version int64 `json:"version"`
}

// Envelope is the serialized form of an app.Event. The payload stays raw
// until the kind selects its concrete type.
type Envelope struct {
	ID      string          `json:"id"`
	Seq     int64           `json:"seq"`
	Kind    app.EventKind   `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeEvent renders an event for broadcast.
func EncodeEvent(ev app.Event) ([]byte, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{ID: ev.ID, Seq: ev.Seq, Kind: ev.Kind, Payload: payload})
}

// DecodeEvent parses a broadcast frame back into a typed app.Event.
func DecodeEvent(data []byte) (app.Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return app.Event{}, err
	}
	ev := app.Event{ID: env.ID, Seq: env.Seq, Kind: env.Kind}

	var payload any
	switch env.Kind {
	case app.EventMatchState:
		payload = &app.MatchStatePayload{}
	case app.EventMatchStarted:
		payload = &app.MatchStartedPayload{}
	case app.EventHandDealt:
		payload = &app.HandDealtPayload{}
	case app.EventCardsPlayed:
		payload = &app.CardsPlayedPayload{}
	case app.EventPlayerPassed:
		payload = &app.PlayerPassedPayload{}
	case app.EventTrickWon:
		payload = &app.TrickWonPayload{}
	case app.EventTimerStarted:
		payload = &app.TimerStartedPayload{}
	case app.EventTimerTick:
		payload = &app.TimerTickPayload{}
	case app.EventTimerCancel:
		payload = &app.TimerCancelledPayload{}
	case app.EventTimerExecuted:
		payload = &app.TimerExecutedPayload{}
	case app.EventMatchFinished:
		payload = &app.MatchFinishedPayload{}
	case app.EventError:
		payload = &app.ErrorPayload{}
	default:
		return app.Event{}, fmt.Errorf("unknown event kind %q", env.Kind)
	}
	if err := json.Unmarshal(env.Payload, payload); err != nil {
		return app.Event{}, err
	}
	ev.Payload = deref(payload)
	return ev, nil
}

func deref(p any) any {
	switch v := p.(type) {
	case *app.MatchStatePayload:
		return *v
	case *app.MatchStartedPayload:
		return *v
	case *app.HandDealtPayload:
		return *v
	case *app.CardsPlayedPayload:
		return *v
	case *app.PlayerPassedPayload:
		return *v
	case *app.TrickWonPayload:
		return *v
	case *app.TimerStartedPayload:
		return *v
	case *app.TimerTickPayload:
		return *v
	case *app.TimerCancelledPayload:
		return *v
	case *app.TimerExecutedPayload:
		return *v
	case *app.MatchFinishedPayload:
		return *v
	case *app.ErrorPayload:
		return *v
	default:
		return p
	}
}

// Error codes carried by error events.
const (
	CodeInvalidCombination = "invalid_combination"
	CodeNotYourTurn        = "not_your_turn"
	CodeDoesNotBeat        = "does_not_beat"
	CodeMissingRequired    = "missing_required_card"
	CodeMustPlayNotPass    = "must_play_not_pass"
	CodeStaleState         = "stale_state"
	CodeNotPlaying         = "not_playing"
	CodeInternal           = "internal"
)

// ErrorCode maps a rules rejection onto its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCombination):
		return CodeInvalidCombination
	case errors.Is(err, domain.ErrNotYourTurn):
		return CodeNotYourTurn
	case errors.Is(err, domain.ErrDoesNotBeat):
		return CodeDoesNotBeat
	case errors.Is(err, domain.ErrMissingRequired):
		return CodeMissingRequired
	case errors.Is(err, domain.ErrMustPlay):
		return CodeMustPlayNotPass
	case errors.Is(err, domain.ErrStaleState):
		return CodeStaleState
	case errors.Is(err, domain.ErrNotPlaying):
		return CodeNotPlaying
	default:
		return CodeInternal
	}
}
