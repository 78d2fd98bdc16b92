package app

import (
	"fmt"
	"math/rand"
	"time"

	"bigtwo/internal/domain"
)

// Match bundles the authoritative game state with the auto-pass countdown
// and the running series score. It is owned by a single match loop and is
// never touched concurrently.
type Match struct {
	Game   *domain.Game
	Timer  AutoPassTimer
	Series *domain.Series
}

// Service contains the Big Two use-cases operating on domain state.
type Service struct {
	rng             *rand.Rand
	timerDuration   time.Duration
	seriesThreshold int
}

// NewService constructs a Service with the provided rng or a time-seeded
// default. timerDuration bounds the auto-pass countdown; zero selects the
// default.
func NewService(rng *rand.Rand, timerDuration time.Duration) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if timerDuration <= 0 {
		timerDuration = DefaultAutoPassDuration
	}
	return &Service{rng: rng, timerDuration: timerDuration, seriesThreshold: domain.DefaultSeriesThreshold}
}

// WithSeriesThreshold sets the score at which a series ends. Non-positive
// values keep the default.
func (s *Service) WithSeriesThreshold(threshold int) *Service {
	if threshold > 0 {
		s.seriesThreshold = threshold
	}
	return s
}

// StartMatch deals a fresh game to the four seated players and emits a
// private hand_dealt event per seat followed by a broadcast match_started.
func (s *Service) StartMatch(m *Match, userIDs [domain.NumSeats]string) ([]Event, error) {
	game := domain.NewGame(userIDs, s.rng)
	m.Game = game
	m.Timer.Cancel()
	if m.Series == nil {
		m.Series = domain.NewSeries(s.seriesThreshold)
	}

	events := make([]Event, 0, domain.NumSeats+1)
	for seat := 0; seat < domain.NumSeats; seat++ {
		pl := &game.Players[seat]
		events = append(events, newEvent(game.Seq, EventHandDealt, HandDealtPayload{
			Seat: seat,
			Hand: pl.Hand,
		}, pl.UserID))
	}
	events = append(events, newEvent(game.Seq, EventMatchStarted, MatchStartedPayload{
		FirstTurnSeat: game.CurrentTurn,
		HandSizes:     handSizes(game),
	}))
	return events, nil
}

// PlayCards processes a play submission and emits the resulting events. An
// accepted play cancels any running auto-pass countdown, and arms a new one
// when the combination cannot be beaten by any live card.
func (s *Service) PlayCards(m *Match, seat int, cards []domain.Card, version int64, now time.Time) ([]Event, error) {
	game := m.Game
	res, err := game.ApplyPlay(seat, cards, version)
	if err != nil {
		return nil, err
	}
	if res.Replayed {
		return nil, nil
	}

	var events []Event
	if m.Timer.Active {
		target := m.Timer.TargetSeat
		m.Timer.Cancel()
		events = append(events, newEvent(res.Seq, EventTimerCancel, TimerCancelledPayload{
			TargetSeat: target,
			Reason:     CancelNewPlay,
		}))
	}
	events = append(events, newEvent(res.Seq, EventCardsPlayed, CardsPlayedPayload{
		Seat:         seat,
		Cards:        res.Combo.Cards,
		LastPlay:     res.Combo,
		NextTurnSeat: res.NextTurn,
	}))

	if res.Finished {
		events = append(events, s.finishEvents(m)...)
		return events, nil
	}

	if domain.Unbeatable(res.Combo, game.History) {
		m.Timer.Start(now, seat, res.NextTurn, res.Combo, s.timerDuration)
		events = append(events, newEvent(res.Seq, EventTimerStarted, *m.Timer.Snapshot(now)))
	}
	return events, nil
}

// PassTurn processes a pass submission. An accepted pass by the countdown's
// target tears the countdown down before the pass events are emitted.
func (s *Service) PassTurn(m *Match, seat int, version int64, now time.Time) ([]Event, error) {
	game := m.Game
	res, err := game.ApplyPass(seat, version)
	if err != nil {
		return nil, err
	}
	if res.Replayed {
		return nil, nil
	}

	var events []Event
	if m.Timer.Active && m.Timer.TargetSeat == seat {
		m.Timer.Cancel()
		events = append(events, newEvent(res.Seq, EventTimerCancel, TimerCancelledPayload{
			TargetSeat: seat,
			Reason:     CancelManualPass,
		}))
	}
	events = append(events, passEvents(res, false)...)
	return events, nil
}

// Tick advances the auto-pass countdown to now. Whole-second changes emit a
// timer_tick; expiry submits a pass on the target's behalf. A forced pass
// the rules reject is reported as an error for the caller to log, with the
// countdown already gone either way.
func (s *Service) Tick(m *Match, now time.Time) ([]Event, error) {
	notify, secs, expired := m.Timer.Tick(now)
	if notify {
		return []Event{newEvent(m.Game.Seq, EventTimerTick, TimerTickPayload{
			TargetSeat:       m.Timer.TargetSeat,
			SecondsRemaining: secs,
		})}, nil
	}
	if !expired {
		return nil, nil
	}

	target := m.Timer.TargetSeat
	res, err := m.Game.ApplyPass(target, domain.VersionAny)
	if err != nil {
		return nil, fmt.Errorf("auto-pass for seat %d: %w", target, err)
	}
	events := []Event{newEvent(res.Seq, EventTimerExecuted, TimerExecutedPayload{TargetSeat: target})}
	events = append(events, passEvents(res, true)...)
	return events, nil
}

// Snapshot renders the authoritative state for one seat, hiding the other
// players' cards.
func (s *Service) Snapshot(m *Match, seat int, now time.Time) MatchStatePayload {
	game := m.Game
	players := make([]string, domain.NumSeats)
	for i := range game.Players {
		players[i] = game.Players[i].UserID
	}
	return MatchStatePayload{
		Phase:        game.Phase,
		Players:      players,
		Seat:         seat,
		Hand:         game.Players[seat].Hand,
		HandSizes:    handSizes(game),
		CurrentTurn:  game.CurrentTurn,
		LastPlay:     game.LastPlay,
		LastPlaySeat: game.LastPlaySeat,
		Seq:          game.Seq,
		Timer:        m.Timer.Snapshot(now),
	}
}

func (s *Service) finishEvents(m *Match) []Event {
	game := m.Game
	m.Timer.Cancel()
	m.Series.RecordMatch(game)

	penalties := make([]int, domain.NumSeats)
	for seat := 0; seat < domain.NumSeats; seat++ {
		penalties[seat] = domain.MatchPenalty(game.Players[seat].Hand)
	}
	phase := game.Phase
	if m.Series.GameOver() {
		phase = domain.PhaseGameOver
		game.Phase = phase
	}
	finalSizes := game.FinalHandSizes()
	return []Event{newEvent(game.Seq, EventMatchFinished, MatchFinishedPayload{
		WinnerSeat:     game.WinnerSeat,
		FinalHandSizes: finalSizes[:],
		Penalties:      penalties,
		SeriesScores:   m.Series.Scores[:],
		GameOver:       phase == domain.PhaseGameOver,
		Phase:          phase,
	})}
}

func passEvents(res domain.PassResult, forced bool) []Event {
	events := []Event{newEvent(res.Seq, EventPlayerPassed, PlayerPassedPayload{
		Seat:         res.Seat,
		Forced:       forced,
		NextTurnSeat: res.NextTurn,
	})}
	if res.TrickWon {
		events = append(events, newEvent(res.Seq, EventTrickWon, TrickWonPayload{
			WinnerSeat: res.WinnerSeat,
		}))
	}
	return events
}

func handSizes(game *domain.Game) []int {
	sizes := make([]int, domain.NumSeats)
	for seat := 0; seat < domain.NumSeats; seat++ {
		sizes[seat] = len(game.Players[seat].Hand)
	}
	return sizes
}
