package sync

import (
	"errors"

	"bigtwo/internal/app"
	"bigtwo/internal/domain"
)

// ErrPredictionPending rejects a second optimistic move while one is still
// waiting for its authoritative answer.
var ErrPredictionPending = errors.New("a local prediction is already in flight")

// View is the local projection of a match as one seat sees it. It is built
// from authoritative events and, between them, from optimistic predictions.
type View struct {
	Seat         int
	Phase        domain.Phase
	Hand         []domain.Card
	HandSizes    [domain.NumSeats]int
	CurrentTurn  int
	LastPlay     *domain.Combination
	LastPlaySeat int
	Seq          int64
	TimerTarget  int // -1 when no countdown runs
}

// prediction remembers an optimistic local move so the authoritative answer
// can replace it.
type prediction struct {
	baseSeq int64
	pass    bool
	cards   []domain.Card
}

// Synchronizer keeps a View consistent with the authoritative match.
// Local predictions render immediately; every authoritative event
// overrides them, agreeing or not. It is not safe for concurrent use;
// callers own the serialization.
type Synchronizer struct {
	view       View
	pred       *prediction
	savedHand  []domain.Card
	needResync bool
}

// New returns a synchronizer for the given seat with an empty view.
func New(seat int) *Synchronizer {
	return &Synchronizer{view: View{Seat: seat, TimerTarget: -1}}
}

// View returns a copy of the current local projection.
func (s *Synchronizer) View() View {
	v := s.view
	v.Hand = append([]domain.Card{}, s.view.Hand...)
	return v
}

// NeedsResync reports whether an authoritative snapshot must be fetched
// because an event described a transition the local view cannot patch.
func (s *Synchronizer) NeedsResync() bool {
	return s.needResync
}

// ApplyLocalPrediction optimistically applies the local player's own move.
// The prediction is provisional until an authoritative event for the same
// logical turn arrives. Passing predicts only the turn advance.
func (s *Synchronizer) ApplyLocalPrediction(pass bool, cards []domain.Card) error {
	if s.pred != nil {
		// One in-flight prediction at a time; the caller's submit state
		// machine enforces this, so a second one means a logic error.
		return ErrPredictionPending
	}
	p := &prediction{baseSeq: s.view.Seq, pass: pass}
	if pass {
		s.pred = p
		s.view.CurrentTurn = domain.NextSeat(s.view.Seat)
		return nil
	}

	combo, err := domain.Classify(cards)
	if err != nil {
		return err
	}
	p.cards = combo.Cards
	s.pred = p

	s.savedHand = append([]domain.Card{}, s.view.Hand...)
	s.view.Hand = domain.RemoveCards(s.view.Hand, combo.Cards)
	s.view.HandSizes[s.view.Seat] = len(s.view.Hand)
	s.view.LastPlay = &combo
	s.view.LastPlaySeat = s.view.Seat
	s.view.CurrentTurn = domain.NextSeat(s.view.Seat)
	return nil
}

// RollbackPrediction restores the view after a definitively failed submit.
func (s *Synchronizer) RollbackPrediction() {
	if s.pred == nil {
		return
	}
	if !s.pred.pass {
		s.view.Hand = s.savedHand
		s.view.HandSizes[s.view.Seat] = len(s.savedHand)
		s.view.LastPlay = nil
		s.view.LastPlaySeat = -1
		s.needResync = true
	}
	s.view.CurrentTurn = s.view.Seat
	s.pred = nil
	s.savedHand = nil
}

// Reconcile folds one authoritative event into the view. Move events at or
// below the current authoritative Seq are duplicates and ignored. Any
// pending prediction is discarded the moment an authoritative event for its
// turn arrives, whether or not they agree: the local effect is rolled back
// first and the authoritative payload applied on top.
func (s *Synchronizer) Reconcile(ev app.Event) {
	switch ev.Kind {
	case app.EventCardsPlayed, app.EventPlayerPassed:
		// Sibling events of the same move (trick_won, timer events) share
		// its seq, so only the move events themselves are deduplicated.
		if ev.Seq <= s.view.Seq {
			return
		}
	}

	if s.pred != nil && ev.Seq > s.pred.baseSeq {
		// The authoritative answer for the predicted turn is here.
		if s.savedHand != nil {
			s.view.Hand = s.savedHand
			s.view.HandSizes[s.view.Seat] = len(s.savedHand)
			s.savedHand = nil
		}
		s.pred = nil
	}

	switch ev.Kind {
	case app.EventMatchState:
		s.applySnapshot(ev.Payload.(app.MatchStatePayload))
	case app.EventHandDealt:
		p := ev.Payload.(app.HandDealtPayload)
		if p.Seat == s.view.Seat {
			s.view.Hand = append([]domain.Card{}, p.Hand...)
			s.view.HandSizes[p.Seat] = len(p.Hand)
		}
	case app.EventMatchStarted:
		p := ev.Payload.(app.MatchStartedPayload)
		s.view.Phase = domain.PhaseFirstPlay
		s.view.CurrentTurn = p.FirstTurnSeat
		s.view.LastPlay = nil
		s.view.LastPlaySeat = -1
		copy(s.view.HandSizes[:], p.HandSizes)
		s.view.Seq = ev.Seq
	case app.EventCardsPlayed:
		p := ev.Payload.(app.CardsPlayedPayload)
		s.applyPlay(p)
		s.view.Seq = ev.Seq
	case app.EventPlayerPassed:
		p := ev.Payload.(app.PlayerPassedPayload)
		s.view.CurrentTurn = p.NextTurnSeat
		s.view.Seq = ev.Seq
	case app.EventTrickWon:
		p := ev.Payload.(app.TrickWonPayload)
		s.view.LastPlay = nil
		s.view.LastPlaySeat = -1
		s.view.CurrentTurn = p.WinnerSeat
		s.view.Seq = ev.Seq
	case app.EventTimerStarted:
		p := ev.Payload.(app.TimerStartedPayload)
		s.view.TimerTarget = p.TargetSeat
	case app.EventTimerCancel:
		s.view.TimerTarget = -1
	case app.EventTimerExecuted:
		// An auto-pass is a transition the local copy never predicted.
		// Rather than patch incrementally, demand a full snapshot; the
		// trailing player_passed still keeps the turn pointer usable.
		s.view.TimerTarget = -1
		s.needResync = true
	case app.EventMatchFinished:
		p := ev.Payload.(app.MatchFinishedPayload)
		s.view.Phase = p.Phase
		s.view.CurrentTurn = -1
		s.view.TimerTarget = -1
		copy(s.view.HandSizes[:], p.FinalHandSizes)
		s.view.Seq = ev.Seq
	}
}

func (s *Synchronizer) applyPlay(p app.CardsPlayedPayload) {
	if p.Seat == s.view.Seat {
		// The prediction, if any, was rolled back above; remove the
		// authoritative cards from the authoritative hand.
		s.view.Hand = domain.RemoveCards(s.view.Hand, p.Cards)
	}
	s.view.Phase = domain.PhasePlaying
	s.view.HandSizes[p.Seat] -= len(p.Cards)
	lp := p.LastPlay
	s.view.LastPlay = &lp
	s.view.LastPlaySeat = p.Seat
	s.view.CurrentTurn = p.NextTurnSeat
}

func (s *Synchronizer) applySnapshot(p app.MatchStatePayload) {
	s.view = View{
		Seat:         p.Seat,
		Phase:        p.Phase,
		Hand:         append([]domain.Card{}, p.Hand...),
		CurrentTurn:  p.CurrentTurn,
		LastPlay:     p.LastPlay,
		LastPlaySeat: p.LastPlaySeat,
		Seq:          p.Seq,
		TimerTarget:  -1,
	}
	copy(s.view.HandSizes[:], p.HandSizes)
	if p.Timer != nil {
		s.view.TimerTarget = p.Timer.TargetSeat
	}
	s.pred = nil
	s.savedHand = nil
	s.needResync = false
}
