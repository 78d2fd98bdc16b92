package domain

import (
	"errors"
	"fmt"
	"math/rand"
)

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseFirstPlay waits for the holder of the 3 of diamonds to open.
	PhaseFirstPlay Phase = "first_play"
	// PhasePlaying is the active state where cards are played and passed.
	PhasePlaying Phase = "playing"
	// PhaseFinished is reached when a player sheds their last card.
	PhaseFinished Phase = "finished"
	// PhaseGameOver is reached when a series score threshold is crossed.
	PhaseGameOver Phase = "game_over"
)

// NumSeats is fixed for the whole game family.
const NumSeats = 4

// CardsPerHand is the deal size per seat.
const CardsPerHand = 13

// Validation errors returned to callers without mutating state.
var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrDoesNotBeat     = errors.New("combination does not beat the last play")
	ErrMissingRequired = errors.New("first play must contain the 3 of diamonds")
	ErrMustPlay        = errors.New("pass rejected: a stronger single must be played")
	ErrStaleState      = errors.New("move was computed against an outdated state")
	ErrNotPlaying      = errors.New("match is not in a playable phase")
	// ErrCardsNotHeld rejects a claimed combination the hand cannot assemble.
	// It is a kind of ErrInvalidCombination: a shape built on cards the player
	// does not hold is not a valid combination.
	ErrCardsNotHeld = fmt.Errorf("player does not hold the submitted cards: %w", ErrInvalidCombination)
	// ErrCorruptState signals an internal invariant violation; the match must abort.
	ErrCorruptState = errors.New("card conservation invariant violated")
)

// Player holds the per-seat state of a match.
type Player struct {
	Seat     int    `json:"seat"` // 0..3
	UserID   string `json:"user_id"`
	Hand     []Card `json:"hand"`
	HandSize int    `json:"hand_size"`
}

// Game is the authoritative per-match record: hands, last play, whose turn it
// is, and the history of committed cards. It is mutated only through ApplyPlay
// and ApplyPass.
type Game struct {
	Phase        Phase            `json:"phase"`
	Players      [NumSeats]Player `json:"players"`
	CurrentTurn  int              `json:"current_turn"`
	RoundLeader  int              `json:"round_leader"`
	LastPlay     *Combination     `json:"last_play,omitempty"`
	LastPlaySeat int              `json:"last_play_seat"`
	History      CardSet          `json:"-"`
	HistoryCards []Card           `json:"history"` // serialized form of History
	WinnerSeat   int              `json:"winner_seat"`

	// Seq is the ledger version, incremented on every accepted move.
	Seq int64 `json:"seq"`

	lastAction *appliedAction
}

type appliedAction struct {
	seat  int
	pass  bool
	cards []Card
	seq   int64
}

// VersionAny skips the optimistic version check on a submitted move.
const VersionAny int64 = -1

// NewGame deals a full deck to four seats and returns the match in the
// first-play phase, with the turn on whichever seat drew the 3 of diamonds.
func NewGame(userIDs [NumSeats]string, rng *rand.Rand) *Game {
	deck := ShuffleDeck(NewDeck(), rng)

	g := &Game{
		Phase:        PhaseFirstPlay,
		History:      NewCardSet(),
		LastPlaySeat: -1,
		WinnerSeat:   -1,
	}
	for seat := 0; seat < NumSeats; seat++ {
		hand := append([]Card{}, deck[seat*CardsPerHand:(seat+1)*CardsPerHand]...)
		SortHand(hand)
		g.Players[seat] = Player{
			Seat:     seat,
			UserID:   userIDs[seat],
			Hand:     hand,
			HandSize: len(hand),
		}
		if ContainsCards(hand, []Card{ThreeOfDiamonds}) {
			g.CurrentTurn = seat
			g.RoundLeader = seat
		}
	}
	return g
}

// NextSeat is the single turn-rotation function. Every piece of turn
// advancement, server or bot side, must go through it.
func NextSeat(seat int) int {
	return (seat + 1) % NumSeats
}

// PlayResult describes the outcome of an accepted play.
type PlayResult struct {
	Seat     int
	Combo    Combination
	NextTurn int
	Finished bool // the acting player shed their last card
	Replayed bool // duplicate submission acknowledged without mutation
	Seq      int64
}

// PassResult describes the outcome of an accepted pass.
type PassResult struct {
	Seat       int
	NextTurn   int
	TrickWon   bool // the pass closed the trick
	WinnerSeat int  // valid when TrickWon
	Replayed   bool
	Seq        int64
}

// ApplyPlay validates and commits a play for the given seat. version is the
// ledger Seq the caller computed the move against, or VersionAny to skip the
// check. On success the played cards move from the hand to the history, the
// turn advances, and Seq increments.
func (g *Game) ApplyPlay(seat int, cards []Card, version int64) (PlayResult, error) {
	if replay, ok := g.isReplay(seat, false, cards, version); ok {
		return PlayResult{Seat: seat, NextTurn: g.CurrentTurn, Replayed: true, Seq: replay}, nil
	}
	if g.Phase != PhaseFirstPlay && g.Phase != PhasePlaying {
		return PlayResult{}, ErrNotPlaying
	}
	if version != VersionAny && version != g.Seq {
		return PlayResult{}, ErrStaleState
	}
	if seat != g.CurrentTurn {
		return PlayResult{}, ErrNotYourTurn
	}

	combo, err := Classify(cards)
	if err != nil {
		return PlayResult{}, err
	}

	player := &g.Players[seat]
	if !ContainsCards(player.Hand, cards) {
		return PlayResult{}, ErrCardsNotHeld
	}

	if g.Phase == PhaseFirstPlay && !ContainsCards(cards, []Card{ThreeOfDiamonds}) {
		return PlayResult{}, ErrMissingRequired
	}

	if g.LastPlay != nil && !CanBeat(*g.LastPlay, combo) {
		return PlayResult{}, ErrDoesNotBeat
	}

	// Commit.
	player.Hand = RemoveCards(player.Hand, cards)
	player.HandSize = len(player.Hand)
	g.History.Add(cards...)
	g.HistoryCards = g.History.Cards()
	g.LastPlay = &combo
	g.LastPlaySeat = seat
	if g.Phase == PhaseFirstPlay {
		g.Phase = PhasePlaying
	}

	result := PlayResult{Seat: seat, Combo: combo}
	if player.HandSize == 0 {
		g.Phase = PhaseFinished
		g.WinnerSeat = seat
		result.Finished = true
		result.NextTurn = seat
	} else {
		g.CurrentTurn = NextSeat(seat)
		result.NextTurn = g.CurrentTurn
	}

	g.Seq++
	result.Seq = g.Seq
	g.lastAction = &appliedAction{seat: seat, cards: combo.Cards, seq: g.Seq}

	if err := g.checkConservation(); err != nil {
		return PlayResult{}, err
	}
	return result, nil
}

// ApplyPass validates and commits a pass for the given seat. A pass never
// touches hands or history; it advances the turn and may close the trick.
func (g *Game) ApplyPass(seat int, version int64) (PassResult, error) {
	if g.Phase == PhaseFirstPlay {
		// The opening player must play; everyone else is simply out of turn.
		if seat == g.CurrentTurn {
			return PassResult{}, ErrMustPlay
		}
		return PassResult{}, ErrNotYourTurn
	}
	if g.Phase != PhasePlaying {
		return PassResult{}, ErrNotPlaying
	}
	if replay, ok := g.isReplay(seat, true, nil, version); ok {
		return PassResult{Seat: seat, NextTurn: g.CurrentTurn, Replayed: true, Seq: replay}, nil
	}
	if version != VersionAny && version != g.Seq {
		return PassResult{}, ErrStaleState
	}
	if seat != g.CurrentTurn {
		return PassResult{}, ErrNotYourTurn
	}
	if g.LastPlay == nil {
		// Trick leader has free choice and must use it.
		return PassResult{}, ErrMustPlay
	}
	if g.passBlocked(seat) {
		return PassResult{}, ErrMustPlay
	}

	result := PassResult{Seat: seat, WinnerSeat: -1}

	g.CurrentTurn = NextSeat(seat)
	if g.CurrentTurn == g.LastPlaySeat {
		// Everyone else passed in sequence; the trick is won.
		result.TrickWon = true
		result.WinnerSeat = g.LastPlaySeat
		g.RoundLeader = g.LastPlaySeat
		g.LastPlay = nil
	}
	result.NextTurn = g.CurrentTurn

	g.Seq++
	result.Seq = g.Seq
	g.lastAction = &appliedAction{seat: seat, pass: true, seq: g.Seq}

	return result, nil
}

// passBlocked implements the one-card-left rule: when the last play is a
// single and the next seat in rotation holds exactly one card, a player who
// holds a single that beats the last play may not pass.
func (g *Game) passBlocked(seat int) bool {
	if g.LastPlay == nil || g.LastPlay.Type != Single {
		return false
	}
	if g.Players[NextSeat(seat)].HandSize != 1 {
		return false
	}
	for _, c := range g.Players[seat].Hand {
		if CardPower(c) > g.LastPlay.Strength {
			return true
		}
	}
	return false
}

// MustPlayObligation reports whether the seat is barred from passing under the
// one-card-left rule. Exposed so decision makers can honor the rule up front
// instead of discovering it through a rejected pass.
func (g *Game) MustPlayObligation(seat int) bool {
	return g.Phase == PhasePlaying && g.CurrentTurn == seat && g.LastPlay != nil && g.passBlocked(seat)
}

// isReplay detects a resubmission of the immediately preceding accepted move.
func (g *Game) isReplay(seat int, pass bool, cards []Card, version int64) (int64, bool) {
	if version == VersionAny || g.lastAction == nil {
		return 0, false
	}
	la := g.lastAction
	if version != la.seq-1 || la.seat != seat || la.pass != pass {
		return 0, false
	}
	if !pass {
		if len(cards) != len(la.cards) {
			return 0, false
		}
		sorted := make([]Card, len(cards))
		copy(sorted, cards)
		SortHand(sorted)
		for i, c := range sorted {
			if c != la.cards[i] {
				return 0, false
			}
		}
	}
	return la.seq, true
}

// FinalHandSizes returns remaining hand sizes, valid once the match finished.
func (g *Game) FinalHandSizes() [NumSeats]int {
	var sizes [NumSeats]int
	for i, p := range g.Players {
		sizes[i] = p.HandSize
	}
	return sizes
}

// SeatOf returns the seat index for a user id, or -1.
func (g *Game) SeatOf(userID string) int {
	for i, p := range g.Players {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}

// checkConservation verifies that every one of the 52 cards sits in exactly one
// hand or in the played history. A violation is fatal for the match.
func (g *Game) checkConservation() error {
	seen := make(map[Card]int, 52)
	total := 0
	for _, p := range g.Players {
		if p.HandSize != len(p.Hand) {
			return fmt.Errorf("%w: seat %d hand size mismatch", ErrCorruptState, p.Seat)
		}
		for _, c := range p.Hand {
			seen[c]++
			total++
		}
	}
	for c := range g.History {
		seen[c]++
		total++
	}
	if total != 52 {
		return fmt.Errorf("%w: %d cards accounted for", ErrCorruptState, total)
	}
	for c, n := range seen {
		if n != 1 {
			return fmt.Errorf("%w: card %s appears %d times", ErrCorruptState, c, n)
		}
	}
	return nil
}

// RestoreHistory rebuilds the internal history set after deserialization.
func (g *Game) RestoreHistory() {
	g.History = NewCardSet(g.HistoryCards...)
}
