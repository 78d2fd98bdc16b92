package bot

import (
	"bigtwo/internal/domain"
)

// Move represents the decision made by the AI.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// LedgerView is the read-only projection of a match handed to a Brain. A
// bot never mutates authoritative state; its move goes through the same
// validation as a human submission.
type LedgerView struct {
	Seat         int
	Hand         []domain.Card
	LastPlay     *domain.Combination
	LastPlaySeat int
	HandSizes    [domain.NumSeats]int
	MustPlay     bool // one-card-left obligation or trick lead
	FirstPlay    bool // the opening move must contain the 3 of diamonds
	Seq          int64
}

// ViewFor projects the game for one seat.
func ViewFor(g *domain.Game, seat int) LedgerView {
	v := LedgerView{
		Seat:         seat,
		Hand:         append([]domain.Card{}, g.Players[seat].Hand...),
		LastPlay:     g.LastPlay,
		LastPlaySeat: g.LastPlaySeat,
		FirstPlay:    g.Phase == domain.PhaseFirstPlay,
		Seq:          g.Seq,
	}
	for i := 0; i < domain.NumSeats; i++ {
		v.HandSizes[i] = g.Players[i].HandSize
	}
	v.MustPlay = g.LastPlay == nil || g.MustPlayObligation(seat)
	return v
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	Decide(view LedgerView) (Move, error)
}
