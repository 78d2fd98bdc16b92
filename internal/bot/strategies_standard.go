package bot

import (
	"bigtwo/internal/domain"
)

// StandardBot plays like GreedyBot but conserves its twos while the table
// is calm: against a cheap single it would rather pass than spend a 2, as
// long as no opponent is close to going out and it is free to pass.
type StandardBot struct {
	Tuning Tuning
}

func NewStandardBot() *StandardBot {
	return &StandardBot{Tuning: DefaultTuning}
}

func (b *StandardBot) Decide(view LedgerView) (Move, error) {
	moves := candidateMoves(view)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	// A move that empties the hand ends the match; take it.
	for _, m := range moves {
		if len(m.Cards) == len(view.Hand) {
			return Move{Cards: m.Cards}, nil
		}
	}

	if view.LastPlay == nil {
		return Move{Cards: pickLead(moves).Cards}, nil
	}

	weakest := moves[0]
	if !view.MustPlay && b.conserve(view, weakest) {
		return Move{Pass: true}, nil
	}
	return Move{Cards: weakest.Cards}, nil
}

// conserve decides whether beating the last play is worth spending a 2.
func (b *StandardBot) conserve(view LedgerView, weakest ValidMove) bool {
	if !usesRank(weakest, domain.Rank2) {
		return false
	}
	if view.LastPlay.Type != domain.Single || view.LastPlay.Strength >= b.Tuning.ConserveBelow {
		return false
	}
	for seat, size := range view.HandSizes {
		if seat == view.Seat {
			continue
		}
		if size > 0 && size <= b.Tuning.ThreatThreshold {
			return false
		}
	}
	return true
}
