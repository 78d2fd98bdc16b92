package bot

import (
	"bigtwo/internal/domain"
)

// GreedyBot is the reference strategy: it always plays the weakest legal
// move and passes only when it holds nothing that qualifies. Because it
// draws candidates from the shared generator it automatically satisfies the
// opening constraint and the one-card-left obligation.
type GreedyBot struct{}

func (b *GreedyBot) Decide(view LedgerView) (Move, error) {
	moves := candidateMoves(view)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}
	if view.LastPlay == nil {
		return Move{Cards: pickLead(moves).Cards}, nil
	}
	return Move{Cards: moves[0].Cards}, nil
}

// candidateMoves runs the generator and applies the opening-card filter.
// Moves come back sorted weakest first.
func candidateMoves(view LedgerView) []ValidMove {
	moves := GetValidMoves(view.Hand, view.LastPlay)
	if !view.FirstPlay {
		return moves
	}
	filtered := moves[:0]
	for _, m := range moves {
		if domain.ContainsCards(m.Cards, []domain.Card{domain.ThreeOfDiamonds}) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// pickLead prefers shedding more cards per trick, breaking ties toward the
// weakest combination so high cards stay in reserve.
func pickLead(moves []ValidMove) ValidMove {
	best := moves[0]
	for _, m := range moves[1:] {
		if len(m.Cards) > len(best.Cards) {
			best = m
		}
	}
	return best
}

// usesRank reports whether the move spends a card of the given rank.
func usesRank(m ValidMove, rank int32) bool {
	for _, c := range m.Cards {
		if c.Rank == rank {
			return true
		}
	}
	return false
}
