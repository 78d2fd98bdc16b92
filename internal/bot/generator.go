package bot

import (
	"sort"

	"bigtwo/internal/domain"
)

// ValidMove is a legal play candidate together with its classification.
type ValidMove struct {
	Cards []domain.Card
	Combo domain.Combination
}

// GetValidMoves enumerates every legal play for the hand against lastPlay.
// A nil lastPlay means the player leads and may open with any combination.
// Candidates are classified with the same rules module the validator uses,
// so a move returned here is never rejected for shape or strength.
func GetValidMoves(hand []domain.Card, lastPlay *domain.Combination) []ValidMove {
	sorted := append([]domain.Card{}, hand...)
	domain.SortHand(sorted)

	var moves []ValidMove
	consider := func(cards []domain.Card) {
		combo, err := domain.Classify(cards)
		if err != nil {
			return
		}
		if lastPlay != nil && !domain.CanBeat(*lastPlay, combo) {
			return
		}
		moves = append(moves, ValidMove{Cards: cards, Combo: combo})
	}

	if lastPlay == nil || lastPlay.Type == domain.Single {
		for _, c := range sorted {
			consider([]domain.Card{c})
		}
	}
	if lastPlay == nil || lastPlay.Type == domain.Pair {
		forRankGroups(sorted, 2, consider)
	}
	if lastPlay == nil || lastPlay.Type == domain.Triple {
		forRankGroups(sorted, 3, consider)
	}
	if lastPlay == nil || len(lastPlay.Cards) == 5 {
		forFiveCardSubsets(sorted, consider)
	}

	sort.Slice(moves, func(i, j int) bool {
		return moves[i].Combo.Strength < moves[j].Combo.Strength
	})
	return moves
}

// forRankGroups yields every size-n subset drawn from a single rank.
func forRankGroups(sorted []domain.Card, n int, yield func([]domain.Card)) {
	byRank := map[int32][]domain.Card{}
	for _, c := range sorted {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}
	for r := domain.Rank3; r <= domain.Rank2; r++ {
		group := byRank[r]
		if len(group) < n {
			continue
		}
		forSubsets(group, n, yield)
	}
}

// forFiveCardSubsets yields every 5-card subset of the hand. A 13-card hand
// has 1287 of them, cheap enough to classify exhaustively.
func forFiveCardSubsets(sorted []domain.Card, yield func([]domain.Card)) {
	forSubsets(sorted, 5, yield)
}

func forSubsets(cards []domain.Card, n int, yield func([]domain.Card)) {
	idx := make([]int, n)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == n {
			subset := make([]domain.Card, n)
			for i, j := range idx {
				subset[i] = cards[j]
			}
			yield(subset)
			return
		}
		for i := start; i <= len(cards)-(n-depth); i++ {
			idx[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
}
