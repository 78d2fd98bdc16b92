package domain

// DefaultSeriesThreshold ends a series once any seat accumulates this many
// penalty points across repeated matches.
const DefaultSeriesThreshold = 100

// Series accumulates penalty scores across repeated matches between the same
// four seats. Scoring: one point per card left in hand when a match finishes,
// doubled once if the leftover hand still holds a 2.
type Series struct {
	Scores    [NumSeats]int `json:"scores"`
	Threshold int           `json:"threshold"`
	Matches   int           `json:"matches"`
}

// NewSeries returns a series with the given threshold, or the default when
// threshold is not positive.
func NewSeries(threshold int) *Series {
	if threshold <= 0 {
		threshold = DefaultSeriesThreshold
	}
	return &Series{Threshold: threshold}
}

// MatchPenalty scores a single leftover hand.
func MatchPenalty(hand []Card) int {
	penalty := len(hand)
	for _, c := range hand {
		if c.Rank == Rank2 {
			penalty *= 2
			break
		}
	}
	return penalty
}

// RecordMatch folds a finished match into the series and reports whether the
// accumulated score pushes the series into game over.
func (s *Series) RecordMatch(g *Game) bool {
	if g.Phase != PhaseFinished {
		return false
	}
	for i, p := range g.Players {
		s.Scores[i] += MatchPenalty(p.Hand)
	}
	s.Matches++
	return s.GameOver()
}

// GameOver reports whether any seat has crossed the threshold.
func (s *Series) GameOver() bool {
	for _, score := range s.Scores {
		if score >= s.Threshold {
			return true
		}
	}
	return false
}
