package domain

import "errors"

// CombinationType identifies the shape of a played set of cards.
type CombinationType int

const (
	Invalid CombinationType = iota
	Single
	Pair
	Triple
	Straight
	Flush
	FullHouse
	FourKind
	StraightFlush
)

var combinationNames = map[CombinationType]string{
	Invalid:       "invalid",
	Single:        "single",
	Pair:          "pair",
	Triple:        "triple",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full_house",
	FourKind:      "four_kind",
	StraightFlush: "straight_flush",
}

func (t CombinationType) String() string {
	if name, ok := combinationNames[t]; ok {
		return name
	}
	return "unknown"
}

// fiveCardPrecedence orders the five-card shapes against each other.
var fiveCardPrecedence = map[CombinationType]int{
	Straight:      1,
	Flush:         2,
	FullHouse:     3,
	FourKind:      4,
	StraightFlush: 5,
}

// Combination is a classified set of cards with a strength key. Strength is a
// strict total order within one type/size class.
type Combination struct {
	Type     CombinationType `json:"type"`
	Cards    []Card          `json:"cards"`
	Strength int32           `json:"strength"`
}

// Ordering is the result of comparing two combinations.
type Ordering int

const (
	Less Ordering = iota - 1
	Incomparable
	Greater
)

// ErrInvalidCombination is returned when cards do not form a recognized shape.
var ErrInvalidCombination = errors.New("cards do not form a valid combination")

// straightSequences lists the ten legal five-card rank sequences, weakest first.
// The last entry of each row is the sequence-defining high card used for
// comparisons, so A-2-3-4-5 is topped by the 5 and 2-3-4-5-6 by the 6.
var straightSequences = [10][5]int32{
	{RankA, Rank2, Rank3, Rank4, Rank5},
	{Rank2, Rank3, Rank4, Rank5, Rank6},
	{Rank3, Rank4, Rank5, Rank6, Rank7},
	{Rank4, Rank5, Rank6, Rank7, Rank8},
	{Rank5, Rank6, Rank7, Rank8, Rank9},
	{Rank6, Rank7, Rank8, Rank9, Rank10},
	{Rank7, Rank8, Rank9, Rank10, RankJ},
	{Rank8, Rank9, Rank10, RankJ, RankQ},
	{Rank9, Rank10, RankJ, RankQ, RankK},
	{Rank10, RankJ, RankQ, RankK, RankA},
}

// Classify determines the combination formed by the given cards.
// Hands of size 1, 2 or 3 must be rank-matched sets; hands of size 5 must match
// one of the five recognized shapes. Everything else is invalid.
func Classify(cards []Card) (Combination, error) {
	n := len(cards)

	sorted := make([]Card, n)
	copy(sorted, cards)
	SortHand(sorted)

	switch n {
	case 1:
		return Combination{Type: Single, Cards: sorted, Strength: CardPower(sorted[0])}, nil
	case 2, 3:
		if !allSameRank(sorted) {
			return Combination{Type: Invalid}, ErrInvalidCombination
		}
		t := Pair
		if n == 3 {
			t = Triple
		}
		return Combination{Type: t, Cards: sorted, Strength: CardPower(sorted[n-1])}, nil
	case 5:
		return classifyFive(sorted)
	default:
		return Combination{Type: Invalid}, ErrInvalidCombination
	}
}

func classifyFive(sorted []Card) (Combination, error) {
	seqIdx, highCard, isStraight := matchStraight(sorted)
	flush := allSameSuit(sorted)

	switch {
	case isStraight && flush:
		return Combination{
			Type:     StraightFlush,
			Cards:    sorted,
			Strength: int32(seqIdx)*4 + highCard.Suit,
		}, nil
	case isStraight:
		return Combination{
			Type:     Straight,
			Cards:    sorted,
			Strength: int32(seqIdx)*4 + highCard.Suit,
		}, nil
	case flush:
		return Combination{Type: Flush, Cards: sorted, Strength: CardPower(sorted[4])}, nil
	}

	counts := rankCounts(sorted)
	if len(counts) == 2 {
		// Either 3+2 or 4+1.
		for rank, count := range counts {
			if count == 4 {
				return Combination{Type: FourKind, Cards: sorted, Strength: rank}, nil
			}
			if count == 3 {
				return Combination{Type: FullHouse, Cards: sorted, Strength: rank}, nil
			}
		}
	}

	return Combination{Type: Invalid}, ErrInvalidCombination
}

// matchStraight reports whether the sorted cards form one of the ten legal
// sequences, returning the sequence index and its defining high card.
func matchStraight(sorted []Card) (int, Card, bool) {
	ranks := make(map[int32]Card, 5)
	for _, c := range sorted {
		if _, dup := ranks[c.Rank]; dup {
			return 0, Card{}, false
		}
		ranks[c.Rank] = c
	}

	for idx, seq := range straightSequences {
		matched := true
		for _, r := range seq {
			if _, ok := ranks[r]; !ok {
				matched = false
				break
			}
		}
		if matched {
			return idx, ranks[seq[4]], true
		}
	}
	return 0, Card{}, false
}

// Compare orders two combinations. Combinations of differing size are
// incomparable. Five-card combinations of different shapes are ordered by the
// fixed precedence straight < flush < full house < four-of-a-kind < straight
// flush; smaller combinations of different shapes are incomparable.
func Compare(a, b Combination) Ordering {
	if a.Type == Invalid || b.Type == Invalid {
		return Incomparable
	}
	if len(a.Cards) != len(b.Cards) {
		return Incomparable
	}

	if a.Type != b.Type {
		pa, okA := fiveCardPrecedence[a.Type]
		pb, okB := fiveCardPrecedence[b.Type]
		if !okA || !okB {
			return Incomparable
		}
		if pa > pb {
			return Greater
		}
		return Less
	}

	if a.Strength > b.Strength {
		return Greater
	}
	if a.Strength < b.Strength {
		return Less
	}
	return Incomparable
}

// CanBeat reports whether next wins over prev when played on it.
func CanBeat(prev, next Combination) bool {
	return Compare(next, prev) == Greater
}

func allSameRank(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	r := cards[0].Rank
	for _, c := range cards {
		if c.Rank != r {
			return false
		}
	}
	return true
}

func allSameSuit(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	s := cards[0].Suit
	for _, c := range cards {
		if c.Suit != s {
			return false
		}
	}
	return true
}

func rankCounts(cards []Card) map[int32]int32 {
	counts := make(map[int32]int32, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}
