package domain

// Unbeatable reports whether no combination of the same size as combo could
// still beat it, given the cards already committed to the played history.
// Cards outside the history are treated as live regardless of which hand holds
// them, so the answer is identical for every observer of the match.
//
// The check is re-run after every accepted play: once the 2 of spades is in the
// history, the 2 of hearts becomes the highest live single, and so on.
func Unbeatable(combo Combination, history CardSet) bool {
	if combo.Type == Invalid {
		return false
	}

	live := newLiveCards(history)

	switch combo.Type {
	case Single:
		return live.maxPower <= combo.Strength
	case Pair:
		return live.bestOfAKind(2) <= combo.Strength
	case Triple:
		return live.bestOfAKind(3) <= combo.Strength
	default:
		return fiveCardUnbeatable(combo, live)
	}
}

func fiveCardUnbeatable(combo Combination, live *liveCards) bool {
	precedence := fiveCardPrecedence[combo.Type]

	// A live straight flush beats every lower shape.
	if bestSF, ok := live.bestStraightFlush(); ok {
		if precedence < fiveCardPrecedence[StraightFlush] || bestSF > combo.Strength {
			return false
		}
	}
	if combo.Type == StraightFlush {
		return true
	}

	if bestQuad, ok := live.bestFourKind(); ok {
		if precedence < fiveCardPrecedence[FourKind] || bestQuad > combo.Strength {
			return false
		}
	}
	if combo.Type == FourKind {
		return true
	}

	if bestFH, ok := live.bestFullHouse(); ok {
		if precedence < fiveCardPrecedence[FullHouse] || bestFH > combo.Strength {
			return false
		}
	}
	if combo.Type == FullHouse {
		return true
	}

	if bestFlush, ok := live.bestFlush(); ok {
		if precedence < fiveCardPrecedence[Flush] || bestFlush > combo.Strength {
			return false
		}
	}
	if combo.Type == Flush {
		return true
	}

	if bestStraight, ok := live.bestStraight(); ok {
		if bestStraight > combo.Strength {
			return false
		}
	}
	return true
}

// liveCards indexes the cards not yet committed to a match history.
type liveCards struct {
	byRank   [13][]int32 // remaining suits per rank, ascending
	bySuit   [4]int      // remaining count per suit
	suitMax  [4]int32    // highest power per suit, -1 when empty
	maxPower int32
	total    int
}

func newLiveCards(history CardSet) *liveCards {
	live := &liveCards{maxPower: -1}
	for s := range live.suitMax {
		live.suitMax[s] = -1
	}
	for _, c := range NewDeck() {
		if history.Contains(c) {
			continue
		}
		live.byRank[c.Rank] = append(live.byRank[c.Rank], c.Suit)
		live.bySuit[c.Suit]++
		power := CardPower(c)
		if power > live.suitMax[c.Suit] {
			live.suitMax[c.Suit] = power
		}
		if power > live.maxPower {
			live.maxPower = power
		}
		live.total++
	}
	return live
}

// bestOfAKind returns the strongest strength key of any live n-of-a-kind set,
// or -1 when none exists. Set strength is the power of its highest card.
func (l *liveCards) bestOfAKind(n int) int32 {
	best := int32(-1)
	for rank := Rank2; rank >= Rank3; rank-- {
		suits := l.byRank[rank]
		if len(suits) < n {
			continue
		}
		power := rank*4 + suits[len(suits)-1]
		if power > best {
			best = power
		}
	}
	return best
}

func (l *liveCards) bestStraightFlush() (int32, bool) {
	best, found := int32(-1), false
	for idx := len(straightSequences) - 1; idx >= 0; idx-- {
		for suit := SuitSpades; suit >= SuitDiamonds; suit-- {
			complete := true
			for _, rank := range straightSequences[idx] {
				if !containsSuit(l.byRank[rank], suit) {
					complete = false
					break
				}
			}
			if complete {
				strength := int32(idx)*4 + suit
				if strength > best {
					best, found = strength, true
				}
			}
		}
		if found {
			return best, true
		}
	}
	return -1, false
}

func (l *liveCards) bestFourKind() (int32, bool) {
	for rank := Rank2; rank >= Rank3; rank-- {
		if len(l.byRank[rank]) == 4 && l.total > 4 {
			return rank, true
		}
	}
	return -1, false
}

func (l *liveCards) bestFullHouse() (int32, bool) {
	for rank := Rank2; rank >= Rank3; rank-- {
		if len(l.byRank[rank]) < 3 {
			continue
		}
		for other := Rank2; other >= Rank3; other-- {
			if other != rank && len(l.byRank[other]) >= 2 {
				return rank, true
			}
		}
	}
	return -1, false
}

func (l *liveCards) bestFlush() (int32, bool) {
	best, found := int32(-1), false
	for suit := SuitDiamonds; suit <= SuitSpades; suit++ {
		if l.bySuit[suit] >= 5 && l.suitMax[suit] > best {
			best, found = l.suitMax[suit], true
		}
	}
	return best, found
}

func (l *liveCards) bestStraight() (int32, bool) {
	for idx := len(straightSequences) - 1; idx >= 0; idx-- {
		complete := true
		highSuit := int32(-1)
		for i, rank := range straightSequences[idx] {
			suits := l.byRank[rank]
			if len(suits) == 0 {
				complete = false
				break
			}
			if i == 4 {
				highSuit = suits[len(suits)-1]
			}
		}
		if complete {
			return int32(idx)*4 + highSuit, true
		}
	}
	return -1, false
}

func containsSuit(suits []int32, suit int32) bool {
	for _, s := range suits {
		if s == suit {
			return true
		}
	}
	return false
}
