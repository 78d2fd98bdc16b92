package domain

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Card is a single playing card. Rank runs 0..12 where 3=0, 4=1, ... A=11, 2=12.
// Suit runs 0..3 in ascending strength: diamonds, clubs, hearts, spades.
type Card struct {
	Rank int32 `json:"rank"`
	Suit int32 `json:"suit"`
}

const (
	SuitDiamonds int32 = iota
	SuitClubs
	SuitHearts
	SuitSpades
)

const (
	Rank3 int32 = iota
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
	Rank2
)

// ThreeOfDiamonds opens every match.
var ThreeOfDiamonds = Card{Rank: Rank3, Suit: SuitDiamonds}

var rankNames = []string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}
var suitNames = []string{"d", "c", "h", "s"}

func (c Card) String() string {
	if c.Rank < 0 || c.Rank > Rank2 || c.Suit < 0 || c.Suit > SuitSpades {
		return fmt.Sprintf("?%d/%d", c.Rank, c.Suit)
	}
	return rankNames[c.Rank] + suitNames[c.Suit]
}

// ParseCard parses a card token such as "3d", "10h" or "As".
func ParseCard(tok string) (Card, error) {
	if len(tok) < 2 {
		return Card{}, fmt.Errorf("bad card token %q", tok)
	}
	rankStr, suitStr := tok[:len(tok)-1], tok[len(tok)-1:]
	rank, suit := int32(-1), int32(-1)
	for i, name := range rankNames {
		if name == rankStr {
			rank = int32(i)
			break
		}
	}
	for i, name := range suitNames {
		if name == suitStr {
			suit = int32(i)
			break
		}
	}
	if rank < 0 || suit < 0 {
		return Card{}, fmt.Errorf("bad card token %q", tok)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a space-separated card list such as "3d 10h As".
func ParseCards(s string) ([]Card, error) {
	var out []Card
	for _, tok := range strings.Fields(s) {
		c, err := ParseCard(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// CardPower maps a card onto the strict total order 2s > As > ... > 3d.
func CardPower(c Card) int32 {
	return c.Rank*4 + c.Suit
}

// NewDeck returns the ordered 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for r := Rank3; r <= Rank2; r++ {
		for s := SuitDiamonds; s <= SuitSpades; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	if rng == nil {
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortHand orders a hand by ascending power.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return CardPower(cards[i]) < CardPower(cards[j])
	})
}

// RemoveCards removes the specified cards from a hand and returns the updated hand.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}

	return updated
}

// ContainsCards reports whether the hand holds every requested card, respecting multiplicity.
func ContainsCards(hand []Card, wanted []Card) bool {
	counts := make(map[Card]int, len(hand))
	for _, c := range hand {
		counts[c]++
	}
	for _, c := range wanted {
		if counts[c] == 0 {
			return false
		}
		counts[c]--
	}
	return true
}

// CardSet tracks a set of committed cards, e.g. the played history of a match.
type CardSet map[Card]bool

// NewCardSet builds a set from the given cards.
func NewCardSet(cards ...Card) CardSet {
	s := make(CardSet, len(cards))
	for _, c := range cards {
		s[c] = true
	}
	return s
}

// Add inserts cards into the set.
func (s CardSet) Add(cards ...Card) {
	for _, c := range cards {
		s[c] = true
	}
}

// Contains reports membership.
func (s CardSet) Contains(c Card) bool {
	return s[c]
}

// Cards returns the members in deck order.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	SortHand(out)
	return out
}
