package bot

import (
	"testing"

	"bigtwo/internal/domain"
)

func cardsOf(t *testing.T, s string) []domain.Card {
	t.Helper()
	cards, err := domain.ParseCards(s)
	if err != nil {
		t.Fatal(err)
	}
	return cards
}

func comboOf(t *testing.T, s string) *domain.Combination {
	t.Helper()
	combo, err := domain.Classify(cardsOf(t, s))
	if err != nil {
		t.Fatal(err)
	}
	return &combo
}

func TestGeneratorLeadEnumeratesAllShapes(t *testing.T) {
	hand := cardsOf(t, "3d 3c 4d 5h 6s 7d 8c 8h")

	moves := GetValidMoves(hand, nil)

	counts := map[domain.CombinationType]int{}
	for _, m := range moves {
		counts[m.Combo.Type]++
	}
	if counts[domain.Single] != len(hand) {
		t.Fatalf("%d singles, want %d", counts[domain.Single], len(hand))
	}
	if counts[domain.Pair] != 2 {
		t.Fatalf("%d pairs, want 2", counts[domain.Pair])
	}
	// 34567 with two choices of 3, 45678 with two choices of 8.
	if counts[domain.Straight] != 4 {
		t.Fatalf("%d straights, want 4", counts[domain.Straight])
	}
	for i := 1; i < len(moves); i++ {
		if len(moves[i].Cards) == len(moves[i-1].Cards) && moves[i].Combo.Type == moves[i-1].Combo.Type &&
			moves[i].Combo.Strength < moves[i-1].Combo.Strength {
			t.Fatal("moves not sorted weakest first")
		}
	}
}

func TestGeneratorBeatingSingles(t *testing.T) {
	hand := cardsOf(t, "7d Jc 2s 8h")

	moves := GetValidMoves(hand, comboOf(t, "9c"))

	if len(moves) != 2 {
		t.Fatalf("got %d moves, want 2", len(moves))
	}
	if moves[0].Cards[0].String() != "Jc" || moves[1].Cards[0].String() != "2s" {
		t.Fatalf("got %v then %v", moves[0].Cards, moves[1].Cards)
	}
}

func TestGeneratorPairMustMatchType(t *testing.T) {
	hand := cardsOf(t, "Jc Jh 2s")

	moves := GetValidMoves(hand, comboOf(t, "9c 9h"))

	if len(moves) != 1 || moves[0].Combo.Type != domain.Pair {
		t.Fatalf("got %v", moves)
	}
}

func TestGeneratorFiveCardPrecedenceCrossType(t *testing.T) {
	// A flush beats any straight even when the flush's ranks are lower.
	hand := cardsOf(t, "3h 6h 8h Jh Kh")

	moves := GetValidMoves(hand, comboOf(t, "9c 10d Jd Qs Kd"))

	found := false
	for _, m := range moves {
		if m.Combo.Type == domain.Flush {
			found = true
		}
	}
	if !found {
		t.Fatal("flush not offered against a straight")
	}
}

func TestGeneratorNothingBeatsTopSingle(t *testing.T) {
	hand := cardsOf(t, "3d 9c Ah")

	if moves := GetValidMoves(hand, comboOf(t, "2s")); len(moves) != 0 {
		t.Fatalf("got %v, want none", moves)
	}
}
