package domain

import "testing"

func TestUnbeatableSingles(t *testing.T) {
	tests := []struct {
		name       string
		history    string
		play       string
		unbeatable bool
	}{
		{"2s with empty history", "", "2s", true},
		{"2h after 2s gone", "2s", "2h", true},
		{"2h with 2s live", "", "2h", false},
		{"Ks with 2s live", "", "Ks", false},
		{"As after all 2s gone", "2d 2c 2h 2s", "As", true},
		{"Ah after all 2s gone", "2d 2c 2h 2s", "Ah", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := NewCardSet(parseCards(t, tt.history)...)
			combo := mustClassify(t, tt.play)
			history.Add(combo.Cards...)
			if got := Unbeatable(combo, history); got != tt.unbeatable {
				t.Errorf("Unbeatable() = %v, want %v", got, tt.unbeatable)
			}
		})
	}
}

func TestUnbeatablePairsAndTriples(t *testing.T) {
	tests := []struct {
		name       string
		history    string
		play       string
		unbeatable bool
	}{
		{"Top pair of 2s", "", "2h 2s", true},
		{"Pair of aces with 2s live", "", "Ah As", false},
		{"Pair of aces with three 2s gone", "2c 2h 2s", "Ah As", true},
		{"Pair of aces with a live 2 pair", "2h 2s", "Ah As", false},
		{"Triple aces with three 2s gone", "2c 2h 2s", "Ad Ah As", true},
		{"Triple kings with aces live", "2d 2c 2h 2s", "Kd Kh Ks", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := NewCardSet(parseCards(t, tt.history)...)
			combo := mustClassify(t, tt.play)
			history.Add(combo.Cards...)
			if got := Unbeatable(combo, history); got != tt.unbeatable {
				t.Errorf("Unbeatable() = %v, want %v", got, tt.unbeatable)
			}
		})
	}
}

func TestUnbeatableFiveCard(t *testing.T) {
	// With a full deck live, any plain straight remains beatable.
	combo := mustClassify(t, "3d 4c 5h 6s 7d")
	history := NewCardSet(combo.Cards...)
	if Unbeatable(combo, history) {
		t.Fatalf("plain straight should be beatable with full deck live")
	}

	// Even the strongest straight is beaten by a live flush.
	top := mustClassify(t, "10d Jc Qh Ks Ad")
	history = NewCardSet(top.Cards...)
	if Unbeatable(top, history) {
		t.Fatalf("top straight should lose to live flushes")
	}
}

func TestUnbeatableQuadVersusStraightFlush(t *testing.T) {
	// A quad of 2s is still beatable while straight flushes are live.
	quad := mustClassify(t, "2d 2c 2h 2s 3c")
	history := NewCardSet(quad.Cards...)
	if Unbeatable(quad, history) {
		t.Fatalf("quad should be beatable while straight flushes remain")
	}

	// Kill every straight flush by removing one card from each suit's run
	// windows: discard all 7s and the remaining straight glue.
	history = NewCardSet(quad.Cards...)
	for _, c := range NewDeck() {
		if c.Rank == Rank5 || c.Rank == Rank10 || c.Rank == RankA {
			history.Add(c)
		}
	}
	if !Unbeatable(quad, history) {
		t.Fatalf("quad of 2s should be unbeatable with every straight flush window broken")
	}
}

func TestUnbeatableStraightFlushTop(t *testing.T) {
	sf := mustClassify(t, "10s Js Qs Ks As")
	history := NewCardSet(sf.Cards...)
	if !Unbeatable(sf, history) {
		t.Fatalf("top straight flush should be unbeatable")
	}

	lower := mustClassify(t, "10h Jh Qh Kh Ah")
	history = NewCardSet(lower.Cards...)
	if Unbeatable(lower, history) {
		t.Fatalf("heart royal should lose to the live spade royal")
	}
}

func TestUnbeatableFlushPrecedence(t *testing.T) {
	// An ace-high spade flush still loses while stronger shapes are live.
	flush := mustClassify(t, "3s 6s 9s Js As")
	history := NewCardSet(flush.Cards...)
	if Unbeatable(flush, history) {
		t.Fatalf("flush should be beatable while full houses and straight flushes are live")
	}
}
