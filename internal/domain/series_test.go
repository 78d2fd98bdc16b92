package domain

import "testing"

func TestMatchPenalty(t *testing.T) {
	tests := []struct {
		name string
		hand string
		want int
	}{
		{name: "Empty", hand: "", want: 0},
		{name: "PlainCards", hand: "3d 7c Jh", want: 3},
		{name: "TwoDoubles", hand: "3d 2c", want: 4},
		{name: "SecondTwoDoesNotDoubleAgain", hand: "2c 2h 5d", want: 6},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := MatchPenalty(parseCards(t, test.hand)); got != test.want {
				t.Fatalf("MatchPenalty() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestRecordMatchAccumulates(t *testing.T) {
	g := fixedGame(t, [NumSeats]string{"3d", "4c 5c", "6d 2h", "7d"})
	g.Phase = PhaseFinished
	g.Players[0].Hand = nil
	g.Players[0].HandSize = 0
	g.WinnerSeat = 0

	s := NewSeries(10)
	if over := s.RecordMatch(g); over {
		t.Fatalf("series over after one small match")
	}
	want := [NumSeats]int{0, 2, 4, 1}
	if s.Scores != want {
		t.Fatalf("Scores = %v, want %v", s.Scores, want)
	}
	if s.Matches != 1 {
		t.Fatalf("Matches = %d, want 1", s.Matches)
	}

	// A second identical match crosses the threshold at seat 2.
	for i := 0; i < 2; i++ {
		s.RecordMatch(g)
	}
	if !s.GameOver() {
		t.Fatalf("expected game over at %v with threshold 10", s.Scores)
	}
}

func TestRecordMatchIgnoresUnfinishedGame(t *testing.T) {
	g := fixedGame(t, [NumSeats]string{"3d", "4c", "5d", "6d"})
	s := NewSeries(0)
	if s.RecordMatch(g) {
		t.Fatalf("unfinished match scored")
	}
	if s.Matches != 0 {
		t.Fatalf("unfinished match counted")
	}
	if s.Threshold != DefaultSeriesThreshold {
		t.Fatalf("Threshold = %d, want default", s.Threshold)
	}
}
