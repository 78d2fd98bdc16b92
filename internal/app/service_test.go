package app

import (
	"errors"
	"math/rand"
	"testing"
	"time"

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

// testMatch builds a playing-phase match with hands assigned directly. Cards
// no hand holds are parked in the history so conservation checks stay happy.
func testMatch(t *testing.T, hands [domain.NumSeats]string, turn int) *Match {
	t.Helper()
	g := &domain.Game{
		Phase:        domain.PhasePlaying,
		CurrentTurn:  turn,
		RoundLeader:  turn,
		History:      domain.NewCardSet(),
		LastPlaySeat: -1,
		WinnerSeat:   -1,
	}
	held := domain.NewCardSet()
	for seat := 0; seat < domain.NumSeats; seat++ {
		hand := cardsOf(t, hands[seat])
		domain.SortHand(hand)
		g.Players[seat] = domain.Player{Seat: seat, UserID: "u" + string(rune('1'+seat)), Hand: hand, HandSize: len(hand)}
		held.Add(hand...)
	}
	for _, c := range domain.NewDeck() {
		if !held.Contains(c) {
			g.History.Add(c)
		}
	}
	g.HistoryCards = g.History.Cards()
	return &Match{Game: g, Series: domain.NewSeries(domain.DefaultSeriesThreshold)}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestStartMatchDealsPrivateHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(11)), 0)
	m := &Match{}
	users := [domain.NumSeats]string{"u1", "u2", "u3", "u4"}

	events, err := svc.StartMatch(m, users)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != domain.NumSeats+1 {
		t.Fatalf("got %d events, want %d", len(events), domain.NumSeats+1)
	}

	seen := map[string]bool{}
	for seat := 0; seat < domain.NumSeats; seat++ {
		ev := events[seat]
		if ev.Kind != EventHandDealt {
			t.Fatalf("event %d kind = %s, want hand_dealt", seat, ev.Kind)
		}
		if len(ev.Recipients) != 1 || ev.Recipients[0] != users[seat] {
			t.Fatalf("hand_dealt for seat %d went to %v", seat, ev.Recipients)
		}
		if ev.ID == "" || seen[ev.ID] {
			t.Fatalf("event id %q not unique", ev.ID)
		}
		seen[ev.ID] = true
		payload := ev.Payload.(HandDealtPayload)
		if len(payload.Hand) != domain.CardsPerHand {
			t.Fatalf("seat %d dealt %d cards", seat, len(payload.Hand))
		}
	}

	started := events[domain.NumSeats]
	if started.Kind != EventMatchStarted {
		t.Fatalf("last event kind = %s, want match_started", started.Kind)
	}
	if len(started.Recipients) != 0 {
		t.Fatalf("match_started should broadcast, got recipients %v", started.Recipients)
	}
	payload := started.Payload.(MatchStartedPayload)
	if payload.FirstTurnSeat != m.Game.CurrentTurn {
		t.Fatalf("first turn seat = %d, want %d", payload.FirstTurnSeat, m.Game.CurrentTurn)
	}
}

func TestStartMatchSeedsConfiguredSeriesThreshold(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(11)), 0).WithSeriesThreshold(25)
	m := &Match{}
	if _, err := svc.StartMatch(m, [domain.NumSeats]string{"u1", "u2", "u3", "u4"}); err != nil {
		t.Fatal(err)
	}
	if m.Series.Threshold != 25 {
		t.Fatalf("series threshold = %d, want 25", m.Series.Threshold)
	}

	// A running series keeps its score across rematches.
	m.Series.Scores[2] = 7
	if _, err := svc.StartMatch(m, [domain.NumSeats]string{"u1", "u2", "u3", "u4"}); err != nil {
		t.Fatal(err)
	}
	if m.Series.Scores[2] != 7 {
		t.Fatalf("rematch reset the series score")
	}

	zero := NewService(rand.New(rand.NewSource(11)), 0).WithSeriesThreshold(0)
	m = &Match{}
	if _, err := zero.StartMatch(m, [domain.NumSeats]string{"u1", "u2", "u3", "u4"}); err != nil {
		t.Fatal(err)
	}
	if m.Series.Threshold != domain.DefaultSeriesThreshold {
		t.Fatalf("series threshold = %d, want default %d", m.Series.Threshold, domain.DefaultSeriesThreshold)
	}
}

func TestPlayEmitsCardsPlayed(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"7d 9c", "8d Jc", "6h 4c", "10s 5c"}, 0)
	now := time.Now()

	events, err := svc.PlayCards(m, 0, cardsOf(t, "7d"), m.Game.Seq, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != EventCardsPlayed {
		t.Fatalf("got events %v, want [cards_played]", kinds(events))
	}
	payload := events[0].Payload.(CardsPlayedPayload)
	if payload.Seat != 0 || payload.NextTurnSeat != 1 {
		t.Fatalf("payload = %+v", payload)
	}
	if events[0].Seq != m.Game.Seq {
		t.Fatalf("event seq = %d, game seq = %d", events[0].Seq, m.Game.Seq)
	}
}

func TestUnbeatableSingleArmsTimer(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"2s 4d", "8d Jc", "6h 4c", "10s 5c"}, 0)
	now := time.Now()

	events, err := svc.PlayCards(m, 0, cardsOf(t, "2s"), m.Game.Seq, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Kind != EventCardsPlayed || events[1].Kind != EventTimerStarted {
		t.Fatalf("got events %v, want [cards_played timer_started]", kinds(events))
	}
	payload := events[1].Payload.(TimerStartedPayload)
	if payload.TriggeringSeat != 0 || payload.TargetSeat != 1 {
		t.Fatalf("timer payload = %+v", payload)
	}
	if payload.DurationMs != DefaultAutoPassDuration.Milliseconds() {
		t.Fatalf("duration = %dms", payload.DurationMs)
	}
	if !m.Timer.Active {
		t.Fatal("timer not armed")
	}
}

func TestBeatableSingleLeavesTimerIdle(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"7d 9c", "8d Jc", "6h 4c", "10s 5c"}, 0)

	events, err := svc.PlayCards(m, 0, cardsOf(t, "9c"), m.Game.Seq, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range events {
		if ev.Kind == EventTimerStarted {
			t.Fatal("timer armed for a beatable single")
		}
	}
	if m.Timer.Active {
		t.Fatal("timer active")
	}
}

func TestManualPassByTargetCancelsTimer(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"2s 4d", "8d Jc", "6h 4c", "10s 5c"}, 0)
	now := time.Now()

	if _, err := svc.PlayCards(m, 0, cardsOf(t, "2s"), m.Game.Seq, now); err != nil {
		t.Fatal(err)
	}
	events, err := svc.PassTurn(m, 1, m.Game.Seq, now.Add(2*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Kind != EventTimerCancel || events[1].Kind != EventPlayerPassed {
		t.Fatalf("got events %v, want [timer_cancelled player_passed]", kinds(events))
	}
	cancel := events[0].Payload.(TimerCancelledPayload)
	if cancel.Reason != CancelManualPass || cancel.TargetSeat != 1 {
		t.Fatalf("cancel payload = %+v", cancel)
	}
	if m.Timer.Active {
		t.Fatal("timer still active after manual pass")
	}
}

func TestAcceptedPlayCancelsRunningTimer(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"7d 9c", "8d Jc", "6h 4c", "10s 5c"}, 0)
	now := time.Now()

	if _, err := svc.PlayCards(m, 0, cardsOf(t, "7d"), m.Game.Seq, now); err != nil {
		t.Fatal(err)
	}
	// Arm the countdown by hand to exercise the defensive teardown path.
	m.Timer.Start(now, 0, 1, *m.Game.LastPlay, time.Second)

	events, err := svc.PlayCards(m, 1, cardsOf(t, "Jc"), m.Game.Seq, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Kind != EventTimerCancel || events[1].Kind != EventCardsPlayed {
		t.Fatalf("got events %v, want [timer_cancelled cards_played]", kinds(events))
	}
	if events[0].Payload.(TimerCancelledPayload).Reason != CancelNewPlay {
		t.Fatalf("cancel reason = %s", events[0].Payload.(TimerCancelledPayload).Reason)
	}
}

func TestPassClosingTrickEmitsTrickWon(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"9d 5c 3c", "6d 7c", "8d 3h", "10d Jc"}, 0)
	now := time.Now()

	if _, err := svc.PlayCards(m, 0, cardsOf(t, "9d"), domain.VersionAny, now); err != nil {
		t.Fatal(err)
	}
	for _, seat := range []int{1, 2} {
		events, err := svc.PassTurn(m, seat, domain.VersionAny, now)
		if err != nil {
			t.Fatalf("pass seat %d: %v", seat, err)
		}
		if len(events) != 1 || events[0].Kind != EventPlayerPassed {
			t.Fatalf("seat %d got events %v", seat, kinds(events))
		}
	}
	events, err := svc.PassTurn(m, 3, domain.VersionAny, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Kind != EventPlayerPassed || events[1].Kind != EventTrickWon {
		t.Fatalf("got events %v, want [player_passed trick_won]", kinds(events))
	}
	if events[1].Payload.(TrickWonPayload).WinnerSeat != 0 {
		t.Fatalf("trick winner = %d", events[1].Payload.(TrickWonPayload).WinnerSeat)
	}
}

func TestFinalCardFinishesMatch(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"Jc", "8d 2c", "6h 4c 5d", "10s"}, 0)
	now := time.Now()

	events, err := svc.PlayCards(m, 0, cardsOf(t, "Jc"), m.Game.Seq, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Kind != EventCardsPlayed || events[1].Kind != EventMatchFinished {
		t.Fatalf("got events %v, want [cards_played match_finished]", kinds(events))
	}
	payload := events[1].Payload.(MatchFinishedPayload)
	if payload.WinnerSeat != 0 {
		t.Fatalf("winner = %d", payload.WinnerSeat)
	}
	// Seat 1 holds a 2, so its two leftovers count double.
	want := []int{0, 4, 3, 1}
	for seat, p := range payload.Penalties {
		if p != want[seat] {
			t.Fatalf("penalty[%d] = %d, want %d", seat, p, want[seat])
		}
	}
	if payload.GameOver {
		t.Fatal("series should continue below the threshold")
	}
	if got := m.Series.Scores; got != [domain.NumSeats]int{0, 4, 3, 1} {
		t.Fatalf("series scores = %v", got)
	}
}

func TestRejectedMovesEmitNoEvents(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"7d 9c", "8d Jc", "6h 4c", "10s 5c"}, 0)
	now := time.Now()

	if events, err := svc.PlayCards(m, 1, cardsOf(t, "8d"), m.Game.Seq, now); !errors.Is(err, domain.ErrNotYourTurn) || len(events) != 0 {
		t.Fatalf("out of turn: events=%v err=%v", kinds(events), err)
	}
	if events, err := svc.PlayCards(m, 0, cardsOf(t, "7d"), m.Game.Seq+5, now); !errors.Is(err, domain.ErrStaleState) || len(events) != 0 {
		t.Fatalf("stale version: events=%v err=%v", kinds(events), err)
	}
	if events, err := svc.PassTurn(m, 0, m.Game.Seq, now); !errors.Is(err, domain.ErrMustPlay) || len(events) != 0 {
		t.Fatalf("leader pass: events=%v err=%v", kinds(events), err)
	}
}

func TestReplayedSubmissionEmitsNothing(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"7d 9c", "8d Jc", "6h 4c", "10s 5c"}, 0)
	now := time.Now()
	version := m.Game.Seq

	first, err := svc.PlayCards(m, 0, cardsOf(t, "7d"), version, now)
	if err != nil {
		t.Fatal(err)
	}
	seqAfter := m.Game.Seq

	replay, err := svc.PlayCards(m, 0, cardsOf(t, "7d"), version, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(replay) != 0 {
		t.Fatalf("replay emitted %v", kinds(replay))
	}
	if m.Game.Seq != seqAfter {
		t.Fatalf("seq moved from %d to %d on replay", seqAfter, m.Game.Seq)
	}
	if len(first) == 0 {
		t.Fatal("original play emitted nothing")
	}
}

func TestSnapshotHidesOtherHands(t *testing.T) {
	svc := NewService(nil, 0)
	m := testMatch(t, [domain.NumSeats]string{"7d 9c", "8d Jc", "6h 4c", "10s 5c"}, 0)
	now := time.Now()

	if _, err := svc.PlayCards(m, 0, cardsOf(t, "7d"), m.Game.Seq, now); err != nil {
		t.Fatal(err)
	}
	snap := svc.Snapshot(m, 1, now)
	if snap.Seat != 1 || len(snap.Hand) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.CurrentTurn != 1 || snap.Seq != m.Game.Seq {
		t.Fatalf("snapshot turn/seq = %d/%d", snap.CurrentTurn, snap.Seq)
	}
	if snap.LastPlay == nil || snap.LastPlay.Type != domain.Single {
		t.Fatal("snapshot missing last play")
	}
	if snap.Timer != nil {
		t.Fatal("snapshot carries a timer while none runs")
	}
	if got := snap.HandSizes; len(got) != domain.NumSeats || got[0] != 1 {
		t.Fatalf("hand sizes = %v", got)
	}
}
