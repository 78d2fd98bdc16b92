package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bigtwo/internal/app"
	"bigtwo/internal/bot"
	"bigtwo/internal/client"
	"bigtwo/internal/config"
	"bigtwo/internal/domain"
	"bigtwo/internal/sync"
	"bigtwo/internal/wire"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	serverURL := flag.String("server", "", "websocket URL, overrides the config")
	level := flag.String("level", "standard", "bot strategy: greedy or standard")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Printf("config load failed, using defaults: %v", err)
		} else {
			cfg = loaded
		}
	}
	url := cfg.Client.ServerURL
	if *serverURL != "" {
		url = *serverURL
	}

	brain, err := bot.NewBrain(parseLevel(*level))
	if err != nil {
		log.Fatalf("bot level: %v", err)
	}

	r := newRunner(url, brain, cfg)
	if err := r.connect(); err != nil {
		log.Fatalf("connect %s: %v", url, err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("shutting down")
		r.close()
		os.Exit(0)
	}()

	r.run()
}

func parseLevel(s string) bot.BotLevel {
	if s == "greedy" {
		return bot.BotLevelGreedy
	}
	return bot.BotLevelStandard
}

// runner drives one bot seat from the authoritative event stream: it keeps a
// reconciled local view, asks the brain for a move when the turn comes
// around, and submits it optimistically.
type runner struct {
	conn   *client.Client
	submit *client.Submitter
	syn    *sync.Synchronizer
	brain  bot.Brain
	seat   int
}

func newRunner(url string, brain bot.Brain, cfg *config.Config) *runner {
	conn := client.NewClient(url)
	submit := client.NewSubmitter(conn).
		WithRetry(cfg.Client.SubmitAttempts, time.Duration(cfg.Client.SubmitBackoff)*time.Millisecond)
	return &runner{conn: conn, submit: submit, brain: brain, seat: -1}
}

func (r *runner) connect() error {
	if err := r.conn.Connect(); err != nil {
		return err
	}
	// Ask for a snapshot so a mid-match join starts from truth.
	return r.conn.Send(wire.OpRequestState, nil)
}

func (r *runner) close() {
	r.conn.Close()
}

func (r *runner) run() {
	for {
		ev, err := r.conn.Receive(time.Second)
		if err != nil {
			if !r.conn.IsConnected() {
				log.Println("connection lost for good")
				return
			}
			continue
		}
		r.handleEvent(ev)

		if r.syn == nil {
			continue
		}
		if r.syn.NeedsResync() {
			if err := r.conn.Send(wire.OpRequestState, nil); err != nil {
				log.Printf("resync request failed: %v", err)
			}
			continue
		}
		r.maybeMove()
	}
}

func (r *runner) handleEvent(ev app.Event) {
	switch p := ev.Payload.(type) {
	case app.MatchStatePayload:
		if r.syn == nil && p.Seat >= 0 {
			r.seat = p.Seat
			r.syn = sync.New(p.Seat)
			log.Printf("seated at %d", p.Seat)
		}
	case app.ErrorPayload:
		log.Printf("rejected: %s (%s)", p.Message, p.Code)
		r.submit.Fail()
		if r.syn != nil {
			r.syn.RollbackPrediction()
		}
		return
	case app.CardsPlayedPayload, app.PlayerPassedPayload:
		r.submit.Resolve(ev.Seq)
	case app.MatchFinishedPayload:
		log.Printf("match finished, winner seat %d", p.WinnerSeat)
	}
	if r.syn != nil {
		r.syn.Reconcile(ev)
	}
}

func (r *runner) maybeMove() {
	if r.submit.State() == client.StateSubmitting {
		return
	}
	view := r.syn.View()
	if view.CurrentTurn != r.seat {
		return
	}
	if view.Phase != domain.PhaseFirstPlay && view.Phase != domain.PhasePlaying {
		return
	}

	move, err := r.brain.Decide(ledgerView(view))
	if err != nil {
		log.Printf("decision failed, passing: %v", err)
		move = bot.Move{Pass: true}
	}

	if err := r.syn.ApplyLocalPrediction(move.Pass, move.Cards); err != nil {
		return
	}
	if move.Pass {
		err = r.submit.SubmitPass(view.Seq)
	} else {
		err = r.submit.SubmitPlay(move.Cards, view.Seq)
	}
	if err != nil {
		log.Printf("submit failed: %v", err)
		r.syn.RollbackPrediction()
	}
}

// ledgerView projects the reconciled view into the decision interface.
func ledgerView(v sync.View) bot.LedgerView {
	lv := bot.LedgerView{
		Seat:         v.Seat,
		Hand:         v.Hand,
		LastPlay:     v.LastPlay,
		LastPlaySeat: v.LastPlaySeat,
		HandSizes:    v.HandSizes,
		FirstPlay:    v.Phase == domain.PhaseFirstPlay,
		Seq:          v.Seq,
	}
	lv.MustPlay = v.LastPlay == nil || mustPlay(v)
	return lv
}

// mustPlay mirrors the server's one-card-left rule so the bot never submits
// a pass the validator is bound to refuse.
func mustPlay(v sync.View) bool {
	if v.LastPlay == nil || v.LastPlay.Type != domain.Single {
		return false
	}
	if v.HandSizes[domain.NextSeat(v.Seat)] != 1 {
		return false
	}
	for _, c := range v.Hand {
		if domain.CardPower(c) > v.LastPlay.Strength {
			return true
		}
	}
	return false
}
