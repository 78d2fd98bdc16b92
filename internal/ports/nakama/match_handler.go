package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"time"

	"bigtwo/internal/app"
	"bigtwo/internal/bot"
	"bigtwo/internal/config"
	"bigtwo/internal/domain"
	"bigtwo/internal/storage"
	"bigtwo/internal/wire"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/redis/go-redis/v9"
)

// MatchState is the authoritative per-match state owned by the single-threaded
// match loop. Everything hanging off it is mutated only from MatchLoop and the
// join/leave callbacks, so no locking is needed.
type MatchState struct {
	Seats     [domain.NumSeats]string
	OwnerSeat int
	Tick      int64
	Presences map[string]runtime.Presence

	Service *app.Service
	Match   *app.Match
	Store   storage.MatchStore // nil when persistence is disabled
	MatchID string
	Phase   string // label phase: lobby, playing, finished

	// Bots maps an occupying user id to the agent playing for that seat.
	// Auto-filled seats carry bot ids; seats abandoned mid-game keep the
	// human id but gain an agent here.
	Bots              map[string]*bot.Agent
	BotWaitUntil      int64
	BotWaitSeat       int
	LastSoloTick      int64
	botFillTicks      int64
	botDelayTicks     int64
	lobbyTimeoutTicks int64
}

type matchLabel struct {
	Game  string `json:"game"`
	Open  int    `json:"open"`
	Phase string `json:"phase"`
}

type matchHandler struct{}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

// ticksFor converts a duration into match loop ticks at matchTickRate.
func ticksFor(d time.Duration) int64 {
	return int64(d * matchTickRate / time.Second)
}

func loadConfig(ctx context.Context, logger runtime.Logger) *config.Config {
	path := os.Getenv(envConfigPath)
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if p := env["bigtwo_config"]; p != "" {
			path = p
		}
	}
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("config %s unreadable, using defaults: %v", path, err)
		return config.Default()
	}
	return cfg
}

func (h *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := loadConfig(ctx, logger)

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	var store storage.MatchStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = storage.NewRedisStore(rdb, cfg.Redis.TTL())
	}

	state := &MatchState{
		OwnerSeat:         -1,
		Presences:         make(map[string]runtime.Presence),
		Service:           app.NewService(nil, cfg.Game.AutoPassDuration()).WithSeriesThreshold(cfg.Game.SeriesThreshold),
		Match:             &app.Match{},
		Store:             store,
		MatchID:           matchID,
		Phase:             labelPhaseLobby,
		Bots:              make(map[string]*bot.Agent),
		botFillTicks:      ticksFor(cfg.Game.BotFillDelay()),
		botDelayTicks:     ticksFor(cfg.Game.BotTurnDelay()),
		lobbyTimeoutTicks: ticksFor(cfg.Game.LobbyTimeout()),
	}
	if state.botDelayTicks < 1 {
		state.botDelayTicks = 1
	}

	// A surviving snapshot means this match id was interrupted mid-game;
	// resume it instead of opening a fresh lobby.
	if store != nil && matchID != "" {
		if m, err := store.Load(ctx, matchID); err == nil {
			resumeMatch(state, m)
			logger.Info("resumed match %s from snapshot", matchID)
		} else if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("snapshot load failed: %v", err)
		}
	}

	open := domain.NumSeats
	if state.Phase != labelPhaseLobby {
		open = 0
	}
	label, _ := json.Marshal(matchLabel{Game: "bigtwo", Open: open, Phase: state.Phase})
	return state, matchTickRate, string(label)
}

func (h *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s := state.(*MatchState)
	userID := presence.GetUserId()

	// Reconnects are always welcome, the seat is still theirs.
	if seatOf(s.Seats, userID) >= 0 {
		return s, true, ""
	}
	if s.Phase != labelPhaseLobby {
		return s, false, "match already started"
	}
	if openSeatCount(s.Seats) > 0 || replaceableBotSeat(s) >= 0 {
		return s, true, ""
	}
	return s, false, "match full"
}

func (h *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s := state.(*MatchState)

	for _, presence := range presences {
		userID := presence.GetUserId()
		s.Presences[userID] = presence

		if seat := seatOf(s.Seats, userID); seat >= 0 {
			// Rejoin: resend the private snapshot so the client can
			// rebuild its ledger view.
			if s.Match.Game != nil {
				h.sendSnapshot(s, dispatcher, logger, seat)
			}
			continue
		}

		seat := firstOpenSeat(s.Seats)
		if seat < 0 {
			if seat = replaceableBotSeat(s); seat < 0 {
				logger.Warn("join with no seat for user %s", userID)
				continue
			}
			delete(s.Bots, s.Seats[seat])
		}
		s.Seats[seat] = userID
		logger.Info("user %s seated at %d", userID, seat)
	}

	if s.OwnerSeat < 0 || !isHumanSeat(s, s.OwnerSeat) {
		s.OwnerSeat = findFirstHumanSeat(s.Seats)
	}
	h.updateLabel(s, dispatcher, logger)
	h.broadcastLobbyState(s, dispatcher, logger)
	return s
}

func (h *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s := state.(*MatchState)

	for _, presence := range presences {
		userID := presence.GetUserId()
		delete(s.Presences, userID)

		seat := seatOf(s.Seats, userID)
		if seat < 0 {
			continue
		}
		if s.Phase == labelPhaseLobby {
			s.Seats[seat] = ""
			logger.Info("user %s left seat %d", userID, seat)
		} else {
			// Mid-game the seat keeps playing: an agent takes over so
			// the remaining players are not stuck waiting on a ghost.
			if _, ok := s.Bots[userID]; !ok {
				s.Bots[userID] = takeoverAgent(userID)
				logger.Info("user %s disconnected, seat %d handed to a bot", userID, seat)
			}
		}
	}

	if !hasConnectedHuman(s) {
		logger.Info("no humans remain, terminating match")
		if s.Store != nil {
			if err := s.Store.Delete(ctx, s.MatchID); err != nil {
				logger.Warn("snapshot delete failed: %v", err)
			}
		}
		return nil
	}

	if s.OwnerSeat < 0 || !isHumanSeat(s, s.OwnerSeat) {
		s.OwnerSeat = findFirstHumanSeat(s.Seats)
	}
	h.updateLabel(s, dispatcher, logger)
	h.broadcastLobbyState(s, dispatcher, logger)
	return s
}

func (h *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s := state.(*MatchState)
	s.Tick = tick
	now := time.Now()

	// A lobby nobody starts eventually shuts down.
	if s.Phase == labelPhaseLobby && s.lobbyTimeoutTicks > 0 && tick >= s.lobbyTimeoutTicks {
		logger.Info("lobby idle timeout, terminating match")
		return nil
	}

	for _, msg := range messages {
		h.handleMessage(ctx, s, dispatcher, logger, msg, now)
	}

	// Drive the auto-pass countdown. A failed forced pass is logged and
	// dropped; the timer stays consumed and is never re-armed for it.
	if s.Phase == labelPhasePlaying {
		events, err := s.Service.Tick(s.Match, now)
		if err != nil {
			logger.Error("%v", err)
		}
		if len(events) > 0 {
			h.broadcastEvents(s, dispatcher, logger, events)
			h.afterMove(ctx, s, dispatcher, logger, events)
		}
	}

	h.processBots(ctx, s, dispatcher, logger, now)
	return s
}

func (h *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	s := state.(*MatchState)
	if s.Store != nil && s.Match.Game != nil && s.Phase == labelPhasePlaying {
		if err := s.Store.Save(ctx, s.MatchID, s.Match); err != nil {
			logger.Warn("snapshot save on terminate failed: %v", err)
		}
	}
	return s
}

func (h *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// -- message dispatch --------------------------------------------------------

func (h *matchHandler) handleMessage(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, now time.Time) {
	userID := msg.GetUserId()
	sender := s.Presences[userID]

	switch msg.GetOpCode() {
	case wire.OpStartMatch:
		h.handleStartMatch(ctx, s, dispatcher, logger, userID, sender)
	case wire.OpPlayCards:
		var req wire.PlayRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			h.sendError(s, dispatcher, logger, sender, wire.CodeInternal, "malformed play request")
			return
		}
		h.handlePlayCards(ctx, s, dispatcher, logger, userID, sender, req, now)
	case wire.OpPassTurn:
		var req wire.PassRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			h.sendError(s, dispatcher, logger, sender, wire.CodeInternal, "malformed pass request")
			return
		}
		h.handlePassTurn(ctx, s, dispatcher, logger, userID, sender, req, now)
	case wire.OpRequestState:
		h.handleRequestState(s, dispatcher, logger, userID)
	case wire.OpNewMatch:
		h.handleNewMatch(ctx, s, dispatcher, logger, userID, sender)
	default:
		logger.Warn("unknown opcode %d from user %s", msg.GetOpCode(), userID)
	}
}

func (h *matchHandler) handleStartMatch(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, sender runtime.Presence) {
	if s.Phase != labelPhaseLobby {
		h.sendError(s, dispatcher, logger, sender, wire.CodeInternal, "match already started")
		return
	}
	if seatOf(s.Seats, userID) != s.OwnerSeat {
		h.sendError(s, dispatcher, logger, sender, wire.CodeInternal, "only the owner can start the match")
		return
	}
	if occupiedSeatCount(s.Seats) < app.MinPlayersToStartGame {
		h.sendError(s, dispatcher, logger, sender, wire.CodeInternal, "not enough players")
		return
	}
	h.startMatch(ctx, s, dispatcher, logger)
}

func (h *matchHandler) startMatch(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	h.fillEmptySeats(s)

	events, err := s.Service.StartMatch(s.Match, s.Seats)
	if err != nil {
		logger.Error("start match: %v", err)
		return
	}
	s.Phase = labelPhasePlaying
	s.BotWaitUntil = 0
	h.broadcastEvents(s, dispatcher, logger, events)
	h.updateLabel(s, dispatcher, logger)
	h.persist(ctx, s, logger)
	logger.Info("match started, opener seat %d", s.Match.Game.CurrentTurn)
}

func (h *matchHandler) handlePlayCards(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, sender runtime.Presence, req wire.PlayRequest, now time.Time) {
	seat := seatOf(s.Seats, userID)
	if seat < 0 || s.Match.Game == nil {
		h.sendError(s, dispatcher, logger, sender, wire.CodeNotPlaying, "no seat in this match")
		return
	}
	events, err := s.Service.PlayCards(s.Match, seat, req.Cards, req.Version, now)
	if err != nil {
		h.sendError(s, dispatcher, logger, sender, wire.ErrorCode(err), err.Error())
		return
	}
	h.broadcastEvents(s, dispatcher, logger, events)
	h.afterMove(ctx, s, dispatcher, logger, events)
}

func (h *matchHandler) handlePassTurn(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, sender runtime.Presence, req wire.PassRequest, now time.Time) {
	seat := seatOf(s.Seats, userID)
	if seat < 0 || s.Match.Game == nil {
		h.sendError(s, dispatcher, logger, sender, wire.CodeNotPlaying, "no seat in this match")
		return
	}
	events, err := s.Service.PassTurn(s.Match, seat, req.Version, now)
	if err != nil {
		h.sendError(s, dispatcher, logger, sender, wire.ErrorCode(err), err.Error())
		return
	}
	h.broadcastEvents(s, dispatcher, logger, events)
	h.afterMove(ctx, s, dispatcher, logger, events)
}

func (h *matchHandler) handleRequestState(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	seat := seatOf(s.Seats, userID)
	if seat < 0 {
		return
	}
	if s.Match.Game == nil {
		h.broadcastLobbyState(s, dispatcher, logger)
		return
	}
	h.sendSnapshot(s, dispatcher, logger, seat)
}

func (h *matchHandler) handleNewMatch(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, sender runtime.Presence) {
	if s.Phase != labelPhaseFinished {
		h.sendError(s, dispatcher, logger, sender, wire.CodeInternal, "no finished match to continue")
		return
	}
	if seatOf(s.Seats, userID) != s.OwnerSeat {
		h.sendError(s, dispatcher, logger, sender, wire.CodeInternal, "only the owner can start the next match")
		return
	}
	if s.Match.Series != nil && s.Match.Series.GameOver() {
		// Threshold crossed, the series is done. A new one begins.
		s.Match = &app.Match{}
	}
	h.startMatch(ctx, s, dispatcher, logger)
}

// afterMove persists the accepted move and reacts to a finished match.
func (h *matchHandler) afterMove(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	h.persist(ctx, s, logger)
	for _, ev := range events {
		if ev.Kind == app.EventMatchFinished {
			s.Phase = labelPhaseFinished
			s.BotWaitUntil = 0
			h.updateLabel(s, dispatcher, logger)
			if s.Store != nil {
				if err := s.Store.Delete(ctx, s.MatchID); err != nil {
					logger.Warn("snapshot delete failed: %v", err)
				}
			}
			return
		}
	}
}

func (h *matchHandler) persist(ctx context.Context, s *MatchState, logger runtime.Logger) {
	if s.Store == nil || s.Match.Game == nil {
		return
	}
	if err := s.Store.Save(ctx, s.MatchID, s.Match); err != nil {
		logger.Warn("snapshot save failed: %v", err)
	}
}

// -- bots --------------------------------------------------------------------

func (h *matchHandler) processBots(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Time) {
	if s.Phase == labelPhaseLobby {
		h.autoFillLobby(s, dispatcher, logger)
		return
	}
	if s.Phase != labelPhasePlaying || s.Match.Game == nil {
		return
	}

	game := s.Match.Game
	seat := game.CurrentTurn
	agent, ok := s.Bots[s.Seats[seat]]
	if !ok {
		s.BotWaitUntil = 0
		return
	}
	if s.BotWaitUntil == 0 || s.BotWaitSeat != seat {
		// Short think delay so bot moves read as deliberate.
		s.BotWaitUntil = s.Tick + s.botDelayTicks
		s.BotWaitSeat = seat
		return
	}
	if s.Tick < s.BotWaitUntil {
		return
	}
	s.BotWaitUntil = 0

	move, err := agent.Play(game, seat)
	if err != nil {
		// Play already degraded the move to a pass.
		logger.Warn("bot %s decision failed: %v", agent.Name, err)
	}
	version := game.Seq
	var events []app.Event
	if move.Pass {
		events, err = s.Service.PassTurn(s.Match, seat, version, now)
	} else {
		events, err = s.Service.PlayCards(s.Match, seat, move.Cards, version, now)
	}
	if err != nil {
		logger.Warn("bot %s move rejected: %v", agent.Name, err)
		return
	}
	h.broadcastEvents(s, dispatcher, logger, events)
	h.afterMove(ctx, s, dispatcher, logger, events)
}

// autoFillLobby seats bots opposite a lone human once they have waited long
// enough, leaving one seat open for a late joiner.
func (h *matchHandler) autoFillLobby(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	humans := 0
	for seat := range s.Seats {
		if isHumanSeat(s, seat) {
			humans++
		}
	}
	if humans != 1 {
		s.LastSoloTick = 0
		return
	}
	if s.LastSoloTick == 0 {
		s.LastSoloTick = s.Tick
		return
	}
	if s.Tick-s.LastSoloTick < s.botFillTicks {
		return
	}
	s.LastSoloTick = 0

	added := 0
	for openSeatCount(s.Seats) > 1 {
		if !seatBot(s) {
			return
		}
		added++
	}
	if added > 0 {
		logger.Info("auto-filled %d bot seats", added)
		h.updateLabel(s, dispatcher, logger)
		h.broadcastLobbyState(s, dispatcher, logger)
	}
}

func (h *matchHandler) fillEmptySeats(s *MatchState) {
	for openSeatCount(s.Seats) > 0 {
		if !seatBot(s) {
			return
		}
	}
}

// seatBot places one bot on the first open seat, skipping identity indexes
// already in use so a replaced bot never resurfaces under a seated id.
func seatBot(s *MatchState) bool {
	var identity bot.BotIdentity
	for index := 0; ; index++ {
		identity = bot.GetBotIdentity(index)
		if seatOf(s.Seats, identity.UserID) < 0 {
			break
		}
	}
	brain, err := bot.NewBrain(bot.LevelOf(identity))
	if err != nil {
		return false
	}
	seat := firstOpenSeat(s.Seats)
	if seat < 0 {
		return false
	}
	s.Seats[seat] = identity.UserID
	s.Bots[identity.UserID] = bot.NewAgent(identity.UserID, identity.DisplayName, brain)
	return true
}

// resumeMatch restores an interrupted match from its snapshot. Bot seats get
// their agents back, so play continues as soon as the loop ticks again.
func resumeMatch(s *MatchState, m *app.Match) {
	s.Match = m
	s.Phase = labelPhasePlaying
	for seat, p := range m.Game.Players {
		s.Seats[seat] = p.UserID
		if identity, ok := bot.IdentityOf(p.UserID); ok {
			if brain, err := bot.NewBrain(bot.LevelOf(identity)); err == nil {
				s.Bots[identity.UserID] = bot.NewAgent(identity.UserID, identity.DisplayName, brain)
			}
		}
	}
	s.OwnerSeat = findFirstHumanSeat(s.Seats)
}

func takeoverAgent(userID string) *bot.Agent {
	brain, _ := bot.NewBrain(bot.BotLevelStandard)
	return bot.NewAgent(userID, "stand-in", brain)
}

// -- outbound ----------------------------------------------------------------

// broadcastEvents encodes each event and delivers it either to everyone or,
// when Recipients is set, only to those recipients that are still connected.
// A private event with no connected recipient is dropped, never widened.
func (h *matchHandler) broadcastEvents(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		data, err := wire.EncodeEvent(ev)
		if err != nil {
			logger.Error("encode %s: %v", ev.Kind, err)
			continue
		}

		var targets []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, userID := range ev.Recipients {
				if p, ok := s.Presences[userID]; ok {
					targets = append(targets, p)
				}
			}
			if len(targets) == 0 {
				continue
			}
		}
		if err := dispatcher.BroadcastMessage(wire.OpEvent, data, targets, nil, true); err != nil {
			logger.Error("broadcast %s: %v", ev.Kind, err)
		}
	}
}

func (h *matchHandler) sendSnapshot(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	snapshot := s.Service.Snapshot(s.Match, seat, time.Now())
	ev := app.Event{
		ID:         uuid.NewString(),
		Seq:        snapshot.Seq,
		Kind:       app.EventMatchState,
		Payload:    snapshot,
		Recipients: []string{s.Seats[seat]},
	}
	h.broadcastEvents(s, dispatcher, logger, []app.Event{ev})
}

// broadcastLobbyState shares the roster while no game is running.
func (h *matchHandler) broadcastLobbyState(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if s.Phase != labelPhaseLobby {
		return
	}
	ev := app.Event{
		ID:   uuid.NewString(),
		Kind: app.EventMatchState,
		Payload: app.MatchStatePayload{
			Phase:       domain.Phase(labelPhaseLobby),
			Players:     s.Seats[:],
			Seat:        -1,
			CurrentTurn: -1,
		},
	}
	h.broadcastEvents(s, dispatcher, logger, []app.Event{ev})
}

func (h *matchHandler) sendError(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, target runtime.Presence, code, message string) {
	if target == nil {
		return
	}
	ev := app.Event{
		ID:      uuid.NewString(),
		Kind:    app.EventError,
		Payload: app.ErrorPayload{Code: code, Message: message},
	}
	data, err := wire.EncodeEvent(ev)
	if err != nil {
		logger.Error("encode error event: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(wire.OpEvent, data, []runtime.Presence{target}, nil, true); err != nil {
		logger.Error("send error event: %v", err)
	}
}

func (h *matchHandler) updateLabel(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	open := 0
	if s.Phase == labelPhaseLobby {
		open = openSeatCount(s.Seats)
	}
	label, err := json.Marshal(matchLabel{Game: "bigtwo", Open: open, Phase: s.Phase})
	if err != nil {
		logger.Error("marshal label: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(label)); err != nil {
		logger.Error("label update: %v", err)
	}
}

// -- seat helpers ------------------------------------------------------------

func seatOf(seats [domain.NumSeats]string, userID string) int {
	for seat, occupant := range seats {
		if occupant != "" && occupant == userID {
			return seat
		}
	}
	return -1
}

func firstOpenSeat(seats [domain.NumSeats]string) int {
	for seat, occupant := range seats {
		if occupant == "" {
			return seat
		}
	}
	return -1
}

func openSeatCount(seats [domain.NumSeats]string) int {
	open := 0
	for _, occupant := range seats {
		if occupant == "" {
			open++
		}
	}
	return open
}

func occupiedSeatCount(seats [domain.NumSeats]string) int {
	return domain.NumSeats - openSeatCount(seats)
}

func findFirstHumanSeat(seats [domain.NumSeats]string) int {
	for seat, occupant := range seats {
		if occupant != "" && !bot.IsBot(occupant) {
			return seat
		}
	}
	return -1
}

// isHumanSeat reports whether the seat is held by a human still playing for
// themselves. A seat handed to a takeover agent no longer counts.
func isHumanSeat(s *MatchState, seat int) bool {
	occupant := s.Seats[seat]
	if occupant == "" || bot.IsBot(occupant) {
		return false
	}
	_, takenOver := s.Bots[occupant]
	return !takenOver
}

// replaceableBotSeat finds an auto-filled bot a late human may displace.
// Only lobby bots are replaceable; takeover agents keep their seats.
func replaceableBotSeat(s *MatchState) int {
	if s.Phase != labelPhaseLobby {
		return -1
	}
	for seat, occupant := range s.Seats {
		if bot.IsBot(occupant) {
			return seat
		}
	}
	return -1
}

func hasConnectedHuman(s *MatchState) bool {
	for userID := range s.Presences {
		if !bot.IsBot(userID) {
			return true
		}
	}
	return false
}
