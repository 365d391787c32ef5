package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"

	"github.com/heroiclabs/nakama-common/runtime"

	"genso/internal/app"
	"genso/internal/bot"
	"genso/internal/domain"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats          [app.MaxPlayers]string      `json:"seats"` // user IDs, empty string means open seat
	OwnerSeat      int                         `json:"owner_seat"`
	Tick           int64                       `json:"tick"`
	Presences      map[string]runtime.Presence `json:"-"`
	App            *app.Service                `json:"-"`
	Game           *domain.Game                `json:"-"` // nil while the match sits in the lobby
	Agents         map[string]*bot.Agent       `json:"-"`
	Scores         map[string]int              `json:"scores"` // running totals across games

	BotsEnabled    bool                        `json:"bots_enabled"`
	BotMinDelay    int                         `json:"bot_min_delay"` // seconds a bot waits before acting
	BotMaxDelay    int                         `json:"bot_max_delay"`
	AutoFillDelay  int                         `json:"auto_fill_delay"` // seconds before a lone human gets a bot
	BotWaitUntil   int64                       `json:"bot_wait_until"`
	LoneHumanSince int64                       `json:"lone_human_since"`
}

func (ms *MatchState) openSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) occupiedSeatCount() int {
	return len(ms.Seats) - ms.openSeatCount()
}

func (ms *MatchState) humanCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserID(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

func isBotUserID(userID string) bool {
	_, ok := bot.IdentityByID(userID)
	return ok
}

func findFirstHumanSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" && !isBotUserID(userID) {
			return i
		}
	}
	return -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: could not load bot identities: %v", err)
	}

	state := &MatchState{
		OwnerSeat:   -1,
		Presences:   make(map[string]runtime.Presence),
		App:         app.NewService(nil),
		Agents:      make(map[string]*bot.Agent),
		Scores:      make(map[string]int),
		BotsEnabled: true,
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["genso_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["genso_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["genso_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["genso_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.AutoFillDelay = i
		}
	}
	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay + 2
	}
	if state.AutoFillDelay == 0 {
		state.AutoFillDelay = 5
	}

	labelBytes, err := json.Marshal(matchLabel{Open: state.openSeatCount(), Game: "genso", Phase: "lobby"})
	if err != nil {
		logger.Error("MatchInit: failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat or, before a game starts, a bot
	// that can give its seat up.
	if matchState.openSeatCount() <= 0 {
		hasBot := false
		if matchState.Game == nil {
			for _, seat := range matchState.Seats {
				if isBotUserID(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}
		if !assigned && matchState.Game == nil {
			for i, seatUserID := range matchState.Seats {
				if isBotUserID(seatUserID) {
					logger.Info("MatchJoin: replacing bot %s with %s in seat %d", seatUserID, p.GetUserId(), i)
					delete(matchState.Agents, seatUserID)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: user %s joined but no seat was available", p.GetUserId())
		}
	}

	if matchState.OwnerSeat < 0 || isBotUserID(matchState.Seats[matchState.OwnerSeat]) || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		if i := matchState.seatOf(p.GetUserId()); i >= 0 {
			matchState.Seats[i] = ""
			logger.Debug("MatchLeave: user %s left, seat %d freed", p.GetUserId(), i)
		}
	}

	matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	if matchState.OwnerSeat < 0 {
		logger.Info("MatchLeave: terminating match with no humans")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(matchState, dispatcher, logger, msg)
		case OpDrawCard:
			mh.handleDraw(matchState, dispatcher, logger, msg)
		case OpDiscardCard:
			mh.handleDiscard(matchState, dispatcher, logger, msg)
		case OpRequestNewGame:
			mh.handleRequestNewGame(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode %d from %s", msg.GetOpCode(), msg.GetUserId())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Give a lone human a bot opponent after the auto-fill delay.
	if state.Game == nil {
		if state.humanCount() == 1 && state.occupiedSeatCount() < app.MinPlayers {
			if state.LoneHumanSince == 0 {
				state.LoneHumanSince = state.Tick
			}
			if state.Tick-state.LoneHumanSince >= int64(state.AutoFillDelay) {
				state.LoneHumanSince = 0
				mh.fillBotSeats(state, dispatcher, logger)
			}
		} else {
			state.LoneHumanSince = 0
		}
		return
	}

	if state.Game.Phase != domain.PhasePlaying {
		return
	}

	currentID := state.Game.CurrentPlayer().ID
	agent, isBot := state.Agents[currentID]
	if !isBot {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	events, err := agent.PlayTurn(state.App, state.Game)
	if err != nil {
		logger.Error("processBots: bot %s failed its turn: %v", currentID, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) fillBotSeats(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	rng := rand.New(rand.NewSource(state.Tick))
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		if state.occupiedSeatCount() >= app.MinPlayers {
			break
		}
		identity := bot.PickIdentity(rng)
		if state.seatOf(identity.ID) >= 0 {
			continue
		}
		state.Seats[i] = identity.ID
		state.Agents[identity.ID] = bot.NewAgent(identity.ID, identity.DisplayName, nil)
		logger.Info("processBots: added bot %s to seat %d", identity.DisplayName, i)
	}
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastSnapshot(state, dispatcher, logger)
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.seatOf(senderID) != state.OwnerSeat {
		logger.Warn("StartGame: user %s is not the owner", senderID)
		return
	}
	if state.Game != nil && state.Game.Phase == domain.PhasePlaying {
		logger.Warn("StartGame: game already running")
		return
	}

	specs := make([]app.PlayerSpec, 0, len(state.Seats))
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		if identity, ok := bot.IdentityByID(userID); ok {
			specs = append(specs, app.PlayerSpec{ID: userID, Name: identity.DisplayName, Score: state.Scores[userID]})
			continue
		}
		name := userID
		if p, ok := state.Presences[userID]; ok {
			name = p.GetUsername()
		}
		specs = append(specs, app.PlayerSpec{ID: userID, Name: name, IsHuman: true, Score: state.Scores[userID]})
	}

	game, events, err := state.App.NewGame(specs)
	if err != nil {
		logger.Warn("StartGame: cannot start: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Game = game
	state.BotWaitUntil = 0
	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	logger.Info("StartGame: game started with %d players", len(specs))
}

func (mh *matchHandler) handleDraw(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleDraw: game not started")
		return
	}
	if state.Game.CurrentPlayer().ID != senderID {
		mh.sendError(state, dispatcher, logger, senderID, 403, "not your turn")
		return
	}

	var request drawRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			logger.Warn("handleDraw: bad request from %s: %v", senderID, err)
			return
		}
	}

	events, err := state.App.Draw(state.Game, request.FromDiscard)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDiscard(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleDiscard: game not started")
		return
	}
	if state.Game.CurrentPlayer().ID != senderID {
		mh.sendError(state, dispatcher, logger, senderID, 403, "not your turn")
		return
	}

	var request discardRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleDiscard: bad request from %s: %v", senderID, err)
		return
	}

	events, err := state.App.Discard(state.Game, request.CardIndex)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleRequestNewGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.seatOf(senderID) != state.OwnerSeat {
		logger.Warn("RequestNewGame: user %s is not the owner", senderID)
		return
	}
	if state.Game != nil && state.Game.Phase == domain.PhasePlaying {
		mh.sendError(state, dispatcher, logger, senderID, 400, "game still in progress")
		return
	}

	state.recordScores()
	state.Game = nil
	state.BotWaitUntil = 0
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastSnapshot(state, dispatcher, logger)
}

// recordScores copies the current game's running totals into the match
// ledger so the next game's seats start from them.
func (ms *MatchState) recordScores() {
	if ms.Game == nil {
		return
	}
	if ms.Scores == nil {
		ms.Scores = make(map[string]int)
	}
	for _, pl := range ms.Game.Players {
		ms.Scores[pl.ID] = pl.Score
	}
}

// broadcastEvent converts an app event to its wire form and dispatches it.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventGameStarted:
		opCode = OpGameStarted
		p := ev.Payload.(app.GameStartedPayload)
		payload = gameStartedEvent{
			Phase:             string(p.Phase),
			PlayerIDs:         p.PlayerIDs,
			FirstTurnPlayerID: p.FirstTurnPlayerID,
		}
	case app.EventHandDealt:
		opCode = OpHandDealt
		p := ev.Payload.(app.HandDealtPayload)
		payload = handDealtEvent{PlayerID: p.PlayerID, Hand: p.Hand}
	case app.EventCardDrawn:
		opCode = OpCardDrawn
		p := ev.Payload.(app.CardDrawnPayload)
		card := p.Card
		payload = cardDrawnEvent{PlayerID: p.PlayerID, FromDiscard: p.FromDiscard, Card: &card}
	case app.EventCardDiscarded:
		opCode = OpCardDiscarded
		p := ev.Payload.(app.CardDiscardedPayload)
		payload = cardDiscardedEvent{
			PlayerID:        p.PlayerID,
			Card:            p.Card,
			NextPlayerIndex: p.NextPlayerIndex,
			Turn:            p.Turn,
		}
	case app.EventGameEnded:
		opCode = OpGameEnded
		p := ev.Payload.(app.GameEndedPayload)
		payload = gameEndedEvent{
			WinnerID:   p.WinnerID,
			WinnerName: p.WinnerName,
			Matches:    p.Matches,
			Total:      p.Total,
		}
		state.recordScores()
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// A targeted event whose recipients are all offline (bots included)
	// must not fall back to a broadcast.
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(gameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("failed to marshal error event: %v", err)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var players []playerState
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}

		displayName := userID
		isBot := false
		if p, ok := state.Presences[userID]; ok {
			displayName = p.GetUsername()
		} else if identity, ok := bot.IdentityByID(userID); ok {
			displayName = identity.DisplayName
			isBot = true
		}

		cardsInHand := 0
		score := state.Scores[userID]
		if state.Game != nil {
			for _, pl := range state.Game.Players {
				if pl.ID == userID {
					cardsInHand = len(pl.Hand)
					score = pl.Score
					break
				}
			}
		}

		players = append(players, playerState{
			UserID:      userID,
			Seat:        i,
			IsOwner:     i == state.OwnerSeat,
			IsBot:       isBot,
			DisplayName: displayName,
			CardsInHand: cardsInHand,
			Score:       score,
		})
	}

	bytes, err := json.Marshal(matchSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		Players:   players,
	})
	if err != nil {
		logger.Error("failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchSnapshot, bytes, nil, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.Game != nil {
		switch state.Game.Phase {
		case domain.PhasePlaying:
			phase = "playing"
		case domain.PhaseEnded:
			phase = "ended"
		}
	}

	labelBytes, err := json.Marshal(matchLabel{Open: state.openSeatCount(), Game: "genso", Phase: phase})
	if err != nil {
		logger.Error("updateLabel: failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
