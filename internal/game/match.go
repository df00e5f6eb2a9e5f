// internal/game/match.go
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/SuriyaDcruze/UnoBlitz/engine"
	"github.com/SuriyaDcruze/UnoBlitz/internal/cache"
	"github.com/SuriyaDcruze/UnoBlitz/internal/database"
	"github.com/SuriyaDcruze/UnoBlitz/internal/models"
)

// Service-level errors surfaced to clients as error events.
var (
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInGame = errors.New("game already in progress")
	ErrNotSeated     = errors.New("player is not seated in this game")
	ErrNoColor       = errors.New("a color must be chosen for a wild card")
)

// OnMatchEndFunc is executed when a match reaches a terminal state with a
// winner. Void matches (too few participants left) do not trigger it.
type OnMatchEndFunc func(result models.MatchResult)

// Match binds one engine game to service identities: the engine works in
// seat indexes and card identities, the service speaks player and card
// UUIDs. The mapping is fixed at match creation and never changes.
type Match struct {
	RoomID string

	Engine engine.GameState // Authoritative game state.
	Seats  []uuid.UUID      // Seat index -> player UUID, parallel to Engine.Players.
	Names  map[uuid.UUID]string

	tokens  [engine.DeckSize]uuid.UUID // Card identity -> wire UUID.
	byToken map[uuid.UUID]engine.CardID

	CreatedAt time.Time
	startedAt time.Time

	actionIndex int

	Mu sync.Mutex // Protects all of the above.

	// Communication callbacks, set by the room layer.
	BroadcastFn           func(ev GameEvent)
	BroadcastToPlayerFn   func(playerID uuid.UUID, ev GameEvent)
	BroadcastToWatchersFn func(ev GameEvent)
	OnMatchEnd            OnMatchEndFunc
}

// NewMatch creates an idle match for a room. Players join via AddPlayer
// and the match begins on Start.
func NewMatch(roomID string) *Match {
	m := &Match{
		RoomID:    roomID,
		Engine:    engine.NewGame(uint64(time.Now().UnixNano()), engine.DefaultRules()),
		Names:     make(map[uuid.UUID]string),
		CreatedAt: time.Now(),
	}
	m.initTokens()
	return m
}

// AddPlayer seats a player. Fails once the match has started or the table
// is full.
func (m *Match) AddPlayer(playerID uuid.UUID, name string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Engine.IsStarted() {
		return ErrAlreadyInGame
	}
	if _, ok := m.Engine.AddPlayer(); !ok {
		return ErrRoomFull
	}
	m.Seats = append(m.Seats, playerID)
	m.Names[playerID] = name
	m.logAction(playerID, "player_join", map[string]interface{}{"name": name})
	return nil
}

// RemovePlayer unseats a player, forming-phase or mid-match. A mid-match
// departure that leaves fewer than the minimum participants voids the
// match: it ends with no winner and nothing is persisted.
func (m *Match) RemovePlayer(playerID uuid.UUID) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	seat := m.seatOf(playerID)
	if seat < 0 {
		return
	}
	wasTerminal := m.Engine.IsTerminal()
	if !m.Engine.RemovePlayer(seat) {
		return
	}
	m.Seats = append(m.Seats[:seat], m.Seats[seat+1:]...)
	delete(m.Names, playerID)
	m.logAction(playerID, "player_leave", nil)

	m.broadcastSyncToAll()
	if !wasTerminal && m.Engine.IsTerminal() {
		// Voided: the departure dropped the match below the minimum.
		log.Infof("room %s: match voided, too few participants", m.RoomID)
		state := m.projectedFor(uuid.Nil)
		m.fireEvent(GameEvent{Type: EventGameEnded, RoomID: m.RoomID, State: &state})
	}
}

// Start begins the match: shuffle, deal, flip. Any seated player may
// trigger it. Each player receives a game_started event carrying their
// own view.
func (m *Match) Start(playerID uuid.UUID) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.seatOf(playerID) < 0 {
		return ErrNotSeated
	}
	if err := m.Engine.Start(); err != nil {
		return err
	}
	m.startedAt = time.Now()
	m.logAction(playerID, "game_start", nil)
	log.Infof("room %s: match started with %d players", m.RoomID, m.Engine.NumPlayers())

	for _, pid := range m.Seats {
		state := m.projectedFor(pid)
		m.fireEventToPlayer(pid, GameEvent{Type: EventGameStarted, RoomID: m.RoomID, State: &state})
	}
	if m.BroadcastToWatchersFn != nil {
		state := m.projectedFor(uuid.Nil)
		m.BroadcastToWatchersFn(GameEvent{Type: EventGameStarted, RoomID: m.RoomID, State: &state})
	}
	return nil
}

// PlayCard validates and applies a play on behalf of a player, then
// broadcasts each participant's updated view. A terminal play finishes
// the match.
func (m *Match) PlayCard(playerID uuid.UUID, cardToken uuid.UUID, chosenColor string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	seat := m.seatOf(playerID)
	if seat < 0 {
		return ErrNotSeated
	}
	id, err := m.cardIDFromToken(cardToken)
	if err != nil {
		return err
	}

	chosen := engine.ColorWild
	if id.Card().IsWild() {
		var ok bool
		if chosen, ok = stringToEngineColor(chosenColor); !ok {
			return ErrNoColor
		}
	}

	if err := m.Engine.PlayCard(seat, id, chosen); err != nil {
		return err
	}
	m.logAction(playerID, "play_card", map[string]interface{}{
		"card":        m.cardModel(id),
		"chosenColor": chosenColor,
	})
	if database.DB != nil {
		go database.RecordCardsPlayed(m.Names[playerID], 1)
	}

	m.broadcastSyncToAll()
	if m.Engine.IsTerminal() {
		m.endMatch(seat)
	}
	return nil
}

// DrawCard applies a draw (one card, or the full pending-draw obligation)
// and sends the drawer the concrete cards privately.
func (m *Match) DrawCard(playerID uuid.UUID) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	seat := m.seatOf(playerID)
	if seat < 0 {
		return ErrNotSeated
	}
	drawn, err := m.Engine.DrawCard(seat)
	if err != nil {
		return err
	}
	m.logAction(playerID, "draw_card", map[string]interface{}{"count": len(drawn)})

	cards := make([]models.Card, len(drawn))
	for i, id := range drawn {
		cards[i] = m.cardModel(id)
	}
	m.fireEventToPlayer(playerID, GameEvent{Type: EventCardsDrawn, RoomID: m.RoomID, Cards: cards})
	m.broadcastSyncToAll()
	return nil
}

// DeclareLastCard marks a player's declared-last-card flag. Valid only at
// exactly one card in hand; success is broadcast to the whole room.
func (m *Match) DeclareLastCard(playerID uuid.UUID) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	seat := m.seatOf(playerID)
	if seat < 0 {
		return ErrNotSeated
	}
	if !m.Engine.DeclareLastCard(seat) {
		return errors.New("can only declare with exactly one card in hand")
	}
	m.logAction(playerID, "declare_last_card", nil)

	m.fireEvent(GameEvent{
		Type:   EventLastCardDeclared,
		RoomID: m.RoomID,
		Player: &models.Player{ID: playerID, Name: m.Names[playerID]},
	})
	m.broadcastSyncToAll()
	return nil
}

// SyncAll pushes every seated player their current view. Used after
// membership changes that do not go through a game action.
func (m *Match) SyncAll() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.broadcastSyncToAll()
}

// Participants returns the seated player IDs in seat order.
func (m *Match) Participants() []uuid.UUID {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return append([]uuid.UUID(nil), m.Seats...)
}

// endMatch finishes the match: broadcasts the result, persists the
// summary, and triggers the OnMatchEnd callback. Assumes lock is held by
// caller.
func (m *Match) endMatch(winnerSeat int) {
	winnerID := m.Seats[winnerSeat]
	result := models.MatchResult{
		RoomID:     m.RoomID,
		WinnerID:   winnerID,
		WinnerName: m.Names[winnerID],
		DurationMS: time.Since(m.startedAt).Milliseconds(),
	}
	for seat, pid := range m.Seats {
		result.Players = append(result.Players, models.MatchPlayerResult{
			ID:             pid,
			Name:           m.Names[pid],
			FinalCardCount: len(m.Engine.HandOf(seat)),
		})
	}

	m.logAction(winnerID, "game_end", map[string]interface{}{"winner": result.WinnerName})
	log.Infof("room %s: match won by %s", m.RoomID, result.WinnerName)

	// game_ended goes to the whole room, spectators included, so it
	// carries the no-hands projection.
	state := m.projectedFor(uuid.Nil)
	m.fireEvent(GameEvent{
		Type:     EventGameEnded,
		RoomID:   m.RoomID,
		WinnerID: winnerID,
		Player:   &models.Player{ID: winnerID, Name: result.WinnerName},
		State:    &state,
	})

	if database.DB != nil {
		go database.SaveMatchResult(context.Background(), result)
	}

	if m.OnMatchEnd != nil {
		m.OnMatchEnd(result)
	}
}

// broadcastSyncToAll sends each seated player their own view of the
// state and spectators the no-hands view. Assumes lock is held by
// caller.
func (m *Match) broadcastSyncToAll() {
	for _, pid := range m.Seats {
		state := m.projectedFor(pid)
		m.fireEventToPlayer(pid, GameEvent{Type: EventGameUpdated, RoomID: m.RoomID, State: &state})
	}
	if m.BroadcastToWatchersFn != nil {
		state := m.projectedFor(uuid.Nil)
		m.BroadcastToWatchersFn(GameEvent{Type: EventGameUpdated, RoomID: m.RoomID, State: &state})
	}
}

// seatOf returns the seat index for a player UUID, or -1. Assumes lock is
// held by caller.
func (m *Match) seatOf(playerID uuid.UUID) int {
	for seat, pid := range m.Seats {
		if pid == playerID {
			return seat
		}
	}
	return -1
}

// fireEvent broadcasts an event to the whole room via the BroadcastFn
// callback. Assumes lock is held by caller.
func (m *Match) fireEvent(ev GameEvent) {
	if m.BroadcastFn != nil {
		m.BroadcastFn(ev)
	} else {
		log.Warnf("room %s: BroadcastFn is nil, dropping event %s", m.RoomID, ev.Type)
	}
}

// fireEventToPlayer sends an event to a specific player via the
// BroadcastToPlayerFn callback. Assumes lock is held by caller.
func (m *Match) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if m.BroadcastToPlayerFn != nil {
		m.BroadcastToPlayerFn(playerID, ev)
	} else {
		log.Warnf("room %s: BroadcastToPlayerFn is nil, dropping event %s", m.RoomID, ev.Type)
	}
}

// logAction sends match action details to the action historian via the
// Redis queue. Increments the internal action index for ordering. Assumes
// lock is held by caller.
func (m *Match) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	m.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		RoomID:        m.RoomID,
		ActionIndex:   m.actionIndex,
		ActorID:       actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}

	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cache.Rdb == nil {
			return
		}
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.Errorf("room %s: failed publishing action %d (%s): %v", m.RoomID, rec.ActionIndex, rec.ActionType, err)
		}
	}(record)
}
