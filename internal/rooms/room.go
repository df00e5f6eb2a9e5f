// internal/rooms/room.go
package rooms

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/SuriyaDcruze/UnoBlitz/internal/game"
	"github.com/SuriyaDcruze/UnoBlitz/internal/models"
)

// commandQueueSize bounds the per-room dispatch queue. Rooms hold at
// most four players plus spectators; a full queue indicates a stuck
// loop, and further commands are dropped with an error event.
const commandQueueSize = 64

// queuedCommand pairs an incoming command with its originating session.
type queuedCommand struct {
	sess Session
	cmd  models.Command
}

// Room couples one match to the set of connected sessions. All command
// processing for a room runs on its single loop goroutine, so handlers
// never race each other; the session maps have their own lock because
// broadcasts read them from inside match callbacks.
type Room struct {
	ID    string
	Match *game.Match

	registry *Registry

	mu         sync.Mutex
	players    map[uuid.UUID]Session
	spectators map[uuid.UUID]Session
	closed     bool

	cmds chan queuedCommand
}

func newRoom(id string, reg *Registry) *Room {
	r := &Room{
		ID:         id,
		Match:      game.NewMatch(id),
		registry:   reg,
		players:    make(map[uuid.UUID]Session),
		spectators: make(map[uuid.UUID]Session),
		cmds:       make(chan queuedCommand, commandQueueSize),
	}
	r.Match.BroadcastFn = r.broadcast
	r.Match.BroadcastToPlayerFn = r.sendTo
	r.Match.BroadcastToWatchersFn = r.sendToSpectators
	go r.run()
	return r
}

// run drains the command queue until the room closes.
func (r *Room) run() {
	for qc := range r.cmds {
		r.handle(qc.sess, qc.cmd)
	}
}

// enqueue hands a command to the room loop. Returns false once the room
// has closed or when the queue is full.
func (r *Room) enqueue(sess Session, cmd models.Command) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.cmds <- queuedCommand{sess: sess, cmd: cmd}:
		return true
	default:
		log.Warnf("room %s: command queue full, dropping %s from %s", r.ID, cmd.Type, sess.ID())
		return false
	}
}

// handle executes one command on the room loop goroutine.
func (r *Room) handle(sess Session, cmd models.Command) {
	switch cmd.Type {
	case models.CmdStartGame:
		if err := r.Match.Start(sess.ID()); err != nil {
			r.fail(sess, err.Error())
		}
	case models.CmdPlayCard:
		if err := r.Match.PlayCard(sess.ID(), cmd.CardID, cmd.ChosenColor); err != nil {
			r.fail(sess, err.Error())
		}
	case models.CmdDrawCard:
		if err := r.Match.DrawCard(sess.ID()); err != nil {
			r.fail(sess, err.Error())
		}
	case models.CmdDeclareLastCard:
		if err := r.Match.DeclareLastCard(sess.ID()); err != nil {
			r.fail(sess, err.Error())
		}
	case models.CmdChat:
		r.handleChat(sess, cmd.Message)
	case models.CmdLeaveRoom:
		r.removeSession(sess.ID())
	default:
		r.fail(sess, "unknown command type")
	}
}

// handleChat relays a chat line to everyone in the room. Players and
// spectators may chat; anyone else gets an error event.
func (r *Room) handleChat(sess Session, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}

	r.mu.Lock()
	_, isPlayer := r.players[sess.ID()]
	_, isSpectator := r.spectators[sess.ID()]
	r.mu.Unlock()
	if !isPlayer && !isSpectator {
		r.fail(sess, "not in room")
		return
	}

	name := sess.Name()
	if isSpectator {
		name = "Spectator"
	}
	r.broadcast(game.GameEvent{
		Type:      game.EventChatMessage,
		RoomID:    r.ID,
		Player:    &models.Player{ID: sess.ID(), Name: name},
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	})
}

// addPlayer seats a session. Called with the registry's room lookup
// already done; seating can still fail on a full or started match.
func (r *Room) addPlayer(sess Session) error {
	if err := r.Match.AddPlayer(sess.ID(), sess.Name()); err != nil {
		return err
	}
	r.mu.Lock()
	r.players[sess.ID()] = sess
	r.mu.Unlock()
	return nil
}

// addSpectator registers a watching session and announces the new count.
func (r *Room) addSpectator(sess Session) {
	r.mu.Lock()
	r.spectators[sess.ID()] = sess
	count := len(r.spectators)
	r.mu.Unlock()

	state := r.Match.ProjectedFor(uuid.Nil)
	sess.Send(game.GameEvent{Type: game.EventSpectatorJoined, RoomID: r.ID, State: &state})
	r.broadcast(game.GameEvent{Type: game.EventSpectatorUpdate, RoomID: r.ID, SpectatorCount: count})
}

// removeSession detaches a session in either role. The last departing
// player destroys the room; spectators alone cannot keep it alive.
func (r *Room) removeSession(sessionID uuid.UUID) {
	r.mu.Lock()
	_, wasPlayer := r.players[sessionID]
	delete(r.players, sessionID)
	_, wasSpectator := r.spectators[sessionID]
	delete(r.spectators, sessionID)
	playersLeft := len(r.players)
	spectatorsLeft := len(r.spectators)
	r.mu.Unlock()

	if wasPlayer {
		r.Match.RemovePlayer(sessionID)
		if playersLeft == 0 {
			r.registry.destroy(r.ID)
			return
		}
	}
	if wasSpectator {
		r.broadcast(game.GameEvent{Type: game.EventSpectatorUpdate, RoomID: r.ID, SpectatorCount: spectatorsLeft})
	}
}

// contains reports whether the session is attached in either role.
func (r *Room) contains(sessionID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, isPlayer := r.players[sessionID]
	_, isSpectator := r.spectators[sessionID]
	return isPlayer || isSpectator
}

// close stops the command loop. Called by the registry under its own
// lock once the room has been unlinked.
func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.cmds)
}

// broadcast fans an event out to every player and spectator.
func (r *Room) broadcast(ev game.GameEvent) {
	r.mu.Lock()
	sessions := make([]Session, 0, len(r.players)+len(r.spectators))
	for _, s := range r.players {
		sessions = append(sessions, s)
	}
	for _, s := range r.spectators {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Send(ev)
	}
}

// sendToSpectators fans an event out to the watching sessions only.
// Match state syncs use it so spectators track every state change with
// the no-hands view.
func (r *Room) sendToSpectators(ev game.GameEvent) {
	r.mu.Lock()
	sessions := make([]Session, 0, len(r.spectators))
	for _, s := range r.spectators {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Send(ev)
	}
}

// sendTo delivers an event to one player session, if still attached.
func (r *Room) sendTo(playerID uuid.UUID, ev game.GameEvent) {
	r.mu.Lock()
	s, ok := r.players[playerID]
	r.mu.Unlock()
	if ok {
		s.Send(ev)
	}
}

// fail sends a private error event.
func (r *Room) fail(sess Session, message string) {
	sess.Send(game.GameEvent{Type: game.EventError, RoomID: r.ID, Message: message})
}
