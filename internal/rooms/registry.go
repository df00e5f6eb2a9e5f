// internal/rooms/registry.go

// Package rooms tracks live game rooms and routes client commands to
// them. Each room processes its commands on a single goroutine; the
// registry itself only guards the room table.
package rooms

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/SuriyaDcruze/UnoBlitz/internal/game"
	"github.com/SuriyaDcruze/UnoBlitz/internal/models"
)

// Registry is the authoritative table of live rooms.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	// maxRooms caps concurrent rooms; 0 means unlimited.
	maxRooms int
}

// NewRegistry creates an empty registry.
func NewRegistry(maxRooms int) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		maxRooms: maxRooms,
	}
}

// Dispatch routes one decoded command from a session. Room lifecycle
// commands are handled here; everything else is queued onto the target
// room's loop.
func (reg *Registry) Dispatch(sess Session, cmd models.Command) {
	switch cmd.Type {
	case models.CmdCreateRoom:
		reg.createRoom(sess, cmd.RoomID)
	case models.CmdJoinRoom:
		reg.joinRoom(sess, cmd.RoomID)
	case models.CmdJoinSpectator:
		reg.joinSpectator(sess, cmd.RoomID)
	default:
		room := reg.lookup(cmd.RoomID)
		if room == nil {
			sess.Send(game.GameEvent{Type: game.EventError, RoomID: cmd.RoomID, Message: "room not found"})
			return
		}
		if !room.enqueue(sess, cmd) {
			// The room closed between lookup and enqueue. To the client
			// that is the same race as dispatching to a destroyed room.
			sess.Send(game.GameEvent{Type: game.EventError, RoomID: cmd.RoomID, Message: "room not found"})
		}
	}
}

// createRoom makes a new room with the session as its first player.
func (reg *Registry) createRoom(sess Session, roomID string) {
	if roomID == "" {
		sess.Send(game.GameEvent{Type: game.EventError, Message: "room id required"})
		return
	}

	reg.mu.Lock()
	if _, exists := reg.rooms[roomID]; exists {
		reg.mu.Unlock()
		sess.Send(game.GameEvent{Type: game.EventError, RoomID: roomID, Message: "room already exists"})
		return
	}
	if reg.maxRooms > 0 && len(reg.rooms) >= reg.maxRooms {
		reg.mu.Unlock()
		sess.Send(game.GameEvent{Type: game.EventError, RoomID: roomID, Message: "server is at room capacity"})
		return
	}
	room := newRoom(roomID, reg)
	reg.rooms[roomID] = room
	reg.mu.Unlock()

	if err := room.addPlayer(sess); err != nil {
		// Cannot happen on a fresh room, but keep the room table clean.
		reg.destroy(roomID)
		sess.Send(game.GameEvent{Type: game.EventError, RoomID: roomID, Message: err.Error()})
		return
	}

	log.Infof("room %s: created by %s", roomID, sess.Name())
	state := room.Match.ProjectedFor(sess.ID())
	sess.Send(game.GameEvent{Type: game.EventRoomCreated, RoomID: roomID, State: &state})
}

// joinRoom seats the session in an existing room and syncs everyone.
func (reg *Registry) joinRoom(sess Session, roomID string) {
	room := reg.lookup(roomID)
	if room == nil {
		sess.Send(game.GameEvent{Type: game.EventError, RoomID: roomID, Message: "room not found"})
		return
	}
	if err := room.addPlayer(sess); err != nil {
		sess.Send(game.GameEvent{Type: game.EventError, RoomID: roomID, Message: err.Error()})
		return
	}

	log.Infof("room %s: %s joined", roomID, sess.Name())
	state := room.Match.ProjectedFor(sess.ID())
	sess.Send(game.GameEvent{Type: game.EventRoomJoined, RoomID: roomID, State: &state})
	room.Match.SyncAll()
}

// joinSpectator attaches the session as a watcher.
func (reg *Registry) joinSpectator(sess Session, roomID string) {
	room := reg.lookup(roomID)
	if room == nil {
		sess.Send(game.GameEvent{Type: game.EventError, RoomID: roomID, Message: "room not found"})
		return
	}
	log.Infof("room %s: spectator %s joined", roomID, sess.Name())
	room.addSpectator(sess)
}

// Disconnect detaches a session from every room it occupies. Safe to
// call repeatedly and for sessions that never joined anything.
func (reg *Registry) Disconnect(sessionID uuid.UUID) {
	reg.mu.Lock()
	attached := make([]*Room, 0, 1)
	for _, room := range reg.rooms {
		if room.contains(sessionID) {
			attached = append(attached, room)
		}
	}
	reg.mu.Unlock()

	for _, room := range attached {
		room.removeSession(sessionID)
	}
}

// destroy unlinks and closes a room. Idempotent.
func (reg *Registry) destroy(roomID string) {
	reg.mu.Lock()
	room, ok := reg.rooms[roomID]
	if ok {
		delete(reg.rooms, roomID)
	}
	reg.mu.Unlock()

	if ok {
		room.close()
		log.Infof("room %s: destroyed", roomID)
	}
}

// lookup returns the live room or nil.
func (reg *Registry) lookup(roomID string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.rooms[roomID]
}

// Len reports the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}
