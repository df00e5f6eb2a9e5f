// internal/rooms/registry_test.go
package rooms

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuriyaDcruze/UnoBlitz/internal/game"
	"github.com/SuriyaDcruze/UnoBlitz/internal/models"
)

// fakeSession implements Session and records every event it receives.
type fakeSession struct {
	id   uuid.UUID
	name string

	mu     sync.Mutex
	events []game.GameEvent
}

func newFakeSession(name string) *fakeSession {
	return &fakeSession{id: uuid.New(), name: name}
}

func (f *fakeSession) ID() uuid.UUID { return f.id }
func (f *fakeSession) Name() string  { return f.name }

func (f *fakeSession) Send(ev game.GameEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

// waitForEvent polls until the session has received an event of the given
// type. Room commands run on the room's loop goroutine, so delivery is
// asynchronous relative to Dispatch.
func (f *fakeSession) waitForEvent(t *testing.T, eventType game.GameEventType) *game.GameEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		for i := len(f.events) - 1; i >= 0; i-- {
			if f.events[i].Type == eventType {
				ev := f.events[i]
				f.mu.Unlock()
				return &ev
			}
		}
		f.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session %s: no %s event received", f.name, eventType)
	return nil
}

func (f *fakeSession) hasEvent(eventType game.GameEventType) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

func TestCreateAndJoinRoom(t *testing.T) {
	reg := NewRegistry(0)
	host := newFakeSession("alice")
	guest := newFakeSession("bob")

	reg.Dispatch(host, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	ev := host.waitForEvent(t, game.EventRoomCreated)
	require.NotNil(t, ev.State)
	assert.Equal(t, "r1", ev.RoomID)
	assert.Equal(t, 1, reg.Len())

	reg.Dispatch(guest, models.Command{Type: models.CmdJoinRoom, RoomID: "r1"})
	joined := guest.waitForEvent(t, game.EventRoomJoined)
	require.Len(t, joined.State.Players, 2)

	// The host learns about the new player through a sync.
	host.waitForEvent(t, game.EventGameUpdated)
}

func TestCreateDuplicateRoomRejected(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")
	b := newFakeSession("bob")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)

	reg.Dispatch(b, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	ev := b.waitForEvent(t, game.EventError)
	assert.Contains(t, ev.Message, "already exists")
}

func TestRoomCapacity(t *testing.T) {
	reg := NewRegistry(1)
	a := newFakeSession("alice")
	b := newFakeSession("bob")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)

	reg.Dispatch(b, models.Command{Type: models.CmdCreateRoom, RoomID: "r2"})
	ev := b.waitForEvent(t, game.EventError)
	assert.Contains(t, ev.Message, "capacity")
	assert.Equal(t, 1, reg.Len())
}

func TestCommandToUnknownRoom(t *testing.T) {
	reg := NewRegistry(0)
	s := newFakeSession("alice")

	reg.Dispatch(s, models.Command{Type: models.CmdStartGame, RoomID: "nope"})
	ev := s.waitForEvent(t, game.EventError)
	assert.Contains(t, ev.Message, "not found")
}

func TestStartGameThroughRoomLoop(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")
	b := newFakeSession("bob")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)
	reg.Dispatch(b, models.Command{Type: models.CmdJoinRoom, RoomID: "r1"})
	b.waitForEvent(t, game.EventRoomJoined)

	reg.Dispatch(a, models.Command{Type: models.CmdStartGame, RoomID: "r1"})
	evA := a.waitForEvent(t, game.EventGameStarted)
	evB := b.waitForEvent(t, game.EventGameStarted)

	// Each player sees only their own hand.
	for _, pp := range evA.State.Players {
		if pp.ID == a.id {
			assert.Len(t, pp.Hand, 7)
		} else {
			assert.Nil(t, pp.Hand)
		}
	}
	for _, pp := range evB.State.Players {
		if pp.ID == b.id {
			assert.Len(t, pp.Hand, 7)
		} else {
			assert.Nil(t, pp.Hand)
		}
	}
}

func TestStartGameTooFewPlayers(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)

	reg.Dispatch(a, models.Command{Type: models.CmdStartGame, RoomID: "r1"})
	a.waitForEvent(t, game.EventError)
}

func TestSpectatorFlow(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")
	watcher := newFakeSession("carol")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)

	reg.Dispatch(watcher, models.Command{Type: models.CmdJoinSpectator, RoomID: "r1"})
	ev := watcher.waitForEvent(t, game.EventSpectatorJoined)
	require.NotNil(t, ev.State)
	for _, pp := range ev.State.Players {
		assert.Nil(t, pp.Hand, "spectator view must not carry hands")
	}

	update := a.waitForEvent(t, game.EventSpectatorUpdate)
	assert.Equal(t, 1, update.SpectatorCount)

	// Spectator departure announces the new count.
	reg.Disconnect(watcher.id)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		a.mu.Lock()
		last := game.GameEvent{}
		for _, e := range a.events {
			if e.Type == game.EventSpectatorUpdate {
				last = e
			}
		}
		a.mu.Unlock()
		if last.Type != "" && last.SpectatorCount == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no spectator_update with count 0 after departure")
}

func TestSpectatorReceivesStateUpdates(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")
	b := newFakeSession("bob")
	watcher := newFakeSession("carol")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)
	reg.Dispatch(b, models.Command{Type: models.CmdJoinRoom, RoomID: "r1"})
	b.waitForEvent(t, game.EventRoomJoined)
	reg.Dispatch(watcher, models.Command{Type: models.CmdJoinSpectator, RoomID: "r1"})
	watcher.waitForEvent(t, game.EventSpectatorJoined)

	reg.Dispatch(a, models.Command{Type: models.CmdStartGame, RoomID: "r1"})
	started := watcher.waitForEvent(t, game.EventGameStarted)
	require.NotNil(t, started.State)

	drawer := a
	if started.State.CurrentPlayerID == b.id {
		drawer = b
	}
	reg.Dispatch(drawer, models.Command{Type: models.CmdDrawCard, RoomID: "r1"})

	ev := watcher.waitForEvent(t, game.EventGameUpdated)
	require.NotNil(t, ev.State, "spectator sync missing state")
	for _, pp := range ev.State.Players {
		assert.Nil(t, pp.Hand, "spectator sync leaked a hand")
		if pp.ID == drawer.id {
			assert.Equal(t, 8, pp.CardCount)
		}
	}
}

func TestChatRelay(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")
	b := newFakeSession("bob")
	watcher := newFakeSession("carol")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)
	reg.Dispatch(b, models.Command{Type: models.CmdJoinRoom, RoomID: "r1"})
	b.waitForEvent(t, game.EventRoomJoined)
	reg.Dispatch(watcher, models.Command{Type: models.CmdJoinSpectator, RoomID: "r1"})
	watcher.waitForEvent(t, game.EventSpectatorJoined)

	reg.Dispatch(a, models.Command{Type: models.CmdChat, RoomID: "r1", Message: "  hello  "})
	for _, s := range []*fakeSession{a, b, watcher} {
		ev := s.waitForEvent(t, game.EventChatMessage)
		assert.Equal(t, "hello", ev.Message)
		assert.Equal(t, "alice", ev.Player.Name)
	}

	// Spectator chat is attributed anonymously.
	reg.Dispatch(watcher, models.Command{Type: models.CmdChat, RoomID: "r1", Message: "gg"})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		a.mu.Lock()
		var got *game.GameEvent
		for i := range a.events {
			if a.events[i].Type == game.EventChatMessage && a.events[i].Message == "gg" {
				got = &a.events[i]
			}
		}
		a.mu.Unlock()
		if got != nil {
			assert.Equal(t, "Spectator", got.Player.Name)
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("spectator chat not relayed")
}

func TestChatFromOutsiderRejected(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")
	outsider := newFakeSession("mallory")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)

	reg.Dispatch(outsider, models.Command{Type: models.CmdChat, RoomID: "r1", Message: "hi"})
	ev := outsider.waitForEvent(t, game.EventError)
	assert.Contains(t, ev.Message, "not in room")
}

func TestLastPlayerLeavingDestroysRoom(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)
	require.Equal(t, 1, reg.Len())

	reg.Dispatch(a, models.Command{Type: models.CmdLeaveRoom, RoomID: "r1"})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && reg.Len() != 0 {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 0, reg.Len())

	// Commands to the destroyed room now fail cleanly.
	reg.Dispatch(a, models.Command{Type: models.CmdStartGame, RoomID: "r1"})
	a.waitForEvent(t, game.EventError)
}

func TestClosedRoomReportsNotFound(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)

	// Close the room underneath a still-routable lookup, as happens
	// when a destroy races an in-flight dispatch.
	room := reg.lookup("r1")
	require.NotNil(t, room)
	room.close()

	reg.Dispatch(a, models.Command{Type: models.CmdStartGame, RoomID: "r1"})
	ev := a.waitForEvent(t, game.EventError)
	assert.Contains(t, ev.Message, "not found")
}

func TestDisconnectIsIdempotent(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")
	b := newFakeSession("bob")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)
	reg.Dispatch(b, models.Command{Type: models.CmdJoinRoom, RoomID: "r1"})
	b.waitForEvent(t, game.EventRoomJoined)

	reg.Disconnect(b.id)
	reg.Disconnect(b.id)
	reg.Disconnect(uuid.New())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !a.hasEvent(game.EventGameUpdated) {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		break
	}
	assert.Equal(t, 1, reg.Len(), "room survives while a player remains")
}

func TestMidMatchDepartureVoidsGame(t *testing.T) {
	reg := NewRegistry(0)
	a := newFakeSession("alice")
	b := newFakeSession("bob")

	reg.Dispatch(a, models.Command{Type: models.CmdCreateRoom, RoomID: "r1"})
	a.waitForEvent(t, game.EventRoomCreated)
	reg.Dispatch(b, models.Command{Type: models.CmdJoinRoom, RoomID: "r1"})
	b.waitForEvent(t, game.EventRoomJoined)
	reg.Dispatch(a, models.Command{Type: models.CmdStartGame, RoomID: "r1"})
	a.waitForEvent(t, game.EventGameStarted)

	reg.Disconnect(b.id)
	ev := a.waitForEvent(t, game.EventGameEnded)
	assert.Equal(t, uuid.Nil, ev.WinnerID)
}
