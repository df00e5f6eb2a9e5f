// internal/rooms/session.go
package rooms

import (
	"github.com/google/uuid"

	"github.com/SuriyaDcruze/UnoBlitz/internal/game"
)

// Session is one connected client as the room layer sees it. The
// websocket layer implements it; tests substitute fakes.
type Session interface {
	// ID returns the stable player UUID for this connection.
	ID() uuid.UUID
	// Name returns the display name the connection authenticated with.
	Name() string
	// Send queues an event for delivery. It must not block; delivery is
	// fire-and-forget and a slow client loses events rather than
	// stalling the room.
	Send(ev game.GameEvent)
}
