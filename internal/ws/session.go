// internal/ws/session.go
package ws

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/SuriyaDcruze/UnoBlitz/internal/game"
)

// outboundQueueSize bounds the per-connection send queue. A client that
// cannot keep up loses events instead of stalling room broadcasts.
const outboundQueueSize = 128

const writeTimeout = 10 * time.Second

// session is one authenticated websocket connection. It implements
// rooms.Session: room broadcasts land in the outbound queue and the
// write pump drains it to the wire.
type session struct {
	playerID uuid.UUID
	name     string
	conn     *websocket.Conn

	outbound chan game.GameEvent
	done     chan struct{}
}

func newSession(playerID uuid.UUID, name string, conn *websocket.Conn) *session {
	return &session{
		playerID: playerID,
		name:     name,
		conn:     conn,
		outbound: make(chan game.GameEvent, outboundQueueSize),
		done:     make(chan struct{}),
	}
}

func (s *session) ID() uuid.UUID { return s.playerID }
func (s *session) Name() string  { return s.name }

// Send queues an event without blocking. Events are dropped when the
// queue is full or the connection is closing.
func (s *session) Send(ev game.GameEvent) {
	select {
	case <-s.done:
	case s.outbound <- ev:
	default:
		log.Warnf("player %s: outbound queue full, dropping event %s", s.playerID, ev.Type)
	}
}

// writePump serializes queued events onto the connection. Runs on its
// own goroutine; exits when the session closes or a write fails.
func (s *session) writePump(ctx context.Context) {
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case ev := <-s.outbound:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, s.conn, ev)
			cancel()
			if err != nil {
				log.Debugf("player %s: write failed: %v", s.playerID, err)
				return
			}
		}
	}
}

// close makes Send a no-op and stops the write pump. Idempotent via the
// read loop being the only caller.
func (s *session) close() {
	close(s.done)
}
