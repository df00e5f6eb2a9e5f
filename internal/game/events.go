// internal/game/events.go
package game

import (
	"github.com/google/uuid"

	"github.com/SuriyaDcruze/UnoBlitz/internal/models"
)

// GameEventType represents the type of a game-related event broadcast via
// WebSockets.
type GameEventType string

// Constants defining the various GameEvent types used for WebSocket
// communication.
const (
	EventRoomCreated      GameEventType = "room_created"      // Private: room exists, includes creator's view.
	EventRoomJoined       GameEventType = "room_joined"       // Private: join succeeded, includes joiner's view.
	EventSpectatorJoined  GameEventType = "spectator_joined"  // Private: spectate succeeded, includes redacted view.
	EventSpectatorUpdate  GameEventType = "spectator_update"  // Public: spectator count changed.
	EventGameStarted      GameEventType = "game_started"      // Per-player: match began, includes that player's view.
	EventGameUpdated      GameEventType = "game_updated"      // Per-player: state changed, includes that player's view.
	EventGameEnded        GameEventType = "game_ended"        // Public: match reached a terminal state.
	EventCardsDrawn       GameEventType = "cards_drawn"       // Private: the concrete cards a draw yielded.
	EventLastCardDeclared GameEventType = "last_card_declared" // Public: a player declared their last card.
	EventChatMessage      GameEventType = "chat_message"      // Public: relayed chat line.
	EventError            GameEventType = "error"             // Private: command rejected.
)

// GameEvent is the standard structure for broadcasting game state changes
// and actions. Only the fields relevant to the event type are populated.
type GameEvent struct {
	Type GameEventType `json:"type"`

	RoomID   string         `json:"roomId,omitempty"`
	Player   *models.Player `json:"player,omitempty"` // The player initiating or targeted by the event.
	WinnerID uuid.UUID      `json:"winnerId,omitempty"`

	Cards []models.Card `json:"cards,omitempty"` // Concrete cards, private events only.

	Message   string `json:"message,omitempty"` // Chat text or error detail.
	Timestamp int64  `json:"timestamp,omitempty"`

	SpectatorCount int `json:"spectatorCount,omitempty"`

	State *ProjectedState `json:"gameState,omitempty"` // Viewer-specific state for sync events.
}
