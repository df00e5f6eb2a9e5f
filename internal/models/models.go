// internal/models/models.go
package models

import "github.com/google/uuid"

// Card is the wire representation of a single card. ID is stable for the
// lifetime of a match; a wild card keeps its printed color "wild" even
// after a color has been chosen for it. Value is a pointer so a number
// zero stays on the wire while action cards omit the field entirely.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Color string    `json:"color"`
	Kind  string    `json:"kind"`
	Value *int      `json:"value,omitempty"`
}

// Player identifies a seated participant.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Command is the envelope for every client-to-server message.
type Command struct {
	Type string `json:"type"`

	// Room addressing and identity.
	RoomID     string `json:"roomId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`

	// play_card fields.
	CardID      uuid.UUID `json:"cardId,omitempty"`
	ChosenColor string    `json:"chosenColor,omitempty"`

	// chat fields.
	Message string `json:"message,omitempty"`
}

// Command types accepted over the socket.
const (
	CmdCreateRoom      = "create_room"
	CmdJoinRoom        = "join_room"
	CmdJoinSpectator   = "join_as_spectator"
	CmdStartGame       = "start_game"
	CmdPlayCard        = "play_card"
	CmdDrawCard        = "draw_card"
	CmdDeclareLastCard = "declare_last_card"
	CmdChat            = "send_chat_message"
	CmdLeaveRoom       = "leave_room"
)

// MatchPlayerResult records one participant's final standing for
// persistence.
type MatchPlayerResult struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	FinalCardCount int       `json:"finalCardCount"`
}

// MatchResult is the completed-match summary handed to storage.
type MatchResult struct {
	RoomID     string              `json:"roomId"`
	Players    []MatchPlayerResult `json:"players"`
	WinnerID   uuid.UUID           `json:"winnerId"`
	WinnerName string              `json:"winnerName"`
	DurationMS int64               `json:"duration"`
}
