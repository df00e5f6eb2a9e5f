// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/SuriyaDcruze/UnoBlitz/engine"
	"github.com/SuriyaDcruze/UnoBlitz/internal/models"
)

// ProjectedPlayer represents one seat's state, redacted for a specific
// viewer. Hand is populated only when the viewer is this player.
type ProjectedPlayer struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	CardCount        int       `json:"cardCount"`
	DeclaredLastCard bool      `json:"declaredLastCard"`
	IsCurrentTurn    bool      `json:"isCurrentTurn"`

	Hand []models.Card `json:"hand,omitempty"`
}

// ProjectedState is the full match state as one viewer is allowed to see
// it. Opponents' hands appear as counts only; spectators hold no seat and
// therefore see no hand at all.
type ProjectedState struct {
	RoomID          string            `json:"roomId"`
	Started         bool              `json:"started"`
	GameOver        bool              `json:"gameOver"`
	CurrentPlayerID uuid.UUID         `json:"currentPlayerId,omitempty"`
	Direction       int               `json:"direction"`
	ActiveColor     string            `json:"activeColor,omitempty"`
	DiscardTop      *models.Card      `json:"discardTop,omitempty"`
	DrawPileSize    int               `json:"drawPileSize"`
	DiscardPileSize int               `json:"discardPileSize"`
	PendingDraw     int               `json:"pendingDraw"`
	WinnerID        uuid.UUID         `json:"winnerId,omitempty"`
	Players         []ProjectedPlayer `json:"players"`

	// PlayableCards lists the viewer's currently legal plays, populated
	// only on the viewer's own turn.
	PlayableCards []uuid.UUID `json:"playableCards,omitempty"`
}

// ProjectedFor generates a snapshot of the match state tailored to the
// perspective of the requesting viewer. Pass uuid.Nil for a spectator
// view with every hand redacted.
func (m *Match) ProjectedFor(viewer uuid.UUID) ProjectedState {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.projectedFor(viewer)
}

// projectedFor builds the viewer-specific state. The engine state is the
// authoritative source. Assumes lock is held by caller.
func (m *Match) projectedFor(viewer uuid.UUID) ProjectedState {
	ps := ProjectedState{
		RoomID:          m.RoomID,
		Started:         m.Engine.IsStarted(),
		GameOver:        m.Engine.IsTerminal(),
		Direction:       int(m.Engine.Direction),
		DrawPileSize:    len(m.Engine.DrawPile),
		DiscardPileSize: len(m.Engine.DiscardPile),
		PendingDraw:     m.Engine.PendingDraw,
	}

	if ps.Started && !ps.GameOver {
		ps.CurrentPlayerID = m.Seats[m.Engine.CurrentSeat()]
	}
	if ps.Started {
		ps.ActiveColor = engineColorToString(m.Engine.ActiveColor)
	}
	if m.Engine.Winner != engine.NoWinner && m.Engine.Winner < len(m.Seats) {
		ps.WinnerID = m.Seats[m.Engine.Winner]
	}

	// Top discard is public knowledge.
	if n := len(m.Engine.DiscardPile); n > 0 {
		top := m.cardModel(m.Engine.DiscardPile[n-1])
		ps.DiscardTop = &top
	}

	ps.Players = make([]ProjectedPlayer, len(m.Seats))
	for seat, pid := range m.Seats {
		hand := m.Engine.HandOf(seat)
		pp := ProjectedPlayer{
			ID:               pid,
			Name:             m.Names[pid],
			CardCount:        len(hand),
			DeclaredLastCard: m.Engine.Players[seat].DeclaredLastCard,
			IsCurrentTurn:    ps.Started && !ps.GameOver && m.Engine.CurrentSeat() == seat,
		}

		if pid == viewer {
			pp.Hand = make([]models.Card, len(hand))
			for i, id := range hand {
				pp.Hand[i] = m.cardModel(id)
			}
			if pp.IsCurrentTurn {
				for _, id := range m.Engine.PlayableCards(seat) {
					ps.PlayableCards = append(ps.PlayableCards, m.tokens[id])
				}
			}
		}

		ps.Players[seat] = pp
	}

	return ps
}
