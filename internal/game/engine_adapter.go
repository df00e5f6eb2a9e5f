// internal/game/engine_adapter.go
package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/SuriyaDcruze/UnoBlitz/engine"
	"github.com/SuriyaDcruze/UnoBlitz/internal/models"
)

// engineColorToString maps an engine color to its wire name.
func engineColorToString(c engine.Color) string {
	switch c {
	case engine.ColorRed:
		return "red"
	case engine.ColorYellow:
		return "yellow"
	case engine.ColorGreen:
		return "green"
	case engine.ColorBlue:
		return "blue"
	case engine.ColorWild:
		return "wild"
	default:
		return "unknown"
	}
}

// stringToEngineColor parses a wire color name. Returns engine.ColorWild
// and false for anything that is not a concrete color.
func stringToEngineColor(s string) (engine.Color, bool) {
	switch s {
	case "red":
		return engine.ColorRed, true
	case "yellow":
		return engine.ColorYellow, true
	case "green":
		return engine.ColorGreen, true
	case "blue":
		return engine.ColorBlue, true
	default:
		return engine.ColorWild, false
	}
}

// engineKindToString maps an engine card kind to its wire name.
func engineKindToString(k engine.Kind) string {
	switch k {
	case engine.KindNumber:
		return "number"
	case engine.KindSkip:
		return "skip"
	case engine.KindReverse:
		return "reverse"
	case engine.KindDrawTwo:
		return "draw_two"
	case engine.KindWild:
		return "wild"
	case engine.KindWildDrawFour:
		return "wild_draw_four"
	default:
		return "unknown"
	}
}

// cardModel builds the wire card for an engine card identity using the
// match's token table.
func (m *Match) cardModel(id engine.CardID) models.Card {
	face := id.Card()
	card := models.Card{
		ID:    m.tokens[id],
		Color: engineColorToString(face.Color()),
		Kind:  engineKindToString(face.Kind()),
	}
	if face.Kind() == engine.KindNumber {
		v := int(face.Value())
		card.Value = &v
	}
	return card
}

// cardIDFromToken resolves a wire card UUID back to the engine identity.
func (m *Match) cardIDFromToken(token uuid.UUID) (engine.CardID, error) {
	id, ok := m.byToken[token]
	if !ok {
		return 0, fmt.Errorf("unknown card id %s", token)
	}
	return id, nil
}

// initTokens assigns a fresh UUID to each of the deck's card identities.
// Called once per match; identities never change afterwards, only which
// container holds them.
func (m *Match) initTokens() {
	m.byToken = make(map[uuid.UUID]engine.CardID, engine.DeckSize)
	for id := 0; id < engine.DeckSize; id++ {
		token, _ := uuid.NewRandom()
		m.tokens[id] = token
		m.byToken[token] = engine.CardID(id)
	}
}
