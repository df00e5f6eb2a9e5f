// Package engine implements the card game rules.
//
// The engine is pure and self-contained: it owns the authoritative match
// state for a single table, validates every command before mutating, and
// performs no I/O. The service adapter in internal/game maps connection
// identities onto the seat indices and card IDs used here.
package engine

import "errors"

// Errors returned by engine commands. Every command validates its
// preconditions before touching state, so a non-nil error means nothing
// changed.
var (
	ErrAlreadyStarted = errors.New("game has already started")
	ErrNotStarted     = errors.New("game has not started yet")
	ErrGameOver       = errors.New("game is already over")
	ErrTooFewPlayers  = errors.New("minimum of 2 players required")
	ErrTableFull      = errors.New("maximum of 4 players allowed")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrCardNotHeld    = errors.New("card is not in your hand")
	ErrIllegalPlay    = errors.New("card does not match the active color or top discard")
	ErrNoColorChosen  = errors.New("wild card requires a color choice")
)

// NoWinner is the Winner sentinel for a match that ended without one
// (participants dropped below two mid-game).
const NoWinner = -1

// PlayerState holds one seat's hand and declared-last-card flag.
type PlayerState struct {
	Hand []CardID
	// DeclaredLastCard may be true only while the hand holds exactly one
	// card; it is cleared whenever the hand grows past one.
	DeclaredLastCard bool
}

// GameState holds the complete, self-contained state of one match.
// Seats are indexed in turn order; the service layer maps connection
// identities to seat indices.
type GameState struct {
	Players     []PlayerState
	Current     int    // seat whose turn it is
	Direction   int8   // +1 clockwise, -1 counterclockwise
	DrawPile    []CardID // top = last element
	DiscardPile []CardID // top = last element
	ActiveColor Color
	PendingDraw int // accumulated draw-two / wild-draw-four obligation
	Winner      int // seat index, NoWinner until the match ends with one
	Flags       uint16
	RNG         uint64
	Rules       Rules
}

const (
	FlagStarted uint16 = 1 << 0
	FlagEnded   uint16 = 1 << 1
)

// IsStarted reports whether the match has left the forming phase.
func (g *GameState) IsStarted() bool { return g.Flags&FlagStarted != 0 }

// IsTerminal reports whether the match has ended.
func (g *GameState) IsTerminal() bool { return g.Flags&FlagEnded != 0 }

// nextRand steps the inline xorshift64 RNG.
func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// NewGame initializes an empty match with the given seed and rules.
// Players are added while forming; the deck is built and shuffled by Start.
func NewGame(seed uint64, rules Rules) GameState {
	g := GameState{
		Direction: 1,
		Winner:    NoWinner,
		RNG:       seed,
		Rules:     rules,
	}
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	return g
}

// AddPlayer appends a new empty-handed seat while the match is forming.
// Returns the seat index, or false if the table is full or already started.
func (g *GameState) AddPlayer() (int, bool) {
	if g.IsStarted() || len(g.Players) >= int(g.Rules.MaxPlayers) {
		return 0, false
	}
	g.Players = append(g.Players, PlayerState{})
	return len(g.Players) - 1, true
}

// RemovePlayer removes a seat in any phase. The departed hand is shuffled
// back into the draw pile so the 84-card conservation invariant holds for
// matches that continue. If the match is active and fewer than two seats
// remain, it ends with no winner.
func (g *GameState) RemovePlayer(seat int) bool {
	if seat < 0 || seat >= len(g.Players) {
		return false
	}

	hand := g.Players[seat].Hand
	g.Players = append(g.Players[:seat], g.Players[seat+1:]...)

	if len(hand) > 0 {
		g.DrawPile = append(g.DrawPile, hand...)
		g.shuffleDrawPile()
	}

	// Winner index shifts with the seats above the removed one.
	if g.Winner != NoWinner && g.Winner > seat {
		g.Winner--
	}

	// Keep Current pointing at a still-present seat. Removing a seat below
	// Current shifts it down; removing the current seat leaves Current on
	// the seat that slid into its place (the natural next player).
	if seat < g.Current {
		g.Current--
	}
	if len(g.Players) > 0 && g.Current >= len(g.Players) {
		g.Current = 0
	}

	if g.IsStarted() && !g.IsTerminal() && len(g.Players) < int(g.Rules.MinPlayers) {
		g.Flags |= FlagEnded
	}
	return true
}

// Start deals the match: builds and shuffles the 84-card deck, deals
// HandSize cards to each seat in turn order, then flips cards for the
// initial discard, shuffling any wild back into the draw pile until a
// non-wild surfaces. The active color becomes that card's color and seat 0
// takes the first turn.
func (g *GameState) Start() error {
	if g.IsStarted() {
		return ErrAlreadyStarted
	}
	if len(g.Players) < int(g.Rules.MinPlayers) {
		return ErrTooFewPlayers
	}

	g.DrawPile = make([]CardID, DeckSize)
	for i := range g.DrawPile {
		g.DrawPile[i] = CardID(i)
	}
	g.shuffleDrawPile()

	for c := uint8(0); c < g.Rules.HandSize; c++ {
		for p := range g.Players {
			g.Players[p].Hand = append(g.Players[p].Hand, g.popDraw())
		}
	}

	// A wild initial discard would leave no active color; put it back
	// underneath, reshuffle, and flip again. The deck holds 76 non-wild
	// cards, so this terminates.
	first := g.popDraw()
	for first.Card().IsWild() {
		g.DrawPile = append([]CardID{first}, g.DrawPile...)
		g.shuffleDrawPile()
		first = g.popDraw()
	}

	g.DiscardPile = append(g.DiscardPile, first)
	g.ActiveColor = first.Card().Color()
	g.Current = 0
	g.Direction = 1
	g.Flags |= FlagStarted
	return nil
}

// shuffleDrawPile applies a Fisher-Yates shuffle to the draw pile.
func (g *GameState) shuffleDrawPile() {
	for i := len(g.DrawPile) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		g.DrawPile[i], g.DrawPile[j] = g.DrawPile[j], g.DrawPile[i]
	}
}

// popDraw removes and returns the top draw-pile card. Caller guarantees the
// pile is non-empty.
func (g *GameState) popDraw() CardID {
	id := g.DrawPile[len(g.DrawPile)-1]
	g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
	return id
}

// DiscardTop returns the face of the top discard, or EmptyCard before the
// match starts.
func (g *GameState) DiscardTop() Card {
	if len(g.DiscardPile) == 0 {
		return EmptyCard
	}
	return g.DiscardPile[len(g.DiscardPile)-1].Card()
}

// CurrentSeat returns the seat whose turn it is.
func (g *GameState) CurrentSeat() int { return g.Current }

// NumPlayers returns the number of seats currently present.
func (g *GameState) NumPlayers() int { return len(g.Players) }

// HandOf returns the hand of the given seat, or nil for an invalid seat.
// The returned slice aliases engine state and must not be mutated.
func (g *GameState) HandOf(seat int) []CardID {
	if seat < 0 || seat >= len(g.Players) {
		return nil
	}
	return g.Players[seat].Hand
}

// CardCount returns the total number of cards across all hands and both
// piles. After Start it is always DeckSize.
func (g *GameState) CardCount() int {
	n := len(g.DrawPile) + len(g.DiscardPile)
	for i := range g.Players {
		n += len(g.Players[i].Hand)
	}
	return n
}
