package engine

// CanPlay reports whether the given seat may legally play the identified
// card right now. A play is legal when the match is active, it is the
// seat's turn, the seat holds the card, and the card matches: wild cards
// always match; a non-wild card matches when its color equals the active
// color, its value equals the top discard's value (both number cards), or
// its kind equals the top discard's kind (both non-number, non-wild kinds).
func (g *GameState) CanPlay(seat int, id CardID) bool {
	if !g.IsStarted() || g.IsTerminal() {
		return false
	}
	if seat != g.Current {
		return false
	}
	if g.handIndex(seat, id) < 0 {
		return false
	}
	return g.matchesDiscard(id.Card())
}

// matchesDiscard checks the card face against the active color and top
// discard, independent of turn and hand ownership.
func (g *GameState) matchesDiscard(card Card) bool {
	if card.IsWild() {
		return true
	}
	if card.Color() == g.ActiveColor {
		return true
	}
	top := g.DiscardTop()
	if top == EmptyCard {
		return false
	}
	if top.Kind() == KindNumber && card.Kind() == KindNumber {
		return card.Value() == top.Value()
	}
	if top.Kind() != KindNumber && !top.IsWild() {
		return card.Kind() == top.Kind()
	}
	return false
}

// handIndex returns the position of id in the seat's hand, or -1.
func (g *GameState) handIndex(seat int, id CardID) int {
	if seat < 0 || seat >= len(g.Players) {
		return -1
	}
	for i, held := range g.Players[seat].Hand {
		if held == id {
			return i
		}
	}
	return -1
}

// PlayableCards returns the IDs in the seat's hand that could legally be
// played this turn. Allocates; intended for hints and tests.
func (g *GameState) PlayableCards(seat int) []CardID {
	if !g.IsStarted() || g.IsTerminal() || seat != g.Current {
		return nil
	}
	var out []CardID
	for _, id := range g.Players[seat].Hand {
		if g.matchesDiscard(id.Card()) {
			out = append(out, id)
		}
	}
	return out
}
