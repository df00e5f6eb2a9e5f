package engine

// PlayCard moves the identified card from the seat's hand to the top of the
// discard pile and resolves its effect. chosen selects the new active color
// for wild cards and is ignored otherwise. All preconditions are checked
// before any mutation; on error the state is unchanged.
func (g *GameState) PlayCard(seat int, id CardID, chosen Color) error {
	if !g.IsStarted() {
		return ErrNotStarted
	}
	if g.IsTerminal() {
		return ErrGameOver
	}
	if seat != g.Current {
		return ErrNotYourTurn
	}
	idx := g.handIndex(seat, id)
	if idx < 0 {
		return ErrCardNotHeld
	}
	card := id.Card()
	if !g.matchesDiscard(card) {
		return ErrIllegalPlay
	}
	if card.IsWild() && chosen >= ColorWild {
		return ErrNoColorChosen
	}

	hand := g.Players[seat].Hand
	g.Players[seat].Hand = append(hand[:idx], hand[idx+1:]...)
	g.DiscardPile = append(g.DiscardPile, id)

	g.resolveEffect(card, chosen)

	if len(g.Players[seat].Hand) == 0 {
		g.Flags |= FlagEnded
		g.Winner = seat
		return nil
	}
	if len(g.Players[seat].Hand) > 1 {
		g.Players[seat].DeclaredLastCard = false
	}
	return nil
}

// resolveEffect applies the played card's effect and advances the turn:
//
//	number          set active color to the card's color; advance once
//	skip            advance twice
//	reverse         2 players: behaves as skip; else flip direction, advance once
//	draw-two        pending draw += 2; advance once
//	wild            active color = chosen; advance once
//	wild-draw-four  pending draw += 4; active color = chosen; advance once
func (g *GameState) resolveEffect(card Card, chosen Color) {
	switch card.Kind() {
	case KindNumber:
		g.ActiveColor = card.Color()
		g.advance(1)
	case KindSkip:
		g.advance(2)
	case KindReverse:
		if len(g.Players) == 2 {
			g.advance(2)
		} else {
			g.Direction = -g.Direction
			g.advance(1)
		}
	case KindDrawTwo:
		g.PendingDraw += 2
		g.advance(1)
	case KindWild:
		g.ActiveColor = chosen
		g.advance(1)
	case KindWildDrawFour:
		g.ActiveColor = chosen
		g.PendingDraw += 4
		g.advance(1)
	}
}

// advance moves the turn pointer the given number of steps in the current
// direction.
func (g *GameState) advance(steps int) {
	n := len(g.Players)
	if n == 0 {
		return
	}
	for i := 0; i < steps; i++ {
		g.Current = (g.Current + int(g.Direction) + n) % n
	}
}

// DrawCard draws max(1, pending-draw) cards into the seat's hand, then
// clears the pending-draw obligation and advances the turn. When the draw
// pile runs dry, the discard pile minus its top card is reshuffled in; if
// that still is not enough, fewer cards are drawn without error. Returns
// the drawn card IDs.
func (g *GameState) DrawCard(seat int) ([]CardID, error) {
	if !g.IsStarted() {
		return nil, ErrNotStarted
	}
	if g.IsTerminal() {
		return nil, ErrGameOver
	}
	if seat != g.Current {
		return nil, ErrNotYourTurn
	}

	want := g.PendingDraw
	if want < 1 {
		want = 1
	}

	drawn := make([]CardID, 0, want)
	for i := 0; i < want; i++ {
		if len(g.DrawPile) == 0 {
			g.refillDrawPile()
		}
		if len(g.DrawPile) == 0 {
			break
		}
		drawn = append(drawn, g.popDraw())
	}
	g.Players[seat].Hand = append(g.Players[seat].Hand, drawn...)
	if len(g.Players[seat].Hand) > 1 {
		g.Players[seat].DeclaredLastCard = false
	}

	g.PendingDraw = 0
	g.advance(1)
	return drawn, nil
}

// refillDrawPile reshuffles the discard pile into the draw pile, keeping
// the top discard in place. A no-op when the discard holds one card or
// fewer.
func (g *GameState) refillDrawPile() {
	if len(g.DiscardPile) <= 1 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	g.DrawPile = append(g.DrawPile, g.DiscardPile[:len(g.DiscardPile)-1]...)
	g.DiscardPile = g.DiscardPile[:1]
	g.DiscardPile[0] = top
	g.shuffleDrawPile()
}

// DeclareLastCard sets the seat's declared-last-card flag. Succeeds only
// while the hand holds exactly one card; otherwise returns false with no
// state change.
func (g *GameState) DeclareLastCard(seat int) bool {
	if seat < 0 || seat >= len(g.Players) {
		return false
	}
	if len(g.Players[seat].Hand) != 1 {
		return false
	}
	g.Players[seat].DeclaredLastCard = true
	return true
}
