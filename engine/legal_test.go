package engine

import "testing"

// TestMatchesDiscard exercises the legality matrix against a red 7 top
// discard with red active.
func TestMatchesDiscard(t *testing.T) {
	top := idOf(t, NewNumberCard(ColorRed, 7), 0)
	hand := []CardID{
		idOf(t, NewNumberCard(ColorRed, 2), 0),          // color match
		idOf(t, NewNumberCard(ColorBlue, 7), 0),         // value match
		idOf(t, NewNumberCard(ColorBlue, 2), 0),         // no match
		idOf(t, NewActionCard(ColorRed, KindSkip), 0),   // color match
		idOf(t, NewActionCard(ColorGreen, KindSkip), 0), // no match (kind only matches kind-on-kind)
		idOf(t, NewActionCard(ColorWild, KindWild), 0),  // always legal
	}
	want := []bool{true, true, false, true, false, true}

	g := rigGame(t, [][]CardID{hand, {idOf(t, NewNumberCard(ColorGreen, 1), 0)}}, top, ColorRed)

	for i, id := range hand {
		if got := g.CanPlay(0, id); got != want[i] {
			c := id.Card()
			t.Errorf("CanPlay(%v %v %d) = %v, want %v", c.Color(), c.Kind(), c.Value(), got, want[i])
		}
	}
}

// TestKindMatchesKind verifies an action card matches an off-color top of
// the same kind.
func TestKindMatchesKind(t *testing.T) {
	top := idOf(t, NewActionCard(ColorRed, KindDrawTwo), 0)
	greenD2 := idOf(t, NewActionCard(ColorGreen, KindDrawTwo), 0)

	g := rigGame(t, [][]CardID{{greenD2}, {idOf(t, NewNumberCard(ColorGreen, 1), 0)}}, top, ColorRed)

	if !g.CanPlay(0, greenD2) {
		t.Error("green draw-two rejected on red draw-two top")
	}
}

// TestRepaintedWildGovernsLegality verifies legality follows the active
// color set by a wild, not the wild card's printed face.
func TestRepaintedWildGovernsLegality(t *testing.T) {
	top := idOf(t, NewActionCard(ColorWild, KindWild), 0)
	blue4 := idOf(t, NewNumberCard(ColorBlue, 4), 0)
	red4 := idOf(t, NewNumberCard(ColorRed, 4), 0)

	g := rigGame(t, [][]CardID{{blue4, red4}, {idOf(t, NewNumberCard(ColorGreen, 1), 0)}}, top, ColorBlue)

	if !g.CanPlay(0, blue4) {
		t.Error("blue card rejected with blue active on a wild top")
	}
	if g.CanPlay(0, red4) {
		t.Error("red card accepted with blue active on a wild top")
	}
}

// TestPlayableCards verifies the helper mirrors CanPlay over a whole hand.
func TestPlayableCards(t *testing.T) {
	g := startTestGame(t, 2)
	seat := g.CurrentSeat()
	playable := make(map[CardID]bool)
	for _, id := range g.PlayableCards(seat) {
		playable[id] = true
	}
	for _, id := range g.Players[seat].Hand {
		if g.CanPlay(seat, id) != playable[id] {
			t.Errorf("PlayableCards disagrees with CanPlay for card %d", id)
		}
	}
}
