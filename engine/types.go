package engine

// Color is packed into the upper 3 bits of Card.
type Color uint8

const (
	ColorRed Color = iota
	ColorYellow
	ColorGreen
	ColorBlue
	ColorWild
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorWild:
		return "wild"
	}
	return "?"
}

// Kind is the card category: a number card or one of the action cards.
type Kind uint8

const (
	KindNumber Kind = iota
	KindSkip
	KindReverse
	KindDrawTwo
	KindWild
	KindWildDrawFour
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSkip:
		return "skip"
	case KindReverse:
		return "reverse"
	case KindDrawTwo:
		return "draw_two"
	case KindWild:
		return "wild"
	case KindWildDrawFour:
		return "wild_draw_four"
	}
	return "?"
}

// Kind codes occupying the lower 5 bits of Card. Codes 0–9 are the number
// values themselves; action kinds start at 10.
const (
	codeSkip         uint8 = 10
	codeReverse      uint8 = 11
	codeDrawTwo      uint8 = 12
	codeWild         uint8 = 13
	codeWildDrawFour uint8 = 14
)

// Card is a packed uint8: upper 3 bits = color, lower 5 bits = kind code.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewNumberCard constructs a number card from a color and value (0–9).
func NewNumberCard(color Color, value uint8) Card {
	return Card(uint8(color)<<5 | (value & 0x1F))
}

// NewActionCard constructs a skip/reverse/draw-two/wild/wild-draw-four card.
func NewActionCard(color Color, kind Kind) Card {
	var code uint8
	switch kind {
	case KindSkip:
		code = codeSkip
	case KindReverse:
		code = codeReverse
	case KindDrawTwo:
		code = codeDrawTwo
	case KindWild:
		code = codeWild
	case KindWildDrawFour:
		code = codeWildDrawFour
	}
	return Card(uint8(color)<<5 | code)
}

// Color returns the printed color of the card. Wild cards report ColorWild.
func (c Card) Color() Color { return Color(uint8(c) >> 5) }

func (c Card) code() uint8 { return uint8(c) & 0x1F }

// Kind returns the card category.
func (c Card) Kind() Kind {
	switch code := c.code(); {
	case code <= 9:
		return KindNumber
	case code == codeSkip:
		return KindSkip
	case code == codeReverse:
		return KindReverse
	case code == codeDrawTwo:
		return KindDrawTwo
	case code == codeWild:
		return KindWild
	default:
		return KindWildDrawFour
	}
}

// Value returns the numeric value (0–9). Only meaningful for number cards.
func (c Card) Value() uint8 { return c.code() }

// IsWild reports whether the card is wild or wild-draw-four.
func (c Card) IsWild() bool {
	return c.code() == codeWild || c.code() == codeWildDrawFour
}

// CardID is a card's stable identity: its index 0..DeckSize-1 in the
// canonical deck table. Identity never changes for the lifetime of a match;
// only the container (hand, draw pile, discard pile) does.
type CardID uint8

// Card returns the face of the identified card.
func (id CardID) Card() Card { return deckTable[id] }

// DeckSize is the full deck: per color among {red,yellow,green,blue} one
// each of 0–9 and three each of skip/reverse/draw-two (76 colored cards),
// plus 4 wild and 4 wild-draw-four.
const DeckSize = 84

var deckTable = buildDeckTable()

func buildDeckTable() [DeckSize]Card {
	var table [DeckSize]Card
	idx := 0
	for color := ColorRed; color <= ColorBlue; color++ {
		for v := uint8(0); v <= 9; v++ {
			table[idx] = NewNumberCard(color, v)
			idx++
		}
		for _, kind := range [3]Kind{KindSkip, KindReverse, KindDrawTwo} {
			table[idx] = NewActionCard(color, kind)
			table[idx+1] = NewActionCard(color, kind)
			table[idx+2] = NewActionCard(color, kind)
			idx += 3
		}
	}
	for i := 0; i < 4; i++ {
		table[idx] = NewActionCard(ColorWild, KindWild)
		table[idx+1] = NewActionCard(ColorWild, KindWildDrawFour)
		idx += 2
	}
	return table
}
