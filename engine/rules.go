package engine

// Rules holds the fixed table parameters for a match.
type Rules struct {
	HandSize   uint8 // cards dealt to each player at start
	MaxPlayers uint8 // seats available while forming
	MinPlayers uint8 // minimum participants required to start
}

// DefaultRules returns the standard table parameters.
func DefaultRules() Rules {
	return Rules{
		HandSize:   7,
		MaxPlayers: 4,
		MinPlayers: 2,
	}
}
