package games

import "errors"

var (
	errGameNegativeScore = errors.New("games: scores must be non-negative")
	errGamePlayoffTie    = errors.New("games: playoff games cannot end in a tie")
)
