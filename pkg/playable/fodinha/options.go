package fodinha

import (
	"fmt"

	"fodinha-server/internal/rng"
)

// StartFrom determines the hand size of the first round
type StartFrom string

// StartFrom constants
const (
	StartFromOne StartFrom = "one"
	StartFromMax StartFrom = "max"
)

// Options are options for creating a new game of fodinha
type Options struct {
	InitialLives int
	// MaxPlayers is the seat limit for the game, between 2 and 4
	MaxPlayers int
	StartFrom  StartFrom
	// PauseBetweenRounds leaves the game in the scoring phase until StartRound is called
	PauseBetweenRounds bool
	// Generator shuffles the decks, defaults to a crypto backed generator
	Generator rng.Generator
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		InitialLives: 3,
		MaxPlayers:   playersLimit,
		StartFrom:    StartFromOne,
	}
}

func (o Options) withDefaults() (Options, error) {
	if o.InitialLives == 0 {
		o.InitialLives = 3
	}

	if o.InitialLives < 0 {
		return o, fmt.Errorf("initial lives must be positive, got %d", o.InitialLives)
	}

	if o.MaxPlayers == 0 {
		o.MaxPlayers = playersLimit
	}

	if o.MaxPlayers < minPlayers || o.MaxPlayers > playersLimit {
		return o, PlayerCountError(o.MaxPlayers)
	}

	switch o.StartFrom {
	case "":
		o.StartFrom = StartFromOne
	case StartFromOne, StartFromMax:
	default:
		return o, fmt.Errorf("unknown start from: %s", o.StartFrom)
	}

	if o.Generator == nil {
		o.Generator = rng.Crypto{}
	}

	return o, nil
}
