package fodinha

import (
	"errors"
	"fmt"
)

// ErrSessionFull is returned when a player tries to join a full game
var ErrSessionFull = errors.New("the game is full")

// ErrSessionAlreadyStarted is returned when a player tries to join after the first round
var ErrSessionAlreadyStarted = errors.New("the game has already started")

// OutOfTurnError is returned when a player acts out of turn
type OutOfTurnError struct {
	Expected int64
}

func (e OutOfTurnError) Error() string {
	return fmt.Sprintf("not your turn, waiting on player %d", e.Expected)
}

// InvalidBidError is returned when a bid is outside [0, hand size]
type InvalidBidError struct {
	Bid int
	Max int
}

func (e InvalidBidError) Error() string {
	return fmt.Sprintf("bid must be between 0 and %d, got %d", e.Max, e.Bid)
}

// ClosingBidForbiddenError is returned when the last bidder would make the bids add up to the hand size
type ClosingBidForbiddenError struct {
	Bid      int
	HandSize int
}

func (e ClosingBidForbiddenError) Error() string {
	return fmt.Sprintf("the last player cannot bid %d, the bids would add up to %d", e.Bid, e.HandSize)
}

// InvalidCardIndexError is returned when a card index is out of the player's hand bounds
type InvalidCardIndexError struct {
	Index    int
	HandSize int
}

func (e InvalidCardIndexError) Error() string {
	return fmt.Sprintf("invalid card index %d for a hand of %d", e.Index, e.HandSize)
}

// WrongPhaseError is returned when an operation is not legal in the current phase
type WrongPhaseError struct {
	Phase Phase
}

func (e WrongPhaseError) Error() string {
	return fmt.Sprintf("action not allowed while the game is %s", e.Phase)
}

// NotEnoughPlayersError is returned when a round is started with fewer than two players
type NotEnoughPlayersError struct {
	Got int
}

func (e NotEnoughPlayersError) Error() string {
	return fmt.Sprintf("at least %d players are required, got %d", minPlayers, e.Got)
}

// PlayerCountError is an error on the number of players allowed in the game
type PlayerCountError int

func (p PlayerCountError) Error() string {
	return fmt.Sprintf("expected %d–%d players, got %d", minPlayers, playersLimit, p)
}
