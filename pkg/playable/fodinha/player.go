package fodinha

import "fodinha-server/pkg/deck"

// Player is an individual in the game
type Player struct {
	PlayerID  int64
	Name      string
	lives     int
	hand      deck.Hand
	bid       int
	hasBid    bool
	tricksWon int
}

// NewPlayer returns a new player
func NewPlayer(pid int64, name string, lives int) *Player {
	return &Player{
		PlayerID: pid,
		Name:     name,
		lives:    lives,
		hand:     deck.Hand{},
	}
}

// Lives returns the lives remaining. This can be negative once a player is eliminated.
func (p *Player) Lives() int {
	return p.lives
}

// Hand returns a clone of the player's hand
func (p *Player) Hand() deck.Hand {
	return p.hand.Clone()
}

// Bid returns the player's bid and whether it has been placed this round
func (p *Player) Bid() (int, bool) {
	return p.bid, p.hasBid
}

// TricksWon returns the tricks won this round
func (p *Player) TricksWon() int {
	return p.tricksWon
}

// IsEliminated returns true if the player is out of lives
func (p *Player) IsEliminated() bool {
	return p.lives <= 0
}

func (p *Player) placeBid(bid int) {
	p.bid = bid
	p.hasBid = true
}

// newRound is called when a new round is dealt
func (p *Player) newRound(hand deck.Hand) {
	p.hand = hand
	p.bid = 0
	p.hasBid = false
	p.tricksWon = 0
}

// loseLives applies the round penalty and returns the lives lost
func (p *Player) loseLives() int {
	diff := p.tricksWon - p.bid
	if diff < 0 {
		diff = -diff
	}

	p.lives -= diff
	return diff
}
