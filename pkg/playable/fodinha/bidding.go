package fodinha

import (
	"github.com/sirupsen/logrus"
)

// PlaceBid records the number of tricks the player expects to win this round
func (g *Game) PlaceBid(playerID int64, bid int) error {
	if err := g.requirePhase(PhaseBidding); err != nil {
		return err
	}

	r := g.round
	player := r.currentPlayer()
	if player.PlayerID != playerID {
		return OutOfTurnError{Expected: player.PlayerID}
	}

	if bid < 0 || bid > r.handSize {
		return InvalidBidError{Bid: bid, Max: r.handSize}
	}

	// the last bidder may not make the bids add up to the number of tricks
	if r.isLastToAct() && r.bidSum+bid == r.handSize {
		return ClosingBidForbiddenError{Bid: bid, HandSize: r.handSize}
	}

	player.placeBid(bid)
	r.bidSum += bid
	r.turn++

	g.logger.WithFields(logrus.Fields{
		"playerID": playerID,
		"bid":      bid,
		"bidSum":   r.bidSum,
	}).Debug("bid placed")
	g.sendLogMessages(newLogMessageWithPlayers([]*Player{player}, "{} bid %d", bid))

	if r.turn == len(r.order) {
		// play starts with the same order as the bidding
		r.turn = 0
		r.trickNo = 1
		g.transition(PhasePlaying)
	}

	return nil
}
