package fodinha

import (
	"fodinha-server/pkg/deck"
	"fodinha-server/pkg/playable"
	"github.com/sirupsen/logrus"
)

type playedCard struct {
	player   *Player
	card     deck.Card
	strength int
}

// PlayCard plays the card at cardIndex from the player's hand
func (g *Game) PlayCard(playerID int64, cardIndex int) error {
	if err := g.requirePhase(PhasePlaying); err != nil {
		return err
	}

	r := g.round
	player := r.currentPlayer()
	if player.PlayerID != playerID {
		return OutOfTurnError{Expected: player.PlayerID}
	}

	card, ok := player.hand.RemoveAt(cardIndex)
	if !ok {
		return InvalidCardIndexError{Index: cardIndex, HandSize: len(player.hand)}
	}

	pc := playedCard{
		player:   player,
		card:     card,
		strength: card.Strength(r.trump),
	}

	r.table = append(r.table, pc)
	r.updateLeader(pc)
	r.turn = (r.turn + 1) % len(r.order)

	g.logger.WithFields(logrus.Fields{
		"playerID": playerID,
		"card":     card,
		"strength": pc.strength,
		"trick":    r.trickNo,
	}).Debug("card played")
	g.sendLogMessages(playable.CardLogMessage(playerID, []deck.Card{card}, "{} played a card"))

	if len(r.table) == len(r.order) {
		return g.resolveTrick()
	}

	return nil
}

// updateLeader compares the card to the best card of the trick so far.
// A card equal to the leader cancels both cards. A cancelled trick stays without a leader
// until a strictly stronger card is played.
func (r *round) updateLeader(pc playedCard) {
	switch {
	case pc.strength > r.bar:
		leader := pc
		r.leader = &leader
		r.bar = pc.strength
	case pc.strength == r.bar && r.leader != nil:
		r.cancelled = append(r.cancelled, *r.leader, pc)
		r.leader = nil
	case pc.strength == r.bar:
		r.cancelled = append(r.cancelled, pc)
	}
}
