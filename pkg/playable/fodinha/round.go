package fodinha

import (
	"fodinha-server/pkg/deck"
	"fodinha-server/pkg/playable"
	"github.com/sirupsen/logrus"
)

// round is the working state of a single deal
type round struct {
	number    int
	handSize  int
	deck      *deck.Deck
	indicator deck.Card
	trump     deck.Rank

	order   []*Player
	turn    int
	bidSum  int
	trickNo int

	table      []playedCard
	leader     *playedCard
	bar        int
	cancelled  []playedCard
	multiplier int
	tricks     []*TrickResult
}

func newRound(handSize int, d *deck.Deck, indicator deck.Card, order []*Player) *round {
	return &round{
		handSize:   handSize,
		deck:       d,
		indicator:  indicator,
		trump:      deck.TrumpFor(indicator),
		order:      order,
		bar:        -1,
		multiplier: 1,
	}
}

func (r *round) currentPlayer() *Player {
	return r.order[r.turn]
}

func (r *round) isLastToAct() bool {
	return r.turn == len(r.order)-1
}

func (r *round) isFinalTrick() bool {
	return r.trickNo == r.handSize
}

// PlayedCard is a card played by a player in a trick
type PlayedCard struct {
	PlayerID int64     `json:"playerId"`
	Card     deck.Card `json:"card"`
}

// TrickResult is the outcome of a completed trick
type TrickResult struct {
	Number int          `json:"number"`
	Cards  []PlayedCard `json:"cards"`
	// WinnerID is zero when the trick was cancelled and carried over
	WinnerID int64 `json:"winnerId"`
	// TricksAwarded is the multiplier the winner received
	TricksAwarded int  `json:"tricksAwarded"`
	Cancelled     bool `json:"cancelled"`
	// TieBreak is true when a cancelled final trick was decided by suit
	TieBreak bool `json:"tieBreak"`
}

// RoundResult is the scoring summary of a round
type RoundResult struct {
	Number   int                  `json:"number"`
	HandSize int                  `json:"handSize"`
	Trump    string               `json:"trump"`
	Players  []*RoundPlayerResult `json:"players"`
}

// RoundPlayerResult is the scoring of a single player
type RoundPlayerResult struct {
	PlayerID  int64 `json:"playerId"`
	Bid       int   `json:"bid"`
	TricksWon int   `json:"tricksWon"`
	LivesLost int   `json:"livesLost"`
	Lives     int   `json:"lives"`
}

func toPlayedCards(cards []playedCard) []PlayedCard {
	out := make([]PlayedCard, len(cards))
	for i, pc := range cards {
		out[i] = PlayedCard{
			PlayerID: pc.player.PlayerID,
			Card:     pc.card,
		}
	}

	return out
}

// resolveTrick is called once every player has played to the trick
func (g *Game) resolveTrick() error {
	r := g.round
	result := &TrickResult{
		Number: r.trickNo,
		Cards:  toPlayedCards(r.table),
	}

	var next *Player
	switch {
	case r.leader != nil:
		winner := r.leader.player
		winner.tricksWon += r.multiplier
		result.WinnerID = winner.PlayerID
		result.TricksAwarded = r.multiplier
		r.multiplier = 1
		next = winner

		g.sendLogMessages(newLogMessageWithPlayers([]*Player{winner}, "{} won trick %d (%d)", r.trickNo, result.TricksAwarded))
	case r.isFinalTrick():
		result.Cancelled = true
		result.TieBreak = true
		if winner := r.tieBreakWinner(); winner != nil {
			winner.tricksWon += r.multiplier
			result.WinnerID = winner.PlayerID
			result.TricksAwarded = r.multiplier

			g.sendLogMessages(newLogMessageWithPlayers([]*Player{winner}, "{} won the final trick on suit (%d)", result.TricksAwarded))
		}

		r.multiplier = 1
	default:
		result.Cancelled = true
		r.multiplier++
		next = r.table[len(r.table)-1].player

		g.sendLogMessages(playable.SimpleLogMessage(0, "Trick %d was cancelled, the next trick is worth %d", r.trickNo, r.multiplier))
	}

	g.logger.WithFields(logrus.Fields{
		"trick":      r.trickNo,
		"winner":     result.WinnerID,
		"awarded":    result.TricksAwarded,
		"cancelled":  result.Cancelled,
		"multiplier": r.multiplier,
	}).Debug("trick resolved")

	r.tricks = append(r.tricks, result)
	g.lastTrick = result

	r.table = nil
	r.leader = nil
	r.bar = -1
	r.trickNo++

	if r.trickNo > r.handSize {
		return g.endRound()
	}

	r.order = g.rotation(g.seatIndex(next))
	r.turn = 0
	return nil
}

// tieBreakWinner returns the player of the cancelled card with the highest tie-break suit.
// The earliest card wins between equal suits.
func (r *round) tieBreakWinner() *Player {
	var best *playedCard
	for i := range r.cancelled {
		pc := &r.cancelled[i]
		if best == nil || pc.card.Suit.TieBreakOrder() > best.card.Suit.TieBreakOrder() {
			best = pc
		}
	}

	if best == nil {
		return nil
	}

	return best.player
}

// endRound scores the round and either ends the game or moves on to the next round
func (g *Game) endRound() error {
	r := g.round
	g.transition(PhaseScoring)

	result := &RoundResult{
		Number:   r.number,
		HandSize: r.handSize,
		Trump:    r.trump.String(),
		Players:  make([]*RoundPlayerResult, 0, len(g.players)),
	}

	eliminated := make([]*Player, 0)
	for _, player := range g.players {
		lost := player.loseLives()
		result.Players = append(result.Players, &RoundPlayerResult{
			PlayerID:  player.PlayerID,
			Bid:       player.bid,
			TricksWon: player.tricksWon,
			LivesLost: lost,
			Lives:     player.lives,
		})

		if lost > 0 {
			g.sendLogMessages(newLogMessageWithPlayers([]*Player{player}, "{} bid %d, took %d and lost %d", player.bid, player.tricksWon, lost))
		}

		if player.IsEliminated() {
			eliminated = append(eliminated, player)
		}
	}

	g.lastRound = result

	g.logger.WithFields(logrus.Fields{
		"round":      r.number,
		"eliminated": len(eliminated),
	}).Debug("round scored")

	if len(eliminated) > 0 {
		g.eliminated = eliminated
		g.winners = g.playersWithMostLives()
		g.transition(PhaseTerminal)

		g.sendLogMessages(
			newLogMessageWithPlayers(eliminated, "{} eliminated"),
			newLogMessageWithPlayers(g.winners, "{} won the game"),
		)

		return nil
	}

	g.dealerIndex = (g.dealerIndex + 1) % len(g.players)
	g.handSize, g.growing = nextHandSize(g.handSize, g.growing, MaxHandSize(len(g.players)))

	if g.options.PauseBetweenRounds {
		return nil
	}

	return g.dealRound()
}

func (g *Game) playersWithMostLives() []*Player {
	most := g.players[0].lives
	for _, player := range g.players[1:] {
		if player.lives > most {
			most = player.lives
		}
	}

	winners := make([]*Player, 0, 1)
	for _, player := range g.players {
		if player.lives == most {
			winners = append(winners, player)
		}
	}

	return winners
}
