package fodinha

import (
	"fmt"
	"strings"

	"fodinha-server/pkg/deck"
	"fodinha-server/pkg/playable"
	"github.com/sirupsen/logrus"
)

const (
	minPlayers   = 2
	playersLimit = 4
)

// Game is a game of fodinha
// A Game is not safe for concurrent use. The caller must serialize every call for a single game.
type Game struct {
	options Options
	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage

	// newDeck returns the deck for the next round
	newDeck func() *deck.Deck

	players    []*Player
	idToPlayer map[int64]*Player

	phase       Phase
	dealerIndex int
	handSize    int // hand size of the current round, or of the next round while scoring
	growing     bool
	roundNo     int
	round       *round

	lastTrick  *TrickResult
	lastRound  *RoundResult
	eliminated []*Player
	winners    []*Player
}

// NewGame returns a new game of fodinha waiting for players
func NewGame(logger logrus.FieldLogger, opts Options) (*Game, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	g := &Game{
		options:    opts,
		logger:     logger,
		logChan:    make(chan []*playable.LogMessage, 256),
		players:    make([]*Player, 0, opts.MaxPlayers),
		idToPlayer: make(map[int64]*Player),
		phase:      PhaseWaiting,
	}

	g.newDeck = func() *deck.Deck {
		return deck.NewShuffled(g.options.Generator)
	}

	return g, nil
}

// AddPlayer seats a new player and returns their ID
// Players may only join while the game is waiting for its first round
func (g *Game) AddPlayer(name string) (int64, error) {
	if g.phase != PhaseWaiting {
		return 0, ErrSessionAlreadyStarted
	}

	if len(g.players) >= g.options.MaxPlayers {
		return 0, ErrSessionFull
	}

	name = strings.TrimSpace(name)
	pid := int64(len(g.players) + 1)
	if name == "" {
		name = fmt.Sprintf("Player %d", pid)
	}

	player := NewPlayer(pid, name, g.options.InitialLives)
	g.players = append(g.players, player)
	g.idToPlayer[pid] = player

	g.logger.WithFields(logrus.Fields{
		"playerID": pid,
		"name":     name,
	}).Debug("player joined")
	g.sendLogMessages(playable.SimpleLogMessage(pid, "{} joined the game"))

	return pid, nil
}

// StartRound deals the first round, or the next round when the game pauses between rounds
func (g *Game) StartRound() error {
	if !CanTransition(g.phase, PhaseBidding) {
		return WrongPhaseError{Phase: g.phase}
	}

	if g.phase == PhaseWaiting {
		if len(g.players) < minPlayers {
			return NotEnoughPlayersError{Got: len(g.players)}
		}

		g.handSize, g.growing = firstHandSize(g.options.StartFrom, MaxHandSize(len(g.players)))
	}

	return g.dealRound()
}

// Phase returns the current phase of the game
func (g *Game) Phase() Phase {
	return g.phase
}

// Players returns the seated players in seat order
func (g *Game) Players() []*Player {
	return append([]*Player{}, g.players...)
}

// PlayerByID returns the player for the ID
func (g *Game) PlayerByID(pid int64) (*Player, bool) {
	p, ok := g.idToPlayer[pid]
	return p, ok
}

// dealRound builds a fresh round and only commits it once every card has been dealt
func (g *Game) dealRound() error {
	r, hands, err := g.buildRound()
	if err != nil {
		g.logger.WithError(err).Error("could not deal the round")
		return err
	}

	for _, player := range r.order {
		player.newRound(hands[player])
	}

	g.roundNo++
	r.number = g.roundNo
	g.round = r
	g.transition(PhaseBidding)

	dealer := g.players[g.dealerIndex]
	g.logger.WithFields(logrus.Fields{
		"round":     r.number,
		"handSize":  r.handSize,
		"dealer":    dealer.PlayerID,
		"indicator": r.indicator,
		"trump":     r.trump,
	}).Debug("round dealt")

	g.sendLogMessages(
		playable.SimpleLogMessage(0, "Round %d: %d card(s) dealt by %s", r.number, r.handSize, dealer.Name),
		playable.CardLogMessage(0, []deck.Card{r.indicator}, "The manilha is %s", r.trump),
	)

	return nil
}

func (g *Game) buildRound() (*round, map[*Player]deck.Hand, error) {
	d := g.newDeck()

	indicator, err := d.Draw()
	if err != nil {
		return nil, nil, fmt.Errorf("could not draw the indicator card: %w", err)
	}

	r := newRound(g.handSize, d, indicator, g.rotation((g.dealerIndex+1)%len(g.players)))

	hands := make(map[*Player]deck.Hand)
	for _, player := range r.order {
		hand := make(deck.Hand, 0, g.handSize)
		for i := 0; i < g.handSize; i++ {
			card, err := d.Draw()
			if err != nil {
				return nil, nil, fmt.Errorf("could not deal to player %d: %w", player.PlayerID, err)
			}

			hand.AddCard(card)
		}

		hands[player] = hand
	}

	return r, hands, nil
}

// rotation returns the seats starting with the player at index start
func (g *Game) rotation(start int) []*Player {
	n := len(g.players)
	order := make([]*Player, n)
	for i := 0; i < n; i++ {
		order[i] = g.players[(start+i)%n]
	}

	return order
}

func (g *Game) seatIndex(player *Player) int {
	for i, p := range g.players {
		if p == player {
			return i
		}
	}

	panic(fmt.Sprintf("player %d is not seated", player.PlayerID))
}

func (g *Game) sendLogMessages(msg ...*playable.LogMessage) {
	if g.logChan == nil {
		return
	}

	select {
	case g.logChan <- msg:
	default:
		g.logger.Warn("log channel is full, dropping log messages")
	}
}

func newLogMessageWithPlayers(players []*Player, format string, a ...interface{}) *playable.LogMessage {
	msg := playable.SimpleLogMessage(0, format, a...)
	msg.PlayerIDs = playerIDs(players)
	return msg
}
