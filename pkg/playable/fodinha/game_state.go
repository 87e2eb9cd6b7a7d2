package fodinha

import (
	"fodinha-server/pkg/deck"
	"fodinha-server/pkg/playable"
)

// GameState is a snapshot of the game
// Hands are only populated by GetState; GetPlayerState hides the other players' hands
type GameState struct {
	Phase       Phase              `json:"phase"`
	Round       int                `json:"round"`
	HandSize    int                `json:"handSize"`
	Growing     bool               `json:"growing"`
	DealerID    int64              `json:"dealerId"`
	Indicator   *deck.Card         `json:"indicator"`
	Trump       string             `json:"trump"`
	Trick       int                `json:"trick"`
	Multiplier  int                `json:"multiplier"`
	CurrentTurn int64              `json:"currentTurn"`
	BidSum      int                `json:"bidSum"`
	Players     []*GameStatePlayer `json:"players"`
	Table       []PlayedCard       `json:"table"`
	Cancelled   []PlayedCard       `json:"cancelled"`
	LastTrick   *TrickResult       `json:"lastTrick"`
	LastRound   *RoundResult       `json:"lastRound"`
	Eliminated  []int64            `json:"eliminated"`
	Winners     []int64            `json:"winners"`
}

// GameStatePlayer is the state of an individual player
type GameStatePlayer struct {
	PlayerID    int64     `json:"playerId"`
	Name        string    `json:"name"`
	Lives       int       `json:"lives"`
	Bid         *int      `json:"bid"`
	TricksWon   int       `json:"tricksWon"`
	CardsInHand int       `json:"cardsInHand"`
	Hand        deck.Hand `json:"hand,omitempty"`
}

// Response is the per-player response for this game
type Response struct {
	GameState *GameState `json:"gameState"`
	// Hand is only ever sent to its owner
	Hand deck.Hand `json:"hand"`
}

// GetState returns the full snapshot of the game, including every hand
func (g *Game) GetState() *GameState {
	return g.buildState(func(*Player) bool { return true })
}

func (g *Game) buildState(showHand func(*Player) bool) *GameState {
	state := &GameState{
		Phase:      g.phase,
		Round:      g.roundNo,
		HandSize:   g.handSize,
		Growing:    g.growing,
		Multiplier: 1,
		Players:    make([]*GameStatePlayer, len(g.players)),
		Table:      []PlayedCard{},
		Cancelled:  []PlayedCard{},
		LastTrick:  g.lastTrick,
		LastRound:  g.lastRound,
		Eliminated: playerIDs(g.eliminated),
		Winners:    playerIDs(g.winners),
	}

	for i, player := range g.players {
		sp := &GameStatePlayer{
			PlayerID:    player.PlayerID,
			Name:        player.Name,
			Lives:       player.lives,
			TricksWon:   player.tricksWon,
			CardsInHand: len(player.hand),
		}

		if bid, ok := player.Bid(); ok {
			sp.Bid = &bid
		}

		if showHand(player) {
			sp.Hand = player.Hand()
		}

		state.Players[i] = sp
	}

	if len(g.players) > 0 && g.phase != PhaseWaiting {
		state.DealerID = g.players[g.dealerIndex].PlayerID
	}

	if r := g.round; r != nil {
		indicator := r.indicator
		state.Indicator = &indicator
		state.Trump = r.trump.String()
		state.Trick = r.trickNo
		state.Multiplier = r.multiplier
		state.BidSum = r.bidSum
		state.Table = toPlayedCards(r.table)
		state.Cancelled = toPlayedCards(r.cancelled)

		if g.phase == PhaseBidding || g.phase == PhasePlaying {
			state.CurrentTurn = r.currentPlayer().PlayerID
		}
	}

	return state
}

// GetPlayerState returns the state for the given player
func (g *Game) GetPlayerState(playerID int64) (*playable.Response, error) {
	state := g.buildState(func(*Player) bool { return false })

	var hand deck.Hand
	if player, ok := g.idToPlayer[playerID]; ok {
		hand = player.Hand()
	}

	return &playable.Response{
		Key:   "game",
		Value: g.Name(),
		Data: &Response{
			GameState: state,
			Hand:      hand,
		},
	}, nil
}

func playerIDs(players []*Player) []int64 {
	ids := make([]int64, len(players))
	for i, player := range players {
		ids[i] = player.PlayerID
	}

	return ids
}
