package fodinha

import (
	"errors"
	"fmt"

	"fodinha-server/pkg/playable"
)

// Name returns the name of the game
func (g *Game) Name() string {
	return "fodinha"
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Action performs an action
func (g *Game) Action(playerID int64, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	if _, ok := g.idToPlayer[playerID]; !ok {
		return nil, false, errors.New("player not found with that ID")
	}

	log := g.logger.WithField("playerID", playerID)

	switch message.Action {
	case "startRound":
		log.Debug("start round")
		if err := g.StartRound(); err != nil {
			return nil, false, err
		}

		return playable.OK(message.Context), true, nil
	case "bid":
		bid, ok := message.AdditionalData.GetInt("bid")
		if !ok {
			return nil, false, errors.New("bid is required")
		}

		log.WithField("bid", bid).Debug("bid")
		if err := g.PlaceBid(playerID, bid); err != nil {
			return nil, false, err
		}

		return playable.OK(message.Context), true, nil
	case "playCard":
		idx, ok := message.AdditionalData.GetInt("cardIndex")
		if !ok {
			return nil, false, errors.New("cardIndex is required")
		}

		log.WithField("cardIndex", idx).Debug("play card")
		if err := g.PlayCard(playerID, idx); err != nil {
			return nil, false, err
		}

		return playable.OK(message.Context), true, nil
	}

	return nil, false, fmt.Errorf("unknown action: %s", message.Action)
}

// GetEndOfGameDetails returns the final details once a player has been eliminated
func (g *Game) GetEndOfGameDetails() (gameOverDetails *playable.GameOverDetails, isGameOver bool) {
	if g.phase != PhaseTerminal {
		return nil, false
	}

	players := make(map[int64]string, len(g.players))
	for _, player := range g.players {
		players[player.PlayerID] = player.Name
	}

	return &playable.GameOverDetails{
		Players:    players,
		Winners:    playerIDs(g.winners),
		Eliminated: playerIDs(g.eliminated),
		Log:        g.lastRound,
	}, true
}
