package room

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fodinha-server/pkg/playable"
	"fodinha-server/pkg/playable/fodinha"
	"github.com/sirupsen/logrus"
)

const recordTimeout = time.Second * 5

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateGameEnded
)

// Recorder records the outcome of a finished game
type Recorder interface {
	RecordGame(ctx context.Context, details *playable.GameOverDetails) error
}

// Dealer is responsible for a single game session
// Every call into the game is executed in the dealer's run loop, one at a time
type Dealer struct {
	ID string

	logger      logrus.FieldLogger
	recorder    Recorder
	game        *fodinha.Game
	clients     map[*Client]bool
	lock        sync.RWMutex
	logMessages []*playable.LogMessage
	lastActive  atomic.Int64
	recorded    bool

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
	closeOnce     sync.Once
}

// NewDealer creates a new dealer object for the game
// recorder may be nil
func NewDealer(id string, game *fodinha.Game, logger logrus.FieldLogger, recorder Recorder) *Dealer {
	d := &Dealer{
		ID:            id,
		logger:        logger,
		recorder:      recorder,
		game:          game,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}

	d.touch(time.Now())
	return d
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		close(d.close)
	})
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendPlayerData()
			case stateGameEvent:
				d.sendGameData()
			case stateGameEnded:
				d.sendGameEnded()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case msgs := <-d.game.LogChan():
			d.addLogMessages(msgs)
			d.broadcast(newLogResponse(msgs))
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// exec runs fn in the run loop and waits for it to finish
func (d *Dealer) exec(fn func() error) error {
	errCh := make(chan error, 1)
	select {
	case d.execInRunLoop <- func() { errCh <- fn() }:
	case <-d.close:
		return SessionNotFoundError{ID: d.ID}
	}

	select {
	case err := <-errCh:
		return err
	case <-d.close:
		return SessionNotFoundError{ID: d.ID}
	}
}

// mutate runs fn in the run loop and pushes the new state to every client if it succeeds
func (d *Dealer) mutate(fn func() error) error {
	return d.exec(func() error {
		if err := fn(); err != nil {
			return err
		}

		d.touch(time.Now())
		d.notify(stateGameEvent)
		d.checkGameOver()
		return nil
	})
}

// Join seats a new player
func (d *Dealer) Join(name string) (int64, error) {
	var pid int64
	err := d.mutate(func() error {
		var err error
		pid, err = d.game.AddPlayer(name)
		if err == nil {
			d.notify(stateClientEvent)
		}

		return err
	})

	return pid, err
}

// StartRound deals the next round
func (d *Dealer) StartRound(playerID int64) error {
	return d.mutate(func() error {
		d.logger.WithField("playerID", playerID).Debug("start round")
		return d.game.StartRound()
	})
}

// PlaceBid places a bid for the player
func (d *Dealer) PlaceBid(playerID int64, bid int) error {
	return d.mutate(func() error {
		return d.game.PlaceBid(playerID, bid)
	})
}

// PlayCard plays a card from the player's hand
func (d *Dealer) PlayCard(playerID int64, cardIndex int) error {
	return d.mutate(func() error {
		return d.game.PlayCard(playerID, cardIndex)
	})
}

// State returns the game as seen by the player
func (d *Dealer) State(playerID int64) (*playable.Response, error) {
	var res *playable.Response
	err := d.exec(func() error {
		var err error
		res, err = d.game.GetPlayerState(playerID)
		return err
	})

	return res, err
}

// Phase returns the phase of the game
func (d *Dealer) Phase() (fodinha.Phase, error) {
	var phase fodinha.Phase
	err := d.exec(func() error {
		phase = d.game.Phase()
		return nil
	})

	return phase, err
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.stateChanged <- stateClientEvent
	d.execInRunLoop <- func() {
		gs, err := d.game.GetPlayerState(client.playerID)
		if err != nil {
			d.logger.WithError(err).Error("could not get player state")
			return
		}

		client.Send(gs)
		if len(d.logMessages) > 0 {
			client.Send(newLogResponse(d.logMessages))
		}
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	d.execInRunLoop <- func() {
		res, updateState, err := d.game.Action(c.playerID, msg)
		if err != nil {
			d.logger.WithError(err).WithField("client", c.String()).Warn("could not perform action")
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		if res != nil {
			res.Context = msg.Context
			c.Send(res)
		}

		if updateState {
			d.touch(time.Now())
			d.notify(stateGameEvent)
		}

		d.checkGameOver()
	}
}

func (d *Dealer) touch(now time.Time) {
	d.lastActive.Store(now.UnixNano())
}

// idleFor returns how long the session has gone without a change
func (d *Dealer) idleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, d.lastActive.Load()))
}

// NOTE: must only be called from the run loop
func (d *Dealer) notify(s state) {
	select {
	case d.stateChanged <- s:
	default:
		d.logger.Warn("state channel is full, dropping state change")
	}
}

// checkGameOver records the result once the game reaches its end
// NOTE: must only be called from the run loop
func (d *Dealer) checkGameOver() {
	details, isOver := d.game.GetEndOfGameDetails()
	if !isOver || d.recorded {
		return
	}

	d.recorded = true
	d.notify(stateGameEnded)

	if d.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := d.recorder.RecordGame(ctx, details); err != nil {
		d.logger.WithError(err).Error("could not record game")
	}
}

// closeClients asks every connected client to close
func (d *Dealer) closeClients(reason string) {
	for _, client := range d.Clients() {
		select {
		case client.Close <- reason:
		default:
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(msg interface{}) {
	for _, client := range d.Clients() {
		if !client.Send(msg) {
			d.logger.WithField("client", client.String()).Warn("client buffer is full, dropping message")
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameEnded() {
	details, _ := d.game.GetEndOfGameDetails()
	d.broadcast(&playable.Response{
		Key:  "gameEnded",
		Data: details,
	})
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	for _, client := range d.Clients() {
		data, err := d.game.GetPlayerState(client.playerID)
		if err != nil {
			d.logger.WithError(err).Error("could not get player state")
			continue
		}

		client.Send(data)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendPlayerData() {
	connected := make(map[int64]bool)
	for _, client := range d.Clients() {
		connected[client.playerID] = true
	}

	players := d.game.Players()
	csPlayers := make([]*clientStatePlayer, len(players))
	for i, player := range players {
		csPlayers[i] = &clientStatePlayer{
			PlayerID:    player.PlayerID,
			Name:        player.Name,
			IsConnected: connected[player.PlayerID],
		}
	}

	d.broadcast(&playable.Response{
		Key:  "clientState",
		Data: csPlayers,
	})
}
