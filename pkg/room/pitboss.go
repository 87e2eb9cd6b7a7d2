package room

import (
	"sync"
	"time"

	"fodinha-server/pkg/playable/fodinha"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PitBoss is responsible for dispatching players to game sessions
type PitBoss struct {
	logger   logrus.FieldLogger
	recorder Recorder
	idleTTL  time.Duration

	lock    sync.RWMutex
	dealers map[string]*Dealer
	close   chan bool
}

// NewPitBoss returns a new dispatch object
// Sessions without any change for idleTTL are closed. An idleTTL of zero keeps sessions forever.
func NewPitBoss(logger logrus.FieldLogger, recorder Recorder, idleTTL time.Duration) *PitBoss {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &PitBoss{
		logger:   logger,
		recorder: recorder,
		idleTTL:  idleTTL,
		dealers:  make(map[string]*Dealer),
		close:    make(chan bool),
	}
}

// StartShift starts the PitBoss run loop, reaping idle sessions every interval
func (p *PitBoss) StartShift(interval time.Duration) {
	go p.runLoop(interval)
}

// EndShift stops the run loop and every dealer
func (p *PitBoss) EndShift() {
	close(p.close)

	p.lock.Lock()
	defer p.lock.Unlock()
	for id, dealer := range p.dealers {
		dealer.closeClients("server shutting down")
		dealer.EndShift()
		delete(p.dealers, id)
	}
}

func (p *PitBoss) runLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if reaped := p.reap(now); len(reaped) > 0 {
				p.logger.WithField("sessions", reaped).Info("reaped idle sessions")
			}
		case <-p.close:
			return
		}
	}
}

// CreateSession creates a new game session with the creator in the first seat
func (p *PitBoss) CreateSession(playerName string, opts fodinha.Options) (*Dealer, int64, error) {
	id := uuid.New().String()
	logger := p.logger.WithField("session", id)

	game, err := fodinha.NewGame(logger, opts)
	if err != nil {
		return nil, 0, err
	}

	pid, err := game.AddPlayer(playerName)
	if err != nil {
		return nil, 0, err
	}

	dealer := NewDealer(id, game, logger, p.recorder)
	dealer.StartShift()

	p.lock.Lock()
	p.dealers[id] = dealer
	p.lock.Unlock()

	logger.WithField("playerID", pid).Info("session created")
	return dealer, pid, nil
}

// Join seats a new player in the session
func (p *PitBoss) Join(id, playerName string) (*Dealer, int64, error) {
	dealer, err := p.Dealer(id)
	if err != nil {
		return nil, 0, err
	}

	pid, err := dealer.Join(playerName)
	if err != nil {
		return nil, 0, err
	}

	return dealer, pid, nil
}

// Dealer returns the dealer of the session
func (p *PitBoss) Dealer(id string) (*Dealer, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	dealer, found := p.dealers[id]
	if !found {
		return nil, SessionNotFoundError{ID: id}
	}

	return dealer, nil
}

// Len returns the number of open sessions
func (p *PitBoss) Len() int {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return len(p.dealers)
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) error {
	dealer, err := p.Dealer(client.sessionID)
	if err != nil {
		return err
	}

	p.logger.WithField("client", client.String()).Debug("client connected")
	dealer.AddClient(client)
	return nil
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.logger.WithField("client", client.String()).Debug("client disconnected")
	if client.dealer == nil {
		return
	}

	client.dealer.RemoveClient(client)
}

// reap closes every session that has been idle longer than the TTL
func (p *PitBoss) reap(now time.Time) []string {
	if p.idleTTL <= 0 {
		return nil
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	reaped := make([]string, 0)
	for id, dealer := range p.dealers {
		if dealer.idleFor(now) <= p.idleTTL {
			continue
		}

		dealer.closeClients("session expired")
		dealer.EndShift()
		delete(p.dealers, id)
		reaped = append(reaped, id)
	}

	return reaped
}
