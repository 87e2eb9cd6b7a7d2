package fodinha

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Phase is the phase of the game
type Phase string

// phase constants
const (
	PhaseWaiting  Phase = "waiting"
	PhaseBidding  Phase = "bidding"
	PhasePlaying  Phase = "playing"
	PhaseScoring  Phase = "scoring"
	PhaseTerminal Phase = "terminal"
)

// transitions is the table of legal phase changes
var transitions = map[Phase][]Phase{
	PhaseWaiting:  {PhaseBidding},
	PhaseBidding:  {PhasePlaying},
	PhasePlaying:  {PhaseScoring},
	PhaseScoring:  {PhaseBidding, PhaseTerminal},
	PhaseTerminal: {},
}

// CanTransition returns true if the game may move from one phase to the other
func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}

	return false
}

// requirePhase returns a WrongPhaseError unless the game is in one of the phases
func (g *Game) requirePhase(phases ...Phase) error {
	for _, p := range phases {
		if g.phase == p {
			return nil
		}
	}

	return WrongPhaseError{Phase: g.phase}
}

// transition moves the game to the next phase
// an illegal transition is a programming error
func (g *Game) transition(to Phase) {
	if !CanTransition(g.phase, to) {
		panic(fmt.Sprintf("illegal phase transition: %s -> %s", g.phase, to))
	}

	g.logger.WithFields(logrus.Fields{
		"from": g.phase,
		"to":   to,
	}).Debug("phase transition")

	g.phase = to
}
