package fodinha

import (
	"errors"
	"testing"

	"fodinha-server/internal/rng"
	"fodinha-server/pkg/deck"
	"fodinha-server/pkg/snapshot"
	"github.com/stretchr/testify/assert"
)

func TestNewGame(t *testing.T) {
	g, err := NewGame(nil, Options{})
	assert.NoError(t, err)
	assert.Equal(t, PhaseWaiting, g.Phase())
	assert.Equal(t, 3, g.options.InitialLives)
	assert.Equal(t, 4, g.options.MaxPlayers)
	assert.Equal(t, StartFromOne, g.options.StartFrom)
	assert.NotNil(t, g.options.Generator)

	g, err = NewGame(nil, Options{MaxPlayers: 5})
	assert.Nil(t, g)
	assert.EqualError(t, err, "expected 2–4 players, got 5")

	g, err = NewGame(nil, Options{MaxPlayers: 1})
	assert.Nil(t, g)
	assert.EqualError(t, err, "expected 2–4 players, got 1")

	g, err = NewGame(nil, Options{InitialLives: -1})
	assert.Nil(t, g)
	assert.EqualError(t, err, "initial lives must be positive, got -1")

	g, err = NewGame(nil, Options{StartFrom: "middle"})
	assert.Nil(t, g)
	assert.EqualError(t, err, "unknown start from: middle")
}

func TestGame_AddPlayer(t *testing.T) {
	g, err := NewGame(nil, Options{MaxPlayers: 2})
	assert.NoError(t, err)

	pid, err := g.AddPlayer("  ")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), pid)
	p, ok := g.PlayerByID(1)
	assert.True(t, ok)
	assert.Equal(t, "Player 1", p.Name)
	assert.Equal(t, 3, p.Lives())

	assert.Equal(t, NotEnoughPlayersError{Got: 1}, g.StartRound())
	assert.Equal(t, PhaseWaiting, g.Phase())

	pid, err = g.AddPlayer(" Bruno ")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), pid)
	p, _ = g.PlayerByID(2)
	assert.Equal(t, "Bruno", p.Name)

	_, err = g.AddPlayer("Carla")
	assert.Equal(t, ErrSessionFull, err)

	assert.NoError(t, g.StartRound())
	assert.Equal(t, PhaseBidding, g.Phase())

	_, err = g.AddPlayer("Carla")
	assert.Equal(t, ErrSessionAlreadyStarted, err)
	assert.Equal(t, WrongPhaseError{Phase: PhaseBidding}, g.StartRound())
	assert.Len(t, g.Players(), 2)
}

func TestGame_TwoPlayersOneCard(t *testing.T) {
	g := newTestGame(t, 2, Options{})
	stackDecks(g, stackedDeck("7h", "4c", "5d"))

	assert.NoError(t, g.StartRound())
	assert.Equal(t, PhaseBidding, g.Phase())
	assert.Equal(t, deck.Queen, g.round.trump)

	state := g.GetState()
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, 1, state.HandSize)
	assert.Equal(t, int64(1), state.DealerID)
	assert.Equal(t, int64(2), state.CurrentTurn)
	assert.Equal(t, "Q", state.Trump)
	assert.Equal(t, deck.CardFromString("7h"), *state.Indicator)
	assert.Equal(t, "5d", state.Players[0].Hand.String())
	assert.Equal(t, "4c", state.Players[1].Hand.String())

	// the player after the dealer bids first
	assert.Equal(t, OutOfTurnError{Expected: 2}, g.PlaceBid(1, 0))
	assert.Equal(t, InvalidBidError{Bid: 2, Max: 1}, g.PlaceBid(2, 2))
	assert.Equal(t, InvalidBidError{Bid: -1, Max: 1}, g.PlaceBid(2, -1))
	assert.Equal(t, WrongPhaseError{Phase: PhaseBidding}, g.PlayCard(2, 0))

	bid(t, g, 2, 0)
	assert.Equal(t, ClosingBidForbiddenError{Bid: 1, HandSize: 1}, g.PlaceBid(1, 1))
	bid(t, g, 1, 0)

	assert.Equal(t, PhasePlaying, g.Phase())
	assert.Equal(t, int64(2), g.GetState().CurrentTurn)
	assert.Equal(t, 1, g.round.trickNo)

	assert.Equal(t, OutOfTurnError{Expected: 2}, g.PlayCard(1, 0))
	assert.Equal(t, InvalidCardIndexError{Index: 1, HandSize: 1}, g.PlayCard(2, 1))
	assert.Equal(t, WrongPhaseError{Phase: PhasePlaying}, g.PlaceBid(2, 0))

	play(t, g, 2, 0)
	assertCardsConserved(t, g)
	play(t, g, 1, 0)

	// the next round is dealt straight away
	p1, _ := g.PlayerByID(1)
	p2, _ := g.PlayerByID(2)
	assert.Equal(t, 2, p1.Lives())
	assert.Equal(t, 3, p2.Lives())

	assert.Equal(t, &TrickResult{
		Number: 1,
		Cards: []PlayedCard{
			{PlayerID: 2, Card: deck.CardFromString("4c")},
			{PlayerID: 1, Card: deck.CardFromString("5d")},
		},
		WinnerID:      1,
		TricksAwarded: 1,
	}, g.lastTrick)

	assert.Equal(t, &RoundResult{
		Number:   1,
		HandSize: 1,
		Trump:    "Q",
		Players: []*RoundPlayerResult{
			{PlayerID: 1, Bid: 0, TricksWon: 1, LivesLost: 1, Lives: 2},
			{PlayerID: 2, Bid: 0, TricksWon: 0, LivesLost: 0, Lives: 3},
		},
	}, g.lastRound)

	state = g.GetState()
	assert.Equal(t, PhaseBidding, state.Phase)
	assert.Equal(t, 2, state.Round)
	assert.Equal(t, 2, state.HandSize)
	assert.Equal(t, int64(2), state.DealerID)
	assert.Equal(t, int64(1), state.CurrentTurn)
	assert.Len(t, p1.Hand(), 2)
	assert.Len(t, p2.Hand(), 2)
	assert.Equal(t, 0, p1.TricksWon())
	_, hasBid := p1.Bid()
	assert.False(t, hasBid)
}

func TestGame_MultiplierLaw(t *testing.T) {
	g := newTestGame(t, 2, Options{PauseBetweenRounds: true})
	dealWithHandSize(t, g, 3, stackedDeck("4c", "6c,7c,Kc", "6d,7d,Ad"))
	assert.Equal(t, deck.Five, g.round.trump)

	bid(t, g, 2, 0)
	bid(t, g, 1, 1)

	// trick 1 cancels, the last player leads the next one
	play(t, g, 2, 0)
	assertCardsConserved(t, g)
	play(t, g, 1, 0)
	assertCardsConserved(t, g)
	assert.True(t, g.lastTrick.Cancelled)
	assert.Equal(t, int64(0), g.lastTrick.WinnerID)
	assert.Equal(t, 2, g.round.multiplier)
	assert.Equal(t, int64(1), g.GetState().CurrentTurn)

	// trick 2 cancels too
	play(t, g, 1, 0)
	assertCardsConserved(t, g)
	play(t, g, 2, 0)
	assert.True(t, g.lastTrick.Cancelled)
	assert.Equal(t, 3, g.round.multiplier)
	assert.Equal(t, int64(2), g.GetState().CurrentTurn)

	// trick 3 is won and carries the whole multiplier
	play(t, g, 2, 0)
	play(t, g, 1, 0)
	assert.Equal(t, PhaseScoring, g.Phase())
	assert.Equal(t, int64(1), g.lastTrick.WinnerID)
	assert.Equal(t, 3, g.lastTrick.TricksAwarded)
	assert.Equal(t, 1, g.round.multiplier)
	assert.Len(t, g.round.cancelled, 4)
	assertCardsConserved(t, g)

	p1, _ := g.PlayerByID(1)
	p2, _ := g.PlayerByID(2)
	assert.Equal(t, 3, p1.TricksWon())
	assert.Equal(t, 1, p1.Lives())
	assert.Equal(t, 3, p2.Lives())
	assert.Equal(t, int64(0), g.GetState().CurrentTurn)

	snapshot.Validate(t, g.GetState())

	assert.NoError(t, g.StartRound())
	assert.Equal(t, PhaseBidding, g.Phase())
	assert.Equal(t, 4, g.round.handSize)
	assert.Equal(t, int64(2), g.GetState().DealerID)
	assert.Equal(t, int64(1), g.GetState().CurrentTurn)
}

func TestGame_TieThenStrongerCard(t *testing.T) {
	g := newTestGame(t, 3, Options{PauseBetweenRounds: true})
	stackDecks(g, stackedDeck("4c", "6c", "6d", "Kh"))
	assert.NoError(t, g.StartRound())

	bid(t, g, 2, 0)
	bid(t, g, 3, 0)
	assert.Equal(t, ClosingBidForbiddenError{Bid: 1, HandSize: 1}, g.PlaceBid(1, 1))
	bid(t, g, 1, 0)

	play(t, g, 2, 0)
	assert.Equal(t, int64(2), g.round.leader.player.PlayerID)

	play(t, g, 3, 0)
	assert.Nil(t, g.round.leader)
	assert.Len(t, g.round.cancelled, 2)

	play(t, g, 1, 0)
	assert.Equal(t, PhaseScoring, g.Phase())
	assert.Equal(t, int64(1), g.lastTrick.WinnerID)
	assert.Equal(t, 1, g.lastTrick.TricksAwarded)
	assert.False(t, g.lastTrick.Cancelled)

	state := g.GetState()
	assert.Equal(t, []PlayedCard{
		{PlayerID: 2, Card: deck.CardFromString("6c")},
		{PlayerID: 3, Card: deck.CardFromString("6d")},
	}, state.Cancelled)
	assert.Equal(t, 2, state.Players[0].Lives)
	assert.Equal(t, 3, state.Players[1].Lives)
	assert.Equal(t, 3, state.Players[2].Lives)
}

func TestGame_CancelledFinalTrick(t *testing.T) {
	g := newTestGame(t, 4, Options{PauseBetweenRounds: true})
	stackDecks(g, stackedDeck("4c", "6c", "6d", "6h", "4h"))
	assert.NoError(t, g.StartRound())

	bid(t, g, 2, 0)
	bid(t, g, 3, 0)
	bid(t, g, 4, 0)
	bid(t, g, 1, 0)

	play(t, g, 2, 0)
	play(t, g, 3, 0)
	// equal to the cancelled strength with no leader
	play(t, g, 4, 0)
	assert.Len(t, g.round.cancelled, 3)
	assert.Nil(t, g.round.leader)
	// lower cards change nothing
	play(t, g, 1, 0)

	assert.Equal(t, PhaseScoring, g.Phase())
	assert.True(t, g.lastTrick.Cancelled)
	assert.True(t, g.lastTrick.TieBreak)
	assert.Equal(t, int64(2), g.lastTrick.WinnerID)
	assert.Equal(t, 1, g.lastTrick.TricksAwarded)

	p2, _ := g.PlayerByID(2)
	assert.Equal(t, 2, p2.Lives())
}

func TestGame_TieBreakUsesEveryCancelledCard(t *testing.T) {
	g := newTestGame(t, 2, Options{PauseBetweenRounds: true})
	dealWithHandSize(t, g, 2, stackedDeck("4c", "6c,7d", "6d,7h"))

	bid(t, g, 2, 2)
	assert.Equal(t, ClosingBidForbiddenError{Bid: 0, HandSize: 2}, g.PlaceBid(1, 0))
	bid(t, g, 1, 1)

	play(t, g, 2, 0) // 6c
	play(t, g, 1, 0) // 6d
	assert.Equal(t, 2, g.round.multiplier)

	play(t, g, 1, 0) // 7h
	play(t, g, 2, 0) // 7d

	// 7h beats 7d on suit, but 6c from the first trick is the best of the round
	assert.Equal(t, PhaseScoring, g.Phase())
	assert.True(t, g.lastTrick.TieBreak)
	assert.Equal(t, int64(2), g.lastTrick.WinnerID)
	assert.Equal(t, 2, g.lastTrick.TricksAwarded)
	assert.Equal(t, 1, g.round.multiplier)

	assert.Equal(t, []*RoundPlayerResult{
		{PlayerID: 1, Bid: 1, TricksWon: 0, LivesLost: 1, Lives: 2},
		{PlayerID: 2, Bid: 2, TricksWon: 2, LivesLost: 0, Lives: 3},
	}, g.lastRound.Players)
}

func TestGame_Manilha(t *testing.T) {
	g := newTestGame(t, 2, Options{PauseBetweenRounds: true})
	// 3 wraps around to 4, a low 4 of diamonds beats the 3 of clubs
	dealWithHandSize(t, g, 2, stackedDeck("3s", "3c,4d", "4s,5c"))
	assert.Equal(t, deck.Four, g.round.trump)

	bid(t, g, 2, 1)
	bid(t, g, 1, 0)

	play(t, g, 2, 0) // 3c
	play(t, g, 1, 0) // 4s
	assert.Equal(t, int64(1), g.lastTrick.WinnerID)

	play(t, g, 1, 0) // 5c
	play(t, g, 2, 0) // 4d
	assert.Equal(t, int64(2), g.lastTrick.WinnerID)

	assert.Equal(t, []*RoundPlayerResult{
		{PlayerID: 1, Bid: 0, TricksWon: 1, LivesLost: 1, Lives: 2},
		{PlayerID: 2, Bid: 1, TricksWon: 1, LivesLost: 0, Lives: 3},
	}, g.lastRound.Players)
}

func TestGame_Elimination(t *testing.T) {
	g := newTestGame(t, 2, Options{InitialLives: 1})
	stackDecks(g, stackedDeck("7h", "4c", "5d"))
	assert.NoError(t, g.StartRound())

	_, over := g.GetEndOfGameDetails()
	assert.False(t, over)

	bid(t, g, 2, 0)
	bid(t, g, 1, 0)
	play(t, g, 2, 0)
	play(t, g, 1, 0)

	assert.Equal(t, PhaseTerminal, g.Phase())
	state := g.GetState()
	assert.Equal(t, []int64{1}, state.Eliminated)
	assert.Equal(t, []int64{2}, state.Winners)
	assert.Equal(t, int64(0), state.CurrentTurn)

	details, over := g.GetEndOfGameDetails()
	assert.True(t, over)
	assert.Equal(t, map[int64]string{1: "Ana", 2: "Bruno"}, details.Players)
	assert.Equal(t, []int64{2}, details.Winners)
	assert.Equal(t, []int64{1}, details.Eliminated)
	assert.Equal(t, g.lastRound, details.Log)

	assert.Equal(t, WrongPhaseError{Phase: PhaseTerminal}, g.StartRound())
	assert.Equal(t, WrongPhaseError{Phase: PhaseTerminal}, g.PlaceBid(2, 0))
	assert.Equal(t, WrongPhaseError{Phase: PhaseTerminal}, g.PlayCard(2, 0))
}

func TestGame_FailuresLeaveStateUnchanged(t *testing.T) {
	g := newTestGame(t, 3, Options{})
	dealWithHandSize(t, g, 2, stackedDeck("4c", "6c,7c", "6d,7d", "Kh,Ah"))

	before := g.GetState()
	assert.Error(t, g.PlaceBid(1, 0))
	assert.Error(t, g.PlaceBid(2, 3))
	assert.Error(t, g.PlayCard(2, 0))
	assert.Equal(t, before, g.GetState())

	bid(t, g, 2, 1)
	bid(t, g, 3, 0)
	before = g.GetState()
	assert.Error(t, g.PlaceBid(1, 1))
	assert.Equal(t, before, g.GetState())
	bid(t, g, 1, 0)

	play(t, g, 2, 1)
	before = g.GetState()
	assert.Error(t, g.PlayCard(3, 2))
	assert.Error(t, g.PlayCard(3, -1))
	assert.Error(t, g.PlayCard(1, 0))
	assert.Equal(t, before, g.GetState())
}

func TestGame_StartFromMax(t *testing.T) {
	g := newTestGame(t, 4, Options{StartFrom: StartFromMax})
	assert.NoError(t, g.StartRound())

	assert.Equal(t, 9, g.round.handSize)
	assert.False(t, g.growing)
	for _, player := range g.players {
		assert.Len(t, player.hand, 9)
	}

	assert.Equal(t, deck.Size-1-36, g.round.deck.CardsLeft())
}

func TestGame_Determinism(t *testing.T) {
	a := newTestGame(t, 3, Options{Generator: rng.NewSeeded(42)})
	b := newTestGame(t, 3, Options{Generator: rng.NewSeeded(42)})

	playOut(t, a)
	playOut(t, b)

	assert.Equal(t, PhaseTerminal, a.Phase())
	assert.Equal(t, a.GetState(), b.GetState())
}

func TestGame_FullGames(t *testing.T) {
	for players := 2; players <= 4; players++ {
		for seed := int64(1); seed <= 5; seed++ {
			g := newTestGame(t, players, Options{Generator: rng.NewSeeded(seed)})
			playOut(t, g)
			assert.Equal(t, PhaseTerminal, g.Phase())
			assert.NotEmpty(t, g.winners)
			assert.NotEmpty(t, g.eliminated)
		}
	}
}

// playOut plays the game to the end, bidding zero where allowed and always playing the first card
func playOut(t *testing.T, g *Game) {
	t.Helper()

	if !assert.NoError(t, g.StartRound()) {
		return
	}

	lives := make(map[int64]int)
	var lastRound *RoundResult
	for i := 0; i < 10000 && g.Phase() != PhaseTerminal; i++ {
		turn := g.GetState().CurrentTurn
		switch g.Phase() {
		case PhaseBidding:
			err := g.PlaceBid(turn, 0)
			var closing ClosingBidForbiddenError
			if errors.As(err, &closing) {
				err = g.PlaceBid(turn, 1)
			}

			assert.NoError(t, err)
		case PhasePlaying:
			assertCardsConserved(t, g)
			assert.NoError(t, g.PlayCard(turn, 0))
		default:
			t.Fatalf("unexpected phase %s", g.Phase())
		}

		if g.lastRound != lastRound {
			lastRound = g.lastRound

			tricks, lost := 0, 0
			for _, pr := range lastRound.Players {
				tricks += pr.TricksWon
				lost += pr.LivesLost

				if before, ok := lives[pr.PlayerID]; ok {
					assert.Equal(t, before-pr.LivesLost, pr.Lives)
				}

				lives[pr.PlayerID] = pr.Lives
			}

			assert.Equal(t, lastRound.HandSize, tricks)
			assert.GreaterOrEqual(t, lost, 1)
		}
	}
}
