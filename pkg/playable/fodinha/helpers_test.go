package fodinha

import (
	"testing"

	"fodinha-server/internal/rng"
	"fodinha-server/pkg/deck"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// newTestGame returns a game with n seated players named after their seat
func newTestGame(t *testing.T, n int, opts Options) *Game {
	t.Helper()

	if opts.Generator == nil {
		opts.Generator = rng.NewSeeded(1)
	}

	g, err := NewGame(logrus.StandardLogger(), opts)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	names := []string{"Ana", "Bruno", "Carla", "Davi"}
	for i := 0; i < n; i++ {
		_, err := g.AddPlayer(names[i])
		assert.NoError(t, err)
	}

	return g
}

// stackedDeck returns a deck that deals the indicator first, then each hand in turn order
func stackedDeck(indicator string, hands ...string) *deck.Deck {
	cards := []deck.Card{deck.CardFromString(indicator)}
	for _, hand := range hands {
		cards = append(cards, deck.CardsFromString(hand)...)
	}

	d := deck.New(rng.NewSeeded(1))
	rest := make([]deck.Card, 0, deck.Size)
	for _, card := range d.Cards {
		if !deck.Hand(cards).HasCard(card) {
			rest = append(rest, card)
		}
	}

	d.Cards = append(cards, rest...)
	return d
}

// stackDecks makes the game deal the given decks in order, then shuffled decks
func stackDecks(g *Game, decks ...*deck.Deck) {
	g.newDeck = func() *deck.Deck {
		if len(decks) == 0 {
			return deck.NewShuffled(g.options.Generator)
		}

		d := decks[0]
		decks = decks[1:]
		return d
	}
}

// dealWithHandSize deals the opening round with a fixed hand size
func dealWithHandSize(t *testing.T, g *Game, size int, d *deck.Deck) {
	t.Helper()

	stackDecks(g, d)
	g.handSize = size
	g.growing = true
	assert.NoError(t, g.dealRound())
}

func assertCardsConserved(t *testing.T, g *Game) {
	t.Helper()

	r := g.round
	inHands := 0
	for _, player := range g.players {
		inHands += len(player.hand)
	}

	completed := r.trickNo - 1
	expected := len(g.players)*r.handSize - completed*len(g.players)
	assert.Equal(t, expected, inHands+len(r.table))
}

func bid(t *testing.T, g *Game, playerID int64, bid int) {
	t.Helper()
	assert.NoError(t, g.PlaceBid(playerID, bid))
}

func play(t *testing.T, g *Game, playerID int64, cardIndex int) {
	t.Helper()
	assert.NoError(t, g.PlayCard(playerID, cardIndex))
}
