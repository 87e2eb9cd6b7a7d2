package deck

import (
	"testing"

	"fodinha-server/internal/rng"
	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	deck := New(rng.NewSeeded(1))

	assert.Equal(t, 40, deck.CardsLeft())
	assert.Equal(t, Card{Rank: Four, Suit: Diamonds}, deck.Cards[0])
	assert.Equal(t, Card{Rank: Three, Suit: Clubs}, deck.Cards[39])

	unshuffled := deck.HashCode()

	deck.Shuffle()
	assert.Equal(t, 40, deck.CardsLeft())
	assert.NotEqual(t, unshuffled, deck.HashCode())

	seen := make(map[Card]bool)
	for _, card := range deck.Cards {
		assert.False(t, seen[card], "duplicate card %s", card)
		seen[card] = true
	}

	assert.Equal(t, 40, len(seen))
}

func TestDeck_Shuffle_Deterministic(t *testing.T) {
	d1 := NewShuffled(rng.NewSeeded(7))
	d2 := NewShuffled(rng.NewSeeded(7))
	assert.Equal(t, d1.HashCode(), d2.HashCode())

	// decks never share their card slice
	_, _ = d1.Draw()
	assert.Equal(t, 39, d1.CardsLeft())
	assert.Equal(t, 40, d2.CardsLeft())
}

func TestDeck_Shuffle_Rebuilds(t *testing.T) {
	deck := NewShuffled(rng.NewSeeded(3))
	for i := 0; i < 10; i++ {
		_, _ = deck.Draw()
	}

	deck.Shuffle()
	assert.Equal(t, 40, deck.CardsLeft())
}

func TestDeck_Shuffle_Uniformish(t *testing.T) {
	// every card should be able to reach the top of the deck
	gen := rng.NewSeeded(11)
	top := make(map[Card]bool)
	for i := 0; i < 2000; i++ {
		top[NewShuffled(gen).Cards[0]] = true
	}

	assert.Equal(t, 40, len(top))
}

func TestDeck_Draw(t *testing.T) {
	deck := New(nil)

	assert.True(t, deck.CanDraw(40))
	assert.False(t, deck.CanDraw(41))

	for i := 0; i < 40; i++ {
		card, err := deck.Draw()
		assert.NoError(t, err)
		assert.True(t, card.Rank.IsValid())
	}

	card, err := deck.Draw()
	assert.Equal(t, Card{}, card)
	assert.Equal(t, ErrEndOfDeck, err)
	assert.Equal(t, 0, deck.CardsLeft())
}
