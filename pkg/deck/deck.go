package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"

	"fodinha-server/internal/rng"
)

// Size is the number of cards in a full deck
const Size = RankCount * 4

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents a playing deck
type Deck struct {
	Cards []Card `json:"cards"`
	rng   rng.Generator
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
// If gen is nil, a crypto backed generator is used
func New(gen rng.Generator) *Deck {
	if gen == nil {
		gen = rng.Crypto{}
	}

	d := &Deck{rng: gen}
	d.buildDeck()
	return d
}

// NewShuffled returns a freshly built and shuffled deck
func NewShuffled(gen rng.Generator) *Deck {
	d := New(gen)
	d.Shuffle()
	return d
}

func (d *Deck) buildDeck() {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits() {
		for _, rank := range Ranks() {
			cards = append(cards, Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Shuffle rebuilds the full deck and shuffles it with a Fisher-Yates shuffle
func (d *Deck) Shuffle() {
	d.buildDeck()

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(CardToString(card)))
	}

	return hex.EncodeToString(hash.Sum(nil))
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a zero card.
func (d *Deck) Draw() (Card, error) {
	if len(d.Cards) <= 0 {
		return Card{}, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
