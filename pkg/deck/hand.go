package deck

// Hand represents a collection of cards
type Hand []Card

func (h Hand) Len() int {
	return len(h)
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(card Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card Card) bool {
	for _, c := range h {
		if c.Equal(card) {
			return true
		}
	}

	return false
}

// RemoveAt removes and returns the card at index i, preserving the order of the rest.
// The second return value is false if i is out of bounds.
func (h *Hand) RemoveAt(i int) (Card, bool) {
	if i < 0 || i >= len(*h) {
		return Card{}, false
	}

	card := (*h)[i]
	newHand := make(Hand, 0, len(*h)-1)
	newHand = append(newHand, (*h)[:i]...)
	newHand = append(newHand, (*h)[i+1:]...)

	*h = newHand
	return card, true
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
