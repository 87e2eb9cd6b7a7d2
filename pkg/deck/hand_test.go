package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_RemoveAt(t *testing.T) {
	a := assert.New(t)

	h := Hand(CardsFromString("4c,5c,6c"))
	card, ok := h.RemoveAt(1)
	a.True(ok)
	a.Equal(CardFromString("5c"), card)
	a.Equal("4c,6c", h.String())

	_, ok = h.RemoveAt(2)
	a.False(ok)
	_, ok = h.RemoveAt(-1)
	a.False(ok)
	a.Equal(2, h.Len())
}

func TestHand_Clone(t *testing.T) {
	h := Hand(CardsFromString("Qh,Jh"))
	clone := h.Clone()
	clone[0] = CardFromString("3s")

	assert.Equal(t, "Qh,Jh", h.String())
	assert.True(t, h.HasCard(CardFromString("Jh")))
	assert.False(t, h.HasCard(CardFromString("3s")))

	h.AddCard(CardFromString("3s"))
	assert.Equal(t, 3, h.Len())
}
