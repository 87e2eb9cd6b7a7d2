package deck

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Rank is the rank of a card. Ranks are ordered from weakest (Four) to strongest (Three)
type Rank int

// rank constants, in strength order
const (
	Four Rank = iota
	Five
	Six
	Seven
	Queen
	Jack
	King
	Ace
	Two
	Three
)

// RankCount is the number of ranks in the deck
const RankCount = 10

// trumpBase is added to the trump suit order, so every manilha outranks every other card
const trumpBase = 100

var rankSymbols = [RankCount]string{"4", "5", "6", "7", "Q", "J", "K", "A", "2", "3"}

// Ranks returns all ranks in strength order
func Ranks() []Rank {
	ranks := make([]Rank, RankCount)
	for i := range ranks {
		ranks[i] = Rank(i)
	}

	return ranks
}

// IsValid returns true if the rank is one of the ten ranks
func (r Rank) IsValid() bool {
	return r >= Four && r <= Three
}

// Next returns the rank that cyclically follows r. Three wraps around to Four.
func (r Rank) Next() Rank {
	return (r + 1) % RankCount
}

func (r Rank) String() string {
	if !r.IsValid() {
		return fmt.Sprintf("Rank(%d)", int(r))
	}

	return rankSymbols[r]
}

// Suit represents a card suit
type Suit string

// suit constants
const (
	Diamonds Suit = "diamonds"
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
)

// Suits returns the four suits
func Suits() []Suit {
	return []Suit{Diamonds, Spades, Hearts, Clubs}
}

// trumpSuitOrder ranks the manilhas among themselves
var trumpSuitOrder = map[Suit]int{
	Diamonds: 0,
	Spades:   1,
	Hearts:   2,
	Clubs:    3,
}

// tieBreakSuitOrder decides a fully cancelled final trick.
// It is kept apart from trumpSuitOrder even though the values currently agree.
var tieBreakSuitOrder = map[Suit]int{
	Diamonds: 0,
	Spades:   1,
	Hearts:   2,
	Clubs:    3,
}

// TrumpOrder returns the rank of the suit among the manilhas
func (s Suit) TrumpOrder() int {
	order, ok := trumpSuitOrder[s]
	if !ok {
		panic(fmt.Sprintf("unknown suit: %s", string(s)))
	}

	return order
}

// TieBreakOrder returns the rank of the suit when breaking a final-trick tie
func (s Suit) TieBreakOrder() int {
	order, ok := tieBreakSuitOrder[s]
	if !ok {
		panic(fmt.Sprintf("unknown suit: %s", string(s)))
	}

	return order
}

func (s Suit) symbol() string {
	switch s {
	case Diamonds:
		return "♦"
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Clubs:
		return "♣"
	default:
		panic("unknown suit")
	}
}

func (s Suit) letter() string {
	return string(s)[0:1]
}

// Card is an individual playing card
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit.symbol())
}

// Equal returns true if the cards are equal (matches suit and rank)
func (c Card) Equal(card Card) bool {
	return c.Suit == card.Suit && c.Rank == card.Rank
}

// IsTrump returns true if the card is a manilha for the given trump rank
func (c Card) IsTrump(trump Rank) bool {
	return c.Rank == trump
}

// Strength returns the strength of the card for the given trump rank.
// Non-trump cards are worth their rank order (0-9), manilhas are worth 100 + their trump suit order.
func (c Card) Strength(trump Rank) int {
	if c.IsTrump(trump) {
		return trumpBase + c.Suit.TrumpOrder()
	}

	return int(c.Rank)
}

// TrumpFor returns the trump rank (manilha) for the revealed indicator card
func TrumpFor(indicator Card) Rank {
	return indicator.Rank.Next()
}

// MarshalJSON encodes the card as its short string, e.g. "Qh"
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(CardToString(c))
}

// UnmarshalJSON decodes a short string, e.g. "Qh"
func (c *Card) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	card, err := ParseCard(s)
	if err != nil {
		return err
	}

	*c = card
	return nil
}

var cardRx = regexp.MustCompile(`(?i)^([4-7qjka23])([cdhs])\z`)

// ParseCard returns a Card from the string.
// The string must be in the format of <rank><suit> where rank is one of 4567QJKA23 and suit in [cdhs]
func ParseCard(s string) (Card, error) {
	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		return Card{}, fmt.Errorf("could not parse card: %q", s)
	}

	var rank Rank = -1
	for i, sym := range rankSymbols {
		if strings.EqualFold(sym, match[1]) {
			rank = Rank(i)
			break
		}
	}

	var suit Suit
	switch strings.ToLower(match[2]) {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// CardFromString is like ParseCard, but panics on an invalid string.
// Intended for tests and constants.
func CardFromString(s string) Card {
	card, err := ParseCard(s)
	if err != nil {
		panic(err)
	}

	return card
}

// CardsFromString will returns a slice of cards from a comma separated string
func CardsFromString(s string) []Card {
	if s == "" {
		return []Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(strings.TrimSpace(card))
	}

	return cards
}

// CardToString converts a card (Queen of Hearts) to a string (Qh)
func CardToString(card Card) string {
	return card.Rank.String() + card.Suit.letter()
}

// CardsToString will convert a slice of cards to a string in the format of 4c,Qh,3s,...
func CardsToString(cards []Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}
