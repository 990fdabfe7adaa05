package blackjack

import (
	"fmt"
	"strings"
)

// Suit is one of the four French suits.
type Suit uint8

// Suit constants
const (
	Hearts Suit = iota
	Diamonds
	Spades
	Clubs
)

// Suits lists every suit in population order.
var Suits = [...]Suit{Clubs, Spades, Diamonds, Hearts}

// String returns the suit name
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Spades:
		return "Spades"
	case Clubs:
		return "Clubs"
	default:
		return "Unknown"
	}
}

// Symbol returns the suit glyph used for display.
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Spades:
		return "♠"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Rank is one of the 13 standard ranks. Two is the lowest.
type Rank uint8

// Rank constants (Two through Ace)
const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank in population order.
var Ranks = [...]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankNames = [...]string{
	"Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Jack", "Queen", "King", "Ace",
}

var rankSymbols = [...]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// String returns the rank name, e.g. "Queen".
func (r Rank) String() string {
	if int(r) >= len(rankNames) {
		return "Unknown"
	}
	return rankNames[r]
}

// Symbol returns the short rank used on card faces ("2".."10", "J", "Q", "K", "A").
func (r Rank) Symbol() string {
	if int(r) >= len(rankSymbols) {
		return "?"
	}
	return rankSymbols[r]
}

// Value returns the base point value of the rank. Aces count 11 here;
// demotion to 1 is a property of a hand, not of the card.
func (r Rank) Value() int {
	switch {
	case r <= Ten:
		return int(r) + 2
	case r <= King:
		return 10
	case r == Ace:
		return 11
	default:
		return 0
	}
}

// Card is an immutable playing card. Cards compare equal by rank and suit.
type Card struct {
	rank Rank
	suit Suit
}

// NewCard creates a card from rank and suit
func NewCard(rank Rank, suit Suit) Card {
	return Card{rank: rank, suit: suit}
}

// Rank returns the card rank
func (c Card) Rank() Rank { return c.rank }

// Suit returns the card suit
func (c Card) Suit() Suit { return c.suit }

// Value returns the base point value (2-10, 10 for faces, 11 for an ace).
func (c Card) Value() int { return c.rank.Value() }

// IsAce reports whether the card is an ace
func (c Card) IsAce() bool { return c.rank == Ace }

// IsRed reports whether the card belongs to a red suit.
func (c Card) IsRed() bool { return c.suit == Hearts || c.suit == Diamonds }

// RankSymbol returns the display rank, e.g. "10" or "K".
func (c Card) RankSymbol() string { return c.rank.Symbol() }

// SuitSymbol returns the display suit glyph, e.g. "♠".
func (c Card) SuitSymbol() string { return c.suit.Symbol() }

// String returns the short representation, e.g. "A♠" or "10♥".
func (c Card) String() string {
	return c.RankSymbol() + c.SuitSymbol()
}

// Code returns the two-character ParseCard notation, e.g. "As" or "Th".
func (c Card) Code() string {
	rank := c.RankSymbol()
	if c.rank == Ten {
		rank = "T"
	}
	return rank + strings.ToLower(c.suit.String()[:1])
}

// MarshalText encodes the card in Code notation.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.Code()), nil
}

// UnmarshalText decodes a card written by MarshalText.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// index returns the card's position (0-51) in the canonical population.
func (c Card) index() int {
	for i, s := range Suits {
		if s == c.suit {
			return i*len(Ranks) + int(c.rank)
		}
	}
	return -1
}

// ParseCard parses strings like "As", "Th", "10h" or "kd" into a Card.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 3 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	rankPart, suitPart := strings.ToUpper(s[:len(s)-1]), s[len(s)-1]

	var rank Rank
	switch rankPart {
	case "2":
		rank = Two
	case "3":
		rank = Three
	case "4":
		rank = Four
	case "5":
		rank = Five
	case "6":
		rank = Six
	case "7":
		rank = Seven
	case "8":
		rank = Eight
	case "9":
		rank = Nine
	case "T", "10":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank: %q", rankPart)
	}

	var suit Suit
	switch suitPart {
	case 'h', 'H':
		suit = Hearts
	case 'd', 'D':
		suit = Diamonds
	case 's', 'S':
		suit = Spades
	case 'c', 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit: %c", suitPart)
	}

	return NewCard(rank, suit), nil
}

// MustParseCards parses each string with ParseCard and panics on failure.
// Intended for fixtures and tests.
func MustParseCards(strs ...string) []Card {
	cards := make([]Card, 0, len(strs))
	for _, s := range strs {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}
