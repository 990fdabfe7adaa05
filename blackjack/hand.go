package blackjack

import "strings"

const (
	// Target is the highest non-bust point total.
	Target = 21

	// softReduction is the amount an ace loses when demoted from 11 to 1.
	softReduction = 10
)

// Hand is an ordered, append-only collection of cards owned by one participant.
// The zero value is an empty hand ready to use.
type Hand struct {
	cards []Card
}

// NewHand creates a hand holding the given cards in order.
func NewHand(cards ...Card) *Hand {
	h := &Hand{}
	for _, c := range cards {
		h.Add(c)
	}
	return h
}

// Add appends a card to the hand
func (h *Hand) Add(c Card) {
	h.cards = append(h.cards, c)
}

// Cards returns the cards in draw order. The slice is a copy.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards held
func (h *Hand) Len() int { return len(h.cards) }

// IsEmpty reports whether the hand holds no cards
func (h *Hand) IsEmpty() bool { return len(h.cards) == 0 }

// Clear empties the hand. Rounds never call this; resetting hands between
// rounds is the caller's decision.
func (h *Hand) Clear() {
	h.cards = nil
}

// Points returns the hand total with soft aces demoted as needed.
func (h *Hand) Points() int {
	points, _ := h.evaluate()
	return points
}

// IsSoft reports whether at least one ace is still counted as 11.
func (h *Hand) IsSoft() bool {
	_, soft := h.evaluate()
	return soft > 0
}

// IsBust reports whether the total exceeds 21
func (h *Hand) IsBust() bool {
	return h.Points() > Target
}

// IsBlackjack reports whether the hand is a natural: two cards totalling 21.
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Points() == Target
}

// evaluate sums base values (aces at 11) and then demotes one soft ace per
// step while the total is over 21. It returns the total and the number of
// aces still counted as 11.
func (h *Hand) evaluate() (points, soft int) {
	for _, c := range h.cards {
		points += c.Value()
		if c.IsAce() {
			soft++
		}
	}

	for points > Target && soft > 0 {
		points -= softReduction
		soft--
	}
	return points, soft
}

// String returns the cards separated by spaces, e.g. "A♠ K♥".
func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
