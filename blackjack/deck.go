package blackjack

import (
	"errors"
	"math/rand/v2"
)

// DeckSize is the number of distinct cards in a single deck.
const DeckSize = 52

// ErrDeckExhausted is returned by Draw once every card has been drawn.
// Call Reset to make the full population drawable again.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is a single 52-card population drawn without replacement.
// Each draw picks uniformly among the cards not yet drawn; nothing is
// pre-shuffled.
type Deck struct {
	cards    [DeckSize]Card // Fixed population
	consumed [DeckSize]bool
	drawn    int
	rng      *rand.Rand // Random source for deterministic draws
}

// NewDeck creates a full deck. A nil rng uses the package-level source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	return d
}

// Draw removes a random card from the remaining candidates and returns it.
// The returned Card is a value; the deck keeps no reference to it.
func (d *Deck) Draw() (Card, error) {
	remaining := d.Remaining()
	if remaining == 0 {
		return Card{}, ErrDeckExhausted
	}

	candidates := make([]int, 0, remaining)
	for i, taken := range d.consumed {
		if !taken {
			candidates = append(candidates, i)
		}
	}

	var pick int
	if d.rng != nil {
		pick = d.rng.IntN(len(candidates))
	} else {
		pick = rand.IntN(len(candidates))
	}

	idx := candidates[pick]
	d.consumed[idx] = true
	d.drawn++
	return d.cards[idx], nil
}

// Reset makes all 52 cards drawable again. The population itself never changes.
func (d *Deck) Reset() {
	d.consumed = [DeckSize]bool{}
	d.drawn = 0
}

// Remaining returns the number of cards that can still be drawn
func (d *Deck) Remaining() int {
	return DeckSize - d.drawn
}

// Drawn returns the number of cards drawn since the last reset
func (d *Deck) Drawn() int {
	return d.drawn
}

// IsDrawn reports whether c has been drawn since the last reset.
func (d *Deck) IsDrawn(c Card) bool {
	idx := c.index()
	return idx >= 0 && d.consumed[idx]
}
