package game

import (
	"github.com/lox/blackjack/blackjack"
)

// Player is a named seat at the table. It exclusively owns its hand and
// keeps a score that only ever grows.
type Player struct {
	name  string
	hand  blackjack.Hand
	score int
}

// NewPlayer creates a player with an empty hand and a score of zero
func NewPlayer(name string) *Player {
	return &Player{name: name}
}

// Name returns the player's name
func (p *Player) Name() string { return p.name }

// AddCard adds a card to the player's hand
func (p *Player) AddCard(c blackjack.Card) {
	p.hand.Add(c)
}

// Cards returns the player's cards in draw order
func (p *Player) Cards() []blackjack.Card { return p.hand.Cards() }

// Points returns the player's hand total
func (p *Player) Points() int { return p.hand.Points() }

// IsBust reports whether the player's hand is over 21
func (p *Player) IsBust() bool { return p.hand.IsBust() }

// HasCards reports whether the player has been dealt in
func (p *Player) HasCards() bool { return !p.hand.IsEmpty() }

// Hand returns a copy of the player's hand for read-only inspection.
func (p *Player) Hand() *blackjack.Hand {
	return blackjack.NewHand(p.hand.Cards()...)
}

// Score returns the number of points the player has won across rounds
func (p *Player) Score() int { return p.score }

// AddScore increments the score by exactly one.
func (p *Player) AddScore() {
	p.score++
}

func (p *Player) clearHand() {
	p.hand.Clear()
}
