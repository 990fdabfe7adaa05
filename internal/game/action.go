package game

import (
	"context"
	"strings"

	"github.com/lox/blackjack/blackjack"
)

// Action is a participant's choice on their turn.
type Action int

const (
	// ActionInvalid is any unrecognised input. It never changes game state;
	// the same participant is simply asked again.
	ActionInvalid Action = iota
	Stand
	Hit
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	default:
		return "invalid"
	}
}

// ParseAction maps user input to an action. "s", "stand" and "stick" stand;
// "h", "hit", "t" and "twist" hit. Everything else is ActionInvalid.
func ParseAction(input string) Action {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "s", "stand", "stick":
		return Stand
	case "h", "hit", "t", "twist":
		return Hit
	default:
		return ActionInvalid
	}
}

// Turn is the read-only view of the table given to an ActionSource.
type Turn struct {
	Round   int              // 1-based number of the round being played
	Player  string           // Name of the participant to act
	Cards   []blackjack.Card // Participant's cards in draw order
	Points  int              // Participant's current total
	UpCard  blackjack.Card   // Dealer's first card
	Attempt int              // Number of unrecognised answers so far this prompt
}

// ActionSource supplies actions for participants. It is called synchronously
// each time a participant must act; returning ActionInvalid makes the game
// ask again. A non-nil error aborts the round.
type ActionSource interface {
	NextAction(ctx context.Context, turn Turn) (Action, error)
}

// ActionSourceFunc adapts a function to the ActionSource interface
type ActionSourceFunc func(ctx context.Context, turn Turn) (Action, error)

// NextAction calls f(ctx, turn)
func (f ActionSourceFunc) NextAction(ctx context.Context, turn Turn) (Action, error) {
	return f(ctx, turn)
}
