package game

import (
	"context"
	"time"

	"github.com/lox/blackjack/blackjack"
)

// Outcome is a participant's result against the dealer.
type Outcome int

const (
	Lose Outcome = iota
	Push
	Win
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Push:
		return "push"
	default:
		return "lose"
	}
}

// ParseOutcome is the inverse of Outcome.String. Unknown values are Lose.
func ParseOutcome(s string) Outcome {
	switch s {
	case "win":
		return Win
	case "push":
		return Push
	default:
		return Lose
	}
}

// HandResult is one hand's final state at the end of a round.
type HandResult struct {
	Name      string
	Cards     []blackjack.Card
	Points    int
	Bust      bool
	Blackjack bool
	Outcome   Outcome // Unused for the dealer
	Score     int     // Cumulative score after this round
}

// RoundResult is the settled outcome of one round.
type RoundResult struct {
	ID       string
	Round    int
	Started  time.Time
	Finished time.Time
	Dealer   HandResult
	Players  []HandResult
}

// Winners returns the names of participants who beat the dealer
func (r RoundResult) Winners() []string {
	var names []string
	for _, p := range r.Players {
		if p.Outcome == Win {
			names = append(names, p.Name)
		}
	}
	return names
}

// Recorder persists round results. A recorder error is logged and does not
// undo the round.
type Recorder interface {
	RecordRound(ctx context.Context, result RoundResult) error
}

// settle compares one participant hand against the dealer's.
func settle(player, dealer *blackjack.Hand) Outcome {
	switch {
	case player.IsBust():
		return Lose
	case dealer.IsBust():
		return Win
	case player.IsBlackjack() && !dealer.IsBlackjack():
		return Win
	case dealer.IsBlackjack() && !player.IsBlackjack():
		return Lose
	case player.Points() > dealer.Points():
		return Win
	case player.Points() < dealer.Points():
		return Lose
	default:
		return Push
	}
}

func handResult(p *Player) HandResult {
	return HandResult{
		Name:      p.name,
		Cards:     p.hand.Cards(),
		Points:    p.hand.Points(),
		Bust:      p.hand.IsBust(),
		Blackjack: p.hand.IsBlackjack(),
		Score:     p.score,
	}
}
