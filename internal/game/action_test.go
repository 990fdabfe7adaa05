package game

import (
	"context"
	"testing"

	"github.com/lox/blackjack/blackjack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  Action
	}{
		{"s", Stand},
		{"S", Stand},
		{"stand", Stand},
		{" stick\n", Stand},
		{"h", Hit},
		{"HIT", Hit},
		{"t", Hit},
		{"twist", Hit},
		{"", ActionInvalid},
		{"fold", ActionInvalid},
		{"s t", ActionInvalid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAction(tt.input), "input %q", tt.input)
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "stand", Stand.String())
	assert.Equal(t, "hit", Hit.String())
	assert.Equal(t, "invalid", ActionInvalid.String())
}

func TestScriptedSource(t *testing.T) {
	src := NewScriptedSource(Hit, Stand)
	ctx := context.Background()

	a, err := src.NextAction(ctx, Turn{Player: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, Hit, a)
	assert.Equal(t, 1, src.Remaining())

	a, err = src.NextAction(ctx, Turn{Player: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, Stand, a)

	_, err = src.NextAction(ctx, Turn{Player: "Bob"})
	assert.ErrorIs(t, err, ErrScriptExhausted)
	assert.Len(t, src.Turns, 3)
}

func TestBasicStrategySource(t *testing.T) {
	up := func(s string) blackjack.Card {
		return blackjack.MustParseCards(s)[0]
	}
	tests := []struct {
		name   string
		points int
		upCard blackjack.Card
		want   Action
	}{
		{"low total always hits", 9, up("6h"), Hit},
		{"eleven hits", 11, up("As"), Hit},
		{"stiff against weak dealer stands", 13, up("5c"), Stand},
		{"stiff against strong dealer hits", 15, up("Td"), Hit},
		{"seventeen stands", 17, up("As"), Stand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := BasicStrategySource{}.NextAction(context.Background(), Turn{Points: tt.points, UpCard: tt.upCard})
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestSettle(t *testing.T) {
	hand := func(cards ...string) *blackjack.Hand {
		return blackjack.NewHand(blackjack.MustParseCards(cards...)...)
	}
	tests := []struct {
		name   string
		player *blackjack.Hand
		dealer *blackjack.Hand
		want   Outcome
	}{
		{"player bust loses even if dealer busts", hand("Ts", "9h", "5c"), hand("Td", "6h", "9c"), Lose},
		{"dealer bust", hand("Ts", "7h"), hand("Td", "6h", "9c"), Win},
		{"higher total wins", hand("Ts", "9h"), hand("Td", "8h"), Win},
		{"lower total loses", hand("Ts", "7h"), hand("Td", "8h"), Lose},
		{"equal totals push", hand("Ts", "8h"), hand("Td", "8c"), Push},
		{"natural beats three-card 21", hand("As", "Kh"), hand("7d", "7h", "7c"), Win},
		{"dealer natural beats three-card 21", hand("7d", "7h", "7c"), hand("As", "Kh"), Lose},
		{"both naturals push", hand("As", "Kh"), hand("Ad", "Qc"), Push},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, settle(tt.player, tt.dealer))
		})
	}
}

func TestPlayerScoreOnlyGrows(t *testing.T) {
	p := NewPlayer("Alice")
	assert.Zero(t, p.Score())
	p.AddScore()
	p.AddScore()
	assert.Equal(t, 2, p.Score())

	p.AddCard(blackjack.NewCard(blackjack.Ace, blackjack.Spades))
	p.AddCard(blackjack.NewCard(blackjack.King, blackjack.Hearts))
	assert.Equal(t, 21, p.Points())

	view := p.Hand()
	view.Add(blackjack.NewCard(blackjack.Five, blackjack.Clubs))
	assert.Len(t, p.Cards(), 2, "the hand view must not alias the player's hand")
}

func TestOutcomeStringRoundTrip(t *testing.T) {
	for _, o := range []Outcome{Lose, Push, Win} {
		assert.Equal(t, o, ParseOutcome(o.String()))
	}
	assert.Equal(t, Lose, ParseOutcome("bogus"))
}
