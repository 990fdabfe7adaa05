package blackjack

import (
	"testing"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()
	aceSpades := NewCard(Ace, Spades)
	if aceSpades.Rank() != Ace {
		t.Errorf("Expected rank Ace, got %v", aceSpades.Rank())
	}
	if aceSpades.Suit() != Spades {
		t.Errorf("Expected suit Spades, got %v", aceSpades.Suit())
	}
	if !aceSpades.IsAce() {
		t.Error("Ace of spades should be an ace")
	}
	if aceSpades.String() != "A♠" {
		t.Errorf("Expected 'A♠', got %s", aceSpades.String())
	}

	tenHearts := NewCard(Ten, Hearts)
	if tenHearts.RankSymbol() != "10" || tenHearts.SuitSymbol() != "♥" {
		t.Errorf("Expected 10 ♥, got %s %s", tenHearts.RankSymbol(), tenHearts.SuitSymbol())
	}
	if !tenHearts.IsRed() {
		t.Error("Hearts should be red")
	}
	if NewCard(Two, Clubs).IsRed() {
		t.Error("Clubs should be black")
	}
}

func TestCardEquality(t *testing.T) {
	t.Parallel()
	if NewCard(Queen, Diamonds) != NewCard(Queen, Diamonds) {
		t.Error("cards with the same rank and suit should be equal")
	}
	if NewCard(Queen, Diamonds) == NewCard(Queen, Hearts) {
		t.Error("cards with different suits should differ")
	}
}

func TestRankValues(t *testing.T) {
	t.Parallel()
	want := map[Rank]int{
		Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8, Nine: 9,
		Ten: 10, Jack: 10, Queen: 10, King: 10, Ace: 11,
	}
	for rank, value := range want {
		if got := rank.Value(); got != value {
			t.Errorf("%s: expected value %d, got %d", rank, value, got)
		}
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		wantCard Card
		wantErr  bool
	}{
		{name: "ace of spades", input: "As", wantCard: NewCard(Ace, Spades)},
		{name: "ten with T", input: "Th", wantCard: NewCard(Ten, Hearts)},
		{name: "ten with 10", input: "10h", wantCard: NewCard(Ten, Hearts)},
		{name: "lowercase", input: "kd", wantCard: NewCard(King, Diamonds)},
		{name: "two of clubs", input: "2c", wantCard: NewCard(Two, Clubs)},
		{name: "invalid rank", input: "Xs", wantErr: true},
		{name: "invalid suit", input: "Ax", wantErr: true},
		{name: "too short", input: "A", wantErr: true},
		{name: "too long", input: "10hh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCard(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCard(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.wantCard {
				t.Errorf("ParseCard(%q) = %v, want %v", tt.input, got, tt.wantCard)
			}
		})
	}
}

func TestHandPoints(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		cards  []string
		points int
		bust   bool
		soft   bool
	}{
		{name: "empty", cards: nil, points: 0},
		{name: "ace king", cards: []string{"As", "Kh"}, points: 21, soft: true},
		{name: "two aces and nine", cards: []string{"As", "Ah", "9c"}, points: 21, soft: true},
		{name: "ten nine five", cards: []string{"Ts", "9h", "5c"}, points: 24, bust: true},
		{name: "four aces two sevens", cards: []string{"As", "Ah", "Ad", "Ac", "7s", "7h"}, points: 18},
		{name: "hard seventeen", cards: []string{"Ts", "7h"}, points: 17},
		{name: "soft seventeen", cards: []string{"As", "6h"}, points: 17, soft: true},
		{name: "aces all demoted and bust", cards: []string{"As", "Ah", "Kd", "Qc", "5s"}, points: 27, bust: true},
		{name: "two aces", cards: []string{"As", "Ah"}, points: 12, soft: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHand(MustParseCards(tt.cards...)...)
			if got := h.Points(); got != tt.points {
				t.Errorf("Points() = %d, want %d", got, tt.points)
			}
			if got := h.IsBust(); got != tt.bust {
				t.Errorf("IsBust() = %v, want %v", got, tt.bust)
			}
			if got := h.IsSoft(); got != tt.soft {
				t.Errorf("IsSoft() = %v, want %v", got, tt.soft)
			}
		})
	}
}

func TestHandIsPureFunctionOfContents(t *testing.T) {
	t.Parallel()
	h := NewHand(MustParseCards("As", "Ah", "9c")...)
	first := h.Points()
	for range 3 {
		if got := h.Points(); got != first {
			t.Fatalf("Points() changed between calls: %d then %d", first, got)
		}
	}
}

func TestHandCardsIsReadOnlyView(t *testing.T) {
	t.Parallel()
	h := NewHand(MustParseCards("As", "Kh")...)
	cards := h.Cards()
	cards[0] = NewCard(Two, Clubs)

	if got := h.Cards()[0]; got != NewCard(Ace, Spades) {
		t.Errorf("mutating the view changed the hand: first card is %v", got)
	}
	if h.Points() != 21 {
		t.Errorf("expected 21 after mutating the view, got %d", h.Points())
	}
}

func TestHandOrderAndBlackjack(t *testing.T) {
	t.Parallel()
	var h Hand
	if !h.IsEmpty() || h.IsBust() {
		t.Fatal("zero hand should be empty and not bust")
	}
	h.Add(NewCard(King, Hearts))
	h.Add(NewCard(Ace, Clubs))
	if !h.IsBlackjack() {
		t.Error("A+K in two cards should be a blackjack")
	}
	if h.String() != "K♥ A♣" {
		t.Errorf("expected draw order 'K♥ A♣', got %q", h.String())
	}

	h.Add(NewCard(Ten, Spades))
	if h.IsBlackjack() {
		t.Error("three-card 21 is not a blackjack")
	}
	if h.Points() != 21 {
		t.Errorf("expected 21, got %d", h.Points())
	}

	h.Clear()
	if h.Len() != 0 {
		t.Errorf("expected empty hand after Clear, got %d cards", h.Len())
	}
}

func TestCardCodeRoundTrip(t *testing.T) {
	t.Parallel()
	for _, s := range Suits {
		for _, r := range Ranks {
			c := NewCard(r, s)
			text, err := c.MarshalText()
			if err != nil {
				t.Fatalf("MarshalText(%v): %v", c, err)
			}
			var got Card
			if err := got.UnmarshalText(text); err != nil {
				t.Fatalf("UnmarshalText(%q): %v", text, err)
			}
			if got != c {
				t.Errorf("code %q decoded to %v, want %v", text, got, c)
			}
		}
	}
	if code := NewCard(Ten, Hearts).Code(); code != "Th" {
		t.Errorf("expected Th, got %s", code)
	}
}
