package blackjack

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func newTestRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestDeckPopulation(t *testing.T) {
	t.Parallel()
	d := NewDeck(newTestRNG(1))
	if d.Remaining() != DeckSize {
		t.Fatalf("new deck should have %d cards, got %d", DeckSize, d.Remaining())
	}

	seen := make(map[Card]bool)
	for _, c := range d.cards {
		if seen[c] {
			t.Fatalf("duplicate card in population: %v", c)
		}
		seen[c] = true
		if c.index() < 0 || d.cards[c.index()] != c {
			t.Errorf("index mismatch for %v", c)
		}
	}
}

func TestDeckDrawsAreDistinct(t *testing.T) {
	t.Parallel()
	d := NewDeck(newTestRNG(42))
	seen := make(map[Card]bool)

	for i := range DeckSize {
		c, err := d.Draw()
		if err != nil {
			t.Fatalf("draw %d failed: %v", i+1, err)
		}
		if seen[c] {
			t.Fatalf("card %v drawn twice", c)
		}
		if !d.IsDrawn(c) {
			t.Errorf("card %v should be marked drawn", c)
		}
		seen[c] = true

		if d.Remaining() != DeckSize-(i+1) {
			t.Errorf("after %d draws expected %d remaining, got %d", i+1, DeckSize-(i+1), d.Remaining())
		}
	}
}

func TestDeckExhaustionAndReset(t *testing.T) {
	t.Parallel()
	d := NewDeck(newTestRNG(3))
	for range DeckSize {
		if _, err := d.Draw(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if _, err := d.Draw(); !errors.Is(err, ErrDeckExhausted) {
		t.Fatalf("53rd draw should fail with ErrDeckExhausted, got %v", err)
	}

	d.Reset()
	if d.Remaining() != DeckSize {
		t.Fatalf("reset should restore %d cards, got %d", DeckSize, d.Remaining())
	}
	if _, err := d.Draw(); err != nil {
		t.Fatalf("draw after reset failed: %v", err)
	}
}

func TestDeckResetFromPartialDraw(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, 1, 17, 51} {
		d := NewDeck(newTestRNG(uint64(n)))
		for range n {
			_, _ = d.Draw()
		}
		d.Reset()
		if d.Remaining() != DeckSize || d.Drawn() != 0 {
			t.Errorf("after %d draws and reset: remaining=%d drawn=%d", n, d.Remaining(), d.Drawn())
		}
	}
}

func TestDeckDeterministicWithSeed(t *testing.T) {
	t.Parallel()
	a := NewDeck(newTestRNG(11))
	b := NewDeck(newTestRNG(11))
	for range 10 {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			t.Fatalf("same seed produced %v and %v", ca, cb)
		}
	}
}

func TestDeckNilRNG(t *testing.T) {
	t.Parallel()
	d := NewDeck(nil)
	if _, err := d.Draw(); err != nil {
		t.Fatalf("draw with package source failed: %v", err)
	}
}

func TestDeckDrawCoversWholePopulation(t *testing.T) {
	t.Parallel()
	// Every card should be reachable as a first draw across seeds.
	firsts := make(map[Card]bool)
	for seed := range uint64(2000) {
		d := NewDeck(newTestRNG(seed))
		c, _ := d.Draw()
		firsts[c] = true
	}
	if len(firsts) != DeckSize {
		t.Errorf("expected all %d cards as a first draw across seeds, saw %d", DeckSize, len(firsts))
	}
}
