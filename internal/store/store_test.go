package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "blackjack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func hand(name string, outcome game.Outcome, cards ...string) game.HandResult {
	h := blackjack.NewHand(blackjack.MustParseCards(cards...)...)
	return game.HandResult{
		Name:      name,
		Cards:     h.Cards(),
		Points:    h.Points(),
		Bust:      h.IsBust(),
		Blackjack: h.IsBlackjack(),
		Outcome:   outcome,
	}
}

func round(id string, number int, finished time.Time, players ...game.HandResult) game.RoundResult {
	return game.RoundResult{
		ID:       id,
		Round:    number,
		Started:  finished.Add(-time.Minute),
		Finished: finished,
		Dealer:   hand(game.DealerName, game.Lose, "Td", "8h"),
		Players:  players,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	standings, err := s.Standings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, standings)
}

func TestRecordRoundAndStandings(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordRound(ctx, round("r1", 1, base,
		hand("Alice", game.Win, "Ts", "9h"),
		hand("Bob", game.Lose, "Tc", "6c", "9d"),
	)))
	require.NoError(t, s.RecordRound(ctx, round("r2", 2, base.Add(time.Minute),
		hand("Alice", game.Push, "Ts", "8c"),
		hand("Bob", game.Win, "As", "Kh"),
	)))
	require.NoError(t, s.RecordRound(ctx, round("r3", 3, base.Add(2*time.Minute),
		hand("Alice", game.Win, "Ts", "9c"),
		hand("Bob", game.Lose, "Tc", "7c"),
	)))

	standings, err := s.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 2)

	assert.Equal(t, Standing{Player: "Alice", Rounds: 3, Wins: 2, Losses: 0, Pushes: 1}, standings[0])
	assert.Equal(t, Standing{Player: "Bob", Rounds: 3, Wins: 1, Losses: 2, Pushes: 0}, standings[1])
}

func TestRecordRoundRejectsDuplicates(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()
	r := round("dup", 1, time.Now(), hand("Alice", game.Win, "Ts", "9h"))

	require.NoError(t, s.RecordRound(ctx, r))
	err := s.RecordRound(ctx, r)
	assert.ErrorIs(t, err, ErrDuplicateRound)
}

func TestRecordRoundValidation(t *testing.T) {
	s := openTempStore(t)

	err := s.RecordRound(context.Background(), game.RoundResult{})
	assert.Error(t, err, "missing id")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.RecordRound(ctx, round("x", 1, time.Now()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecentRounds(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.RecordRound(ctx, round(id, i+1, base.Add(time.Duration(i)*time.Minute),
			hand("Alice", game.Win, "Ts", "9h"),
			hand("Bob", game.Lose, "Tc", "7c"),
		)))
	}

	recent, err := s.RecentRounds(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, 3, recent[0].Number)
	assert.Equal(t, 2, recent[0].Players)
	assert.Equal(t, 1, recent[0].Winners)
	assert.Equal(t, 18, recent[0].DealerPoints)
	assert.True(t, recent[0].FinishedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, "b", recent[1].ID)
}

func TestRoundCards(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordRound(ctx, round("r1", 1, time.Now(),
		hand("Alice", game.Win, "Ts", "9h"),
	)))

	dealer, seats, err := s.RoundCards(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, blackjack.MustParseCards("Td", "8h"), dealer)
	assert.Equal(t, blackjack.MustParseCards("Ts", "9h"), seats["Alice"])

	_, _, err = s.RoundCards(ctx, "missing")
	assert.Error(t, err)
}

func TestStoreRecordsGameRounds(t *testing.T) {
	s := openTempStore(t)
	g := game.New(nil, game.WithRecorder(s))
	g.AddPlayer("Alice")

	for range 3 {
		_, err := g.Round(context.Background(), game.BasicStrategySource{})
		if err != nil {
			g.ResetDeck()
		}
		g.ClearHands()
	}

	recent, err := s.RecentRounds(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, g.Rounds())
}
