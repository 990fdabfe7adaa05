package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(seed int64, names ...string) *game.Game {
	g := game.New(randutil.New(seed))
	for _, n := range names {
		g.AddPlayer(n)
	}
	return g
}

func TestPlayRoundsStopsAfterRounds(t *testing.T) {
	var out bytes.Buffer
	table := newTable(1, "Alice")

	err := playRounds(context.Background(), table, game.BasicStrategySource{}, nil, 3, 0, &out, display.NewStyles(&out, false))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Rounds())
}

func TestPlayRoundsRecoversFromExhaustion(t *testing.T) {
	var out bytes.Buffer
	table := newTable(2, "Alice", "Bob", "Carol")

	err := playRounds(context.Background(), table, game.BasicStrategySource{}, nil, 20, 0, &out, display.NewStyles(&out, false))
	require.NoError(t, err)
	assert.Equal(t, 20, table.Rounds())
	assert.Contains(t, out.String(), "The deck ran out")
}

func TestPlayRoundsResetThreshold(t *testing.T) {
	var out bytes.Buffer
	table := newTable(3, "Alice")

	err := playRounds(context.Background(), table, game.BasicStrategySource{}, nil, 6, 52, &out, display.NewStyles(&out, false))
	require.NoError(t, err)
	assert.Equal(t, 6, table.Rounds())
	assert.Equal(t, 5, strings.Count(out.String(), "shuffling a fresh deck"), "a threshold of 52 resets after every round but the last")
	assert.NotContains(t, out.String(), "The deck ran out")
}

func TestPlayRoundsAsksToContinue(t *testing.T) {
	var out bytes.Buffer
	styles := display.NewStyles(&out, false)
	input := console.New(strings.NewReader("s\ny\ns\nn\n"), &out, display.NewTableView(&out, styles), styles, nil)
	table := newTable(4, "Alice")

	err := playRounds(context.Background(), table, input, input, 0, 0, &out, styles)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Rounds())
}

func TestPlayRoundsEndsQuietlyOnEOF(t *testing.T) {
	var out bytes.Buffer
	styles := display.NewStyles(&out, false)
	input := console.New(strings.NewReader(""), &out, display.NewTableView(&out, styles), styles, nil)

	err := playRounds(context.Background(), newTable(5, "Alice"), input, input, 0, 0, &out, styles)
	assert.NoError(t, err)
}

func TestGlobalsSetup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
table {
  players = ["Alice", "Bob"]
  hit_soft_17 = true
}
log {
  file = "`+filepath.ToSlash(filepath.Join(dir, "blackjack.log"))+`"
}
`), 0o644))

	g := &Globals{Config: path, LogLevel: "debug"}
	cfg, logger, closeLog, err := g.setup()
	require.NoError(t, err)
	defer closeLog()

	assert.Equal(t, []string{"Alice", "Bob"}, cfg.Table.Players)
	assert.True(t, cfg.Table.HitSoft17)
	assert.Equal(t, "debug", cfg.Log.Level)

	logger.Debug("hello")
	data, err := os.ReadFile(filepath.Join(dir, "blackjack.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	bad := &Globals{Config: path, LogLevel: "loud"}
	_, _, _, err = bad.setup()
	assert.Error(t, err)
}

func TestPlayerNames(t *testing.T) {
	cfg := config.Default()
	cfg.Table.Players = []string{"Carol"}

	names, err := (&PlayCmd{Players: []string{" Alice", "Bob "}}).playerNames(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, names)

	names, err = (&PlayCmd{}).playerNames(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Carol"}, names)

	names, err = (&PlayCmd{}).playerNames(config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"Player"}, names)

	for _, bad := range [][]string{
		{"Dealer"},
		{"Alice", "Alice"},
		{"Alice", " Alice "},
		{"Alice", ""},
	} {
		_, err := (&PlayCmd{Players: bad}).playerNames(cfg)
		assert.Error(t, err, "names %q", bad)
	}
}
