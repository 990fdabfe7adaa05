package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
)

// autoRounds is how many rounds --auto plays when --rounds is not given.
const autoRounds = 10

// PlayCmd plays at the terminal against the dealer
type PlayCmd struct {
	Players []string `arg:"" optional:"" help:"Player names (defaults to the config, then \"Player\")"`
	Auto    bool     `help:"Play every seat with basic strategy"`
	Rounds  int      `help:"Stop after this many rounds (0 asks between rounds)"`
	Seed    int64    `help:"RNG seed (overrides config; 0 is random)"`
	NoStore bool     `help:"Do not record rounds"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, logger, closeLog, err := g.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	// Log lines would interleave with the table unless asked for.
	if g.LogLevel == "" && cfg.Log.File == "" {
		logger.SetLevel(log.WarnLevel)
	}

	names, err := c.playerNames(cfg)
	if err != nil {
		return err
	}

	seed := cfg.Table.Seed
	if c.Seed != 0 {
		seed = c.Seed
	}

	styles := g.styles(os.Stdout)
	view := display.NewTableView(os.Stdout, styles)

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithDealerStandsOn(cfg.Table.DealerStandsOn),
		game.WithHitSoft17(cfg.Table.HitSoft17),
		game.WithObserver(view),
	}
	if !c.NoStore {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		opts = append(opts, game.WithRecorder(st))
	}

	table := game.New(randutil.ForSeed(seed), opts...)
	for _, name := range names {
		table.AddPlayer(name)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	input := console.New(os.Stdin, os.Stdout, view, styles, logger)
	var source game.ActionSource = input
	rounds := c.Rounds
	if c.Auto {
		source = game.BasicStrategySource{}
		if rounds == 0 {
			rounds = autoRounds
		}
	}

	err = playRounds(ctx, table, source, input, rounds, cfg.Table.ResetThreshold, os.Stdout, styles)
	fmt.Fprintln(os.Stdout, view.Scores(table.Dealer(), table.Players()))
	return err
}

// playRounds plays until rounds have completed, the player declines another
// round, input ends or ctx is cancelled.
func playRounds(ctx context.Context, table *game.Game, source game.ActionSource, input *console.Source,
	rounds, resetThreshold int, out io.Writer, styles display.Styles,
) error {
	for {
		_, err := table.Round(ctx, source)
		switch {
		case errors.Is(err, blackjack.ErrDeckExhausted):
			fmt.Fprintln(out, styles.Warning.Render("The deck ran out. Shuffling a fresh deck and dealing again."))
			table.ClearHands()
			table.ResetDeck()
			continue
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			return err
		}

		if rounds > 0 && table.Rounds() >= rounds {
			return nil
		}
		if rounds == 0 {
			again, err := input.Confirm(ctx, "Play another round?")
			if err != nil || !again {
				return nil
			}
		}

		table.ClearHands()
		if table.DeckRemaining() < resetThreshold {
			fmt.Fprintln(out, styles.Info.Render(fmt.Sprintf("%d cards left, shuffling a fresh deck.", table.DeckRemaining())))
			table.ResetDeck()
		}
	}
}

// playerNames picks the seats from the command line, then the config, then
// a single default player.
func (c *PlayCmd) playerNames(cfg *config.Config) ([]string, error) {
	names := c.Players
	if len(names) == 0 {
		names = cfg.Table.Players
	}
	if len(names) == 0 {
		names = []string{"Player"}
	}
	if err := config.ValidatePlayerNames(names); err != nil {
		return nil, err
	}

	trimmed := make([]string, len(names))
	for i, name := range names {
		trimmed[i] = strings.TrimSpace(name)
	}
	return trimmed, nil
}
