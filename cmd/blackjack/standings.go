package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/store"
)

// StandingsCmd prints recorded results
type StandingsCmd struct {
	Recent int `default:"5" help:"Number of recent rounds to list"`
}

func (c *StandingsCmd) Run(g *Globals) error {
	cfg, _, closeLog, err := g.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	standings, err := st.Standings(ctx)
	if err != nil {
		return err
	}
	recent, err := st.RecentRounds(ctx, c.Recent)
	if err != nil {
		return err
	}

	view := display.NewTableView(os.Stdout, g.styles(os.Stdout))
	fmt.Fprintln(os.Stdout, view.Standings(standings))
	if out := view.RecentRounds(recent); out != "" {
		fmt.Fprintln(os.Stdout, out)
	}
	return nil
}
