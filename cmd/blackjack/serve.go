package main

import (
	"context"
	"errors"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/server"
	"github.com/lox/blackjack/internal/store"
	"golang.org/x/sync/errgroup"
)

// ServeCmd hosts a table for websocket clients
type ServeCmd struct {
	Addr       string        `help:"Listen address (overrides config)"`
	Seats      int           `help:"Maximum seats (overrides config)"`
	MinPlayers int           `default:"1" help:"Connected players needed to start a round"`
	RoundDelay time.Duration `default:"3s" help:"Pause between rounds"`
	Rounds     int           `help:"Stop after this many rounds (0 runs until interrupted)"`
	Seed       int64         `help:"RNG seed (overrides config; 0 is random)"`
	NoStore    bool          `help:"Do not record rounds"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, closeLog, err := g.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	addr := cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}
	seats := cfg.Server.Seats
	if c.Seats > 0 {
		seats = c.Seats
	}
	seed := cfg.Table.Seed
	if c.Seed != 0 {
		seed = c.Seed
	}

	table := server.NewTable(server.Config{
		Seats:          seats,
		MinPlayers:     c.MinPlayers,
		ActionTimeout:  time.Duration(cfg.Server.ActionTimeout) * time.Second,
		RoundDelay:     c.RoundDelay,
		MaxRounds:      c.Rounds,
		ResetThreshold: cfg.Table.ResetThreshold,
	}, quartz.NewReal(), logger)

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithDealerStandsOn(cfg.Table.DealerStandsOn),
		game.WithHitSoft17(cfg.Table.HitSoft17),
		game.WithObserver(table),
	}
	if !c.NoStore {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		opts = append(opts, game.WithRecorder(st))
	}

	blackjackGame := game.New(randutil.ForSeed(seed), opts...)
	srv := server.NewServer(addr, table, logger)

	logger.Info("Starting blackjack table",
		"addr", addr,
		"seats", seats,
		"action_timeout", cfg.Server.ActionTimeout,
		"dealer_stands_on", cfg.Table.DealerStandsOn,
		"hit_soft_17", cfg.Table.HitSoft17)

	sigCtx, stop := signalContext(logger)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return srv.Start(ctx)
	})
	grp.Go(func() error {
		// Finishing the configured rounds shuts the server down too.
		defer cancel()
		err := table.Run(ctx, blackjackGame)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err = grp.Wait()
	logger.Info("Table closed", "rounds", blackjackGame.Rounds())
	return err
}
