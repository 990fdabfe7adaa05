package main

import (
	"os"

	"github.com/lox/blackjack/internal/client"
)

// ClientCmd joins a hosted table
type ClientCmd struct {
	Name   string `arg:"" help:"Seat name"`
	Server string `short:"s" default:"http://localhost:8080" help:"Table server address"`
	Auto   bool   `help:"Answer prompts with basic strategy"`
}

func (c *ClientCmd) Run(g *Globals) error {
	_, logger, closeLog, err := g.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signalContext(logger)
	defer cancel()

	cl := client.New(client.Config{
		URL:  c.Server,
		Name: c.Name,
		Auto: c.Auto,
	}, os.Stdin, os.Stdout, g.styles(os.Stdout), logger)
	return cl.Run(ctx)
}
