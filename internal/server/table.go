package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

// Seat errors returned by Join
var (
	ErrInvalidName   = errors.New("invalid player name")
	ErrSeatTaken     = errors.New("seat name already in use")
	ErrTableFull     = errors.New("table is full")
	ErrAlreadySeated = errors.New("connection already has a seat")
)

// ErrNoPendingAction is returned when a seat acts while not being prompted.
var ErrNoPendingAction = errors.New("no action pending for this seat")

// Table runs rounds for the seats of connected websocket clients. It is the
// game's ActionSource and Observer.
type Table struct {
	cfg       Config
	logger    *log.Logger
	clock     quartz.Clock
	autopilot game.ActionSource

	mu      sync.Mutex
	seats   map[string]*seat
	ordered []*seat
	pending []*seat
	changed chan struct{}
}

var (
	_ game.ActionSource = (*Table)(nil)
	_ game.Observer     = (*Table)(nil)
)

// NewTable creates an empty table. A nil clock uses the real clock.
func NewTable(cfg Config, clock quartz.Clock, logger *log.Logger) *Table {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Table{
		cfg:       cfg.withDefaults(),
		logger:    logger.WithPrefix("table"),
		clock:     clock,
		autopilot: game.BasicStrategySource{},
		seats:     make(map[string]*seat),
		changed:   make(chan struct{}),
	}
}

// Join gives conn the seat called name. A disconnected seat with the same
// name is reclaimed; a connected one is ErrSeatTaken.
func (t *Table) Join(name string, conn *Connection) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, game.DealerName) {
		return 0, ErrInvalidName
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if conn.Name() != "" {
		return 0, ErrAlreadySeated
	}

	if s, ok := t.seats[name]; ok {
		if s.conn != nil {
			return 0, fmt.Errorf("%q: %w", name, ErrSeatTaken)
		}
		s.conn = conn
		s.timeouts = 0
		conn.setName(name)
		t.logger.Info("Player reconnected", "player", name, "seat", s.number)
		t.notifyLocked()
		return s.number, nil
	}

	if len(t.ordered) >= t.cfg.Seats {
		return 0, fmt.Errorf("%d seats: %w", t.cfg.Seats, ErrTableFull)
	}

	s := newSeat(name, len(t.ordered)+1, conn)
	t.seats[name] = s
	t.ordered = append(t.ordered, s)
	t.pending = append(t.pending, s)
	conn.setName(name)

	t.logger.Info("Player joined", "player", name, "seat", s.number, "seats", len(t.ordered))
	t.notifyLocked()
	return s.number, nil
}

// Leave detaches conn from its seat. The seat stays at the table and is
// played by autopilot until someone rejoins under its name.
func (t *Table) Leave(conn *Connection) {
	name := conn.Name()
	if name == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.seats[name]; ok && s.conn == conn {
		s.conn = nil
		t.logger.Info("Player left", "player", name)
		t.notifyLocked()
	}
}

// HandleAction delivers a seat's answer to a pending prompt. An action sent
// while not prompted takes the seat back from autopilot.
func (t *Table) HandleAction(conn *Connection, action game.Action) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.seats[conn.Name()]
	if !ok || s.conn != conn {
		return ErrNoPendingAction
	}
	if !s.awaiting {
		s.timeouts = 0
		return ErrNoPendingAction
	}

	select {
	case s.decisions <- action:
		return nil
	default:
		return ErrNoPendingAction
	}
}

// Seats returns the number of seats taken and the number connected.
func (t *Table) Seats() (taken, connected int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ordered), t.connectedLocked()
}

// Capacity returns the maximum number of seats.
func (t *Table) Capacity() int { return t.cfg.Seats }

// Run plays rounds on g until ctx is cancelled or MaxRounds have been
// played. Rounds start once MinPlayers seats are connected.
func (t *Table) Run(ctx context.Context, g *game.Game) error {
	played := 0
	for t.cfg.MaxRounds == 0 || played < t.cfg.MaxRounds {
		if err := t.waitForPlayers(ctx); err != nil {
			return err
		}
		for _, s := range t.takePending() {
			g.AddPlayer(s.name)
		}

		_, err := g.Round(ctx, t)
		switch {
		case errors.Is(err, blackjack.ErrDeckExhausted):
			t.logger.Warn("Deck exhausted mid-round, replaying with a fresh deck")
			g.ClearHands()
			g.ResetDeck()
			continue
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		played++
		g.ClearHands()
		if g.DeckRemaining() < t.cfg.ResetThreshold {
			t.logger.Debug("Deck below threshold, resetting", "remaining", g.DeckRemaining())
			g.ResetDeck()
		}

		if err := t.pause(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) waitForPlayers(ctx context.Context) error {
	logged := false
	for {
		t.mu.Lock()
		connected := t.connectedLocked()
		changed := t.changed
		t.mu.Unlock()

		if connected >= t.cfg.MinPlayers {
			return nil
		}
		if !logged {
			t.logger.Info("Waiting for players", "connected", connected, "needed", t.cfg.MinPlayers)
			logged = true
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *Table) pause(ctx context.Context) error {
	if t.cfg.RoundDelay <= 0 {
		return ctx.Err()
	}
	timer := t.clock.NewTimer(t.cfg.RoundDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Table) takePending() []*seat {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.pending
	t.pending = nil
	return out
}

func (t *Table) connectedLocked() int {
	n := 0
	for _, s := range t.ordered {
		if s.conn != nil {
			n++
		}
	}
	return n
}

func (t *Table) notifyLocked() {
	close(t.changed)
	t.changed = make(chan struct{})
}

// OnEvent broadcasts round events to every connected seat. The dealer's
// hole card is withheld until the dealer's turn.
func (t *Table) OnEvent(e game.Event) {
	switch e := e.(type) {
	case game.RoundStartEvent:
		t.broadcast(protocol.TypeRoundStart, protocol.RoundStart{
			RoundID: e.RoundID,
			Round:   e.Round,
			Players: e.Players,
		})

	case game.DealtEvent:
		msg := protocol.Dealt{Player: e.Player, Dealer: e.Dealer, Cards: e.Cards, Points: e.Points}
		if e.Dealer && len(e.Cards) > 1 {
			msg.Cards = e.Cards[:1]
			msg.Hidden = len(e.Cards) - 1
			msg.Points = 0
		}
		t.broadcast(protocol.TypeDealt, msg)

	case game.ActionEvent:
		msg := protocol.PlayerAction{Player: e.Player, Action: e.Action.String(), Points: e.Points}
		if e.Action == game.Hit {
			card := e.Card
			msg.Card = &card
		}
		t.broadcast(protocol.TypePlayerAction, msg)

	case game.BustEvent:
		t.broadcast(protocol.TypeBust, protocol.Bust{Player: e.Player, Points: e.Points})

	case game.DealerTurnEvent:
		t.broadcast(protocol.TypeDealerTurn, protocol.DealerTurn{
			Cards:   e.Cards,
			Points:  e.Points,
			Drawn:   e.Drawn,
			Skipped: e.Skipped,
		})

	case game.RoundEndEvent:
		t.broadcast(protocol.TypeRoundEnd, roundEnd(e.Result))
	}
}

func roundEnd(r game.RoundResult) protocol.RoundEnd {
	out := protocol.RoundEnd{
		RoundID: r.ID,
		Round:   r.Round,
		Dealer:  protocolHand(r.Dealer),
		Players: make([]protocol.Hand, len(r.Players)),
	}
	out.Dealer.Outcome = ""
	for i, p := range r.Players {
		out.Players[i] = protocolHand(p)
	}
	return out
}

func protocolHand(h game.HandResult) protocol.Hand {
	return protocol.Hand{
		Name:      h.Name,
		Cards:     h.Cards,
		Points:    h.Points,
		Bust:      h.Bust,
		Blackjack: h.Blackjack,
		Outcome:   h.Outcome.String(),
		Score:     h.Score,
	}
}

func (t *Table) broadcast(messageType protocol.MessageType, data any) {
	msg, err := protocol.NewMessage(messageType, data, t.clock.Now())
	if err != nil {
		t.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}

	t.mu.Lock()
	conns := make([]*Connection, 0, len(t.ordered))
	for _, s := range t.ordered {
		if s.conn != nil {
			conns = append(conns, s.conn)
		}
	}
	t.mu.Unlock()

	for _, c := range conns {
		if err := c.SendMessage(msg); err != nil {
			t.logger.Debug("Failed to send message", "player", c.Name(), "type", messageType, "error", err)
		}
	}
}

func (t *Table) send(conn *Connection, messageType protocol.MessageType, data any) error {
	msg, err := protocol.NewMessage(messageType, data, t.clock.Now())
	if err != nil {
		return err
	}
	return conn.SendMessage(msg)
}
