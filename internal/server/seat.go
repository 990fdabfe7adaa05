package server

import (
	"context"
	"time"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

// seat is a named place at the table. A seat outlives its connection so a
// player can reconnect under the same name; while disconnected, or after
// too many consecutive timeouts, autopilot plays it.
type seat struct {
	name      string
	number    int
	conn      *Connection
	decisions chan game.Action
	awaiting  bool
	timeouts  int
}

func newSeat(name string, number int, conn *Connection) *seat {
	return &seat{
		name:      name,
		number:    number,
		conn:      conn,
		decisions: make(chan game.Action, 1),
	}
}

// NextAction implements game.ActionSource by prompting the acting seat's
// connection and waiting for its answer, a timeout or a disconnect.
func (t *Table) NextAction(ctx context.Context, turn game.Turn) (game.Action, error) {
	t.mu.Lock()
	s := t.seats[turn.Player]
	var conn *Connection
	if s != nil && s.conn != nil && s.timeouts < t.cfg.MaxTimeouts {
		conn = s.conn
		s.awaiting = true
		select {
		case <-s.decisions:
		default:
		}
	}
	t.mu.Unlock()

	if conn == nil {
		return t.autopilot.NextAction(ctx, turn)
	}
	defer func() {
		t.mu.Lock()
		s.awaiting = false
		t.mu.Unlock()
	}()

	logger := t.logger.With("player", turn.Player, "round", turn.Round)

	// The timer is armed before the prompt goes out so a reply can never
	// race its registration.
	timeoutFired := make(chan struct{})
	timer := t.clock.AfterFunc(t.cfg.ActionTimeout, func() {
		close(timeoutFired)
	})
	defer timer.Stop()

	req := protocol.ActionRequired{
		Round:          turn.Round,
		Player:         turn.Player,
		Cards:          turn.Cards,
		Points:         turn.Points,
		UpCard:         turn.UpCard,
		Attempt:        turn.Attempt,
		TimeoutSeconds: int(t.cfg.ActionTimeout / time.Second),
	}
	if err := t.send(conn, protocol.TypeActionRequired, req); err != nil {
		logger.Warn("Failed to prompt player, standing", "error", err)
		return game.Stand, nil
	}
	logger.Debug("Requested action", "points", turn.Points, "attempt", turn.Attempt)

	select {
	case action := <-s.decisions:
		t.mu.Lock()
		s.timeouts = 0
		t.mu.Unlock()
		logger.Debug("Received action", "action", action)
		return action, nil

	case <-timeoutFired:
		t.mu.Lock()
		s.timeouts++
		n := s.timeouts
		t.mu.Unlock()

		logger.Warn("Action timeout, standing", "timeouts", n)
		t.broadcast(protocol.TypePlayerTimeout, protocol.PlayerTimeout{
			Player:         turn.Player,
			TimeoutSeconds: req.TimeoutSeconds,
			Action:         game.Stand.String(),
		})
		return game.Stand, nil

	case <-conn.Done():
		logger.Info("Player disconnected mid-turn, standing")
		return game.Stand, nil

	case <-ctx.Done():
		return game.ActionInvalid, ctx.Err()
	}
}
