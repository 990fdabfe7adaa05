// Package client connects a terminal to a remote blackjack table.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
	"golang.org/x/sync/errgroup"
)

// Config describes how to connect and play
type Config struct {
	URL  string // Server address, e.g. "http://localhost:8080"
	Name string // Seat name to join with
	Auto bool   // Answer prompts with basic strategy instead of reading input
}

// Client plays one seat at a remote table, rendering every broadcast and
// answering prompts from input lines.
type Client struct {
	cfg    Config
	in     io.Reader
	out    io.Writer
	styles display.Styles
	view   *display.TableView
	logger *log.Logger
	auto   game.ActionSource

	pending *protocol.ActionRequired
}

// New creates a client reading answers from in and rendering to out
func New(cfg Config, in io.Reader, out io.Writer, styles display.Styles, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		cfg:    cfg,
		in:     in,
		out:    out,
		styles: styles,
		view:   display.NewTableView(out, styles),
		logger: logger.WithPrefix("client"),
		auto:   game.BasicStrategySource{},
	}
}

// WebSocketURL converts an http(s) or ws(s) address into the table's /ws endpoint.
func WebSocketURL(serverURL string) (string, error) {
	if !strings.Contains(serverURL, "://") {
		serverURL = "http://" + serverURL
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	return u.String(), nil
}

// Run connects, joins and plays until the server closes the connection or
// ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	wsURL, err := WebSocketURL(c.cfg.URL)
	if err != nil {
		return err
	}

	c.logger.Info("Connecting to server", "url", wsURL)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := writeMessage(conn, protocol.TypeJoin, protocol.Join{Name: c.cfg.Name}); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	incoming := make(chan *protocol.Message)
	lines := c.readLines()

	g.Go(func() error {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return nil
	})

	g.Go(func() error {
		defer close(incoming)
		for {
			var msg protocol.Message
			if err := conn.ReadJSON(&msg); err != nil {
				if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return fmt.Errorf("read: %w", err)
			}
			select {
			case incoming <- &msg:
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		err := c.loop(ctx, conn, incoming, lines)
		// A non-nil error cancels the group so the other goroutines exit.
		if err == nil {
			err = errDone
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errDone) {
		return err
	}
	return nil
}

var errDone = errors.New("done")

func (c *Client) loop(ctx context.Context, conn *websocket.Conn, incoming <-chan *protocol.Message, lines <-chan string) error {
	for {
		// Input is only consumed while a prompt is open.
		var input <-chan string
		if c.pending != nil {
			input = lines
		}

		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-incoming:
			if !ok {
				c.println(c.styles.Warning.Render("Disconnected from table."))
				return nil
			}
			if err := c.handle(ctx, conn, msg); err != nil {
				return err
			}

		case line, ok := <-input:
			if !ok {
				c.println("")
				return nil
			}
			c.pending = nil
			if err := writeMessage(conn, protocol.TypeAction, protocol.Action{Action: strings.TrimSpace(line)}); err != nil {
				return err
			}
		}
	}
}

func (c *Client) handle(ctx context.Context, conn *websocket.Conn, msg *protocol.Message) error {
	switch msg.Type {
	case protocol.TypeJoined:
		var data protocol.Joined
		if err := msg.Decode(&data); err != nil {
			return err
		}
		c.println(c.styles.Success.Render(fmt.Sprintf("Seated as %s (seat %d of %d)", data.Name, data.Seat, data.Seats)))

	case protocol.TypeActionRequired:
		var data protocol.ActionRequired
		if err := msg.Decode(&data); err != nil {
			return err
		}
		return c.prompt(ctx, conn, data)

	case protocol.TypePlayerTimeout:
		var data protocol.PlayerTimeout
		if err := msg.Decode(&data); err != nil {
			return err
		}
		if data.Player == c.cfg.Name {
			c.pending = nil
			c.println("")
		}
		c.println(c.styles.Warning.Render(fmt.Sprintf("%s ran out of time and stands.", data.Player)))

	case protocol.TypeError:
		var data protocol.Error
		if err := msg.Decode(&data); err != nil {
			return err
		}
		c.println(c.styles.Error.Render("Error: " + data.Message))
		switch data.Code {
		case "seat_taken", "table_full", "invalid_name":
			return fmt.Errorf("join refused: %s", data.Message)
		}

	default:
		event, err := toEvent(msg)
		if err != nil {
			return err
		}
		if event != nil {
			c.view.OnEvent(event)
		}
	}
	return nil
}

func (c *Client) prompt(ctx context.Context, conn *websocket.Conn, req protocol.ActionRequired) error {
	turn := game.Turn{
		Round:   req.Round,
		Player:  req.Player,
		Cards:   req.Cards,
		Points:  req.Points,
		UpCard:  req.UpCard,
		Attempt: req.Attempt,
	}

	if c.cfg.Auto {
		action, err := c.auto.NextAction(ctx, turn)
		if err != nil {
			return err
		}
		c.logger.Debug("Auto action", "points", req.Points, "action", action)
		return writeMessage(conn, protocol.TypeAction, protocol.Action{Action: action.String()})
	}

	if req.Attempt == 0 {
		c.view.ShowTurn(turn)
	} else {
		c.println(c.styles.Error.Render("Unrecognised action, type s or h."))
	}
	c.print(c.styles.Prompt.Render(fmt.Sprintf("Stand (s) or hit (h)? [%ds]", req.TimeoutSeconds)) + " ")
	c.pending = &req
	return nil
}

// readLines forwards input lines. The reader cannot be interrupted, so it
// runs outside the errgroup and is abandoned on shutdown.
func (c *Client) readLines() <-chan string {
	lines := make(chan string)
	if c.cfg.Auto || c.in == nil {
		return lines
	}
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// toEvent converts a broadcast into the game event the table view renders.
func toEvent(msg *protocol.Message) (game.Event, error) {
	switch msg.Type {
	case protocol.TypeRoundStart:
		var data protocol.RoundStart
		if err := msg.Decode(&data); err != nil {
			return nil, err
		}
		return game.RoundStartEvent{RoundID: data.RoundID, Round: data.Round, Players: data.Players}, nil

	case protocol.TypeDealt:
		var data protocol.Dealt
		if err := msg.Decode(&data); err != nil {
			return nil, err
		}
		// Withheld cards are placeholders the view draws face down.
		cards := append(data.Cards, make([]blackjack.Card, data.Hidden)...)
		return game.DealtEvent{Player: data.Player, Dealer: data.Dealer, Cards: cards, Points: data.Points}, nil

	case protocol.TypePlayerAction:
		var data protocol.PlayerAction
		if err := msg.Decode(&data); err != nil {
			return nil, err
		}
		e := game.ActionEvent{Player: data.Player, Action: game.ParseAction(data.Action), Points: data.Points}
		if data.Card != nil {
			e.Card = *data.Card
		}
		return e, nil

	case protocol.TypeBust:
		var data protocol.Bust
		if err := msg.Decode(&data); err != nil {
			return nil, err
		}
		return game.BustEvent{Player: data.Player, Points: data.Points}, nil

	case protocol.TypeDealerTurn:
		var data protocol.DealerTurn
		if err := msg.Decode(&data); err != nil {
			return nil, err
		}
		return game.DealerTurnEvent{Cards: data.Cards, Points: data.Points, Drawn: data.Drawn, Skipped: data.Skipped}, nil

	case protocol.TypeRoundEnd:
		var data protocol.RoundEnd
		if err := msg.Decode(&data); err != nil {
			return nil, err
		}
		result := game.RoundResult{
			ID:       data.RoundID,
			Round:    data.Round,
			Finished: msg.Timestamp,
			Dealer:   handResult(data.Dealer),
			Players:  make([]game.HandResult, len(data.Players)),
		}
		for i, h := range data.Players {
			result.Players[i] = handResult(h)
		}
		return game.RoundEndEvent{Result: result}, nil
	}
	return nil, nil
}

func handResult(h protocol.Hand) game.HandResult {
	return game.HandResult{
		Name:      h.Name,
		Cards:     h.Cards,
		Points:    h.Points,
		Bust:      h.Bust,
		Blackjack: h.Blackjack,
		Outcome:   game.ParseOutcome(h.Outcome),
		Score:     h.Score,
	}
}

func writeMessage(conn *websocket.Conn, messageType protocol.MessageType, data any) error {
	msg, err := protocol.NewMessage(messageType, data, time.Now())
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", messageType, err)
	}
	return nil
}

func (c *Client) print(s string) {
	_, _ = fmt.Fprint(c.out, s)
}

func (c *Client) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}
