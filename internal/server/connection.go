package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one websocket client. It owns at most one seat.
type Connection struct {
	conn      *websocket.Conn
	send      chan *protocol.Message
	table     *Table
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	name      string
	closeOnce sync.Once
}

// NewConnection wraps an upgraded websocket
func NewConnection(conn *websocket.Conn, table *Table, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *protocol.Message, 256),
		table:  table,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins the read and write pumps
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close shuts the connection down and releases its seat
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if c.table != nil {
			c.table.Leave(c)
		}
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues msg for the client without blocking. A full buffer
// closes the connection.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection", "player", c.Name())
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// Name returns the seat name, or "" before a successful join
func (c *Connection) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Connection) setName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket error", "error", err, "player", c.Name())
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.Name())

	switch msg.Type {
	case protocol.TypeJoin:
		var data protocol.Join
		if err := msg.Decode(&data); err != nil {
			c.sendError("invalid_message", "Failed to parse join data")
			return
		}
		c.handleJoin(data)

	case protocol.TypeAction:
		var data protocol.Action
		if err := msg.Decode(&data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.handleAction(data)

	case protocol.TypeLeave:
		_ = c.Close()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleJoin(data protocol.Join) {
	seatNumber, err := c.table.Join(data.Name, c)
	switch {
	case errors.Is(err, ErrInvalidName):
		c.sendError("invalid_name", err.Error())
		return
	case errors.Is(err, ErrSeatTaken):
		c.sendError("seat_taken", err.Error())
		return
	case errors.Is(err, ErrTableFull):
		c.sendError("table_full", err.Error())
		return
	case errors.Is(err, ErrAlreadySeated):
		c.sendError("already_joined", err.Error())
		return
	case err != nil:
		c.sendError("join_failed", err.Error())
		return
	}

	msg, err := protocol.NewMessage(protocol.TypeJoined, protocol.Joined{
		Name:  c.Name(),
		Seat:  seatNumber,
		Seats: c.table.Capacity(),
	}, c.table.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create joined message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) handleAction(data protocol.Action) {
	if c.Name() == "" {
		c.sendError("not_joined", "Join a seat before acting")
		return
	}
	if err := c.table.HandleAction(c, game.ParseAction(data.Action)); err != nil {
		c.sendError("no_pending_action", err.Error())
	}
}

func (c *Connection) sendError(code, message string) {
	msg, err := protocol.NewMessage(protocol.TypeError, protocol.Error{
		Code:    code,
		Message: message,
	}, c.table.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}
