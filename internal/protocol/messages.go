// Package protocol defines the JSON messages exchanged between the table
// server and its websocket clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/blackjack/blackjack"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeJoin   MessageType = "join"
	TypeAction MessageType = "action"
	TypeLeave  MessageType = "leave"

	// Server -> Client
	TypeJoined         MessageType = "joined"
	TypeActionRequired MessageType = "action_required"
	TypePlayerTimeout  MessageType = "player_timeout"
	TypeRoundStart     MessageType = "round_start"
	TypeDealt          MessageType = "dealt"
	TypePlayerAction   MessageType = "player_action"
	TypeBust           MessageType = "bust"
	TypeDealerTurn     MessageType = "dealer_turn"
	TypeRoundEnd       MessageType = "round_end"
	TypeError          MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope every websocket frame carries.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps data in an envelope stamped with now.
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: now}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", messageType, err)
		}
		msg.Data = raw
	}
	return msg, nil
}

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s message has no data", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", m.Type, err)
	}
	return nil
}

// Client -> Server Messages

// Join claims a seat. Rejoining with the name of a disconnected seat
// reattaches to it.
type Join struct {
	Name string `json:"name"`
}

// Action answers an ActionRequired prompt with "s"/"stand" or "h"/"hit".
type Action struct {
	Action string `json:"action"`
}

// Server -> Client Messages

// Joined confirms a seat.
type Joined struct {
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	Seats int    `json:"seats"`
}

// ActionRequired prompts the receiving seat to act.
type ActionRequired struct {
	Round          int              `json:"round"`
	Player         string           `json:"player"`
	Cards          []blackjack.Card `json:"cards"`
	Points         int              `json:"points"`
	UpCard         blackjack.Card   `json:"up_card"`
	Attempt        int              `json:"attempt"`
	TimeoutSeconds int              `json:"timeout_seconds"`
}

// PlayerTimeout is broadcast when a seat failed to act in time.
type PlayerTimeout struct {
	Player         string `json:"player"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Action         string `json:"action"`
}

// RoundStart is broadcast before the deal.
type RoundStart struct {
	RoundID string   `json:"round_id"`
	Round   int      `json:"round"`
	Players []string `json:"players"`
}

// Dealt is broadcast for each opening hand. For the dealer only the up-card
// is sent and Hidden counts the cards withheld.
type Dealt struct {
	Player string           `json:"player"`
	Dealer bool             `json:"dealer"`
	Cards  []blackjack.Card `json:"cards"`
	Hidden int              `json:"hidden,omitempty"`
	Points int              `json:"points,omitempty"`
}

// PlayerAction is broadcast after a stand or hit.
type PlayerAction struct {
	Player string          `json:"player"`
	Action string          `json:"action"`
	Card   *blackjack.Card `json:"card,omitempty"`
	Points int             `json:"points"`
}

// Bust is broadcast when a participant goes over 21.
type Bust struct {
	Player string `json:"player"`
	Points int    `json:"points"`
}

// DealerTurn reveals the dealer's final hand.
type DealerTurn struct {
	Cards   []blackjack.Card `json:"cards"`
	Points  int              `json:"points"`
	Drawn   int              `json:"drawn"`
	Skipped bool             `json:"skipped,omitempty"`
}

// Hand is one settled hand.
type Hand struct {
	Name      string           `json:"name"`
	Cards     []blackjack.Card `json:"cards"`
	Points    int              `json:"points"`
	Bust      bool             `json:"bust,omitempty"`
	Blackjack bool             `json:"blackjack,omitempty"`
	Outcome   string           `json:"outcome,omitempty"`
	Score     int              `json:"score"`
}

// RoundEnd carries the settled round.
type RoundEnd struct {
	RoundID string `json:"round_id"`
	Round   int    `json:"round"`
	Dealer  Hand   `json:"dealer"`
	Players []Hand `json:"players"`
}

// Error reports a rejected request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
