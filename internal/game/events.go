package game

import (
	"github.com/lox/blackjack/blackjack"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for round events
const (
	EventTypeRoundStart EventType = "round_start"
	EventTypeDealt      EventType = "dealt"
	EventTypeAction     EventType = "action"
	EventTypeBust       EventType = "bust"
	EventTypeDealerTurn EventType = "dealer_turn"
	EventTypeRoundEnd   EventType = "round_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything published to an Observer during a round.
type Event interface {
	EventType() EventType
}

// RoundStartEvent is published before any card is dealt.
type RoundStartEvent struct {
	RoundID string
	Round   int
	Players []string
}

// DealtEvent is published for every hand that received its opening two cards.
type DealtEvent struct {
	Player string
	Dealer bool
	Cards  []blackjack.Card
	Points int
}

// ActionEvent is published after a valid action has been applied. Card is
// the card drawn on a hit.
type ActionEvent struct {
	Player string
	Action Action
	Card   blackjack.Card
	Points int
}

// BustEvent is published when a hit takes a participant over 21.
type BustEvent struct {
	Player string
	Points int
}

// DealerTurnEvent is published once the dealer has finished drawing.
type DealerTurnEvent struct {
	Cards   []blackjack.Card
	Points  int
	Drawn   int
	Skipped bool // Every participant was bust, so the dealer did not draw
}

// RoundEndEvent carries the settled result.
type RoundEndEvent struct {
	Result RoundResult
}

func (RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (DealtEvent) EventType() EventType      { return EventTypeDealt }
func (ActionEvent) EventType() EventType     { return EventTypeAction }
func (BustEvent) EventType() EventType       { return EventTypeBust }
func (DealerTurnEvent) EventType() EventType { return EventTypeDealerTurn }
func (RoundEndEvent) EventType() EventType   { return EventTypeRoundEnd }

// Observer receives round events synchronously. Observers must not call
// back into the Game.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(Event)

// OnEvent calls f(e)
func (f ObserverFunc) OnEvent(e Event) { f(e) }

// Observers fans one event out to several observers in order.
type Observers []Observer

// OnEvent forwards e to every observer
func (os Observers) OnEvent(e Event) {
	for _, o := range os {
		o.OnEvent(e)
	}
}
