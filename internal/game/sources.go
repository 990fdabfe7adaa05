package game

import (
	"context"
	"errors"
	"fmt"
)

// ErrScriptExhausted is returned by a ScriptedSource asked for more actions than it holds.
var ErrScriptExhausted = errors.New("scripted actions exhausted")

// ScriptedSource replays a fixed list of actions in order, regardless of
// which participant is asking. It records every turn it was asked about.
type ScriptedSource struct {
	actions []Action
	next    int
	Turns   []Turn
}

// NewScriptedSource creates a source that replays actions in order
func NewScriptedSource(actions ...Action) *ScriptedSource {
	return &ScriptedSource{actions: actions}
}

// NextAction returns the next scripted action
func (s *ScriptedSource) NextAction(_ context.Context, turn Turn) (Action, error) {
	s.Turns = append(s.Turns, turn)
	if s.next >= len(s.actions) {
		return ActionInvalid, fmt.Errorf("turn %d for %s: %w", len(s.Turns), turn.Player, ErrScriptExhausted)
	}
	a := s.actions[s.next]
	s.next++
	return a, nil
}

// Remaining returns how many scripted actions have not been consumed
func (s *ScriptedSource) Remaining() int {
	return len(s.actions) - s.next
}

// BasicStrategySource plays a simplified basic strategy: always hit below
// 12, stand on 17 or more, and between 12 and 16 hit only against a dealer
// up-card of 7 or higher.
type BasicStrategySource struct{}

// NextAction picks hit or stand from the turn's totals
func (BasicStrategySource) NextAction(_ context.Context, turn Turn) (Action, error) {
	up := turn.UpCard.Value()
	switch {
	case turn.Points < 12:
		return Hit, nil
	case turn.Points >= 17:
		return Stand, nil
	case up >= 7:
		return Hit, nil
	default:
		return Stand, nil
	}
}
