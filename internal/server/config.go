package server

import "time"

// Config controls how a Table seats players and paces rounds.
type Config struct {
	Seats          int           // Maximum number of named seats
	MinPlayers     int           // Connected seats needed before a round starts
	ActionTimeout  time.Duration // Time a remote seat has to act before it stands
	MaxTimeouts    int           // Consecutive timeouts before autopilot plays the seat
	RoundDelay     time.Duration // Pause between rounds
	MaxRounds      int           // Stop after this many rounds; 0 plays until cancelled
	ResetThreshold int           // Reset the deck between rounds below this many cards
}

// DefaultConfig returns the default table configuration
func DefaultConfig() Config {
	return Config{
		Seats:         4,
		MinPlayers:    1,
		ActionTimeout: 30 * time.Second,
		MaxTimeouts:   2,
		RoundDelay:    3 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Seats <= 0 {
		c.Seats = d.Seats
	}
	if c.MinPlayers <= 0 {
		c.MinPlayers = d.MinPlayers
	}
	if c.ActionTimeout <= 0 {
		c.ActionTimeout = d.ActionTimeout
	}
	if c.MaxTimeouts <= 0 {
		c.MaxTimeouts = d.MaxTimeouts
	}
	return c
}
