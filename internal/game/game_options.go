package game

import (
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/roundid"
)

// DefaultDealerStandsOn is the total at which the dealer stops drawing.
const DefaultDealerStandsOn = 17

// Option configures a Game during creation.
type Option func(*gameConfig)

// gameConfig holds all configuration for creating a game.
type gameConfig struct {
	logger    *log.Logger
	standsOn  int
	hitSoft17 bool
	recorder  Recorder
	observer  Observer
	deck      *blackjack.Deck // If provided, overrides the RNG for deck creation
	newID     func() string
	clock     quartz.Clock
}

func defaultConfig() *gameConfig {
	return &gameConfig{
		standsOn: DefaultDealerStandsOn,
		newID:    roundid.New,
		clock:    quartz.NewReal(),
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(c *gameConfig) { c.logger = logger }
}

// WithDealerStandsOn sets the total at which the dealer stands. Values
// outside 2-21 are ignored.
func WithDealerStandsOn(points int) Option {
	return func(c *gameConfig) {
		if points >= 2 && points <= blackjack.Target {
			c.standsOn = points
		}
	}
}

// WithHitSoft17 makes the dealer draw on a soft total equal to the stand threshold.
func WithHitSoft17(enabled bool) Option {
	return func(c *gameConfig) { c.hitSoft17 = enabled }
}

// WithRecorder persists every settled round.
func WithRecorder(r Recorder) Option {
	return func(c *gameConfig) { c.recorder = r }
}

// WithObserver receives round events.
func WithObserver(o Observer) Option {
	return func(c *gameConfig) { c.observer = o }
}

// WithDeck uses a specific deck instead of creating one from the RNG.
func WithDeck(deck *blackjack.Deck) Option {
	return func(c *gameConfig) { c.deck = deck }
}

// WithRoundIDs overrides round ID generation, for deterministic tests.
func WithRoundIDs(newID func() string) Option {
	return func(c *gameConfig) { c.newID = newID }
}

// WithClock overrides the clock used to stamp results.
func WithClock(clock quartz.Clock) Option {
	return func(c *gameConfig) { c.clock = clock }
}
