package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/blackjack"
)

// DealerName is the name of the house player.
const DealerName = "Dealer"

// ErrNoPlayers is returned by Round when no participant has been added.
var ErrNoPlayers = errors.New("no players at the table")

// Game owns a deck, the dealer and an ordered list of participants, and
// runs rounds over them. A Game is not safe for concurrent use.
type Game struct {
	deck    *blackjack.Deck
	dealer  *Player
	players []*Player
	rounds  int

	standsOn  int
	hitSoft17 bool
	logger    *log.Logger
	recorder  Recorder
	observer  Observer
	newID     func() string
	clock     quartz.Clock
}

// New creates a game with an empty table. The RNG drives every draw; a nil
// RNG uses the package-level source.
//
//	g := game.New(randutil.New(42), game.WithLogger(logger))
//	g.AddPlayer("Alice")
//	result, err := g.Round(ctx, source)
func New(rng *rand.Rand, opts ...Option) *Game {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	deck := cfg.deck
	if deck == nil {
		deck = blackjack.NewDeck(rng)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Game{
		deck:      deck,
		dealer:    NewPlayer(DealerName),
		standsOn:  cfg.standsOn,
		hitSoft17: cfg.hitSoft17,
		logger:    logger.WithPrefix("game"),
		recorder:  cfg.recorder,
		observer:  cfg.observer,
		newID:     cfg.newID,
		clock:     cfg.clock,
	}
}

// AddPlayer seats a new participant at the end of the turn order and returns it.
func (g *Game) AddPlayer(name string) *Player {
	p := NewPlayer(name)
	g.players = append(g.players, p)
	g.logger.Debug("Player added", "player", name, "seats", len(g.players))
	return p
}

// Players returns the participants in turn order
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// Dealer returns the house player
func (g *Game) Dealer() *Player { return g.dealer }

// Rounds returns the number of rounds completed
func (g *Game) Rounds() int { return g.rounds }

// DeckRemaining returns the number of cards left to draw
func (g *Game) DeckRemaining() int { return g.deck.Remaining() }

// ResetDeck makes all 52 cards drawable again. Hands are left untouched.
func (g *Game) ResetDeck() {
	g.deck.Reset()
	g.logger.Debug("Deck reset")
}

// ClearHands empties the dealer's and every participant's hand so the next
// round deals fresh cards. Round never does this itself.
func (g *Game) ClearHands() {
	g.dealer.clearHand()
	for _, p := range g.players {
		p.clearHand()
	}
}

// Round plays one round: deal, participant turns, dealer turn, settlement.
//
// Only empty hands are dealt, so calling Round again without ClearHands
// deals nothing new to hands that already hold cards. A deck running out
// aborts the round with an error wrapping blackjack.ErrDeckExhausted; the
// round counter is not advanced and ResetDeck recovers.
func (g *Game) Round(ctx context.Context, source ActionSource) (*RoundResult, error) {
	if len(g.players) == 0 {
		return nil, ErrNoPlayers
	}

	number := g.rounds + 1
	id := g.newID()
	logger := g.logger.With("round", number)
	started := g.clock.Now()

	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.name
	}
	logger.Debug("Starting round", "id", id, "players", len(names))
	g.publish(RoundStartEvent{RoundID: id, Round: number, Players: names})

	if err := g.deal(); err != nil {
		logger.Error("Deal failed", "error", err)
		return nil, fmt.Errorf("round %d deal: %w", number, err)
	}

	for _, p := range g.players {
		if err := g.playTurn(ctx, number, p, source); err != nil {
			logger.Error("Turn aborted", "player", p.name, "error", err)
			return nil, fmt.Errorf("round %d: %w", number, err)
		}
	}

	if err := g.playDealer(); err != nil {
		logger.Error("Dealer turn failed", "error", err)
		return nil, fmt.Errorf("round %d dealer turn: %w", number, err)
	}

	result := g.settle(id, number)
	result.Started = started
	result.Finished = g.clock.Now()
	g.rounds = number

	logger.Info("Round complete",
		"dealer", result.Dealer.Points,
		"winners", len(result.Winners()),
		"remaining", g.deck.Remaining())

	if g.recorder != nil {
		if err := g.recorder.RecordRound(ctx, result); err != nil {
			logger.Warn("Failed to record round", "error", err)
		}
	}
	g.publish(RoundEndEvent{Result: result})

	return &result, nil
}

// deal gives two cards to every empty hand, dealer first. It draws nothing
// unless the deck covers every empty hand, so no hand is left half dealt.
func (g *Game) deal() error {
	seats := append([]*Player{g.dealer}, g.players...)

	needed := 0
	for _, p := range seats {
		if !p.HasCards() {
			needed += 2
		}
	}
	if remaining := g.deck.Remaining(); remaining < needed {
		return fmt.Errorf("need %d cards, %d left: %w", needed, remaining, blackjack.ErrDeckExhausted)
	}

	for _, p := range seats {
		if p.HasCards() {
			continue
		}
		for range 2 {
			card, err := g.deck.Draw()
			if err != nil {
				return fmt.Errorf("dealing to %s: %w", p.name, err)
			}
			p.AddCard(card)
		}
		g.publish(DealtEvent{
			Player: p.name,
			Dealer: p == g.dealer,
			Cards:  p.Cards(),
			Points: p.Points(),
		})
	}
	return nil
}

// playTurn asks source for actions until p stands or busts. Unrecognised
// actions are asked again without touching the deck.
func (g *Game) playTurn(ctx context.Context, round int, p *Player, source ActionSource) error {
	attempt := 0
	for !p.IsBust() {
		if err := ctx.Err(); err != nil {
			return err
		}

		action, err := source.NextAction(ctx, g.turn(round, p, attempt))
		if err != nil {
			return fmt.Errorf("action for %s: %w", p.name, err)
		}

		switch action {
		case Stand:
			g.publish(ActionEvent{Player: p.name, Action: Stand, Points: p.Points()})
			return nil

		case Hit:
			card, err := g.deck.Draw()
			if err != nil {
				return fmt.Errorf("hit for %s: %w", p.name, err)
			}
			p.AddCard(card)
			attempt = 0
			g.publish(ActionEvent{Player: p.name, Action: Hit, Card: card, Points: p.Points()})

			if p.IsBust() {
				g.publish(BustEvent{Player: p.name, Points: p.Points()})
			}

		default:
			attempt++
		}
	}
	return nil
}

func (g *Game) turn(round int, p *Player, attempt int) Turn {
	t := Turn{
		Round:   round,
		Player:  p.name,
		Cards:   p.Cards(),
		Points:  p.Points(),
		Attempt: attempt,
	}
	if cards := g.dealer.Cards(); len(cards) > 0 {
		t.UpCard = cards[0]
	}
	return t
}

// playDealer draws for the dealer until the stand threshold is reached.
// The dealer does not draw when every participant is already bust.
func (g *Game) playDealer() error {
	live := false
	for _, p := range g.players {
		if !p.IsBust() {
			live = true
			break
		}
	}

	if !live {
		g.publish(DealerTurnEvent{Cards: g.dealer.Cards(), Points: g.dealer.Points(), Skipped: true})
		return nil
	}

	drawn := 0
	for g.dealerShouldHit() {
		card, err := g.deck.Draw()
		if err != nil {
			return err
		}
		g.dealer.AddCard(card)
		drawn++
	}

	g.publish(DealerTurnEvent{Cards: g.dealer.Cards(), Points: g.dealer.Points(), Drawn: drawn})
	return nil
}

func (g *Game) dealerShouldHit() bool {
	points := g.dealer.Points()
	if points < g.standsOn {
		return true
	}
	return g.hitSoft17 && points == g.standsOn && g.dealer.hand.IsSoft()
}

// settle compares every participant with the dealer and updates scores.
func (g *Game) settle(id string, number int) RoundResult {
	result := RoundResult{
		ID:      id,
		Round:   number,
		Players: make([]HandResult, 0, len(g.players)),
	}

	for _, p := range g.players {
		outcome := settle(&p.hand, &g.dealer.hand)
		switch outcome {
		case Win:
			p.AddScore()
		case Lose:
			g.dealer.AddScore()
		}

		hr := handResult(p)
		hr.Outcome = outcome
		result.Players = append(result.Players, hr)
	}

	result.Dealer = handResult(g.dealer)
	return result
}

func (g *Game) publish(e Event) {
	if g.observer != nil {
		g.observer.OnEvent(e)
	}
}
