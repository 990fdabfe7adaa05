// Package game implements the blackjack round state machine.
//
// The main type is Game, which owns a deck, the dealer and the participants
// and plays rounds over them:
//
//	g := game.New(randutil.New(42), game.WithLogger(logger))
//	g.AddPlayer("Alice")
//	g.AddPlayer("Bob")
//	result, err := g.Round(ctx, source)
//	if errors.Is(err, blackjack.ErrDeckExhausted) {
//	    g.ResetDeck()
//	}
//
// # Rounds
//
// A round deals two cards to every empty hand (dealer first), then asks the
// ActionSource for each participant's actions in seat order. A hit that
// busts ends that participant's turn. Unrecognised input is not an error:
// the same participant is asked again. Once every participant is done the
// dealer draws to DefaultDealerStandsOn (configurable) unless everyone is
// bust, and each participant is settled against the dealer.
//
// Rounds never clear hands. Call ClearHands between rounds to deal afresh;
// a participant who still holds cards is not dealt again.
//
// # Deterministic Testing
//
// Inject a seeded RNG, or a prepared deck with WithDeck, and drive turns
// with a ScriptedSource:
//
//	src := game.NewScriptedSource(game.Hit, game.Stand)
//	g := game.New(randutil.New(7))
package game
