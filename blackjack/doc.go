// Package blackjack provides the card primitives for single-deck blackjack.
//
// The main types are Card, Hand and Deck:
//
//	deck := blackjack.NewDeck(rand.New(rand.NewPCG(1, 2)))
//	var hand blackjack.Hand
//	for range 2 {
//	    card, err := deck.Draw()
//	    if err != nil {
//	        return err // blackjack.ErrDeckExhausted
//	    }
//	    hand.Add(card)
//	}
//	fmt.Println(hand.Points(), hand.IsBust())
//
// # Points
//
// Number cards count their face value, faces count 10 and aces count 11.
// When a hand goes over 21, aces are demoted from 11 to 1 one at a time
// until the total is 21 or less or no soft ace is left.
//
// # Drawing
//
// A Deck never reshuffles on its own. Once all 52 cards are drawn, Draw
// returns ErrDeckExhausted until Reset is called.
package blackjack
