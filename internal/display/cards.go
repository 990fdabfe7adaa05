package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/blackjack"
)

// cardWidth is the inner width of a card face, excluding border and padding.
const cardWidth = 5

// Card renders one card as a bordered face: rank top-left, suit in the
// middle, rank bottom-right.
func (s Styles) Card(c blackjack.Card) string {
	rank, suit := c.RankSymbol(), c.SuitSymbol()

	face := strings.Join([]string{
		fmt.Sprintf("%-*s", cardWidth, rank),
		"",
		lipgloss.PlaceHorizontal(cardWidth, lipgloss.Center, suit),
		"",
		fmt.Sprintf("%*s", cardWidth, rank),
	}, "\n")

	ink := s.BlackCard
	if c.IsRed() {
		ink = s.RedCard
	}
	return s.Face.Render(ink.Render(face))
}

// HiddenCard renders a face-down card the same size as Card.
func (s Styles) HiddenCard() string {
	row := strings.Repeat("░", cardWidth)
	face := strings.TrimSuffix(strings.Repeat(row+"\n", 5), "\n")
	return s.Face.Render(s.Hidden.Render(face))
}

// Cards renders cards side by side. Cards at index hideFrom and later are
// drawn face down; pass ShowAll to show every card.
func (s Styles) Cards(cards []blackjack.Card, hideFrom int) string {
	if len(cards) == 0 {
		return s.Info.Render("(no cards)")
	}
	faces := make([]string, len(cards))
	for i, c := range cards {
		if hideFrom >= 0 && i >= hideFrom {
			faces[i] = s.HiddenCard()
			continue
		}
		faces[i] = s.Card(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, faces...)
}

// ShowAll passed as hideFrom renders every card face up.
const ShowAll = -1

// Hand renders a name line, the cards and a points line.
func (s Styles) Hand(name string, cards []blackjack.Card, dealer bool, hideFrom int) string {
	nameStyle := s.Player
	if dealer {
		nameStyle = s.Dealer
	}

	points := "?"
	if hideFrom == ShowAll {
		points = fmt.Sprintf("%d", blackjack.NewHand(cards...).Points())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		nameStyle.Render(name),
		s.Cards(cards, hideFrom),
		s.Points.Render("Points: "+points),
	)
}
