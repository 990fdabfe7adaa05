package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/store"
)

// TableView renders round events to a writer. It implements game.Observer.
// The dealer's second card stays face down until the dealer's turn.
type TableView struct {
	out    io.Writer
	styles Styles
	// dealer holds the dealt dealer cards until the dealer's turn.
	dealer []blackjack.Card
}

// NewTableView creates a view writing to out
func NewTableView(out io.Writer, styles Styles) *TableView {
	return &TableView{out: out, styles: styles}
}

// OnEvent renders one round event
func (v *TableView) OnEvent(e game.Event) {
	switch e := e.(type) {
	case game.RoundStartEvent:
		v.dealer = nil
		v.println(v.styles.Header.Render(fmt.Sprintf(" ♠ ♥ Round %d ♦ ♣ ", e.Round)))

	case game.DealtEvent:
		if e.Dealer {
			v.dealer = e.Cards
			v.println(v.styles.Hand(e.Player, e.Cards, true, 1))
			return
		}
		v.println(v.styles.Hand(e.Player, e.Cards, false, ShowAll))

	case game.ActionEvent:
		switch e.Action {
		case game.Hit:
			v.println(v.styles.Info.Render(fmt.Sprintf("%s hits: %s (%d)", e.Player, e.Card, e.Points)))
		case game.Stand:
			v.println(v.styles.Info.Render(fmt.Sprintf("%s stands on %d", e.Player, e.Points)))
		}

	case game.BustEvent:
		v.println(v.styles.Error.Render(fmt.Sprintf("%s is bust with %d!", e.Player, e.Points)))

	case game.DealerTurnEvent:
		v.dealer = nil
		v.println(v.styles.Hand(game.DealerName, e.Cards, true, ShowAll))
		if e.Drawn > 0 {
			v.println(v.styles.Info.Render(fmt.Sprintf("Dealer draws %d", e.Drawn)))
		}

	case game.RoundEndEvent:
		v.println(v.Results(e.Result))
	}
}

// ShowTurn renders the dealer's up-card and the acting participant's hand
// before a prompt.
func (v *TableView) ShowTurn(turn game.Turn) {
	if len(v.dealer) > 0 {
		v.println(v.styles.Hand(game.DealerName, v.dealer, true, 1))
	}
	v.println(v.styles.Hand(turn.Player, turn.Cards, false, ShowAll))
}

// Results renders a settled round as a table followed by one line per participant.
func (v *TableView) Results(r game.RoundResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Player", "Cards", "Points", "Result", "Score")

	dealerPoints := strconv.Itoa(r.Dealer.Points)
	if r.Dealer.Bust {
		dealerPoints += " bust"
	}
	t.Row(r.Dealer.Name, cardList(r.Dealer.Cards), dealerPoints, "", strconv.Itoa(r.Dealer.Score))

	var lines []string
	for _, p := range r.Players {
		points := strconv.Itoa(p.Points)
		if p.Bust {
			points += " bust"
		}
		t.Row(p.Name, cardList(p.Cards), points, p.Outcome.String(), strconv.Itoa(p.Score))
		lines = append(lines, v.outcomeLine(p))
	}

	return lipgloss.JoinVertical(lipgloss.Left, t.String(), strings.Join(lines, "\n"))
}

func (v *TableView) outcomeLine(p game.HandResult) string {
	switch p.Outcome {
	case game.Win:
		return v.styles.Success.Render(p.Name + " beat the dealer!")
	case game.Push:
		return v.styles.Warning.Render(p.Name + " drew with the dealer.")
	default:
		return v.styles.Error.Render(p.Name + " lost to the dealer.")
	}
}

// Standings renders each player's record from the round history.
func (v *TableView) Standings(rows []store.Standing) string {
	if len(rows) == 0 {
		return v.styles.Info.Render("No rounds recorded yet.")
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Player", "Rounds", "Wins", "Pushes", "Losses")
	for _, r := range rows {
		t.Row(r.Player, strconv.Itoa(r.Rounds), strconv.Itoa(r.Wins), strconv.Itoa(r.Pushes), strconv.Itoa(r.Losses))
	}
	return t.String()
}

// Scores renders the running score of the dealer and every participant.
func (v *TableView) Scores(dealer *game.Player, players []*game.Player) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Player", "Score")
	for _, p := range players {
		t.Row(p.Name(), strconv.Itoa(p.Score()))
	}
	t.Row(dealer.Name(), strconv.Itoa(dealer.Score()))
	return t.String()
}

// RecentRounds renders stored round summaries, newest first.
func (v *TableView) RecentRounds(rounds []store.RoundSummary) string {
	if len(rounds) == 0 {
		return ""
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Round", "Finished", "Dealer", "Players", "Winners")
	for _, r := range rounds {
		dealer := strconv.Itoa(r.DealerPoints)
		if r.DealerBust {
			dealer += " bust"
		}
		t.Row(r.ID, r.FinishedAt.Local().Format("2006-01-02 15:04"), dealer, strconv.Itoa(r.Players), strconv.Itoa(r.Winners))
	}
	return t.String()
}

func (v *TableView) println(s string) {
	_, _ = fmt.Fprintln(v.out, s)
}

func cardList(cards []blackjack.Card) string {
	return blackjack.NewHand(cards...).String()
}
