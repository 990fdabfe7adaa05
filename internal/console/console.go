// Package console reads participant actions from a line-oriented terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
)

// Source is a game.ActionSource that prompts on out and reads one answer
// per line from in. Unrecognised answers are returned as
// game.ActionInvalid so the game asks again.
type Source struct {
	lines  chan string
	err    error
	out    io.Writer
	view   *display.TableView
	styles display.Styles
	logger *log.Logger
	last   string
}

var _ game.ActionSource = (*Source)(nil)

// New creates a console source. Reading starts immediately in the
// background so a blocked read never holds up context cancellation.
func New(in io.Reader, out io.Writer, view *display.TableView, styles display.Styles, logger *log.Logger) *Source {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Source{
		lines:  make(chan string),
		out:    out,
		view:   view,
		styles: styles,
		logger: logger.WithPrefix("console"),
	}
	go s.scan(in)
	return s
}

// scan feeds lines until the input ends, then records why and closes the
// channel. s.err is only read after the close is observed.
func (s *Source) scan(in io.Reader) {
	defer close(s.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		s.lines <- scanner.Text()
	}
	s.err = scanner.Err()
	if s.err == nil {
		s.err = io.EOF
	}
}

// NextAction shows the participant's hand, prompts and waits for a line.
func (s *Source) NextAction(ctx context.Context, turn game.Turn) (game.Action, error) {
	if err := ctx.Err(); err != nil {
		return game.ActionInvalid, err
	}

	if turn.Attempt == 0 {
		if s.view != nil {
			s.view.ShowTurn(turn)
		}
	} else {
		s.println(s.styles.Error.Render(fmt.Sprintf("Unrecognised action %q, type s or h.", s.last)))
	}
	s.print(s.styles.Prompt.Render(turn.Player+": Stand (s) or hit (h)?") + " ")

	select {
	case <-ctx.Done():
		return game.ActionInvalid, ctx.Err()
	case text, ok := <-s.lines:
		if !ok {
			s.println("")
			return game.ActionInvalid, s.err
		}
		s.last = strings.TrimSpace(text)
		action := game.ParseAction(text)
		s.logger.Debug("Read action", "player", turn.Player, "input", s.last, "action", action)
		return action, nil
	}
}

// Confirm asks a yes/no question and reports whether the answer was yes.
// EOF counts as no.
func (s *Source) Confirm(ctx context.Context, question string) (bool, error) {
	s.print(s.styles.Prompt.Render(question+" [Y/n]") + " ")
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case text, ok := <-s.lines:
		if !ok {
			s.println("")
			if s.err == io.EOF {
				return false, nil
			}
			return false, s.err
		}
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "", "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

func (s *Source) print(str string) {
	_, _ = fmt.Fprint(s.out, str)
}

func (s *Source) println(str string) {
	_, _ = fmt.Fprintln(s.out, str)
}
