package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds every style the renderer uses. All styles are bound to one
// lipgloss renderer so colour support follows the output, not os.Stdout.
type Styles struct {
	Header    lipgloss.Style
	Face      lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Hidden    lipgloss.Style
	Player    lipgloss.Style
	Dealer    lipgloss.Style
	Points    lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Prompt    lipgloss.Style
}

// NewStyles builds styles for w. With colour disabled every style renders
// as plain text, which keeps output stable for pipes and tests.
func NewStyles(w io.Writer, colour bool) Styles {
	var opts []termenv.OutputOption
	if !colour {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	r := lipgloss.NewRenderer(w, opts...)

	return Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Face: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		RedCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Hidden: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Player: r.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")).
			Bold(true),
		Dealer: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Points: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")),
		Success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Prompt: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
	}
}

// DetectColour reports whether w is a terminal that supports colour.
func DetectColour(w io.Writer) bool {
	return termenv.NewOutput(w).Profile != termenv.Ascii
}
