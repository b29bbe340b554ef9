package styles

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	PrimaryColor   = lipgloss.Color("#0F766E")
	SecondaryColor = lipgloss.Color("#06B6D4")
	SuccessColor   = lipgloss.Color("#22C55E")
	WarningColor   = lipgloss.Color("#EAB308")
	ErrorColor     = lipgloss.Color("#EF4444")
	MutedColor     = lipgloss.Color("#6B7280")

	Muted = lipgloss.NewStyle().Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Price = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	Featured = lipgloss.NewStyle().
			Foreground(WarningColor)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1)

	StatusSuccess = lipgloss.NewStyle().Foreground(SuccessColor)
	StatusError   = lipgloss.NewStyle().Foreground(ErrorColor)
	StatusPending = lipgloss.NewStyle().Foreground(WarningColor)

	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Success prints a green confirmation line to stdout.
func Success(format string, args ...any) {
	fmt.Println(StatusSuccess.Render(fmt.Sprintf(format, args...)))
}

// Fail prints a red error line to stderr.
func Fail(msg string) {
	fmt.Fprintln(os.Stderr, StatusError.Render("Error: "+msg))
}

// ActiveLabel renders an on/off flag the way lists show it.
func ActiveLabel(active bool) string {
	if active {
		return StatusSuccess.Render("active")
	}
	return StatusPending.Render("paused")
}
