// Package theme holds the Catppuccin Mocha colors and the styles built on them.
package theme

import "github.com/charmbracelet/lipgloss"

var (
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
)

var (
	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	Clock = lipgloss.NewStyle().Bold(true).Padding(0, 2)
)

// timerColors maps a timer status to its accent. Idle uses the plain border.
var timerColors = map[string]lipgloss.Color{
	"running": Green,
	"paused":  Yellow,
}

func timerColor(status string) lipgloss.Color {
	if c, ok := timerColors[status]; ok {
		return c
	}
	return Surface1
}

// TimerPane borders the timer in the color of its status.
func TimerPane(status string) lipgloss.Style {
	return Pane.BorderForeground(timerColor(status))
}

// TimerClock renders elapsed time in the color of the status, muted when idle.
func TimerClock(status string) lipgloss.Style {
	if _, ok := timerColors[status]; !ok {
		return Clock.Foreground(Subtext0)
	}
	return Clock.Foreground(timerColor(status))
}
