package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// palette is the picker's stylesheet: a green accent for headings (the hue of
// a play button), muted gray for help text, red for failures.
type palette struct {
	title lipgloss.Style
	pick  lipgloss.Style
	err   lipgloss.Style
	help  lipgloss.Style
}

var styles = newPalette()

func newPalette() palette {
	return palette{
		title: fg("#2BB673").Bold(true).MarginBottom(1),
		pick:  fg("#C792EA").Bold(true),
		err:   fg("#E84855").Bold(true),
		help:  fg("#6C6F85").Italic(true),
	}
}

func fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
