package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/advait-mulye/medner/internal/model"
)

var (
	colorAccent    = lipgloss.Color("#3498db")
	colorError     = lipgloss.Color("#e74c3c")
	colorSecondary = lipgloss.Color("#7f8c8d")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginTop(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Italic(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(0, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	focusedBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorAccent)

	blurredBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorSecondary)
)

// labelStyle colors text with the label's table color
func labelStyle(label string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(model.StyleFor(label).Color))
}

// tagStyle renders a surface string as a colored chip
func tagStyle(label string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(model.StyleFor(label).Color)).
		Padding(0, 1)
}
