package voidlight

import "github.com/charmbracelet/lipgloss"

var (
	hopeColor = lipgloss.Color("#f9e2af")
	fearColor = lipgloss.Color("#cba6f7")
	mutedText = lipgloss.Color("#a6adc8")
	hotColor  = lipgloss.Color("#fab387")

	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#74c7ec")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(mutedText)
	hopeStyle  = lipgloss.NewStyle().Foreground(hopeColor).Bold(true)
	fearStyle  = lipgloss.NewStyle().Foreground(fearColor).Bold(true)
	hotStyle   = lipgloss.NewStyle().Foreground(hotColor).Bold(true)

	cardStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#45475a")).
		Padding(0, 1)
)

// field renders "label: value" with a muted label.
func field(label string, value any) string {
	return labelStyle.Render(label+":") + " " + toText(value)
}
