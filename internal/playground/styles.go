package playground

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"})

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#555555"}).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.BorderForeground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"})

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"})

	markupStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"})

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"})

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"})

	badgeStyle = lipgloss.NewStyle().Padding(0, 1).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#5A56E0"})

	// highlightStyles are indexed by nesting depth, the last one repeats.
	highlightStyles = []lipgloss.Style{
		lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#D4E9FF", Dark: "#1F4E79"}),
		lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#FFE08A", Dark: "#7A5C00"}),
		lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#F5B7B1", Dark: "#78281F"}),
	}

	// zeroWidthMarker shows where an empty range sits.
	zeroWidthMarker = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}).Render("▏")
)

func highlightStyle(depth int) lipgloss.Style {
	if depth > len(highlightStyles) {
		depth = len(highlightStyles)
	}
	return highlightStyles[depth-1]
}
