package components

import (
	"strings"

	"github.com/theirongolddev/stayask/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar with left-aligned key hints
// and right-aligned info.
func RenderStatusBar(width int, hints, info string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	padding := max(width-lipgloss.Width(hints)-lipgloss.Width(info), 0)
	return style.Render(hints + strings.Repeat(" ", padding) + info)
}
