package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/linkstat/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. notice, when set, is shown
// in the warning color ahead of info on the right.
func RenderStatusBar(width int, info, notice string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	left := base.Render(" [?]help  [f]ilter  [q]uit")

	right := ""
	if notice != "" {
		right = warn.Render("! "+notice) + base.Render("  ")
	}
	if info != "" {
		right += base.Render(info + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// Drop the info text before the notice.
		right = ""
		if notice != "" {
			right = warn.Render("! " + notice + " ")
		}
		padding = width - lipgloss.Width(left) - lipgloss.Width(right)
	}
	if padding < 0 {
		padding = 0
	}

	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")
	return lipgloss.NewStyle().MaxWidth(width).Render(left + gap + right)
}
