package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/linkstat/internal/tui/theme"
)

// FetchBar renders a labelled progress bar for the history download:
// "label [██████░░░░] current/total".
func FetchBar(label string, current, total, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if total > 0 {
		pct = float64(current) / float64(total)
	}
	pct = min(max(pct, 0), 1)

	bar := progress.New(
		progress.WithGradient(string(t.Accent), string(t.AccentBright)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(label) + space +
		bar.ViewAs(pct) + space +
		countStyle.Render(fmt.Sprintf("%d/%d", current, total))
}

// ShareBar renders a solid bar of width cells filled to share (0..1),
// used for per-link share of the window total.
func ShareBar(share float64, width int, color lipgloss.Color) string {
	share = min(max(share, 0), 1)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.Border)
	return bar.ViewAs(share)
}
