package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/pipeline"
	"github.com/theirongolddev/linkstat/internal/tui/components"
	"github.com/theirongolddev/linkstat/internal/tui/theme"
)

// linkColumns returns the numeric column width and name width for the
// links table at innerW.
func linkColumns(innerW int) (nameW, numW int) {
	numW = 10
	nameW = max(innerW-4*numW-8-2, 12)
	return nameW, numW
}

func (a App) renderLinksTab(cw, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	nameW, numW := linkColumns(innerW)

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	totalStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	format := func(r pipeline.LinkRow) string {
		return fmt.Sprintf("%-*s %*s %*s %*s %*s",
			nameW, cli.Truncate(r.Name, nameW),
			numW, cli.FormatNumber(r.WindowClicks),
			numW, cli.FormatNumber(r.PrevClicks),
			numW, cli.FormatChange(r.WindowClicks, r.PrevClicks),
			numW, cli.FormatNumber(r.LifetimeClicks))
	}

	var body strings.Builder
	body.WriteString(headStyle.Render(fmt.Sprintf("  %-*s %*s %*s %*s %*s",
		nameW, "Link", numW, "Window", numW, "Previous", numW, "Change", numW, "Lifetime")))
	body.WriteString("\n")

	if err := a.cache.LinksErr(); err != nil {
		body.WriteString(warnStyle.Render("  Could not list links: " + err.Error()))
		return components.ContentCard("Links", body.String(), cw)
	}
	if len(a.table.Rows) == 0 {
		body.WriteString(dim.Render("  No links in this workspace"))
		return components.ContentCard("Links", body.String(), cw)
	}

	// Card chrome (4) + header (1) + total row (2) + footer hint (2).
	visible := max(h-9, 3)
	offset := 0
	if a.linkCursor >= visible {
		offset = a.linkCursor - visible + 1
	}
	end := min(offset+visible, len(a.table.Rows))

	for i := offset; i < end; i++ {
		r := a.table.Rows[i]
		marker := "  "
		if r.HistoryErr != nil {
			marker = warnStyle.Render("! ")
		}
		line := format(r)
		if i == a.linkCursor {
			body.WriteString(marker + selStyle.Render(line))
		} else {
			body.WriteString(marker + rowStyle.Render(line))
		}
		body.WriteString("\n")
	}

	body.WriteString(dim.Render("  " + strings.Repeat("─", max(lipgloss.Width(format(a.table.Total)), 1))))
	body.WriteString("\n")
	body.WriteString("  " + totalStyle.Render(format(a.table.Total)))
	body.WriteString("\n\n")

	hint := fmt.Sprintf("%d of %d · j/k select · enter details · ! = history missing", a.linkCursor+1, len(a.table.Rows))
	body.WriteString(dim.Render("  " + hint))

	return components.ContentCard("Links · "+cli.FormatWindow(a.window), body.String(), cw)
}
