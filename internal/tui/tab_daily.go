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

// columnColor keeps the Total column in the accent color and gives each
// link column its own series color.
func columnColor(i int, name string) lipgloss.Color {
	if name == pipeline.TotalLabel {
		return theme.Active.Accent
	}
	return theme.Active.Series(i)
}

func (a App) renderDailyTab(cw, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.chart.Columns) == 0 {
		return components.ContentCard("Daily", dim.Render("Nothing selected"), cw)
	}

	var b strings.Builder

	// Trend card: one sparkline per column.
	nameW := 14
	numW := 9
	sparkW := max(innerW-nameW-numW-2, 10)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	var spark strings.Builder
	for i, col := range a.chart.Columns {
		vals := make([]float64, len(col.Values))
		for j, v := range col.Values {
			vals[j] = float64(v)
		}
		vals, _ = components.Resample(vals, nil, sparkW)
		spark.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, cli.Truncate(col.Name, nameW))))
		spark.WriteString(space)
		spark.WriteString(components.Sparkline(vals, columnColor(i, col.Name)))
		spark.WriteString(space)
		spark.WriteString(numStyle.Render(fmt.Sprintf("%*s", numW, cli.FormatClicks(col.Total))))
		if i < len(a.chart.Columns)-1 {
			spark.WriteString("\n")
		}
	}
	sparkCard := components.ContentCard("Trend · "+cli.FormatWindow(a.window), spark.String(), cw)
	b.WriteString(sparkCard)
	b.WriteString("\n")

	// Table card: newest day first, scrollable.
	colW := 10
	maxCols := max((innerW-12)/(colW+1), 1)
	cols := a.chart.Columns
	clipped := len(cols) > maxCols
	if clipped {
		cols = cols[:maxCols]
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	zeroStyle := dim
	valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var tbl strings.Builder
	tbl.WriteString(headStyle.Render(fmt.Sprintf("%-11s", "Date")))
	for _, col := range cols {
		tbl.WriteString(headStyle.Render(fmt.Sprintf(" %*s", colW, cli.Truncate(col.Name, colW))))
	}
	tbl.WriteString("\n")

	visible := max(h-lipgloss.Height(sparkCard)-5, 3)
	n := len(a.chart.Dates)
	scroll := min(a.dailyScroll, max(n-visible, 0))
	for row := scroll; row < min(scroll+visible, n); row++ {
		i := n - 1 - row
		tbl.WriteString(dateStyle.Render(fmt.Sprintf("%-11s", cli.FormatDate(a.chart.Dates[i]))))
		for _, col := range cols {
			v := col.Values[i]
			cell := fmt.Sprintf(" %*s", colW, cli.FormatNumber(v))
			if v == 0 {
				tbl.WriteString(zeroStyle.Render(cell))
			} else {
				tbl.WriteString(valStyle.Render(cell))
			}
		}
		tbl.WriteString("\n")
	}

	title := fmt.Sprintf("Daily clicks (%d days)", n)
	if clipped {
		title += fmt.Sprintf(" · %d of %d columns, use f to narrow", len(cols), len(a.chart.Columns))
	}
	b.WriteString(components.ContentCard(title, strings.TrimSuffix(tbl.String(), "\n"), cw))
	return b.String()
}
