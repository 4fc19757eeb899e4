package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/model"
	"github.com/theirongolddev/linkstat/internal/pipeline"
	"github.com/theirongolddev/linkstat/internal/tui/components"
	"github.com/theirongolddev/linkstat/internal/tui/theme"
)

const (
	tabOverview = iota
	tabLinks
	tabDaily
	tabDetail
)

// trend is the sign of current against previous.
func trend(cur, prev int64) int {
	switch {
	case cur > prev:
		return 1
	case cur < prev:
		return -1
	}
	return 0
}

// peakDay returns the busiest day of a dense column. Ties go to the earliest day.
func peakDay(points []model.DailyPoint) (model.DailyPoint, bool) {
	var best model.DailyPoint
	found := false
	for _, p := range points {
		if !found || p.Count > best.Count {
			best, found = p, true
		}
	}
	return best, found
}

func (a App) totalPoints() []model.DailyPoint {
	dates := a.window.Dates()
	out := make([]model.DailyPoint, 0, len(dates))
	for i, d := range dates {
		var n int64
		if i < len(a.totals.Values) {
			n = a.totals.Values[i]
		}
		out = append(out, model.DailyPoint{Date: d, Count: n})
	}
	return out
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	total := a.table.Total
	var b strings.Builder

	// Row 1: metric cards
	avg := float64(total.WindowClicks) / float64(a.window.Days())
	peak, _ := peakDay(a.totalPoints())
	peakVal := "-"
	if peak.Count > 0 {
		peakVal = cli.FormatClicks(peak.Count)
	}

	cards := []components.Metric{
		{
			Label: "Clicks",
			Value: cli.FormatClicks(total.WindowClicks),
			Delta: fmt.Sprintf("%s vs prev (%s)", cli.FormatDelta(total.WindowClicks, total.PrevClicks),
				cli.FormatChange(total.WindowClicks, total.PrevClicks)),
			Trend: trend(total.WindowClicks, total.PrevClicks),
		},
		{Label: "Per Day", Value: fmt.Sprintf("%.1f", avg), Delta: fmt.Sprintf("over %d days", a.window.Days())},
		{Label: "Peak Day", Value: peakVal, Delta: peakLabel(peak)},
		{Label: "Lifetime", Value: cli.FormatClicks(total.LifetimeClicks), Delta: fmt.Sprintf("%d links", len(a.table.Rows))},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: daily total chart
	if len(a.totals.Values) > 0 {
		vals := make([]float64, len(a.totals.Values))
		for i, v := range a.totals.Values {
			vals[i] = float64(v)
		}
		chartH := 10
		if a.isCompactLayout() {
			chartH = 7
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Daily Clicks, all links (%dd)", a.window.Days()),
			components.BarChart(vals, components.DateLabels(a.window.Dates()), t.Blue,
				components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: top links by share + movers
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Top Links", a.renderTopLinks(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Movers", a.renderMovers(components.CardInnerWidth(cw)), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Top Links", a.renderTopLinks(components.CardInnerWidth(halves[0])), halves[0]),
			components.ContentCard("Movers", a.renderMovers(components.CardInnerWidth(halves[1])), halves[1]),
		}))
	}
	return b.String()
}

func peakLabel(p model.DailyPoint) string {
	if p.Count == 0 {
		return "no clicks"
	}
	return cli.FormatDate(p.Date)
}

// rankedRows returns the link rows sorted by window clicks, busiest first.
func (a App) rankedRows() []pipeline.LinkRow {
	rows := append([]pipeline.LinkRow(nil), a.table.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WindowClicks > rows[j].WindowClicks
	})
	return rows
}

func (a App) renderTopLinks(innerW int) string {
	t := theme.Active
	rows := a.rankedRows()
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No links")
	}
	rows = rows[:min(len(rows), 6)]

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	nameW := max(innerW/3, 10)
	numW := 7
	barW := max(innerW-nameW-numW-2, 4)

	var body strings.Builder
	for i, r := range rows {
		share := 0.0
		if a.table.Total.WindowClicks > 0 {
			share = float64(r.WindowClicks) / float64(a.table.Total.WindowClicks)
		}
		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, cli.Truncate(r.Name, nameW))))
		body.WriteString(space)
		body.WriteString(components.ShareBar(share, barW, t.Series(i)))
		body.WriteString(space)
		body.WriteString(numStyle.Render(fmt.Sprintf("%*s", numW, cli.FormatClicks(r.WindowClicks))))
		body.WriteString("\n")
	}
	return strings.TrimSuffix(body.String(), "\n")
}

// renderMovers lists the links whose clicks changed most against the
// previous window of the same length.
func (a App) renderMovers(innerW int) string {
	t := theme.Active
	rows := append([]pipeline.LinkRow(nil), a.table.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		return abs(rows[i].WindowClicks-rows[i].PrevClicks) > abs(rows[j].WindowClicks-rows[j].PrevClicks)
	})

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	nameW := max(innerW-22, 10)

	var body strings.Builder
	shown := 0
	for _, r := range rows {
		if r.WindowClicks == r.PrevClicks || shown == 6 {
			continue
		}
		color := t.Green
		if r.WindowClicks < r.PrevClicks {
			color = t.Red
		}
		deltaStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, cli.Truncate(r.Name, nameW))))
		body.WriteString(deltaStyle.Render(fmt.Sprintf(" %10s %8s",
			cli.FormatDelta(r.WindowClicks, r.PrevClicks), cli.FormatChange(r.WindowClicks, r.PrevClicks))))
		body.WriteString("\n")
		shown++
	}
	if shown == 0 {
		return dim.Render("No change against " + cli.FormatWindow(a.window.Previous()))
	}
	return strings.TrimSuffix(body.String(), "\n")
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
