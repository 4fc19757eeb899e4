package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/model"
	"github.com/theirongolddev/linkstat/internal/pipeline"
	"github.com/theirongolddev/linkstat/internal/tui/components"
	"github.com/theirongolddev/linkstat/internal/tui/theme"
)

// selectedDetail builds the detail for the link under the cursor.
func (a App) selectedDetail() (pipeline.LinkDetail, bool) {
	if a.linkCursor < 0 || a.linkCursor >= len(a.table.Rows) {
		return pipeline.LinkDetail{}, false
	}
	d, err := pipeline.BuildLinkDetail(a.cache, a.table.Rows[a.linkCursor].Name, a.window)
	if err != nil {
		return pipeline.LinkDetail{}, false
	}
	return d, true
}

func (a App) renderDetailTab(cw int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	d, ok := a.selectedDetail()
	if !ok {
		return components.ContentCard("Detail", dim.Render("Select a link on the Links tab"), cw)
	}

	var b strings.Builder

	urlStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)
	head := urlStyle.Render(cli.Truncate(d.Link.URL, components.CardInnerWidth(cw)))
	if d.HistoryErr != nil {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		head += "\n" + warn.Render("History unavailable, counts show as zero: "+d.HistoryErr.Error())
	}
	b.WriteString(components.ContentCard(d.Link.Name, head, cw))
	b.WriteString("\n")

	avg := float64(d.WindowClicks) / float64(a.window.Days())
	peak, _ := peakDay(d.Series.Points)
	last, _ := d.Series.At(a.window.End)
	active := 0
	for _, p := range d.Series.Points {
		if p.Count > 0 {
			active++
		}
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{
			Label: "Clicks",
			Value: cli.FormatClicks(d.WindowClicks),
			Delta: fmt.Sprintf("%s vs prev", cli.FormatDelta(d.WindowClicks, d.PrevClicks)),
			Trend: trend(d.WindowClicks, d.PrevClicks),
		},
		{Label: "Per Day", Value: fmt.Sprintf("%.1f", avg), Delta: fmt.Sprintf("%d/%d active, last %s", active, a.window.Days(), cli.FormatClicks(last))},
		{Label: "Peak Day", Value: cli.FormatClicks(peak.Count), Delta: peakLabel(peak)},
		{Label: "Lifetime", Value: cli.FormatClicks(d.Link.LifetimeClicks), Delta: share(d.WindowClicks, d.Link.LifetimeClicks)},
	}, cw))
	b.WriteString("\n")

	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Daily Clicks · %s", cli.FormatWindow(a.window)),
		components.BarChart(d.Series.Floats(), components.DateLabels(dates(d.Series)),
			t.Series(a.linkCursor), components.CardInnerWidth(cw), chartH),
		cw,
	))
	return b.String()
}

func dates(s model.DailySeries) []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// share describes part as a percentage of whole.
func share(part, whole int64) string {
	if whole <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%% in window", float64(part)/float64(whole)*100)
}
