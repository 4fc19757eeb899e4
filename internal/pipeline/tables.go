package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/linkstat/internal/model"
)

// ErrUnknownLink is returned when a selection names a link the cache does not hold.
var ErrUnknownLink = errors.New("pipeline: unknown link")

// TotalLabel names the aggregate row and column.
const TotalLabel = "Total"

// LinkRow is one line of the link summary table.
type LinkRow struct {
	ID             string
	Name           string
	URL            string
	WindowClicks   int64
	PrevClicks     int64 // same-length window immediately before
	LifetimeClicks int64
	HistoryErr     error // non-nil if this link's history could not be fetched
}

// LinkTable is the per-link summary for a window plus its Total row.
type LinkTable struct {
	Window model.Window
	Rows   []LinkRow
	Total  LinkRow
}

// BuildLinkTable summarises every cached link over w in provider order.
// The Total row's LifetimeClicks comes from provider metadata, while its
// WindowClicks is the sum of the window counts.
func BuildLinkTable(c *SessionCache, w model.Window) LinkTable {
	links := c.Links()
	prev := w.Previous()

	table := LinkTable{
		Window: w,
		Rows:   make([]LinkRow, 0, len(links)),
		Total:  LinkRow{Name: TotalLabel},
	}
	for _, l := range links {
		history := c.History(l.ID)
		row := LinkRow{
			ID:             l.ID,
			Name:           l.Name,
			URL:            l.URL,
			WindowClicks:   WindowTotal(history, w),
			PrevClicks:     WindowTotal(history, prev),
			LifetimeClicks: l.LifetimeClicks,
			HistoryErr:     c.HistoryErr(l.ID),
		}
		table.Rows = append(table.Rows, row)
		table.Total.WindowClicks += row.WindowClicks
		table.Total.PrevClicks += row.PrevClicks
	}
	table.Total.LifetimeClicks = LifetimeTotal(links)
	return table
}

// ChartColumn is one named dense series of a chart table.
type ChartColumn struct {
	Name   string
	Values []int64
	Total  int64
}

// ChartTable is a dense, date-indexed table ready for line or bar charts.
type ChartTable struct {
	Window  model.Window
	Dates   []time.Time
	Columns []ChartColumn
}

// Column returns the column with the given name.
func (t ChartTable) Column(name string) (ChartColumn, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ChartColumn{}, false
}

// BuildChartTable reprojects the selected links onto w, in selection order.
// An empty selection means every link. includeTotal appends a Total column
// summed over the selected links.
func BuildChartTable(c *SessionCache, names []string, w model.Window, includeTotal bool) (ChartTable, error) {
	var selected []model.TrackedLink
	if len(names) == 0 {
		selected = c.Links()
	} else {
		selected = make([]model.TrackedLink, 0, len(names))
		for _, name := range names {
			l, ok := c.LinkByName(name)
			if !ok {
				return ChartTable{}, fmt.Errorf("%w: %q", ErrUnknownLink, name)
			}
			selected = append(selected, l)
		}
	}

	table := ChartTable{Window: w, Dates: w.Dates()}
	series := make([]model.DailySeries, 0, len(selected))
	for _, l := range selected {
		s := Reproject(c.History(l.ID), w)
		series = append(series, s)
		table.Columns = append(table.Columns, ChartColumn{
			Name:   l.Name,
			Values: s.Values(),
			Total:  Total(s),
		})
	}

	if includeTotal {
		sum, err := SumSeries(w, series...)
		if err != nil {
			return ChartTable{}, err
		}
		table.Columns = append(table.Columns, ChartColumn{
			Name:   TotalLabel,
			Values: sum.Values(),
			Total:  Total(sum),
		})
	}
	return table, nil
}

// LinkDetail is the single-link view: metadata plus its dense series.
type LinkDetail struct {
	Link         model.TrackedLink
	Series       model.DailySeries
	WindowClicks int64
	PrevClicks   int64
	HistoryErr   error
}

// BuildLinkDetail reprojects one link, looked up by display name, onto w.
func BuildLinkDetail(c *SessionCache, name string, w model.Window) (LinkDetail, error) {
	l, ok := c.LinkByName(name)
	if !ok {
		return LinkDetail{}, fmt.Errorf("%w: %q", ErrUnknownLink, name)
	}
	history := c.History(l.ID)
	s := Reproject(history, w)
	return LinkDetail{
		Link:         l,
		Series:       s,
		WindowClicks: Total(s),
		PrevClicks:   WindowTotal(history, w.Previous()),
		HistoryErr:   c.HistoryErr(l.ID),
	}, nil
}
