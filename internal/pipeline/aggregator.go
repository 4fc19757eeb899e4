package pipeline

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/linkstat/internal/model"
)

// ErrWindowMismatch is returned when series over different days are combined.
// Callers must reproject every input onto the same window first.
var ErrWindowMismatch = errors.New("pipeline: series windows do not match")

// Total sums every count in the series.
func Total(s model.DailySeries) int64 {
	var sum int64
	for _, p := range s.Points {
		sum += p.Count
	}
	return sum
}

// SumSeries adds dense series day by day. Every input must cover exactly w.
// With no inputs the result is an all-zero series over w.
func SumSeries(w model.Window, series ...model.DailySeries) (model.DailySeries, error) {
	out := Reproject(nil, w)
	for i, s := range series {
		if !coversExactly(s, w) {
			return model.DailySeries{}, fmt.Errorf("%w: input %d covers %s (%d days), want %s (%d days)",
				ErrWindowMismatch, i, s.Window, s.Len(), w, w.Days())
		}
		for j, p := range s.Points {
			out.Points[j].Count += p.Count
		}
	}
	return out, nil
}

// coversExactly checks s holds one point per day of w in ascending order.
func coversExactly(s model.DailySeries, w model.Window) bool {
	if len(s.Points) != w.Days() {
		return false
	}
	day := w.Start
	for _, p := range s.Points {
		if !p.Date.Equal(day) {
			return false
		}
		day = day.AddDate(0, 0, 1)
	}
	return true
}

// LifetimeTotal sums the provider-reported lifetime clicks of links.
// It does not depend on any window or on cached history.
func LifetimeTotal(links []model.TrackedLink) int64 {
	var sum int64
	for _, l := range links {
		sum += l.LifetimeClicks
	}
	return sum
}

// WindowTotal reprojects points onto w and sums them.
func WindowTotal(points []model.TrafficPoint, w model.Window) int64 {
	return Total(Reproject(points, w))
}
