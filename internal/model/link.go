// Package model defines the link, traffic, and series types shared across linkstat.
package model

import "time"

// TrackedLink is a short link tracked by the provider.
// LifetimeClicks is the provider's own cumulative count and is never
// derived from cached daily traffic.
type TrackedLink struct {
	ID             string
	Name           string
	URL            string
	LifetimeClicks int64
}

// TrafficPoint is one reported day of clicks. Provider data is sparse:
// days without activity are usually absent.
type TrafficPoint struct {
	Day   time.Time
	Count int64
}

// DailyPoint is one calendar day of a dense series.
type DailyPoint struct {
	Date  time.Time
	Count int64
}

// DailySeries holds exactly one point per calendar day of Window,
// in ascending date order.
type DailySeries struct {
	Window Window
	Points []DailyPoint
}

// Len returns the number of days in the series.
func (s DailySeries) Len() int {
	return len(s.Points)
}

// Values returns the counts in date order.
func (s DailySeries) Values() []int64 {
	vals := make([]int64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Count
	}
	return vals
}

// Floats returns the counts as float64, the form the chart widgets take.
func (s DailySeries) Floats() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = float64(p.Count)
	}
	return vals
}

// At returns the count for the given calendar day.
// ok is false when the day lies outside the series.
func (s DailySeries) At(day time.Time) (count int64, ok bool) {
	if len(s.Points) == 0 {
		return 0, false
	}
	idx := DaysBetween(s.Points[0].Date, day)
	if idx < 0 || idx >= len(s.Points) {
		return 0, false
	}
	return s.Points[idx].Count, true
}
