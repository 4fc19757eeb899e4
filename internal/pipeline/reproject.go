package pipeline

import "github.com/theirongolddev/linkstat/internal/model"

// Reproject expands sparse points into a dense series covering every day of w.
// Days without a point are 0 and points outside w are ignored. If two points
// share a date the later one in the slice wins; the provider is expected to
// send at most one per day. The cache is never consulted or refetched, so a
// window outside the fetched history simply reads as zeros.
func Reproject(points []model.TrafficPoint, w model.Window) model.DailySeries {
	byDay := make(map[string]int64, len(points))
	for _, p := range points {
		if !w.Contains(p.Day) {
			continue
		}
		byDay[model.DayKey(model.Day(p.Day))] = p.Count
	}

	dates := w.Dates()
	out := make([]model.DailyPoint, len(dates))
	for i, d := range dates {
		out[i] = model.DailyPoint{Date: d, Count: byDay[model.DayKey(d)]}
	}
	return model.DailySeries{Window: w, Points: out}
}
