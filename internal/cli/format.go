// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/linkstat/internal/model"
)

// FormatClicks shortens large counts for cards and narrow columns:
// 9,999 stays exact, 12_345 -> "12.3K", 4_200_000 -> "4.2M".
func FormatClicks(n int64) string {
	v := float64(n)
	switch a := max(n, -n); {
	case a >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case a >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case a >= 1e4:
		return fmt.Sprintf("%.1fK", v/1e3)
	}
	return FormatNumber(n)
}

// FormatNumber renders n with thousands separators.
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatDelta formats the change between two counts with a sign.
// e.g., (120, 100) -> "+20", (80, 100) -> "-20", (5, 5) -> "0"
func FormatDelta(current, previous int64) string {
	delta := current - previous
	switch {
	case delta > 0:
		return "+" + FormatNumber(delta)
	case delta < 0:
		return FormatNumber(delta)
	default:
		return "0"
	}
}

// FormatChange formats the relative change between two counts.
// A previous count of zero has no meaningful ratio and renders as "new"
// (or "-" when both are zero).
func FormatChange(current, previous int64) string {
	if previous == 0 {
		if current == 0 {
			return "-"
		}
		return "new"
	}
	pct := float64(current-previous) / float64(previous) * 100
	return fmt.Sprintf("%+.0f%%", pct)
}

// FormatDayOfWeek abbreviates a weekday number (0 = Sunday).
func FormatDayOfWeek(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return "???"
	}
	return time.Weekday(weekday).String()[:3]
}

// FormatDate renders a calendar day as "Mon Jan 02".
func FormatDate(t time.Time) string {
	return FormatDayOfWeek(int(t.Weekday())) + " " + t.Format("Jan 02")
}

// FormatWindow renders a window as "Jan 02 - Jan 31, 2024 (31 days)".
func FormatWindow(w model.Window) string {
	days := "days"
	if w.Days() == 1 {
		days = "day"
	}
	if w.Start.Year() == w.End.Year() {
		return fmt.Sprintf("%s - %s (%d %s)",
			w.Start.Format("Jan 02"), w.End.Format("Jan 02, 2006"), w.Days(), days)
	}
	return fmt.Sprintf("%s - %s (%d %s)",
		w.Start.Format("Jan 02, 2006"), w.End.Format("Jan 02, 2006"), w.Days(), days)
}

// Truncate shortens s to max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
