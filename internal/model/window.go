package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in output.
const DateLayout = "2006-01-02"

// MaxWindowDays bounds user-supplied windows (about 100 years).
const MaxWindowDays = 36525

var (
	// ErrInvalidWindow is returned when a window's start falls after its end.
	ErrInvalidWindow = errors.New("model: window start is after end")
	// ErrWindowTooLong is returned by ParseWindow for windows over MaxWindowDays.
	ErrWindowTooLong = errors.New("model: window too long")
)

const secondsPerDay = 24 * 60 * 60

// DaysBetween counts whole calendar days from a to b. It works on Unix
// seconds, so it is exact for any span, unlike time.Duration.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

// Day returns the calendar date of t as 00:00 UTC.
// The date is read in t's own location, so a local "today" stays today.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats a calendar date for use as a map key.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDay parses a YYYY-MM-DD string into a calendar date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// Window is an inclusive [Start, End] range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow normalises start and end to calendar days and validates order.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: Day(start), End: Day(end)}
	if w.Start.After(w.End) {
		return Window{}, fmt.Errorf("%w: %s > %s", ErrInvalidWindow,
			w.Start.Format(DateLayout), w.End.Format(DateLayout))
	}
	return w, nil
}

// LastDays returns the window ending on today's date and starting n days earlier.
// A 30-day window therefore spans 31 calendar days, today included.
func LastDays(today time.Time, n int) Window {
	if n < 0 {
		n = 0
	}
	end := Day(today)
	return Window{Start: end.AddDate(0, 0, -n), End: end}
}

// ParseWindow resolves user-supplied bounds. Explicit start/end strings win;
// a missing bound is derived from days relative to the other one (or today).
// Windows longer than MaxWindowDays are rejected with ErrWindowTooLong.
func ParseWindow(startStr, endStr string, days int, today time.Time) (Window, error) {
	w, err := parseWindow(startStr, endStr, days, today)
	if err != nil {
		return Window{}, err
	}
	if n := w.Days(); n > MaxWindowDays {
		return Window{}, fmt.Errorf("%w: %d days (max %d)", ErrWindowTooLong, n, MaxWindowDays)
	}
	return w, nil
}

func parseWindow(startStr, endStr string, days int, today time.Time) (Window, error) {
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	end := Day(today)
	if endStr != "" {
		t, err := ParseDay(endStr)
		if err != nil {
			return Window{}, err
		}
		end = t
	}

	if startStr == "" {
		if days < 0 {
			days = 0
		}
		if days >= MaxWindowDays {
			return Window{}, fmt.Errorf("%w: %d days (max %d)", ErrWindowTooLong, days+1, MaxWindowDays)
		}
		return Window{Start: end.AddDate(0, 0, -days), End: end}, nil
	}

	start, err := ParseDay(startStr)
	if err != nil {
		return Window{}, err
	}
	days = min(days, MaxWindowDays)
	if endStr == "" && days > 0 && start.AddDate(0, 0, days).Before(end) {
		end = start.AddDate(0, 0, days)
	}
	return NewWindow(start, end)
}

// Days returns the number of calendar days in the window, both ends included.
func (w Window) Days() int {
	return DaysBetween(w.Start, w.End) + 1
}

// Contains reports whether the calendar date of t lies inside the window.
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Dates lists every calendar day in the window in ascending order.
func (w Window) Dates() []time.Time {
	n := w.Days()
	if n <= 0 {
		return nil
	}
	dates := make([]time.Time, n)
	day := w.Start
	for i := range dates {
		dates[i] = day
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

// Previous returns the window of equal length ending the day before w starts.
func (w Window) Previous() Window {
	n := w.Days()
	end := w.Start.AddDate(0, 0, -1)
	return Window{Start: end.AddDate(0, 0, -(n - 1)), End: end}
}

// Shift moves the window by n days (negative moves it back in time).
func (w Window) Shift(n int) Window {
	return Window{Start: w.Start.AddDate(0, 0, n), End: w.End.AddDate(0, 0, n)}
}

// Equal reports whether both windows cover the same days.
func (w Window) Equal(o Window) bool {
	return w.Start.Equal(o.Start) && w.End.Equal(o.End)
}

func (w Window) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}
