package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/linkstat/internal/model"
)

func TestSumSeriesIdentity(t *testing.T) {
	w := mustWindow(t, "2024-01-01", "2024-01-05")
	s := Reproject([]model.TrafficPoint{
		point(t, "2024-01-02", 3),
		point(t, "2024-01-05", 8),
	}, w)

	sum, err := SumSeries(w, s)
	require.NoError(t, err)
	assert.Equal(t, s.Points, sum.Points)
	assert.True(t, sum.Window.Equal(w))
}

func TestSumSeriesPointwise(t *testing.T) {
	w := mustWindow(t, "2024-01-01", "2024-01-04")
	a := Reproject([]model.TrafficPoint{
		point(t, "2024-01-01", 1),
		point(t, "2024-01-03", 4),
	}, w)
	b := Reproject([]model.TrafficPoint{
		point(t, "2024-01-03", 6),
		point(t, "2024-01-04", 2),
		point(t, "2023-12-31", 100), // outside w
	}, w)

	sum, err := SumSeries(w, a, b)
	require.NoError(t, err)
	require.Equal(t, w.Days(), sum.Len())

	for i := range sum.Points {
		assert.Equal(t, a.Points[i].Count+b.Points[i].Count, sum.Points[i].Count, "day %s", model.DayKey(sum.Points[i].Date))
	}
	assert.Equal(t, []int64{1, 0, 10, 2}, sum.Values())
	assert.Equal(t, Total(a)+Total(b), Total(sum))
}

func TestSumSeriesNoInputs(t *testing.T) {
	w := mustWindow(t, "2024-01-01", "2024-01-03")
	sum, err := SumSeries(w)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0, 0}, sum.Values())
}

func TestSumSeriesDoesNotAliasInput(t *testing.T) {
	w := mustWindow(t, "2024-01-01", "2024-01-02")
	s := Reproject([]model.TrafficPoint{point(t, "2024-01-01", 5)}, w)

	sum, err := SumSeries(w, s)
	require.NoError(t, err)
	sum.Points[0].Count = 99

	assert.Equal(t, int64(5), s.Points[0].Count)
}

func TestSumSeriesWindowMismatch(t *testing.T) {
	w := mustWindow(t, "2024-01-01", "2024-01-03")
	ok := Reproject(nil, w)

	tests := []struct {
		name string
		s    model.DailySeries
	}{
		{"shorter", Reproject(nil, mustWindow(t, "2024-01-01", "2024-01-02"))},
		{"shifted", Reproject(nil, mustWindow(t, "2024-01-02", "2024-01-04"))},
		{"empty", model.DailySeries{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SumSeries(w, ok, tt.s)
			if !errors.Is(err, ErrWindowMismatch) {
				t.Fatalf("SumSeries error = %v, want ErrWindowMismatch", err)
			}
			assert.Contains(t, err.Error(), "input 1")
		})
	}
}

func TestLifetimeTotalIgnoresWindow(t *testing.T) {
	links := []model.TrackedLink{
		{ID: "1", Name: "a", LifetimeClicks: 100},
		{ID: "2", Name: "b", LifetimeClicks: 50},
	}
	if got := LifetimeTotal(links); got != 150 {
		t.Fatalf("LifetimeTotal = %d, want 150", got)
	}
	if got := LifetimeTotal(nil); got != 0 {
		t.Fatalf("LifetimeTotal(nil) = %d, want 0", got)
	}
}

func TestWindowTotal(t *testing.T) {
	points := []model.TrafficPoint{
		point(t, "2024-01-01", 5),
		point(t, "2024-01-03", 2),
		point(t, "2024-02-01", 40),
	}
	if got := WindowTotal(points, mustWindow(t, "2024-01-01", "2024-01-31")); got != 7 {
		t.Fatalf("WindowTotal(January) = %d, want 7", got)
	}
	if got := WindowTotal(points, mustWindow(t, "2024-02-01", "2024-02-01")); got != 40 {
		t.Fatalf("WindowTotal(Feb 1) = %d, want 40", got)
	}
}
