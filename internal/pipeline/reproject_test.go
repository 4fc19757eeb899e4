package pipeline

import (
	"math/rand"
	"testing"
	"time"

	"github.com/theirongolddev/linkstat/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func mustWindow(t *testing.T, start, end string) model.Window {
	t.Helper()
	w, err := model.NewWindow(mustDate(t, start), mustDate(t, end))
	if err != nil {
		t.Fatalf("window %s..%s: %v", start, end, err)
	}
	return w
}

func point(t *testing.T, day string, n int64) model.TrafficPoint {
	t.Helper()
	return model.TrafficPoint{Day: mustDate(t, day), Count: n}
}

func TestReprojectScenario(t *testing.T) {
	points := []model.TrafficPoint{
		point(t, "2024-01-01", 5),
		point(t, "2024-01-03", 2),
	}
	w := mustWindow(t, "2024-01-01", "2024-01-03")

	s := Reproject(points, w)

	want := []int64{5, 0, 2}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("series[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if total := Total(s); total != 7 {
		t.Fatalf("Total = %d, want 7", total)
	}
}

func TestReprojectEmptyIsAllZero(t *testing.T) {
	w := mustWindow(t, "2023-12-25", "2024-01-07")

	for _, points := range [][]model.TrafficPoint{nil, {}} {
		s := Reproject(points, w)
		if s.Len() != 14 {
			t.Fatalf("len = %d, want 14", s.Len())
		}
		for i, p := range s.Points {
			if p.Count != 0 {
				t.Fatalf("series[%d] = %d, want 0", i, p.Count)
			}
		}
	}
}

func TestReprojectWindowBeforeData(t *testing.T) {
	points := []model.TrafficPoint{
		point(t, "2024-05-01", 9),
		point(t, "2024-05-02", 3),
	}
	w := mustWindow(t, "2020-01-01", "2020-01-31")

	s := Reproject(points, w)
	if s.Len() != 31 {
		t.Fatalf("len = %d, want 31", s.Len())
	}
	if total := Total(s); total != 0 {
		t.Fatalf("Total = %d, want 0", total)
	}
}

func TestReprojectDuplicateDateLastWins(t *testing.T) {
	points := []model.TrafficPoint{
		point(t, "2024-01-02", 4),
		point(t, "2024-01-02", 11),
	}
	s := Reproject(points, mustWindow(t, "2024-01-01", "2024-01-03"))

	if n, _ := s.At(mustDate(t, "2024-01-02")); n != 11 {
		t.Fatalf("duplicate day = %d, want 11 (last seen)", n)
	}
}

func TestReprojectIgnoresTimeOfDay(t *testing.T) {
	points := []model.TrafficPoint{
		{Day: time.Date(2024, 1, 2, 18, 45, 0, 0, time.UTC), Count: 6},
	}
	s := Reproject(points, mustWindow(t, "2024-01-01", "2024-01-03"))

	if n, _ := s.At(mustDate(t, "2024-01-02")); n != 6 {
		t.Fatalf("day with time component = %d, want 6", n)
	}
}

func TestReprojectDoesNotMutateInput(t *testing.T) {
	points := []model.TrafficPoint{point(t, "2024-01-03", 2), point(t, "2024-01-01", 5)}
	before := append([]model.TrafficPoint(nil), points...)

	_ = Reproject(points, mustWindow(t, "2024-01-01", "2024-01-03"))

	for i := range points {
		if !points[i].Day.Equal(before[i].Day) || points[i].Count != before[i].Count {
			t.Fatalf("input[%d] changed: %+v, want %+v", i, points[i], before[i])
		}
	}
}

// Randomised property checks over many windows and sparse point sets.
func TestReprojectProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := mustDate(t, "2023-01-01")

	for iter := 0; iter < 200; iter++ {
		// Sparse points with unique days over roughly two years.
		byDay := make(map[string]int64)
		var points []model.TrafficPoint
		for n := rng.Intn(40); n > 0; n-- {
			d := base.AddDate(0, 0, rng.Intn(730))
			key := model.DayKey(d)
			if _, dup := byDay[key]; dup {
				continue
			}
			c := int64(rng.Intn(500))
			byDay[key] = c
			points = append(points, model.TrafficPoint{Day: d, Count: c})
		}

		start := base.AddDate(0, 0, rng.Intn(800)-30)
		w := model.Window{Start: start, End: start.AddDate(0, 0, rng.Intn(120))}
		s := Reproject(points, w)

		wantLen := int(w.End.Sub(w.Start).Hours()/24) + 1
		if s.Len() != wantLen {
			t.Fatalf("iter %d: len = %d, want %d", iter, s.Len(), wantLen)
		}

		var wantTotal int64
		for _, p := range points {
			if w.Contains(p.Day) {
				wantTotal += p.Count
			}
		}
		if got := Total(s); got != wantTotal {
			t.Fatalf("iter %d: Total = %d, want %d", iter, got, wantTotal)
		}

		for i, p := range s.Points {
			if i > 0 && !p.Date.Equal(s.Points[i-1].Date.AddDate(0, 0, 1)) {
				t.Fatalf("iter %d: gap or disorder at %d: %s after %s",
					iter, i, model.DayKey(p.Date), model.DayKey(s.Points[i-1].Date))
			}
			if p.Count != byDay[model.DayKey(p.Date)] {
				t.Fatalf("iter %d: series[%s] = %d, want %d",
					iter, model.DayKey(p.Date), p.Count, byDay[model.DayKey(p.Date)])
			}
		}

		again := Reproject(points, w)
		for i := range s.Points {
			if again.Points[i] != s.Points[i] {
				t.Fatalf("iter %d: Reproject is not deterministic at %d", iter, i)
			}
		}
	}
}
