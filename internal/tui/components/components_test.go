package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/linkstat/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI styling in the padded area", i)
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)
	shortCard := ContentCard("Short", "A", 30)

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {81, 4}, {7, 7}, {10, 1}} {
		sum := 0
		for _, w := range LayoutRow(tc.total, tc.n) {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Clicks", Value: "1,204", Delta: "+20", Trend: 1},
		{Label: "Lifetime", Value: "9.1K"},
		{Label: "Links", Value: "3", Delta: "-1", Trend: -1},
	}, 90)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestDateLabels(t *testing.T) {
	start := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)
	var dates []time.Time
	for i := 0; i < 4; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	got := DateLabels(dates)
	want := []string{"Jan", "31", "Feb", "2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DateLabels = %v, want %v", got, want)
		}
	}
}

func TestResampleKeepsEnds(t *testing.T) {
	values := make([]float64, 100)
	labels := make([]string, 100)
	for i := range values {
		values[i] = float64(i)
		labels[i] = strings.Repeat("x", i%3+1)
	}
	got, gotLabels := Resample(values, labels, 10)
	if len(got) != 10 || len(gotLabels) != 10 {
		t.Fatalf("Resample len = %d/%d, want 10", len(got), len(gotLabels))
	}
	if got[0] != 0 || got[9] != 99 {
		t.Errorf("Resample ends = %v, %v, want 0, 99", got[0], got[9])
	}

	same, _ := Resample(values[:5], labels[:5], 10)
	if len(same) != 5 {
		t.Errorf("short input resampled to %d values", len(same))
	}
}

func TestBarChartFitsWidth(t *testing.T) {
	values := make([]float64, 365)
	labels := make([]string, 365)
	for i := range values {
		values[i] = float64(i % 17)
		labels[i] = "d"
	}
	chart := BarChart(values, labels, theme.Active.Blue, 60, 8)
	for i, line := range strings.Split(chart, "\n") {
		if w := lipgloss.Width(line); w > 60 {
			t.Errorf("line %d width = %d, exceeds 60", i, w)
		}
	}
}

func TestBarChartAllZero(t *testing.T) {
	chart := BarChart([]float64{0, 0, 0}, []string{"a", "b", "c"}, theme.Active.Blue, 40, 6)
	if !strings.Contains(chart, "└") {
		t.Error("zero series should still draw the axis")
	}
	if strings.Contains(chart, "█") {
		t.Error("zero series should draw no bars")
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := map[float64]string{
		5:       "5",
		1000:    "1k",
		1500:    "1.5k",
		2000000: "2M",
		0.5:     "0.5",
	}
	for in, want := range tests {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusBarWidth(t *testing.T) {
	for _, notice := range []string{"", "1 link failed to load"} {
		bar := RenderStatusBar(100, "Jan 01 - Jan 31, 2024", notice)
		if w := lipgloss.Width(bar); w != 100 {
			t.Errorf("status bar width = %d, want 100 (notice %q)", w, notice)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('l'); got != 1 {
		t.Errorf("TabIdxByKey('l') = %d, want 1", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}
