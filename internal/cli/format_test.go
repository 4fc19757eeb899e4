package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/linkstat/internal/model"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4321, "-4,321"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatClicks(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{42, "42"},
		{9_999, "9,999"},
		{12_345, "12.3K"},
		{2_500_000, "2.5M"},
		{1_200_000_000, "1.2B"},
	}
	for _, tt := range tests {
		if got := FormatClicks(tt.n); got != tt.want {
			t.Fatalf("FormatClicks(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDeltaAndChange(t *testing.T) {
	if got := FormatDelta(120, 100); got != "+20" {
		t.Fatalf("FormatDelta(120, 100) = %q, want +20", got)
	}
	if got := FormatDelta(80, 1100); got != "-1,020" {
		t.Fatalf("FormatDelta(80, 1100) = %q, want -1,020", got)
	}
	if got := FormatDelta(5, 5); got != "0" {
		t.Fatalf("FormatDelta(5, 5) = %q, want 0", got)
	}

	if got := FormatChange(150, 100); got != "+50%" {
		t.Fatalf("FormatChange(150, 100) = %q, want +50%%", got)
	}
	if got := FormatChange(10, 0); got != "new" {
		t.Fatalf("FormatChange(10, 0) = %q, want new", got)
	}
	if got := FormatChange(0, 0); got != "-" {
		t.Fatalf("FormatChange(0, 0) = %q, want -", got)
	}
}

func TestFormatWindow(t *testing.T) {
	w := model.Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	if got := FormatWindow(w); got != "Jan 01 - Jan 31, 2024 (31 days)" {
		t.Fatalf("FormatWindow = %q", got)
	}

	w.Start = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	w.End = w.Start
	if got := FormatWindow(w); got != "Dec 31, 2023 - Dec 31, 2023 (1 day)" {
		t.Fatalf("FormatWindow single day = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "Wed Jan 03" {
		t.Fatalf("FormatDate = %q, want Wed Jan 03", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("example.com/very/long", 8); got != "example…" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("Truncate = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]int64{0, 7, 14})
	if got != "▁▄█" {
		t.Fatalf("RenderSparkline = %q, want ▁▄█", got)
	}
	if RenderSparkline([]int64{0, 0}) != "▁▁" {
		t.Fatal("all-zero sparkline should be flat")
	}
	if RenderSparkline(nil) != "" {
		t.Fatal("empty sparkline should be empty")
	}
}

func TestRenderTableAlignment(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Link", "Clicks"},
		Rows: [][]string{
			{"docs", "7"},
			{SeparatorRow},
			{"Total", "1,234"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top border, header, header rule, two rows, bottom border
	if len(lines) != 6 {
		t.Fatalf("rendered %d lines, want 6:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != width {
			t.Fatalf("line %d width = %d, want %d:\n%s", i, lipgloss.Width(l), width, out)
		}
	}
	if !strings.Contains(lines[3], "docs") || !strings.Contains(lines[3], "    7 ") {
		t.Fatalf("row not aligned as expected: %q", lines[3])
	}
	if !strings.Contains(lines[4], "Total") {
		t.Fatalf("footer row = %q, want Total", lines[4])
	}
	if strings.Contains(out, SeparatorRow) {
		t.Fatalf("separator marker leaked into output:\n%s", out)
	}
}

func TestWritePlainTable(t *testing.T) {
	var buf bytes.Buffer
	err := WritePlainTable(&buf, Table{
		Headers: []string{"Link", "Clicks"},
		Rows: [][]string{
			{"docs", "7"},
			{SeparatorRow},
			{"Total", "7"},
		},
	})
	if err != nil {
		t.Fatalf("WritePlainTable: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, SeparatorRow) {
		t.Fatalf("separator marker leaked into plain output:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain output contains ANSI escapes:\n%s", out)
	}
	for _, want := range []string{"Link", "docs", "Total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("plain output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderProgressBar(t *testing.T) {
	if got := RenderProgressBar(3, 8, 8); got != "[███░░░░░] 3/8" {
		t.Fatalf("RenderProgressBar = %q", got)
	}
	if got := RenderProgressBar(12, 8, 4); got != "[████] 8/8" {
		t.Fatalf("overflow should clamp, got %q", got)
	}
	if RenderProgressBar(1, 0, 8) != "" {
		t.Fatal("zero total should render nothing")
	}
}

func TestFormatDayOfWeek(t *testing.T) {
	if got := FormatDayOfWeek(int(time.Wednesday)); got != "Wed" {
		t.Fatalf("FormatDayOfWeek = %q, want Wed", got)
	}
	if got := FormatDayOfWeek(9); got != "???" {
		t.Fatalf("FormatDayOfWeek(9) = %q, want ???", got)
	}
}
