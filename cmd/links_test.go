package cmd

import (
	"errors"
	"testing"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/pipeline"
)

func TestLinkRowCells(t *testing.T) {
	row := pipeline.LinkRow{
		Name:           "docs",
		URL:            "https://example.com/docs",
		WindowClicks:   1200,
		PrevClicks:     600,
		LifetimeClicks: 5000,
	}
	got := linkRowCells(row, false)
	want := []string{"docs", "https://example.com/docs", "1,200", "600", cli.FormatChange(1200, 600), "5,000"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}

	row.HistoryErr = errors.New("boom")
	if got := linkRowCells(row, false)[0]; got != "docs !" {
		t.Errorf("name with history error = %q, want %q", got, "docs !")
	}
}
