package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/model"
	"github.com/theirongolddev/linkstat/internal/pipeline"
)

var linkCmd = &cobra.Command{
	Use:   "link NAME",
	Short: "Detail page for one link: totals and daily clicks",
	Args:  cobra.ExactArgs(1),
	RunE:  runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	w, err := resolveWindow(cmd)
	if err != nil {
		return err
	}
	cache, err := loadCache(cmd.Context())
	if err != nil {
		return err
	}

	d, err := pipeline.BuildLinkDetail(cache, args[0], w)
	if errors.Is(err, pipeline.ErrUnknownLink) {
		names := make([]string, 0, len(cache.Links()))
		for _, l := range cache.Links() {
			names = append(names, l.Name)
		}
		return fmt.Errorf("%w (known: %v)", err, names)
	}
	if err != nil {
		return err
	}

	if flagPlain {
		rows := make([][]string, 0, d.Series.Len())
		for _, p := range d.Series.Points {
			rows = append(rows, []string{model.DayKey(p.Date), cli.FormatNumber(p.Count)})
		}
		return printTable(cli.Table{Headers: []string{"Date", d.Link.Name}, Rows: rows})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(d.Link.Name))
	fmt.Println()
	fmt.Printf("  URL:       %s\n", d.Link.URL)
	fmt.Printf("  Window:    %s\n", cli.FormatWindow(w))
	fmt.Printf("  Clicks:    %s  (%s vs previous, %s)\n", cli.RenderClicks(d.WindowClicks),
		cli.FormatDelta(d.WindowClicks, d.PrevClicks), cli.FormatChange(d.WindowClicks, d.PrevClicks))
	fmt.Printf("  Lifetime:  %s\n", cli.RenderClicks(d.Link.LifetimeClicks))
	if d.HistoryErr != nil {
		fmt.Println(cli.RenderWarning("History unavailable, daily counts show as zero: " + d.HistoryErr.Error()))
	}
	fmt.Println()

	var peak int64
	for _, p := range d.Series.Points {
		peak = max(peak, p.Count)
	}
	for _, p := range d.Series.Points {
		fmt.Println(cli.RenderHorizontalBar(cli.FormatDate(p.Date), p.Count, peak, 40))
	}
	fmt.Println()
	return nil
}
