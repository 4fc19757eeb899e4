package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/pipeline"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Per-link clicks for the window with a Total row (default command)",
	RunE:  runLinks,
}

func init() {
	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, _ []string) error {
	w, err := resolveWindow(cmd)
	if err != nil {
		return err
	}
	cache, err := loadCache(cmd.Context())
	if err != nil {
		return err
	}

	table := pipeline.BuildLinkTable(cache, w)
	if !flagPlain {
		fmt.Println()
		fmt.Println(cli.RenderTitle("LINKS  " + cli.FormatWindow(w)))
		fmt.Println()
	}
	if len(table.Rows) == 0 && !flagPlain {
		fmt.Println(cli.RenderMuted("  No tracked links."))
		fmt.Println()
	}

	rows := make([][]string, 0, len(table.Rows)+2)
	for _, r := range table.Rows {
		rows = append(rows, linkRowCells(r, !flagPlain))
	}
	rows = append(rows, []string{cli.SeparatorRow}, linkRowCells(table.Total, false))

	if err := printTable(cli.Table{
		Headers:  []string{"Link", "URL", "Clicks", "Previous", "Change", "Lifetime"},
		Rows:     rows,
		LeftCols: 2,
	}); err != nil {
		return err
	}
	if !flagPlain {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  Previous = %s", cli.FormatWindow(w.Previous()))))
	}
	return nil
}

// linkRowCells formats one table row. Links whose history failed are marked
// with a trailing "!".
func linkRowCells(r pipeline.LinkRow, truncate bool) []string {
	name, url := r.Name, r.URL
	if r.HistoryErr != nil {
		name += " !"
	}
	if truncate {
		name = cli.Truncate(name, 28)
		url = cli.Truncate(url, 40)
	}
	return []string{
		name,
		url,
		cli.FormatNumber(r.WindowClicks),
		cli.FormatNumber(r.PrevClicks),
		cli.FormatChange(r.WindowClicks, r.PrevClicks),
		cli.FormatNumber(r.LifetimeClicks),
	}
}
