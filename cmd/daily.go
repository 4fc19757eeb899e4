package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/model"
	"github.com/theirongolddev/linkstat/internal/pipeline"
)

var (
	flagDailyLinks   []string
	flagDailyNoTotal bool
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Dense daily click table, one column per link",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().StringSliceVarP(&flagDailyLinks, "link", "l", nil, "Link name to include (repeatable; default all)")
	dailyCmd.Flags().BoolVar(&flagDailyNoTotal, "no-total", false, "Omit the Total column")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	w, err := resolveWindow(cmd)
	if err != nil {
		return err
	}
	cache, err := loadCache(cmd.Context())
	if err != nil {
		return err
	}

	chart, err := pipeline.BuildChartTable(cache, flagDailyLinks, w, !flagDailyNoTotal)
	if err != nil {
		return err
	}
	if len(chart.Columns) == 0 {
		fmt.Println("\n  Nothing to show: no links and no Total column.")
		return nil
	}

	if !flagPlain {
		fmt.Println()
		fmt.Println(cli.RenderTitle("DAILY CLICKS  " + cli.FormatWindow(w)))
		fmt.Println()
	}

	headers := []string{"Date", "Day"}
	for _, col := range chart.Columns {
		headers = append(headers, col.Name)
	}

	rows := make([][]string, 0, len(chart.Dates)+2)
	for i, d := range chart.Dates {
		row := []string{model.DayKey(d), cli.FormatDayOfWeek(int(d.Weekday()))}
		for _, col := range chart.Columns {
			row = append(row, cli.FormatNumber(col.Values[i]))
		}
		rows = append(rows, row)
	}
	totals := []string{"Total", ""}
	for _, col := range chart.Columns {
		totals = append(totals, cli.FormatNumber(col.Total))
	}
	rows = append(rows, []string{cli.SeparatorRow}, totals)

	if err := printTable(cli.Table{Headers: headers, Rows: rows, LeftCols: 2}); err != nil {
		return err
	}

	if !flagPlain {
		fmt.Println()
		for _, col := range chart.Columns {
			fmt.Printf("  %-20s %s\n", cli.Truncate(col.Name, 20), cli.RenderSparkline(col.Values))
		}
		fmt.Println()
	}
	return nil
}
