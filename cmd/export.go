package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/store"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Append the window's link table and daily series to a SQLite file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "linkstat.db", "SQLite file to write")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	w, err := resolveWindow(cmd)
	if err != nil {
		return err
	}
	cache, err := loadCache(cmd.Context())
	if err != nil {
		return err
	}

	db, err := store.Open(flagExportOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	snap := store.BuildSnapshot(cache, w)
	id, err := db.SaveSnapshot(cmd.Context(), snap)
	if err != nil {
		return err
	}

	fmt.Printf("  Saved export #%d to %s\n", id, flagExportOut)
	fmt.Printf("  %s: %d links, %s clicks\n",
		cli.FormatWindow(w), len(snap.Table.Rows), cli.FormatNumber(snap.Table.Total.WindowClicks))
	return nil
}
