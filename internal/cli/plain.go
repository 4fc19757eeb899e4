package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePlainTable writes t without colour or box drawing, for piping into
// other tools. Separator rows are skipped.
func WritePlainTable(w io.Writer, t Table) error {
	leftCols := t.leftCols()
	numCols := t.numCols()

	perColumn := make([]tw.Align, numCols)
	for i := range perColumn {
		if i < leftCols {
			perColumn[i] = tw.AlignLeft
		} else {
			perColumn[i] = tw.AlignRight
		}
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					PerColumn: perColumn,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.Off,
				},
				Alignment: tw.CellAlignment{
					PerColumn: perColumn,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader:     tw.Off,
					BetweenColumns: tw.On,
				},
			},
		}),
	)

	if t.Title != "" {
		if _, err := fmt.Fprintln(w, t.Title); err != nil {
			return err
		}
	}

	body, footer := t.splitRows(numCols)
	rows := append(body, footer...)

	if len(t.Headers) > 0 {
		table.Header(t.Headers)
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("writing table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}
