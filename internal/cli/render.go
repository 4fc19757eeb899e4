package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Flexoki Dark, matching the TUI default theme.
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorBlue      = lipgloss.Color("#4385BE")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	footerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	cellStyle   = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	clickStyle  = lipgloss.NewStyle().Foreground(ColorBlue)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	borderStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// SeparatorRow is a one-cell row that splits body rows from footer rows
// (the Total line). Box tables render footer rows bold; plain output drops
// the marker.
const SeparatorRow = "---"

// Table is a text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// LeftCols is how many leading columns are left-aligned; the rest are
	// right-aligned numbers. Zero means one.
	LeftCols int
}

func (t Table) leftCols() int {
	if t.LeftCols <= 0 {
		return 1
	}
	return t.LeftCols
}

func (t Table) numCols() int {
	if len(t.Headers) > 0 || len(t.Rows) == 0 {
		return len(t.Headers)
	}
	return len(t.Rows[0])
}

// splitRows separates body rows from the footer rows that follow the last
// SeparatorRow. Short rows are padded to n cells.
func (t Table) splitRows(n int) (body, footer [][]string) {
	cut := -1
	for i, row := range t.Rows {
		if isSeparator(row) {
			cut = i
		}
	}
	fill := func(rows [][]string) [][]string {
		out := make([][]string, 0, len(rows))
		for _, row := range rows {
			if isSeparator(row) {
				continue
			}
			if len(row) < n {
				row = append(append([]string(nil), row...), make([]string, n-len(row))...)
			}
			out = append(out, row)
		}
		return out
	}
	if cut < 0 {
		return fill(t.Rows), nil
	}
	return fill(t.Rows[:cut]), fill(t.Rows[cut+1:])
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == SeparatorRow
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)
	return box.Render(titleStyle.Render(title))
}

// RenderWarning renders a one-line notice, e.g. a failed provider call.
func RenderWarning(msg string) string {
	return "  " + warnStyle.Render("! "+msg)
}

// RenderMuted renders secondary text such as hints and footers.
func RenderMuted(msg string) string {
	return mutedStyle.Render(msg)
}

// RenderClicks renders a click count in the colour used for counts.
func RenderClicks(n int64) string {
	return clickStyle.Render(FormatNumber(n))
}

// RenderTable renders t as a rounded box with a header rule. Rows after a
// SeparatorRow are rendered bold as a footer.
func RenderTable(t Table) string {
	n := t.numCols()
	if n == 0 {
		return ""
	}
	body, footer := t.splitRows(n)
	left := t.leftCols()

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(t.Headers...).
		Rows(append(body, footer...)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch {
			case row == table.HeaderRow:
				s = headerStyle
			case row >= len(body):
				s = footerStyle
			default:
				s = cellStyle
			}
			s = s.Padding(0, 1)
			if col >= left {
				return s.Align(lipgloss.Right)
			}
			return s.Align(lipgloss.Left)
		})

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	b.WriteString(tbl.String())
	b.WriteString("\n")
	return b.String()
}

// RenderProgressBar renders "[████░░░░] 3/8" for stderr progress lines.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	current = min(max(current, 0), total)
	filled := current * width / total
	return fmt.Sprintf("[%s%s] %s/%s",
		clickStyle.Render(strings.Repeat("█", filled)),
		mutedStyle.Render(strings.Repeat("░", width-filled)),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws one block per value, scaled to the largest value.
// An all-zero series renders flat.
func RenderSparkline(values []int64) string {
	var peak int64 = 1
	for _, v := range values {
		peak = max(peak, v)
	}
	top := len(sparkBlocks) - 1

	out := make([]rune, len(values))
	for i, v := range values {
		idx := int(float64(max(v, 0)) / float64(peak) * float64(top))
		out[i] = sparkBlocks[min(idx, top)]
	}
	return string(out)
}

// RenderHorizontalBar renders one labelled bar scaled against maxValue.
func RenderHorizontalBar(label string, value, maxValue int64, maxWidth int) string {
	if maxValue <= 0 || value <= 0 {
		return fmt.Sprintf("  %s %s", label, mutedStyle.Render("0"))
	}
	n := int(float64(value) / float64(maxValue) * float64(maxWidth))
	n = min(max(n, 1), maxWidth)
	return fmt.Sprintf("  %s %s %s", label, clickStyle.Render(strings.Repeat("█", n)), FormatNumber(value))
}
