// Package tui provides the interactive Bubble Tea dashboard for linkstat.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/model"
	"github.com/theirongolddev/linkstat/internal/pipeline"
	"github.com/theirongolddev/linkstat/internal/tui/components"
	"github.com/theirongolddev/linkstat/internal/tui/theme"
)

// DataLoadedMsg is sent when the session cache has been populated.
type DataLoadedMsg struct {
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports history download progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// Options configures a new dashboard.
type Options struct {
	// Ctx bounds the background load; cancel it when the program exits.
	// Nil means context.Background().
	Ctx          context.Context
	Cache        *pipeline.SessionCache
	History      model.Window // span fetched once per link
	Window       model.Window // initial report window
	Today        time.Time
	Links        []string // initial daily-view selection; empty means all
	IncludeTotal bool
}

// App is the root Bubble Tea model.
type App struct {
	cache   *pipeline.SessionCache
	history model.Window
	today   time.Time

	loaded   bool
	loadErr  error
	loadTime time.Duration

	// View parameters
	window       model.Window
	selection    []string
	includeTotal bool

	// Pre-computed for the current window
	table    pipeline.LinkTable
	chart    pipeline.ChartTable
	totals   pipeline.ChartColumn
	chartErr error

	// UI state
	width       int
	height      int
	activeTab   int
	showHelp    bool
	linkCursor  int
	dailyScroll int
	notice      string // transient message, e.g. a rejected filter

	filterForm *huh.Form
	filterVals *filterValues

	// Loading, channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
	loadCtx     context.Context
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// windowPresets are the lengths + and - step through.
var windowPresets = []int{7, 14, 30, 90, 180, 365}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	return App{
		cache:        opts.Cache,
		history:      opts.History,
		today:        model.Day(today),
		window:       opts.Window,
		selection:    opts.Links,
		includeTotal: opts.IncludeTotal,
		spinner:      sp,
		loadSub:      make(chan tea.Msg, 1),
		loadCtx:      ctx,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.loadCtx, a.cache, a.history, a.loadSub),
		a.spinner.Tick,
	)
}

// recompute rebuilds every derived table from the cache for the current
// window. It never touches the provider.
func (a *App) recompute() {
	a.table = pipeline.BuildLinkTable(a.cache, a.window)

	totals, err := pipeline.BuildChartTable(a.cache, nil, a.window, true)
	if err == nil {
		a.totals, _ = totals.Column(pipeline.TotalLabel)
	}

	a.chart, a.chartErr = pipeline.BuildChartTable(a.cache, a.selection, a.window, a.includeTotal)
	if a.chartErr != nil {
		// Fall back to all links so the view stays usable.
		a.notice = a.chartErr.Error()
		a.selection = nil
		a.chart, a.chartErr = pipeline.BuildChartTable(a.cache, nil, a.window, a.includeTotal)
	}

	if a.linkCursor >= len(a.table.Rows) {
		a.linkCursor = len(a.table.Rows) - 1
	}
	if a.linkCursor < 0 {
		a.linkCursor = 0
	}
	a.dailyScroll = 0
}

// shiftWindow moves the window by whole window lengths, never past today.
func (a *App) shiftWindow(dir int) {
	w := a.window.Shift(dir * a.window.Days())
	if w.End.After(a.today) {
		w = model.LastDays(a.today, a.window.Days()-1)
	}
	a.window = w
	a.recompute()
}

// resizeWindow steps the window length through windowPresets, keeping the end day.
func (a *App) resizeWindow(dir int) {
	cur := a.window.Days() - 1
	next := cur
	if dir > 0 {
		for _, p := range windowPresets {
			if p > cur {
				next = p
				break
			}
		}
	} else {
		for i := len(windowPresets) - 1; i >= 0; i-- {
			if windowPresets[i] < cur {
				next = windowPresets[i]
				break
			}
		}
	}
	if next == cur {
		return
	}
	a.window = model.LastDays(a.window.End, next)
	a.recompute()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.filterForm != nil {
			a.filterForm = a.filterForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.filterForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.filterForm != nil {
			return a.updateFilterForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "f":
			return a.openFilter()
		case "[":
			a.shiftWindow(-1)
		case "]":
			a.shiftWindow(1)
		case "+", "=":
			a.resizeWindow(1)
		case "-":
			a.resizeWindow(-1)
		case "t":
			a.includeTotal = !a.includeTotal
			a.recompute()
		case "j", "down":
			a.moveCursor(1)
		case "k", "up":
			a.moveCursor(-1)
		case "enter":
			if a.activeTab == tabLinks && len(a.table.Rows) > 0 {
				a.activeTab = tabDetail
			}
		case "esc":
			a.notice = ""
			if a.activeTab == tabDetail {
				a.activeTab = tabLinks
			}
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if r := []rune(key); len(r) == 1 {
				if idx := components.TabIdxByKey(r[0]); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		a.recompute()
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Cursor blinks and other internal messages belong to the form.
	if a.filterForm != nil {
		return a.updateFilterForm(msg)
	}
	return a, nil
}

// moveCursor moves the selected link on the Links and Detail tabs and
// scrolls the Daily table.
func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabLinks, tabDetail:
		a.linkCursor = min(max(a.linkCursor+delta, 0), max(len(a.table.Rows)-1, 0))
	case tabDaily:
		a.dailyScroll = max(a.dailyScroll+delta, 0)
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.filterForm != nil {
		return a.filterForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  linkstat needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ linkstat"))
	b.WriteString(subtitleStyle.Render(" · link click reports"))
	b.WriteString("\n\n")

	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	if a.progressMax > 0 {
		b.WriteString(subtitleStyle.Render(" Fetching click history " + cli.FormatWindow(a.history)))
		b.WriteString("\n\n")
		barW := min(max(a.width-50, 20), 40)
		b.WriteString(components.FetchBar("links", a.progress, a.progressMax, barW))
	} else {
		b.WriteString(subtitleStyle.Render(" Listing links..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, title string, binds [][2]string) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", [][2]string{
		{"o l d i", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Select link / scroll"},
		{"Enter", "Open selected link"},
	})
	b.WriteString("\n")
	section(&b, "Window", [][2]string{
		{"[ ]", "Previous / Next window"},
		{"+ -", "Longer / Shorter window"},
		{"f", "Edit window and links"},
		{"t", "Toggle Total column"},
	})
	b.WriteString("\n")
	section(&b, "General", [][2]string{
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Data is fetched once; changing the window never refetches."))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// statusNotice summarises what the view is missing, newest problem first.
func (a App) statusNotice() string {
	switch {
	case a.notice != "":
		return a.notice
	case a.cache.LinksErr() != nil:
		return "links unavailable"
	}
	if n := len(a.cache.HistoryErrors()); n > 0 {
		if n == 1 {
			return "1 link has no history"
		}
		return fmt.Sprintf("%d links have no history", n)
	}
	return ""
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	filterStr := pillStyle.Render(" ") + accentStyle.Render(cli.FormatWindow(a.window))
	if len(a.selection) > 0 {
		filterStr += pillStyle.Render(" │ ") + accentStyle.Render(strings.Join(a.selection, ", "))
	}
	if !a.includeTotal {
		filterStr += pillStyle.Render(" │ no total")
	}
	filterStr += pillStyle.Render(" ")

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterStr)

	info := fmt.Sprintf("%d links · loaded in %.1fs", len(a.table.Rows), a.loadTime.Seconds())
	statusBar := components.RenderStatusBar(w, info, a.statusNotice())

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabLinks:
		content = a.renderLinksTab(cw, contentH)
	case tabDaily:
		content = a.renderDailyTab(cw, contentH)
	case tabDetail:
		content = a.renderDetailTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Loading ────────────────────────────────────────────────────

// loadDataCmd populates the cache in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub. Cancelling ctx
// stops the fetch between links.
func loadDataCmd(ctx context.Context, c *pipeline.SessionCache, history model.Window, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking: a dropped update is superseded by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			err := c.Load(ctx, history, progressFn)
			done := DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
			select {
			case sub <- done:
				return
			default:
			}
			// Nobody may be reading after the program exits.
			select {
			case sub <- done:
			case <-ctx.Done():
			}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // one-cell separator
	}
	return -1
}
