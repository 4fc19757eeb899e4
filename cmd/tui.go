package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/linkstat/internal/logging"
	"github.com/theirongolddev/linkstat/internal/pipeline"
	"github.com/theirongolddev/linkstat/internal/tui"
	"github.com/theirongolddev/linkstat/internal/tui/theme"
)

var (
	flagTUILinks   []string
	flagTUINoTotal bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringSliceVarP(&flagTUILinks, "link", "l", nil, "Initial link selection for the Daily tab")
	tuiCmd.Flags().BoolVar(&flagTUINoTotal, "no-total", false, "Start without the Total column")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	w, err := resolveWindow(cmd)
	if err != nil {
		return err
	}
	client, err := newProvider()
	if err != nil {
		return err
	}

	// The dashboard owns the terminal.
	logging.Discard()
	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Quitting cancels a history fetch that is still running.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := tui.NewApp(tui.Options{
		Ctx:          ctx,
		Cache:        pipeline.NewSessionCache(client),
		History:      historyWindow(),
		Window:       w,
		Today:        time.Now(),
		Links:        flagTUILinks,
		IncludeTotal: !flagTUINoTotal,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
