// Package cmd implements the linkstat CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/linkstat/internal/cli"
	"github.com/theirongolddev/linkstat/internal/config"
	"github.com/theirongolddev/linkstat/internal/linkly"
	"github.com/theirongolddev/linkstat/internal/logging"
	"github.com/theirongolddev/linkstat/internal/model"
	"github.com/theirongolddev/linkstat/internal/pipeline"
)

var (
	flagDays     int
	flagStart    string
	flagEnd      string
	flagQuiet    bool
	flagPlain    bool
	flagLogLevel string
)

// appCfg is the configuration resolved before any command runs.
var appCfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "linkstat",
	Short: "Link click reports for a Linkly workspace",
	Long: "Fetch click history for every tracked link once, then report any date window:\n" +
		"per-link totals, dense daily tables, and single-link detail.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runLinks,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 30, "Window length in days, ending today (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "First day of the window (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagEnd, "end", "", "Last day of the window (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagPlain, "plain", false, "Plain uncolored tables for piping")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
}

// prepare loads .env and the config file and installs the logger.
func prepare(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appCfg = cfg

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logging.Init(level, os.Stderr)
	return nil
}

// resolveWindow turns --start/--end/--days into a report window.
func resolveWindow(cmd *cobra.Command) (model.Window, error) {
	days := appCfg.General.DefaultDays
	if cmd.Flags().Changed("days") {
		days = flagDays
	}
	w, err := model.ParseWindow(flagStart, flagEnd, days, time.Now())
	if err != nil {
		return model.Window{}, fmt.Errorf("invalid window: %w", err)
	}
	return w, nil
}

// newProvider builds the Linkly client. Missing credentials are a
// *config.ConfigurationError and stop the command before any request.
func newProvider() (*linkly.Client, error) {
	creds, err := config.ResolveCredentials(appCfg)
	if err != nil {
		return nil, err
	}
	var opts []linkly.Option
	if creds.BaseURL != "" {
		opts = append(opts, linkly.WithBaseURL(creds.BaseURL))
	}
	return linkly.NewClient(creds.APIKey, creds.WorkspaceID, opts...), nil
}

func historyWindow() model.Window {
	return pipeline.HistoryWindow(time.Now(), appCfg.General.HistoryDays)
}

// loadCache creates a session cache and populates it once. Provider
// failures are reported on stderr and leave gaps; they do not fail the
// command.
func loadCache(ctx context.Context) (*pipeline.SessionCache, error) {
	client, err := newProvider()
	if err != nil {
		return nil, err
	}
	cache := pipeline.NewSessionCache(client)

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Listing links...\n")
	}
	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Fetching history %s", cli.RenderProgressBar(current, total, 24))
	}

	start := time.Now()
	if err := cache.Load(ctx, historyWindow(), progressFn); err != nil {
		log.Debug().Err(err).Msg("session loaded with errors")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r  Loaded %d links in %s                                \n",
			len(cache.Links()), time.Since(start).Round(time.Millisecond))
	}
	printWarnings(cache)
	return cache, nil
}

// printWarnings writes one stderr line per recorded provider failure.
func printWarnings(c *pipeline.SessionCache) {
	if err := c.LinksErr(); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderWarning("Could not list links: "+err.Error()))
	}
	for _, l := range c.Links() {
		if err := c.HistoryErr(l.ID); err != nil {
			fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("No history for %s, shown as zero: %v", l.Name, err)))
		}
	}
}

// printTable writes t to stdout, boxed or plain per --plain.
func printTable(t cli.Table) error {
	if flagPlain {
		return cli.WritePlainTable(os.Stdout, t)
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}
