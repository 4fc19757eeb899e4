package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/linkstat/internal/logging"
	"github.com/theirongolddev/linkstat/internal/server"
)

var (
	flagServeAddr        string
	flagServeSessionTTL  time.Duration
	flagServeMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve link reports over HTTP with one cache per client session",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config, 127.0.0.1:8787)")
	serveCmd.Flags().DurationVar(&flagServeSessionTTL, "session-ttl", 0, "Session lifetime (default from config, 30m)")
	serveCmd.Flags().IntVar(&flagServeMaxSessions, "max-sessions", 0, "Sessions kept before the oldest is evicted (default from config, 256)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Request logs are the point of a server; default to info.
	if flagLogLevel == "" && appCfg.Log.Level == "" {
		logging.Init("info", nil)
	}

	client, err := newProvider()
	if err != nil {
		return err
	}

	cfg := server.Config{
		Addr:        appCfg.Server.Addr,
		SessionTTL:  time.Duration(appCfg.Server.SessionTTLSec) * time.Second,
		MaxSessions: appCfg.Server.MaxSessions,
		DefaultDays: appCfg.General.DefaultDays,
		HistoryDays: appCfg.General.HistoryDays,
	}
	if flagServeAddr != "" {
		cfg.Addr = flagServeAddr
	}
	if flagServeSessionTTL > 0 {
		cfg.SessionTTL = flagServeSessionTTL
	}
	if flagServeMaxSessions > 0 {
		cfg.MaxSessions = flagServeMaxSessions
	}
	if cmd.Flags().Changed("days") {
		cfg.DefaultDays = flagDays
	}

	return server.New(cfg, client).Run(cmd.Context())
}
