package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/linkstat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default days:  %d\n", cfg.General.DefaultDays)
	fmt.Printf("    History days:  %d\n", cfg.General.HistoryDays)
	fmt.Println()

	fmt.Println("  [Linkly]")
	if key := config.GetAPIKey(cfg); key != "" {
		fmt.Printf("    API key:      %s\n", config.MaskKey(key))
	} else {
		fmt.Println("    API key:      not configured")
	}
	if ws := config.GetWorkspaceID(cfg); ws != "" {
		fmt.Printf("    Workspace:    %s\n", ws)
	} else {
		fmt.Println("    Workspace:    not configured")
	}
	if cfg.Linkly.BaseURL != "" {
		fmt.Printf("    Base URL:     %s\n", cfg.Linkly.BaseURL)
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Session TTL:   %s\n", time.Duration(cfg.Server.SessionTTLSec)*time.Second)
	fmt.Printf("    Max sessions:  %d\n", cfg.Server.MaxSessions)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	if cfg.Log.Level != "" {
		fmt.Println()
		fmt.Println("  [Log]")
		fmt.Printf("    Level: %s\n", cfg.Log.Level)
	}
	fmt.Println()

	fmt.Println("  Run `linkstat setup` to reconfigure.")
	return nil
}
