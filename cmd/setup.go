package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/linkstat/internal/config"
	"github.com/theirongolddev/linkstat/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	var apiKey string
	workspace := cfg.Linkly.WorkspaceID
	days := cfg.General.DefaultDays
	themeName := cfg.Appearance.Theme

	keyDesc := "Found in Linkly under Settings > API."
	if existing := config.GetAPIKey(cfg); existing != "" {
		keyDesc = "Current: " + config.MaskKey(existing) + " (leave blank to keep)"
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(theme.ByName(name).Name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Linkly API key").
				Description(keyDesc).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Workspace ID").
				Value(&workspace).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" && config.GetWorkspaceID(cfg) == "" {
						return errors.New("workspace ID is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default window").
				Options(
					huh.NewOption("7 days", 7),
					huh.NewOption("30 days", 30),
					huh.NewOption("90 days", 90),
					huh.NewOption("365 days", 365),
				).
				Value(&days),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
		),
	).WithTheme(huh.ThemeBase16())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if k := strings.TrimSpace(apiKey); k != "" {
		cfg.Linkly.APIKey = k
	}
	cfg.Linkly.WorkspaceID = strings.TrimSpace(workspace)
	cfg.General.DefaultDays = days
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `linkstat setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
