package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all linkstat configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Linkly     LinklyConfig     `toml:"linkly"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultDays int `toml:"default_days"`
	HistoryDays int `toml:"history_days"`
}

// LinklyConfig holds Linkly API settings. Environment variables take
// precedence over both credentials.
type LinklyConfig struct {
	APIKey      string `toml:"api_key,omitempty"`
	WorkspaceID string `toml:"workspace_id,omitempty"`
	BaseURL     string `toml:"base_url,omitempty"`
}

// ServerConfig holds settings for `linkstat serve`.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	SessionTTLSec int    `toml:"session_ttl_sec"`
	MaxSessions   int    `toml:"max_sessions"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds the diagnostic log level (debug, info, warn, error).
type LogConfig struct {
	Level string `toml:"level,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays: 30,
			HistoryDays: 3 * 365,
		},
		Server: ServerConfig{
			Addr:          "127.0.0.1:8787",
			SessionTTLSec: 1800,
			MaxSessions:   256,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "linkstat")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "linkstat")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
// Zero values left by a partial file fall back to the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	def := DefaultConfig()
	if cfg.General.DefaultDays <= 0 {
		cfg.General.DefaultDays = def.General.DefaultDays
	}
	if cfg.General.HistoryDays <= 0 {
		cfg.General.HistoryDays = def.General.HistoryDays
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.SessionTTLSec <= 0 {
		cfg.Server.SessionTTLSec = def.Server.SessionTTLSec
	}
	if cfg.Server.MaxSessions <= 0 {
		cfg.Server.MaxSessions = def.Server.MaxSessions
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. Variables already set are left alone; a missing file is fine.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Environment variables consulted for credentials, most specific first.
var (
	apiKeyVars      = []string{"LINKLY_API_KEY", "API_KEY"}
	workspaceIDVars = []string{"LINKLY_WORKSPACE_ID", "WORKSPACE_ID"}
)

func firstEnv(names []string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

// GetAPIKey returns the Linkly API key from env vars or config, in that order.
func GetAPIKey(cfg Config) string {
	if key := firstEnv(apiKeyVars); key != "" {
		return key
	}
	return strings.TrimSpace(cfg.Linkly.APIKey)
}

// GetWorkspaceID returns the Linkly workspace ID from env vars or config, in that order.
func GetWorkspaceID(cfg Config) string {
	if id := firstEnv(workspaceIDVars); id != "" {
		return id
	}
	return strings.TrimSpace(cfg.Linkly.WorkspaceID)
}

// Credentials are the resolved values needed to talk to Linkly.
type Credentials struct {
	APIKey      string
	WorkspaceID string
	BaseURL     string
}

// ConfigurationError reports required settings that are missing.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: missing %s (set %s or run `linkstat setup`)",
		strings.Join(e.Missing, " and "), strings.Join(e.envHints(), "/"))
}

func (e *ConfigurationError) envHints() []string {
	var hints []string
	for _, m := range e.Missing {
		switch m {
		case "api key":
			hints = append(hints, apiKeyVars[0])
		case "workspace id":
			hints = append(hints, workspaceIDVars[0])
		}
	}
	return hints
}

// ResolveCredentials returns the credentials or a *ConfigurationError naming
// every missing value.
func ResolveCredentials(cfg Config) (Credentials, error) {
	creds := Credentials{
		APIKey:      GetAPIKey(cfg),
		WorkspaceID: GetWorkspaceID(cfg),
		BaseURL:     strings.TrimSpace(cfg.Linkly.BaseURL),
	}

	var missing []string
	if creds.APIKey == "" {
		missing = append(missing, "api key")
	}
	if creds.WorkspaceID == "" {
		missing = append(missing, "workspace id")
	}
	if len(missing) > 0 {
		return Credentials{}, &ConfigurationError{Missing: missing}
	}
	return creds, nil
}

// MaskKey hides all but the ends of a secret for display.
func MaskKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	if key == "" {
		return ""
	}
	return "****"
}
