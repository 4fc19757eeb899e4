package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config dir at a temp dir and clears credential env vars.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, v := range append(append([]string{}, apiKeyVars...), workspaceIDVars...) {
		t.Setenv(v, "")
	}
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.General.DefaultDays = 7
	cfg.Linkly.APIKey = "file-key"
	cfg.Linkly.WorkspaceID = "123"
	require.NoError(t, Save(cfg))

	assert.True(t, Exists())
	assert.Equal(t, filepath.Join(dir, "linkstat", "config.toml"), ConfigPath())

	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[linkly]\nworkspace_id = \"77\"\n\n[general]\ndefault_days = 0\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "77", cfg.Linkly.WorkspaceID)
	assert.Equal(t, 30, cfg.General.DefaultDays)
	assert.Equal(t, 3*365, cfg.General.HistoryDays)
	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Addr)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\n"), 0o600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestCredentialPrecedence(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.Linkly.APIKey = "file-key"
	cfg.Linkly.WorkspaceID = "file-ws"

	creds, err := ResolveCredentials(cfg)
	require.NoError(t, err)
	assert.Equal(t, "file-key", creds.APIKey)
	assert.Equal(t, "file-ws", creds.WorkspaceID)

	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("WORKSPACE_ID", "legacy-ws")
	assert.Equal(t, "legacy-key", GetAPIKey(cfg))
	assert.Equal(t, "legacy-ws", GetWorkspaceID(cfg))

	t.Setenv("LINKLY_API_KEY", "env-key")
	t.Setenv("LINKLY_WORKSPACE_ID", "env-ws")
	assert.Equal(t, "env-key", GetAPIKey(cfg))
	assert.Equal(t, "env-ws", GetWorkspaceID(cfg))
}

func TestMissingCredentials(t *testing.T) {
	isolate(t)

	_, err := ResolveCredentials(DefaultConfig())
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"api key", "workspace id"}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "LINKLY_API_KEY")

	t.Setenv("LINKLY_API_KEY", "k")
	_, err = ResolveCredentials(DefaultConfig())
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"workspace id"}, cfgErr.Missing)
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LINKLY_WORKSPACE_ID=dotenv-ws\n"), 0o600))
	// godotenv never overrides a variable that is already set, even to "".
	require.NoError(t, os.Unsetenv("LINKLY_WORKSPACE_ID"))
	t.Cleanup(func() { _ = os.Unsetenv("LINKLY_WORKSPACE_ID") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "dotenv-ws", GetWorkspaceID(DefaultConfig()))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", MaskKey(""))
	assert.Equal(t, "****", MaskKey("short"))
	assert.Equal(t, "sk_l...wxyz", MaskKey("sk_live_abcdwxyz"))
}
