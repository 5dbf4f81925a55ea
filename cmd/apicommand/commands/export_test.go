package commands

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
)

type (
	AppConfig = appConfig
)

// Config returns the configuration of the app.
func (a *App) Config() AppConfig {
	return a.config
}

// SetArgs set some arguments on root command for tests.
func (a *App) SetArgs(args ...string) {
	a.cmd.SetArgs(args)
}

// SetOut sets where the command output is written to.
func (a *App) SetOut(w io.Writer) {
	a.cmd.SetOut(w)
}

// GenerateTestConfig writes conf as a temporary TOML config file and returns its path.
func GenerateTestConfig(t *testing.T, conf map[string]any) string {
	t.Helper()

	confPath := filepath.Join(t.TempDir(), "testconfig.toml")
	f, err := os.Create(confPath)
	require.NoError(t, err, "Setup: failed to create config file for tests")
	defer f.Close()

	require.NoError(t, toml.NewEncoder(f).Encode(conf), "Setup: failed to write config for tests")

	return confPath
}
