package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/tallysync/tallysync/internal/config"
)

func runConfigPath(t *testing.T, args ...string) string {
	t.Helper()
	cmd := &cobra.Command{Use: "tallysync"}
	cmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "path to config file")
	cmd.AddCommand(newConfigPathCmd())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"config-path"}, args...))

	require.NoError(t, cmd.Execute())
	return strings.TrimSpace(out.String())
}

func TestConfigPathCommand_Default(t *testing.T) {
	t.Setenv(envConfigPath, "")
	require.Equal(t, config.DefaultConfigPath, runConfigPath(t))
}

func TestConfigPathCommand_Env(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "env.json")
	t.Setenv(envConfigPath, envPath)
	require.Equal(t, envPath, runConfigPath(t))
}

func TestConfigPathCommand_FlagWins(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envConfigPath, filepath.Join(dir, "env.json"))
	require.Equal(t, filepath.Join(dir, "flag.json"), runConfigPath(t, "--config", filepath.Join(dir, "flag.json")))
}
