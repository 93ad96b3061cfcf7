package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tallysync/tallysync/internal/config"
	"github.com/tallysync/tallysync/internal/utils"
)

// resolveConfigPath determines which config file path to use, honoring (in order):
// 1) An explicitly set --config flag
// 2) TALLYSYNC_CONFIG_PATH environment variable
// 3) Existing config files in common locations
// 4) The default path
func resolveConfigPath(cmd *cobra.Command) string {
	if cfgFlag := cmd.Flag("config"); cfgFlag != nil && cfgFlag.Changed {
		return cfgFlag.Value.String()
	}

	if envPath := os.Getenv(envConfigPath); envPath != "" {
		return envPath
	}

	for _, candidate := range []string{config.DefaultConfigPath, config.XDGConfigPath} {
		if utils.FileExists(candidate) {
			return candidate
		}
	}

	return config.DefaultConfigPath
}
