package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tallysync/tallysync/internal/config"
	"github.com/tallysync/tallysync/internal/logging"
	"github.com/tallysync/tallysync/internal/version"
)

const (
	envPrefix         = "TALLYSYNC"
	envConfigPath     = "TALLYSYNC_CONFIG_PATH"
	annotationNoSetup = "tallysync/no-setup"
)

// closeLog flushes the log file opened by setupLogging.
var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:     "tallysync",
	Short:   "Browse a directory tree and sync it to a backup location",
	Version: version.Detailed(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationNoSetup] != "" {
			return nil
		}
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return setupLogging(cmd)
	},
	RunE: runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "tallysync config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeLog(); cerr != nil {
		fmt.Fprintf(os.Stderr, "close log file: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	defaults := config.Default()
	viper.SetDefault("source", defaults.Source)
	viper.SetDefault("destination", defaults.Destination)
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("log_file", defaults.LogFile)
	viper.SetDefault("http_addr", defaults.HTTPAddr)
	viper.SetDefault("http_token", "")

	viper.SetConfigFile(resolveConfigPath(cmd))
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !enoent && !ok {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	bindFlag(cmd, "source", "src")
	bindFlag(cmd, "destination", "dst")
	bindFlag(cmd, "exclude", "exclude")
	bindFlag(cmd, "http_addr", "http-addr")
	bindFlag(cmd, "http_token", "http-token")

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	return nil
}

// bindFlag binds key to the named flag when the command defines it.
func bindFlag(cmd *cobra.Command, key, flag string) {
	if f := cmd.Flags().Lookup(flag); f != nil {
		_ = viper.BindPFlag(key, f)
	}
}

// configFromViper collects the merged settings into a validated Config.
func configFromViper() (*config.Config, error) {
	cfg := &config.Config{
		Path:        viper.ConfigFileUsed(),
		Source:      viper.GetString("source"),
		Destination: viper.GetString("destination"),
		Exclude:     viper.GetStringSlice("exclude"),
		LogFile:     viper.GetString("log_file"),
		HTTPAddr:    viper.GetString("http_addr"),
		HTTPToken:   viper.GetString("http_token"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}

	opts := logging.Options{
		Console: cmd.ErrOrStderr(),
		File:    viper.GetString("log_file"),
		Level:   level,
	}
	if ownsTerminal(cmd) {
		opts.Console = nil
	}

	_, closeFn, err := logging.Setup(opts)
	if err != nil {
		return err
	}
	closeLog = closeFn
	slog.Debug("tallysync", "version", version.Version, "revision", version.Revision, "config", viper.ConfigFileUsed())
	return nil
}

// ownsTerminal reports whether cmd runs the full screen browser.
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "browse"
}

// lockPath keeps the sync lock next to the config file so every process
// sharing a config also shares the lock.
func lockPath(cfg *config.Config) string {
	if cfg.Path == "" {
		return config.DefaultLockPath
	}
	return filepath.Join(filepath.Dir(cfg.Path), "sync.lock")
}
