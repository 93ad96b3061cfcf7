package main

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tallysync/tallysync/internal/fswatch"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "browse",
		Short: "Browse the source directory and sync it (default)",
		RunE:  runBrowse,
	})
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := configFromViper()
	if err != nil {
		return err
	}
	sess := newSession(cfg, nil)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	watcher, err := fswatch.New()
	if err != nil {
		// the listing still works, it just won't refresh on its own
		slog.Warn("directory watcher unavailable", "error", err)
		watcher = nil
	} else {
		defer watcher.Close()
		go func() {
			if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Debug("watcher stopped", "error", err)
			}
		}()
	}

	m := newBrowseModel(ctx, sess, watcher)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
