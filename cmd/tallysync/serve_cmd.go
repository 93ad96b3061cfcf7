package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/tallysync/tallysync/internal/config"
	"github.com/tallysync/tallysync/internal/controlplane"
	"github.com/tallysync/tallysync/internal/version"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(newServeCmd())
}

func newServeCmd() *cobra.Command {
	var rateLimit string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP control plane",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			slog.Info("tallysync", "version", version.Version, "revision", version.Revision, "build", version.BuildDate)

			cfg, err := configFromViper()
			if err != nil {
				return err
			}

			defer slog.Info("Bye!")
			return serve(cmd.Context(), cfg, rateLimit)
		},
	}

	cmd.Flags().StringP("src", "s", "", "Source directory")
	cmd.Flags().StringP("dst", "d", "", "Destination directory")
	cmd.Flags().StringP("http-addr", "a", config.DefaultHTTPAddr, "Address to bind the local http server")
	cmd.Flags().StringP("http-token", "t", "", "Access token for the local http server")
	cmd.Flags().StringVar(&rateLimit, "rate-limit", "", "Per-client request rate, e.g. 20-S or 600-M")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, rateLimit string) error {
	srv, err := controlplane.New(&controlplane.Config{
		Addr:      cfg.HTTPAddr,
		AuthToken: cfg.HTTPToken,
		RateLimit: rateLimit,
	}, newSession(cfg, nil))
	if err != nil {
		return err
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := srv.Start(egCtx); err != nil {
			return fmt.Errorf("failed to start control plane: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("received interrupt signal, stopping control plane")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("control plane failure", "error", err)
		return err
	}
	return nil
}
