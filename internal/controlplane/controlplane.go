// Package controlplane serves a local HTTP API over a browsing session.
package controlplane

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/tallysync/tallysync/internal/controlplane/middleware"
	"github.com/tallysync/tallysync/internal/session"
	"github.com/tallysync/tallysync/internal/utils"
)

// Config contains configuration for the control plane server
type Config struct {
	Addr      string // address to bind, host:port
	AuthToken string // bearer token; empty disables auth
	RateLimit string // per-client rate in limiter notation, e.g. "20-S"
}

type Server struct {
	config *Config
	server *http.Server
}

func New(config *Config, sess *session.Session) (*Server, error) {
	routes, err := SetupRoutes(sess, &RouteConfig{
		Auth:      middleware.TokenAuthConfig{Token: config.AuthToken},
		RateLimit: config.RateLimit,
	})
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:    config.Addr,
		Handler: routes,
		// sync requests block until the copy finishes, so writes get a long timeout
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Minute,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{
		config: config,
		server: httpServer,
	}, nil
}

// Start blocks until the server is stopped.
func (s *Server) Start(ctx context.Context) error {
	url, err := addrToURL(s.config.Addr)
	if err != nil {
		return err
	}
	slog.Info("control plane start", "addr", url, "token", utils.MaskSecret(s.config.AuthToken))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	slog.Info("control plane stop")
	return s.server.Shutdown(ctx)
}

func addrToURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid addr %q: %w", addr, err)
	}
	if port == "" {
		return "", fmt.Errorf("invalid addr %q: missing port", addr)
	}
	if host == "" {
		host = "0.0.0.0"
	}
	return "http://" + net.JoinHostPort(host, port), nil
}
