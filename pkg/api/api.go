// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/telekom/hopscope/internal/logger"
)

//go:generate go tool moq -out api_moq.go . API
type API interface {
	// Run serves the registered routes until the context is done.
	Run(ctx context.Context) error
	// Shutdown gracefully stops the server.
	Shutdown(ctx context.Context) error
	// RegisterRoutes adds the routes to the router.
	RegisterRoutes(ctx context.Context, routes ...Route) error
}

type api struct {
	server *http.Server
	router chi.Router
	tls    TLSConfig
}

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Config is the configuration of the api server
type Config struct {
	// ListeningAddress is the address the server listens on. An empty
	// address disables the server.
	ListeningAddress string    `json:"address" yaml:"address" mapstructure:"address"`
	Tls              TLSConfig `json:"tls" yaml:"tls" mapstructure:"tls"`
}

// TLSConfig configures serving the api with TLS
type TLSConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	CertPath string `json:"certPath" yaml:"certPath" mapstructure:"certPath"`
	KeyPath  string `json:"keyPath" yaml:"keyPath" mapstructure:"keyPath"`
}

// Enabled reports whether the api server should be started.
func (c *Config) Enabled() bool {
	return c.ListeningAddress != ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.ListeningAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if c.Tls.Enabled && (c.Tls.CertPath == "" || c.Tls.KeyPath == "") {
		return ErrInvalidTLSConfig
	}
	return nil
}

// New creates a new api
func New(cfg Config) API {
	r := chi.NewRouter()
	return &api{
		server: &http.Server{Addr: cfg.ListeningAddress, Handler: r, ReadHeaderTimeout: readHeaderTimeout},
		router: r,
		tls:    cfg.Tls,
	}
}

// Run serves the api until the context is done or the server fails.
func (a *api) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	cErr := make(chan error, 1)

	go func() {
		var err error
		if a.tls.Enabled {
			log.InfoContext(ctx, "Serving api with TLS", "addr", a.server.Addr)
			err = a.server.ListenAndServeTLS(a.tls.CertPath, a.tls.KeyPath)
		} else {
			log.InfoContext(ctx, "Serving api", "addr", a.server.Addr)
			err = a.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Failed to serve api", "error", err)
			cErr <- fmt.Errorf("failed serving api: %w", err)
			return
		}
		cErr <- nil
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("failed serving api: %w", ctx.Err())
	case err := <-cErr:
		return err
	}
}

// Shutdown gracefully shuts down the api server
// Returns an error if an error is present in the context
// or if the server cannot be shut down
func (a *api) Shutdown(ctx context.Context) error {
	errC := ctx.Err()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Failed to shutdown api server", "error", err)
		return fmt.Errorf("failed shutting down api: %w", errors.Join(errC, err))
	}
	return errC
}

// Route is a route of the api
type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

// RegisterRoutes registers the routes of the api.
// A route with method "*" handles all methods.
func (a *api) RegisterRoutes(ctx context.Context, routes ...Route) error {
	a.router.Use(logger.Middleware(ctx))
	for _, route := range routes {
		if route.Path == "" || route.Handler == nil {
			return fmt.Errorf("invalid route %q %q", route.Method, route.Path)
		}
		if route.Method == "*" {
			a.router.HandleFunc(route.Path, route.Handler)
			continue
		}
		a.router.Method(route.Method, route.Path, route.Handler)
	}

	a.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(http.StatusText(http.StatusNotFound)))
	})
	return nil
}
