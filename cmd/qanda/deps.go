// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/holomush/qanda/internal/config"
	"github.com/holomush/qanda/internal/observability"
	"github.com/holomush/qanda/internal/qa"
	"github.com/holomush/qanda/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// BackendOpener opens the repository selected by the database config.
	// Default: openBackend
	BackendOpener func(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Backend, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, isReady observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer

	// HTTPServerFactory creates the API server.
	// Default: httpapi.NewServer
	HTTPServerFactory func(addr string, handler http.Handler, logger *slog.Logger) HTTPServer

	// OnReady is called with the bound API address once serving starts.
	OnReady func(apiAddr string)
}

// MigrateDeps contains injectable dependencies for the migrate command.
type MigrateDeps struct {
	// MigratorFactory creates a migrator for a database URL.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (Migrator, error)
}

// Backend is an opened repository with its readiness probe and release hook.
type Backend struct {
	Repo  qa.Repository
	Ready observability.ReadinessChecker
	Close func()
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// HTTPServer interface wraps the methods used from httpapi.Server.
type HTTPServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// Migrator interface wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Status() (store.MigrationStatus, error)
	Close() error
}
