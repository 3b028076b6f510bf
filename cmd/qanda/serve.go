// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/qanda/internal/auth"
	"github.com/holomush/qanda/internal/config"
	"github.com/holomush/qanda/internal/httpapi"
	"github.com/holomush/qanda/internal/logging"
	"github.com/holomush/qanda/internal/observability"
	"github.com/holomush/qanda/internal/qa"
	"github.com/holomush/qanda/internal/store"
	"github.com/holomush/qanda/internal/store/memory"
)

const serviceName = "qanda"

// serveFlagKeys maps serve flags to configuration keys.
var serveFlagKeys = map[string]string{
	"http-addr":    "http.addr",
	"metrics-addr": "metrics.addr",
	"log-format":   "log.format",
	"log-level":    "log.level",
	"auto-migrate": "database.automigrate",
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return newServeCmdWithDeps(&ServeDeps{})
}

func newServeCmdWithDeps(deps *ServeDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API and, unless metrics.addr is empty, the metrics and
health probe server. Without database.url the service keeps its data in memory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, deps)
		},
	}

	cmd.Flags().String("http-addr", "", "API listen address")
	cmd.Flags().String("metrics-addr", "", "metrics and probe listen address, empty to disable")
	cmd.Flags().String("log-format", "", "log format (json or text)")
	cmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().Bool("auto-migrate", false, "apply pending migrations on startup")

	return cmd
}

func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps.BackendOpener == nil {
		deps.BackendOpener = openBackend
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, isReady observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer {
			return observability.NewServer(addr, isReady, logger)
		}
	}
	if deps.HTTPServerFactory == nil {
		deps.HTTPServerFactory = func(addr string, handler http.Handler, logger *slog.Logger) HTTPServer {
			return httpapi.NewServer(addr, handler, logger)
		}
	}

	cfg, err := config.Load(config.Options{
		File:     configFile,
		DotEnv:   envFile,
		Flags:    cmd.Flags(),
		FlagKeys: serveFlagKeys,
	})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if level, _ := logging.ParseLevel(cfg.Log.Level); level <= slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	backend, err := deps.BackendOpener(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	handler, metrics, obsServer, err := buildAPI(ctx, cancel, cfg, backend, deps, logger)
	if err != nil {
		return err
	}

	apiServer := deps.HTTPServerFactory(cfg.HTTP.Addr, handler, logger)
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopServer(obsServer, cfg, "observability")
		return oops.Code("HTTP_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "http")

	logger.Info("qanda ready",
		"http_addr", apiServer.Addr(),
		"metrics_enabled", metrics != nil,
		"persistent", cfg.Database.URL != "")
	if deps.OnReady != nil {
		deps.OnReady(apiServer.Addr())
	}

	<-ctx.Done()
	logger.Info("shutting down")

	stopServer(apiServer, cfg, "http")
	stopServer(obsServer, cfg, "observability")

	logger.Info("shutdown complete")

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}

// buildAPI wires services to the router and starts the observability server
// when one is configured.
func buildAPI(ctx context.Context, cancel context.CancelCauseFunc, cfg *config.Config, backend *Backend, deps *ServeDeps, logger *slog.Logger) (http.Handler, *observability.Metrics, ObservabilityServer, error) {
	codec, err := auth.NewSealedTokenCodec([]byte(cfg.Token.Key), auth.WithTokenTTL(cfg.Token.TTL))
	if err != nil {
		return nil, nil, nil, err
	}
	accounts, err := auth.NewAccountService(backend.Repo, auth.NewArgon2idHasher(), codec, auth.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, err
	}
	authn, err := auth.NewSessionAuthenticator(codec)
	if err != nil {
		return nil, nil, nil, err
	}
	service, err := qa.NewService(backend.Repo, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		metrics   *observability.Metrics
		obsServer ObservabilityServer
	)
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, backend.Ready, logger)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return nil, nil, nil, oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	router, err := httpapi.NewRouter(httpapi.Deps{
		Accounts:      accounts,
		QA:            service,
		Authenticator: authn,
		Metrics:       metrics,
		Logger:        logger,
		CORSOrigins:   cfg.CORS.Origins,
	})
	if err != nil {
		stopServer(obsServer, cfg, "observability")
		return nil, nil, nil, err
	}
	return router, metrics, obsServer, nil
}

// openBackend returns the in-memory repository when no database URL is set,
// and a migrated PostgreSQL repository otherwise.
func openBackend(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Backend, error) {
	if cfg.URL == "" {
		logger.Warn("database.url is empty, using the in-memory repository; data is lost on exit")
		return &Backend{Repo: memory.New(), Close: func() {}}, nil
	}

	pool, err := store.Connect(ctx, store.ConnectOptions{
		URL:      cfg.URL,
		MaxConns: cfg.MaxConns,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := migrateUp(cfg.URL, logger); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &Backend{
		Repo:  store.NewPostgresRepository(pool),
		Ready: pool.Ping,
		Close: pool.Close,
	}, nil
}

func migrateUp(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("error closing migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}
	status, err := migrator.Status()
	if err != nil {
		return err
	}
	logger.Info("database schema up to date", "version", status.Version, "migration", status.Name)
	return nil
}

type stoppable interface {
	Stop(ctx context.Context) error
}

func stopServer(server stoppable, cfg *config.Config, name string) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors cancels ctx with the first serve failure.
// It exits when an error arrives, the channel closes or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelCauseFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown", "server", serverName, "error", err)
			cancel(err)
		}
	case <-ctx.Done():
	}
}
