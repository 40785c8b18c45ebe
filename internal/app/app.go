// Package app wires configuration, storage, cache, metrics and the ledger services
// into one container shared by the HTTP server and the operator CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	rediscache "github.com/SscSPs/ledger_core/internal/adapters/cache/redis"
	"github.com/SscSPs/ledger_core/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_core/internal/adapters/database/pgsql"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/SscSPs/ledger_core/internal/platform/metrics"
	"github.com/SscSPs/ledger_core/pkg/database"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// App holds the long-lived dependencies of a running process.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Services *portssvc.ServiceContainer
	Metrics  *metrics.PrometheusRecorder

	closers []func(context.Context) error
}

// NewLogger builds the process logger: JSON in production, text otherwise.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// New connects the configured storage driver, runs migrations when asked, attaches the
// optional summary cache and builds the service container.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	repos, err := a.openStorage(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.Metrics = metrics.NewPrometheusRecorder()

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	a.closers = append(a.closers, tp.Shutdown)

	opts := []services.Option{
		services.WithMetrics(a.Metrics),
		services.WithTracerProvider(tp),
		services.WithRetryPolicy(services.RetryPolicy{
			MaxRetries: cfg.CommitMaxRetries,
			BaseDelay:  cfg.CommitRetryBaseDelay,
			MaxDelay:   services.DefaultRetryPolicy().MaxDelay,
		}),
		services.WithAllowPostingOutsidePeriods(cfg.AllowPostingOutsidePeriods),
	}

	if cfg.RedisURL != "" {
		client, err := rediscache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("failed to connect summary cache: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		opts = append(opts, services.WithSummaryCache(rediscache.NewSummaryCache(client, cfg.SummaryCacheTTL)))
		logger.Info("Account summary cache enabled", slog.Duration("ttl", cfg.SummaryCacheTTL))
	}

	a.Services = services.NewServiceContainer(repos, opts...)
	return a, nil
}

func (a *App) openStorage(ctx context.Context) (portsrepo.RepositoryProvider, error) {
	switch a.Config.StorageDriver {
	case config.StorageDriverMemory:
		a.Logger.Warn("Using in-memory ledger storage")
		return memory.NewRepositoryProvider(memory.NewStore()), nil
	case config.StorageDriverPostgres:
		if a.Config.RunMigrations {
			if err := database.RunMigrations(a.Config.DatabaseURL, a.Logger); err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
		}
		pool, err := database.NewPgxPool(ctx, a.Config.DatabaseURL, database.PoolOptions{
			MaxConns:        a.Config.DBMaxConns,
			MaxConnLifetime: a.Config.DBMaxConnLifetime,
			Ping:            a.Config.EnableDBCheck,
		}, a.Logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error {
			database.ClosePgxPool(pool, a.Logger)
			return nil
		})
		return pgsql.NewRepositoryProvider(pool), nil
	default:
		return portsrepo.RepositoryProvider{}, fmt.Errorf("unknown storage driver %q", a.Config.StorageDriver)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
