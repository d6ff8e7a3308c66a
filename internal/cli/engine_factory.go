package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/internal/config"
	"github.com/aretw0/formflow/pkg/adapters/redis"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/i18n"
	"github.com/aretw0/formflow/pkg/observability"
	"github.com/aretw0/formflow/pkg/session"
	"github.com/aretw0/formflow/pkg/validation"
)

// loadCatalog returns the configured catalog file, or the embedded one.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", cfg.Catalog, err)
	}
	return c, nil
}

// engineOptions translates the configuration into Engine options.
func engineOptions(cfg *config.Config, cat *catalog.Catalog, logger *slog.Logger, hooks ...domain.LifecycleHooks) ([]formflow.Option, error) {
	tr, err := i18n.New(cfg.Lang)
	if err != nil {
		return nil, err
	}
	return []formflow.Option{
		formflow.WithCatalog(cat),
		formflow.WithValidators(validation.Registry(cfg.Latencies())),
		formflow.WithValidationLease(cfg.ValidationLease),
		formflow.WithTranslator(tr),
		formflow.WithLogger(logger),
		formflow.WithLifecycleHooks(domain.MergeHooks(hooks...)),
	}, nil
}

// createEngine initializes a single Engine with standard CLI conventions.
func createEngine(opts Options, logger *slog.Logger) (*formflow.Engine, error) {
	cat, err := loadCatalog(opts.Config)
	if err != nil {
		return nil, err
	}
	var hooks []domain.LifecycleHooks
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}
	engineOpts, err := engineOptions(opts.Config, cat, logger, hooks...)
	if err != nil {
		return nil, err
	}

	engine, err := formflow.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// backend bundles what a multi-session server needs.
type backend struct {
	Sessions *session.Manager[*formflow.Engine]
	Catalog  *catalog.Catalog
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	close    func()
}

func (b *backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// createBackend wires the session manager: one Engine per session, metrics
// hooks on every Engine and, when FORMFLOW_REDIS_ADDR is set, Redis locks
// shared between replicas.
func createBackend(ctx context.Context, opts Options, logger *slog.Logger) (*backend, error) {
	cfg := opts.Config
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	hooks := []domain.LifecycleHooks{metrics.Hooks()}
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}
	base, err := engineOptions(cfg, cat, logger, hooks...)
	if err != nil {
		return nil, err
	}

	managerOpts := []session.Option{
		session.WithLogger(logger),
		session.WithLimit(cfg.SessionLimit),
	}
	b := &backend{Catalog: cat, Registry: reg, Metrics: metrics}

	if cfg.RedisAddr != "" {
		locker := redis.New(cfg.RedisAddr, "", 0, redis.WithPrefix(cfg.RedisPrefix))
		if err := locker.Ping(ctx); err != nil {
			_ = locker.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		base = append(base, formflow.WithFormLocker(locker))
		managerOpts = append(managerOpts, session.WithLocker(locker))
		b.close = func() { _ = locker.Close() }
		logger.Info("using redis locks", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
	}

	b.Sessions = session.NewManager(func(_ context.Context, id string) (*formflow.Engine, error) {
		eng, err := formflow.New(append(base, formflow.WithSessionID(id))...)
		if err != nil {
			return nil, err
		}
		metrics.ActiveSessions.Inc()
		return eng, nil
	}, managerOpts...)
	b.Sessions.OnClose(func(_ string, eng *formflow.Engine) {
		eng.Close()
		metrics.ActiveSessions.Dec()
	})

	return b, nil
}
