package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	devclub "github.com/senacirak/DEU-DevClubGames"
	"github.com/senacirak/DEU-DevClubGames/internal/config"
	"github.com/senacirak/DEU-DevClubGames/internal/metrics"
	httpAdapter "github.com/senacirak/DEU-DevClubGames/pkg/adapters/http"
	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/memory"
	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/redis"
	"github.com/senacirak/DEU-DevClubGames/pkg/persistence/middleware"
	"github.com/senacirak/DEU-DevClubGames/pkg/ports"
	"github.com/senacirak/DEU-DevClubGames/pkg/session"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// Service bundles everything behind the HTTP API.
type Service struct {
	Engine  *devclub.Engine
	Store   ports.SessionStore
	Manager *session.Manager
	Metrics *metrics.Metrics // nil when disabled
	Handler http.Handler

	closers []func() error
}

// NewService loads the catalog and wires the session store, the session
// manager, the HTTP routes and, when enabled, the /metrics endpoint.
func NewService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	svc := &Service{}

	engineOpts := []devclub.Option{
		devclub.WithLogger(logger),
		devclub.WithLifecycleHooks(debugHooks(logger)),
	}
	if cfg.Metrics {
		svc.Metrics = metrics.New()
		engineOpts = append(engineOpts, devclub.WithLifecycleHooks(svc.Metrics.Hooks()))
	}

	eng, err := devclub.New(ctx, cfg.StoriesDir, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	svc.Engine = eng

	managerOpts := []session.Option{
		session.WithLogger(logger),
		session.WithHooks(eng.Hooks()),
	}
	if cfg.RedisAddr != "" {
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.SessionTTL))
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		svc.Store = store
		svc.closers = append(svc.closers, store.Close)
		managerOpts = append(managerOpts,
			session.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix)),
			session.WithLockTTL(cfg.LockTTL),
		)
		logger.Info("Using Redis session store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	} else {
		svc.Store = memory.NewStore()
		logger.Info("Using in-memory session store")
	}
	if svc.Store, err = sealStore(cfg, svc.Store, logger); err != nil {
		_ = svc.Close()
		return nil, err
	}
	svc.Manager = session.NewManager(eng.Catalog, svc.Store, managerOpts...)

	serverOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithVersion(devclub.Version),
	}
	if svc.Metrics != nil {
		serverOpts = append(serverOpts, httpAdapter.WithMiddleware(svc.Metrics.Middleware))
	}
	router := httpAdapter.NewServer(eng.Catalog, svc.Manager, serverOpts...).Routes()
	if svc.Metrics != nil {
		router.Handle("/metrics", svc.Metrics.Handler())
	}
	svc.Handler = router
	return svc, nil
}

// sealStore wraps store with snapshot encryption when a session key is set.
func sealStore(cfg *config.Config, store ports.SessionStore, logger *slog.Logger) (ports.SessionStore, error) {
	active, fallback, err := cfg.EncryptionKeys()
	if err != nil || active == nil {
		return store, err
	}
	seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallback,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Session snapshots are encrypted", "fallback_keys", len(fallback))
	return middleware.Chain(store, seal), nil
}

// Close releases the store connection.
func (s *Service) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Serve runs the HTTP API until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	svc, err := NewService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           svc.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting DevClub server", "addr", srv.Addr, "stories", svc.Engine.Catalog.Len(), "source", svc.Engine.Name)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("DevClub server stopped gracefully")
		return nil
	}
}
