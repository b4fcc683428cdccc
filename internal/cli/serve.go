package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/vialsort"
	"github.com/aretw0/vialsort/internal/logging"
	"github.com/aretw0/vialsort/internal/metrics"
	httpAdapter "github.com/aretw0/vialsort/pkg/adapters/http"
	"github.com/aretw0/vialsort/pkg/adapters/memory"
	"github.com/aretw0/vialsort/pkg/adapters/redis"
	"github.com/aretw0/vialsort/pkg/ports"
	"github.com/aretw0/vialsort/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// StoreOptions selects where games are kept.
type StoreOptions struct {
	RedisAddr     string // empty keeps games in memory
	RedisPassword string
	RedisDB       int
	GameTTL       time.Duration
}

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	StoreOptions
	Addr     string
	LogLevel slog.Level
}

// newGameManager wires the store, metrics and debug hooks behind a session
// manager. The returned close function releases the store connection.
func newGameManager(opts StoreOptions, logger *slog.Logger, reg prometheus.Registerer) (*session.Manager, func() error) {
	var store ports.GameStore
	var locker ports.DistributedLocker
	closeFn := func() error { return nil }

	if opts.RedisAddr != "" {
		rs := redis.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, redis.WithTTL(opts.GameTTL))
		store = rs
		locker = redis.NewLocker(rs.Client(), redis.DefaultPrefix)
		closeFn = rs.Close
		logger.Info("Using Redis game store", "addr", opts.RedisAddr, "ttl", opts.GameTTL)
	} else {
		if opts.GameTTL > 0 {
			logger.Warn("--game-ttl is ignored by the in-memory store")
		}
		store = memory.NewStore()
		logger.Info("Using in-memory game store")
	}

	collector := metrics.New(reg)
	debugHooks := createDebugHooks(logger)

	mgrOpts := []session.Option{
		session.WithLogger(logger),
		session.WithGameOptions(
			vialsort.WithLogger(logger),
			vialsort.WithLifecycleHooks(collector.Hooks(&debugHooks)),
		),
		session.WithOnCreate(func(context.Context, *vialsort.Game) {
			collector.Games.Inc()
		}),
	}
	if locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(locker))
	}
	return session.NewManager(store, mgrOpts...), closeFn
}

// NewServeHandler wires the game manager and routes.
// The returned close function releases the store connection.
func NewServeHandler(opts ServeOptions, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, func() error) {
	mgr, closeFn := newGameManager(opts.StoreOptions, logger, reg)

	handler := httpAdapter.NewHandler(mgr,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	return handler, closeFn
}

// RunServe starts the HTTP front end and blocks until ctx is cancelled or the
// listener fails.
func RunServe(ctx context.Context, opts ServeOptions, w io.Writer) error {
	logger := logging.New(opts.LogLevel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, closeStore := NewServeHandler(opts, logger, reg)
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close game store", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(w, "Starting vialsort server on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(w, "Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(w, "Server stopped gracefully")
		return nil
	}
}
