package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/portal/internal/adapters/http/api"
	"github.com/okian/portal/internal/adapters/http/middleware"
	"github.com/okian/portal/internal/adapters/http/site"
	"github.com/okian/portal/internal/adapters/http/swagger"
	"github.com/okian/portal/internal/adapters/playerapi"
	app "github.com/okian/portal/internal/app"
	"github.com/okian/portal/internal/config"
	"github.com/okian/portal/pkg/logger"
	"github.com/okian/portal/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 15 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	client, err := playerapi.New(cfg.APIBaseURL, playerapi.WithTimeout(cfg.APITimeout()))
	if err != nil {
		loggerInstance.Fatal(ctx, "invalid player api", logger.Error(err))
	}

	svc := app.New(
		app.WithLogger(loggerInstance.Named("service")),
		app.WithPlayerAPI(client),
		app.WithMaxIdentities(cfg.MaxIdentities),
	)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	mux, err := newMux(ctx, cfg, svc)
	if err != nil {
		loggerInstance.Fatal(ctx, "failed to build routes", logger.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("playerApi", client.BaseURL()),
			logger.Bool("secureCookies", cfg.SecureCookies),
			logger.Any("trustedProxies", cfg.TrustedProxies))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newMux registers the JSON API, the HTML site and the API docs on one mux.
// Both surfaces share one sign-in throttle.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) (*http.ServeMux, error) {
	key, err := csrfKey(cfg)
	if err != nil {
		return nil, err
	}
	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}
	limiter := middleware.NewRateLimiter(cfg.SignInRatePerMinute, cfg.SignInBurst,
		middleware.WithTrustedProxies(proxies))

	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	api.NewServer(svc, svc,
		api.WithSignInLimiter(limiter),
		api.WithSecureCookies(cfg.SecureCookies),
	).Register(ctx, mux)

	pages, err := site.New(svc,
		site.WithCSRFKey(key),
		site.WithSecureCookies(cfg.SecureCookies),
		site.WithSignInLimiter(limiter),
	)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	pages.Register(ctx, mux)

	return mux, nil
}

// csrfKey returns the configured key or a random one. A random key invalidates
// open forms on restart.
func csrfKey(cfg *config.Config) ([]byte, error) {
	key, err := cfg.CSRFKeyBytes()
	if err != nil {
		return nil, err
	}
	if key != nil {
		return key, nil
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("csrf key: %w", err)
	}
	return key, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes the identity gauge from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if n, ok := stats["identities"].(int64); ok {
		metrics.UpdateActiveIdentities(n)
	}
}
