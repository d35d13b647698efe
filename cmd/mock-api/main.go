// Command mock-api serves a generated player dataset over the player API
// routes the portal consumes. Defaults come from the portal configuration;
// flags override them.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/portal/internal/adapters/http/upstream"
	"github.com/okian/portal/internal/adapters/repository"
	"github.com/okian/portal/internal/config"
	"github.com/okian/portal/internal/fixtures"
	"github.com/okian/portal/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		addr    = flag.String("addr", cfg.MockAPIAddr, "Listen address")
		players = flag.Int("players", cfg.MockAPIPlayers, "Number of generated players")
		seed    = flag.Uint64("seed", cfg.MockAPISeed, "Generator seed; the same seed yields the same players")
	)
	flag.Parse()

	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get().Named("mock-api")

	srv, store, err := newServer(ctx, *addr, fixtures.Config{Players: *players, Seed: *seed})
	if err != nil {
		log.Fatal(ctx, "failed to build dataset", logger.Error(err))
	}
	defer func() {
		_ = store.Close()
	}()

	go func() {
		log.Info(ctx, "serving mock player api",
			logger.String("addr", *addr),
			logger.String("prefix", upstream.Prefix),
			logger.String("demoEmail", fixtures.DemoEmail))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "mock api failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "mock api stopped")
}

// newServer generates a dataset, loads it into a fresh store and returns an
// unstarted server exposing it.
func newServer(ctx context.Context, addr string, fc fixtures.Config) (*http.Server, *repository.MemoryStore, error) {
	ds, err := fixtures.Generate(ctx, fc)
	if err != nil {
		return nil, nil, err
	}
	store := repository.NewMemoryStore(ctx)
	if err := fixtures.Load(ctx, store, ds); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	mux := http.NewServeMux()
	upstream.Register(mux, store)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}, store, nil
}
