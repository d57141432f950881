package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/mealpoints/internal/config"
	"github.com/mmynk/mealpoints/internal/geoip"
	"github.com/mmynk/mealpoints/internal/metrics"
	"github.com/mmynk/mealpoints/internal/middleware"
	"github.com/mmynk/mealpoints/internal/service"
	"github.com/mmynk/mealpoints/internal/storage"
	"github.com/mmynk/mealpoints/internal/storage/memory"
	"github.com/mmynk/mealpoints/internal/storage/sqlite"
	"github.com/mmynk/mealpoints/pkg/api/apiconnect"
	"github.com/mmynk/mealpoints/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	resolver := geoip.NewResolver(geoip.Options{
		Endpoint:          cfg.GeoIP.Endpoint,
		CacheTTL:          cfg.GeoIP.CacheTTL,
		CacheSize:         cfg.GeoIP.CacheSize,
		RequestsPerSecond: cfg.GeoIP.RequestsPerSecond,
		Timeout:           cfg.GeoIP.Timeout,
		Metrics:           m,
	})

	members := service.NewMemberService(store)
	if err := members.SeedRoster(ctx, cfg.SeedMembers); err != nil {
		return fmt.Errorf("failed to seed roster: %w", err)
	}

	handler := newHandler(handlerDeps{
		members:  members,
		events:   service.NewEventService(store, m),
		stats:    service.NewStatsService(store, cfg.LeaderboardTop),
		geo:      service.NewGeoService(resolver),
		metrics:  m,
		gatherer: reg,
	})

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		// Wrap with h2c for HTTP/2 without TLS (required for Connect)
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		slog.Info("Storage initialized", "backend", cfg.Store)
		return memory.New(), nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.Store, "database", cfg.DBPath)
		return store, nil
	}
}

type handlerDeps struct {
	members  apiconnect.MemberServiceHandler
	events   apiconnect.EventServiceHandler
	stats    apiconnect.StatsServiceHandler
	geo      apiconnect.GeoServiceHandler
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

func newHandler(deps handlerDeps) http.Handler {
	mux := http.NewServeMux()

	opts := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		deps.metrics.Interceptor(),
	)

	// Register Connect services
	mux.Handle(apiconnect.NewMemberServiceHandler(deps.members, opts))
	mux.Handle(apiconnect.NewEventServiceHandler(deps.events, opts))
	mux.Handle(apiconnect.NewStatsServiceHandler(deps.stats, opts))
	mux.Handle(apiconnect.NewGeoServiceHandler(deps.geo, opts))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if deps.gatherer != nil {
		mux.Handle("GET /metrics", metrics.Handler(deps.gatherer))
	}

	return corsMiddleware(mux)
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
