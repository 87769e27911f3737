// Command server runs the ocotillo completion gateway.
//
// Configuration is layered: built-in defaults, then a YAML config file
// (-config flag, OCOTILLO_CONFIG, ./config.yaml, /etc/ocotillo/config.yaml),
// then OCOTILLO_* environment variable overrides. See pkg/config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ocotillo-ai/ocotillo/pkg/auth"
	"github.com/ocotillo-ai/ocotillo/pkg/auth/apikey"
	"github.com/ocotillo-ai/ocotillo/pkg/auth/jwt"
	"github.com/ocotillo-ai/ocotillo/pkg/auth/noop"
	"github.com/ocotillo-ai/ocotillo/pkg/config"
	"github.com/ocotillo-ai/ocotillo/pkg/debug"
	"github.com/ocotillo-ai/ocotillo/pkg/engine"
	"github.com/ocotillo-ai/ocotillo/pkg/observability"
	"github.com/ocotillo-ai/ocotillo/pkg/runner/llamacpp"
	"github.com/ocotillo-ai/ocotillo/pkg/storage/memory"
	"github.com/ocotillo-ai/ocotillo/pkg/storage/postgres"
	"github.com/ocotillo-ai/ocotillo/pkg/transport"
	transporthttp "github.com/ocotillo-ai/ocotillo/pkg/transport/http"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	debug.Init(cfg.Observability.Debug, cfg.Observability.LogLevel)
	logger := slog.Default()

	// Backend runner.
	backend, err := llamacpp.New(llamacpp.Config{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		return fmt.Errorf("creating backend runner: %w", err)
	}
	defer backend.Close()

	// Completion store.
	store, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	// Engine.
	eng, err := engine.New(backend, store, engine.Config{
		DefaultModel:     cfg.Engine.DefaultModel,
		MaxTokensCeiling: cfg.Engine.MaxTokensCeiling,
	}, logger)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	// HTTP adapter with default middleware.
	adapter := transporthttp.NewAdapter(eng, store, transporthttp.Config{
		MaxBodySize:   cfg.Server.MaxBodySize,
		MaxResultSize: cfg.Server.MaxResultSize,
	},
		transport.Recovery(),
		transport.RequestID(),
		transport.Logging(logger),
	)

	handler := http.Handler(adapter.Handler())

	// Authentication.
	chain, limiter, err := buildAuth(cfg)
	if err != nil {
		return err
	}
	handler = auth.Middleware(chain, limiter, auth.DefaultBypassEndpoints)(handler)

	// Request metrics.
	handler = observability.MetricsMiddleware(handler)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := backend.Health(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if store != nil {
			if err := store.HealthCheck(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready\n"))
	})
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"port", cfg.Server.Port,
			"backend", cfg.Backend.BaseURL,
			"model", cfg.Engine.DefaultModel,
			"storage", cfg.Storage.Type,
			"auth", cfg.Auth.Type,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// buildStore creates the completion store described by the configuration.
func buildStore(cfg *config.Config, logger *slog.Logger) (transport.CompletionStore, error) {
	switch cfg.Storage.Type {
	case "postgres":
		store, err := postgres.New(context.Background(), postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MinConns:       cfg.Storage.Postgres.MinConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		logger.Info("storage enabled", "type", "postgres")
		return store, nil
	default:
		logger.Info("storage enabled", "type", "memory", "max_size", cfg.Storage.MaxSize)
		return memory.New(cfg.Storage.MaxSize), nil
	}
}

// buildAuth creates the authentication chain and rate limiter described
// by the configuration.
func buildAuth(cfg *config.Config) (*auth.AuthChain, auth.RateLimiter, error) {
	chain := &auth.AuthChain{DefaultDecision: auth.No}

	switch cfg.Auth.Type {
	case "none":
		chain.Authenticators = []auth.Authenticator{&noop.Authenticator{}}
	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.Auth.APIKeys))
		for _, k := range cfg.Auth.APIKeys {
			entry := apikey.RawKeyEntry{
				Key: k.Key,
				Identity: auth.Identity{
					Subject:     k.Subject,
					ServiceTier: k.ServiceTier,
				},
			}
			if k.TenantID != "" {
				entry.Identity.Metadata = map[string]string{"tenant_id": k.TenantID}
			}
			entries = append(entries, entry)
		}
		chain.Authenticators = []auth.Authenticator{apikey.New(entries)}
	case "jwt":
		authn, err := jwt.New(jwt.Config{
			Secret:   cfg.Auth.JWT.Secret,
			Issuer:   cfg.Auth.JWT.Issuer,
			Audience: cfg.Auth.JWT.Audience,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("configuring JWT auth: %w", err)
		}
		chain.Authenticators = []auth.Authenticator{authn}
	}

	var limiter auth.RateLimiter
	if cfg.Auth.RateLimit.DefaultRPM > 0 || len(cfg.Auth.RateLimit.Tiers) > 0 {
		tiers := make(map[string]auth.TierConfig, len(cfg.Auth.RateLimit.Tiers))
		for name, rpm := range cfg.Auth.RateLimit.Tiers {
			tiers[name] = auth.TierConfig{RequestsPerMinute: rpm}
		}
		limiter = auth.NewInProcessLimiter(tiers, cfg.Auth.RateLimit.DefaultRPM)
	}

	return chain, limiter, nil
}
