package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"citeguard/internal/evidence/layers"
	jwttoken "citeguard/internal/jwt_token"
	"citeguard/internal/platform/config"
	"citeguard/internal/platform/httpserver"
	"citeguard/internal/platform/logger"
	platformmetrics "citeguard/internal/platform/metrics"
	"citeguard/internal/platform/middleware"
	"citeguard/internal/platform/redis"
	"citeguard/internal/scoring"
	"citeguard/internal/verification/cache"
	"citeguard/internal/verification/handler"
	verificationmetrics "citeguard/internal/verification/metrics"
	"citeguard/internal/verification/publisher"
	"citeguard/internal/verification/service"
	"citeguard/internal/verification/store"
	"citeguard/pkg/platform/circuit"
	"citeguard/pkg/platform/httputil"
)

// infra holds the optional backing services so main can close them on exit.
type infra struct {
	db    *sql.DB
	redis *redis.Client
	kafka *publisher.KafkaPublisher
}

func (i *infra) Close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := loadRegistry(cfg)
	if err != nil {
		log.Error("failed to load domain registry", "error", err)
		os.Exit(1)
	}

	deps := &infra{}
	defer deps.Close()

	svc, err := buildService(ctx, cfg, log, registry, deps)
	if err != nil {
		log.Error("failed to build verification service", "error", err)
		os.Exit(1)
	}

	router := buildRouter(cfg, log, svc, deps)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting citeguard",
		"addr", cfg.Addr,
		"domains", registry.Domains(),
		"postgres", deps.db != nil,
		"redis", deps.redis != nil,
		"kafka", deps.kafka != nil,
		"auth", cfg.JWTSigningKey != "",
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("citeguard stopped")
}

func loadRegistry(cfg config.Server) (*scoring.Registry, error) {
	if cfg.RegistryPath == "" {
		return scoring.Default(), nil
	}
	return scoring.LoadRegistry(cfg.RegistryPath)
}

func buildService(ctx context.Context, cfg config.Server, log *slog.Logger, registry *scoring.Registry, deps *infra) (*service.Service, error) {
	set := layers.NewSet()
	if cfg.URLProbeEnabled {
		probe := layers.NewURLProbe(layers.WithHTTPClient(&http.Client{Timeout: cfg.LayerTimeout}))
		if err := set.Register(layers.NewGuarded(probe, circuit.New(string(probe.ID())))); err != nil {
			return nil, err
		}
	}

	var st service.Store = store.NewInMemoryStore()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		deps.db = db
		pg := store.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		st = pg
	}

	opts := []service.Option{
		service.WithLayers(set),
		service.WithLogger(log),
		service.WithMetrics(verificationmetrics.New()),
		service.WithLayerTimeout(cfg.LayerTimeout),
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		deps.redis = rc
		opts = append(opts, service.WithCache(cache.NewRedisCache(rc, cfg.VerdictCacheTTL)))
	}

	if cfg.Kafka.Enabled() {
		kp, err := publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OutcomeTopic)
		if err != nil {
			return nil, err
		}
		deps.kafka = kp
		if err := kp.EnsureTopic(ctx, 3, 1); err != nil {
			return nil, err
		}
		opts = append(opts, service.WithPublisher(kp))
	} else {
		opts = append(opts, service.WithPublisher(publisher.NewLogPublisher(log)))
	}

	return service.New(registry, st, opts...)
}

func buildRouter(cfg config.Server, log *slog.Logger, svc *service.Service, deps *infra) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestContext)
	r.Use(middleware.CountRequests(platformmetrics.New()))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if deps.db != nil {
			if err := deps.db.PingContext(r.Context()); err != nil {
				status["postgres"], code = "unavailable", http.StatusServiceUnavailable
			}
		}
		if deps.redis != nil {
			if err := deps.redis.Health(r.Context()); err != nil {
				status["redis"], code = "unavailable", http.StatusServiceUnavailable
			}
		}
		if code != http.StatusOK {
			status["status"] = "degraded"
		}
		httputil.WriteJSON(w, code, status)
	})
	r.Handle("/metrics", promhttp.Handler())

	h := handler.New(svc, log)
	r.Group(func(r chi.Router) {
		if cfg.JWTSigningKey != "" {
			jwt := jwttoken.NewJWTService(cfg.JWTSigningKey, jwttoken.Issuer, jwttoken.Audience)
			r.Use(middleware.RequireAuth(jwt, log))
		}
		h.Register(r)
	})
	return r
}
