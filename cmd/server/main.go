package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	jwttoken "onboard/internal/jwt_token"
	"onboard/internal/onboarding/authz"
	"onboard/internal/onboarding/coordinator"
	"onboard/internal/onboarding/handler"
	"onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/override"
	"onboard/internal/onboarding/ports"
	"onboard/internal/onboarding/staleness"
	auditstore "onboard/internal/onboarding/store/audit"
	onboardingstore "onboard/internal/onboarding/store/onboarding"
	requirementstore "onboard/internal/onboarding/store/requirements"
	rulesstore "onboard/internal/onboarding/store/rules"
	"onboard/internal/onboarding/store/rulescache"
	stagestore "onboard/internal/onboarding/store/stages"
	"onboard/internal/platform/config"
	"onboard/internal/platform/httpserver"
	"onboard/internal/platform/logger"
	platformredis "onboard/internal/platform/redis"
	"onboard/pkg/platform/audit"
	auditpublisher "onboard/pkg/platform/audit/publisher"
	auditmemory "onboard/pkg/platform/audit/store/memory"
	auditpostgres "onboard/pkg/platform/audit/store/postgres"
	auditworker "onboard/pkg/platform/audit/worker"
	"onboard/pkg/platform/httputil"
	"onboard/pkg/platform/middleware/admin"
	"onboard/pkg/platform/middleware/auth"
	"onboard/pkg/platform/middleware/device"
	"onboard/pkg/platform/middleware/metadata"
	"onboard/pkg/platform/middleware/request"
	"onboard/pkg/platform/middleware/requesttime"
	pkgstrings "onboard/pkg/platform/strings"
)

// main assembles the stores, services, and HTTP surface. Business logic lives
// in internal/onboarding; this file only wires dependencies and owns the
// process lifecycle.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores. Without a Postgres URL everything runs in memory, which keeps
	// local development and smoke tests dependency-free.
	var (
		onboardings  ports.StatusSink
		requirements ports.RequirementSource
		rules        ports.RulesSource
		stageSource  ports.StageSource
		auditSink    ports.AuditSink
		eventStore   audit.Store
	)
	healthChecks := map[string]func(context.Context) error{}
	if cfg.Postgres.URL != "" {
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}

		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Error("open pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		onboardings = onboardingstore.NewPostgres(db)
		requirements = requirementstore.NewPostgres(db)
		rules = rulesstore.NewPostgres(pool)
		stageSource = stagestore.NewPostgres(db)
		auditSink = auditstore.NewPostgres(db)
		eventStore = auditpostgres.New(db)
		healthChecks["postgres"] = db.PingContext
	} else {
		log.Warn("POSTGRES_URL not set, using in-memory stores")
		onboardings = onboardingstore.NewInMemory()
		requirements = requirementstore.NewInMemory()
		rules = rulesstore.NewInMemory()
		stageSource = stagestore.NewInMemory()
		auditSink = auditstore.NewInMemory()
		eventStore = auditmemory.NewInMemoryStore()
	}

	// Rules-config cache. Reads go through Redis when available; the cache
	// degrades to the upstream source on any cache failure.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		rules = rulescache.New(rules, redisClient.Client, config.RulesCacheTTL, rulescache.WithLogger(log))
		healthChecks["redis"] = redisClient.Health
	}

	// Audit pipeline: domain events go to Kafka when brokers are configured
	// and to the structured log otherwise; a worker persists every event.
	var publisher audit.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := auditpublisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, auditpublisher.WithLogger(log))
		if err != nil {
			log.Error("create kafka publisher", "error", err)
			os.Exit(1)
		}
		defer func() { _ = kafka.Close(context.Background()) }()
		publisher = kafka
	} else {
		log.Warn("KAFKA_BROKERS not set, audit events go to the log only")
		publisher = auditpublisher.NewLog(log)
	}

	inbox := make(chan audit.Event, 256)
	publisher = &persistingPublisher{next: publisher, inbox: inbox}
	worker := auditworker.NewWorker(eventStore, inbox)
	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	m := metrics.New()

	coord := coordinator.New(onboardings, requirements, rules,
		coordinator.WithLogger(log),
		coordinator.WithAuditPublisher(publisher),
		coordinator.WithMetrics(m),
	)

	allowList := authz.NewAllowList()
	if err := registerOverrideSources(allowList); err != nil {
		log.Error("register override sources", "error", err)
		os.Exit(1)
	}
	overrides := override.New(onboardings, auditSink, allowList,
		override.WithLogger(log),
		override.WithAuditPublisher(publisher),
		override.WithMetrics(m),
	)

	tracker := staleness.New(onboardings, rules, staleness.WithLogger(log))

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "onboard", "onboard-api")
	validator := jwttoken.NewJWTServiceAdapter(jwtService)

	h := handler.New(coord, overrides, tracker, stageSource, log, m,
		handler.WithPollInterval(cfg.StalenessPollInterval),
		handler.WithBatchParallelism(cfg.BatchParallelism),
	)

	r := chi.NewRouter()
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(device.Middleware)

	h.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(validator, log))
		h.RegisterOverride(r)
	})
	if cfg.AdminToken != "" {
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.AdminToken, log))
			h.RegisterAdmin(r)
		})
	} else {
		log.Warn("ONBOARD_ADMIN_TOKEN not set, admin endpoints disabled")
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(healthChecks))

	srv := httpserver.New(cfg.Addr, r)
	go func() {
		log.Info("starting onboard server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// persistingPublisher forwards each event to the configured sink and queues
// it for the persistence worker. The queue write never blocks a request.
type persistingPublisher struct {
	next  audit.Publisher
	inbox chan<- audit.Event
}

func (p *persistingPublisher) Emit(ctx context.Context, event audit.Event) error {
	select {
	case p.inbox <- event:
	default:
	}
	return p.next.Emit(ctx, event)
}

// healthHandler reports liveness plus the state of each configured backing
// service. In-memory mode has no checks and always reports ok.
func healthHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}

// registerOverrideSources seeds the override allow-list from the
// OVERRIDE_SOURCES environment variable, formatted as
// source:secret:program1|program2 entries separated by semicolons.
func registerOverrideSources(list *authz.AllowList) error {
	raw := os.Getenv("OVERRIDE_SOURCES")
	if raw == "" {
		return nil
	}
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			continue
		}
		programs := pkgstrings.DedupeAndTrim(strings.Split(parts[2], "|"))
		if err := list.Register(parts[0], parts[1], programs); err != nil {
			return err
		}
	}
	return nil
}
