package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	attendancehandler "peoplehub/internal/attendance/handler"
	attendanceservice "peoplehub/internal/attendance/service"
	"peoplehub/internal/cache"
	dashboardhandler "peoplehub/internal/dashboard/handler"
	dashboardservice "peoplehub/internal/dashboard/service"
	documenthandler "peoplehub/internal/documents/handler"
	documentservice "peoplehub/internal/documents/service"
	httpapi "peoplehub/internal/http"
	identityhandler "peoplehub/internal/identity/handler"
	identitymetrics "peoplehub/internal/identity/metrics"
	identitymodels "peoplehub/internal/identity/models"
	"peoplehub/internal/identity/password"
	"peoplehub/internal/identity/providers"
	identityservice "peoplehub/internal/identity/service"
	jwttoken "peoplehub/internal/jwt_token"
	"peoplehub/internal/platform/config"
	"peoplehub/internal/platform/httpserver"
	"peoplehub/internal/platform/logger"
	"peoplehub/internal/platform/metrics"
	"peoplehub/internal/platform/postgres"
	"peoplehub/internal/platform/redis"
	"peoplehub/internal/platform/tracing"
	settingshandler "peoplehub/internal/settings/handler"
	settingsservice "peoplehub/internal/settings/service"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/platform/audit"
	"peoplehub/pkg/platform/audit/publisher"
	kafkastore "peoplehub/pkg/platform/audit/store/kafka"
	auditmemory "peoplehub/pkg/platform/audit/store/memory"
	authmw "peoplehub/pkg/platform/middleware/auth"
)

const (
	shutdownTimeout    = 10 * time.Second
	auditBuffer        = 1024
	breakerThreshold   = 5
	breakerCooldown    = 30 * time.Second
	startupPingTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires dependencies, serves until ctx is cancelled and then releases
// resources in reverse order.
func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	startCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	defer cancel()

	checks := map[string]httpapi.HealthCheck{}

	db, err := postgres.Open(startCtx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(startCtx, db); err != nil {
			return err
		}
		checks["postgres"] = db.PingContext
		log.Info("using postgres document store")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	cacheStore, closeCache, err := newCacheStore(startCtx, cfg.Redis, log, checks)
	if err != nil {
		return err
	}
	defer closeCache()

	auditSink, closeAudit, err := newAuditSink(startCtx, cfg.Audit, log)
	if err != nil {
		return err
	}
	defer closeAudit()

	auditPublisher := publisher.NewPublisher(auditSink,
		publisher.WithAsyncBuffer(auditBuffer),
		publisher.WithLogger(log),
		publisher.WithCircuitBreaker(publisher.NewCircuitBreaker(breakerThreshold, breakerCooldown)),
	)
	defer auditPublisher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := newApp(cfg, log, reg, checks, newStores(db), cacheStore, auditPublisher)
	if err := bootstrapAdmin(startCtx, app.directory, cfg.Bootstrap, log); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	srv := httpserver.New(cfg.Addr, app.handler, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting peoplehub", "addr", cfg.Addr)
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

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

type app struct {
	handler   http.Handler
	directory *identityservice.Directory
}

func newApp(
	cfg config.Server,
	log *slog.Logger,
	reg *prometheus.Registry,
	checks map[string]httpapi.HealthCheck,
	st stores,
	cacheStore cache.Store,
	auditPublisher *publisher.Publisher,
) app {
	accessor := cache.New(cacheStore, cache.WithLogger(log), cache.WithMetrics(cache.NewMetrics(reg)))

	identityOpts := []identityservice.Option{
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(auditPublisher),
		identityservice.WithMetrics(identitymetrics.New(reg)),
		identityservice.WithPhoneEmailDomain(cfg.PhoneEmailDomain),
	}
	hasher := password.NewHasher(cfg.BcryptCost)
	provisioner := identityservice.NewProvisioner(st.profiles, accessor, identityOpts...)
	resolver := identityservice.NewResolver(st.accounts, provisioner, hasher, accessor, identityOpts...)
	directory := identityservice.NewDirectory(st.accounts, provisioner, hasher, accessor, identityOpts...)

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.SessionTTL)
	guard := authmw.NewGuard(
		jwttoken.NewJWTServiceAdapter(tokens),
		identityhandler.NewRoleLookup(directory),
		log,
		identityservice.NewDenialAuditor(auditPublisher, log),
	)

	settings := settingsservice.New(st.settings, accessor, log)
	dashboard := dashboardservice.New(st.activities, st.events, dashboardservice.Counters{
		Accounts:   st.accounts,
		Profiles:   st.profiles,
		Attendance: st.attendance,
	}, settings, accessor, log)
	attendance := attendanceservice.New(st.attendance, settings, dashboard, accessor, log)
	documents := documentservice.New(st.documents, dashboard, accessor, log)

	oauth := providers.NewRegistry(providers.NewOAuthProvider(cfg.OAuth, nil))
	phone := providers.NewPhoneVerifier(cfg.Phone, nil)

	handler := httpapi.NewRouter(httpapi.Options{
		Logger:   log,
		Metrics:  metrics.NewHTTP(reg),
		Gatherer: reg,
		Checks:   checks,
	},
		identityhandler.New(resolver, directory, tokens, oauth, phone, guard, log),
		attendancehandler.New(attendance, guard, log),
		documenthandler.New(documents, guard, log),
		dashboardhandler.New(dashboard, guard, log),
		settingshandler.New(settings, guard, log),
	)
	return app{handler: handler, directory: directory}
}

// bootstrapAdmin creates the configured admin once. An existing account with
// that email is left untouched.
func bootstrapAdmin(ctx context.Context, directory *identityservice.Directory, cfg config.BootstrapConfig, log *slog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	_, err := directory.CreateAccount(ctx, identitymodels.CreateAccountRequest{
		Email:    cfg.AdminEmail,
		Name:     "Administrator",
		Password: cfg.AdminPassword,
		Role:     identitymodels.RoleAdmin,
	})
	if dErrors.HasCode(err, dErrors.CodeConflict) {
		log.Info("bootstrap admin already exists", "email", cfg.AdminEmail)
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("bootstrap admin created", "email", cfg.AdminEmail)
	return nil
}

// newCacheStore dials Redis when configured and falls back to the in-process store.
func newCacheStore(ctx context.Context, cfg config.RedisConfig, log *slog.Logger, checks map[string]httpapi.HealthCheck) (cache.Store, func(), error) {
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Warn("REDIS_URL not set, using in-memory cache")
		return cache.NewMemoryStore(), func() {}, nil
	}
	checks["redis"] = client.Health
	log.Info("using redis cache")
	return cache.NewRedisStore(client.Client), func() { _ = client.Close() }, nil
}

// newAuditSink produces to Kafka when brokers are configured.
func newAuditSink(ctx context.Context, cfg config.AuditConfig, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Warn("KAFKA_BROKERS not set, keeping audit events in memory")
		return auditmemory.NewInMemoryStore(), func() {}, nil
	}
	client, err := kafkastore.NewClient(cfg.Brokers)
	if err != nil {
		return nil, nil, err
	}
	if err := kafkastore.EnsureTopic(ctx, client, cfg.Topic); err != nil {
		client.Close()
		return nil, nil, err
	}
	log.Info("publishing audit events to kafka", "topic", cfg.Topic)
	return kafkastore.New(client, cfg.Topic), client.Close, nil
}

