// @title                       Petcare Clinic API
// @version                     1.0
// @description                 Accounts, pets, vaccines, consultations and prescriptions of a veterinary clinic.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/petcare/clinic-api/docs"
	"github.com/petcare/clinic-api/internal/api"
	"github.com/petcare/clinic-api/internal/api/handler"
	"github.com/petcare/clinic-api/internal/api/metrics"
	"github.com/petcare/clinic-api/internal/core/ports"
	"github.com/petcare/clinic-api/internal/core/service"
	"github.com/petcare/clinic-api/internal/infrastructure/db/mongo"
	"github.com/petcare/clinic-api/internal/infrastructure/db/postgres"
	"github.com/petcare/clinic-api/internal/infrastructure/db/redis"
	"github.com/petcare/clinic-api/internal/infrastructure/filestore"
	"github.com/petcare/clinic-api/internal/infrastructure/queue"
	"github.com/petcare/clinic-api/internal/pkg/config"
	"github.com/petcare/clinic-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "petcare-api",
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	key, err := service.NewSigningKey(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid signing key")
	}
	tokens := service.NewTokenService(key, cfg.Auth.TokenTTL)

	// --- Mongo: clinic records, audit trail and the default identity store ---
	mongoClient, db, err := mongo.Connect(rootCtx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	pets := mongo.NewPetRepository(db)
	vaccines := mongo.NewVaccineRepository(db)
	consultations := mongo.NewConsultationRepository(db)
	audit := mongo.NewAuditRepository(db)
	mongoIdentities := mongo.NewIdentityRepository(db)

	if err := mongo.EnsureIndexes(rootCtx, pets, vaccines, consultations, audit, mongoIdentities); err != nil {
		log.Fatal().Err(err).Msg("failed to create mongo indexes")
	}

	checks := []handler.DependencyCheck{
		{Name: "mongodb", Ping: func(ctx context.Context) error { return mongo.Ping(ctx, mongoClient) }},
	}

	// --- Identity store ---
	var identities ports.IdentityRepository = mongoIdentities
	if cfg.IdentityStore == config.StorePostgres {
		pg, err := postgres.New(rootCtx, cfg.Postgres.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pg.Close()
		if err := pg.Migrate(rootCtx); err != nil {
			log.Fatal().Err(err).Msg("failed to run postgres migrations")
		}
		identities = postgres.NewIdentityRepository(pg.Pool)
		checks = append(checks, handler.DependencyCheck{Name: "postgres", Ping: pg.Ping})
	}

	// --- Redis: failed-login throttle ---
	rdb, err := redis.Connect(rootCtx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	throttle := redis.NewLoginThrottle(rdb, redis.ThrottleConfig{
		MaxAttempts: cfg.Auth.LoginMaxAttempts,
		Window:      cfg.Auth.LoginWindow,
	})
	checks = append(checks, handler.DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error { return redis.Ping(ctx, rdb) }})

	// --- Prescription file ---
	prescriptions, err := filestore.NewPrescriptionStore(cfg.PrescriptionFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PrescriptionFile).Msg("failed to open prescription store")
	}
	checks = append(checks, handler.DependencyCheck{Name: "prescriptions", Ping: prescriptions.Ping})

	// --- Services ---
	authService := service.NewAuthService(identities, pets, tokens, throttle, logger.Component("auth"))
	if err := authService.BootstrapRoleGroups(rootCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap role groups")
	}

	// --- Audit workers ---
	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, audit, queue.DispatcherMetrics{
		Dropped:    metrics.AuditEventsDroppedTotal,
		QueueDepth: metrics.AuditQueueDepth,
	}, logger.Component("audit"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	router := api.NewRouter(api.Dependencies{
		Tokens:        tokens,
		Recorder:      dispatcher,
		Auth:          authService,
		Pets:          service.NewPetService(pets, logger.Component("pets")),
		Vaccines:      service.NewVaccineService(pets, vaccines, logger.Component("vaccines")),
		Consultations: service.NewConsultationService(pets, consultations, logger.Component("consultations")),
		Prescriptions: service.NewPrescriptionService(pets, prescriptions, logger.Component("prescriptions")),
		Checks:        checks,
		Log:           log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("identity_store", cfg.IdentityStore).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// Requests are done; flush whatever audit decisions are still queued.
	stopWorkers()
	dispatcher.Wait()
	log.Info().Int64("audit_dropped", dispatcher.Dropped()).Msg("graceful shutdown completed")
}
