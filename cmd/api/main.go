package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/cache"
	adapterHTTP "github.com/Lynn3t/my-takeoff-2026/internal/adapters/handler/http"
	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/narrative"
	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/repository"
	"github.com/Lynn3t/my-takeoff-2026/internal/config"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/services"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/workers"
	"github.com/Lynn3t/my-takeoff-2026/internal/logger"
)

func main() {
	startTime := time.Now()

	logger.Initialize()

	cfg := config.MustLoad()

	log.Info().Msg("connecting to database")

	db, err := sqlx.Connect("pgx", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Info().Msg("database connected")

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without caching and rate limiting")
			rdb = nil
		} else {
			defer rdb.Close()
			log.Info().Msg("redis connected")
		}
	}

	userRepo := repository.NewPostgresUserRepository(db)
	recordRepo := repository.NewPostgresRecordRepository(db)
	viewedRepo := repository.NewPostgresViewedMarkerRepository(db)

	clock := domain.NewSystemClock()

	var reportCache *cache.RedisReportCache
	if rdb != nil {
		reportCache = cache.NewRedisReportCache(rdb)
	}

	var summaryStore workers.SummaryStore
	if reportCache != nil {
		summaryStore = reportCache
	}

	summaryWorker := workers.NewSummaryWorker(recordRepo, summaryStore, clock)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	summaryWorker.Start(workerCtx)

	narrativeClient := narrative.NewClient(narrative.Config{
		Endpoint: cfg.Narrative.Endpoint,
		APIKey:   cfg.Narrative.APIKey,
		Model:    cfg.Narrative.Model,
		Timeout:  time.Duration(cfg.Narrative.TimeoutSeconds) * time.Second,
	})

	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL(), userRepo)
	authService := services.NewAuthService(userRepo, tokenService)
	recordService := services.NewRecordService(recordRepo, clock, summaryWorker)

	var svcCache services.ReportCache
	if reportCache != nil {
		svcCache = reportCache
	}
	reportService := services.NewReportService(recordRepo, viewedRepo, narrativeClient, svcCache, clock)

	seedAdmin(authService, cfg.Auth)

	var summaryReader adapterHTTP.SummaryReader
	if reportCache != nil {
		summaryReader = reportCache
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:   adapterHTTP.NewAuthHandler(authService),
		AdminHandler:  adapterHTTP.NewAdminHandler(authService),
		RecordHandler: adapterHTTP.NewRecordHandler(recordService, summaryReader),
		ReportHandler: adapterHTTP.NewReportHandler(reportService),
		TokenService:  tokenService,
		DB:            db,
		Redis:         rdb,
		StartTime:     startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("takeoff log api running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("stop signal received, shutting down")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped gracefully")
}

// seedAdmin creates the bootstrap admin account on first start. A taken
// username means a previous run already seeded it.
func seedAdmin(auth *services.AuthService, cfg config.AuthConfig) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := auth.CreateUser(ctx, services.CreateUserInput{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		IsAdmin:  true,
	})
	switch {
	case err == nil:
		log.Info().Str("username", cfg.AdminUsername).Msg("admin account created")
	case errors.Is(err, domain.ErrUsernameTaken):
		// already seeded
	default:
		log.Error().Err(err).Msg("admin seed failed")
	}
}
