package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/adapters/handler"
	"github.com/bloodconnect/bloodconnect-service/internal/adapters/messaging"
	"github.com/bloodconnect/bloodconnect-service/internal/adapters/metrics"
	"github.com/bloodconnect/bloodconnect-service/internal/adapters/middleware"
	"github.com/bloodconnect/bloodconnect-service/internal/adapters/mirror"
	"github.com/bloodconnect/bloodconnect-service/internal/adapters/repository"
	"github.com/bloodconnect/bloodconnect-service/internal/adapters/session"
	"github.com/bloodconnect/bloodconnect-service/internal/config"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
	"github.com/bloodconnect/bloodconnect-service/internal/core/services"
	"github.com/bloodconnect/bloodconnect-service/internal/platform/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(db, log.Named("migrate")); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	store := repository.NewSQLRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	log.Info("connected to redis", zap.String("address", cfg.RedisAddress))

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	target, closeTarget := newSyncTarget(cfg.Mirror, log)
	defer closeTarget.Close()

	mirrorNames := services.MirrorTargets{
		BloodBanks:  cfg.Mirror.BloodBanks,
		Donors:      cfg.Mirror.Donors,
		SOSRequests: cfg.Mirror.SOSRequests,
		BloodStock:  cfg.Mirror.BloodStock,
	}
	syncer := services.NewMirror(target, mirrorNames, cfg.Mirror.Timeout, log, appMetrics)
	stockInit := services.NewStockInitializer(store, log)

	authService := services.NewAuthService(store, store, session.NewRedisStore(redisClient), cfg.JWTPrivateKey, cfg.TokenTTL, log)
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatal("failed to bootstrap admin account", zap.Error(err))
		}
	}

	registrationService := services.NewRegistrationService(store, store, store, store, stockInit, syncer, appMetrics, log)
	stockService := services.NewStockService(store, store, stockInit, syncer, appMetrics, log)
	directoryService := services.NewDirectoryService(store, store, store, store)
	adminService := services.NewAdminService(store, syncer, log)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:         handler.NewAuthHandler(authService, log),
		Registration: handler.NewRegistrationHandler(registrationService, log),
		Directory:    handler.NewDirectoryHandler(directoryService, log),
		Stock:        handler.NewStockHandler(stockService, log),
		Admin:        handler.NewAdminHandler(adminService, log),
		Health: handler.NewHealthHandler(os.Getenv("APP_VERSION"), map[string]handler.HealthCheck{
			"database": handler.DatabaseCheck(db),
			"redis":    handler.RedisCheck(redisClient),
		}),
		AuthMiddleware: middleware.NewAuthMiddleware(cfg.JWTPublicKey, session.NewRedisStore(redisClient), log),
		Observer:       appMetrics,
		MetricsHandler: promhttp.Handler(),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log.Named("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.Port), zap.String("mirror", cfg.Mirror.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newSyncTarget builds the configured mirror backend. Any target that cannot
// be brought up degrades to mirror.Disabled so registrations keep working.
func newSyncTarget(cfg config.MirrorConfig, log *zap.Logger) (ports.SyncTarget, io.Closer) {
	switch cfg.Backend {
	case "", "sheets":
		return mirror.NewSheetsTarget(mirror.SheetsConfig{
			SpreadsheetID:   cfg.SpreadsheetID,
			CredentialsPath: cfg.CredentialsPath,
			APIURL:          cfg.SheetsAPIURL,
			Timeout:         cfg.Timeout,
		}, log), nopCloser{}
	case "workbook":
		wb, err := mirror.NewWorkbookTarget(cfg.WorkbookPath)
		if err != nil {
			log.Error("workbook mirror unavailable", zap.Error(err))
			return mirror.Disabled{}, nopCloser{}
		}
		return wb, wb
	case "rabbitmq":
		broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.QueueName, log)
		if err != nil {
			log.Error("rabbitmq mirror unavailable", zap.Error(err))
			return mirror.Disabled{}, nopCloser{}
		}
		return broker, broker
	case "none":
		return mirror.Disabled{}, nopCloser{}
	default:
		log.Warn("unknown mirror backend, mirroring disabled", zap.String("backend", cfg.Backend))
		return mirror.Disabled{}, nopCloser{}
	}
}
