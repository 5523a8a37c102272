// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"otp-registration/cmd"
	"otp-registration/internal/data/repository"
	"otp-registration/internal/usecase"
	"otp-registration/internal/wire"
	"otp-registration/internal/worker"
	"otp-registration/pkg/cache"
	"otp-registration/pkg/database"
	"otp-registration/pkg/messaging"
	"otp-registration/pkg/metrics"
	"otp-registration/pkg/token"
	"otp-registration/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("port", config.App.Port),
		zap.String("otp_store", config.OTP.Store),
		zap.String("dispatch_mode", config.OTP.DispatchMode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Migrations
	if config.Database.AutoMigrate {
		if err := database.RunMigrations(database.ConnString("pgx5", config.Database)); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis only backs the challenge store when selected
	var rdb *redis.Client
	if config.OTP.Store == utils.StoreRedis {
		rdb, err = cache.InitRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		logger.Info("Redis connected successfully")
	}

	repos := repository.NewRepository(db, rdb, logger)

	// Transports
	var (
		email usecase.EmailTransport
		sms   usecase.SMSTransport
	)
	if config.OTP.DispatchMode == utils.DispatchModeLive {
		email = messaging.NewSMTPSender(config.Email, config.OTP.Expiry())
		sms = messaging.NewFast2SMSClient(config.SMS)
	} else {
		echo := messaging.NewEcho(logger)
		email, sms = echo, echo
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cooldown := usecase.NewCooldownTracker(config.OTP.Cooldown())
	deps := usecase.Collaborators{
		Cooldown: cooldown,
		Email:    email,
		SMS:      sms,
		Tokens:   token.NewManager(config.JWT.Secret, config.JWT.Issuer, config.JWT.Expiry()),
		Metrics:  metrics.NewCollector(registry),
	}

	// Wire all dependencies
	app := wire.Wiring(repos, deps, registry, config, logger)

	// Background jobs
	go cooldown.Run(ctx, time.Minute)
	go app.Limiter.Run(ctx, 5*time.Minute)
	cleanup := worker.NewCleanupJob(repos.Challenge, time.Duration(config.OTP.CleanupIntervalMinutes)*time.Minute, logger)
	go cleanup.Start(ctx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
