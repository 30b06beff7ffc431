package main

import (
	"context"
	"log"

	"careops/cmd"
	"careops/internal/data/repository"
	"careops/internal/job"
	"careops/internal/wire"
	"careops/pkg/cache"
	"careops/pkg/database"
	"careops/pkg/middleware"
	"careops/pkg/notify"
	"careops/pkg/utils"

	_ "time/tzdata"

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
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("default_timezone", config.App.DefaultTimezone),
	)

	// Connect to database
	db, err := database.InitDB(context.Background(), config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrations {
		if err := database.RunMigrations(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Session cache is optional
	var sessionCache middleware.SessionCache
	if config.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(config.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, sessions will not be cached", zap.Error(err))
		} else {
			defer rdb.Close()
			sessionCache = cache.NewSessionCache(rdb, config.Redis.SessionTTL, logger)
		}
	}

	repos := repository.NewRepository(db, logger)
	notifier := notify.New(config, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, notifier, sessionCache, logger)

	scheduler, err := job.NewScheduler(config.Reminder.Schedule, app.Service.Reminder, logger)
	if err != nil {
		logger.Fatal("Failed to schedule reminder job", zap.Error(err))
	}
	scheduler.Start()

	stopLimiter := make(chan struct{})
	go app.Limiter.Run(stopLimiter)

	cmd.APIServer(app.Router, config.App.Port, logger, func(ctx context.Context) {
		close(stopLimiter)
		scheduler.Stop(ctx)
	})
}
