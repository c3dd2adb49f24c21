package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/course-progress-api/internal/config"
	"github.com/noah-isme/course-progress-api/internal/database"
	"github.com/noah-isme/course-progress-api/internal/handler"
	"github.com/noah-isme/course-progress-api/internal/middleware"
	"github.com/noah-isme/course-progress-api/internal/models"
	"github.com/noah-isme/course-progress-api/internal/repository"
	"github.com/noah-isme/course-progress-api/internal/router"
	"github.com/noah-isme/course-progress-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Course{},
		&models.CourseModule{},
		&models.Student{},
		&models.Enrollment{},
		&models.AssignSubmission{},
		&models.QuizAttempt{},
		&models.CompletionRecord{},
		&models.ReminderLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, progress reports will be served uncached")
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	snapshotRepo := repository.NewProgressSnapshotRepository(db)
	reminderLogRepo := repository.NewReminderLogRepository(db)
	seedRepo := repository.NewSeedRepository(db)

	progressService := service.NewCourseProgressService(courseRepo, enrollmentRepo, snapshotRepo, redisClient, cfg.ProgressCacheTTL, logger)
	reminderService := service.NewReminderService(courseRepo, enrollmentRepo, snapshotRepo, reminderLogRepo, redisClient, cfg.ReminderChannelBase, natsConn, validate, service.ReminderConfig{
		Window:      cfg.ReminderWindow,
		Interval:    cfg.ReminderInterval,
		Suppression: cfg.ReminderSuppression,
	}, logger)

	// Seeding is never enabled in production.
	seedEnabled := cfg.SeedEnabled && cfg.AppEnv != "production"
	seedService := service.NewSeedService(seedRepo, seedEnabled, cfg.SeedToken, logger)

	progressHandler := handler.NewCourseProgressHandler(progressService, logger)
	reminderHandler := handler.NewReminderHandler(reminderService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseProgressHandler: progressHandler,
		ReminderHandler:       reminderHandler,
		SeedHandler:           seedHandler,
		JWTMiddleware:         middleware.JWTProtected(cfg.JWTSecret),
	})

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	reminderService.Start(schedulerCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopScheduler)
}

func waitForShutdown(app *fiber.App, stopScheduler context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
