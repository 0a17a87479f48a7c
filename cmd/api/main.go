package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/talentloop/scheduling-api/internal/config"
	"github.com/talentloop/scheduling-api/internal/email"
	"github.com/talentloop/scheduling-api/internal/handler"
	availabilityHandler "github.com/talentloop/scheduling-api/internal/handler/availability"
	interviewHandler "github.com/talentloop/scheduling-api/internal/handler/interview"
	participantHandler "github.com/talentloop/scheduling-api/internal/handler/participant"
	"github.com/talentloop/scheduling-api/internal/middleware"
	"github.com/talentloop/scheduling-api/internal/repository/postgres"
	"github.com/talentloop/scheduling-api/internal/router"
	"github.com/talentloop/scheduling-api/internal/scheduling"
	availabilityService "github.com/talentloop/scheduling-api/internal/service/availability"
	eventService "github.com/talentloop/scheduling-api/internal/service/event"
	interviewService "github.com/talentloop/scheduling-api/internal/service/interview"
	notificationService "github.com/talentloop/scheduling-api/internal/service/notification"
	"github.com/talentloop/scheduling-api/pkg/logger"
	"github.com/talentloop/scheduling-api/pkg/messaging/redis"
	"github.com/talentloop/scheduling-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Logging)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.ZL)
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("scheduling", "api")

	interviewRepo := postgres.NewInterviewRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	window := scheduling.BusinessWindow{
		StartHour: cfg.Scheduling.BusinessStartHour,
		EndHour:   cfg.Scheduling.BusinessEndHour,
	}

	emailSvc := email.NewSMTPService(cfg.SMTP)
	availSvc := availabilityService.NewService(participantRepo, window, nil, cfg.Scheduling.AvailabilityTTL, m)
	notifSvc := notificationService.NewService(reminderRepo, emailSvc, broker, m, log)
	eventSvc := eventService.NewService(outboxRepo)
	interviewSvc := interviewService.NewService(interviewRepo, availSvc, notifSvc, eventSvc, m, log)

	r := router.NewRouter(
		handler.NewHandler(),
		interviewHandler.NewHandler(interviewSvc),
		availabilityHandler.NewHandler(availSvc),
		participantHandler.NewHandler(participantRepo),
		log,
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			RequestTimeout:   cfg.Server.RequestTimeout,
			CORSConfig:       corsConfig(cfg.Security),
			MetricsPrefix:    "scheduling_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}

func newLogger(cfg config.LoggingConfig) *logger.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	return logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Pretty,
	})
}

func corsConfig(cfg config.SecurityConfig) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	if len(cfg.AllowedMethods) > 0 {
		corsCfg.AllowMethods = cfg.AllowedMethods
	}
	if len(cfg.AllowedHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.AllowedHeaders
	}
	return corsCfg
}
