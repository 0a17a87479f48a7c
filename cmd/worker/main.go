package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentloop/scheduling-api/internal/config"
	"github.com/talentloop/scheduling-api/internal/email"
	"github.com/talentloop/scheduling-api/internal/repository/postgres"
	notificationService "github.com/talentloop/scheduling-api/internal/service/notification"
	"github.com/talentloop/scheduling-api/pkg/logger"
	"github.com/talentloop/scheduling-api/pkg/messaging/redis"
	"github.com/talentloop/scheduling-api/pkg/metrics"
	"github.com/talentloop/scheduling-api/pkg/worker"
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

	m := metrics.NewMetrics("scheduling", "worker")

	interviewRepo := postgres.NewInterviewRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	emailSvc := email.NewSMTPService(cfg.SMTP)
	notifSvc := notificationService.NewService(reminderRepo, emailSvc, broker, m, log)

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Worker.OutboxBatchSize,
		PollInterval:  cfg.Worker.OutboxPollInterval,
		RetryAttempts: cfg.Worker.OutboxRetryAttempts,
		RetryDelay:    cfg.Worker.OutboxRetryDelay,
	}, log, m)

	reminderDispatcher := worker.NewReminderDispatcher(
		reminderRepo,
		interviewRepo,
		participantRepo,
		notifSvc,
		worker.ReminderDispatcherConfig{
			PollInterval: cfg.Worker.ReminderPollInterval,
			BatchSize:    cfg.Worker.ReminderBatchSize,
		},
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		outboxProcessor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		reminderDispatcher.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down workers")

	cancel()
	wg.Wait()
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
