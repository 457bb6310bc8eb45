package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"communityhub/config"
	"communityhub/internal/api"
	"communityhub/internal/realtime"
	"communityhub/internal/repository"
	"communityhub/internal/service/crm"
	"communityhub/internal/service/engagement"
	"communityhub/internal/service/notify"
	"communityhub/internal/service/onboarding"
	"communityhub/pkg/db"
	"communityhub/pkg/logger"
	"communityhub/pkg/mq"
	"communityhub/pkg/outbox"
	pkgredis "communityhub/pkg/redis"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg := config.Load()

	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to message broker", zap.Error(err))
	}
	defer publisher.Close()

	rdb := pkgredis.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outboxRepo := outbox.NewRepository(pool)
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log)
	go dispatcher.Start(ctx)

	queueRepo := repository.NewQueueRepository(pool, log)
	profileRepo := repository.NewProfileRepository(pool)
	contentRepo := repository.NewContentRepository(pool)
	engagementRepo := repository.NewEngagementRepository(pool)
	onboardingRepo := repository.NewOnboardingRepository(pool)

	notifier := realtime.NewNotifier(rdb, log)
	producer := notify.NewProducer(queueRepo, profileRepo, contentRepo, log)
	fnClient := crm.NewFunctionClient(cfg.Functions.BaseURL)
	crmService := crm.NewService(queueRepo, fnClient, notifier, publisher, log)
	engagementService := engagement.NewService(engagementRepo, rdb, time.Minute, log)
	onboardingService := onboarding.NewService(onboardingRepo, log)
	replayService := outbox.NewReplayService(outboxRepo, publisher)

	router := api.NewRouter(api.Handlers{
		Content:     api.NewContentHandler(contentRepo, profileRepo, producer, notifier, log),
		CRM:         api.NewCRMHandler(crmService, log),
		Leaderboard: api.NewLeaderboardHandler(engagementService, log),
		Onboarding:  api.NewOnboardingHandler(onboardingService, log),
		Outbox:      api.NewOutboxHandler(replayService, log),
	}, cfg.JWT.Secret)

	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Server exited", zap.Error(err))
	}
}
