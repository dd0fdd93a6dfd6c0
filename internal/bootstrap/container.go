package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-frontdesk-be/internal/config"
	"ai-frontdesk-be/internal/controller"
	"ai-frontdesk-be/internal/handler"
	"ai-frontdesk-be/internal/pkg/logger"
	"ai-frontdesk-be/internal/pkg/mailer"
	"ai-frontdesk-be/internal/repository/implementation"
	"ai-frontdesk-be/internal/repository/unitofwork"
	"ai-frontdesk-be/internal/service"
	"ai-frontdesk-be/internal/websocket"
	"ai-frontdesk-be/pkg/embedding"

	pktNats "ai-frontdesk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	FaqController        controller.IFaqController
	SupervisorController controller.ISupervisorController
	AuthController       controller.IAuthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding Provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// NATS. The service degrades gracefully without it: escalations still
	// reach the ledger, only cross-service events and alerts are lost.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	reindexPublisher := service.NewPublisherService(cfg.Faq.ReindexTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Faq.ReindexTopic,
		uowFactory,
		embeddingProvider,
	)

	faqService := service.NewFaqService(
		uowFactory,
		embeddingProvider,
		natsPub,
		sysLogger,
		cfg.Faq.ConfidenceThreshold,
		cfg.Faq.FallbackReply,
		time.Duration(cfg.Faq.AnswerCacheTTLMin)*time.Minute,
	)

	supervisorService := service.NewSupervisorService(
		uowFactory,
		embeddingProvider,
		reindexPublisher,
		natsPub,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, sysLogger)

	// Notification Domain
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(
		notifRepo,
		natsSub,
		wsHub, // Hub implements NotificationDelivery
		emailService,
		cfg.Faq.SupervisorEmail,
		wsLogger,
	)

	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler:  notifHandler,
		WebSocketHub:         wsHub,
		FaqController:        controller.NewFaqController(faqService),
		SupervisorController: controller.NewSupervisorController(supervisorService),
		AuthController:       controller.NewAuthController(authService),

		ConsumerService: consumerService,
	}
}
