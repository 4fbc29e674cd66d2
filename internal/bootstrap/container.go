package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docbuilder-be/internal/config"
	"docbuilder-be/internal/controller"
	"docbuilder-be/internal/pkg/logger"
	"docbuilder-be/internal/presence"
	"docbuilder-be/internal/repository/memory"
	"docbuilder-be/internal/repository/unitofwork"
	"docbuilder-be/internal/service"
	"docbuilder-be/pkg/events"
	pktNats "docbuilder-be/pkg/nats"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	VersionController  controller.IVersionController
	BuilderController  controller.IBuilderController
	PresenceController controller.IPresenceController

	// Exposed for main.go to run and shut down
	DocumentService service.IDocumentService
	EventBus        *events.Bus
	NatsPublisher   *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus + NATS bridge
	eventBus := events.NewBus()

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		go func() {
			if err := pktNats.Bridge(context.Background(), eventBus, natsPub); err != nil {
				log.Printf("[WARN] NATS bridge stopped: %v", err)
			}
		}()
	}

	// 3. Redis (presence only; absence degrades, never blocks startup)
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
	presenceTracker := presence.NewTracker(rdb, sysLogger)

	// 4. In-memory builder sessions
	sessionRepo := memory.NewBuilderSessionRepository(
		time.Duration(cfg.Builder.SessionTTLMinutes) * time.Minute,
	)

	// 5. Services
	documentService := service.NewDocumentService(uowFactory, eventBus, sysLogger)
	versionService := service.NewVersionService(uowFactory, eventBus, sysLogger)
	builderService := service.NewBuilderService(uowFactory, sessionRepo, versionService, sysLogger)

	// 6. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		VersionController:  controller.NewVersionController(versionService),
		BuilderController:  controller.NewBuilderController(builderService),
		PresenceController: controller.NewPresenceController(presenceTracker),

		DocumentService: documentService,
		EventBus:        eventBus,
		NatsPublisher:   natsPub,
	}
}
