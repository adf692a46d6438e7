package bootstrap

import (
	"log"
	"time"

	"audio-insight-be/internal/config"
	"audio-insight-be/internal/controller"
	"audio-insight-be/internal/pkg/logger"
	"audio-insight-be/internal/repository/memory"
	"audio-insight-be/internal/service"
	"audio-insight-be/pkg/alm"
	"audio-insight-be/pkg/alm/runner"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	HealthController controller.IHealthController
	AudioController  controller.IAudioController
	ChatController   controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. External Model Provider
	var provider alm.Provider
	if cfg.Alm.Endpoint != "" {
		provider = runner.NewProvider(cfg.Alm.Endpoint, time.Duration(cfg.Alm.TimeoutSeconds)*time.Second)
		log.Printf("[INFO] Using ALM runner at %s", cfg.Alm.Endpoint)
	} else {
		log.Printf("[WARN] ALM_ENDPOINT not set; processing and chat endpoints will answer 503")
	}

	// 4. In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Events.SessionTopic, pubSub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Events.SessionTopic, sysLogger)

	audioService := service.NewAudioService(provider, sessionRepo, publisherService, sysLogger)
	chatService := service.NewChatService(provider, sessionRepo, sysLogger)

	// 6. Controllers
	return &Container{
		HealthController: controller.NewHealthController(provider, sessionRepo, consumerService),
		AudioController:  controller.NewAudioController(audioService),
		ChatController:   controller.NewChatController(chatService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
