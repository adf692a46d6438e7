package controller

import (
	"audio-insight-be/internal/dto"
	"audio-insight-be/internal/repository/memory"
	"audio-insight-be/internal/service"
	"audio-insight-be/pkg/alm"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Root(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

// healthController answers liveness probes with bare JSON (no envelope) so
// external checkers get a stable shape.
type healthController struct {
	provider    alm.Provider
	sessionRepo *memory.SessionRepository
	consumer    service.IConsumerService
}

func NewHealthController(
	provider alm.Provider,
	sessionRepo *memory.SessionRepository,
	consumer service.IConsumerService,
) IHealthController {
	return &healthController{
		provider:    provider,
		sessionRepo: sessionRepo,
		consumer:    consumer,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Root)
	r.Get("/health", c.Health)
}

func (c *healthController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.RootHealthResponse{
		Status:      "ok",
		Message:     "Audio Insight API is running",
		ModelLoaded: c.provider != nil,
	})
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	chatAvailable := false
	if c.provider != nil {
		chatAvailable = c.provider.ChatAvailable(ctx.Context())
	}

	return ctx.JSON(dto.HealthResponse{
		Status:            "healthy",
		ModelLoaded:       c.provider != nil,
		ChatAvailable:     chatAvailable,
		SessionsProcessed: c.consumer.Stats().Processed,
		SessionsActive:    c.sessionRepo.Count(),
	})
}
