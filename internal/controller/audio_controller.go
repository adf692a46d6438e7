package controller

import (
	"io"

	"audio-insight-be/internal/pkg/apperror"
	"audio-insight-be/internal/pkg/serverutils"
	"audio-insight-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAudioController interface {
	RegisterRoutes(r fiber.Router)
	Process(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type audioController struct {
	audioService service.IAudioService
}

func NewAudioController(audioService service.IAudioService) IAudioController {
	return &audioController{
		audioService: audioService,
	}
}

func (c *audioController) RegisterRoutes(r fiber.Router) {
	r.Post("/process-audio", c.Process)
	r.Delete("/session/:id", c.DeleteSession)
}

func (c *audioController) Process(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperror.Validation("multipart field 'file' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperror.Validation("could not open uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperror.Validation("could not read uploaded file")
	}

	contentType := fileHeader.Header.Get("Content-Type")

	res, err := c.audioService.Process(ctx.Context(), content, fileHeader.Filename, contentType)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process audio", res))
}

func (c *audioController) DeleteSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("id")

	res, err := c.audioService.DeleteSession(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", res))
}
