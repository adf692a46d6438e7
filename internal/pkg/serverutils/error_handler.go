package serverutils

import (
	"errors"

	"audio-insight-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by handlers into the
// envelope with the status mapped from the error kind.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := statusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

func statusFor(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindUnavailable:
		return fiber.StatusServiceUnavailable
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindUpstream:
		return fiber.StatusInternalServerError
	}
	return fiber.StatusInternalServerError
}
