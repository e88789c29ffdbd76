package server

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/holiday"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, holiday.ErrValidation), errors.Is(err, holiday.ErrInvalidFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, holiday.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, holiday.ErrSourceUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders every error returned by a handler as {success, message}
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  fields,
		})
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err))
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
