package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/services"
	"gorm.io/gorm"
)

// ErrorHandler renders every error returned by a handler as the JSON
// envelope. Only client errors expose their message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var serviceErr *services.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &serviceErr):
		status = statusFor(serviceErr.Kind)
		message = serviceErr.Message
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, gorm.ErrDuplicatedKey):
		status = fiber.StatusConflict
		message = "resource already exists"
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error(),
		)
		message = "internal server error"
	}

	return c.Status(status).JSON(dto.Error(status, message))
}

func statusFor(kind error) int {
	switch kind {
	case services.ErrValidation:
		return fiber.StatusBadRequest
	case services.ErrNotFound:
		return fiber.StatusNotFound
	case services.ErrPermission:
		return fiber.StatusForbidden
	case services.ErrConflict:
		return fiber.StatusConflict
	case services.ErrUnauthorized:
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
