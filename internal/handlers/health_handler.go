package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/database"
	"github.com/vidtube/backend/internal/dto"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, dbStatus := fiber.StatusOK, "ok"
	if err := database.Ping(h.db); err != nil {
		status, dbStatus = fiber.StatusServiceUnavailable, "unhealthy"
	}

	return respond(c, status, dto.HealthResponse{
		Status:    dbStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	}, "Health check")
}
