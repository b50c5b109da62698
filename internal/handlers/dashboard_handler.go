package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats reports totals for the requester's own channel.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, stats, "Channel stats fetched successfully")
}

func (h *DashboardHandler) Videos(c *fiber.Ctx) error {
	channelID, err := paramID(c, "channelId")
	if err != nil {
		return err
	}
	videos, err := h.dashboard.Videos(c.UserContext(), channelID, middleware.UserID(c), pageParams(c), sortParams(c, query.VideoSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, videos, "Channel videos fetched successfully")
}
