package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/services"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Toggle(c *fiber.Ctx) error {
	channelID, err := paramID(c, "channelId")
	if err != nil {
		return err
	}
	subscribed, err := h.subscriptions.Toggle(c.UserContext(), middleware.UserID(c), channelID)
	if err != nil {
		return err
	}

	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}
	return respond(c, fiber.StatusOK, dto.SubscribedResponse{Subscribed: subscribed}, message)
}

func (h *SubscriptionHandler) Subscribers(c *fiber.Ctx) error {
	channelID, err := paramID(c, "channelId")
	if err != nil {
		return err
	}
	subscribers, err := h.subscriptions.Subscribers(c.UserContext(), channelID, middleware.UserID(c), pageParams(c), sortParams(c, query.SubscriptionSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, subscribers, "Subscribers fetched successfully")
}

func (h *SubscriptionHandler) SubscribedChannels(c *fiber.Ctx) error {
	subscriberID, err := paramID(c, "subscriberId")
	if err != nil {
		return err
	}
	channels, err := h.subscriptions.SubscribedChannels(c.UserContext(), subscriberID, middleware.UserID(c), pageParams(c), sortParams(c, query.SubscriptionSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, channels, "Subscribed channels fetched successfully")
}
