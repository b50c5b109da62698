package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/services"
)

type TweetHandler struct {
	tweets *services.TweetService
}

func NewTweetHandler(tweets *services.TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

func (h *TweetHandler) Create(c *fiber.Ctx) error {
	var req dto.ContentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Create(c.UserContext(), middleware.UserID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, tweet, "Tweet created successfully")
}

func (h *TweetHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	tweets, err := h.tweets.ListByUser(c.UserContext(), userID, middleware.UserID(c), pageParams(c), sortParams(c, query.TweetSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, tweets, "Tweets fetched successfully")
}

func (h *TweetHandler) Update(c *fiber.Ctx) error {
	tweetID, err := paramID(c, "tweetId")
	if err != nil {
		return err
	}
	var req dto.ContentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Update(c.UserContext(), tweetID, middleware.UserID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, tweet, "Tweet updated successfully")
}

func (h *TweetHandler) Delete(c *fiber.Ctx) error {
	tweetID, err := paramID(c, "tweetId")
	if err != nil {
		return err
	}
	if err := h.tweets.Delete(c.UserContext(), tweetID, middleware.UserID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Tweet deleted successfully")
}
