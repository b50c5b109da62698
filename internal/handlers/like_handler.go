package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/services"
)

type LikeHandler struct {
	likes *services.LikeService
}

func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

func (h *LikeHandler) ToggleVideo(c *fiber.Ctx) error {
	return h.toggle(c, "videoId", h.likes.ToggleVideoLike)
}

func (h *LikeHandler) ToggleComment(c *fiber.Ctx) error {
	return h.toggle(c, "commentId", h.likes.ToggleCommentLike)
}

func (h *LikeHandler) ToggleTweet(c *fiber.Ctx) error {
	return h.toggle(c, "tweetId", h.likes.ToggleTweetLike)
}

func (h *LikeHandler) toggle(c *fiber.Ctx, param string, fn func(ctx context.Context, userID, targetID uuid.UUID) (bool, error)) error {
	targetID, err := paramID(c, param)
	if err != nil {
		return err
	}
	liked, err := fn(c.UserContext(), middleware.UserID(c), targetID)
	if err != nil {
		return err
	}

	message := "Like removed"
	if liked {
		message = "Like added"
	}
	return respond(c, fiber.StatusOK, dto.LikedResponse{IsLiked: liked}, message)
}

func (h *LikeHandler) LikedVideos(c *fiber.Ctx) error {
	videos, err := h.likes.LikedVideos(c.UserContext(), middleware.UserID(c), pageParams(c), sortParams(c, query.LikeSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, videos, "Liked videos fetched successfully")
}

func (h *LikeHandler) LikedComments(c *fiber.Ctx) error {
	comments, err := h.likes.LikedComments(c.UserContext(), middleware.UserID(c), pageParams(c), sortParams(c, query.LikeSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, comments, "Liked comments fetched successfully")
}

func (h *LikeHandler) LikedTweets(c *fiber.Ctx) error {
	tweets, err := h.likes.LikedTweets(c.UserContext(), middleware.UserID(c), pageParams(c), sortParams(c, query.LikeSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, tweets, "Liked tweets fetched successfully")
}
