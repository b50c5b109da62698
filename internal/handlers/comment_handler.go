package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	comments, err := h.comments.List(c.UserContext(), videoID, middleware.UserID(c), pageParams(c), sortParams(c, query.CommentSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, comments, "Comments fetched successfully")
}

func (h *CommentHandler) Add(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	var req dto.ContentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Add(c.UserContext(), videoID, middleware.UserID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, comment, "Comment added successfully")
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}
	var req dto.ContentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(c.UserContext(), commentID, middleware.UserID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, comment, "Comment updated successfully")
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.UserContext(), commentID, middleware.UserID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Comment deleted successfully")
}
