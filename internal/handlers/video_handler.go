package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/services"
)

type VideoHandler struct {
	videos *services.VideoService
}

func NewVideoHandler(videos *services.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// Search lists videos matching ?query= in title or description, optionally
// restricted to ?userId=.
func (h *VideoHandler) Search(c *fiber.Ctx) error {
	filter := query.VideoFilter{Query: c.Query("query"), ViewerID: middleware.UserID(c)}
	if raw := c.Query("userId"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid userId")
		}
		filter.OwnerID = ownerID
	}

	videos, err := h.videos.Search(c.UserContext(), filter, pageParams(c), sortParams(c, query.VideoSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, videos, "Videos fetched successfully")
}

func (h *VideoHandler) Publish(c *fiber.Ctx) error {
	var req dto.PublishVideoRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	file, err := formFile(c, "videoFile")
	if err != nil {
		return err
	}
	thumb, err := formFile(c, "thumbnail")
	if err != nil {
		return err
	}

	video, err := h.videos.Publish(c.UserContext(), middleware.UserID(c), services.PublishVideoInput{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		VideoFile:   file,
		Thumbnail:   thumb,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, video, "Video published successfully")
}

func (h *VideoHandler) Get(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	video, err := h.videos.Get(c.UserContext(), videoID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, video, "Video fetched successfully")
}

func (h *VideoHandler) Update(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	var req dto.UpdateVideoRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	thumb, err := formFile(c, "thumbnail")
	if err != nil {
		return err
	}

	video, err := h.videos.Update(c.UserContext(), videoID, middleware.UserID(c), services.UpdateVideoInput{
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   thumb,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, video, "Video updated successfully")
}

func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	if err := h.videos.Delete(c.UserContext(), videoID, middleware.UserID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Video deleted successfully")
}

func (h *VideoHandler) TogglePublish(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	video, err := h.videos.TogglePublish(c.UserContext(), videoID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, video, "Publish status toggled successfully")
}
