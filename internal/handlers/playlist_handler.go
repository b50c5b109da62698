package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/services"
)

type PlaylistHandler struct {
	playlists *services.PlaylistService
}

func NewPlaylistHandler(playlists *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

func (h *PlaylistHandler) Create(c *fiber.Ctx) error {
	var req dto.PlaylistRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	playlist, err := h.playlists.Create(c.UserContext(), middleware.UserID(c), services.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, playlist, "Playlist created successfully")
}

func (h *PlaylistHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	playlists, err := h.playlists.ListByUser(c.UserContext(), userID, pageParams(c), sortParams(c, query.PlaylistSortFields))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, playlists, "Playlists fetched successfully")
}

func (h *PlaylistHandler) Get(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}
	playlist, err := h.playlists.Get(c.UserContext(), playlistID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, playlist, "Playlist fetched successfully")
}

func (h *PlaylistHandler) Update(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}
	var req dto.PlaylistRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	playlist, err := h.playlists.Update(c.UserContext(), playlistID, middleware.UserID(c), services.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, playlist, "Playlist updated successfully")
}

func (h *PlaylistHandler) Delete(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}
	if err := h.playlists.Delete(c.UserContext(), playlistID, middleware.UserID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideo(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	if err := h.playlists.AddVideo(c.UserContext(), playlistID, videoID, middleware.UserID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Video added to playlist")
}

func (h *PlaylistHandler) RemoveVideo(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	if err := h.playlists.RemoveVideo(c.UserContext(), playlistID, videoID, middleware.UserID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Video removed from playlist")
}
