package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) CurrentUser(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, middleware.User(c), "Current user fetched successfully")
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	err := h.users.ChangePassword(c.UserContext(), middleware.UserID(c), services.ChangePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Password changed successfully")
}

func (h *UserHandler) UpdateAccount(c *fiber.Ctx) error {
	var req dto.UpdateAccountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateAccount(c.UserContext(), middleware.UserID(c), services.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user, "Account details updated successfully")
}

func (h *UserHandler) ChangeAvatar(c *fiber.Ctx) error {
	upload, err := formFile(c, "avatar")
	if err != nil {
		return err
	}
	user, err := h.users.UpdateAvatar(c.UserContext(), middleware.UserID(c), upload)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user, "Avatar updated successfully")
}

func (h *UserHandler) ChangeCoverImage(c *fiber.Ctx) error {
	upload, err := formFile(c, "coverImage")
	if err != nil {
		return err
	}
	user, err := h.users.UpdateCoverImage(c.UserContext(), middleware.UserID(c), upload)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user, "Cover image updated successfully")
}

func (h *UserHandler) ChannelProfile(c *fiber.Ctx) error {
	profile, err := h.users.ChannelProfile(c.UserContext(), c.Params("username"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, profile, "Channel fetched successfully")
}

func (h *UserHandler) WatchHistory(c *fiber.Ctx) error {
	history, err := h.users.WatchHistory(c.UserContext(), middleware.UserID(c), pageParams(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, history, "Watch history fetched successfully")
}

func (h *UserHandler) AddToWatchHistory(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	if err := h.users.AddToWatchHistory(c.UserContext(), middleware.UserID(c), videoID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Video added to watch history")
}

func (h *UserHandler) RemoveFromWatchHistory(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	if err := h.users.RemoveFromWatchHistory(c.UserContext(), middleware.UserID(c), videoID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Video removed from watch history")
}

func (h *UserHandler) ClearWatchHistory(c *fiber.Ctx) error {
	if err := h.users.ClearWatchHistory(c.UserContext(), middleware.UserID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Watch history cleared")
}
