package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/services"
)

type AuthHandler struct {
	authService  *services.AuthService
	tokens       *services.TokenService
	cookieSecure bool
}

func NewAuthHandler(authService *services.AuthService, tokens *services.TokenService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, cookieSecure: cookieSecure}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	avatar, err := formFile(c, "avatar")
	if err != nil {
		return err
	}
	cover, err := formFile(c, "coverImage")
	if err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Password:   req.Password,
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, user, "User registered successfully")
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.UserContext(), services.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.setTokenCookies(c, res.TokenPair)
	return respond(c, fiber.StatusOK, dto.AuthResponse{
		User:         res.User,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, "User logged in successfully")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.UserID(c)); err != nil {
		return err
	}
	h.clearTokenCookies(c)
	return respond(c, fiber.StatusOK, fiber.Map{}, "User logged out")
}

// Refresh reads the refresh token from its cookie, falling back to the body
// for clients that do not keep cookies.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	incoming := c.Cookies(middleware.RefreshTokenCookie)
	if incoming == "" {
		var req dto.RefreshRequest
		_ = c.BodyParser(&req)
		incoming = req.RefreshToken
	}

	pair, err := h.authService.Refresh(c.UserContext(), middleware.User(c), incoming)
	if err != nil {
		return err
	}

	h.setTokenCookies(c, *pair)
	return respond(c, fiber.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.authService.DeleteAccount(c.UserContext(), middleware.UserID(c)); err != nil {
		return err
	}
	h.clearTokenCookies(c)
	return respond(c, fiber.StatusOK, fiber.Map{}, "Account deleted successfully")
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, pair services.TokenPair) {
	now := time.Now()
	c.Cookie(h.cookie(middleware.AccessTokenCookie, pair.AccessToken, now.Add(h.tokens.AccessTTL())))
	c.Cookie(h.cookie(middleware.RefreshTokenCookie, pair.RefreshToken, now.Add(h.tokens.RefreshTTL())))
}

func (h *AuthHandler) clearTokenCookies(c *fiber.Ctx) {
	c.Cookie(h.cookie(middleware.AccessTokenCookie, "", time.Unix(0, 0)))
	c.Cookie(h.cookie(middleware.RefreshTokenCookie, "", time.Unix(0, 0)))
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
