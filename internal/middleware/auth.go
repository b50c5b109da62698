package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/services"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	currentUserKey = "currentUser"
)

// JWTProtected verifies the access token from the accessToken cookie or,
// failing that, the Authorization bearer header.
func JWTProtected(tokens *services.TokenService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: tokens.AccessSecret()},
		TokenLookup: "cookie:" + AccessTokenCookie + ",header:Authorization",
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, "unauthorized request")
		},
	})
}

// CurrentUser loads the identity named by the verified token, without
// credential fields, and stores it for handlers. Runs after JWTProtected.
func CurrentUser(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := tokenSubject(c)
		if err != nil {
			return unauthorized(c, "invalid access token")
		}

		user, err := users.Identity(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return unauthorized(c, "invalid access token")
			}
			return err
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// User returns the identity attached by CurrentUser.
func User(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

// UserID returns the current user's id, or uuid.Nil outside the gate.
func UserID(c *fiber.Ctx) uuid.UUID {
	if user := User(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}

func tokenSubject(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}
	return services.Subject(claims)
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.Error(fiber.StatusUnauthorized, message))
}
