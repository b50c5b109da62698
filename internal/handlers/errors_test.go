package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/services"
	"gorm.io/gorm"
)

func TestErrorHandlerMapsKinds(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{services.ErrVideoNotFound, http.StatusNotFound, "video not found"},
		{fmt.Errorf("wrapped: %w", services.ErrNotOwner), http.StatusForbidden, services.ErrNotOwner.Message},
		{services.ErrPlaylistExists, http.StatusConflict, services.ErrPlaylistExists.Message},
		{services.ErrInvalidToken, http.StatusUnauthorized, services.ErrInvalidToken.Message},
		{services.ErrAvatarRequired, http.StatusBadRequest, "avatar file is required"},
		{fiber.NewError(http.StatusBadRequest, "invalid videoId"), http.StatusBadRequest, "invalid videoId"},
		{gorm.ErrDuplicatedKey, http.StatusConflict, "resource already exists"},
		{errors.New("connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
		err := tc.err
		app.Get("/", func(c *fiber.Ctx) error { return err })

		resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, reqErr)

		var body dto.Response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
		assert.Equal(t, tc.status, body.StatusCode)
		assert.Equal(t, tc.message, body.Message)
		assert.False(t, body.Success)
		assert.Nil(t, body.Data)
	}
}

func TestPageParamsClamp(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		p := pageParams(c)
		return c.JSON(fiber.Map{"page": p.Number, "limit": p.Limit})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?page=0&limit=1000", nil))
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, map[string]int{"page": 1, "limit": 100}, got)
}
