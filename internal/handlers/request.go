package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/dto"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/query"
)

func respond(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(dto.OK(status, data, message))
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

// paramID parses a path parameter as a uuid; malformed ids are client errors.
func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func pageParams(c *fiber.Ctx) query.Page {
	return query.NewPage(c.QueryInt("page", query.DefaultPage), c.QueryInt("limit", query.DefaultLimit))
}

func sortParams(c *fiber.Ctx, allowed map[string]string) query.Sort {
	return query.NewSort(c.Query("sortBy"), c.Query("sortType"), allowed)
}

// formFile returns the single file sent under field, or nil when the field
// is absent or the request is not multipart.
func formFile(c *fiber.Ctx, field string) (*media.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File[field]
	switch len(files) {
	case 0:
		return nil, nil
	case 1:
		upload := media.FromFileHeader(files[0])
		return &upload, nil
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, field+" accepts a single file")
	}
}
