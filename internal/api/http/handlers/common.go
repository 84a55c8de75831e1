package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

// parseBody decodes and validates a JSON payload.
func parseBody(c *fiber.Ctx, out dto.Validatable) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.ValidationFailed(out.Validate())
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

// queryID reads a positive integer query parameter.
func queryID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Query(name)})
	}
	return id, nil
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"data": data})
}
