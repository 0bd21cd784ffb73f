package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ipotrack/ipo-backend/shared"
)

// respondError maps a service error onto the response envelope. Store
// failures surface as a generic internal error; validation failures carry
// their field details.
func respondError(c *fiber.Ctx, err error) error {
	if se, ok := shared.AsServiceError(err); ok {
		shared.LogError(se)
		body := fiber.Map{
			"success": false,
			"error":   se.Message,
		}
		if se.Details != nil {
			body["details"] = se.Details
		}
		return c.Status(se.HTTPStatus()).JSON(body)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "internal server error",
	})
}

func respondNotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func respondData(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
