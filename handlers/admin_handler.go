package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ipotrack/ipo-backend/services"
)

// AdminHandler serves the dashboard endpoints. Both return their payload
// bare (no envelope): either the complete shape or a single error body,
// never a partial response.
type AdminHandler struct {
	Stats    *services.StatsService
	Activity *services.ActivityService
}

func NewAdminHandler(stats *services.StatsService, activity *services.ActivityService) *AdminHandler {
	return &AdminHandler{Stats: stats, Activity: activity}
}

func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.Stats.GetDashboardStats(c.Context(), time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) GetActivity(c *fiber.Ctx) error {
	activities, err := h.Activity.GetRecentActivity(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"activities": activities})
}
