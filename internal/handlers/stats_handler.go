package handlers

import (
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Industries(c *fiber.Ctx) error {
	stats, err := h.statsService.Industries()
	if err != nil {
		return serviceError(c, err, "industry stats")
	}
	return c.JSON(fiber.Map{"industries": stats})
}

func (h *StatsHandler) Locations(c *fiber.Ctx) error {
	stats, err := h.statsService.Locations()
	if err != nil {
		return serviceError(c, err, "location stats")
	}
	return c.JSON(fiber.Map{"locations": stats})
}
