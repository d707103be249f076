package handlers

import (
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/gofiber/fiber/v2"
)

type FlagHandler struct {
	flagService *services.FlagService
}

func NewFlagHandler(flagService *services.FlagService) *FlagHandler {
	return &FlagHandler{flagService: flagService}
}

// GetFlags returns decoded flags. Admin-audience flags are included only
// when the token carries the admin role.
func (h *FlagHandler) GetFlags(c *fiber.Ctx) error {
	v := viewer(c)
	flags, err := h.flagService.Decoded(v != nil && v.Role == models.RoleAdmin)
	if err != nil {
		return serviceError(c, err, "get flags")
	}
	return c.JSON(flags)
}

func (h *FlagHandler) SetFlag(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return badRequest(c, "Key parameter is required")
	}

	var req dto.SetFlagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	flag, err := h.flagService.Set(key, &req)
	if err != nil {
		return serviceError(c, err, "set flag")
	}
	return c.JSON(flag)
}

func (h *FlagHandler) DeleteFlag(c *fiber.Ctx) error {
	if err := h.flagService.Delete(c.Params("key")); err != nil {
		return serviceError(c, err, "delete flag")
	}
	return c.JSON(fiber.Map{"message": "Flag deleted successfully"})
}
