package handlers

import (
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/identity"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// moderatorID is the acting moderator. Requests authorized only by the admin
// token have no user and are recorded under the nil UUID.
func moderatorID(c *fiber.Ctx) uuid.UUID {
	id, err := identity.GetUserID(c)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (h *ModerationHandler) Queue(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	reviews, total, err := h.moderationService.ListQueue(c.Query("status"), c.QueryBool("flagged", false), p)
	if err != nil {
		return serviceError(c, err, "list moderation queue")
	}
	return c.JSON(pageResponse(reviews, total, p))
}

func (h *ModerationHandler) Moderate(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	var req dto.ModerateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	review, err := h.moderationService.Moderate(id, moderatorID(c), req.Status, req.Note)
	if err != nil {
		return serviceError(c, err, "moderate review")
	}
	return c.JSON(review)
}

func (h *ModerationHandler) BulkModerate(c *fiber.Ctx) error {
	var req dto.BulkModerateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.moderationService.BulkModerate(req.ReviewIDs, moderatorID(c), req.Status, req.Note)
	if err != nil {
		return serviceError(c, err, "bulk moderate")
	}
	return c.JSON(resp)
}

func (h *ModerationHandler) History(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	history, err := h.moderationService.History(id)
	if err != nil {
		return serviceError(c, err, "moderation history")
	}
	return c.JSON(fiber.Map{"history": history})
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	reports, total, err := h.moderationService.ListReports(c.Query("status"), p)
	if err != nil {
		return serviceError(c, err, "list reports")
	}
	return c.JSON(pageResponse(reports, total, p))
}

func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	reportID, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.ActionReportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.moderationService.ActionReport(reportID, &req); err != nil {
		return serviceError(c, err, "action report")
	}
	return c.JSON(fiber.Map{"message": "Report updated successfully"})
}
