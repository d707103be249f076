package handlers

import (
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/identity"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService     *services.ReviewService
	moderationService *services.ModerationService
	flagService       *services.FlagService
}

func NewReviewHandler(reviewService *services.ReviewService, moderationService *services.ModerationService, flagService *services.FlagService) *ReviewHandler {
	return &ReviewHandler{
		reviewService:     reviewService,
		moderationService: moderationService,
		flagService:       flagService,
	}
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	companyID, err := queryUUID(c, "company_id")
	if err != nil {
		return badRequest(c, "Invalid company_id")
	}
	userID, err := queryUUID(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user_id")
	}

	p := pageFromQuery(c)
	reviews, total, page, err := h.reviewService.List(dto.ReviewFilter{
		CompanyID: companyID,
		UserID:    userID,
		Status:    c.Query("status"),
		Page:      p.Page,
		Limit:     p.Limit,
	}, viewer(c))
	if err != nil {
		return serviceError(c, err, "list reviews")
	}
	return c.JSON(pageResponse(reviews, total, page))
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	review, err := h.reviewService.Get(id, viewer(c))
	if err != nil {
		return serviceError(c, err, "get review")
	}
	return c.JSON(review)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if !h.flagService.Bool("reviews_enabled", true) {
		return fail(c, fiber.StatusServiceUnavailable, dto.CodeUnavailable, "Review submissions are currently disabled")
	}

	var req dto.CreateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Create(userID, &req)
	if err != nil {
		return serviceError(c, err, "create review")
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	var req dto.UpdateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Update(id, userID, &req)
	if err != nil {
		return serviceError(c, err, "update review")
	}
	return c.JSON(review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	if err := h.reviewService.Delete(id, userID, identity.GetRole(c)); err != nil {
		return serviceError(c, err, "delete review")
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

func (h *ReviewHandler) ToggleLike(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	resp, err := h.reviewService.ToggleLike(id, userID)
	if err != nil {
		return serviceError(c, err, "toggle like")
	}
	return c.JSON(resp)
}

func (h *ReviewHandler) LikeStatus(c *fiber.Ctx) error {
	if _, err := identity.GetUserID(c); err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	resp, err := h.reviewService.LikeStatus(id, viewer(c))
	if err != nil {
		return serviceError(c, err, "like status")
	}
	return c.JSON(resp)
}

func (h *ReviewHandler) Report(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid review ID")
	}

	var req dto.CreateReportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	report, err := h.moderationService.CreateReport(userID, id, &req)
	if err != nil {
		return serviceError(c, err, "create report")
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}
