package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/identity"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/news"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CompanyHandler struct {
	companyService *services.CompanyService
	reviewService  *services.ReviewService
	flagService    *services.FlagService
	db             *gorm.DB
}

func NewCompanyHandler(
	companyService *services.CompanyService,
	reviewService *services.ReviewService,
	flagService *services.FlagService,
	db *gorm.DB,
) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		reviewService:  reviewService,
		flagService:    flagService,
		db:             db,
	}
}

func (h *CompanyHandler) List(c *fiber.Ctx) error {
	minRating, _ := strconv.ParseFloat(c.Query("min_rating", "0"), 64)
	p := pageFromQuery(c)

	companies, total, page, err := h.companyService.List(dto.CompanyFilter{
		Search:    c.Query("search"),
		Industry:  c.Query("industry"),
		Location:  c.Query("location"),
		MinRating: minRating,
		SortBy:    c.Query("sort_by", "name"),
		Order:     c.Query("order", "asc"),
		Page:      p.Page,
		Limit:     p.Limit,
	})
	if err != nil {
		return serviceError(c, err, "list companies")
	}
	return c.JSON(pageResponse(companies, total, page))
}

func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid company ID")
	}

	company, err := h.companyService.Get(id)
	if err != nil {
		return serviceError(c, err, "get company")
	}
	return c.JSON(company)
}

func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if !h.flagService.Bool("company_submissions_enabled", true) {
		return fail(c, fiber.StatusServiceUnavailable, dto.CodeUnavailable, "Company submissions are currently disabled")
	}

	var req dto.CreateCompanyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	company, err := h.companyService.Create(userID, &req)
	if err != nil {
		return serviceError(c, err, "create company")
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid company ID")
	}

	var req dto.UpdateCompanyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	company, err := h.companyService.Update(id, userID, identity.GetRole(c), &req)
	if err != nil {
		return serviceError(c, err, "update company")
	}
	return c.JSON(company)
}

func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid company ID")
	}

	if err := h.companyService.Delete(id); err != nil {
		return serviceError(c, err, "delete company")
	}
	return c.JSON(fiber.Map{"message": "Company deleted successfully"})
}

func (h *CompanyHandler) SetVerification(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid company ID")
	}

	var req dto.VerificationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	company, err := h.companyService.SetVerification(id, req.Status)
	if err != nil {
		return serviceError(c, err, "set verification")
	}
	return c.JSON(company)
}

// wallSize is the number of companies on each wall unless the caller asks
// for another limit.
func (h *CompanyHandler) wallSize(c *fiber.Ctx) int {
	return c.QueryInt("limit", h.flagService.Int("wall_size", 10))
}

func (h *CompanyHandler) Fame(c *fiber.Ctx) error {
	companies, err := h.companyService.WallOfFame(h.wallSize(c))
	if err != nil {
		return serviceError(c, err, "wall of fame")
	}
	return c.JSON(fiber.Map{"companies": companies})
}

func (h *CompanyHandler) Shame(c *fiber.Ctx) error {
	companies, err := h.companyService.WallOfShame(h.wallSize(c))
	if err != nil {
		return serviceError(c, err, "wall of shame")
	}
	return c.JSON(fiber.Map{"companies": companies})
}

// Reviews lists the reviews of one company visible to the caller.
func (h *CompanyHandler) Reviews(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid company ID")
	}
	if _, err := h.companyService.Get(id); err != nil {
		return serviceError(c, err, "get company")
	}

	p := pageFromQuery(c)
	reviews, total, page, err := h.reviewService.List(dto.ReviewFilter{
		CompanyID: &id,
		Status:    c.Query("status"),
		Page:      p.Page,
		Limit:     p.Limit,
	}, viewer(c))
	if err != nil {
		return serviceError(c, err, "list company reviews")
	}
	return c.JSON(pageResponse(reviews, total, page))
}

func (h *CompanyHandler) News(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid company ID")
	}
	if _, err := h.companyService.Get(id); err != nil {
		return serviceError(c, err, "get company")
	}

	articles, err := news.ForCompany(h.db, id, c.QueryInt("limit", 10))
	if err != nil {
		return serviceError(c, err, "list company news")
	}
	return c.JSON(fiber.Map{"news": articles})
}
