package handlers

import (
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/identity"
	"github.com/gofiber/fiber/v2"
)

func sectionFilter(c *fiber.Ctx) dto.SectionFilter {
	minFunding, _ := strconv.ParseFloat(c.Query("min_funding", "0"), 64)
	var types []string
	for _, t := range strings.Split(c.Query("indicator_types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return dto.SectionFilter{
		Industry:       c.Query("industry"),
		Location:       c.Query("location"),
		MinScore:       c.QueryInt("min_score", 0),
		MaxScore:       c.QueryInt("max_score", 0),
		IndicatorTypes: types,
		TimeRange:      c.Query("time_range"),
		MinFunding:     minFunding,
		SortBy:         c.Query("sort_by", "score"),
		Order:          c.Query("order", "desc"),
		Page:           c.QueryInt("page", 1),
		Limit:          c.QueryInt("limit", 20),
	}
}

func (h *CompanyHandler) Distress(c *fiber.Ctx) error {
	out, err := h.companyService.DistressCompanies(sectionFilter(c))
	if err != nil {
		return serviceError(c, err, "list distressed companies")
	}
	return c.JSON(out)
}

func (h *CompanyHandler) Rising(c *fiber.Ctx) error {
	out, err := h.companyService.RisingStartups(sectionFilter(c))
	if err != nil {
		return serviceError(c, err, "list rising startups")
	}
	return c.JSON(out)
}

func (h *CompanyHandler) DistressStats(c *fiber.Ctx) error {
	out, err := h.companyService.DistressStatistics()
	if err != nil {
		return serviceError(c, err, "distress statistics")
	}
	return c.JSON(out)
}

func (h *CompanyHandler) GrowthStats(c *fiber.Ctx) error {
	out, err := h.companyService.GrowthStatistics()
	if err != nil {
		return serviceError(c, err, "growth statistics")
	}
	return c.JSON(out)
}

func (h *CompanyHandler) AddDistressIndicator(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid company ID")
	}

	var req dto.AddDistressIndicatorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	indicator, err := h.companyService.AddDistressIndicator(id, userID, &req)
	if err != nil {
		return serviceError(c, err, "add distress indicator")
	}
	return c.Status(fiber.StatusCreated).JSON(indicator)
}

func (h *CompanyHandler) AddGrowthIndicator(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid company ID")
	}

	var req dto.AddGrowthIndicatorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	indicator, err := h.companyService.AddGrowthIndicator(id, userID, &req)
	if err != nil {
		return serviceError(c, err, "add growth indicator")
	}
	return c.Status(fiber.StatusCreated).JSON(indicator)
}

// PendingIndicators lists unverified indicators of the :kind in the path.
func (h *CompanyHandler) PendingIndicators(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	rows, total, err := h.companyService.PendingIndicators(c.Params("kind"), p)
	if err != nil {
		return serviceError(c, err, "list pending indicators")
	}
	return c.JSON(pageResponse(rows, total, p))
}

func (h *CompanyHandler) VerifyIndicator(c *fiber.Ctx) error {
	moderatorID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid indicator ID")
	}

	if err := h.companyService.VerifyIndicator(c.Params("kind"), id, moderatorID); err != nil {
		return serviceError(c, err, "verify indicator")
	}
	return c.JSON(fiber.Map{"message": "Indicator verified"})
}
