package handlers

import (
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/news"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/scraper"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	userService  *services.UserService
	statsService *services.StatsService
	flagService  *services.FlagService
	scraper      *scraper.IndeedScraper
	ingester     *news.Ingester
}

func NewAdminHandler(
	userService *services.UserService,
	statsService *services.StatsService,
	flagService *services.FlagService,
	indeed *scraper.IndeedScraper,
	ingester *news.Ingester,
) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		statsService: statsService,
		flagService:  flagService,
		scraper:      indeed,
		ingester:     ingester,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	users, total, err := h.userService.List(c.Query("search"), c.Query("role"), p)
	if err != nil {
		return serviceError(c, err, "list users")
	}
	return c.JSON(pageResponse(users, total, p))
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	var req dto.SetRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.SetRole(id.String(), req.Role)
	if err != nil {
		return serviceError(c, err, "set role")
	}
	return c.JSON(user)
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.statsService.Dashboard()
	if err != nil {
		return serviceError(c, err, "dashboard stats")
	}
	return c.JSON(stats)
}

// ScrapeIndeed runs the scraper synchronously and returns what it found.
// Nothing is persisted.
func (h *AdminHandler) ScrapeIndeed(c *fiber.Ctx) error {
	if !h.flagService.Bool("scraper_enabled", true) {
		return fail(c, fiber.StatusServiceUnavailable, dto.CodeUnavailable, "The scraper is currently disabled")
	}

	var req dto.ScrapeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	reviews, err := h.scraper.Scrape(c.UserContext(), req.Company, req.Pages)
	if err != nil {
		return fail(c, fiber.StatusBadGateway, dto.CodeInternal, "Scrape failed: "+err.Error())
	}
	return c.JSON(fiber.Map{"company": req.Company, "count": len(reviews), "reviews": reviews})
}

func (h *AdminHandler) IngestNews(c *fiber.Ctx) error {
	resp, err := h.ingester.Run(c.UserContext())
	if err != nil {
		return serviceError(c, err, "news ingest")
	}
	return c.JSON(resp)
}
