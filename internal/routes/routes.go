package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/config"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Handlers bundles every HTTP handler the API mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Legal      *handlers.LegalHandler
	Flags      *handlers.FlagHandler
	Companies  *handlers.CompanyHandler
	Reviews    *handlers.ReviewHandler
	Moderation *handlers.ModerationHandler
	Stats      *handlers.StatsHandler
	Admin      *handlers.AdminHandler

	// FlagValues backs the maintenance switch.
	FlagValues middleware.FlagReader
}

// RateLimits are the per-IP request limits. Zero disables a limiter.
type RateLimits struct {
	API  int
	Auth int
}

var DefaultRateLimits = RateLimits{API: 60, Auth: 10}

func ipLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers, limits RateLimits) {
	api := app.Group("/api")

	// General API rate limiter: per IP per minute
	api.Use(ipLimiter(limits.API))
	api.Use(middleware.Maintenance(h.FlagValues))

	jwt := middleware.JWTProtected(cfg)
	optional := middleware.OptionalAuth(cfg)
	moderator := middleware.ModeratorRequired(db, cfg)
	admin := middleware.AdminRequired(db, cfg)

	api.Get("/health", h.Health.Check)
	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)
	api.Get("/flags", optional, h.Flags.GetFlags)

	// Auth, with a stricter limiter
	auth := api.Group("/auth")
	auth.Use(ipLimiter(limits.Auth))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/google", h.Auth.GoogleSignIn)
	auth.Post("/logout", jwt, h.Auth.Logout)
	auth.Delete("/account", jwt, h.Auth.DeleteAccount)
	auth.Get("/me", jwt, h.Auth.Me)
	auth.Put("/me", jwt, h.Auth.UpdateProfile)

	api.Get("/limits", jwt, h.Auth.Limits)

	// Companies
	api.Get("/companies", h.Companies.List)
	api.Get("/companies/fame", h.Companies.Fame)
	api.Get("/companies/shame", h.Companies.Shame)
	api.Get("/companies/distress", h.Companies.Distress)
	api.Get("/companies/rising", h.Companies.Rising)
	api.Get("/companies/:id", h.Companies.Get)
	api.Get("/companies/:id/reviews", optional, h.Companies.Reviews)
	api.Get("/companies/:id/news", h.Companies.News)
	api.Post("/companies", jwt, h.Companies.Create)
	api.Put("/companies/:id", jwt, h.Companies.Update)
	api.Delete("/companies/:id", jwt, admin, h.Companies.Delete)

	// Reviews
	api.Get("/reviews", optional, h.Reviews.List)
	api.Get("/reviews/:id", optional, h.Reviews.Get)
	api.Post("/reviews", jwt, h.Reviews.Create)
	api.Put("/reviews/:id", jwt, h.Reviews.Update)
	api.Delete("/reviews/:id", jwt, h.Reviews.Delete)
	api.Get("/reviews/:id/like", jwt, h.Reviews.LikeStatus)
	api.Post("/reviews/:id/like", jwt, h.Reviews.ToggleLike)
	api.Post("/reviews/:id/reports", jwt, h.Reviews.Report)

	// Stats
	api.Get("/stats/industries", h.Stats.Industries)
	api.Get("/stats/locations", h.Stats.Locations)
	api.Get("/stats/distress", h.Companies.DistressStats)
	api.Get("/stats/growth", h.Companies.GrowthStats)

	// Moderation panel (moderators and admins)
	mod := api.Group("/admin", optional, moderator)
	mod.Get("/reviews", h.Moderation.Queue)
	mod.Post("/reviews/moderate", h.Moderation.BulkModerate)
	mod.Put("/reviews/:id/moderate", h.Moderation.Moderate)
	mod.Get("/reviews/:id/history", h.Moderation.History)
	mod.Get("/reports", h.Moderation.ListReports)
	mod.Put("/reports/:id", h.Moderation.ActionReport)
	mod.Post("/companies/:id/distress-indicators", h.Companies.AddDistressIndicator)
	mod.Post("/companies/:id/growth-indicators", h.Companies.AddGrowthIndicator)
	mod.Get("/indicators/:kind", h.Companies.PendingIndicators)
	mod.Put("/indicators/:kind/:id/verify", h.Companies.VerifyIndicator)

	// Admin only
	mod.Put("/companies/:id/verification", admin, h.Companies.SetVerification)
	mod.Get("/users", admin, h.Admin.ListUsers)
	mod.Put("/users/:id/role", admin, h.Admin.SetRole)
	mod.Get("/stats", admin, h.Admin.Dashboard)
	mod.Put("/flags/:key", admin, h.Flags.SetFlag)
	mod.Delete("/flags/:key", admin, h.Flags.DeleteFlag)
	mod.Post("/scrape/indeed", admin, h.Admin.ScrapeIndeed)
	mod.Post("/news/ingest", admin, h.Admin.IngestNews)
}
