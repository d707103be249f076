package server

import (
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/config"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/news"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/routes"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/scraper"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

type Options struct {
	RateLimits routes.RateLimits
	Feeds      *news.Registry
	Sentry     bool
	AccessLog  bool
}

// Server is the wired HTTP API plus the pieces main needs to run
// background work.
type Server struct {
	App      *fiber.App
	Ingester *news.Ingester
	Flags    *services.FlagService
}

func New(cfg *config.Config, db *gorm.DB, opts Options) *Server {
	feeds := opts.Feeds
	if feeds == nil {
		feeds = news.DefaultRegistry()
	}

	// Services
	limitService := services.NewRateLimitService(db, cfg)
	authService := services.NewAuthService(db, cfg)
	moderationService := services.NewModerationService(db, limitService)
	companyService := services.NewCompanyService(db, limitService)
	reviewService := services.NewReviewService(db, limitService, moderationService)
	flagService := services.NewFlagService(db)
	statsService := services.NewStatsService(db)
	userService := services.NewUserService(db)
	ingester := news.NewIngester(db, feeds)
	ingester.SetGate(func() bool { return flagService.Bool("news_enabled", true) })
	indeed := scraper.NewIndeedScraper(cfg.ScraperBaseURL, cfg.ScraperDelay)

	// Handlers
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, limitService),
		Health:     handlers.NewHealthHandler(db),
		Legal:      handlers.NewLegalHandler(cfg.LegalContact),
		Flags:      handlers.NewFlagHandler(flagService),
		Companies:  handlers.NewCompanyHandler(companyService, reviewService, flagService, db),
		Reviews:    handlers.NewReviewHandler(reviewService, moderationService, flagService),
		Moderation: handlers.NewModerationHandler(moderationService),
		Stats:      handlers.NewStatsHandler(statsService),
		Admin:      handlers.NewAdminHandler(userService, statsService, flagService, indeed, ingester),
		FlagValues: flagService,
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
	})

	if opts.Sentry {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	}
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, db, h, opts.RateLimits)

	return &Server{App: app, Ingester: ingester, Flags: flagService}
}
