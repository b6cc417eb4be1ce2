package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/browser"
	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/web"
	"github.com/Sibuxiangx/tweet-crawler/internal/config"
	"github.com/Sibuxiangx/tweet-crawler/internal/logging"
	"github.com/Sibuxiangx/tweet-crawler/internal/usecases"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		logrus.WithError(err).Fatal("loading configuration")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	cookies, err := browser.CookiesFromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("reading session cookies")
	}

	// Initialize browser pool (single persistent browser)
	pool, err := browser.NewPool(cookies, browser.PoolOptions(cfg.Browser.Headless, cfg.Browser.ChromePath))
	if err != nil {
		logrus.WithError(err).Fatal("starting browser")
	}
	defer pool.Close()

	// Initialize use cases
	lookupUC := usecases.NewLookupStatusUseCase(pool)
	listUC := usecases.NewListUsersUseCase(pool)

	// Initialize web handlers
	rateLimiter := web.NewRateLimiter(cfg.Server.RateLimit, time.Minute)
	handlers := web.NewHandlers(lookupUC, listUC, rateLimiter, cfg.CrawlTimeout())

	// Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "tweet-crawler",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(web.RequestIDConfig()))
	app.Use(web.RequestLoggerMiddleware())

	// Setup routes
	web.SetupRoutes(app, handlers)

	logrus.WithField("port", cfg.Server.Port).Info("starting server")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
