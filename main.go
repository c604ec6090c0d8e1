package main

import (
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"mailscout/config"
	controller "mailscout/controllers"
	"mailscout/finder"
	"mailscout/middleware"
	"mailscout/routes"
	"mailscout/verifier"
)

func main() {
	logger := logrus.New()

	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.AppConfig

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			logger.Warnf("Sentry init failed: %v", err)
		}
	}

	emailVerifier := verifier.New(verifier.Options{
		HelloName:      cfg.SMTPHelloName,
		Timeout:        cfg.ProbeTimeout,
		MaxHosts:       cfg.MaxMXHosts,
		Port:           cfg.SMTPPort,
		BlockedDomains: cfg.BlockedDomains,
		Limiter:        verifier.NewRateLimiterManager(cfg.ProbeRateGlobal, cfg.ProbeRatePerDomain),
		Logger:         logger,
	})
	emailFinder := finder.New(emailVerifier, logger)

	app := fiber.New()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORSOrigins
	app.Use(middleware.CORS(corsConfig))

	vc := controller.NewVerifyController(emailVerifier, logger)
	fc := controller.NewFindController(emailFinder, logger, cfg.FindMaxResultsCap, cfg.FindMaxPatternsCap)
	routes.SetupRoutes(app, vc, fc)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Email Finder & Verifier API",
			"version": "1.0.0",
		})
	})

	logger.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
