package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gigpaisa/internal/api/handlers"
	"gigpaisa/pkg/auth"
	"gigpaisa/pkg/config"
	"gigpaisa/pkg/middleware"
)

func SetupRouter(
	serverCfg *config.ServerConfig,
	authHandler *handlers.AuthHandler,
	parseHandler *handlers.ParseHandler,
	transactionHandler *handlers.TransactionHandler,
	analysisHandler *handlers.AnalysisHandler,
	jwtManager *auth.JWTManager,
	registry *prometheus.Registry,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    20 * 1024 * 1024,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	))

	// Auth routes (public)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	protected.Post("/parse-image", parseHandler.ParseImage)
	protected.Post("/parse-voice", parseHandler.ParseVoice)

	protected.Post("/transactions", transactionHandler.Confirm)
	protected.Get("/transactions", transactionHandler.List)

	protected.Post("/analyze", analysisHandler.StartAnalysis)
	protected.Get("/analyze/:user_id/status", analysisHandler.Status)

	return app
}
