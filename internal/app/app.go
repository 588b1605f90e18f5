// Package app assembles the Fiber application: middleware stack, API routes
// and the documentation UI.
package app

import (
	_ "catalogo/docs" // registers the swagger spec
	"catalogo/internal/config"
	"catalogo/internal/handlers"
	"catalogo/internal/middleware"
	"catalogo/internal/services"
	"catalogo/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New builds the application. Routes live under /api and the Swagger UI
// under /docs.
func New(cfg config.AppConfig, productService *services.ProductService, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "catalogo",
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: middleware.RequestIDKey,
	}))
	// The logger wraps recover so requests that panicked are logged as 500.
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
	}))

	productHandler := handlers.NewProductHandler(productService, validation.New())
	healthHandler := handlers.NewHealthHandler()

	api := app.Group("/api")
	healthHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)

	app.Get("/docs/*", swagger.HandlerDefault)

	return app
}
