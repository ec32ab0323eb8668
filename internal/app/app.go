// Package app assembles the HTTP application from its services.
package app

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"recipeapi/internal/handlers"
	"recipeapi/internal/middleware"
	"recipeapi/internal/repositories"
	"recipeapi/internal/services"
	"recipeapi/internal/storage"
)

// Options configures New.
type Options struct {
	Store     repositories.Store
	Images    storage.ImageStore
	Publisher services.EventPublisher // nil disables events
	Exchange  string

	JWTSecret     string
	TokenTTL      time.Duration
	MaxImageBytes int64

	// MediaRoot and MediaURL, when both set, serve locally stored images.
	MediaRoot string
	MediaURL  string

	AccessLog bool
	Logger    *zap.Logger
}

// bodyOverhead leaves room for multipart framing around the largest image.
const bodyOverhead = 1 << 20

// New builds the Fiber app with every route registered.
func New(opts Options) (*fiber.App, *services.AuthService) {
	logger := opts.Logger

	authService := services.NewAuthService(opts.Store.Users(), opts.JWTSecret, opts.TokenTTL, logger)
	recipeService := services.NewRecipeService(opts.Store, opts.Images, opts.Publisher, opts.Exchange, logger)
	tagService := services.NewTagService(opts.Store, logger)
	ingredientService := services.NewIngredientService(opts.Store, logger)

	userHandler := handlers.NewUserHandler(authService, logger)
	recipeHandler := handlers.NewRecipeHandler(recipeService, opts.MaxImageBytes, logger)
	tagHandler := handlers.NewTagHandler(tagService, logger)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, logger)

	app := fiber.New(fiber.Config{
		AppName:      "recipeapi",
		BodyLimit:    int(opts.MaxImageBytes) + bodyOverhead,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if opts.MediaRoot != "" && opts.MediaURL != "" {
		app.Static(opts.MediaURL, opts.MediaRoot)
	}

	apiV1 := app.Group("/api/v1")

	// Public routes
	userHandler.RegisterPublicRoutes(apiV1)

	// Protected routes
	protected := apiV1.Group("", middleware.AuthRequired(authService, logger))
	userHandler.RegisterRoutes(protected)
	recipeHandler.RegisterRoutes(protected)
	tagHandler.RegisterRoutes(protected)
	ingredientHandler.RegisterRoutes(protected)

	return app, authService
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes or oversized bodies, in the same JSON shape as handler errors.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
