package main

import (
	"errors"
	"time"

	"ecomstore/internal/handlers"
	"ecomstore/internal/middleware"
	"ecomstore/internal/repositories"
	"ecomstore/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newApp wires repositories, services and handlers over db into a Fiber app.
// publisher may be nil to disable order events.
func newApp(db *gorm.DB, publisher services.EventPublisher, log *zap.Logger) *fiber.App {
	store := repositories.NewGORMStore(db)

	userService := services.NewUserService(store.Users())
	productService := services.NewProductService(store.Products())
	orderService := services.NewOrderService(store, publisher, log)

	validate := handlers.NewValidator()
	userHandler := handlers.NewUserHandler(userService, validate, log)
	productHandler := handlers.NewProductHandler(productService, validate, log)
	orderHandler := handlers.NewOrderHandler(orderService, validate, log)

	app := fiber.New(fiber.Config{
		AppName:      "ecomstore",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log.Named("http")))

	apiV1 := app.Group("/api/v1")
	userHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)

	app.Get("/health", healthHandler(db, publisher != nil))

	return app
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes, in the same shape the handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": errorMessage(code),
		"error":   err.Error(),
	})
}

func errorMessage(code int) string {
	if code == fiber.StatusNotFound {
		return "Route not found"
	}
	return "Request failed"
}

func healthHandler(db *gorm.DB, eventsEnabled bool) fiber.Handler {
	events := "disabled"
	if eventsEnabled {
		events = "enabled"
	}
	return func(c *fiber.Ctx) error {
		status, database, code := "healthy", "up", fiber.StatusOK
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			status, database, code = "unhealthy", "down", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
			"events":   events,
		})
	}
}
