package handlers

import (
	"ecomstore/internal/models"
	"ecomstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
	log      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, validate *validator.Validate, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validate,
		log:      log.Named("users"),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Patch("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleCreateUser handles user signup.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.service.CreateUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, "Could not create user", err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetUsers retrieves a page of users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	page, err := parsePage(c, h.validate)
	if err != nil {
		return respondError(c, h.log, "Invalid pagination", err)
	}
	users, err := h.service.ListUsers(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

// HandleGetUserByID retrieves a single user by its ID.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, "Invalid user ID", err)
	}
	user, err := h.service.GetUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// HandleUpdateUser applies a partial update to a user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, "Invalid user ID", err)
	}
	var patch models.UserPatch
	if ok, err := parseBody(c, h.validate, &patch); !ok {
		return err
	}

	user, err := h.service.UpdateUser(c.UserContext(), id, patch)
	if err != nil {
		return respondError(c, h.log, "Could not update user", err)
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes a user.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, "Invalid user ID", err)
	}
	if _, err := h.service.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete user", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
