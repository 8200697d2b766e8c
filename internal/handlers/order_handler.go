package handlers

import (
	"ecomstore/internal/models"
	"ecomstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	log      *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, validate *validator.Validate, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validate,
		log:      log.Named("orders"),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/user/:user_id", h.HandleGetOrdersByUser)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Put("/:id", h.HandleUpdateOrder)
	orderRoutes.Patch("/:id", h.HandleUpdateOrder)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// HandleGetOrders retrieves a page of orders with their items.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	page, err := parsePage(c, h.validate)
	if err != nil {
		return respondError(c, h.log, "Invalid pagination", err)
	}
	orders, err := h.service.ListOrders(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrdersByUser retrieves a page of one user's orders.
func (h *OrderHandler) HandleGetOrdersByUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return respondError(c, h.log, "Invalid user ID", err)
	}
	page, err := parsePage(c, h.validate)
	if err != nil {
		return respondError(c, h.log, "Invalid pagination", err)
	}
	orders, err := h.service.ListOrdersByUser(c.UserContext(), userID, page)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, "Invalid order ID", err)
	}
	order, err := h.service.GetOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleCreateOrder places a new order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.service.CreateOrder(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrder updates the mutable fields of an order (its status).
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, "Invalid order ID", err)
	}
	var patch models.OrderPatch
	if ok, err := parseBody(c, h.validate, &patch); !ok {
		return err
	}

	order, err := h.service.UpdateOrder(c.UserContext(), id, patch)
	if err != nil {
		return respondError(c, h.log, "Could not update order", err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder deletes an order and its items.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, "Invalid order ID", err)
	}
	if _, err := h.service.DeleteOrder(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete order", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
