package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecomstore/internal/models"
	"ecomstore/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxStatusLength = 50

// OrderService handles business logic related to orders.
type OrderService struct {
	store     repositories.Store
	publisher EventPublisher // optional
	log       *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no order events are emitted.
func NewOrderService(store repositories.Store, publisher EventPublisher, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		store:     store,
		publisher: publisher,
		log:       log.Named("orders"),
	}
}

// CreateOrder places an order for a user. The user and every product are
// resolved, missing item prices default to the product's current price, and
// the order is persisted with its items in one transaction. Nothing is
// written when any reference is missing.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().GetByID(ctx, req.UserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		total := decimal.Zero
		for _, line := range req.Items {
			product, err := tx.Products().GetByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return &ProductNotFoundError{ProductID: line.ProductID}
				}
				return err
			}

			price := product.Price
			if line.Price != nil {
				price = *line.Price
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     price,
			})
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		if err := checkAmount("total_amount", total, MaxTotal); err != nil {
			return err
		}

		order := &models.Order{
			UserID:      req.UserID,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			Items:       items,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.Uint("order_id", created.ID),
		zap.Uint("user_id", created.UserID),
		zap.Int("items", len(created.Items)),
		zap.String("total", created.TotalAmount.StringFixed(2)))
	s.publish(ctx, models.EventOrderCreated, created)
	return created, nil
}

// GetOrder retrieves an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.store.Orders().GetByID(ctx, id, repositories.WithItems)
}

// ListOrders retrieves a page of orders with their items, newest first.
func (s *OrderService) ListOrders(ctx context.Context, page models.Page) ([]models.Order, error) {
	return s.store.Orders().List(ctx, page, repositories.WithItems)
}

// ListOrdersByUser retrieves a page of a user's orders with their items.
func (s *OrderService) ListOrdersByUser(ctx context.Context, userID uint, page models.Page) ([]models.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID, page, repositories.WithItems)
}

// UpdateOrder applies a partial update. Only the status is mutable; the
// total and items stay as they were at creation.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, patch models.OrderPatch) (*models.Order, error) {
	if patch.Status != nil {
		status := strings.TrimSpace(*patch.Status)
		if status == "" || len(status) > maxStatusLength {
			return nil, invalid("status must be between 1 and %d characters", maxStatusLength)
		}
		patch.Status = &status
	}

	order, err := s.store.Orders().Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		s.publish(ctx, models.EventOrderStatusChanged, order)
	}
	return order, nil
}

// DeleteOrder removes an order together with its items.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.store.Orders().Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventOrderDeleted, order)
	return order, nil
}

func validateOrderRequest(req models.CreateOrderRequest) error {
	if req.UserID == 0 {
		return invalid("user_id is required")
	}
	if len(req.Items) == 0 {
		return invalid("at least one order item is required")
	}
	for i, line := range req.Items {
		if line.ProductID == 0 {
			return invalid("order_items[%d]: product_id is required", i)
		}
		if line.Quantity <= 0 {
			return invalid("order_items[%d]: quantity must be positive", i)
		}
		if line.Price != nil {
			if err := checkAmount(fmt.Sprintf("order_items[%d].price", i), *line.Price, MaxPrice); err != nil {
				return err
			}
		}
	}
	return nil
}

// publish emits an order event. Delivery is best effort: the order is already
// committed, so failures are only logged.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := models.NewOrderEvent(eventType, order)
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish order event",
			zap.String("event", eventType),
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		return
	}
	s.log.Debug("published order event", zap.String("event", eventType), zap.Uint("order_id", order.ID))
}
