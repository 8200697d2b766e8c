package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPending is the status every new order starts in. Status is
// otherwise free-form.
const OrderStatusPending = "pending"

// OrderItem is a single line of an order. Price is the unit price captured
// when the order was placed.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"-" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Product   Product         `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Order represents a customer order. TotalAmount is derived from Items at
// creation and never recomputed. User and Product are only declared so the
// schema carries foreign keys; they are never loaded.
type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status      string          `json:"status" gorm:"type:varchar(50);not null;default:pending"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	Items       []OrderItem     `json:"order_items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User        User            `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// OrderItemRequest is one requested line. A nil Price defaults to the
// product's current price.
type OrderItemRequest struct {
	ProductID uint             `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	Price     *decimal.Decimal `json:"price" validate:"omitempty,gte=0,lte=99999999.99"`
}

// CreateOrderRequest is the payload for placing an order.
type CreateOrderRequest struct {
	UserID uint               `json:"user_id" validate:"required"`
	Items  []OrderItemRequest `json:"order_items" validate:"required,min=1,dive"`
}

// OrderPatch lists the order fields that may be changed after creation.
type OrderPatch struct {
	Status *string `json:"status" validate:"omitempty,min=1,max=50"`
}

// Changes returns the column updates carried by the patch.
func (p OrderPatch) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if p.Status != nil {
		changes["status"] = *p.Status
	}
	return changes
}

// OrderEvent is published when an order is created, changes status or is deleted.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     uint            `json:"order_id"`
	UserID      uint            `json:"user_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// Order event types.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// NewOrderEvent builds an event of the given type from an order.
func NewOrderEvent(eventType string, order *Order) OrderEvent {
	return OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
}
