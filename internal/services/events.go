package services

import (
	"context"

	"ecomstore/internal/models"
)

// EventPublisher delivers order lifecycle events to interested consumers.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}
