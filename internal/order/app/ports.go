package app

import (
	"context"

	"github.com/dwikikusuma/shopcore/internal/order/domain"
)

type OrderRepo interface {
	// CreateOrderTx persists the order and its lines, removes the
	// consumed lines from the user's cart, and decrements stock for each
	// line, all inside one transaction. A failed stock decrement rolls
	// everything back and surfaces inventory's InsufficientStockError.
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
	GetByID(ctx context.Context, orderID string) (domain.Order, error)
	GetByIDAndUser(ctx context.Context, orderID, userID string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// CancelTx flips a PENDING order to CANCELLED and restores each
	// line's reserved quantity, in one transaction. The status guard is
	// part of the UPDATE, so a concurrent transition loses cleanly.
	CancelTx(ctx context.Context, order domain.Order) error
	// MarkCompleted flips a PENDING order to COMPLETED. Returns
	// sql.ErrNoRows when the guarded update matched nothing.
	MarkCompleted(ctx context.Context, orderID string) error
}

type ItemReader interface {
	Lookup(ctx context.Context, ids []string) ([]Item, error)
}

type Item struct {
	ID         string
	Name       string
	Currency   string
	UnitAmount int64
	Quantity   int32
}

type ReviewReader interface {
	// ReviewedLineIDs returns the order-line ids the user has reviewed.
	ReviewedLineIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

const (
	EventOrderPlaced    = "order.placed"
	EventOrderCancelled = "order.cancelled"
	EventOrderCompleted = "order.completed"
)

type Publisher interface {
	Publish(ctx context.Context, eventType string, order domain.Order) error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType string, order domain.Order) error {
	return nil
}
