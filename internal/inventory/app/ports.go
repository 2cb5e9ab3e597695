package app

import (
	"context"

	"github.com/dwikikusuma/shopcore/internal/inventory/domain"
)

type ItemRepo interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Item, error)
	// Decrement subtracts qty from the item's quantity only when enough
	// stock remains. It returns sql.ErrNoRows when the item is missing or
	// the condition did not hold.
	Decrement(ctx context.Context, id string, qty int32) (domain.Item, error)
	Increment(ctx context.Context, id string, qty int32) error
}
