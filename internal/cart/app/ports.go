package app

import (
	"context"

	"github.com/dwikikusuma/shopcore/internal/cart/domain"
)

type CartRepo interface {
	GetByUser(ctx context.Context, userID string) (domain.Cart, error)
	GetByID(ctx context.Context, cartID string) (domain.Cart, error)
	Create(ctx context.Context, userID string) (domain.Cart, error)
	// UpsertLineIncrement inserts a line or, when the item already has
	// one in this cart, adds to its quantity.
	UpsertLineIncrement(ctx context.Context, cartID string, line domain.AddLine) error
	DeleteLines(ctx context.Context, cartID string, lineIDs []string) error
}

type ItemReader interface {
	Lookup(ctx context.Context, ids []string) ([]Item, error)
}

type Item struct {
	ID   string
	Name string
}
