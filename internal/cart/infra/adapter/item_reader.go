package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/shopcore/internal/cart/app"
	invapp "github.com/dwikikusuma/shopcore/internal/inventory/app"
)

type InventoryItemReader struct {
	svc *invapp.Service
}

func NewInventoryItemReader(svc *invapp.Service) *InventoryItemReader {
	return &InventoryItemReader{svc: svc}
}

func (r *InventoryItemReader) Lookup(ctx context.Context, ids []string) ([]cartapp.Item, error) {
	items, err := r.svc.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]cartapp.Item, 0, len(items))
	for _, it := range items {
		out = append(out, cartapp.Item{
			ID:   it.ID,
			Name: it.Name,
		})
	}
	return out, nil
}
