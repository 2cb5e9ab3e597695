package adapter

import (
	"context"

	invapp "github.com/dwikikusuma/shopcore/internal/inventory/app"
	orderapp "github.com/dwikikusuma/shopcore/internal/order/app"
)

type InventoryItemReader struct {
	svc *invapp.Service
}

func NewInventoryItemReader(svc *invapp.Service) *InventoryItemReader {
	return &InventoryItemReader{svc: svc}
}

func (r *InventoryItemReader) Lookup(ctx context.Context, ids []string) ([]orderapp.Item, error) {
	items, err := r.svc.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]orderapp.Item, 0, len(items))
	for _, it := range items {
		out = append(out, orderapp.Item{
			ID:         it.ID,
			Name:       it.Name,
			Currency:   it.Price.Currency,
			UnitAmount: it.Price.Amount,
			Quantity:   it.Quantity,
		})
	}
	return out, nil
}
