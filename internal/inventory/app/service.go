package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dwikikusuma/shopcore/internal/inventory/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrItemNotFound = errors.New("item not found")
)

// InsufficientStockError reports a reservation that exceeded the
// available quantity of an item.
type InsufficientStockError struct {
	ItemID    string
	Name      string
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s (%s): requested %d, available %d",
		e.ItemID, e.Name, e.Requested, e.Available)
}

type Service struct {
	repo ItemRepo
}

func NewService(repo ItemRepo) *Service {
	return &Service{repo: repo}
}

// Lookup resolves every id in one batch. Any absent id fails the whole
// call with ErrItemNotFound naming the first missing id.
func (s *Service) Lookup(ctx context.Context, ids []string) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no item ids given", ErrInvalidInput)
	}

	items, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(items) != len(dedupe(ids)) {
		found := make(map[string]struct{}, len(items))
		for _, it := range items {
			found[it.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
			}
		}
	}

	return items, nil
}

// Reserve decrements available stock by qty as a single conditional
// write. Two racing reservations for the last units cannot both succeed;
// the loser observes InsufficientStockError. Returns the price snapshot
// taken at decrement time.
func (s *Service) Reserve(ctx context.Context, itemID string, qty int32) (domain.Money, error) {
	if qty <= 0 {
		return domain.Money{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, qty)
	}

	item, err := s.repo.Decrement(ctx, itemID, qty)
	if err == nil {
		return item.Price, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Money{}, err
	}

	// Condition failed: distinguish a missing item from short stock.
	current, lookupErr := s.repo.GetByIDs(ctx, []string{itemID})
	if lookupErr != nil {
		return domain.Money{}, lookupErr
	}
	if len(current) == 0 {
		return domain.Money{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return domain.Money{}, &InsufficientStockError{
		ItemID:    itemID,
		Name:      current[0].Name,
		Requested: qty,
		Available: current[0].Quantity,
	}
}

// Release restores qty units of stock. There is no upper bound: callers
// release exactly what they reserved.
func (s *Service) Release(ctx context.Context, itemID string, qty int32) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, qty)
	}
	return s.repo.Increment(ctx, itemID, qty)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
