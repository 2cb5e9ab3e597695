package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dwikikusuma/shopcore/internal/cart/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo  CartRepo
	items ItemReader
}

func NewService(repo CartRepo, items ItemReader) *Service {
	return &Service{repo: repo, items: items}
}

func (s *Service) Get(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, fmt.Errorf("%w: no cart for user %s", ErrNotFound, userID)
	}
	return cart, err
}

// AddItems adds lines to the user's cart, creating the cart on first
// use. A line for an item already present merges into the existing line.
// No stock ceiling applies here; availability is checked at checkout.
func (s *Service) AddItems(ctx context.Context, userID string, lines []domain.AddLine) (domain.Cart, error) {
	if len(lines) == 0 {
		return domain.Cart{}, fmt.Errorf("%w: no lines given", ErrInvalidInput)
	}
	ids := make([]string, 0, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return domain.Cart{}, fmt.Errorf("%w: line %d: quantity must be positive, got %d", ErrInvalidInput, i, line.Quantity)
		}
		ids = append(ids, line.ItemID)
	}

	// Every referenced item must exist in the catalog before anything
	// is written.
	if _, err := s.items.Lookup(ctx, ids); err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	for _, line := range lines {
		if err := s.repo.UpsertLineIncrement(ctx, cart.ID, line); err != nil {
			return domain.Cart{}, err
		}
	}

	return s.repo.GetByUser(ctx, userID)
}

// RemoveLines deletes the named lines from the cart. The match is
// all-or-nothing: any line id not present in the cart fails the whole
// call and nothing is deleted.
func (s *Service) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (domain.Cart, error) {
	if len(lineIDs) == 0 {
		return domain.Cart{}, fmt.Errorf("%w: no line ids given", ErrInvalidInput)
	}

	cart, err := s.repo.GetByID(ctx, cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, fmt.Errorf("%w: cart %s", ErrNotFound, cartID)
	}
	if err != nil {
		return domain.Cart{}, err
	}

	present := make(map[string]struct{}, len(cart.Lines))
	for _, line := range cart.Lines {
		present[line.ID] = struct{}{}
	}
	for _, id := range lineIDs {
		if _, ok := present[id]; !ok {
			return domain.Cart{}, fmt.Errorf("%w: line %s not in cart %s", ErrNotFound, id, cartID)
		}
	}

	if err := s.repo.DeleteLines(ctx, cartID, lineIDs); err != nil {
		return domain.Cart{}, err
	}

	return s.repo.GetByID(ctx, cartID)
}

func (s *Service) getOrCreate(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, err
	}
	return s.repo.Create(ctx, userID)
}
