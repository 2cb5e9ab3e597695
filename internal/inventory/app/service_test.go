package app

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/dwikikusuma/shopcore/internal/inventory/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type memRepo struct {
	mu    sync.Mutex
	items map[string]domain.Item
}

func newMemRepo(items ...domain.Item) *memRepo {
	r := &memRepo{items: make(map[string]domain.Item)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *memRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Item
	seen := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if it, ok := r.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memRepo) Decrement(ctx context.Context, id string, qty int32) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok || it.Quantity < qty {
		return domain.Item{}, sql.ErrNoRows
	}
	it.Quantity -= qty
	r.items[id] = it
	return it, nil
}

func (r *memRepo) Increment(ctx context.Context, id string, qty int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	it.Quantity += qty
	r.items[id] = it
	return nil
}

func (r *memRepo) quantity(t *testing.T, id string) int32 {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Quantity
}

func testItem(qty int32) domain.Item {
	return domain.Item{
		ID:       uuid.NewString(),
		Name:     "Keyboard",
		Price:    domain.Money{Currency: "IDR", Amount: 150000},
		Quantity: qty,
	}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	item := testItem(5)
	svc := NewService(newMemRepo(item))

	t.Run("resolves known ids", func(t *testing.T) {
		items, err := svc.Lookup(ctx, []string{item.ID})
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if len(items) != 1 || items[0].ID != item.ID {
			t.Fatalf("unexpected result: %+v", items)
		}
	})

	t.Run("any missing id fails the whole batch", func(t *testing.T) {
		missing := uuid.NewString()
		_, err := svc.Lookup(ctx, []string{item.ID, missing})
		if !errors.Is(err, ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})

	t.Run("empty batch -> invalid", func(t *testing.T) {
		_, err := svc.Lookup(ctx, nil)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements and returns price snapshot", func(t *testing.T) {
		item := testItem(5)
		repo := newMemRepo(item)
		svc := NewService(repo)

		price, err := svc.Reserve(ctx, item.ID, 3)
		if err != nil {
			t.Fatalf("Reserve failed: %v", err)
		}
		if price != item.Price {
			t.Fatalf("expected price %+v, got %+v", item.Price, price)
		}
		if got := repo.quantity(t, item.ID); got != 2 {
			t.Fatalf("expected quantity 2, got %d", got)
		}
	})

	t.Run("short stock -> InsufficientStockError with context", func(t *testing.T) {
		item := testItem(2)
		repo := newMemRepo(item)
		svc := NewService(repo)

		_, err := svc.Reserve(ctx, item.ID, 3)
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected InsufficientStockError, got %v", err)
		}
		if stockErr.ItemID != item.ID || stockErr.Requested != 3 || stockErr.Available != 2 {
			t.Fatalf("unexpected error detail: %+v", stockErr)
		}
		if got := repo.quantity(t, item.ID); got != 2 {
			t.Fatalf("failed reserve must not mutate, got quantity %d", got)
		}
	})

	t.Run("unknown item -> ErrItemNotFound", func(t *testing.T) {
		svc := NewService(newMemRepo())
		_, err := svc.Reserve(ctx, uuid.NewString(), 1)
		if !errors.Is(err, ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})

	t.Run("non-positive quantity -> invalid", func(t *testing.T) {
		item := testItem(5)
		svc := NewService(newMemRepo(item))
		if _, err := svc.Reserve(ctx, item.ID, 0); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	item := testItem(5)
	repo := newMemRepo(item)
	svc := NewService(repo)

	if _, err := svc.Reserve(ctx, item.ID, 4); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := svc.Release(ctx, item.ID, 4); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if got := repo.quantity(t, item.ID); got != 5 {
		t.Fatalf("expected quantity restored to 5, got %d", got)
	}

	if err := svc.Release(ctx, item.ID, -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReserve_ConcurrentLastUnits(t *testing.T) {
	ctx := context.Background()
	item := testItem(1)
	repo := newMemRepo(item)
	svc := NewService(repo)

	const N = 20
	var (
		mu        sync.Mutex
		succeeded int
		short     int
	)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		g.Go(func() error {
			_, err := svc.Reserve(ctx, item.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			var stockErr *InsufficientStockError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &stockErr):
				short++
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Reserve failed: %v", err)
	}

	if succeeded != 1 || short != N-1 {
		t.Fatalf("expected exactly 1 success and %d short, got %d/%d", N-1, succeeded, short)
	}
	if got := repo.quantity(t, item.ID); got != 0 {
		t.Fatalf("expected quantity 0, got %d", got)
	}
}
