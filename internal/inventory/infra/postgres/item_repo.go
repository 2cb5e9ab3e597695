package postgres

import (
	"context"
	"database/sql"

	"github.com/dwikikusuma/shopcore/internal/inventory/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx, so the ledger's
// conditional writes can run standalone or inside a caller's transaction.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

func (r *ItemRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Item, error) {
	return GetItemsByIDs(ctx, r.db, ids)
}

func (r *ItemRepo) Decrement(ctx context.Context, id string, qty int32) (domain.Item, error) {
	return DecrementQuantity(ctx, r.db, id, qty)
}

func (r *ItemRepo) Increment(ctx context.Context, id string, qty int32) error {
	return IncrementQuantity(ctx, r.db, id, qty)
}

func GetItemsByIDs(ctx context.Context, q Queryer, ids []string) ([]domain.Item, error) {
	uuids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		uuids = append(uuids, u)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, name, price_amount, currency, quantity, created_at, updated_at
		FROM items
		WHERE id = ANY($1)`, pq.Array(uuids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var (
			it domain.Item
			id uuid.UUID
		)
		if err := rows.Scan(&id, &it.Name, &it.Price.Amount, &it.Price.Currency,
			&it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		it.ID = id.String()
		items = append(items, it)
	}
	return items, rows.Err()
}

// DecrementQuantity is the ledger's reserve: a single conditional UPDATE
// so that concurrent reservations serialize on the row and the quantity
// can never go negative. sql.ErrNoRows means the item is missing or the
// remaining stock was short.
func DecrementQuantity(ctx context.Context, q Queryer, id string, qty int32) (domain.Item, error) {
	itemUUID, err := uuid.Parse(id)
	if err != nil {
		return domain.Item{}, err
	}

	var (
		it    domain.Item
		rowID uuid.UUID
	)
	err = q.QueryRowContext(ctx, `
		UPDATE items
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING id, name, price_amount, currency, quantity, created_at, updated_at`,
		itemUUID, qty,
	).Scan(&rowID, &it.Name, &it.Price.Amount, &it.Price.Currency,
		&it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return domain.Item{}, err
	}
	it.ID = rowID.String()
	return it, nil
}

// IncrementQuantity is the ledger's release. No ceiling: callers restore
// exactly what they reserved.
func IncrementQuantity(ctx context.Context, q Queryer, id string, qty int32) error {
	itemUUID, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx, `
		UPDATE items
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1`, itemUUID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
