package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dwikikusuma/shopcore/internal/cart/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) GetByUser(ctx context.Context, userID string) (domain.Cart, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Cart{}, err
	}

	var cart domain.Cart
	var id, uid uuid.UUID
	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1`, userUUID,
	).Scan(&id, &uid, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.ID = id.String()
	cart.UserID = uid.String()

	cart.Lines, err = r.listLines(ctx, id)
	return cart, err
}

func (r *CartRepo) GetByID(ctx context.Context, cartID string) (domain.Cart, error) {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return domain.Cart{}, err
	}

	var cart domain.Cart
	var id, uid uuid.UUID
	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE id = $1`, cartUUID,
	).Scan(&id, &uid, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.ID = id.String()
	cart.UserID = uid.String()

	cart.Lines, err = r.listLines(ctx, id)
	return cart, err
}

func (r *CartRepo) Create(ctx context.Context, userID string) (domain.Cart, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Cart{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)`, userUUID)
	if err != nil {
		// Someone else created the cart concurrently: use theirs.
		if !isUniqueViolation(err) {
			return domain.Cart{}, err
		}
	}

	return r.GetByUser(ctx, userID)
}

func (r *CartRepo) UpsertLineIncrement(ctx context.Context, cartID string, line domain.AddLine) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return err
	}
	itemUUID, err := uuid.Parse(line.ItemID)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cart_lines (cart_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, item_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = now()`,
		cartUUID, itemUUID, line.Quantity)
	return err
}

func (r *CartRepo) DeleteLines(ctx context.Context, cartID string, lineIDs []string) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return err
	}
	lineUUIDs := make([]uuid.UUID, 0, len(lineIDs))
	for _, id := range lineIDs {
		u, err := uuid.Parse(id)
		if err != nil {
			return err
		}
		lineUUIDs = append(lineUUIDs, u)
	}

	_, err = r.db.ExecContext(ctx, `
		DELETE FROM cart_lines
		WHERE cart_id = $1 AND id = ANY($2)`, cartUUID, pq.Array(lineUUIDs))
	return err
}

func (r *CartRepo) listLines(ctx context.Context, cartID uuid.UUID) ([]domain.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, quantity
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY created_at`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		var id, itemID uuid.UUID
		if err := rows.Scan(&id, &itemID, &line.Quantity); err != nil {
			return nil, err
		}
		line.ID = id.String()
		line.ItemID = itemID.String()
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
