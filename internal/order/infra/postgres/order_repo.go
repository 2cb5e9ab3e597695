package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	invapp "github.com/dwikikusuma/shopcore/internal/inventory/app"
	invpg "github.com/dwikikusuma/shopcore/internal/inventory/infra/postgres"
	"github.com/dwikikusuma/shopcore/internal/order/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// CreateOrderTx runs the whole checkout mutation in one transaction:
// insert the order and its lines, drop the purchased items from the
// user's cart, and decrement stock per line with the ledger's
// conditional write. A short decrement fails the transaction, so no
// partial order is ever visible.
func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	userUUID, err := uuid.Parse(order.UserID)
	if err != nil {
		return domain.Order{}, err
	}

	var created domain.Order

	err = r.execTX(ctx, func(tx *sql.Tx) error {
		var orderID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (user_id, status, currency, total_quantity, total_amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			userUUID, order.Status, order.Currency, order.TotalQuantity, order.TotalAmount,
		).Scan(&orderID, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		itemUUIDs := make([]uuid.UUID, 0, len(order.Lines))
		createdLines := make([]domain.OrderLine, 0, len(order.Lines))

		for i, line := range order.Lines {
			itemUUID, err := uuid.Parse(line.ItemID)
			if err != nil {
				return fmt.Errorf("line %d: invalid item id: %w", i, err)
			}
			itemUUIDs = append(itemUUIDs, itemUUID)

			var lineID uuid.UUID
			err = tx.QueryRowContext(ctx, `
				INSERT INTO order_lines (order_id, item_id, name, user_id, unit_amount, quantity)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				orderID, itemUUID, line.Name, userUUID, line.UnitAmount, line.Quantity,
			).Scan(&lineID)
			if err != nil {
				return fmt.Errorf("failed to insert line %d: %w", i, err)
			}

			line.ID = lineID.String()
			line.OrderID = orderID.String()
			createdLines = append(createdLines, line)
		}

		// Only the purchased items leave the cart; unrelated lines stay.
		_, err = tx.ExecContext(ctx, `
			DELETE FROM cart_lines
			WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)
			  AND item_id = ANY($2)`, userUUID, pq.Array(itemUUIDs))
		if err != nil {
			return fmt.Errorf("failed to clear cart lines: %w", err)
		}

		for i, line := range order.Lines {
			_, err := invpg.DecrementQuantity(ctx, tx, line.ItemID, line.Quantity)
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to reserve stock for line %d: %w", i, err)
			}
			return insufficientStock(ctx, tx, line)
		}

		created.ID = orderID.String()
		created.UserID = order.UserID
		created.Status = order.Status
		created.Currency = order.Currency
		created.TotalQuantity = order.TotalQuantity
		created.TotalAmount = order.TotalAmount
		created.Lines = createdLines
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

// insufficientStock builds the typed failure for a decrement that
// matched no row. The surrounding transaction is still usable because a
// conditional UPDATE that matches nothing is not a statement error.
func insufficientStock(ctx context.Context, tx *sql.Tx, line domain.OrderLine) error {
	items, err := invpg.GetItemsByIDs(ctx, tx, []string{line.ItemID})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: %s", invapp.ErrItemNotFound, line.ItemID)
	}
	return &invapp.InsufficientStockError{
		ItemID:    line.ItemID,
		Name:      items[0].Name,
		Requested: line.Quantity,
		Available: items[0].Quantity,
	}
}

func (r *OrderRepo) GetByID(ctx context.Context, orderID string) (domain.Order, error) {
	return r.getOne(ctx, `
		SELECT id, user_id, status, currency, total_quantity, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1`, orderID)
}

func (r *OrderRepo) GetByIDAndUser(ctx context.Context, orderID, userID string) (domain.Order, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Order{}, err
	}
	return r.getOne(ctx, `
		SELECT id, user_id, status, currency, total_quantity, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2`, orderID, userUUID)
}

func (r *OrderRepo) getOne(ctx context.Context, query string, orderID string, args ...any) (domain.Order, error) {
	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	queryArgs := append([]any{orderUUID}, args...)

	var order domain.Order
	var id, uid uuid.UUID
	err = r.db.QueryRowContext(ctx, query, queryArgs...).Scan(
		&id, &uid, &order.Status, &order.Currency,
		&order.TotalQuantity, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	order.ID = id.String()
	order.UserID = uid.String()

	lines, err := r.listLines(ctx, []uuid.UUID{id})
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines[order.ID]
	return order, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, status, currency, total_quantity, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	var orderIDs []uuid.UUID
	for rows.Next() {
		var order domain.Order
		var id, uid uuid.UUID
		if err := rows.Scan(&id, &uid, &order.Status, &order.Currency,
			&order.TotalQuantity, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		order.ID = id.String()
		order.UserID = uid.String()
		orders = append(orders, order)
		orderIDs = append(orderIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lines, err := r.listLines(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (r *OrderRepo) listLines(ctx context.Context, orderIDs []uuid.UUID) (map[string][]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, item_id, name, user_id, unit_amount, quantity
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY created_at`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderLine, len(orderIDs))
	for rows.Next() {
		var line domain.OrderLine
		var id, orderID, itemID, userID uuid.UUID
		if err := rows.Scan(&id, &orderID, &itemID, &line.Name, &userID,
			&line.UnitAmount, &line.Quantity); err != nil {
			return nil, err
		}
		line.ID = id.String()
		line.OrderID = orderID.String()
		line.ItemID = itemID.String()
		line.UserID = userID.String()
		out[line.OrderID] = append(out[line.OrderID], line)
	}
	return out, rows.Err()
}

// CancelTx flips the status and restores each line's reserved quantity
// in one transaction. The status guard sits in the UPDATE itself, so a
// concurrent complete/cancel cannot double-apply the restock.
func (r *OrderRepo) CancelTx(ctx context.Context, order domain.Order) error {
	orderUUID, err := uuid.Parse(order.ID)
	if err != nil {
		return err
	}

	return r.execTX(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE orders
			SET status = $2, updated_at = now()
			WHERE id = $1 AND status = $3`,
			orderUUID, domain.StatusCancelled, domain.StatusPending)
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

		for i, line := range order.Lines {
			if err := invpg.IncrementQuantity(ctx, tx, line.ItemID, line.Quantity); err != nil {
				return fmt.Errorf("failed to restore stock for line %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *OrderRepo) MarkCompleted(ctx context.Context, orderID string) error {
	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		orderUUID, domain.StatusCompleted, domain.StatusPending)
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
