package postgres

import (
	"context"
	"database/sql"

	"github.com/dwikikusuma/shopcore/internal/report/domain"
	"github.com/google/uuid"
)

// ReportRepo aggregates order totals straight off total_amount. Checkout
// rejects mixed-currency orders, so every row is in the store currency and
// the sums need no currency dimension.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) Counters(ctx context.Context) (domain.Counters, error) {
	var c domain.Counters

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM items),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders)`,
	).Scan(&c.UserCount, &c.OrderCount, &c.ItemCount, &c.TotalAmount)
	if err != nil {
		return domain.Counters{}, err
	}
	return c, nil
}

func (r *ReportRepo) RevenueByMonth(ctx context.Context) (map[int]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT EXTRACT(MONTH FROM created_at)::int AS month, SUM(total_amount)
		FROM orders
		GROUP BY month`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]int64)
	for rows.Next() {
		var (
			month int
			total int64
		)
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		out[month] = total
	}
	return out, rows.Err()
}

func (r *ReportRepo) TopSpenders(ctx context.Context, limit int) ([]domain.Spender, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.user_id, u.name, SUM(o.total_amount) AS total
		FROM orders o
		JOIN users u ON u.id = o.user_id
		GROUP BY o.user_id, u.name
		ORDER BY total DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spenders []domain.Spender
	for rows.Next() {
		var sp domain.Spender
		var userID uuid.UUID
		if err := rows.Scan(&userID, &sp.Name, &sp.TotalAmount); err != nil {
			return nil, err
		}
		sp.UserID = userID.String()
		spenders = append(spenders, sp)
	}
	return spenders, rows.Err()
}
