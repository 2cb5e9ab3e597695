package app

import (
	"context"

	"github.com/dwikikusuma/shopcore/internal/report/domain"
)

type ReportRepo interface {
	Counters(ctx context.Context) (domain.Counters, error)
	// RevenueByMonth sums order totals per calendar month (1-12) across
	// all observed years. Months with no orders are simply absent.
	RevenueByMonth(ctx context.Context) (map[int]int64, error)
	TopSpenders(ctx context.Context, limit int) ([]domain.Spender, error)
}
