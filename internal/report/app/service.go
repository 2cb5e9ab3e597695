package app

import (
	"context"

	"github.com/dwikikusuma/shopcore/internal/report/domain"
	"golang.org/x/sync/errgroup"
)

const topSpenderLimit = 5

type Service struct {
	repo ReportRepo
}

func NewService(repo ReportRepo) *Service {
	return &Service{repo: repo}
}

// Summary runs the three aggregate reads concurrently and normalizes
// the month buckets so every month 1-12 is present.
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	var (
		counters domain.Counters
		byMonth  map[int]int64
		spenders []domain.Spender
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counters, err = s.repo.Counters(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		byMonth, err = s.repo.RevenueByMonth(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		spenders, err = s.repo.TopSpenders(ctx, topSpenderLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Summary{}, err
	}

	monthly := make(map[int]int64, 12)
	for month := 1; month <= 12; month++ {
		monthly[month] = byMonth[month]
	}

	if spenders == nil {
		spenders = []domain.Spender{}
	}

	return domain.Summary{
		Counters:       counters,
		MonthlyRevenue: monthly,
		TopSpenders:    spenders,
	}, nil
}
