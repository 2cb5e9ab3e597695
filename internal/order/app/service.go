package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	invapp "github.com/dwikikusuma/shopcore/internal/inventory/app"
	"github.com/dwikikusuma/shopcore/internal/order/domain"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type Service struct {
	repo    OrderRepo
	items   ItemReader
	reviews ReviewReader
	events  Publisher
	log     *slog.Logger
}

func NewService(repo OrderRepo, items ItemReader, reviews ReviewReader, events Publisher, log *slog.Logger) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	return &Service{
		repo:    repo,
		items:   items,
		reviews: reviews,
		events:  events,
		log:     log,
	}
}

// Checkout converts the requested cart lines into a PENDING order,
// reserving stock for every line. The order, its lines, the cart-line
// removal, and the stock decrements commit together or not at all.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.Order, error) {
	if len(req.Lines) == 0 {
		return domain.Order{}, fmt.Errorf("%w: no lines given", ErrInvalidInput)
	}

	ids := make([]string, 0, len(req.Lines))
	for i, line := range req.Lines {
		if line.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("%w: line %d: quantity must be positive, got %d", ErrInvalidInput, i, line.Quantity)
		}
		ids = append(ids, line.ItemID)
	}

	items, err := s.items.Lookup(ctx, ids)
	if err != nil {
		return domain.Order{}, err
	}
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	// Advisory check so obviously short requests fail before touching
	// the store. The authoritative check is the conditional decrement
	// inside CreateOrderTx.
	var (
		totalQuantity int32
		totalAmount   int64
		currency      string
	)
	lines := make([]domain.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		item := byID[line.ItemID]
		// An order carries one currency; amounts in different
		// currencies must not be summed.
		if currency == "" {
			currency = item.Currency
		} else if item.Currency != currency {
			return domain.Order{}, fmt.Errorf("%w: item %s is priced in %s, order currency is %s",
				ErrInvalidInput, item.ID, item.Currency, currency)
		}
		if line.Quantity > item.Quantity {
			return domain.Order{}, &invapp.InsufficientStockError{
				ItemID:    item.ID,
				Name:      item.Name,
				Requested: line.Quantity,
				Available: item.Quantity,
			}
		}

		lines = append(lines, domain.OrderLine{
			ItemID:     item.ID,
			Name:       item.Name,
			UserID:     req.UserID,
			UnitAmount: item.UnitAmount,
			Quantity:   line.Quantity,
		})
		totalQuantity += line.Quantity
		totalAmount += item.UnitAmount * int64(line.Quantity)
	}

	order := domain.Order{
		UserID:        req.UserID,
		Status:        domain.StatusPending,
		Currency:      currency,
		TotalQuantity: totalQuantity,
		TotalAmount:   totalAmount,
		Lines:         lines,
	}

	created, err := s.repo.CreateOrderTx(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	s.publish(ctx, EventOrderPlaced, created)
	return created, nil
}

// Cancel moves a PENDING order to CANCELLED and restores each line's
// item quantity by exactly what was reserved at checkout.
func (s *Service) Cancel(ctx context.Context, orderID, userID string) (domain.Order, error) {
	order, err := s.repo.GetByIDAndUser(ctx, orderID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	if err != nil {
		return domain.Order{}, err
	}

	if order.Status != domain.StatusPending {
		return domain.Order{}, fmt.Errorf("%w: cannot cancel %s order %s", ErrInvalidTransition, order.Status, orderID)
	}

	if err := s.repo.CancelTx(ctx, order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race with another transition.
			return domain.Order{}, fmt.Errorf("%w: order %s is no longer pending", ErrInvalidTransition, orderID)
		}
		return domain.Order{}, err
	}

	order.Status = domain.StatusCancelled
	s.publish(ctx, EventOrderCancelled, order)
	return order, nil
}

// Complete finalizes a PENDING order. Stock was committed at checkout,
// so there is no inventory effect.
func (s *Service) Complete(ctx context.Context, orderID string) (domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	if err != nil {
		return domain.Order{}, err
	}

	if order.Status != domain.StatusPending {
		return domain.Order{}, fmt.Errorf("%w: cannot complete %s order %s", ErrInvalidTransition, order.Status, orderID)
	}

	if err := s.repo.MarkCompleted(ctx, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("%w: order %s is no longer pending", ErrInvalidTransition, orderID)
		}
		return domain.Order{}, err
	}

	order.Status = domain.StatusCompleted
	s.publish(ctx, EventOrderCompleted, order)
	return order, nil
}

// List returns the user's orders with each line annotated with whether
// the user has already reviewed it. The flag is computed at read time,
// never stored.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	reviewed, err := s.reviews.ReviewedLineIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for j := range orders[i].Lines {
			_, ok := reviewed[orders[i].Lines[j].ID]
			orders[i].Lines[j].Reviewed = ok
		}
	}
	return orders, nil
}

func (s *Service) publish(ctx context.Context, eventType string, order domain.Order) {
	if err := s.events.Publish(ctx, eventType, order); err != nil {
		s.log.Error("publish order event failed",
			slog.String("event", eventType),
			slog.String("order_id", order.ID),
			slog.Any("err", err))
	}
}
