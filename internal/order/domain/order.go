package domain

import "time"

// Order lifecycle. PENDING is the only non-terminal state: it may move
// to COMPLETED or CANCELLED, never out of either.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

type Order struct {
	ID            string
	UserID        string
	Status        string
	Currency      string
	TotalQuantity int32
	TotalAmount   int64
	Lines         []OrderLine
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderLine is immutable once written. UnitAmount is the item price
// captured at checkout time, not a reference to the live catalog price.
type OrderLine struct {
	ID         string
	OrderID    string
	ItemID     string
	Name       string
	UserID     string
	UnitAmount int64
	Quantity   int32
	Reviewed   bool
}

type CheckoutRequest struct {
	UserID string
	Lines  []CheckoutLine
}

type CheckoutLine struct {
	ItemID   string
	Quantity int32
}
