package domain

import "time"

type Money struct {
	Currency string
	Amount   int64
}

// Item is a single stock-keeping unit. Quantity is mutated only through
// the ledger's Reserve and Release operations.
type Item struct {
	ID        string
	Name      string
	Price     Money
	Quantity  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}
