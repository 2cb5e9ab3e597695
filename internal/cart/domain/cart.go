package domain

import "time"

type CartLine struct {
	ID       string
	ItemID   string
	Quantity int32
}

type Cart struct {
	ID        string
	UserID    string
	Lines     []CartLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AddLine is one requested addition. Lines for an item already in the
// cart are merged by incrementing the existing quantity.
type AddLine struct {
	ItemID   string
	Quantity int32
}
