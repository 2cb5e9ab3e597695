package domain

type Counters struct {
	UserCount   int64
	OrderCount  int64
	ItemCount   int64
	TotalAmount int64
}

type Spender struct {
	UserID      string
	Name        string
	TotalAmount int64
}

// Summary aggregates committed orders. MonthlyRevenue always carries
// all twelve calendar months; months without orders map to 0.
type Summary struct {
	Counters       Counters
	MonthlyRevenue map[int]int64
	TopSpenders    []Spender
}
