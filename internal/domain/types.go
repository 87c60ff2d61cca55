package domain

import "time"

// Side represents the order side (buy or sell).
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderStatus represents the lifecycle state of a child order.
type OrderStatus string

const (
	OrderStatusActive   OrderStatus = "active"
	OrderStatusFilled   OrderStatus = "filled"
	OrderStatusCanceled OrderStatus = "canceled"
)

// Order is a strategy child order resting against the public book.
// Prices are in cents (int64) to avoid floating-point issues.
// Side, price and quantity are fixed at creation; only FilledQuantity and
// Status change afterwards, and a cancel freezes FilledQuantity for good.
// Orders are never deleted; the book keeps the full lifetime list.
type Order struct {
	OrderID        int64       `json:"order_id"`
	Side           Side        `json:"side"`
	Price          int64       `json:"price"` // in cents, e.g. 10010 = $100.10
	Quantity       int64       `json:"quantity"`
	FilledQuantity int64       `json:"filled_quantity"`
	Status         OrderStatus `json:"status"`
	CreatedSeq     uint64      `json:"created_seq"` // time-priority key among same-price orders
	CreatedAt      time.Time   `json:"created_at"`
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() int64 {
	return o.Quantity - o.FilledQuantity
}

// IsActive reports whether the order can still be matched or canceled.
func (o *Order) IsActive() bool {
	return o.Status == OrderStatusActive
}

// PriceLevel is an aggregated (price, displayed quantity) pair on one side
// of the public book.
type PriceLevel struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
}

// Tick is one full-depth market data snapshot. Its level sequences replace
// the displayed public depth wholesale: bids descending, asks ascending.
type Tick struct {
	Venue        string       `json:"venue"`
	InstrumentID int64        `json:"instrument_id"`
	Source       string       `json:"source"`
	Bids         []PriceLevel `json:"bids"`
	Asks         []PriceLevel `json:"asks"`
}

// Execution records a fill of a child order against one public price level.
// Exec IDs are derived from the dispatch sequence so identical input
// sequences produce identical trails.
type Execution struct {
	ExecID   string    `json:"exec_id"`
	OrderID  int64     `json:"order_id"`
	Side     Side      `json:"side"`
	Price    int64     `json:"price"` // level price the fill consumed
	Quantity int64     `json:"quantity"`
	Seq      uint64    `json:"seq"`
	Time     time.Time `json:"time"`
}

// Candlestick represents OHLCV data aggregated from executions.
type Candlestick struct {
	Open      int64     `json:"open"`
	High      int64     `json:"high"`
	Low       int64     `json:"low"`
	Close     int64     `json:"close"`
	Volume    int64     `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
	Interval  string    `json:"interval"` // e.g. "1m"
}
