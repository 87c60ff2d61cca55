package marketdata

import (
	"time"

	"github.com/nathanyu/backtest-venue/internal/clock"
	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/orderbook"
)

// Snapshot is the read-only "state of the world" handed to a strategy for
// one evaluation: best-N levels per side and the full child order history,
// copied out of the book so the strategy can never mutate venue state.
type Snapshot struct {
	Seq    uint64              `json:"seq"`
	Time   time.Time           `json:"time"`
	Bids   []domain.PriceLevel `json:"bids"`
	Asks   []domain.PriceLevel `json:"asks"`
	Orders []domain.Order      `json:"orders"`
}

// BidAt returns the bid level at index i (0 = best). The second result is
// false beyond the available depth; strategies probe levels freely.
func (s *Snapshot) BidAt(i int) (domain.PriceLevel, bool) {
	if i < 0 || i >= len(s.Bids) {
		return domain.PriceLevel{}, false
	}
	return s.Bids[i], true
}

// AskAt returns the ask level at index i (0 = best), false beyond depth.
func (s *Snapshot) AskAt(i int) (domain.PriceLevel, bool) {
	if i < 0 || i >= len(s.Asks) {
		return domain.PriceLevel{}, false
	}
	return s.Asks[i], true
}

// BidLevels returns the visible bid depth.
func (s *Snapshot) BidLevels() int { return len(s.Bids) }

// AskLevels returns the visible ask depth.
func (s *Snapshot) AskLevels() int { return len(s.Asks) }

// ChildOrders returns the full lifetime order list in creation order.
func (s *Snapshot) ChildOrders() []domain.Order { return s.Orders }

// ActiveChildOrders returns the orders that are neither filled nor canceled.
func (s *Snapshot) ActiveChildOrders() []domain.Order {
	active := make([]domain.Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		if o.Status == domain.OrderStatusActive {
			active = append(active, o)
		}
	}
	return active
}

// TotalFilledQuantity sums filled quantity across all child orders.
func (s *Snapshot) TotalFilledQuantity() int64 {
	var total int64
	for _, o := range s.Orders {
		total += o.FilledQuantity
	}
	return total
}

// View derives snapshots and market data history from the book on demand.
// It holds no book state of its own, so a snapshot taken between dispatch
// cycles is always internally consistent.
type View struct {
	book  *orderbook.OrderBook
	clock *clock.TradingDay
	depth int

	candles  *RingBuffer
	current  *domain.Candlestick
	lastExec int
}

// DefaultDepth is the number of levels exposed per side when none is given.
const DefaultDepth = 10

// NewView creates a view over the book exposing up to depth levels per side.
func NewView(book *orderbook.OrderBook, clk *clock.TradingDay, depth int) *View {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &View{
		book:    book,
		clock:   clk,
		depth:   depth,
		candles: &RingBuffer{},
	}
}

// Snapshot captures the current book state. It must only be called once the
// current event's effects are fully applied, which the consumer ordering
// guarantees: the book is registered ahead of anything taking snapshots.
func (v *View) Snapshot(seq uint64) *Snapshot {
	orders := v.book.Orders()
	copied := make([]domain.Order, len(orders))
	for i, o := range orders {
		copied[i] = *o
	}

	return &Snapshot{
		Seq:    seq,
		Time:   v.clock.Now(),
		Bids:   truncate(v.book.Bids(), v.depth),
		Asks:   truncate(v.book.Asks(), v.depth),
		Orders: copied,
	}
}

func truncate(levels []domain.PriceLevel, depth int) []domain.PriceLevel {
	if len(levels) > depth {
		return levels[:depth]
	}
	return levels
}

// Executions returns executions, optionally filtered by order ID (0 = all).
func (v *View) Executions(orderID int64) []domain.Execution {
	var result []domain.Execution
	for _, exec := range v.book.Executions() {
		if orderID != 0 && exec.OrderID != orderID {
			continue
		}
		result = append(result, exec)
	}
	return result
}

// Candles returns the n most recent candlesticks, including the one still
// building.
func (v *View) Candles(n int) []*domain.Candlestick {
	result := v.candles.GetRecent(n)
	if v.current != nil {
		result = append(result, v.current)
	}
	if n > 0 && len(result) > n {
		result = result[len(result)-n:]
	}
	return result
}

// Name implements sequencer.Consumer.
func (v *View) Name() string { return "marketdata" }

// OnEvent folds executions produced this cycle into the candle history.
// Register the view after the book so it observes the cycle's fills.
func (v *View) OnEvent(seq uint64, event domain.Event) error {
	execs := v.book.Executions()
	for ; v.lastExec < len(execs); v.lastExec++ {
		v.updateCandle(execs[v.lastExec])
	}
	return nil
}

const candleInterval = time.Minute

// updateCandle updates the building candlestick, rotating it into the ring
// buffer when an execution crosses the interval boundary.
func (v *View) updateCandle(exec domain.Execution) {
	bucket := exec.Time.Truncate(candleInterval)

	if v.current != nil && !v.current.Timestamp.Equal(bucket) {
		v.candles.Push(v.current)
		v.current = nil
	}

	if v.current == nil {
		v.current = &domain.Candlestick{
			Open:      exec.Price,
			High:      exec.Price,
			Low:       exec.Price,
			Close:     exec.Price,
			Volume:    exec.Quantity,
			Timestamp: bucket,
			Interval:  "1m",
		}
		return
	}

	c := v.current
	if exec.Price > c.High {
		c.High = exec.Price
	}
	if exec.Price < c.Low {
		c.Low = exec.Price
	}
	c.Close = exec.Price
	c.Volume += exec.Quantity
}
