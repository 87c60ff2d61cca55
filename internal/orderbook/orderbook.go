package orderbook

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathanyu/backtest-venue/internal/clock"
	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/telemetry"
)

// ErrInvalidOrder rejects create requests with non-positive quantity or
// negative price. The book state is untouched by a rejected request.
var ErrInvalidOrder = errors.New("invalid order parameters")

// OrderBook owns the public depth and the full set of child orders for one
// instrument. Depth is wholesale-replaced by each tick; child orders are
// matched against it and retained for the lifetime of the run.
//
// The book is mutated only from the sequencer's dispatch path, so it needs
// no locking of its own.
type OrderBook struct {
	clock *clock.TradingDay

	// Visible depth, best-first: bids descending, asks ascending by price.
	bids []domain.PriceLevel
	asks []domain.PriceLevel

	orders []*domain.Order         // lifetime list, in creation order
	byID   map[int64]*domain.Order // order ID -> order
	execs  []domain.Execution

	nextOrderID int64
}

// NewOrderBook creates an empty book reading timestamps from the given clock.
func NewOrderBook(clk *clock.TradingDay) *OrderBook {
	return &OrderBook{
		clock: clk,
		byID:  make(map[int64]*domain.Order),
	}
}

// ApplyTick replaces both sides of the public depth with the tick's levels,
// then runs the matching pass. An empty side in the tick yields an empty
// book side. Depletion from a previous tick's matching never carries over.
func (ob *OrderBook) ApplyTick(tick domain.Tick, seq uint64) {
	ob.bids = normalizeSide(tick.Bids, domain.SideBuy)
	ob.asks = normalizeSide(tick.Asks, domain.SideSell)

	ob.match(seq)

	telemetry.BookDepth.WithLabelValues(string(domain.SideBuy)).Set(float64(len(ob.bids)))
	telemetry.BookDepth.WithLabelValues(string(domain.SideSell)).Set(float64(len(ob.asks)))
}

// normalizeSide copies levels, drops empty ones, and keeps the side
// best-first regardless of feed ordering.
func normalizeSide(levels []domain.PriceLevel, side domain.Side) []domain.PriceLevel {
	out := make([]domain.PriceLevel, 0, len(levels))
	for _, l := range levels {
		if l.Quantity > 0 {
			out = append(out, l)
		}
	}
	if side == domain.SideBuy {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	}
	return out
}

// CreateOrder allocates a new child order with the next ID and the event's
// sequence number as its time-priority key. Quantity must be positive and
// price non-negative.
func (ob *OrderBook) CreateOrder(side domain.Side, quantity, price int64, seq uint64) (*domain.Order, error) {
	if quantity <= 0 || price < 0 {
		return nil, fmt.Errorf("%w: quantity=%d price=%d", ErrInvalidOrder, quantity, price)
	}
	if side != domain.SideBuy && side != domain.SideSell {
		return nil, fmt.Errorf("%w: side=%q", ErrInvalidOrder, side)
	}

	ob.nextOrderID++
	order := &domain.Order{
		OrderID:    ob.nextOrderID,
		Side:       side,
		Price:      price,
		Quantity:   quantity,
		Status:     domain.OrderStatusActive,
		CreatedSeq: seq,
		CreatedAt:  ob.clock.Now(),
	}
	ob.orders = append(ob.orders, order)
	ob.byID[order.OrderID] = order

	telemetry.OrdersTotal.WithLabelValues("create").Inc()
	return order, nil
}

// CancelOrder cancels an active order, freezing its filled quantity.
// Canceling a filled, canceled or unknown order is a no-op, so cancellation
// is idempotent. The affected order (or nil) is returned.
func (ob *OrderBook) CancelOrder(orderID int64) *domain.Order {
	order, exists := ob.byID[orderID]
	if !exists || !order.IsActive() {
		return nil
	}
	order.Status = domain.OrderStatusCanceled
	telemetry.OrdersTotal.WithLabelValues("cancel").Inc()
	return order
}

// match runs the matching pass: active orders in ascending creation
// sequence fill against the opposite side's levels, best price first.
// Level depletion is visible to later orders in the same pass, so the
// earliest orders to reach a thin level take its liquidity.
func (ob *OrderBook) match(seq uint64) {
	execIdx := 0
	for _, order := range ob.orders {
		if !order.IsActive() {
			continue
		}
		if order.Side == domain.SideBuy {
			ob.asks = ob.fill(order, ob.asks, seq, &execIdx)
		} else {
			ob.bids = ob.fill(order, ob.bids, seq, &execIdx)
		}
	}
}

// fill consumes opposing levels while the order stays marketable: a BUY
// while its price >= the best remaining ask, a SELL while its price <= the
// best remaining bid. Fully consumed levels are removed, shifting the next
// level up one index.
func (ob *OrderBook) fill(order *domain.Order, levels []domain.PriceLevel, seq uint64, execIdx *int) []domain.PriceLevel {
	for order.Remaining() > 0 && len(levels) > 0 {
		level := &levels[0]
		if order.Side == domain.SideBuy && order.Price < level.Price {
			break
		}
		if order.Side == domain.SideSell && order.Price > level.Price {
			break
		}

		qty := min(order.Remaining(), level.Quantity)
		order.FilledQuantity += qty
		level.Quantity -= qty
		if order.Remaining() == 0 {
			order.Status = domain.OrderStatusFilled
		}

		*execIdx++
		ob.execs = append(ob.execs, domain.Execution{
			ExecID:   fmt.Sprintf("%d-%d", seq, *execIdx),
			OrderID:  order.OrderID,
			Side:     order.Side,
			Price:    level.Price,
			Quantity: qty,
			Seq:      seq,
			Time:     ob.clock.Now(),
		})
		telemetry.FillsTotal.Inc()
		telemetry.FilledQuantity.Add(float64(qty))

		if level.Quantity == 0 {
			levels = levels[1:]
		}
	}
	return levels
}

// Orders returns the full lifetime order list in creation order.
func (ob *OrderBook) Orders() []*domain.Order {
	return ob.orders
}

// ActiveOrders returns the orders that are neither filled nor canceled.
func (ob *OrderBook) ActiveOrders() []*domain.Order {
	active := make([]*domain.Order, 0, len(ob.orders))
	for _, o := range ob.orders {
		if o.IsActive() {
			active = append(active, o)
		}
	}
	return active
}

// Order returns the order with the given ID, or nil.
func (ob *OrderBook) Order(orderID int64) *domain.Order {
	return ob.byID[orderID]
}

// Bids returns a copy of the visible bid levels, best first.
func (ob *OrderBook) Bids() []domain.PriceLevel {
	return append([]domain.PriceLevel(nil), ob.bids...)
}

// Asks returns a copy of the visible ask levels, best first.
func (ob *OrderBook) Asks() []domain.PriceLevel {
	return append([]domain.PriceLevel(nil), ob.asks...)
}

// Executions returns the full execution trail in fill order.
func (ob *OrderBook) Executions() []domain.Execution {
	return ob.execs
}
