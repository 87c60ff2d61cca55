// Package backtest assembles the venue: sequencer, book, market data view
// and strategy container, wired in the registration order the ordering
// guarantee depends on. Tests and both binaries build venues through it.
package backtest

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nathanyu/backtest-venue/internal/algo"
	"github.com/nathanyu/backtest-venue/internal/clock"
	"github.com/nathanyu/backtest-venue/internal/container"
	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/journal"
	"github.com/nathanyu/backtest-venue/internal/marketdata"
	"github.com/nathanyu/backtest-venue/internal/orderbook"
	"github.com/nathanyu/backtest-venue/internal/sequencer"
)

// ErrOrderNotFound is returned when a cancel targets an unknown order.
var ErrOrderNotFound = errors.New("order not found")

// Options configure a venue.
type Options struct {
	Logic   algo.Logic
	Depth   int
	Journal *journal.Journal // optional event journal
	Logger  *slog.Logger
}

// Venue is one assembled simulation: a sequencer with its consumers in
// fixed order (logging, journal, book, view, strategy container) plus the
// trading-day clock.
//
// All methods funnel through one mutex so a live server can share a venue
// between its feed and its HTTP handlers; a back-test on a single
// goroutine pays nothing for it.
type Venue struct {
	mu sync.Mutex

	Log   *sequencer.Log
	Book  *orderbook.OrderBook
	View  *marketdata.View
	Clock *clock.TradingDay

	container *container.AlgoContainer
}

// NewVenue builds and wires a venue. Consumer registration order is part
// of the venue's contract: the book must see every event before the view
// and the strategy container do.
func NewVenue(opts Options) (*Venue, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	log := sequencer.NewLog()
	clk := clock.NewTradingDay()
	book := orderbook.NewOrderBook(clk)
	view := marketdata.NewView(book, clk, opts.Depth)

	trigger := &container.RunTrigger{}
	actioner := container.NewActioner(log)
	algoContainer := container.NewAlgoContainer(view, trigger, actioner, logger)
	algoContainer.SetLogic(opts.Logic)

	consumers := []sequencer.Consumer{
		sequencer.NewLoggingConsumer(logger),
	}
	if opts.Journal != nil {
		consumers = append(consumers, journal.NewConsumer(opts.Journal))
	}
	consumers = append(consumers,
		orderbook.NewConsumer(book, logger),
		view,
		algoContainer,
	)
	for _, c := range consumers {
		if err := log.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", c.Name(), err)
		}
	}

	return &Venue{
		Log:       log,
		Book:      book,
		View:      view,
		Clock:     clk,
		container: algoContainer,
	}, nil
}

// SetLogic swaps the strategy. Only meaningful before the first event.
func (v *Venue) SetLogic(logic algo.Logic) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.container.SetLogic(logic)
}

// SubmitEvent sequences one event and drains the log, including any events
// the strategy's decisions queued along the way.
func (v *Venue) SubmitEvent(event domain.Event) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Log.Submit(event)
	return v.Log.Drain()
}

// SendTick feeds one market data snapshot through the venue.
func (v *Venue) SendTick(tick domain.Tick) error {
	return v.SubmitEvent(domain.TickEvent{Tick: tick})
}

// PlaceOrder sequences an externally requested child order and returns it
// once the dispatch cycle completes.
func (v *Venue) PlaceOrder(side domain.Side, quantity, price int64) (*domain.Order, error) {
	if quantity <= 0 || price < 0 {
		return nil, fmt.Errorf("%w: quantity=%d price=%d", orderbook.ErrInvalidOrder, quantity, price)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	before := len(v.Book.Orders())
	v.Log.Submit(domain.CreateOrderEvent{Side: side, Quantity: quantity, Price: price})
	if err := v.Log.Drain(); err != nil {
		return nil, err
	}

	orders := v.Book.Orders()
	if len(orders) == before {
		return nil, orderbook.ErrInvalidOrder
	}
	return orders[before], nil
}

// CancelOrder sequences a cancel request for an existing order.
func (v *Venue) CancelOrder(orderID int64) (*domain.Order, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	order := v.Book.Order(orderID)
	if order == nil {
		return nil, ErrOrderNotFound
	}
	v.Log.Submit(domain.CancelOrderEvent{OrderID: orderID})
	if err := v.Log.Drain(); err != nil {
		return nil, err
	}
	return order, nil
}

// Snapshot returns the current state of the world.
func (v *Venue) Snapshot() *marketdata.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.View.Snapshot(v.Log.CurrentSeq())
}

// Order returns one order by ID, or nil.
func (v *Venue) Order(orderID int64) *domain.Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Book.Order(orderID)
}

// Executions returns executions, optionally filtered by order ID (0 = all).
func (v *Venue) Executions(orderID int64) []domain.Execution {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.View.Executions(orderID)
}

// Candles returns the n most recent candlesticks.
func (v *Venue) Candles(n int) []*domain.Candlestick {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.View.Candles(n)
}

// SetTimeOfDay advances the trading-day clock; harness use only.
func (v *Venue) SetTimeOfDay(hour, minute int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Clock.SetTimeOfDay(hour, minute)
}
