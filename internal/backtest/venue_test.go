package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/marketdata"
)

type logicFunc func(state *marketdata.Snapshot) domain.Action

func (f logicFunc) Evaluate(state *marketdata.Snapshot) domain.Action { return f(state) }

func levels(pairs ...int64) []domain.PriceLevel {
	out := make([]domain.PriceLevel, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.PriceLevel{Price: pairs[i], Quantity: pairs[i+1]})
	}
	return out
}

func TestVenueEndToEndFill(t *testing.T) {
	venue, err := NewVenue(Options{Logic: logicFunc(func(state *marketdata.Snapshot) domain.Action {
		if len(state.ChildOrders()) == 0 {
			best, ok := state.AskAt(0)
			if !ok {
				return domain.NoAction{}
			}
			return domain.CreateOrder{Side: domain.SideBuy, Quantity: 100, Price: best.Price}
		}
		return domain.NoAction{}
	})})
	require.NoError(t, err)

	// First tick: the strategy lifts the far touch; nothing fills yet.
	require.NoError(t, venue.SendTick(domain.Tick{Asks: levels(101, 500)}))
	snap := venue.Snapshot()
	require.Len(t, snap.ChildOrders(), 1)
	assert.Equal(t, int64(0), snap.TotalFilledQuantity())

	// Second tick restates the level and the resting order trades.
	require.NoError(t, venue.SendTick(domain.Tick{Asks: levels(101, 500)}))
	snap = venue.Snapshot()
	assert.Equal(t, int64(100), snap.TotalFilledQuantity())
	assert.Empty(t, snap.ActiveChildOrders())

	execs := venue.Executions(0)
	require.Len(t, execs, 1)
	assert.Equal(t, int64(101), execs[0].Price)
}

func TestFilledQuantityConservation(t *testing.T) {
	const children = 8
	venue, err := NewVenue(Options{Logic: logicFunc(func(state *marketdata.Snapshot) domain.Action {
		if len(state.ChildOrders()) < children {
			return domain.CreateOrder{Side: domain.SideBuy, Quantity: 100, Price: 100}
		}
		return domain.NoAction{}
	})})
	require.NoError(t, err)

	// The first tick cascades into eight creates before the queue drains.
	require.NoError(t, venue.SendTick(domain.Tick{Bids: levels(90, 10)}))
	require.Len(t, venue.Snapshot().ChildOrders(), children)

	// 851 shares are marketable at or below the limit; demand is 800.
	require.NoError(t, venue.SendTick(domain.Tick{
		Asks: levels(98, 501, 100, 250, 110, 5000),
	}))

	snap := venue.Snapshot()
	assert.Equal(t, int64(751), snap.TotalFilledQuantity())

	var fromExecs int64
	for _, exec := range venue.Executions(0) {
		fromExecs += exec.Quantity
	}
	assert.Equal(t, snap.TotalFilledQuantity(), fromExecs)

	var filled, partial int
	for _, o := range snap.ChildOrders() {
		switch {
		case o.Status == domain.OrderStatusFilled:
			filled++
		case o.FilledQuantity > 0:
			partial++
		}
	}
	assert.Equal(t, 7, filled)
	assert.Equal(t, 1, partial)
}

func TestPlaceAndCancelOrder(t *testing.T) {
	venue, err := NewVenue(Options{})
	require.NoError(t, err)

	order, err := venue.PlaceOrder(domain.SideBuy, 100, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusActive, order.Status)

	_, err = venue.PlaceOrder(domain.SideBuy, 0, 99)
	assert.Error(t, err)

	canceled, err := venue.CancelOrder(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCanceled, canceled.Status)

	_, err = venue.CancelOrder(12345)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRunIsDeterministic(t *testing.T) {
	events := []domain.Event{
		domain.TickEvent{Tick: domain.Tick{Bids: levels(98, 200, 97, 300), Asks: levels(100, 150)}},
		domain.TickEvent{Tick: domain.Tick{Bids: levels(98, 100), Asks: levels(99, 400)}},
		domain.TickEvent{Tick: domain.Tick{Bids: levels(99, 250), Asks: levels(100, 100)}},
	}

	first, err := Run("passive", events, 10)
	require.NoError(t, err)
	second, err := Run("passive", events, 10)
	require.NoError(t, err)

	// Same events, same strategy: identical orders and fills. Only the
	// run ID and wall-clock timestamp may differ.
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Orders, second.Orders)
	assert.Equal(t, first.TotalFilled, second.TotalFilled)
	assert.Equal(t, first.Executions, second.Executions)
	assert.Equal(t, first.Profit, second.Profit)
}

func TestRunReportTallies(t *testing.T) {
	events := []domain.Event{
		domain.TickEvent{Tick: domain.Tick{Bids: levels(98, 200), Asks: levels(100, 150)}},
		domain.TickEvent{Tick: domain.Tick{Bids: levels(98, 500), Asks: levels(100, 150)}},
	}

	report, err := Run("passive", events, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Events)
	assert.Equal(t, "passive", report.Strategy)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, len(report.Orders), report.OrdersCreated)
	assert.Equal(t, report.SellRevenue-report.BuyCost, report.Profit)

	var filled int64
	for _, o := range report.Orders {
		filled += o.FilledQuantity
	}
	assert.Equal(t, filled, report.TotalFilled)
}

func TestRunUnknownStrategy(t *testing.T) {
	_, err := Run("martingale", nil, 10)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	assert.Nil(t, registry.Get("missing"))
	assert.Empty(t, registry.List())

	report := &Report{RunID: "run-1", Strategy: "sniper"}
	registry.Add(report)

	assert.Equal(t, report, registry.Get("run-1"))
	assert.Len(t, registry.List(), 1)
}
