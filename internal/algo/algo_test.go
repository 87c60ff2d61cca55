package algo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/marketdata"
)

var tradingOpen = time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC)

func snapshot(bids, asks []domain.PriceLevel, orders ...domain.Order) *marketdata.Snapshot {
	return &marketdata.Snapshot{
		Time:   tradingOpen,
		Bids:   bids,
		Asks:   asks,
		Orders: orders,
	}
}

func level(price, qty int64) []domain.PriceLevel {
	return []domain.PriceLevel{{Price: price, Quantity: qty}}
}

func activeOrder(id int64) domain.Order {
	return domain.Order{
		OrderID:   id,
		Side:      domain.SideBuy,
		Price:     100,
		Quantity:  100,
		Status:    domain.OrderStatusActive,
		CreatedAt: tradingOpen,
	}
}

func TestForName(t *testing.T) {
	for _, name := range []string{"passive", "sniper", "addcancel", "vwap"} {
		logic, err := ForName(name)
		require.NoError(t, err, name)
		assert.NotNil(t, logic, name)
	}

	_, err := ForName("martingale")
	assert.Error(t, err)
}

func TestPassiveJoinsBestBid(t *testing.T) {
	logic := NewPassiveLogic()

	// No bid side, nothing to join.
	assert.Equal(t, domain.NoAction{}, logic.Evaluate(snapshot(nil, level(101, 50))))

	action := logic.Evaluate(snapshot(level(99, 200), level(101, 50)))
	assert.Equal(t, domain.CreateOrder{Side: domain.SideBuy, Quantity: 75, Price: 99}, action)
}

func TestPassiveStopsAtMaxChildren(t *testing.T) {
	logic := NewPassiveLogic()
	state := snapshot(level(99, 200), nil, activeOrder(1), activeOrder(2), activeOrder(3))
	assert.Equal(t, domain.NoAction{}, logic.Evaluate(state))
}

func TestSniperLiftsFarTouch(t *testing.T) {
	logic := NewSniperLogic()

	assert.Equal(t, domain.NoAction{}, logic.Evaluate(snapshot(level(99, 200), nil)))

	action := logic.Evaluate(snapshot(nil, level(101, 80)))
	assert.Equal(t, domain.CreateOrder{Side: domain.SideBuy, Quantity: 80, Price: 101}, action)
}

func TestSniperStopsAtMaxChildren(t *testing.T) {
	logic := NewSniperLogic()
	orders := make([]domain.Order, 5)
	for i := range orders {
		orders[i] = activeOrder(int64(i + 1))
	}
	state := snapshot(nil, level(101, 80), orders...)
	assert.Equal(t, domain.NoAction{}, logic.Evaluate(state))
}

func TestAddCancelAlternates(t *testing.T) {
	logic := NewAddCancelLogic()

	// Nothing active: add at the best bid.
	action := logic.Evaluate(snapshot(level(99, 200), nil))
	assert.Equal(t, domain.CreateOrder{Side: domain.SideBuy, Quantity: 200, Price: 99}, action)

	// Something active: cancel the oldest.
	action = logic.Evaluate(snapshot(level(99, 200), nil, activeOrder(7)))
	assert.Equal(t, domain.CancelOrder{OrderID: 7}, action)
}

func TestAddCancelStopsAtCap(t *testing.T) {
	logic := NewAddCancelLogic()
	orders := make([]domain.Order, addCancelMaxOrders+1)
	for i := range orders {
		o := activeOrder(int64(i + 1))
		o.Status = domain.OrderStatusCanceled
		orders[i] = o
	}
	state := snapshot(level(99, 200), nil, orders...)
	assert.Equal(t, domain.NoAction{}, logic.Evaluate(state))
}

func TestVWAPOpeningTradeSellsRichBid(t *testing.T) {
	logic := NewVWAPLogic()

	// First book seeds VWAP at the mid (101); the bid clears the sell
	// threshold so the opening trade is a sell at the bid.
	action := logic.Evaluate(snapshot(level(100, 50), level(102, 50)))
	assert.Equal(t, domain.CreateOrder{Side: domain.SideSell, Quantity: 100, Price: 100}, action)
}

func TestVWAPBuysBelowThreshold(t *testing.T) {
	logic := NewVWAPLogic()
	logic.Evaluate(snapshot(level(100, 50), level(102, 50))) // opening trade

	// VWAP moves to 99; the 98 ask sits below the buy threshold.
	action := logic.Evaluate(snapshot(level(100, 50), level(98, 50)))
	assert.Equal(t, domain.CreateOrder{Side: domain.SideBuy, Quantity: 100, Price: 98}, action)
}

func TestVWAPRespectsMaxActiveOrders(t *testing.T) {
	logic := NewVWAPLogic()
	logic.Evaluate(snapshot(level(100, 50), level(102, 50))) // opening trade

	orders := make([]domain.Order, vwapMaxOrders)
	for i := range orders {
		orders[i] = activeOrder(int64(i + 1))
	}
	action := logic.Evaluate(snapshot(level(100, 50), level(98, 50), orders...))
	assert.Equal(t, domain.NoAction{}, action)
}

func TestVWAPCancelsExpiredOrder(t *testing.T) {
	logic := NewVWAPLogic()

	stale := activeOrder(4)
	state := snapshot(level(100, 50), level(102, 50), stale)
	state.Time = tradingOpen.Add(2 * time.Hour)

	assert.Equal(t, domain.CancelOrder{OrderID: 4}, logic.Evaluate(state))
}

func TestVWAPExpiryIgnoresPartialFills(t *testing.T) {
	logic := NewVWAPLogic()

	working := activeOrder(4)
	working.FilledQuantity = 10
	state := snapshot(level(100, 50), level(102, 50), working)
	state.Time = tradingOpen.Add(2 * time.Hour)

	// A partially filled order stays working past the expiry window; the
	// opening trade fires instead.
	action := logic.Evaluate(state)
	assert.NotEqual(t, domain.CancelOrder{OrderID: 4}, action)
}

func TestVWAPFlattensAtEndOfDay(t *testing.T) {
	logic := NewVWAPLogic()

	state := snapshot(level(100, 50), level(102, 50), activeOrder(1), activeOrder(2))
	state.Time = tradingOpen.Add(9 * time.Hour) // 17:00

	assert.Equal(t, domain.CancelOrder{OrderID: 1}, logic.Evaluate(state))

	// Nothing active after the close: stay flat, never trade.
	quiet := snapshot(level(100, 50), level(102, 50))
	quiet.Time = tradingOpen.Add(10 * time.Hour)
	assert.Equal(t, domain.NoAction{}, logic.Evaluate(quiet))
}

func TestVWAPMissingSide(t *testing.T) {
	logic := NewVWAPLogic()
	assert.Equal(t, domain.NoAction{}, logic.Evaluate(snapshot(level(100, 50), nil)))
}
