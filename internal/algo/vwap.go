package algo

import (
	"log/slog"
	"time"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/marketdata"
)

// VWAPLogic trades around a rolling volume-weighted average price of the
// visible book: it buys when the ask dips below a fraction of VWAP, sells
// when the bid trades rich against it, expires stale unfilled orders, and
// flattens everything at the end of the trading day.
//
// All state is per-instance so two runs never influence each other.
type VWAPLogic struct {
	logger *slog.Logger

	vwap        float64
	initialised bool
	firstTrade  bool
}

const (
	vwapMaxOrders     = 7
	vwapQuantity      = 100
	vwapBuyThreshold  = 0.99 // buy when the ask is slightly below VWAP
	vwapSellThreshold = 0.80 // sell when the bid is close to VWAP
	vwapDefault       = 100.0
	vwapOrderExpiry   = time.Hour
)

// NewVWAPLogic creates the VWAP strategy.
func NewVWAPLogic() *VWAPLogic {
	return &VWAPLogic{
		logger:     slog.Default().With(slog.String("strategy", "vwap")),
		vwap:       vwapDefault,
		firstTrade: true,
	}
}

// Evaluate produces at most one action per cycle: expiry and end-of-day
// cancels take precedence over new trades.
func (l *VWAPLogic) Evaluate(state *marketdata.Snapshot) domain.Action {
	l.updateVWAP(state)

	active := state.ActiveChildOrders()

	if action := l.cancelExpired(state, active); action != nil {
		return action
	}
	if action := l.cancelEndOfDay(state, active); action != nil {
		return action
	}

	bestBid, okBid := state.BidAt(0)
	bestAsk, okAsk := state.AskAt(0)
	if !okBid || !okAsk {
		l.logger.Warn("best bid or ask unavailable")
		return domain.NoAction{}
	}

	buyThreshold := l.vwap * vwapBuyThreshold
	sellThreshold := l.vwap * vwapSellThreshold
	l.logger.Info("thresholds",
		slog.Float64("vwap", l.vwap),
		slog.Float64("buy_threshold", buyThreshold),
		slog.Float64("sell_threshold", sellThreshold),
	)

	if l.firstTrade {
		if action := l.openingTrade(bestBid.Price, bestAsk.Price, buyThreshold, sellThreshold); action != nil {
			return action
		}
	}

	if len(active) < vwapMaxOrders && float64(bestAsk.Price) < buyThreshold {
		l.logger.Info("ask below VWAP buy threshold, buying", slog.Int64("price", bestAsk.Price))
		return domain.CreateOrder{Side: domain.SideBuy, Quantity: vwapQuantity, Price: bestAsk.Price}
	}
	if len(active) < vwapMaxOrders && float64(bestBid.Price) >= sellThreshold {
		l.logger.Info("bid above VWAP sell threshold, selling", slog.Int64("price", bestBid.Price))
		return domain.CreateOrder{Side: domain.SideSell, Quantity: vwapQuantity, Price: bestBid.Price}
	}
	return domain.NoAction{}
}

// openingTrade places the first order of the day as soon as either side
// clears its threshold.
func (l *VWAPLogic) openingTrade(bidPrice, askPrice int64, buyThreshold, sellThreshold float64) domain.Action {
	if float64(askPrice) <= buyThreshold {
		l.firstTrade = false
		return domain.CreateOrder{Side: domain.SideBuy, Quantity: vwapQuantity, Price: askPrice}
	}
	if float64(bidPrice) > sellThreshold {
		l.firstTrade = false
		return domain.CreateOrder{Side: domain.SideSell, Quantity: vwapQuantity, Price: bidPrice}
	}
	return nil
}

// cancelExpired cancels the first active order that sat unfilled past the
// expiry window.
func (l *VWAPLogic) cancelExpired(state *marketdata.Snapshot, active []domain.Order) domain.Action {
	for _, order := range active {
		if order.FilledQuantity == 0 && state.Time.Sub(order.CreatedAt) >= vwapOrderExpiry {
			l.logger.Info("canceling expired order", slog.Int64("order_id", order.OrderID))
			return domain.CancelOrder{OrderID: order.OrderID}
		}
	}
	return nil
}

// cancelEndOfDay flattens remaining orders once the close is reached, one
// per cycle; each cancel event triggers the next evaluation.
func (l *VWAPLogic) cancelEndOfDay(state *marketdata.Snapshot, active []domain.Order) domain.Action {
	if !endOfDay(state.Time) {
		return nil
	}
	if len(active) > 0 {
		l.logger.Info("end of day, canceling order", slog.Int64("order_id", active[0].OrderID))
		return domain.CancelOrder{OrderID: active[0].OrderID}
	}
	return domain.NoAction{}
}

func endOfDay(t time.Time) bool {
	return t.Hour() >= 17
}

// updateVWAP seeds VWAP from the mid on the first book seen, then tracks
// the volume-weighted average of all visible levels.
func (l *VWAPLogic) updateVWAP(state *marketdata.Snapshot) {
	if !l.initialised {
		bid, okBid := state.BidAt(0)
		ask, okAsk := state.AskAt(0)
		if okBid && okAsk {
			l.vwap = float64(bid.Price+ask.Price) / 2.0
		}
		l.initialised = true
		return
	}

	var totalQuantity, priceQuantitySum int64
	for i := 0; i < state.BidLevels(); i++ {
		level, _ := state.BidAt(i)
		totalQuantity += level.Quantity
		priceQuantitySum += level.Price * level.Quantity
	}
	for i := 0; i < state.AskLevels(); i++ {
		level, _ := state.AskAt(i)
		totalQuantity += level.Quantity
		priceQuantitySum += level.Price * level.Quantity
	}
	if totalQuantity > 0 {
		l.vwap = float64(priceQuantitySum) / float64(totalQuantity)
	}
}
