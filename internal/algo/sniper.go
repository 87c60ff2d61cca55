package algo

import (
	"log/slog"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/marketdata"
)

// SniperLogic lifts the far touch: it buys whatever quantity the best ask
// displays, at the ask price, until it has created maxChildren orders.
type SniperLogic struct {
	logger *slog.Logger
}

const sniperMaxChildren = 5

// NewSniperLogic creates the sniper strategy.
func NewSniperLogic() *SniperLogic {
	return &SniperLogic{logger: slog.Default().With(slog.String("strategy", "sniper"))}
}

// Evaluate snipes the best ask until enough children exist.
func (l *SniperLogic) Evaluate(state *marketdata.Snapshot) domain.Action {
	farTouch, ok := state.AskAt(0)
	if !ok {
		return domain.NoAction{}
	}

	if len(state.ChildOrders()) < sniperMaxChildren {
		l.logger.Info("sniping far touch",
			slog.Int("children", len(state.ChildOrders())),
			slog.Int64("quantity", farTouch.Quantity),
			slog.Int64("price", farTouch.Price),
		)
		return domain.CreateOrder{Side: domain.SideBuy, Quantity: farTouch.Quantity, Price: farTouch.Price}
	}
	return domain.NoAction{}
}
