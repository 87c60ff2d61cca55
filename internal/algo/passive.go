package algo

import (
	"log/slog"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/marketdata"
)

// PassiveLogic joins the passive side of the book: it keeps up to
// maxChildren buy orders resting at the best bid and then waits to be
// filled, never crossing the spread.
type PassiveLogic struct {
	logger *slog.Logger
}

const (
	passiveMaxChildren = 3
	passiveQuantity    = 75
)

// NewPassiveLogic creates the passive strategy.
func NewPassiveLogic() *PassiveLogic {
	return &PassiveLogic{logger: slog.Default().With(slog.String("strategy", "passive"))}
}

// Evaluate joins the near touch until enough children exist.
func (l *PassiveLogic) Evaluate(state *marketdata.Snapshot) domain.Action {
	nearTouch, ok := state.BidAt(0)
	if !ok {
		return domain.NoAction{}
	}

	if len(state.ChildOrders()) < passiveMaxChildren {
		l.logger.Info("joining passive side",
			slog.Int("children", len(state.ChildOrders())),
			slog.Int64("quantity", passiveQuantity),
			slog.Int64("price", nearTouch.Price),
		)
		return domain.CreateOrder{Side: domain.SideBuy, Quantity: passiveQuantity, Price: nearTouch.Price}
	}
	return domain.NoAction{}
}
