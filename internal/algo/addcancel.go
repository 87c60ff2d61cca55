package algo

import (
	"log/slog"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/marketdata"
)

// AddCancelLogic alternates between adding a buy order at the best bid and
// canceling it again, capped at a total order count so a run always
// terminates.
type AddCancelLogic struct {
	logger *slog.Logger
}

const addCancelMaxOrders = 20

// NewAddCancelLogic creates the add/cancel exercise strategy.
func NewAddCancelLogic() *AddCancelLogic {
	return &AddCancelLogic{logger: slog.Default().With(slog.String("strategy", "addcancel"))}
}

// Evaluate cancels the oldest active order if one exists, otherwise adds a
// new order at the best bid.
func (l *AddCancelLogic) Evaluate(state *marketdata.Snapshot) domain.Action {
	if len(state.ChildOrders()) > addCancelMaxOrders {
		return domain.NoAction{}
	}

	active := state.ActiveChildOrders()
	if len(active) > 0 {
		child := active[0]
		l.logger.Info("canceling order", slog.Int64("order_id", child.OrderID))
		return domain.CancelOrder{OrderID: child.OrderID}
	}

	level, ok := state.BidAt(0)
	if !ok {
		return domain.NoAction{}
	}
	l.logger.Info("adding order", slog.Int64("quantity", level.Quantity), slog.Int64("price", level.Price))
	return domain.CreateOrder{Side: domain.SideBuy, Quantity: level.Quantity, Price: level.Price}
}
