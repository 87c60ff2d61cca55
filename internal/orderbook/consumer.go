package orderbook

import (
	"errors"
	"log/slog"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/telemetry"
)

// Consumer adapts the book to the sequencer: ticks replace depth and run
// the matching pass, order events create or cancel child orders.
type Consumer struct {
	book   *OrderBook
	logger *slog.Logger
}

// NewConsumer wraps a book for registration with the event log.
func NewConsumer(book *OrderBook, logger *slog.Logger) *Consumer {
	return &Consumer{book: book, logger: telemetry.Component(logger, "orderbook")}
}

func (c *Consumer) Name() string { return "orderbook" }

// OnEvent applies one sequenced event to the book. A malformed create
// request is rejected and logged but does not abort the dispatch cycle:
// the book state stays intact, which is all the sequencer requires.
func (c *Consumer) OnEvent(seq uint64, event domain.Event) error {
	switch e := event.(type) {
	case domain.TickEvent:
		c.book.ApplyTick(e.Tick, seq)
	case domain.CreateOrderEvent:
		order, err := c.book.CreateOrder(e.Side, e.Quantity, e.Price, seq)
		if err != nil {
			if errors.Is(err, ErrInvalidOrder) {
				c.logger.Warn("rejected order", slog.Uint64("seq", seq), slog.String("error", err.Error()))
				return nil
			}
			return err
		}
		c.logger.Info("order created",
			slog.Uint64("seq", seq),
			slog.Int64("order_id", order.OrderID),
			slog.String("side", string(order.Side)),
			slog.Int64("quantity", order.Quantity),
			slog.Int64("price", order.Price),
		)
	case domain.CancelOrderEvent:
		if order := c.book.CancelOrder(e.OrderID); order != nil {
			c.logger.Info("order canceled",
				slog.Uint64("seq", seq),
				slog.Int64("order_id", order.OrderID),
				slog.Int64("filled_quantity", order.FilledQuantity),
			)
		}
	}
	return nil
}
