package sequencer

import (
	"log/slog"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/telemetry"
)

// LoggingConsumer logs every dispatched event. Register it first so the
// trace shows the event before any component reacts to it.
type LoggingConsumer struct {
	logger *slog.Logger
}

// NewLoggingConsumer creates a consumer logging to the given logger.
func NewLoggingConsumer(logger *slog.Logger) *LoggingConsumer {
	return &LoggingConsumer{logger: telemetry.Component(logger, "sequencer")}
}

func (c *LoggingConsumer) Name() string { return "logging" }

func (c *LoggingConsumer) OnEvent(seq uint64, event domain.Event) error {
	switch e := event.(type) {
	case domain.TickEvent:
		c.logger.Info("event",
			slog.Uint64("seq", seq),
			slog.String("kind", e.Kind()),
			slog.Int("bid_levels", len(e.Tick.Bids)),
			slog.Int("ask_levels", len(e.Tick.Asks)),
		)
	case domain.CreateOrderEvent:
		c.logger.Info("event",
			slog.Uint64("seq", seq),
			slog.String("kind", e.Kind()),
			slog.String("side", string(e.Side)),
			slog.Int64("quantity", e.Quantity),
			slog.Int64("price", e.Price),
		)
	case domain.CancelOrderEvent:
		c.logger.Info("event",
			slog.Uint64("seq", seq),
			slog.String("kind", e.Kind()),
			slog.Int64("order_id", e.OrderID),
		)
	default:
		c.logger.Info("event", slog.Uint64("seq", seq), slog.String("kind", event.Kind()))
	}
	return nil
}
