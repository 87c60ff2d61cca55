package journal

import "github.com/nathanyu/backtest-venue/internal/domain"

// Consumer records every dispatched event. A write failure aborts the
// dispatch cycle: a run whose journal is incomplete cannot be replayed, so
// the harness must know immediately.
type Consumer struct {
	journal *Journal
}

// NewConsumer wraps a journal for registration with the event log.
func NewConsumer(j *Journal) *Consumer {
	return &Consumer{journal: j}
}

func (c *Consumer) Name() string { return "journal" }

func (c *Consumer) OnEvent(seq uint64, event domain.Event) error {
	return c.journal.Append(seq, event)
}
