package sequencer

import (
	"errors"
	"fmt"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/telemetry"
)

// ErrRegistrationClosed is returned when a consumer registers after the
// first dispatch. Delivery order among consumers is fixed for the run.
var ErrRegistrationClosed = errors.New("consumer registration closed after first dispatch")

// Consumer receives every sequenced event exactly once, in registration
// order, on the single dispatch path. An error aborts the current cycle.
type Consumer interface {
	Name() string
	OnEvent(seq uint64, event domain.Event) error
}

// Log imposes one global, replayable order on all inbound events and
// replays them, one at a time, to every registered consumer.
//
// Everything is synchronous and single-threaded: Dispatch returns only
// after all consumers have finished with the event, and events submitted
// during a dispatch (a strategy decision re-entering the venue) are queued
// for a later cycle, never injected mid-cycle. Identical submit sequences
// therefore produce identical consumer observations.
type Log struct {
	consumers   []Consumer
	queue       []domain.Event
	seq         uint64
	dispatching bool
	started     bool
}

// NewLog creates an empty event log.
func NewLog() *Log {
	return &Log{}
}

// Register appends a consumer to the fixed delivery list. All consumers
// must register before the first dispatch.
func (l *Log) Register(c Consumer) error {
	if l.started {
		return ErrRegistrationClosed
	}
	l.consumers = append(l.consumers, c)
	return nil
}

// Submit appends an event to the log. It has no effect on consumers until
// the event is dispatched.
func (l *Log) Submit(event domain.Event) {
	l.queue = append(l.queue, event)
}

// Dispatch delivers the next queued event to all consumers in registration
// order. It returns false when the queue is empty. A consumer error aborts
// the cycle: later consumers do not see the event, and the caller decides
// whether to continue; the log never retries.
func (l *Log) Dispatch() (bool, error) {
	if l.dispatching {
		return false, errors.New("re-entrant dispatch")
	}
	if len(l.queue) == 0 {
		return false, nil
	}

	l.started = true
	l.dispatching = true
	defer func() { l.dispatching = false }()

	event := l.queue[0]
	l.queue = l.queue[1:]
	l.seq++

	telemetry.EventsDispatched.WithLabelValues(event.Kind()).Inc()
	telemetry.SequencerSeq.Set(float64(l.seq))

	for _, c := range l.consumers {
		if err := c.OnEvent(l.seq, event); err != nil {
			telemetry.DispatchFailures.WithLabelValues(c.Name()).Inc()
			return true, fmt.Errorf("consumer %s failed on seq %d (%s): %w", c.Name(), l.seq, event.Kind(), err)
		}
	}
	return true, nil
}

// Drain dispatches until the queue is empty, including events submitted
// re-entrantly along the way.
func (l *Log) Drain() error {
	for {
		dispatched, err := l.Dispatch()
		if err != nil {
			return err
		}
		if !dispatched {
			return nil
		}
	}
}

// CurrentSeq returns the last dispatched sequence number.
func (l *Log) CurrentSeq() uint64 {
	return l.seq
}

// Pending returns the number of queued, not yet dispatched events.
func (l *Log) Pending() int {
	return len(l.queue)
}
