// Package container wires a strategy into the venue: after every dispatched
// event it takes a snapshot, asks the strategy for a decision, and feeds
// that decision back through the sequencer as a new event.
package container

import (
	"log/slog"

	"github.com/nathanyu/backtest-venue/internal/algo"
	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/marketdata"
	"github.com/nathanyu/backtest-venue/internal/sequencer"
	"github.com/nathanyu/backtest-venue/internal/telemetry"
)

// RunTrigger decides when the strategy should be asked to evaluate. The
// policy is to run after every fully-applied event.
type RunTrigger struct {
	pending int
}

// Notify marks that an event was applied and an evaluation is due.
func (r *RunTrigger) Notify() { r.pending++ }

// ShouldRun reports whether an evaluation is pending.
func (r *RunTrigger) ShouldRun() bool { return r.pending > 0 }

// Done clears the pending evaluations.
func (r *RunTrigger) Done() { r.pending = 0 }

// Actioner converts a strategy decision into a new event submitted to the
// event log. It never touches the book directly: every mutation passes
// through sequencing, so the single global ordering holds for strategy
// decisions too.
type Actioner struct {
	log *sequencer.Log
}

// NewActioner creates an actioner submitting to the given log.
func NewActioner(log *sequencer.Log) *Actioner {
	return &Actioner{log: log}
}

// Apply submits the event form of an action; NoAction submits nothing.
// The returned label names the action kind for logging and metrics.
func (a *Actioner) Apply(action domain.Action) string {
	switch act := action.(type) {
	case domain.CreateOrder:
		a.log.Submit(domain.CreateOrderEvent{Side: act.Side, Quantity: act.Quantity, Price: act.Price})
		return "create"
	case domain.CancelOrder:
		a.log.Submit(domain.CancelOrderEvent{OrderID: act.OrderID})
		return "cancel"
	default:
		return "none"
	}
}

// AlgoContainer runs the strategy once per dispatch cycle. Register it as
// the LAST consumer so the snapshot it takes reflects the event's full
// effects on the book.
type AlgoContainer struct {
	view     *marketdata.View
	trigger  *RunTrigger
	actioner *Actioner
	logic    algo.Logic
	logger   *slog.Logger
}

// NewAlgoContainer creates a container; set the strategy with SetLogic.
func NewAlgoContainer(view *marketdata.View, trigger *RunTrigger, actioner *Actioner, logger *slog.Logger) *AlgoContainer {
	return &AlgoContainer{
		view:     view,
		trigger:  trigger,
		actioner: actioner,
		logger:   telemetry.Component(logger, "container"),
	}
}

// SetLogic plugs in the strategy.
func (c *AlgoContainer) SetLogic(logic algo.Logic) { c.logic = logic }

func (c *AlgoContainer) Name() string { return "algo-container" }

// OnEvent evaluates the strategy against a fresh snapshot and hands the
// decision to the actioner. The resulting event lands in the next dispatch
// cycle, keeping the loop single-threaded and deterministic.
func (c *AlgoContainer) OnEvent(seq uint64, event domain.Event) error {
	c.trigger.Notify()
	if !c.trigger.ShouldRun() || c.logic == nil {
		return nil
	}
	defer c.trigger.Done()

	state := c.view.Snapshot(seq)
	action := c.evaluate(state)
	label := c.actioner.Apply(action)

	telemetry.StrategyEvaluations.WithLabelValues(label).Inc()
	if label != "none" {
		c.logger.Info("strategy action", slog.Uint64("seq", seq), slog.String("action", label))
	}
	return nil
}

// evaluate maps a strategy panic to NoAction so one misbehaving strategy
// cannot corrupt the event loop.
func (c *AlgoContainer) evaluate(state *marketdata.Snapshot) (action domain.Action) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("strategy panicked", slog.Any("panic", r))
			action = domain.NoAction{}
		}
	}()
	return c.logic.Evaluate(state)
}
