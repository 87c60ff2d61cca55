package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsDispatched counts sequenced events by kind.
	EventsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venue_events_dispatched_total",
			Help: "Total number of events dispatched by the sequencer",
		},
		[]string{"kind"},
	)

	// DispatchFailures counts aborted dispatch cycles by consumer.
	DispatchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venue_dispatch_failures_total",
			Help: "Total number of dispatch cycles aborted by a consumer error",
		},
		[]string{"consumer"},
	)

	// SequencerSeq tracks the last dispatched sequence number.
	SequencerSeq = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "venue_sequencer_seq",
			Help: "Last dispatched sequence number",
		},
	)

	// OrdersTotal counts child orders by terminal action.
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venue_orders_total",
			Help: "Total number of child order events by action",
		},
		[]string{"action"},
	)

	// FillsTotal counts executions produced by the matching pass.
	FillsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "venue_fills_total",
			Help: "Total number of executions",
		},
	)

	// FilledQuantity accumulates filled quantity across all child orders.
	FilledQuantity = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "venue_filled_quantity_total",
			Help: "Total filled quantity across all child orders",
		},
	)

	// BookDepth tracks the number of visible price levels per side.
	BookDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "venue_book_depth",
			Help: "Current number of visible price levels",
		},
		[]string{"side"},
	)

	// StrategyEvaluations counts strategy evaluations by outcome.
	StrategyEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venue_strategy_evaluations_total",
			Help: "Total number of strategy evaluations by resulting action",
		},
		[]string{"action"},
	)
)
