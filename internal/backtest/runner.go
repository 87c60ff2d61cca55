package backtest

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nathanyu/backtest-venue/internal/algo"
	"github.com/nathanyu/backtest-venue/internal/domain"
)

// Report summarizes one completed back-test run.
type Report struct {
	RunID     string    `json:"run_id"`
	Strategy  string    `json:"strategy"`
	StartedAt time.Time `json:"started_at"`

	Events     int `json:"events"`
	Executions int `json:"executions"`

	Orders         []domain.Order `json:"orders"`
	OrdersCreated  int            `json:"orders_created"`
	OrdersFilled   int            `json:"orders_filled"`
	OrdersCanceled int            `json:"orders_canceled"`
	TotalFilled    int64          `json:"total_filled"`
	BuyCost        int64          `json:"buy_cost"`
	SellRevenue    int64          `json:"sell_revenue"`
	Profit         int64          `json:"profit"`
}

// Run replays the given events through a fresh venue under the named
// strategy and reports the fills. Two runs over the same events always
// produce the same orders and executions; only the run ID differs.
func Run(strategy string, events []domain.Event, depth int) (*Report, error) {
	logic, err := algo.ForName(strategy)
	if err != nil {
		return nil, err
	}

	venue, err := NewVenue(Options{Logic: logic, Depth: depth})
	if err != nil {
		return nil, err
	}

	for i, event := range events {
		if err := venue.SubmitEvent(event); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}

	return buildReport(strategy, len(events), venue), nil
}

func buildReport(strategy string, events int, venue *Venue) *Report {
	report := &Report{
		RunID:     uuid.New().String(),
		Strategy:  strategy,
		StartedAt: time.Now(),
		Events:    events,
	}

	for _, o := range venue.Book.Orders() {
		report.Orders = append(report.Orders, *o)
		report.OrdersCreated++
		report.TotalFilled += o.FilledQuantity
		switch o.Status {
		case domain.OrderStatusFilled:
			report.OrdersFilled++
		case domain.OrderStatusCanceled:
			report.OrdersCanceled++
		}
	}

	for _, exec := range venue.Book.Executions() {
		report.Executions++
		notional := exec.Price * exec.Quantity
		if exec.Side == domain.SideBuy {
			report.BuyCost += notional
		} else {
			report.SellRevenue += notional
		}
	}
	report.Profit = report.SellRevenue - report.BuyCost

	return report
}

// Registry keeps completed run reports for retrieval over the API.
type Registry struct {
	mu   sync.RWMutex
	runs map[string]*Report
}

// NewRegistry creates an empty run registry.
func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*Report)}
}

// Add stores a report under its run ID.
func (r *Registry) Add(report *Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[report.RunID] = report
}

// Get returns the report for a run ID, or nil.
func (r *Registry) Get(runID string) *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runs[runID]
}

// List returns all stored reports.
func (r *Registry) List() []*Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Report, 0, len(r.runs))
	for _, report := range r.runs {
		result = append(result, report)
	}
	return result
}
