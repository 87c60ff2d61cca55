package domain

// Event is an inbound event sequenced by the event log. Variants carry a
// private marker method so the set stays closed within this package.
type Event interface {
	isEvent()
	// Kind returns a stable name used for journaling and logging.
	Kind() string
}

// TickEvent carries one market data snapshot into the venue.
type TickEvent struct {
	Tick Tick `json:"tick"`
}

// CreateOrderEvent asks the book to create a child order.
type CreateOrderEvent struct {
	Side     Side  `json:"side"`
	Quantity int64 `json:"quantity"`
	Price    int64 `json:"price"`
}

// CancelOrderEvent asks the book to cancel a child order.
type CancelOrderEvent struct {
	OrderID int64 `json:"order_id"`
}

func (TickEvent) isEvent()        {}
func (CreateOrderEvent) isEvent() {}
func (CancelOrderEvent) isEvent() {}

func (TickEvent) Kind() string        { return "tick" }
func (CreateOrderEvent) Kind() string { return "create_order" }
func (CancelOrderEvent) Kind() string { return "cancel_order" }

// Action is a strategy decision produced by one evaluation. An action never
// mutates state itself; the actioner converts it into an event that passes
// through the sequencer like any other.
type Action interface {
	isAction()
}

// CreateOrder requests a new child order.
type CreateOrder struct {
	Side     Side
	Quantity int64
	Price    int64
}

// CancelOrder requests cancellation of an existing child order.
type CancelOrder struct {
	OrderID int64
}

// NoAction leaves the book untouched this cycle.
type NoAction struct{}

func (CreateOrder) isAction() {}
func (CancelOrder) isAction() {}
func (NoAction) isAction()    {}
