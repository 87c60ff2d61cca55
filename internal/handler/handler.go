package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nathanyu/backtest-venue/internal/backtest"
	"github.com/nathanyu/backtest-venue/internal/domain"
)

// Handler holds the HTTP handler dependencies.
type Handler struct {
	venue *backtest.Venue
	runs  *backtest.Registry
}

// NewHandler creates a new Handler.
func NewHandler(venue *backtest.Venue, runs *backtest.Registry) *Handler {
	return &Handler{
		venue: venue,
		runs:  runs,
	}
}

// RegisterRoutes sets up the Gin routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	v1 := r.Group("/v1")
	{
		v1.POST("/order", h.PlaceOrder)
		v1.DELETE("/order/:id", h.CancelOrder)
		v1.GET("/order/:id", h.GetOrder)
		v1.GET("/order", h.GetOrders)
		v1.GET("/execution", h.GetExecutions)
		v1.GET("/marketdata/orderBook/L2", h.GetL2OrderBook)
		v1.GET("/marketdata/candles", h.GetCandles)
		v1.POST("/tick", h.ApplyTick)
		v1.POST("/clock", h.SetClock)
		v1.POST("/run", h.StartRun)
		v1.GET("/run/:id", h.GetRun)
		v1.GET("/run", h.GetRuns)
	}
}

// Health returns a health check response.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "backtest-venue",
	})
}

// PlaceOrderRequest is the request body for placing a child order. A zero
// price is valid; the book accepts any price >= 0.
type PlaceOrderRequest struct {
	Side     domain.Side `json:"side" binding:"required"`
	Price    int64       `json:"price" binding:"min=0"`
	Quantity int64       `json:"quantity" binding:"required,gt=0"`
}

// PlaceOrder handles POST /v1/order.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be 'buy' or 'sell'"})
		return
	}

	order, err := h.venue.PlaceOrder(req.Side, req.Quantity, req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// CancelOrder handles DELETE /v1/order/:id.
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.venue.CancelOrder(orderID)
	if err != nil {
		if errors.Is(err, backtest.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetOrder handles GET /v1/order/:id.
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order := h.venue.Order(orderID)
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetOrders handles GET /v1/order. With active=true it returns only
// orders still working.
func (h *Handler) GetOrders(c *gin.Context) {
	snapshot := h.venue.Snapshot()

	orders := snapshot.ChildOrders()
	if c.Query("active") == "true" {
		orders = snapshot.ActiveChildOrders()
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

// GetExecutions handles GET /v1/execution.
func (h *Handler) GetExecutions(c *gin.Context) {
	var orderID int64
	if idStr := c.Query("order_id"); idStr != "" {
		parsed, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_id"})
			return
		}
		orderID = parsed
	}

	executions := h.venue.Executions(orderID)
	if executions == nil {
		executions = []domain.Execution{}
	}

	c.JSON(http.StatusOK, executions)
}

// GetL2OrderBook handles GET /v1/marketdata/orderBook/L2.
func (h *Handler) GetL2OrderBook(c *gin.Context) {
	snapshot := h.venue.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"seq":  snapshot.Seq,
		"time": snapshot.Time,
		"bids": snapshot.Bids,
		"asks": snapshot.Asks,
	})
}

// GetCandles handles GET /v1/marketdata/candles.
func (h *Handler) GetCandles(c *gin.Context) {
	countStr := c.DefaultQuery("count", "100")
	count, err := strconv.Atoi(countStr)
	if err != nil || count <= 0 {
		count = 100
	}

	candles := h.venue.Candles(count)
	if candles == nil {
		candles = []*domain.Candlestick{}
	}

	c.JSON(http.StatusOK, candles)
}

// TickRequest is the request body for applying a market data update.
type TickRequest struct {
	Venue        string              `json:"venue"`
	InstrumentID int64               `json:"instrument_id"`
	Source       string              `json:"source"`
	Bids         []domain.PriceLevel `json:"bids"`
	Asks         []domain.PriceLevel `json:"asks"`
}

// ApplyTick handles POST /v1/tick.
func (h *Handler) ApplyTick(c *gin.Context) {
	var req TickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tick := domain.Tick{
		Venue:        req.Venue,
		InstrumentID: req.InstrumentID,
		Source:       req.Source,
		Bids:         req.Bids,
		Asks:         req.Asks,
	}
	if err := h.venue.SendTick(tick); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.venue.Snapshot())
}

// SetClockRequest is the request body for moving the trading-day clock.
type SetClockRequest struct {
	Hour   int `json:"hour" binding:"min=0,max=23"`
	Minute int `json:"minute" binding:"min=0,max=59"`
}

// SetClock handles POST /v1/clock.
func (h *Handler) SetClock(c *gin.Context) {
	var req SetClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.venue.SetTimeOfDay(req.Hour, req.Minute)

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   h.venue.Snapshot().Time,
	})
}

// StartRunRequest is the request body for a back-test run.
type StartRunRequest struct {
	Strategy string        `json:"strategy" binding:"required"`
	Depth    int           `json:"depth"`
	Ticks    []TickRequest `json:"ticks" binding:"required"`
}

// StartRun handles POST /v1/run. The run executes synchronously on a
// fresh venue and the report is stored for later retrieval.
func (h *Handler) StartRun(c *gin.Context) {
	var req StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events := make([]domain.Event, 0, len(req.Ticks))
	for _, t := range req.Ticks {
		events = append(events, domain.TickEvent{Tick: domain.Tick{
			Venue:        t.Venue,
			InstrumentID: t.InstrumentID,
			Source:       t.Source,
			Bids:         t.Bids,
			Asks:         t.Asks,
		}})
	}

	report, err := backtest.Run(req.Strategy, events, req.Depth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.runs.Add(report)

	c.JSON(http.StatusCreated, report)
}

// GetRun handles GET /v1/run/:id.
func (h *Handler) GetRun(c *gin.Context) {
	report := h.runs.Get(c.Param("id"))
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetRuns handles GET /v1/run.
func (h *Handler) GetRuns(c *gin.Context) {
	c.JSON(http.StatusOK, h.runs.List())
}
