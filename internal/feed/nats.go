// Package feed connects a live venue to the outside world over NATS: ticks
// arrive on one subject, executions leave on another. Back-test runs never
// touch this package; their input comes from fixtures or journals.
package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/nathanyu/backtest-venue/internal/codec"
	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/telemetry"
)

// Client wraps a NATS connection for tick ingress and execution egress.
type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewClient connects to NATS with reconnect handling.
func NewClient(url string, logger *slog.Logger) (*Client, error) {
	logger = telemetry.Component(logger, "feed")

	opts := []nats.Option{
		nats.Name("backtest-venue"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Client{conn: conn, logger: logger}, nil
}

// SubscribeTicks decodes book updates from the subject and hands them to
// the handler. The handler runs on the NATS delivery goroutine; the caller
// must forward into the venue's single dispatch path.
func (c *Client) SubscribeTicks(subject string, handler func(domain.Tick)) (*nats.Subscription, error) {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		tick, err := codec.DecodeTick(msg.Data)
		if err != nil {
			c.logger.Warn("failed to decode tick", slog.String("error", err.Error()))
			return
		}
		handler(tick)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return sub, nil
}

// PublishExecution publishes one execution as JSON.
func (c *Client) PublishExecution(subject string, exec domain.Execution) error {
	data, err := json.Marshal(exec)
	if err != nil {
		return fmt.Errorf("failed to marshal execution: %w", err)
	}
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish execution: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
