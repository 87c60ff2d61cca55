package clock

import "time"

// Trading day boundaries. The venue itself never advances the clock; a test
// harness or a real clock adapter does.
const (
	OpenHour  = 8
	CloseHour = 17
)

// baseDay anchors time-of-day values to a fixed date so replayed runs
// produce identical timestamps.
var baseDay = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

// TradingDay is a settable simulation clock. It is read-only to the core:
// only the harness (or a real clock adapter) calls Set.
type TradingDay struct {
	current time.Time
}

// NewTradingDay returns a clock positioned at the market open.
func NewTradingDay() *TradingDay {
	return &TradingDay{current: baseDay.Add(OpenHour * time.Hour)}
}

// Now returns the current trading-day time.
func (c *TradingDay) Now() time.Time {
	return c.current
}

// Set moves the clock to an absolute time.
func (c *TradingDay) Set(t time.Time) {
	c.current = t
}

// SetTimeOfDay moves the clock to hour:minute on the trading day.
func (c *TradingDay) SetTimeOfDay(hour, minute int) {
	c.current = baseDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// EndOfDay reports whether the clock has reached or passed the close.
func (c *TradingDay) EndOfDay() bool {
	return !c.current.Before(baseDay.Add(CloseHour * time.Hour))
}
