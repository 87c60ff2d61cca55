package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartsAtOpen(t *testing.T) {
	clk := NewTradingDay()
	assert.Equal(t, OpenHour, clk.Now().Hour())
	assert.False(t, clk.EndOfDay())
}

func TestSetTimeOfDay(t *testing.T) {
	clk := NewTradingDay()
	clk.SetTimeOfDay(14, 30)
	assert.Equal(t, 14, clk.Now().Hour())
	assert.Equal(t, 30, clk.Now().Minute())
	assert.False(t, clk.EndOfDay())
}

func TestEndOfDayAtClose(t *testing.T) {
	clk := NewTradingDay()
	clk.SetTimeOfDay(CloseHour, 0)
	assert.True(t, clk.EndOfDay())

	clk.SetTimeOfDay(CloseHour-1, 59)
	assert.False(t, clk.EndOfDay())
}

func TestReplayedClocksAgree(t *testing.T) {
	a := NewTradingDay()
	b := NewTradingDay()
	assert.Equal(t, a.Now(), b.Now())

	a.Set(a.Now().Add(5 * time.Minute))
	b.Set(b.Now().Add(5 * time.Minute))
	assert.Equal(t, a.Now(), b.Now())
}
