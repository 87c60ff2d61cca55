package marketdata

import "github.com/nathanyu/backtest-venue/internal/domain"

const ringBufferCapacity = 100

// RingBuffer is a fixed-size circular buffer of completed candlesticks.
type RingBuffer struct {
	data  [ringBufferCapacity]*domain.Candlestick
	head  int // next write position
	count int
}

// Push adds a candlestick to the ring buffer.
func (rb *RingBuffer) Push(c *domain.Candlestick) {
	rb.data[rb.head] = c
	rb.head = (rb.head + 1) % ringBufferCapacity
	if rb.count < ringBufferCapacity {
		rb.count++
	}
}

// GetAll returns all candlesticks in chronological order.
func (rb *RingBuffer) GetAll() []*domain.Candlestick {
	if rb.count == 0 {
		return nil
	}

	result := make([]*domain.Candlestick, rb.count)
	start := (rb.head - rb.count + ringBufferCapacity) % ringBufferCapacity
	for i := range rb.count {
		idx := (start + i) % ringBufferCapacity
		result[i] = rb.data[idx]
	}
	return result
}

// GetRecent returns the N most recent candlesticks.
func (rb *RingBuffer) GetRecent(n int) []*domain.Candlestick {
	if n <= 0 || rb.count == 0 {
		return nil
	}
	if n > rb.count {
		n = rb.count
	}

	result := make([]*domain.Candlestick, n)
	start := (rb.head - n + ringBufferCapacity) % ringBufferCapacity
	for i := range n {
		idx := (start + i) % ringBufferCapacity
		result[i] = rb.data[idx]
	}
	return result
}
