package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/v1/order/{id}", normalizePath("/v1/order/42"))
	assert.Equal(t, "/v1/run/{id}", normalizePath("/v1/run/3f8a"))
	assert.Equal(t, "/v1/marketdata/candles", normalizePath("/v1/marketdata/candles"))
}
