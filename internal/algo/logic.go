// Package algo holds the strategy seam and the stock strategies shipped
// with the venue. A strategy is a pure function of one snapshot to one
// action; anything it needs to remember between evaluations lives on the
// strategy instance, never in package state.
package algo

import (
	"fmt"

	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/marketdata"
)

// Logic is the only seam the core exposes upward. Evaluate is called once
// per dispatched event and must be total: internal failures map to
// NoAction at the container boundary.
type Logic interface {
	Evaluate(state *marketdata.Snapshot) domain.Action
}

// ForName returns a fresh strategy instance by name.
func ForName(name string) (Logic, error) {
	switch name {
	case "passive":
		return NewPassiveLogic(), nil
	case "sniper":
		return NewSniperLogic(), nil
	case "addcancel":
		return NewAddCancelLogic(), nil
	case "vwap":
		return NewVWAPLogic(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
