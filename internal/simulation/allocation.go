package simulation

import "github.com/ndewijer/ETF-Simulator-Backend/internal/model"

// ShareDelta is the number of shares to buy (positive) or sell (negative)
// for one ticker.
type ShareDelta struct {
	Ticker string  `json:"ticker"`
	Shares float64 `json:"shares"`
}

// Allocate splits amount across the target by weight and converts each
// slice into shares at the matching price. prices follows the target order.
//
// This is the single place where cash becomes shares: both the contribution
// step and the rebalancer go through it, so there is one rounding rule (none)
// and one iteration order (the target's).
//
// Weights are divided by their sum, so the full amount is allocated even
// when the weights are only within tolerance of 1.
func Allocate(target model.Target, amount float64, prices []float64) []ShareDelta {
	deltas := make([]ShareDelta, len(target))
	weightSum := 0.0
	for _, item := range target {
		weightSum += item.Weight
	}
	for i, item := range target {
		deltas[i] = ShareDelta{Ticker: item.Ticker}
		if amount == 0 || item.Weight == 0 || weightSum == 0 {
			continue
		}
		deltas[i].Shares = amount * (item.Weight / weightSum) / prices[i]
	}
	return deltas
}

// applyDeltas adds deltas to the holdings. Both slices follow the target order.
func applyDeltas(state *model.PortfolioState, deltas []ShareDelta) {
	for i := range state.Holdings {
		state.Holdings[i].Shares += deltas[i].Shares
	}
}
