package simulation

import "github.com/ndewijer/ETF-Simulator-Backend/internal/model"

// ShouldRebalance reports whether the rebalancer triggers at period.
// Periods are months; period 0 never rebalances.
func ShouldRebalance(frequency model.RebalancingFrequency, period int) bool {
	if period <= 0 {
		return false
	}

	switch frequency {
	case model.RebalanceQuarterly:
		return period%3 == 0
	case model.RebalanceYearly:
		return period%12 == 0
	default:
		return false
	}
}

// Rebalance returns the share deltas that move state back to the target
// weights at the given prices. The total value redistributed is the market
// value of the holdings plus any uninvested cash; no cash is created or
// destroyed. prices follows the target order.
func Rebalance(state *model.PortfolioState, prices []float64, target model.Target) []ShareDelta {
	total := state.Value(prices)
	wanted := Allocate(target, total, prices)

	deltas := make([]ShareDelta, len(target))
	for i, h := range state.Holdings {
		deltas[i] = ShareDelta{
			Ticker: h.Ticker,
			Shares: wanted[i].Shares - h.Shares,
		}
	}
	return deltas
}

// executeRebalance applies a rebalance to state in place. Holdings are set
// to the allocated share counts directly rather than summed with deltas, so
// the post-trade value does not pick up cancellation error.
func executeRebalance(state *model.PortfolioState, prices []float64, target model.Target) {
	wanted := Allocate(target, state.Value(prices), prices)
	for i := range state.Holdings {
		state.Holdings[i].Shares = wanted[i].Shares
	}
	state.Cash = 0
}
