package simulation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

func TestShouldRebalance(t *testing.T) {
	tests := []struct {
		frequency model.RebalancingFrequency
		period    int
		want      bool
	}{
		{model.RebalanceNone, 0, false},
		{model.RebalanceNone, 3, false},
		{model.RebalanceNone, 12, false},
		{model.RebalanceQuarterly, 0, false},
		{model.RebalanceQuarterly, 1, false},
		{model.RebalanceQuarterly, 3, true},
		{model.RebalanceQuarterly, 4, false},
		{model.RebalanceQuarterly, 6, true},
		{model.RebalanceQuarterly, 12, true},
		{model.RebalanceYearly, 0, false},
		{model.RebalanceYearly, 3, false},
		{model.RebalanceYearly, 12, true},
		{model.RebalanceYearly, 18, false},
		{model.RebalanceYearly, 24, true},
	}

	for _, tt := range tests {
		got := ShouldRebalance(tt.frequency, tt.period)
		assert.Equal(t, tt.want, got, "%s at period %d", tt.frequency, tt.period)
	}
}

func TestAllocate(t *testing.T) {
	t.Run("splits by weight and converts at price", func(t *testing.T) {
		target := model.Target{{Ticker: "VOO", Weight: 0.5}, {Ticker: "BND", Weight: 0.5}}

		deltas := Allocate(target, 1000, []float64{100, 50})

		assert.Equal(t, []ShareDelta{{Ticker: "VOO", Shares: 5}, {Ticker: "BND", Shares: 10}}, deltas)
	})

	t.Run("zero weight receives nothing", func(t *testing.T) {
		target := model.Target{{Ticker: "VOO", Weight: 1}, {Ticker: "GLD", Weight: 0}}

		deltas := Allocate(target, 1000, []float64{100, 170})

		assert.Equal(t, 10.0, deltas[0].Shares)
		assert.Zero(t, deltas[1].Shares)
	})

	t.Run("allocates the full amount when weights are within tolerance", func(t *testing.T) {
		target := model.Target{{Ticker: "VOO", Weight: 0.3333334}, {Ticker: "BND", Weight: 0.6666666}}
		prices := []float64{300, 80}

		deltas := Allocate(target, 1000, prices)

		spent := deltas[0].Shares*prices[0] + deltas[1].Shares*prices[1]
		assert.InDelta(t, 1000, spent, 1e-9)
	})
}

func TestRebalance(t *testing.T) {
	target := model.Target{{Ticker: "VOO", Weight: 0.6}, {Ticker: "BND", Weight: 0.4}}
	prices := []float64{100, 10}

	t.Run("returns deltas back to target weights", func(t *testing.T) {
		state := &model.PortfolioState{Holdings: []model.Holding{
			{Ticker: "VOO", Shares: 10},
			{Ticker: "BND", Shares: 50},
		}}

		deltas := Rebalance(state, prices, target)

		require.Len(t, deltas, 2)
		assert.InDelta(t, -1, deltas[0].Shares, 1e-12)
		assert.InDelta(t, 10, deltas[1].Shares, 1e-12)
		// Rebalance only plans, it does not trade.
		assert.Equal(t, 10.0, state.Holdings[0].Shares)
	})

	t.Run("uninvested cash is redistributed too", func(t *testing.T) {
		state := &model.PortfolioState{
			Holdings: []model.Holding{{Ticker: "VOO", Shares: 10}, {Ticker: "BND", Shares: 50}},
			Cash:     100,
		}

		executeRebalance(state, prices, target)

		assert.InDelta(t, 9.6, state.Holdings[0].Shares, 1e-12)
		assert.InDelta(t, 64, state.Holdings[1].Shares, 1e-12)
		assert.Zero(t, state.Cash)
	})
}

// TestRebalance_PreservesValue checks value invariance on random portfolios.
//
// WHY: Rebalancing only moves value between tickers. If it created or
// destroyed value, every metric computed after a rebalance would be skewed.
func TestRebalance_PreservesValue(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(5)
		target := make(model.Target, n)
		state := &model.PortfolioState{Holdings: make([]model.Holding, n), Cash: rng.Float64() * 100}
		prices := make([]float64, n)

		weightSum := 0.0
		for j := range target {
			w := rng.Float64()
			target[j] = model.PortfolioItem{Ticker: string(rune('A' + j)), Weight: w}
			weightSum += w
			state.Holdings[j] = model.Holding{Ticker: target[j].Ticker, Shares: rng.Float64() * 1000}
			prices[j] = 1 + rng.Float64()*500
		}
		for j := range target {
			target[j].Weight /= weightSum
		}

		before := state.Value(prices)
		executeRebalance(state, prices, target)
		after := state.Value(prices)

		require.LessOrEqual(t, math.Abs(after-before)/before, 1e-9, "iteration %d", i)
		for j, h := range state.Holdings {
			assert.InDelta(t, target[j].Weight, h.Shares*prices[j]/after, 1e-9)
		}
	}
}
