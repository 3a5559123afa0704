package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// TestValidateTarget covers target allocation checks.
//
// WHY: Every later step assumes weights are fractions summing to one and
// tickers are unique. A target that slips through would silently leave cash
// uninvested or double-count a holding.
func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name      string
		target    model.Target
		wantField string
	}{
		{name: "single ticker", target: model.Target{{Ticker: "VOO", Weight: 1}}},
		{name: "split within tolerance", target: model.Target{{Ticker: "VOO", Weight: 0.6}, {Ticker: "BND", Weight: 0.4000001}}},
		{name: "zero weight allowed", target: model.Target{{Ticker: "VOO", Weight: 1}, {Ticker: "BND", Weight: 0}}},
		{name: "empty", target: model.Target{}, wantField: "portfolio"},
		{name: "blank ticker", target: model.Target{{Ticker: " ", Weight: 1}}, wantField: "portfolio[0].ticker"},
		{name: "duplicate ticker", target: model.Target{{Ticker: "VOO", Weight: 0.5}, {Ticker: "VOO", Weight: 0.5}}, wantField: "portfolio[1].ticker"},
		{name: "negative weight", target: model.Target{{Ticker: "VOO", Weight: 1.5}, {Ticker: "BND", Weight: -0.5}}, wantField: "portfolio[1].weight"},
		{name: "nan weight", target: model.Target{{Ticker: "VOO", Weight: math.NaN()}}, wantField: "portfolio[0].weight"},
		{name: "sum too low", target: model.Target{{Ticker: "VOO", Weight: 0.6}, {Ticker: "BND", Weight: 0.3}}, wantField: "portfolio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.wantField)
		})
	}
}

func TestValidateParams(t *testing.T) {
	valid := model.SimulationParams{
		Target:              model.Target{{Ticker: "VOO", Weight: 1}},
		InvestmentType:      model.InvestmentDCA,
		InitialAmount:       1000,
		MonthlyContribution: 100,
		Rebalancing:         model.RebalanceNone,
	}

	tests := []struct {
		name      string
		mutate    func(p *model.SimulationParams)
		wantField string
	}{
		{name: "valid", mutate: func(*model.SimulationParams) {}},
		{name: "zero amounts", mutate: func(p *model.SimulationParams) { p.InitialAmount, p.MonthlyContribution = 0, 0 }},
		{name: "unknown investment type", mutate: func(p *model.SimulationParams) { p.InvestmentType = "weekly" }, wantField: "investment_type"},
		{name: "unknown rebalancing", mutate: func(p *model.SimulationParams) { p.Rebalancing = "monthly" }, wantField: "rebalancing"},
		{name: "unknown dividend policy", mutate: func(p *model.SimulationParams) { p.DividendPolicy = "spend" }, wantField: "dividend_policy"},
		{name: "negative initial", mutate: func(p *model.SimulationParams) { p.InitialAmount = -1 }, wantField: "initial_amount"},
		{name: "infinite monthly", mutate: func(p *model.SimulationParams) { p.MonthlyContribution = math.Inf(1) }, wantField: "monthly_contribution"},
		{name: "bad target wins", mutate: func(p *model.SimulationParams) { p.Target = nil; p.InitialAmount = -1 }, wantField: "portfolio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := ValidateParams(p)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.wantField)
		})
	}
}

func TestValidateWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		wantErr    error
	}{
		{name: "ordered", start: date(2020, time.January, 1), end: date(2020, time.December, 31)},
		{name: "same day", start: date(2020, time.January, 1), end: date(2020, time.January, 1), wantErr: apperrors.ErrInvalidDateRange},
		{name: "reversed", start: date(2021, time.January, 1), end: date(2020, time.January, 1), wantErr: apperrors.ErrInvalidDateRange},
		{name: "missing start", end: date(2020, time.January, 1), wantErr: apperrors.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindow(tt.start, tt.end)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Error(), tt.wantErr.Error())
		})
	}
}
