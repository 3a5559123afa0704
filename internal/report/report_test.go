package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "float noise", got: USD(10000.0 / 300 * 330), want: "$11,000.00"},
		{name: "half rounds up", got: USD(1234.565), want: "$1,234.57"},
		{name: "negative", got: USD(-50.5), want: "-$50.50"},
		{name: "zero", got: USD(0), want: "$0.00"},
		{name: "percent", got: Percent(10), want: "10.00%"},
		{name: "fraction", got: Fraction(-0.0667), want: "-6.67%"},
		{name: "undefined", got: OptionalFraction(nil), want: "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSimulation(t *testing.T) {
	cagr := 0.1
	data := SimulationData{
		Title:     "VOO lump sum",
		Portfolio: model.Target{{Ticker: "VOO", Weight: 0.6}, {Ticker: "BND", Weight: 0.4}},
		Start:     date(2020, time.January, 1),
		End:       date(2020, time.February, 29),
		Result: model.SimulationResult{
			Summary: model.SimulationSummary{
				TotalInvested:  10000,
				FinalValue:     11000,
				TotalReturnPct: 10,
				CAGR:           &cagr,
				MDD:            -0.05,
			},
			MonthlyData: []model.MonthlySnapshot{
				{Date: date(2020, time.January, 31), PortfolioValue: 9500, InvestedAmount: 10000},
				{Date: date(2020, time.February, 29), PortfolioValue: 11000, InvestedAmount: 10000, DividendsReceived: 12.5},
			},
			Warnings: []string{"volatility: fewer than two monthly returns"},
		},
	}

	md, err := Simulation(data)
	require.NoError(t, err)

	assert.Contains(t, md, "# VOO lump sum")
	assert.Contains(t, md, "2020-01-01 to 2020-02-29")
	assert.Contains(t, md, "| VOO | 60.00% |")
	assert.Contains(t, md, "| BND | 40.00% |")
	assert.Contains(t, md, "| Final value | $11,000.00 |")
	assert.Contains(t, md, "| CAGR | 10.00% |")
	assert.Contains(t, md, "| Max drawdown | -5.00% |")
	assert.Contains(t, md, "| Volatility | n/a |")
	assert.Contains(t, md, "| 2020-02 | $11,000.00 | $10,000.00 | $12.50 |")
	assert.Contains(t, md, "## Warnings")
	assert.Contains(t, md, "- volatility: fewer than two monthly returns")

	data.Result.Warnings = nil
	md, err = Simulation(data)
	require.NoError(t, err)
	assert.NotContains(t, md, "## Warnings")
}

func TestComparison(t *testing.T) {
	md, err := Comparison(ComparisonData{
		Title: "Stocks vs bonds",
		Start: date(2020, time.January, 1),
		End:   date(2020, time.December, 31),
		Results: []model.ScenarioResult{
			{Name: "stocks", TotalInvested: 10000, FinalValue: 11000, TotalReturnPct: 10, MDD: -0.1},
			{Name: "empty", Warnings: []string{"cagr: total invested is not positive"}},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, md, "| stocks | $10,000.00 | $11,000.00 | 10.00% | n/a | -10.00% |")
	assert.Contains(t, md, "| empty | $0.00 | $0.00 | 0.00% | n/a | 0.00% |")
	assert.Contains(t, md, "**empty**")
	assert.Contains(t, md, "- cagr: total invested is not positive")
	assert.NotContains(t, md, "**stocks**")
}
