package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monthEnd returns the last day of the month that is offset months after
// the given year/month.
func monthEnd(y int, m time.Month, offset int) time.Time {
	return time.Date(y, m+time.Month(offset)+1, 0, 0, 0, 0, 0, time.UTC)
}

// seriesSpec describes one ticker of a test series: a monthly price list and
// optional per-share dividends by period index.
type seriesSpec struct {
	prices    []float64
	dividends map[int]float64
}

// buildSeries creates an aligned series starting in January 2020.
func buildSeries(t *testing.T, specs map[string]seriesSpec) *Series {
	t.Helper()

	observations := make(map[string][]model.MonthlyObservation, len(specs))
	for ticker, spec := range specs {
		obs := make([]model.MonthlyObservation, len(spec.prices))
		for i, price := range spec.prices {
			obs[i] = model.MonthlyObservation{
				Ticker:    ticker,
				PeriodEnd: monthEnd(2020, time.January, i),
				Price:     price,
				Dividend:  spec.dividends[i],
			}
		}
		observations[ticker] = obs
	}

	series, err := NewSeries(observations)
	require.NoError(t, err)
	return series
}

func singleTarget(ticker string) model.Target {
	return model.Target{{Ticker: ticker, Weight: 1}}
}

var vooPrices = []float64{300, 280, 310, 320, 290, 300, 305, 310, 315, 320, 325, 330}
