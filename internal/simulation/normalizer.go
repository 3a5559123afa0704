// Package simulation implements the deterministic replay engine: it aligns
// daily price history onto a monthly timeline, advances a portfolio through
// contributions, dividends and rebalancing, and derives summary metrics.
//
// Nothing in this package performs I/O. All inputs are treated as read-only
// and every run owns its mutable state.
package simulation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// NormalizeOptions tunes how daily points are turned into monthly observations.
type NormalizeOptions struct {
	// PriceBasis selects close or adjusted close. Defaults to close.
	PriceBasis model.PriceBasis
}

// Series is a set of per-ticker monthly observations that share one list of
// period boundaries. A Series is immutable once built and safe to share
// between concurrent simulation runs.
type Series struct {
	periods      []time.Time
	tickers      []string
	observations map[string][]model.MonthlyObservation
}

// Periods returns a copy of the month-end boundaries of the series.
func (s *Series) Periods() []time.Time {
	out := make([]time.Time, len(s.periods))
	copy(out, s.periods)
	return out
}

// Len returns the number of months in the series.
func (s *Series) Len() int {
	return len(s.periods)
}

// Tickers returns the tickers of the series, sorted.
func (s *Series) Tickers() []string {
	out := make([]string, len(s.tickers))
	copy(out, s.tickers)
	return out
}

// Observation returns the observation of ticker for the given period index.
// A ticker or period outside the series is reported as a DataGapError.
func (s *Series) Observation(ticker string, period int) (model.MonthlyObservation, error) {
	obs, ok := s.observations[ticker]
	if !ok || period < 0 || period >= len(obs) {
		month := time.Time{}
		if period >= 0 && period < len(s.periods) {
			month = s.periods[period]
		}
		return model.MonthlyObservation{}, &apperrors.DataGapError{
			Ticker: ticker,
			Month:  month,
			Reason: "no observation",
		}
	}
	return obs[period], nil
}

// Observations returns a copy of every observation of ticker.
func (s *Series) Observations(ticker string) []model.MonthlyObservation {
	obs := s.observations[ticker]
	out := make([]model.MonthlyObservation, len(obs))
	copy(out, obs)
	return out
}

// NewSeries builds a Series from already aligned monthly observations.
// Every ticker must carry the same, strictly increasing, list of period ends.
func NewSeries(observations map[string][]model.MonthlyObservation) (*Series, error) {
	if len(observations) == 0 {
		return nil, apperrors.NewValidationError("portfolio", "at least one ticker is required")
	}

	tickers := make([]string, 0, len(observations))
	for ticker := range observations {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	reference := observations[tickers[0]]
	periods := make([]time.Time, len(reference))
	for i, obs := range reference {
		periods[i] = dateOnly(obs.PeriodEnd)
		if i > 0 && !periods[i].After(periods[i-1]) {
			return nil, fmt.Errorf("%w: %s periods are not strictly increasing", apperrors.ErrMisalignedSeries, tickers[0])
		}
	}

	copied := make(map[string][]model.MonthlyObservation, len(tickers))
	for _, ticker := range tickers {
		obs := observations[ticker]
		if len(obs) != len(periods) {
			return nil, fmt.Errorf("%w: %s has %d periods, want %d", apperrors.ErrMisalignedSeries, ticker, len(obs), len(periods))
		}
		out := make([]model.MonthlyObservation, len(obs))
		for i, o := range obs {
			if !dateOnly(o.PeriodEnd).Equal(periods[i]) {
				return nil, fmt.Errorf("%w: %s period %d ends %s, want %s",
					apperrors.ErrMisalignedSeries, ticker, i,
					o.PeriodEnd.Format("2006-01-02"), periods[i].Format("2006-01-02"))
			}
			if o.Price <= 0 || math.IsNaN(o.Price) || math.IsInf(o.Price, 0) {
				return nil, &apperrors.DataGapError{Ticker: ticker, Month: periods[i], Reason: fmt.Sprintf("invalid price %v", o.Price)}
			}
			o.Ticker = ticker
			o.PeriodEnd = periods[i]
			out[i] = o
		}
		copied[ticker] = out
	}

	return &Series{
		periods:      periods,
		tickers:      tickers,
		observations: copied,
	}, nil
}

// MonthBoundaries lists the period boundaries of the window: the last
// calendar day of every month from start's month to end's month, with the
// final boundary clamped to end.
func MonthBoundaries(start, end time.Time) []time.Time {
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		return nil
	}

	var boundaries []time.Time
	month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !month.After(end) {
		boundary := month.AddDate(0, 1, -1)
		if boundary.After(end) {
			boundary = end
		}
		boundaries = append(boundaries, boundary)
		month = month.AddDate(0, 1, 0)
	}
	return boundaries
}

// Normalize aligns raw daily price points onto the monthly timeline of the
// [start, end] window.
//
// For each ticker and month the price is the most recent point dated on or
// before the month boundary, and that point must fall inside the month:
// a month without trading data is a DataGapError, never a silent carry
// forward. A partial final month, when the window ends before the last day
// of its month, is dropped if no ticker traded in it; otherwise a ticker
// without a session there keeps its last earlier point. Dividends are the sum of per-share amounts paid inside the month
// and inside the window. The raw input is not modified.
func Normalize(raw map[string][]model.PricePoint, start, end time.Time, opts NormalizeOptions) (*Series, error) {
	start = dateOnly(start)
	end = dateOnly(end)
	if !start.Before(end) {
		return nil, apperrors.NewValidationError("end_date", apperrors.ErrInvalidDateRange.Error())
	}
	if len(raw) == 0 {
		return nil, apperrors.NewValidationError("portfolio", "at least one ticker is required")
	}
	basis := opts.PriceBasis
	if basis == "" {
		basis = model.PriceBasisClose
	}
	if !basis.Valid() {
		return nil, apperrors.NewValidationError("price_basis", fmt.Sprintf("unknown price basis %q", basis))
	}

	periods := MonthBoundaries(start, end)

	tickers := make([]string, 0, len(raw))
	for ticker := range raw {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	if len(periods) > 1 && partialMonthWithoutSessions(raw, end) {
		periods = periods[:len(periods)-1]
	}

	observations := make(map[string][]model.MonthlyObservation, len(tickers))
	for _, ticker := range tickers {
		obs, err := normalizeTicker(ticker, raw[ticker], start, periods, basis)
		if err != nil {
			return nil, err
		}
		observations[ticker] = obs
	}

	return &Series{
		periods:      periods,
		tickers:      tickers,
		observations: observations,
	}, nil
}

func normalizeTicker(
	ticker string,
	points []model.PricePoint,
	start time.Time,
	periods []time.Time,
	basis model.PriceBasis,
) ([]model.MonthlyObservation, error) {
	sorted := make([]model.PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	obs := make([]model.MonthlyObservation, len(periods))
	idx := 0
	var last *model.PricePoint
	for p, boundary := range periods {
		monthStart := time.Date(boundary.Year(), boundary.Month(), 1, 0, 0, 0, 0, time.UTC)
		dividend := 0.0

		// Prices are sorted ASC, so advance until we pass the boundary.
		for idx < len(sorted) && !dateOnly(sorted[idx].Date).After(boundary) {
			point := &sorted[idx]
			day := dateOnly(point.Date)
			if !day.Before(monthStart) && !day.Before(start) {
				dividend += point.Dividend
			}
			last = point
			idx++
		}

		// The clamped final month only needs a point on or before the window
		// end. Full months must have traded.
		stub := p > 0 && p == len(periods)-1 && !isMonthEnd(boundary)
		if last == nil || (!stub && dateOnly(last.Date).Before(monthStart)) {
			return nil, &apperrors.DataGapError{Ticker: ticker, Month: boundary}
		}

		price := last.Close
		if basis == model.PriceBasisAdjustedClose {
			price = last.AdjustedClose
			dividend = 0
		}
		if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, &apperrors.DataGapError{
				Ticker: ticker,
				Month:  boundary,
				Reason: fmt.Sprintf("invalid price %v", price),
			}
		}
		if dividend < 0 || math.IsNaN(dividend) || math.IsInf(dividend, 0) {
			return nil, &apperrors.DataGapError{
				Ticker: ticker,
				Month:  boundary,
				Reason: fmt.Sprintf("invalid dividend %v", dividend),
			}
		}

		obs[p] = model.MonthlyObservation{
			Ticker:    ticker,
			PeriodEnd: boundary,
			Price:     price,
			Dividend:  dividend,
		}
	}
	return obs, nil
}

// partialMonthWithoutSessions reports whether end falls before the last day
// of its month and no ticker traded between the first of that month and end.
// Such a window ends on a weekend or holiday right after a month turn.
func partialMonthWithoutSessions(raw map[string][]model.PricePoint, end time.Time) bool {
	if isMonthEnd(end) {
		return false
	}
	monthStart := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, points := range raw {
		for _, point := range points {
			day := dateOnly(point.Date)
			if !day.Before(monthStart) && !day.After(end) {
				return false
			}
		}
	}
	return true
}

func isMonthEnd(t time.Time) bool {
	return t.AddDate(0, 0, 1).Day() == 1
}

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
