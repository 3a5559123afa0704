package testutil

import (
	"context"
	"database/sql"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/repository"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/service"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/yahoo"
)

// NewTestETFService wires an ETFService to db and the given Yahoo client.
func NewTestETFService(t *testing.T, db *sql.DB, yahooClient yahoo.Client) *service.ETFService {
	t.Helper()

	return service.NewETFService(
		repository.NewETFRepository(db),
		repository.NewPriceRepository(db),
		yahooClient,
		zerolog.Nop(),
	)
}

// NewTestSimulationService wires a SimulationService to prices with the
// default reinvest policy, close price basis and two workers.
func NewTestSimulationService(t *testing.T, prices service.PriceProvider) *service.SimulationService {
	t.Helper()

	return service.NewSimulationService(prices, service.SimulationDefaults{
		DividendPolicy: model.DividendReinvest,
		PriceBasis:     model.PriceBasisClose,
		Workers:        2,
	}, zerolog.Nop())
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, "ETF Investment Simulator", map[string]bool{"price_cache": true})
}

// StaticPrices is an in-memory service.PriceProvider keyed by ticker. It
// returns the points inside the requested window and counts calls.
type StaticPrices struct {
	mu     sync.Mutex
	Series map[string][]model.PricePoint
	Err    error
	calls  int
}

// NewStaticPrices creates a StaticPrices provider for series.
func NewStaticPrices(series map[string][]model.PricePoint) *StaticPrices {
	return &StaticPrices{Series: series}
}

// GetPriceHistory implements service.PriceProvider.
func (p *StaticPrices) GetPriceHistory(_ context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.Err != nil {
		return nil, p.Err
	}
	out := []model.PricePoint{}
	for _, pt := range p.Series[ticker] {
		if !pt.Date.Before(start) && !pt.Date.After(end) {
			out = append(out, pt)
		}
	}
	return out, nil
}

// Calls returns the number of GetPriceHistory calls so far.
func (p *StaticPrices) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MakeTicker generates a ticker symbol for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("V")
//	// Returns: "V1A2B"
func MakeTicker(base string) string {
	if base == "" {
		base = "T"
	}
	return base + randomAlphanumeric(4)
}

// MakeETFName generates a unique ETF name for testing.
//
// Example usage:
//
//	name := testutil.MakeETFName("Tech ETF")
//	// Returns: "Tech ETF XYZ789"
func MakeETFName(base string) string {
	if base == "" {
		base = "ETF"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
