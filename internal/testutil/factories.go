package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// ETFBuilder provides a fluent interface for creating cached ETF metadata.
//
// Example usage:
//
//	// Simple creation with defaults
//	etf := testutil.NewETF().Build(t, db)
//
//	// Customized ETF
//	etf := testutil.NewETF().
//	    WithTicker("VOO").
//	    WithName("Vanguard S&P 500 ETF").
//	    Build(t, db)
type ETFBuilder struct {
	Ticker       string
	Name         string
	Category     *string
	ExpenseRatio *float64
}

// NewETF creates an ETFBuilder with sensible defaults.
func NewETF() *ETFBuilder {
	ticker := MakeTicker("T")
	return &ETFBuilder{
		Ticker: ticker,
		Name:   MakeETFName("Test ETF"),
	}
}

// WithTicker sets a custom ticker.
func (b *ETFBuilder) WithTicker(ticker string) *ETFBuilder {
	b.Ticker = ticker
	return b
}

// WithName sets a custom name.
func (b *ETFBuilder) WithName(name string) *ETFBuilder {
	b.Name = name
	return b
}

// WithCategory sets the category.
func (b *ETFBuilder) WithCategory(category string) *ETFBuilder {
	b.Category = &category
	return b
}

// WithExpenseRatio sets the expense ratio.
func (b *ETFBuilder) WithExpenseRatio(ratio float64) *ETFBuilder {
	b.ExpenseRatio = &ratio
	return b
}

// Build creates the ETF in the database and returns it.
func (b *ETFBuilder) Build(t *testing.T, db *sql.DB) model.ETF {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	_, err := db.Exec(`
		INSERT INTO etfs (ticker, name, category, expense_ratio, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, b.Ticker, b.Name, b.Category, b.ExpenseRatio, now.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test etf: %v", err)
	}

	return model.ETF{
		Ticker:       b.Ticker,
		Name:         b.Name,
		Category:     b.Category,
		ExpenseRatio: b.ExpenseRatio,
		UpdatedAt:    now,
	}
}

// CreateETF creates an ETF with the given ticker and default values.
func CreateETF(t *testing.T, db *sql.DB, ticker string) model.ETF {
	t.Helper()
	return NewETF().WithTicker(ticker).Build(t, db)
}

// PriceHistoryBuilder builds daily price history for one ticker with one
// session per month, which is all the monthly normalizer looks at.
//
// Example usage:
//
//	points := testutil.NewPriceHistory("VOO").
//	    From(time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)).
//	    Monthly(300, 310, 290).
//	    WithDividend(1, 1.5).
//	    Points()
type PriceHistoryBuilder struct {
	Ticker    string
	Start     time.Time
	Closes    []float64
	Dividends map[int]float64
}

// NewPriceHistory creates a PriceHistoryBuilder whose first session is
// 2020-01-15.
func NewPriceHistory(ticker string) *PriceHistoryBuilder {
	return &PriceHistoryBuilder{
		Ticker:    ticker,
		Start:     time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC),
		Dividends: make(map[int]float64),
	}
}

// From sets the date of the first session. Later sessions fall on the same
// day of each following month.
func (b *PriceHistoryBuilder) From(date time.Time) *PriceHistoryBuilder {
	b.Start = date
	return b
}

// Monthly sets one close per month.
func (b *PriceHistoryBuilder) Monthly(closes ...float64) *PriceHistoryBuilder {
	b.Closes = closes
	return b
}

// Flat sets months sessions all closing at price.
func (b *PriceHistoryBuilder) Flat(price float64, months int) *PriceHistoryBuilder {
	b.Closes = make([]float64, months)
	for i := range b.Closes {
		b.Closes[i] = price
	}
	return b
}

// WithDividend pays amount per share on the session of month index i.
func (b *PriceHistoryBuilder) WithDividend(i int, amount float64) *PriceHistoryBuilder {
	b.Dividends[i] = amount
	return b
}

// Points returns the history as provider output.
func (b *PriceHistoryBuilder) Points() []model.PricePoint {
	points := make([]model.PricePoint, len(b.Closes))
	for i, c := range b.Closes {
		points[i] = model.PricePoint{
			Date:          b.Start.AddDate(0, i, 0),
			Close:         c,
			AdjustedClose: c,
			Dividend:      b.Dividends[i],
		}
	}
	return points
}

// Records returns the history as stored rows.
func (b *PriceHistoryBuilder) Records() []model.PriceRecord {
	points := b.Points()
	records := make([]model.PriceRecord, len(points))
	for i, p := range points {
		records[i] = model.PriceRecord{
			Ticker:     b.Ticker,
			PricePoint: p,
			Open:       p.Close,
			High:       p.Close,
			Low:        p.Close,
			Volume:     1000,
		}
	}
	return records
}

// Build stores the history in price_history and returns the points.
func (b *PriceHistoryBuilder) Build(t *testing.T, db *sql.DB) []model.PricePoint {
	t.Helper()

	for _, r := range b.Records() {
		_, err := db.Exec(`
			INSERT INTO price_history (ticker, date, open, high, low, close, adj_close, volume, dividend)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.Ticker, r.Date.Format("2006-01-02"), r.Open, r.High, r.Low, r.Close, r.AdjustedClose, r.Volume, r.Dividend)
		if err != nil {
			t.Fatalf("Failed to create test price: %v", err)
		}
	}
	return b.Points()
}
