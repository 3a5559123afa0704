package model

import "time"

// ETF represents cached ETF metadata from the database
type ETF struct {
	Ticker        string     `json:"ticker"`
	Name          string     `json:"name"`
	Category      *string    `json:"category"`
	ExpenseRatio  *float64   `json:"expense_ratio"`
	DividendYield *float64   `json:"dividend_yield"`
	InceptionDate *time.Time `json:"inception_date"`
	AUM           *int64     `json:"aum"`
	Description   *string    `json:"description"`
	UpdatedAt     time.Time  `json:"-"`
}

// ETFSearchResult is the short form returned by ticker/name search.
type ETFSearchResult struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Category *string `json:"category"`
}

// PricePoint is a single trading day for one ticker as delivered by the
// price-history provider. Dividend is the per-share amount paid on Date.
type PricePoint struct {
	Date          time.Time `json:"date"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adj_close"`
	Dividend      float64   `json:"dividend"`
}

// PriceRecord is the full daily row stored in price_history.
type PriceRecord struct {
	Ticker string
	PricePoint
	Open   float64
	High   float64
	Low    float64
	Volume int64
}

// MonthlyObservation is one ticker's aligned month: the last close on or
// before PeriodEnd and the sum of per-share dividends paid in the month.
type MonthlyObservation struct {
	Ticker    string    `json:"ticker"`
	PeriodEnd time.Time `json:"period_end_date"`
	Price     float64   `json:"price"`
	Dividend  float64   `json:"dividend_total_in_period"`
}
