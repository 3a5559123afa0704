package response

import (
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// ETFSearchResponse is the body of GET /etf/search.
type ETFSearchResponse struct {
	Results []model.ETFSearchResult `json:"results"`
}

// ETFDetailResponse is the body of GET /etf/{ticker}.
type ETFDetailResponse struct {
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Category      *string  `json:"category"`
	ExpenseRatio  *float64 `json:"expense_ratio"`
	DividendYield *float64 `json:"dividend_yield"`
	InceptionDate *string  `json:"inception_date"`
	AUM           *int64   `json:"aum"`
	Description   *string  `json:"description"`
}

// NewETFDetailResponse converts cached metadata to its wire form.
func NewETFDetailResponse(etf model.ETF) ETFDetailResponse {
	resp := ETFDetailResponse{
		Ticker:        etf.Ticker,
		Name:          etf.Name,
		Category:      etf.Category,
		ExpenseRatio:  etf.ExpenseRatio,
		DividendYield: etf.DividendYield,
		AUM:           etf.AUM,
		Description:   etf.Description,
	}
	if etf.InceptionDate != nil {
		d := etf.InceptionDate.Format(dateLayout)
		resp.InceptionDate = &d
	}
	return resp
}

// PriceDataResponse is one trading day of a price history.
type PriceDataResponse struct {
	Date     string  `json:"date"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adj_close"`
	Dividend float64 `json:"dividend"`
}

// ETFHistoryResponse is the body of GET /etf/{ticker}/history.
type ETFHistoryResponse struct {
	Ticker string              `json:"ticker"`
	Prices []PriceDataResponse `json:"prices"`
}

// NewETFHistoryResponse converts provider points to their wire form.
func NewETFHistoryResponse(ticker string, points []model.PricePoint) ETFHistoryResponse {
	prices := make([]PriceDataResponse, len(points))
	for i, p := range points {
		prices[i] = PriceDataResponse{
			Date:     p.Date.Format(dateLayout),
			Close:    p.Close,
			AdjClose: p.AdjustedClose,
			Dividend: p.Dividend,
		}
	}
	return ETFHistoryResponse{Ticker: ticker, Prices: prices}
}
