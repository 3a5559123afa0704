package testutil

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined test data instead of making actual API calls and is
// safe for concurrent use.
type MockYahooClient struct {
	mu sync.Mutex
	// MockResponse is returned for symbols without an entry in Responses
	MockResponse yahoo.Response
	// Responses holds per-symbol responses, keyed by upper-case symbol
	Responses map[string]yahoo.Response
	// MockError is the error to return from query methods
	MockError error
	// QueryCount tracks how many times a query method was called
	QueryCount int
	// Symbols records every queried symbol in call order
	Symbols []string
}

// NewMockYahooClient creates a new mock Yahoo client with default test data.
// The default data includes 5 days of historical prices suitable for testing.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		MockResponse: CreateMockYahooResponse(5),
		Responses:    make(map[string]yahoo.Response),
	}
}

// QuerySymbolByDateRange mocks the date range query with predefined test
// data. The configured response is returned whatever the range.
func (m *MockYahooClient) QuerySymbolByDateRange(ctx context.Context, symbol string, _, _ time.Time) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	m.Symbols = append(m.Symbols, symbol)
	if err := ctx.Err(); err != nil {
		return yahoo.Response{}, err
	}
	if m.MockError != nil {
		return yahoo.Response{}, m.MockError
	}
	if resp, ok := m.Responses[strings.ToUpper(symbol)]; ok {
		return resp, nil
	}
	return m.MockResponse, nil
}

// ParseChart delegates to the real ParseChart method since it's pure logic with no side effects.
func (m *MockYahooClient) ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error) {
	return yahoo.NewFinanceClient().ParseChart(yahooResult)
}

// Calls returns the number of queries made so far.
func (m *MockYahooClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// WithError configures the mock to return the specified error.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.MockError = err
	return m
}

// WithResponse configures the mock to return the specified response.
func (m *MockYahooClient) WithResponse(resp yahoo.Response) *MockYahooClient {
	m.MockResponse = resp
	return m
}

// WithSymbol configures the response for one symbol.
func (m *MockYahooClient) WithSymbol(symbol string, resp yahoo.Response) *MockYahooClient {
	m.Responses[strings.ToUpper(symbol)] = resp
	return m
}

// WithEmptyResponse configures the mock to return an empty response (no data).
func (m *MockYahooClient) WithEmptyResponse() *MockYahooClient {
	m.MockResponse = yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{},
		},
	}
	return m
}

// CreateMockYahooResponse creates a mock Yahoo Finance API response with test data.
// The response includes `days` number of days of price data, ending yesterday.
func CreateMockYahooResponse(days int) yahoo.Response {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	points := make([]model.PricePoint, days)
	for i := range points {
		price := 100.0 + float64(i)*0.5 + 0.25
		points[i] = model.PricePoint{
			Date:          yesterday.AddDate(0, 0, -days+i+1),
			Close:         price,
			AdjustedClose: price,
		}
	}
	return CreateChartResponse("TEST", "Test Fund Inc.", points)
}

// CreateChartResponse builds a chart response for symbol out of provider
// points. Sessions are stamped at the US market open and each non-zero
// dividend becomes a dividend event on its session.
func CreateChartResponse(symbol, longName string, points []model.PricePoint) yahoo.Response {
	n := len(points)
	timestamps := make([]int64, n)
	opens := make([]*float64, n)
	closes := make([]*float64, n)
	highs := make([]*float64, n)
	lows := make([]*float64, n)
	adj := make([]*float64, n)
	volumes := make([]*int64, n)
	dividends := make(map[string]yahoo.DividendEvent)

	for i, p := range points {
		ts := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 14, 30, 0, 0, time.UTC).Unix()
		timestamps[i] = ts

		closePrice, adjClose := p.Close, p.AdjustedClose
		high, low := p.Close+1, p.Close-0.5
		volume := int64(1000000 + i*10000)
		opens[i] = &closePrice
		closes[i] = &closePrice
		highs[i] = &high
		lows[i] = &low
		adj[i] = &adjClose
		volumes[i] = &volume

		if p.Dividend != 0 {
			dividends[strconv.FormatInt(ts, 10)] = yahoo.DividendEvent{Amount: p.Dividend, Date: ts}
		}
	}

	firstTrade := time.Date(2010, time.September, 9, 13, 30, 0, 0, time.UTC).Unix()
	result := yahoo.Result{
		Meta: yahoo.Meta{
			Symbol:           strings.ToUpper(symbol),
			Currency:         "USD",
			ExchangeName:     "PCX",
			FullExchangeName: "NYSEArca",
			InstrumentType:   "ETF",
			LongName:         longName,
			Shortname:        strings.ToUpper(symbol),
			FirstTradeDate:   &firstTrade,
		},
		Timestamp: timestamps,
		Indicators: yahoo.IndicatorsContainer{
			Quote: []yahoo.Quote{{
				Open:   opens,
				High:   highs,
				Low:    lows,
				Close:  closes,
				Volume: volumes,
			}},
			AdjClose: []yahoo.AdjClose{{AdjClose: adj}},
		},
	}
	if len(dividends) > 0 {
		result.Events = &yahoo.Events{Dividends: dividends}
	}

	return yahoo.Response{Chart: yahoo.Chart{Result: []yahoo.Result{result}}}
}

// CreateMockYahooErrorResponse creates a mock Yahoo response with an error.
// Useful for testing error handling scenarios.
func CreateMockYahooErrorResponse(code, description string) yahoo.Response {
	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{},
			Error:  &yahoo.ChartError{Code: code, Description: description},
		},
	}
}
