package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client is the subset of FinanceClient the services depend on.
type Client interface {
	QuerySymbolByDateRange(ctx context.Context, symbol string, start, end time.Time) (Response, error)
	ParseChart(yahooResult Response) (PriceChart, error)
}

// FinanceClient provides methods for fetching daily price history from the
// Yahoo Finance chart API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a FinanceClient.
type Option func(*FinanceClient)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *FinanceClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *FinanceClient) {
		c.httpClient.Timeout = timeout
	}
}

// NewFinanceClient creates a new Yahoo Finance client.
func NewFinanceClient(opts ...Option) *FinanceClient {
	c := &FinanceClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseChart converts a raw chart response into a structured price chart.
//
// Sessions with a null close are skipped. Adjusted close falls back to close
// when Yahoo does not return it. Each dividend event is attached to the
// trading day it falls on, or to the next trading day when the event date
// is not a session; events after the last session are dropped.
//
// Returns an error if the response has no result or no usable prices, or if
// the arrays have mismatched lengths.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("%w: empty chart result", apperrors.ErrPriceHistoryNotFound)
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no price data returned", apperrors.ErrPriceHistoryNotFound)
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no close prices returned", apperrors.ErrPriceHistoryNotFound)
	}

	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Close) != n {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}
	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
		if len(adj) != n {
			return PriceChart{}, fmt.Errorf("mismatched adjusted close length")
		}
	}

	indicators := make([]Indicators, 0, n)
	for i, ts := range result.Timestamp {
		closePrice := at(quote.Close, i)
		if closePrice == nil {
			continue
		}
		ind := Indicators{
			Date:       day(ts),
			PriceClose: *closePrice,
		}
		ind.PriceAdjClose = ind.PriceClose
		if v := at(adj, i); v != nil {
			ind.PriceAdjClose = *v
		}
		if v := at(quote.Open, i); v != nil {
			ind.PriceOpen = *v
		}
		if v := at(quote.High, i); v != nil {
			ind.PriceHigh = *v
		}
		if v := at(quote.Low, i); v != nil {
			ind.PriceLow = *v
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			ind.Volume = *quote.Volume[i]
		}
		indicators = append(indicators, ind)
	}
	if len(indicators) == 0 {
		return PriceChart{}, fmt.Errorf("%w: every session is null", apperrors.ErrPriceHistoryNotFound)
	}

	if result.Events != nil {
		attachDividends(indicators, result.Events.Dividends)
	}

	chart := PriceChart{
		Symbol:           result.Meta.Symbol,
		Currency:         result.Meta.Currency,
		ExchangeName:     result.Meta.ExchangeName,
		FullExchangeName: result.Meta.FullExchangeName,
		InstrumentType:   result.Meta.InstrumentType,
		LongName:         result.Meta.LongName,
		Shortname:        result.Meta.Shortname,
		Indicators:       indicators,
	}
	if result.Meta.FirstTradeDate != nil {
		d := day(*result.Meta.FirstTradeDate)
		chart.FirstTradeDate = &d
	}
	return chart, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func day(unix int64) time.Time {
	t := time.Unix(unix, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// attachDividends adds every event amount to the first session on or after
// its date. indicators must be sorted by date.
func attachDividends(indicators []Indicators, events map[string]DividendEvent) {
	keys := make([]string, 0, len(events))
	for k := range events {
		keys = append(keys, k)
	}
	// Sum in a fixed order so repeated parses give identical floats.
	sort.Strings(keys)

	for _, k := range keys {
		ev := events[k]
		ts := ev.Date
		if ts == 0 {
			ts, _ = strconv.ParseInt(k, 10, 64)
		}
		evDay := day(ts)
		idx := sort.Search(len(indicators), func(i int) bool {
			return !indicators[i].Date.Before(evDay)
		})
		if idx < len(indicators) {
			indicators[idx].Dividend += ev.Amount
		}
	}
}

// GetIndicatorForDate returns the session on target's calendar day.
func (c PriceChart) GetIndicatorForDate(target time.Time) (Indicators, bool) {
	targetDay := target.UTC().Truncate(24 * time.Hour)
	for _, ind := range c.Indicators {
		if ind.Date.Equal(targetDay) {
			return ind, true
		}
	}
	return Indicators{}, false
}

// QuerySymbolByDateRange fetches daily price data for a symbol between start
// and end inclusive, with dividend events and adjusted close.
//
// Returns apperrors.ErrSymbolNotFound when Yahoo does not know the symbol,
// and wraps apperrors.ErrPriceProviderUnavailable on transport failures.
func (c *FinanceClient) QuerySymbolByDateRange(ctx context.Context, symbol string, start, end time.Time) (Response, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	// period2 is exclusive on Yahoo's side.
	params.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	params.Set("events", "div")
	params.Set("includeAdjustedClose", "true")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(strings.ToUpper(symbol)), params.Encode())
	result, err := c.queryYahoo(ctx, u)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrSymbolNotFound, symbol)
	}

	return result, nil
}

// queryYahoo executes the request, decodes the JSON body and maps Yahoo
// errors onto the application error set.
func (c *FinanceClient) queryYahoo(ctx context.Context, u string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Response{}, err
		}
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrPriceProviderUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrPriceProviderUnavailable, err)
	}

	var response Response
	jsonErr := json.Unmarshal(data, &response)

	if response.Chart.Error != nil {
		if resp.StatusCode == http.StatusNotFound || response.Chart.Error.Code == "Not Found" {
			return Response{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, response.Chart.Error.Description)
		}
		return Response{}, fmt.Errorf("%w: yahoo error: %s", apperrors.ErrPriceProviderUnavailable, response.Chart.Error.Description)
	}
	if resp.StatusCode == http.StatusNotFound {
		return Response{}, apperrors.ErrSymbolNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return Response{}, fmt.Errorf("%w: status %d", apperrors.ErrPriceProviderUnavailable, resp.StatusCode)
	}
	if jsonErr != nil {
		return Response{}, fmt.Errorf("%w: invalid response: %v", apperrors.ErrPriceProviderUnavailable, jsonErr)
	}

	return response, nil
}
