package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
)

func unix(y int, m time.Month, d int) int64 {
	// Yahoo stamps sessions at the market open, not at midnight.
	return time.Date(y, m, d, 14, 30, 0, 0, time.UTC).Unix()
}

func f(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {"currency": "USD", "symbol": "VOO", "exchangeName": "PCX", "instrumentType": "ETF",
               "longName": "Vanguard S&P 500 ETF", "shortName": "Vanguard S&P 500", "firstTradeDate": 1283177400},
      "timestamp": [1577975400, 1578061800, 1578321000],
      "events": {"dividends": {"1578321000": {"amount": 1.3, "date": 1578321000}}},
      "indicators": {
        "quote": [{"open": [298.0, 297.5, null], "close": [299.0, 297.0, null], "high": [300.0, 298.0, null],
                   "low": [297.0, 296.0, null], "volume": [1000, 2000, null]}],
        "adjclose": [{"adjclose": [290.0, 288.1, null]}]
      }
    }],
    "error": null
  }
}`

func TestQuerySymbolByDateRange(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartJSON))
	}))
	t.Cleanup(server.Close)

	client := NewFinanceClient(WithBaseURL(server.URL+"/"), WithTimeout(time.Second))
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, time.January, 31, 0, 0, 0, 0, time.UTC)

	resp, err := client.QuerySymbolByDateRange(context.Background(), "voo", start, end)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/VOO", gotPath)
	assert.Equal(t, []string{"div"}, gotQuery["events"])
	assert.Equal(t, []string{"1d"}, gotQuery["interval"])
	assert.Equal(t, []string{"1580515200"}, gotQuery["period2"], "end is inclusive")

	chart, err := client.ParseChart(resp)
	require.NoError(t, err)

	assert.Equal(t, "Vanguard S&P 500 ETF", chart.Name())
	require.NotNil(t, chart.FirstTradeDate)
	assert.Equal(t, time.Date(2010, time.August, 30, 0, 0, 0, 0, time.UTC), *chart.FirstTradeDate)
	// The null session is dropped and its dividend has no later session.
	require.Len(t, chart.Indicators, 2)
	assert.Equal(t, time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC), chart.Indicators[0].Date)
	assert.Equal(t, 299.0, chart.Indicators[0].PriceClose)
	assert.Equal(t, 290.0, chart.Indicators[0].PriceAdjClose)
	assert.Zero(t, chart.Indicators[1].Dividend)
}

func TestQuerySymbolByDateRange_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "unknown symbol",
			status:  http.StatusNotFound,
			body:    `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`,
			wantErr: apperrors.ErrSymbolNotFound,
		},
		{
			name:    "empty result",
			status:  http.StatusOK,
			body:    `{"chart":{"result":[],"error":null}}`,
			wantErr: apperrors.ErrSymbolNotFound,
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			body:    `upstream down`,
			wantErr: apperrors.ErrPriceProviderUnavailable,
		},
		{
			name:    "yahoo error object",
			status:  http.StatusOK,
			body:    `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`,
			wantErr: apperrors.ErrPriceProviderUnavailable,
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `<html>`,
			wantErr: apperrors.ErrPriceProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			client := NewFinanceClient(WithBaseURL(server.URL))
			_, err := client.QuerySymbolByDateRange(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestParseChart_Dividends covers dividend attachment.
//
// WHY: The monthly normalizer sums dividends by session date. A dividend
// stamped on a non-trading day must still land in the right month, and the
// same response must always yield the same sums.
func TestParseChart_Dividends(t *testing.T) {
	resp := Response{Chart: Chart{Result: []Result{{
		Meta:      Meta{Symbol: "SCHD"},
		Timestamp: []int64{unix(2020, time.March, 20), unix(2020, time.March, 23), unix(2020, time.March, 24)},
		Events: &Events{Dividends: map[string]DividendEvent{
			// Saturday: moves to Monday the 23rd.
			"a": {Amount: 0.5, Date: unix(2020, time.March, 21)},
			"b": {Amount: 0.25, Date: unix(2020, time.March, 24)},
			"c": {Amount: 0.1, Date: unix(2020, time.March, 24)},
		}},
		Indicators: IndicatorsContainer{Quote: []Quote{{
			Close:  []*float64{f(50), f(51), f(52)},
			Volume: []*int64{i64(1), i64(2), i64(3)},
		}}},
	}}}}

	chart, err := NewFinanceClient().ParseChart(resp)
	require.NoError(t, err)

	require.Len(t, chart.Indicators, 3)
	assert.Zero(t, chart.Indicators[0].Dividend)
	assert.Equal(t, 0.5, chart.Indicators[1].Dividend)
	assert.InDelta(t, 0.35, chart.Indicators[2].Dividend, 1e-12)
	// No adjclose array: adjusted equals close.
	assert.Equal(t, 51.0, chart.Indicators[1].PriceAdjClose)
}

func TestParseChart_Invalid(t *testing.T) {
	client := NewFinanceClient()

	tests := []struct {
		name string
		resp Response
	}{
		{name: "no result", resp: Response{}},
		{name: "no timestamps", resp: Response{Chart: Chart{Result: []Result{{}}}}},
		{name: "no quotes", resp: Response{Chart: Chart{Result: []Result{{Timestamp: []int64{1}}}}}},
		{name: "all null", resp: Response{Chart: Chart{Result: []Result{{
			Timestamp:  []int64{1},
			Indicators: IndicatorsContainer{Quote: []Quote{{Close: []*float64{nil}}}},
		}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ParseChart(tt.resp)
			assert.ErrorIs(t, err, apperrors.ErrPriceHistoryNotFound)
		})
	}

	t.Run("mismatched lengths", func(t *testing.T) {
		_, err := client.ParseChart(Response{Chart: Chart{Result: []Result{{
			Timestamp:  []int64{1, 2},
			Indicators: IndicatorsContainer{Quote: []Quote{{Close: []*float64{f(1)}}}},
		}}}})
		assert.Error(t, err)
	})
}

func TestGetIndicatorForDate(t *testing.T) {
	chart := PriceChart{Indicators: []Indicators{
		{Date: time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC), PriceClose: 1},
		{Date: time.Date(2020, time.January, 3, 0, 0, 0, 0, time.UTC), PriceClose: 2},
	}}

	ind, ok := chart.GetIndicatorForDate(time.Date(2020, time.January, 3, 18, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, 2.0, ind.PriceClose)

	_, ok = chart.GetIndicatorForDate(time.Date(2020, time.January, 4, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}
