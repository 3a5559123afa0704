package handlers_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/handlers"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/testutil"
)

func setupETFHandler(t *testing.T) (*handlers.ETFHandler, *sql.DB, *testutil.MockYahooClient) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	yahooClient := testutil.NewMockYahooClient()
	return handlers.NewETFHandler(testutil.NewTestETFService(t, db, yahooClient)), db, yahooClient
}

func TestETFHandler_Search(t *testing.T) {
	tests := []struct {
		name        string
		query       map[string]string
		seed        string
		wantStatus  int
		wantTickers []string
	}{
		{
			name:       "missing query",
			query:      nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "stored etf wins",
			query:       map[string]string{"q": "vti"},
			seed:        "VTI",
			wantStatus:  http.StatusOK,
			wantTickers: []string{"VTI"},
		},
		{
			name:        "falls back to popular list",
			query:       map[string]string{"q": "gold"},
			wantStatus:  http.StatusOK,
			wantTickers: []string{"GLD"},
		},
		{
			name:        "no match is an empty list",
			query:       map[string]string{"q": "zzzz"},
			wantStatus:  http.StatusOK,
			wantTickers: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, db, _ := setupETFHandler(t)
			if tt.seed != "" {
				testutil.CreateETF(t, db, tt.seed)
			}

			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/v1/etf/search", tt.query)
			w := httptest.NewRecorder()
			handler.Search(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp response.ETFSearchResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			tickers := make([]string, 0, len(resp.Results))
			for _, r := range resp.Results {
				tickers = append(tickers, r.Ticker)
			}
			assert.Equal(t, tt.wantTickers, tickers)
		})
	}
}

func TestETFHandler_Detail(t *testing.T) {
	t.Run("returns stored metadata", func(t *testing.T) {
		handler, db, yahooClient := setupETFHandler(t)
		testutil.NewETF().WithTicker("VOO").WithName("Vanguard S&P 500 ETF").WithCategory("Large Cap Blend").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/etf/voo", map[string]string{"ticker": "voo"})
		w := httptest.NewRecorder()
		handler.Detail(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp response.ETFDetailResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "VOO", resp.Ticker)
		assert.Equal(t, "Vanguard S&P 500 ETF", resp.Name)
		require.NotNil(t, resp.Category)
		assert.Equal(t, "Large Cap Blend", *resp.Category)
		assert.Zero(t, yahooClient.Calls())
	})

	t.Run("unknown symbol is 404", func(t *testing.T) {
		handler, _, yahooClient := setupETFHandler(t)
		yahooClient.WithError(apperrors.ErrSymbolNotFound)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/etf/NOPE", map[string]string{"ticker": "NOPE"})
		w := httptest.NewRecorder()
		handler.Detail(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("provider outage is 502", func(t *testing.T) {
		handler, _, yahooClient := setupETFHandler(t)
		yahooClient.WithError(apperrors.ErrPriceProviderUnavailable)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/etf/VOO", map[string]string{"ticker": "VOO"})
		w := httptest.NewRecorder()
		handler.Detail(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestETFHandler_History(t *testing.T) {
	historyRequest := func(ticker, start, end string) *http.Request {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/etf/"+ticker+"/history", map[string]string{"ticker": ticker})
		q := req.URL.Query()
		if start != "" {
			q.Set("start", start)
		}
		if end != "" {
			q.Set("end", end)
		}
		req.URL.RawQuery = q.Encode()
		return req
	}

	t.Run("serves stored prices", func(t *testing.T) {
		handler, db, yahooClient := setupETFHandler(t)
		testutil.NewPriceHistory("VOO").Monthly(300, 310, 320).WithDividend(1, 1.25).Build(t, db)

		w := httptest.NewRecorder()
		handler.History(w, historyRequest("VOO", "2020-01-10", "2020-03-20"))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp response.ETFHistoryResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		assert.Equal(t, "VOO", resp.Ticker)
		require.Len(t, resp.Prices, 3)
		assert.Equal(t, "2020-01-15", resp.Prices[0].Date)
		assert.Equal(t, 310.0, resp.Prices[1].Close)
		assert.Equal(t, 1.25, resp.Prices[1].Dividend)
		assert.Zero(t, yahooClient.Calls())
	})

	t.Run("empty history is 404", func(t *testing.T) {
		handler, _, yahooClient := setupETFHandler(t)
		yahooClient.WithError(apperrors.ErrPriceHistoryNotFound)

		w := httptest.NewRecorder()
		handler.History(w, historyRequest("VOO", "2020-01-01", "2020-03-01"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad dates are 400", func(t *testing.T) {
		tests := []struct {
			name       string
			start, end string
		}{
			{name: "missing start", end: "2020-03-01"},
			{name: "malformed end", start: "2020-01-01", end: "03/01/2020"},
			{name: "inverted", start: "2020-03-01", end: "2020-01-01"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler, _, yahooClient := setupETFHandler(t)

				w := httptest.NewRecorder()
				handler.History(w, historyRequest("VOO", tt.start, tt.end))

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Zero(t, yahooClient.Calls())
			})
		}
	})
}
