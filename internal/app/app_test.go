package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/app"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/config"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "ETF Investment Simulator", APIV1Prefix: "/api/v1"},
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second},
		Database: config.DatabaseConfig{Path: ":memory:"},
		Simulation: config.SimulationConfig{
			Workers:        2,
			CacheTTL:       time.Hour,
			DividendPolicy: model.DividendReinvest,
			PriceBasis:     model.PriceBasisClose,
		},
		Refresh: config.RefreshConfig{Enabled: true, Schedule: "0 30 23 * * MON-FRI"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*app.App, *testutil.MockYahooClient) {
	t.Helper()

	yahooClient := testutil.NewMockYahooClient()
	a, err := app.New(context.Background(), cfg, zerolog.Nop(), app.WithYahooClient(yahooClient))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, yahooClient
}

func TestNew(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	testutil.AssertRowCount(t, a.DB, "etfs", 0)

	info, err := a.SystemService.GetVersionInfo(context.Background())
	require.NoError(t, err)
	assert.False(t, info.MigrationNeeded)
	assert.True(t, info.Features["price_cache"])
	assert.True(t, info.Features["price_refresh"])

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApp_Scheduler(t *testing.T) {
	t.Run("registers the refresh job", func(t *testing.T) {
		a, _ := newTestApp(t, testConfig())

		s, err := a.Scheduler()
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Refresh.Enabled = false
		a, _ := newTestApp(t, cfg)

		s, err := a.Scheduler()
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		cfg := testConfig()
		cfg.Refresh.Schedule = "every night"
		a, _ := newTestApp(t, cfg)

		_, err := a.Scheduler()
		assert.Error(t, err)
	})
}

func TestApp_PriceRefreshJob(t *testing.T) {
	a, yahooClient := newTestApp(t, testConfig())

	require.NoError(t, a.PriceRefreshJob().Run())

	// One query per popular ticker; the mock answers each with 5 sessions.
	assert.Equal(t, len(app.PopularTickers()), yahooClient.Calls())
	testutil.AssertRowCount(t, a.DB, "price_history", 5*len(app.PopularTickers()))
}
