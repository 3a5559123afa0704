// Package app wires configuration, storage and services into one
// application shared by the HTTP server and the command line tool.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/config"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/database"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/repository"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/scheduler"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/service"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/yahoo"
)

// App holds the wired services of one process.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	DB     *sql.DB

	ETFService        *service.ETFService
	PriceCache        *service.PriceCache
	SimulationService *service.SimulationService
	SystemService     *service.SystemService
}

// Option adjusts an App before its services are created.
type Option func(*options)

type options struct {
	yahooClient yahoo.Client
}

// WithYahooClient replaces the Yahoo Finance client, e.g. with a mock.
func WithYahooClient(c yahoo.Client) Option {
	return func(o *options) {
		o.yahooClient = c
	}
}

// New opens the database, applies pending migrations and creates the
// services. Close releases the database.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.yahooClient == nil {
		o.yahooClient = yahoo.NewFinanceClient(
			yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
			yahoo.WithTimeout(cfg.Yahoo.Timeout),
		)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	dbVersion, err := database.Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info().Str("path", cfg.Database.Path).Int64("schema_version", dbVersion).Msg("database ready")

	etfService := service.NewETFService(
		repository.NewETFRepository(db),
		repository.NewPriceRepository(db),
		o.yahooClient,
		log,
	)
	priceCache := service.NewPriceCache(etfService, cfg.Simulation.CacheTTL)
	simulationService := service.NewSimulationService(priceCache, service.SimulationDefaults{
		DividendPolicy: cfg.Simulation.DividendPolicy,
		PriceBasis:     cfg.Simulation.PriceBasis,
		Workers:        cfg.Simulation.Workers,
	}, log)
	systemService := service.NewSystemService(db, cfg.App.Name, map[string]bool{
		"price_cache":   cfg.Simulation.CacheTTL > 0,
		"price_refresh": cfg.Refresh.Enabled,
	})

	return &App{
		Config:            cfg,
		Log:               log,
		DB:                db,
		ETFService:        etfService,
		PriceCache:        priceCache,
		SimulationService: simulationService,
		SystemService:     systemService,
	}, nil
}

// Router returns the HTTP handler of the API.
func (a *App) Router() http.Handler {
	return api.NewRouter(a.SystemService, a.ETFService, a.SimulationService, a.Config, a.Log)
}

// PopularTickers returns the tickers of the built-in ETF list.
func PopularTickers() []string {
	tickers := make([]string, len(service.PopularETFs))
	for i, etf := range service.PopularETFs {
		tickers[i] = etf.Ticker
	}
	return tickers
}

// PriceRefreshJob returns the job that keeps stored prices current and drops
// stale cache entries.
func (a *App) PriceRefreshJob() *scheduler.PriceRefreshJob {
	return scheduler.NewPriceRefreshJob(scheduler.PriceRefreshConfig{
		Log:       a.Log,
		Refresher: a.ETFService,
		Cache:     a.PriceCache,
		Tickers:   PopularTickers(),
	})
}

// Scheduler returns a scheduler with the price refresh job registered when
// refresh is enabled, or nil otherwise.
func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	if !a.Config.Refresh.Enabled {
		return nil, nil
	}
	s := scheduler.New(a.Log)
	if err := s.AddJob(a.Config.Refresh.Schedule, a.PriceRefreshJob()); err != nil {
		return nil, fmt.Errorf("invalid PRICE_REFRESH_SCHEDULE: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
