package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/simulation"
)

// SimulationDefaults are the server-wide settings a request may leave empty.
type SimulationDefaults struct {
	DividendPolicy model.DividendPolicy
	PriceBasis     model.PriceBasis
	Workers        int
}

// SimulationService loads price history, runs the simulation engine and
// shapes its output for the API.
type SimulationService struct {
	prices   PriceProvider
	defaults SimulationDefaults
	log      zerolog.Logger
}

// NewSimulationService creates a new SimulationService.
func NewSimulationService(prices PriceProvider, defaults SimulationDefaults, log zerolog.Logger) *SimulationService {
	if defaults.DividendPolicy == "" {
		defaults.DividendPolicy = model.DividendReinvest
	}
	if defaults.PriceBasis == "" {
		defaults.PriceBasis = model.PriceBasisClose
	}
	if defaults.Workers < 1 {
		defaults.Workers = 1
	}
	return &SimulationService{
		prices:   prices,
		defaults: defaults,
		log:      log.With().Str("component", "simulation_service").Logger(),
	}
}

// RunSimulation simulates one portfolio over the request window.
//
// Input errors are returned as *apperrors.ValidationError before any price
// is fetched. A month without data fails the whole run with a DataGapError.
func (s *SimulationService) RunSimulation(ctx context.Context, req model.SimulationRequest) (model.SimulationResult, error) {
	if req.Rebalancing == "" {
		req.Rebalancing = model.RebalanceNone
	}
	if req.DividendPolicy == "" {
		req.DividendPolicy = s.defaults.DividendPolicy
	}

	params := model.SimulationParams{
		Target:              req.Portfolio,
		InvestmentType:      req.InvestmentType,
		InitialAmount:       req.InitialAmount,
		MonthlyContribution: req.MonthlyContribution,
		Rebalancing:         req.Rebalancing,
		DividendPolicy:      req.DividendPolicy,
	}
	if err := simulation.ValidateParams(params); err != nil {
		return model.SimulationResult{}, err
	}
	if err := simulation.ValidateWindow(req.StartDate, req.EndDate); err != nil {
		return model.SimulationResult{}, err
	}

	log := s.log.With().Str("run_id", uuid.NewString()).Logger()
	started := time.Now()

	series, err := s.loadSeries(ctx, req.Portfolio.Tickers(), req.StartDate, req.EndDate)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load price series")
		return model.SimulationResult{}, err
	}

	snapshots, err := simulation.Simulate(series, params)
	if err != nil {
		log.Warn().Err(err).Msg("simulation failed")
		return model.SimulationResult{}, err
	}
	summary, boundaries := simulation.Calculate(snapshots)

	log.Info().
		Strs("tickers", req.Portfolio.Tickers()).
		Int("periods", len(snapshots)).
		Float64("final_value", summary.FinalValue).
		Dur("duration", time.Since(started)).
		Msg("simulation completed")

	return model.SimulationResult{
		Summary:     summary,
		MonthlyData: snapshots,
		Warnings:    simulation.BoundaryMessages(boundaries),
	}, nil
}

// CompareScenarios runs every scenario over the shared window and returns
// one result per scenario in input order. Any failing scenario fails the
// whole comparison.
func (s *SimulationService) CompareScenarios(ctx context.Context, req model.ComparisonRequest) ([]model.ScenarioResult, error) {
	if len(req.Scenarios) == 0 {
		return nil, apperrors.NewValidationError("scenarios", apperrors.ErrNoScenarios.Error())
	}
	if req.Rebalancing == "" {
		req.Rebalancing = model.RebalanceNone
	}
	if req.DividendPolicy == "" {
		req.DividendPolicy = s.defaults.DividendPolicy
	}
	if err := simulation.ValidateWindow(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var tickers []string
	for i, sc := range req.Scenarios {
		err := simulation.ValidateParams(model.SimulationParams{
			Target:              sc.Portfolio,
			InvestmentType:      sc.InvestmentType,
			InitialAmount:       sc.InitialAmount,
			MonthlyContribution: sc.MonthlyContribution,
			Rebalancing:         req.Rebalancing,
			DividendPolicy:      req.DividendPolicy,
		})
		if err != nil {
			return nil, &apperrors.ScenarioError{Name: sc.Name, Index: i, Err: err}
		}
		for _, t := range sc.Portfolio.Tickers() {
			if !seen[t] {
				seen[t] = true
				tickers = append(tickers, t)
			}
		}
	}

	log := s.log.With().Str("run_id", uuid.NewString()).Int("scenarios", len(req.Scenarios)).Logger()
	started := time.Now()

	series, err := s.loadSeries(ctx, tickers, req.StartDate, req.EndDate)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load price series")
		return nil, err
	}

	outcomes, err := simulation.Compare(ctx, series, req.Scenarios, simulation.SharedSettings{
		Rebalancing:    req.Rebalancing,
		DividendPolicy: req.DividendPolicy,
	}, s.defaults.Workers)
	if err != nil {
		var scErr *apperrors.ScenarioError
		if errors.As(err, &scErr) {
			log.Warn().Err(err).Str("scenario", scErr.Name).Msg("comparison aborted")
		}
		return nil, err
	}

	results := make([]model.ScenarioResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = o.Result()
	}

	log.Info().Dur("duration", time.Since(started)).Msg("comparison completed")
	return results, nil
}

// loadSeries fetches every ticker in parallel and aligns the results on the
// monthly timeline. An empty history is reported as a gap in the first
// month of the window.
func (s *SimulationService) loadSeries(ctx context.Context, tickers []string, start, end time.Time) (*simulation.Series, error) {
	var mu sync.Mutex
	raw := make(map[string][]model.PricePoint, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.defaults.Workers)
	for _, ticker := range tickers {
		g.Go(func() error {
			points, err := s.prices.GetPriceHistory(gctx, ticker, start, end)
			if err != nil {
				return fmt.Errorf("price history for %s: %w", ticker, err)
			}
			if len(points) == 0 {
				return &apperrors.DataGapError{
					Ticker: ticker,
					Month:  time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC),
					Reason: "no price history",
				}
			}
			mu.Lock()
			raw[ticker] = points
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return simulation.Normalize(raw, start, end, simulation.NormalizeOptions{PriceBasis: s.defaults.PriceBasis})
}
