package simulation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// SharedSettings are the parameters every scenario of a comparison shares.
type SharedSettings struct {
	Rebalancing    model.RebalancingFrequency
	DividendPolicy model.DividendPolicy
}

// ScenarioOutcome is the full result of one scenario run.
type ScenarioOutcome struct {
	Scenario   model.Scenario
	Summary    model.SimulationSummary
	Snapshots  []model.MonthlySnapshot
	Boundaries []*apperrors.ComputationBoundaryError
}

// Result returns the comparable view of the outcome.
func (o ScenarioOutcome) Result() model.ScenarioResult {
	return model.ScenarioResult{
		Name:           o.Scenario.Name,
		FinalValue:     o.Summary.FinalValue,
		TotalInvested:  o.Summary.TotalInvested,
		TotalReturnPct: o.Summary.TotalReturnPct,
		CAGR:           o.Summary.CAGR,
		MDD:            o.Summary.MDD,
		Warnings:       BoundaryMessages(o.Boundaries),
	}
}

// RunScenario simulates a single scenario and computes its metrics.
func RunScenario(series *Series, scenario model.Scenario, shared SharedSettings) (ScenarioOutcome, error) {
	snapshots, err := Simulate(series, model.SimulationParams{
		Target:              scenario.Portfolio,
		InvestmentType:      scenario.InvestmentType,
		InitialAmount:       scenario.InitialAmount,
		MonthlyContribution: scenario.MonthlyContribution,
		Rebalancing:         shared.Rebalancing,
		DividendPolicy:      shared.DividendPolicy,
	})
	if err != nil {
		return ScenarioOutcome{}, err
	}

	summary, boundaries := Calculate(snapshots)
	return ScenarioOutcome{
		Scenario:   scenario,
		Summary:    summary,
		Snapshots:  snapshots,
		Boundaries: boundaries,
	}, nil
}

// Compare runs every scenario against the same series, at most workers at a
// time, and returns the outcomes in input order.
//
// A failing scenario fails the whole comparison: the caller gets a
// ScenarioError naming the first failed scenario in input order and no
// outcomes at all. Every scenario runs to completion so the reported error
// does not depend on scheduling. Cancelling ctx skips scenarios not yet
// started and returns the context error.
func Compare(ctx context.Context, series *Series, scenarios []model.Scenario, shared SharedSettings, workers int) ([]ScenarioOutcome, error) {
	if len(scenarios) == 0 {
		return nil, apperrors.NewValidationError("scenarios", apperrors.ErrNoScenarios.Error())
	}
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]ScenarioOutcome, len(scenarios))
	errs := make([]error, len(scenarios))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, scenario := range scenarios {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome, err := RunScenario(series, scenario, shared)
			if err != nil {
				errs[i] = &apperrors.ScenarioError{Name: scenario.Name, Index: i, Err: err}
				return nil
			}
			outcomes[i] = outcome
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outcomes, nil
}

// BoundaryMessages renders boundary errors as warning strings.
func BoundaryMessages(boundaries []*apperrors.ComputationBoundaryError) []string {
	if len(boundaries) == 0 {
		return nil
	}
	msgs := make([]string, len(boundaries))
	for i, b := range boundaries {
		msgs[i] = b.Error()
	}
	return msgs
}
