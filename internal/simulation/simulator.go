package simulation

import (
	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// RunState is the lifecycle of a Run. There is no paused state: a run goes
// from not_started to completed in one synchronous pass.
type RunState int

const (
	StateNotStarted RunState = iota
	StateRunning
	StateCompleted
)

func (s RunState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Run is a single simulation over one Series. It owns its PortfolioState
// and can be executed exactly once.
type Run struct {
	series *Series
	params model.SimulationParams
	state  RunState
}

// NewRun validates params and prepares a run over series.
func NewRun(series *Series, params model.SimulationParams) (*Run, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	if series == nil {
		return nil, apperrors.NewValidationError("series", "price series is required")
	}
	if params.DividendPolicy == "" {
		params.DividendPolicy = model.DividendReinvest
	}

	// Keep a private copy so a caller mutating its target cannot affect the run.
	target := make(model.Target, len(params.Target))
	copy(target, params.Target)
	params.Target = target

	return &Run{series: series, params: params}, nil
}

// State returns the current lifecycle state.
func (r *Run) State() RunState {
	return r.state
}

// Execute advances the portfolio through every period of the series and
// returns the trajectory. Each period runs, in order:
//
//  1. revalue holdings at the period price
//  2. credit dividends as cash (shares x dividend per share)
//  3. inject the scheduled contribution and convert cash into shares by
//     target weight (held dividend cash waits under the accumulate policy)
//  4. rebalance when the frequency triggers
//  5. emit the snapshot
//
// Any error aborts the run and no snapshot is returned.
func (r *Run) Execute() ([]model.MonthlySnapshot, error) {
	if r.state != StateNotStarted {
		return nil, apperrors.ErrRunAlreadyStarted
	}
	r.state = StateRunning
	defer func() { r.state = StateCompleted }()

	target := r.params.Target
	periods := r.series.periods

	state := &model.PortfolioState{Holdings: make([]model.Holding, len(target))}
	for i, item := range target {
		state.Holdings[i] = model.Holding{Ticker: item.Ticker}
	}

	prices := make([]float64, len(target))
	dividends := make([]float64, len(target))
	snapshots := make([]model.MonthlySnapshot, 0, len(periods))

	var invested, dividendsReceived float64
	for period := range periods {
		// 1. Price movement: shares are unchanged, only the prices move.
		for i, item := range target {
			obs, err := r.series.Observation(item.Ticker, period)
			if err != nil {
				return nil, err
			}
			prices[i] = obs.Price
			dividends[i] = obs.Dividend
		}

		// 2. Dividends are received in cash.
		received := 0.0
		for i, h := range state.Holdings {
			received += h.Shares * dividends[i]
		}
		state.Cash += received
		dividendsReceived += received

		// 3. New contributions.
		contribution := Contribution(r.params.InvestmentType, r.params.InitialAmount, r.params.MonthlyContribution, period)
		invested += contribution
		if r.params.DividendPolicy == model.DividendReinvest || contribution > 0 {
			applyDeltas(state, Allocate(target, state.Cash+contribution, prices))
			state.Cash = 0
		}

		// 4. Rebalance.
		if ShouldRebalance(r.params.Rebalancing, period) {
			executeRebalance(state, prices, target)
		}

		// 5. Snapshot.
		snapshots = append(snapshots, model.MonthlySnapshot{
			Date:              periods[period],
			PortfolioValue:    state.Value(prices),
			InvestedAmount:    invested,
			DividendsReceived: dividendsReceived,
		})
	}

	return snapshots, nil
}

// Simulate runs params over series and returns the full trajectory.
func Simulate(series *Series, params model.SimulationParams) ([]model.MonthlySnapshot, error) {
	run, err := NewRun(series, params)
	if err != nil {
		return nil, err
	}
	return run.Execute()
}
