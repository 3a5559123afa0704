package model

import "time"

// InvestmentType selects the contribution schedule of a simulation.
type InvestmentType string

const (
	InvestmentLumpSum InvestmentType = "lump_sum"
	InvestmentDCA     InvestmentType = "dca"
)

// Valid reports whether t is a known investment type.
func (t InvestmentType) Valid() bool {
	return t == InvestmentLumpSum || t == InvestmentDCA
}

// RebalancingFrequency selects when holdings are brought back to target weights.
type RebalancingFrequency string

const (
	RebalanceNone      RebalancingFrequency = "none"
	RebalanceQuarterly RebalancingFrequency = "quarterly"
	RebalanceYearly    RebalancingFrequency = "yearly"
)

// Valid reports whether f is a known rebalancing frequency.
func (f RebalancingFrequency) Valid() bool {
	switch f {
	case RebalanceNone, RebalanceQuarterly, RebalanceYearly:
		return true
	}
	return false
}

// DividendPolicy decides when dividend cash is turned back into shares.
//
//   - reinvest: converted in the period it is received
//   - accumulate: held as cash until the next contribution or rebalance
type DividendPolicy string

const (
	DividendReinvest   DividendPolicy = "reinvest"
	DividendAccumulate DividendPolicy = "accumulate"
)

// Valid reports whether p is a known dividend policy.
func (p DividendPolicy) Valid() bool {
	return p == DividendReinvest || p == DividendAccumulate
}

// PriceBasis selects which daily price the normalizer aligns on.
type PriceBasis string

const (
	PriceBasisClose         PriceBasis = "close"
	PriceBasisAdjustedClose PriceBasis = "adjusted_close"
)

// Valid reports whether b is a known price basis.
func (b PriceBasis) Valid() bool {
	return b == PriceBasisClose || b == PriceBasisAdjustedClose
}

// PortfolioItem is one ticker of a target allocation. Weight is a fraction
// in [0, 1] inside the engine.
type PortfolioItem struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

// Target is an ordered target allocation. Order is preserved through every
// calculation so results are reproducible bit for bit.
type Target []PortfolioItem

// Tickers returns the tickers of the target in order.
func (t Target) Tickers() []string {
	tickers := make([]string, len(t))
	for i, item := range t {
		tickers[i] = item.Ticker
	}
	return tickers
}

// Holding is the share count of one ticker inside a running simulation.
type Holding struct {
	Ticker string
	Shares float64
}

// PortfolioState is the live state of one simulation run. Holdings follow
// the target order.
type PortfolioState struct {
	Holdings []Holding
	Cash     float64
}

// Value returns the market value of the holdings at the given prices plus
// any uninvested cash. prices follows the holdings order.
func (s *PortfolioState) Value(prices []float64) float64 {
	value := 0.0
	for i, h := range s.Holdings {
		value += h.Shares * prices[i]
	}
	return value + s.Cash
}

// MonthlySnapshot is the portfolio at the end of one simulated month.
type MonthlySnapshot struct {
	Date              time.Time `json:"date"`
	PortfolioValue    float64   `json:"portfolio_value"`
	InvestedAmount    float64   `json:"invested_amount"`
	DividendsReceived float64   `json:"dividends_received"`
}

// SimulationSummary holds the metrics derived from a complete trajectory.
// CAGR and Volatility are nil when undefined for the trajectory.
type SimulationSummary struct {
	TotalInvested  float64  `json:"total_invested"`
	FinalValue     float64  `json:"final_value"`
	TotalReturnPct float64  `json:"total_return_pct"`
	CAGR           *float64 `json:"cagr"`
	MDD            float64  `json:"mdd"`
	TotalDividends float64  `json:"total_dividends"`
	Volatility     *float64 `json:"volatility"`
}

// SimulationParams are the per-run policy parameters of the simulator.
type SimulationParams struct {
	Target              Target
	InvestmentType      InvestmentType
	InitialAmount       float64
	MonthlyContribution float64
	Rebalancing         RebalancingFrequency
	DividendPolicy      DividendPolicy
}

// SimulationRequest is a complete single-run request handed to the service.
type SimulationRequest struct {
	Portfolio           Target
	InvestmentType      InvestmentType
	InitialAmount       float64
	MonthlyContribution float64
	StartDate           time.Time
	EndDate             time.Time
	Rebalancing         RebalancingFrequency
	DividendPolicy      DividendPolicy
}

// SimulationResult is the outcome of one simulation run.
type SimulationResult struct {
	Summary     SimulationSummary `json:"summary"`
	MonthlyData []MonthlySnapshot `json:"monthly_data"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// Scenario is one named member of a comparison request.
type Scenario struct {
	Name                string
	Portfolio           Target
	InvestmentType      InvestmentType
	InitialAmount       float64
	MonthlyContribution float64
}

// ComparisonRequest runs several scenarios over a shared window.
type ComparisonRequest struct {
	Scenarios      []Scenario
	StartDate      time.Time
	EndDate        time.Time
	Rebalancing    RebalancingFrequency
	DividendPolicy DividendPolicy
}

// ScenarioResult is the comparable outcome of one scenario.
type ScenarioResult struct {
	Name           string   `json:"name"`
	FinalValue     float64  `json:"final_value"`
	TotalInvested  float64  `json:"total_invested"`
	TotalReturnPct float64  `json:"total_return_pct"`
	CAGR           *float64 `json:"cagr"`
	MDD            float64  `json:"mdd"`
	Warnings       []string `json:"warnings,omitempty"`
}
