package response

import (
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

const dateLayout = "2006-01-02"

// SnapshotResponse is one month of a simulation trajectory.
type SnapshotResponse struct {
	Date              string  `json:"date"`
	PortfolioValue    float64 `json:"portfolio_value"`
	InvestedAmount    float64 `json:"invested_amount"`
	DividendsReceived float64 `json:"dividends_received"`
}

// SimulationResponse is the body of POST /simulation/run.
type SimulationResponse struct {
	Summary     model.SimulationSummary `json:"summary"`
	MonthlyData []SnapshotResponse      `json:"monthly_data"`
	Warnings    []string                `json:"warnings,omitempty"`
}

// NewSimulationResponse converts a service result to its wire form.
func NewSimulationResponse(result model.SimulationResult) SimulationResponse {
	data := make([]SnapshotResponse, len(result.MonthlyData))
	for i, s := range result.MonthlyData {
		data[i] = SnapshotResponse{
			Date:              s.Date.Format(dateLayout),
			PortfolioValue:    s.PortfolioValue,
			InvestedAmount:    s.InvestedAmount,
			DividendsReceived: s.DividendsReceived,
		}
	}
	return SimulationResponse{
		Summary:     result.Summary,
		MonthlyData: data,
		Warnings:    result.Warnings,
	}
}

// ComparisonResponse is the body of POST /simulation/compare.
type ComparisonResponse struct {
	Scenarios []model.ScenarioResult `json:"scenarios"`
}
