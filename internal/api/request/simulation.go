package request

import (
	"strings"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// DateLayout is the wire format of every date in the API.
const DateLayout = "2006-01-02"

// PortfolioItemRequest is one ticker of a requested allocation. Weight is a
// percentage between 0 and 100.
type PortfolioItemRequest struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

type SimulationRequest struct {
	Portfolio           []PortfolioItemRequest `json:"portfolio"`
	InvestmentType      string                 `json:"investment_type"`
	InitialAmount       float64                `json:"initial_amount"`
	MonthlyContribution float64                `json:"monthly_contribution"`
	StartDate           string                 `json:"start_date"`
	EndDate             string                 `json:"end_date"`
	Rebalancing         string                 `json:"rebalancing"`
	DividendPolicy      string                 `json:"dividend_policy"`
}

type ScenarioRequest struct {
	Name                string                 `json:"name"`
	Portfolio           []PortfolioItemRequest `json:"portfolio"`
	InvestmentType      string                 `json:"investment_type"`
	InitialAmount       float64                `json:"initial_amount"`
	MonthlyContribution float64                `json:"monthly_contribution"`
}

type ComparisonRequest struct {
	Scenarios      []ScenarioRequest `json:"scenarios"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	Rebalancing    string            `json:"rebalancing"`
	DividendPolicy string            `json:"dividend_policy"`
}

// ToTarget converts percentage weights into fractions of their sum and
// upper-cases the tickers. The order of items is kept.
func ToTarget(items []PortfolioItemRequest) model.Target {
	sum := 0.0
	for _, item := range items {
		sum += item.Weight
	}

	target := make(model.Target, len(items))
	for i, item := range items {
		weight := 0.0
		if sum > 0 {
			weight = item.Weight / sum
		}
		target[i] = model.PortfolioItem{
			Ticker: strings.ToUpper(strings.TrimSpace(item.Ticker)),
			Weight: weight,
		}
	}
	return target
}

// ToModel converts a validated request into the service input. Dates that do
// not parse are left zero; validation rejects them first.
func (r SimulationRequest) ToModel() model.SimulationRequest {
	start, _ := time.Parse(DateLayout, r.StartDate)
	end, _ := time.Parse(DateLayout, r.EndDate)
	return model.SimulationRequest{
		Portfolio:           ToTarget(r.Portfolio),
		InvestmentType:      model.InvestmentType(r.InvestmentType),
		InitialAmount:       r.InitialAmount,
		MonthlyContribution: r.MonthlyContribution,
		StartDate:           start,
		EndDate:             end,
		Rebalancing:         model.RebalancingFrequency(r.Rebalancing),
		DividendPolicy:      model.DividendPolicy(r.DividendPolicy),
	}
}

// ToModel converts a validated request into the service input.
func (r ComparisonRequest) ToModel() model.ComparisonRequest {
	start, _ := time.Parse(DateLayout, r.StartDate)
	end, _ := time.Parse(DateLayout, r.EndDate)

	scenarios := make([]model.Scenario, len(r.Scenarios))
	for i, s := range r.Scenarios {
		scenarios[i] = model.Scenario{
			Name:                strings.TrimSpace(s.Name),
			Portfolio:           ToTarget(s.Portfolio),
			InvestmentType:      model.InvestmentType(s.InvestmentType),
			InitialAmount:       s.InitialAmount,
			MonthlyContribution: s.MonthlyContribution,
		}
	}
	return model.ComparisonRequest{
		Scenarios:      scenarios,
		StartDate:      start,
		EndDate:        end,
		Rebalancing:    model.RebalancingFrequency(r.Rebalancing),
		DividendPolicy: model.DividendPolicy(r.DividendPolicy),
	}
}
