package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

const (
	// MinPortfolioItems and MaxPortfolioItems bound the size of a portfolio.
	MinPortfolioItems = 1
	MaxPortfolioItems = 5
	// MinScenarios and MaxScenarios bound the size of a comparison.
	MinScenarios = 2
	MaxScenarios = 5
	// WeightSumTolerance is how far percentage weights may sum away from 100.
	WeightSumTolerance = 0.01
)

// ValidateSimulationRequest validates a single simulation request.
//
// Required fields:
//   - portfolio: 1 to 5 items, unique tickers, weights in percent summing to 100
//   - investment_type: lump_sum or dca
//   - start_date, end_date: YYYY-MM-DD with start before end
//
// Optional fields (validated if provided):
//   - initial_amount, monthly_contribution: must not be negative
//   - rebalancing: none, quarterly or yearly
//   - dividend_policy: reinvest or accumulate
func ValidateSimulationRequest(req request.SimulationRequest) error {
	errs := make(map[string]string)

	validatePortfolio(errs, "portfolio", req.Portfolio)
	validateInvestment(errs, "", req.InvestmentType, req.InitialAmount, req.MonthlyContribution)
	validateDateRange(errs, req.StartDate, req.EndDate, "start_date", "end_date")
	validatePolicies(errs, req.Rebalancing, req.DividendPolicy)

	if len(errs) > 0 {
		return &apperrors.ValidationError{Fields: errs}
	}
	return nil
}

// ValidateComparisonRequest validates a comparison request: 2 to 5 named
// scenarios, each checked like a simulation request, over one shared window.
func ValidateComparisonRequest(req request.ComparisonRequest) error {
	errs := make(map[string]string)

	if n := len(req.Scenarios); n < MinScenarios || n > MaxScenarios {
		errs["scenarios"] = fmt.Sprintf("between %d and %d scenarios are required, got %d", MinScenarios, MaxScenarios, n)
	}
	for i, s := range req.Scenarios {
		prefix := fmt.Sprintf("scenarios[%d].", i)

		name := strings.TrimSpace(s.Name)
		switch {
		case name == "":
			errs[prefix+"name"] = "name is required"
		case len(name) > MaxScenarioNameLength:
			errs[prefix+"name"] = fmt.Sprintf("name must be at most %d characters", MaxScenarioNameLength)
		}

		validatePortfolio(errs, prefix+"portfolio", s.Portfolio)
		validateInvestment(errs, prefix, s.InvestmentType, s.InitialAmount, s.MonthlyContribution)
	}
	validateDateRange(errs, req.StartDate, req.EndDate, "start_date", "end_date")
	validatePolicies(errs, req.Rebalancing, req.DividendPolicy)

	if len(errs) > 0 {
		return &apperrors.ValidationError{Fields: errs}
	}
	return nil
}

func validatePortfolio(errs map[string]string, field string, items []request.PortfolioItemRequest) {
	if n := len(items); n < MinPortfolioItems || n > MaxPortfolioItems {
		errs[field] = fmt.Sprintf("between %d and %d items are required, got %d", MinPortfolioItems, MaxPortfolioItems, n)
		return
	}

	seen := make(map[string]bool, len(items))
	sum := 0.0
	valid := true
	for i, item := range items {
		key := fmt.Sprintf("%s[%d]", field, i)

		if msg := tickerError(item.Ticker); msg != "" {
			errs[key+".ticker"] = msg
			valid = false
		} else {
			ticker := strings.ToUpper(strings.TrimSpace(item.Ticker))
			if seen[ticker] {
				errs[key+".ticker"] = fmt.Sprintf("duplicate ticker %s", ticker)
				valid = false
			}
			seen[ticker] = true
		}

		if math.IsNaN(item.Weight) || item.Weight < 0 || item.Weight > 100 {
			errs[key+".weight"] = "weight must be between 0 and 100"
			valid = false
			continue
		}
		sum += item.Weight
	}

	if valid && math.Abs(sum-100) > WeightSumTolerance {
		errs[field] = fmt.Sprintf("portfolio weights must sum to 100, got %g", sum)
	}
}

func validateInvestment(errs map[string]string, prefix, investmentType string, initial, monthly float64) {
	if investmentType == "" {
		errs[prefix+"investment_type"] = "investment_type is required"
	} else if !model.InvestmentType(investmentType).Valid() {
		errs[prefix+"investment_type"] = fmt.Sprintf("invalid investment_type: %s", investmentType)
	}
	if msg := amountError(initial); msg != "" {
		errs[prefix+"initial_amount"] = msg
	}
	if msg := amountError(monthly); msg != "" {
		errs[prefix+"monthly_contribution"] = msg
	}
}

func validatePolicies(errs map[string]string, rebalancing, dividendPolicy string) {
	if rebalancing != "" && !model.RebalancingFrequency(rebalancing).Valid() {
		errs["rebalancing"] = fmt.Sprintf("invalid rebalancing: %s", rebalancing)
	}
	if dividendPolicy != "" && !model.DividendPolicy(dividendPolicy).Valid() {
		errs["dividend_policy"] = fmt.Sprintf("invalid dividend_policy: %s", dividendPolicy)
	}
}
