package simulation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// WeightTolerance is how far the target weights may sum away from 1.
const WeightTolerance = 1e-6

// ValidateTarget checks that the target has unique, non-empty tickers with
// non-negative weights summing to 1 within WeightTolerance.
func ValidateTarget(target model.Target) error {
	if len(target) == 0 {
		return apperrors.NewValidationError("portfolio", "at least one ticker is required")
	}

	fields := make(map[string]string)
	seen := make(map[string]bool, len(target))
	weights := make([]float64, len(target))
	for i, item := range target {
		key := fmt.Sprintf("portfolio[%d]", i)
		if strings.TrimSpace(item.Ticker) == "" {
			fields[key+".ticker"] = apperrors.ErrInvalidTicker.Error()
		} else if seen[item.Ticker] {
			fields[key+".ticker"] = fmt.Sprintf("duplicate ticker %s", item.Ticker)
		}
		seen[item.Ticker] = true

		if item.Weight < 0 || math.IsNaN(item.Weight) || math.IsInf(item.Weight, 0) {
			fields[key+".weight"] = "weight must be a non-negative number"
		}
		weights[i] = item.Weight
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}

	if sum := floats.Sum(weights); math.Abs(sum-1) > WeightTolerance {
		return apperrors.NewValidationError("portfolio", fmt.Sprintf("%s, got %v", apperrors.ErrInvalidWeights, sum))
	}
	return nil
}

// ValidateParams checks the policy parameters of a run. It does not look at
// price data.
func ValidateParams(p model.SimulationParams) error {
	if err := ValidateTarget(p.Target); err != nil {
		return err
	}

	fields := make(map[string]string)
	if !p.InvestmentType.Valid() {
		fields["investment_type"] = fmt.Sprintf("unknown investment type %q", p.InvestmentType)
	}
	if !p.Rebalancing.Valid() {
		fields["rebalancing"] = fmt.Sprintf("unknown rebalancing frequency %q", p.Rebalancing)
	}
	if p.DividendPolicy != "" && !p.DividendPolicy.Valid() {
		fields["dividend_policy"] = fmt.Sprintf("unknown dividend policy %q", p.DividendPolicy)
	}
	if msg := amountError(p.InitialAmount); msg != "" {
		fields["initial_amount"] = msg
	}
	if msg := amountError(p.MonthlyContribution); msg != "" {
		fields["monthly_contribution"] = msg
	}

	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}

// ValidateWindow checks that start is strictly before end.
func ValidateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.NewValidationError("start_date", apperrors.ErrInvalidDate.Error())
	}
	if !dateOnly(start).Before(dateOnly(end)) {
		return apperrors.NewValidationError("end_date", apperrors.ErrInvalidDateRange.Error())
	}
	return nil
}

func amountError(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "amount must be a finite number"
	}
	if v < 0 {
		return apperrors.ErrNegativeAmount.Error()
	}
	return ""
}
