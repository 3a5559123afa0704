package simulation

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

const monthsPerYear = 12

// Calculate derives the summary metrics of a complete trajectory.
//
// Undefined metrics never fail the calculation: total return falls back to
// 0 and CAGR or volatility to nil, and each case is reported as a
// ComputationBoundaryError next to the summary.
func Calculate(snapshots []model.MonthlySnapshot) (model.SimulationSummary, []*apperrors.ComputationBoundaryError) {
	var boundaries []*apperrors.ComputationBoundaryError

	if len(snapshots) == 0 {
		boundaries = append(boundaries,
			&apperrors.ComputationBoundaryError{Metric: "total_return_pct", Reason: "empty trajectory"},
			&apperrors.ComputationBoundaryError{Metric: "cagr", Reason: "empty trajectory"},
		)
		return model.SimulationSummary{}, boundaries
	}

	last := snapshots[len(snapshots)-1]
	summary := model.SimulationSummary{
		TotalInvested:  last.InvestedAmount,
		FinalValue:     last.PortfolioValue,
		TotalDividends: last.DividendsReceived,
		MDD:            MaxDrawdown(snapshots),
	}

	if ret, err := TotalReturnPct(summary.TotalInvested, summary.FinalValue); err != nil {
		boundaries = append(boundaries, err)
	} else {
		summary.TotalReturnPct = ret
	}

	if cagr, err := CAGR(summary.TotalInvested, summary.FinalValue, len(snapshots)); err != nil {
		boundaries = append(boundaries, err)
	} else {
		summary.CAGR = &cagr
	}

	if vol, err := Volatility(snapshots); err != nil {
		boundaries = append(boundaries, err)
	} else {
		summary.Volatility = &vol
	}

	return summary, boundaries
}

// TotalReturnPct returns (final - invested) / invested * 100. With nothing
// invested the return is 0 by convention and a boundary error is returned.
func TotalReturnPct(invested, final float64) (float64, *apperrors.ComputationBoundaryError) {
	if invested == 0 {
		return 0, &apperrors.ComputationBoundaryError{Metric: "total_return_pct", Reason: "total invested is zero"}
	}
	return (final - invested) / invested * 100, nil
}

// CAGR returns (final/invested)^(12/periods) - 1, periods being months.
func CAGR(invested, final float64, periods int) (float64, *apperrors.ComputationBoundaryError) {
	if invested <= 0 {
		return 0, &apperrors.ComputationBoundaryError{Metric: "cagr", Reason: "total invested is not positive"}
	}
	if periods <= 0 {
		return 0, &apperrors.ComputationBoundaryError{Metric: "cagr", Reason: "no periods"}
	}
	return math.Pow(final/invested, monthsPerYear/float64(periods)) - 1, nil
}

// MaxDrawdown returns the largest peak-to-trough decline of the trajectory
// as a fraction in [-1, 0]. It tracks the running peak in a single pass.
// Leading periods with no value do not establish a peak.
func MaxDrawdown(snapshots []model.MonthlySnapshot) float64 {
	peak := 0.0
	mdd := 0.0
	for _, s := range snapshots {
		if s.PortfolioValue > peak {
			peak = s.PortfolioValue
			continue
		}
		if peak <= 0 {
			continue
		}
		if dd := (s.PortfolioValue - peak) / peak; dd < mdd {
			mdd = dd
		}
	}
	return math.Max(mdd, -1)
}

// MonthlyReturns returns the contribution-adjusted return of every month
// after the first: (value_t - contribution_t) / value_{t-1} - 1. Months that
// follow a zero value are skipped.
func MonthlyReturns(snapshots []model.MonthlySnapshot) []float64 {
	if len(snapshots) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(snapshots)-1)
	for i := 1; i < len(snapshots); i++ {
		prev := snapshots[i-1].PortfolioValue
		if prev <= 0 {
			continue
		}
		contribution := snapshots[i].InvestedAmount - snapshots[i-1].InvestedAmount
		returns = append(returns, (snapshots[i].PortfolioValue-contribution)/prev-1)
	}
	return returns
}

// Volatility returns the annualized standard deviation of monthly returns.
func Volatility(snapshots []model.MonthlySnapshot) (float64, *apperrors.ComputationBoundaryError) {
	returns := MonthlyReturns(snapshots)
	if len(returns) < 2 {
		return 0, &apperrors.ComputationBoundaryError{Metric: "volatility", Reason: "fewer than two monthly returns"}
	}
	return stat.StdDev(returns, nil) * math.Sqrt(monthsPerYear), nil
}
