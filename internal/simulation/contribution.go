package simulation

import "github.com/ndewijer/ETF-Simulator-Backend/internal/model"

// Contribution returns the new cash injected at the given period (0-based).
//
//   - lump_sum: initial on period 0, nothing afterwards.
//   - dca: initial plus monthly on period 0, monthly on every later period.
//
// The DCA monthly contribution starts at period 0, so a 12-month DCA run
// invests initial + 12*monthly.
func Contribution(investmentType model.InvestmentType, initial, monthly float64, period int) float64 {
	if period < 0 {
		return 0
	}

	switch investmentType {
	case model.InvestmentLumpSum:
		if period == 0 {
			return initial
		}
		return 0
	case model.InvestmentDCA:
		if period == 0 {
			return initial + monthly
		}
		return monthly
	default:
		return 0
	}
}
