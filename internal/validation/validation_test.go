package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
)

func validRun() request.SimulationRequest {
	return request.SimulationRequest{
		Portfolio: []request.PortfolioItemRequest{
			{Ticker: "VOO", Weight: 60},
			{Ticker: "BND", Weight: 40},
		},
		InvestmentType:      "dca",
		InitialAmount:       1000,
		MonthlyContribution: 100,
		StartDate:           "2020-01-01",
		EndDate:             "2020-12-31",
	}
}

// fields returns the failing field names of a validation error.
func fields(t *testing.T, err error) []string {
	t.Helper()

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	out := make([]string, 0, len(vErr.Fields))
	for f := range vErr.Fields {
		out = append(out, f)
	}
	return out
}

// TestValidateSimulationRequest tests the request rules of the run endpoint.
//
// WHY: Everything rejected here is rejected before any price is fetched.
// Each case must name the field at fault so the client can highlight it.
func TestValidateSimulationRequest(t *testing.T) {
	assert.NoError(t, ValidateSimulationRequest(validRun()))

	tests := []struct {
		name   string
		mutate func(*request.SimulationRequest)
		field  string
	}{
		{"empty portfolio", func(r *request.SimulationRequest) { r.Portfolio = nil }, "portfolio"},
		{"six items", func(r *request.SimulationRequest) {
			r.Portfolio = make([]request.PortfolioItemRequest, 6)
		}, "portfolio"},
		{"weights sum to 99", func(r *request.SimulationRequest) { r.Portfolio[1].Weight = 39 }, "portfolio"},
		{"weight above 100", func(r *request.SimulationRequest) { r.Portfolio[0].Weight = 160 }, "portfolio[0].weight"},
		{"negative weight", func(r *request.SimulationRequest) { r.Portfolio[1].Weight = -1 }, "portfolio[1].weight"},
		{"missing ticker", func(r *request.SimulationRequest) { r.Portfolio[0].Ticker = " " }, "portfolio[0].ticker"},
		{"long ticker", func(r *request.SimulationRequest) { r.Portfolio[0].Ticker = "ABCDEFGHIJK" }, "portfolio[0].ticker"},
		{"bad ticker characters", func(r *request.SimulationRequest) { r.Portfolio[0].Ticker = "VO O" }, "portfolio[0].ticker"},
		{"duplicate ticker", func(r *request.SimulationRequest) { r.Portfolio[1].Ticker = "voo" }, "portfolio[1].ticker"},
		{"unknown investment type", func(r *request.SimulationRequest) { r.InvestmentType = "weekly" }, "investment_type"},
		{"missing investment type", func(r *request.SimulationRequest) { r.InvestmentType = "" }, "investment_type"},
		{"negative initial amount", func(r *request.SimulationRequest) { r.InitialAmount = -5 }, "initial_amount"},
		{"negative contribution", func(r *request.SimulationRequest) { r.MonthlyContribution = -5 }, "monthly_contribution"},
		{"missing start", func(r *request.SimulationRequest) { r.StartDate = "" }, "start_date"},
		{"malformed end", func(r *request.SimulationRequest) { r.EndDate = "31/12/2020" }, "end_date"},
		{"start equals end", func(r *request.SimulationRequest) { r.EndDate = r.StartDate }, "end_date"},
		{"unknown rebalancing", func(r *request.SimulationRequest) { r.Rebalancing = "monthly" }, "rebalancing"},
		{"unknown dividend policy", func(r *request.SimulationRequest) { r.DividendPolicy = "cash" }, "dividend_policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRun()
			tt.mutate(&req)

			err := ValidateSimulationRequest(req)
			assert.Contains(t, fields(t, err), tt.field)
		})
	}

	t.Run("weights within tolerance", func(t *testing.T) {
		req := validRun()
		req.Portfolio[0].Weight = 60.009
		assert.NoError(t, ValidateSimulationRequest(req))
	})

	t.Run("exchange suffix ticker", func(t *testing.T) {
		req := validRun()
		req.Portfolio[0].Ticker = "VWCE.DE"
		assert.NoError(t, ValidateSimulationRequest(req))
	})
}

func TestValidateComparisonRequest(t *testing.T) {
	scenario := func(name string) request.ScenarioRequest {
		return request.ScenarioRequest{
			Name:           name,
			Portfolio:      []request.PortfolioItemRequest{{Ticker: "VOO", Weight: 100}},
			InvestmentType: "lump_sum",
			InitialAmount:  1000,
		}
	}
	valid := func() request.ComparisonRequest {
		return request.ComparisonRequest{
			Scenarios: []request.ScenarioRequest{scenario("A"), scenario("B")},
			StartDate: "2020-01-01",
			EndDate:   "2021-01-01",
		}
	}

	assert.NoError(t, ValidateComparisonRequest(valid()))

	tests := []struct {
		name   string
		mutate func(*request.ComparisonRequest)
		field  string
	}{
		{"one scenario", func(r *request.ComparisonRequest) { r.Scenarios = r.Scenarios[:1] }, "scenarios"},
		{"six scenarios", func(r *request.ComparisonRequest) {
			for range 4 {
				r.Scenarios = append(r.Scenarios, scenario("more"))
			}
		}, "scenarios"},
		{"missing name", func(r *request.ComparisonRequest) { r.Scenarios[1].Name = "" }, "scenarios[1].name"},
		{"long name", func(r *request.ComparisonRequest) { r.Scenarios[0].Name = strings.Repeat("x", 101) }, "scenarios[0].name"},
		{"bad weights", func(r *request.ComparisonRequest) { r.Scenarios[1].Portfolio[0].Weight = 90 }, "scenarios[1].portfolio"},
		{"bad type", func(r *request.ComparisonRequest) { r.Scenarios[0].InvestmentType = "x" }, "scenarios[0].investment_type"},
		{"inverted window", func(r *request.ComparisonRequest) { r.StartDate = "2022-01-01" }, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			assert.Contains(t, fields(t, ValidateComparisonRequest(req)), tt.field)
		})
	}
}

func TestValidateHistoryQuery(t *testing.T) {
	start, end, err := ValidateHistoryQuery("2020-01-01", "2020-06-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2020, time.June, 30, 0, 0, 0, 0, time.UTC), end)

	_, _, err = ValidateHistoryQuery("", "2020-06-30")
	assert.Contains(t, fields(t, err), "start")

	_, _, err = ValidateHistoryQuery("2020-06-30", "2020-01-01")
	assert.Contains(t, fields(t, err), "end")
}

func TestValidateSearchQuery(t *testing.T) {
	assert.NoError(t, ValidateSearchQuery("vanguard"))
	assert.Error(t, ValidateSearchQuery(""))
	assert.Error(t, ValidateSearchQuery(strings.Repeat("a", 101)))
}

func TestValidateTicker(t *testing.T) {
	for _, ok := range []string{"VOO", "brk-b", "^GSPC", "VWCE.DE"} {
		assert.NoError(t, ValidateTicker(ok), ok)
	}
	for _, bad := range []string{"", "TOOLONGTICKER", "VO O", "$VOO"} {
		assert.Error(t, ValidateTicker(bad), bad)
	}
}
