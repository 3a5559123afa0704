package handlers

import (
	"net/http"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/service"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/validation"
)

// SimulationHandler handles HTTP requests for simulation endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// the simulation itself to the simulationService.
type SimulationHandler struct {
	simulationService *service.SimulationService
}

// NewSimulationHandler creates a new SimulationHandler with the provided service dependency.
func NewSimulationHandler(simulationService *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{
		simulationService: simulationService,
	}
}

// Run handles POST requests to simulate one portfolio.
//
// Endpoint: POST /api/v1/simulation/run
// Request Body: SimulationRequest (portfolio, investment_type, amounts, dates, rebalancing)
// Response: 200 OK with SimulationResponse (summary, monthly_data, warnings)
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 422 Unprocessable Entity if a ticker has no data for a month of the window
// Error: 502 Bad Gateway if the price provider is unavailable
// Error: 500 Internal Server Error if the simulation fails
func (h *SimulationHandler) Run(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SimulationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSimulationRequest(req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.simulationService.RunSimulation(r.Context(), req.ToModel())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrSimulationFailed.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.NewSimulationResponse(result))
}

// Compare handles POST requests to run several scenarios side by side.
// Results come back in request order. If any scenario fails, no results
// are returned.
//
// Endpoint: POST /api/v1/simulation/compare
// Request Body: ComparisonRequest (scenarios, start_date, end_date, rebalancing)
// Response: 200 OK with ComparisonResponse
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 422 Unprocessable Entity if a ticker has no data for a month of the window
// Error: 502 Bad Gateway if the price provider is unavailable
// Error: 500 Internal Server Error if the comparison fails
func (h *SimulationHandler) Compare(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ComparisonRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateComparisonRequest(req); err != nil {
		respondValidationError(w, err)
		return
	}

	results, err := h.simulationService.CompareScenarios(r.Context(), req.ToModel())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrComparisonFailed.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.ComparisonResponse{Scenarios: results})
}
