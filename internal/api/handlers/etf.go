package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/service"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/validation"
)

// ETFHandler handles HTTP requests for ETF endpoints.
type ETFHandler struct {
	etfService *service.ETFService
}

// NewETFHandler creates a new ETFHandler with the provided service dependency.
func NewETFHandler(etfService *service.ETFService) *ETFHandler {
	return &ETFHandler{
		etfService: etfService,
	}
}

// Search handles GET requests to find ETFs by ticker or name.
//
// Endpoint: GET /api/v1/etf/search?q={query}
// Response: 200 OK with ETFSearchResponse
// Error: 400 Bad Request if q is missing
// Error: 500 Internal Server Error if the search fails
func (h *ETFHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if err := validation.ValidateSearchQuery(q); err != nil {
		respondValidationError(w, err)
		return
	}

	results, err := h.etfService.SearchETFs(r.Context(), q)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSearchETFs.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.ETFSearchResponse{Results: results})
}

// Detail handles GET requests for the metadata of one ETF.
//
// Endpoint: GET /api/v1/etf/{ticker}
// Response: 200 OK with ETFDetailResponse
// Error: 400 Bad Request if the ticker is invalid (validated by middleware)
// Error: 404 Not Found if the ETF is unknown
// Error: 502 Bad Gateway if the price provider is unavailable
func (h *ETFHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ticker := upperTicker(chi.URLParam(r, "ticker"))

	etf, err := h.etfService.GetETF(r.Context(), ticker)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveETF.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.NewETFDetailResponse(etf))
}

// History handles GET requests for daily prices of one ETF.
//
// Endpoint: GET /api/v1/etf/{ticker}/history?start=YYYY-MM-DD&end=YYYY-MM-DD
// Response: 200 OK with ETFHistoryResponse
// Error: 400 Bad Request if the dates are missing, malformed or inverted
// Error: 404 Not Found if there is no price data in the window
// Error: 502 Bad Gateway if the price provider is unavailable
func (h *ETFHandler) History(w http.ResponseWriter, r *http.Request) {
	ticker := upperTicker(chi.URLParam(r, "ticker"))

	start, end, err := validation.ValidateHistoryQuery(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		respondValidationError(w, err)
		return
	}

	points, err := h.etfService.GetPriceHistory(r.Context(), ticker, start, end)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePrices.Error())
		return
	}
	if len(points) == 0 {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPriceHistoryNotFound.Error(), "no price data found for "+ticker)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.NewETFHistoryResponse(ticker, points))
}
