package handlers

import (
	"net/http"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/service"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/version"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
	appName       string
}

// NewSystemHandler creates a new SystemHandler. appName is shown on the
// root endpoint.
func NewSystemHandler(systemService *service.SystemService, appName string) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		appName:       appName,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// RootResponse is the banner served on /.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Root serves the API banner.
//
// Endpoint: GET /
func (h *SystemHandler) Root(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, RootResponse{
		Message: h.appName + " API",
		Version: version.Version,
	})
}

// Liveness reports that the process is serving requests. It does not touch
// the database.
//
// Endpoint: GET /health
func (h *SystemHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Health checks the health of the system and database connectivity
//
// Endpoint: GET /api/v1/system/health
// Response: 200 OK with HealthResponse
// Error: 503 Service Unavailable if the database cannot be reached
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// Version handles GET requests to retrieve version information and feature availability.
// Returns the application version, database version, available features, and any pending migrations.
//
// Endpoint: GET /api/v1/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	info, err := h.systemService.GetVersionInfo(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetVersionInfo.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, info)
}
