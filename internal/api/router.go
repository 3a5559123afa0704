package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/ETF-Simulator-Backend/internal/api/middleware"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/config"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	etfService *service.ETFService,
	simulationService *service.SimulationService,
	cfg *config.Config,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(systemService, cfg.App.Name)
	r.Get("/", systemHandler.Root)
	r.Get("/health", systemHandler.Liveness)

	// API routes
	r.Route(cfg.App.APIV1Prefix, func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/simulation", func(r chi.Router) {
			simulationHandler := handlers.NewSimulationHandler(simulationService)
			r.Post("/run", simulationHandler.Run)
			r.Post("/compare", simulationHandler.Compare)
		})

		r.Route("/etf", func(r chi.Router) {
			etfHandler := handlers.NewETFHandler(etfService)
			r.Get("/search", etfHandler.Search)

			r.Route("/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateTickerMiddleware)
				r.Get("/", etfHandler.Detail)
				r.Get("/history", etfHandler.History)
			})
		})
	})

	return r
}
