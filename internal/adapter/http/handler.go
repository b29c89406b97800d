package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"market-pulse/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for
// HTTP: it holds the three usecases and a logger for structured logging.
// Routes are registered on a chi.Router for convenient method handling.
type Handler struct {
	attribution port.AttributionUseCase
	targeting   port.TargetingUseCase
	market      port.MarketUseCase
	logger      *slog.Logger
	router      chi.Router
}

// NewHandler creates a handler with all routes configured. The dashboard
// frontend is served from another origin, so CORS allows all.
func NewHandler(attribution port.AttributionUseCase, targeting port.TargetingUseCase, market port.MarketUseCase, logger *slog.Logger) *Handler {
	h := &Handler{attribution: attribution, targeting: targeting, market: market, logger: logger}
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/attribution/sync", h.handleAttributionSync)
		r.Post("/targeting/sync", h.handleTargetingSync)
		r.Get("/campaigns", h.handleListCampaigns)
		r.Get("/market/predict", h.handleMarketPredict)
		r.Get("/market/health", h.handleMarketHealth)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// writeJSON encodes v as the response body. Encoding should rarely fail;
// failures are logged and the connection left as-is.
func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
