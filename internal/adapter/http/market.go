package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"market-pulse/internal/core/domain"
	"market-pulse/internal/core/port"
)

// marketQuery builds a domain query from URL parameters. as_of is an
// optional RFC3339 or YYYY-MM-DD reference date for reproducible results;
// it defaults to now.
func marketQuery(r *http.Request) (domain.MarketQuery, time.Time, error) {
	q := r.URL.Query()
	query := domain.MarketQuery{
		City:  q.Get("city"),
		State: q.Get("state"),
		Zip:   q.Get("zip"),
		Topic: q.Get("topic"),
	}

	asOf := time.Now()
	if raw := q.Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			return query, asOf, errors.New("invalid 'as_of' date")
		}
		asOf = parsed
	}
	return query, asOf, nil
}

// respondMarketErr maps the market usecase's typed results onto status
// codes: not-found conditions are data outcomes, not server failures.
func (h *Handler) respondMarketErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, port.ErrInvalidQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, port.ErrNoMatchingLocality), errors.Is(err, port.ErrNoHistoricalData):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("market query error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// handleMarketPredict projects CPR for the requested market.
func (h *Handler) handleMarketPredict(w http.ResponseWriter, r *http.Request) {
	query, asOf, err := marketQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := h.market.PredictCPR(r.Context(), query, asOf)
	if err != nil {
		h.respondMarketErr(w, err)
		return
	}
	h.writeJSON(w, report)
}

// handleMarketHealth returns the aggregate saturation read for a market.
func (h *Handler) handleMarketHealth(w http.ResponseWriter, r *http.Request) {
	query, asOf, err := marketQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := h.market.Health(r.Context(), query, asOf)
	if err != nil {
		h.respondMarketErr(w, err)
		return
	}
	h.writeJSON(w, report)
}
