package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"market-pulse/internal/core/domain"
)

// attributionSyncRequest is the optional POST body for an attribution
// run. Jobs is the catalog snapshot; when empty the service falls back to
// jobs already known to the store. Since/Until bound the insights window
// and default to year-to-date.
type attributionSyncRequest struct {
	Jobs  []domain.Job `json:"jobs"`
	Since string       `json:"since"`
	Until string       `json:"until"`
}

// handleAttributionSync runs one attribution sync. An empty body is
// allowed. Invalid JSON or dates produce HTTP 400, internal errors 500.
func (h *Handler) handleAttributionSync(w http.ResponseWriter, r *http.Request) {
	var req attributionSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var since, until time.Time
	var err error
	if req.Since != "" {
		if since, err = time.Parse("2006-01-02", req.Since); err != nil {
			http.Error(w, "invalid 'since' date", http.StatusBadRequest)
			return
		}
	}
	if req.Until != "" {
		if until, err = time.Parse("2006-01-02", req.Until); err != nil {
			http.Error(w, "invalid 'until' date", http.StatusBadRequest)
			return
		}
	}

	res, err := h.attribution.Sync(r.Context(), req.Jobs, since, until)
	if err != nil {
		h.logger.Error("attribution sync error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, res)
}

// handleListCampaigns returns every persisted attribution row.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	rows, err := h.attribution.ListCampaigns(r.Context())
	if err != nil {
		h.logger.Error("list campaigns error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, rows)
}
