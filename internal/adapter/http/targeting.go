package httpadapter

import (
	"log/slog"
	"net/http"
)

// handleTargetingSync runs one targeting sync over the attribution
// catalog. Per-campaign failures are already absorbed by the usecase, so
// any error here is a batch-level failure and maps to HTTP 500.
func (h *Handler) handleTargetingSync(w http.ResponseWriter, r *http.Request) {
	res, err := h.targeting.Sync(r.Context())
	if err != nil {
		h.logger.Error("targeting sync error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, res)
}
