package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kvanzyl/shedwatch/internal/metrics"
)

// SuburbStats returns the suburb's trailing-week downtime minutes bucketed
// by weekday, ending now or at ?at=.
func (h *Handlers) SuburbStats(w http.ResponseWriter, r *http.Request) {
	metrics.StatsRequests.Add(1)
	suburbID := chi.URLParam(r, "suburbID")

	at, ok := queryInstant(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid at parameter", nil)
		return
	}

	report, err := h.engine.AggregateDowntime(r.Context(), suburbID, at)
	if err != nil {
		h.writeError(w, statusFor(err), "failed to aggregate downtime", err)
		return
	}
	_ = json.NewEncoder(w).Encode(report)
}
