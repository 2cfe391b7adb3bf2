package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kvanzyl/shedwatch/internal/metrics"
)

// MunicipalityStatus returns the municipality's suburbs partitioned by
// power state, with its map features tagged. The stage defaults to the
// published current stage; ?stage= overrides it and ?at= moves the instant.
func (h *Handlers) MunicipalityStatus(w http.ResponseWriter, r *http.Request) {
	metrics.StatusRequests.Add(1)
	municipalityID := chi.URLParam(r, "municipalityID")

	at, ok := queryInstant(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid at parameter", nil)
		return
	}

	stage := h.current.Get()
	if raw := r.URL.Query().Get("stage"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "invalid stage parameter", nil)
			return
		}
		stage = parsed
	}

	status, err := h.engine.ResolveRegionStatus(r.Context(), municipalityID, stage, at)
	if err != nil {
		h.writeError(w, statusFor(err), "failed to resolve region status", err)
		return
	}
	_ = json.NewEncoder(w).Encode(status)
}
