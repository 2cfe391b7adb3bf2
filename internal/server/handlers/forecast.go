package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kvanzyl/shedwatch/internal/metrics"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

type forecastResponse struct {
	TimesOff []types.Interval `json:"timesOff"`
}

// SuburbForecast returns the suburb's predicted outage intervals over the
// next 24 hours, anchored at the top of the current hour or at ?at=.
func (h *Handlers) SuburbForecast(w http.ResponseWriter, r *http.Request) {
	metrics.ForecastRequests.Add(1)
	suburbID := chi.URLParam(r, "suburbID")

	at, ok := queryInstant(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid at parameter", nil)
		return
	}

	intervals, err := h.engine.BuildForecast(r.Context(), suburbID, at)
	if err != nil {
		h.writeError(w, statusFor(err), "failed to build forecast", err)
		return
	}
	if intervals == nil {
		intervals = []types.Interval{}
	}
	_ = json.NewEncoder(w).Encode(forecastResponse{TimesOff: intervals})
}

// FeatureForecast resolves a map feature to its owning suburb and returns
// that suburb's forecast.
func (h *Handlers) FeatureForecast(w http.ResponseWriter, r *http.Request) {
	metrics.ForecastRequests.Add(1)

	featureID, err := strconv.ParseInt(chi.URLParam(r, "featureID"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid feature id", nil)
		return
	}

	at, ok := queryInstant(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid at parameter", nil)
		return
	}

	suburb, err := h.provider.FindSuburbForFeature(r.Context(), featureID)
	if err != nil {
		h.writeError(w, statusFor(err), "no suburb for feature", err)
		return
	}

	intervals, err := h.engine.BuildForecast(r.Context(), suburb.ID, at)
	if err != nil {
		h.writeError(w, statusFor(err), "failed to build forecast", err)
		return
	}
	if intervals == nil {
		intervals = []types.Interval{}
	}
	_ = json.NewEncoder(w).Encode(forecastResponse{TimesOff: intervals})
}
