// Package handlers implements HTTP request handlers for the shedwatch API.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kvanzyl/shedwatch/internal/engine"
	"github.com/kvanzyl/shedwatch/internal/metrics"
	"github.com/kvanzyl/shedwatch/internal/provider"
	"github.com/kvanzyl/shedwatch/internal/stagefeed"
)

// Handlers contains all HTTP handler dependencies.
type Handlers struct {
	engine   *engine.Engine
	provider provider.Provider
	current  *stagefeed.CurrentStage
	logger   *slog.Logger
}

// New creates a new Handlers instance.
func New(eng *engine.Engine, prov provider.Provider, current *stagefeed.CurrentStage) *Handlers {
	return &Handlers{
		engine:   eng,
		provider: prov,
		current:  current,
		logger:   slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (h *Handlers) SetLogger(l *slog.Logger) {
	if l != nil {
		h.logger = l
	}
}

// writeError logs the internal error and returns a sanitized JSON error to
// the client.
func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		h.logger.Error(msg, "error", err, "status", status)
	}
	metrics.RequestErrors.Add(1)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// queryInstant parses the optional "at" query parameter as epoch seconds,
// defaulting to now. The second return value is false when the parameter is
// present but malformed.
func queryInstant(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return time.Now(), true
	}
	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(epoch, 0), true
}

// statusFor maps an engine error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, provider.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNoGroup):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
