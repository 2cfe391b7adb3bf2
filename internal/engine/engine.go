// Package engine implements the core load-shedding computations: region
// status resolution, suburb outage forecasting, and weekly downtime
// aggregation. All three derive from the same matching rule: a suburb is
// shedding at an instant when some schedule window contains the instant and
// a stage block at or below the active stage rotates the suburb's group in
// on that calendar day.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kvanzyl/shedwatch/internal/provider"
	"github.com/kvanzyl/shedwatch/internal/schedule"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

// ErrNoGroup indicates a suburb belongs to no rotation group, so no
// forecast or downtime can be computed for it.
var ErrNoGroup = errors.New("suburb belongs to no rotation group")

// Engine answers status, forecast, and stats queries against a reference
// store. It is read-only; the stage log is written elsewhere.
type Engine struct {
	provider provider.Provider
	logger   *slog.Logger
}

// New creates an Engine. A nil logger falls back to slog.Default.
func New(p provider.Provider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{provider: p, logger: logger}
}

// stageWalker replays the recorded stage timeline while a simulated clock
// moves forward. Entries must be sorted ascending by start time; the seed
// entry, when present, supplies the stage in force at the walk's left edge.
type stageWalker struct {
	entries []types.StageLogEntry
	idx     int
	stage   int
}

func newStageWalker(seed *types.StageLogEntry, entries []types.StageLogEntry) *stageWalker {
	w := &stageWalker{entries: entries}
	if seed != nil {
		w.stage = seed.Stage
	}
	return w
}

// stageAt returns the stage in force at clock, consuming every entry whose
// start time has been reached. Clock must never move backwards between calls.
func (w *stageWalker) stageAt(clock int64) int {
	for w.idx < len(w.entries) && w.entries[w.idx].Start <= clock {
		w.stage = w.entries[w.idx].Stage
		w.idx++
	}
	return w.stage
}

// sheddingSchedule finds the first schedule whose window contains at and
// whose rotation, at that day of month, cuts the given group under the
// active stage. Returns nil when the group has power at that instant.
func sheddingSchedule(schedules []types.TimeSchedule, groupID string, at time.Time, stage int) *types.TimeSchedule {
	day := schedule.DayOfMonth(at)
	for i := range schedules {
		ts := &schedules[i]
		if !schedule.InWindow(*ts, at) {
			continue
		}
		for _, block := range ts.Stages {
			if block.Stage > stage {
				continue
			}
			if block.GroupOn(day) == groupID {
				return ts
			}
		}
	}
	return nil
}

// loadStageHistory fetches the entry in force at the given instant plus
// every entry starting at or after it. A missing seed is not an error: the
// walk simply starts at stage 0.
func (e *Engine) loadStageHistory(ctx context.Context, from int64) (*types.StageLogEntry, []types.StageLogEntry, error) {
	seed, err := e.provider.FindStageLogAtOrBefore(ctx, from)
	if err != nil && !errors.Is(err, provider.ErrNotFound) {
		return nil, nil, fmt.Errorf("loading stage log seed: %w", err)
	}
	entries, err := e.provider.FindStageLogSince(ctx, from)
	if err != nil {
		return nil, nil, fmt.Errorf("loading stage log: %w", err)
	}
	return seed, entries, nil
}

// loadSuburbContext resolves the suburb, its owning group, and its
// municipality's schedules, the inputs shared by forecast and stats.
func (e *Engine) loadSuburbContext(ctx context.Context, suburbID string) (*types.Suburb, *types.Group, []types.TimeSchedule, error) {
	suburb, err := e.provider.FindSuburb(ctx, suburbID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading suburb %q: %w", suburbID, err)
	}
	group, err := e.provider.FindGroupContainingSuburb(ctx, suburbID)
	if errors.Is(err, provider.ErrNotFound) {
		return nil, nil, nil, ErrNoGroup
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolving group for suburb %q: %w", suburbID, err)
	}
	schedules, err := e.provider.FindSchedules(ctx, suburb.MunicipalityID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading schedules for municipality %q: %w", suburb.MunicipalityID, err)
	}
	return suburb, group, schedules, nil
}
