package engine

import (
	"context"
	"time"

	"github.com/kvanzyl/shedwatch/internal/schedule"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

// forecastHorizon is how far ahead BuildForecast simulates.
const forecastHorizon = 24 * time.Hour

// forecastStep is how far the simulated clock advances when no window
// matches at its current position.
const forecastStep = 30 * time.Minute

// BuildForecast predicts the suburb's outage intervals over the 24 hours
// following from, assuming the most recently observed stage stays in force
// until the next recorded stage change. The returned intervals are ordered
// and non-overlapping; the first may begin before from when from falls
// inside an already-open window.
func (e *Engine) BuildForecast(ctx context.Context, suburbID string, from time.Time) ([]types.Interval, error) {
	_, group, schedules, err := e.loadSuburbContext(ctx, suburbID)
	if err != nil {
		return nil, err
	}

	start := from.Truncate(time.Hour)
	seed, entries, err := e.loadStageHistory(ctx, start.Unix())
	if err != nil {
		return nil, err
	}

	walker := newStageWalker(seed, entries)
	horizon := start.Add(forecastHorizon)
	clock := start

	var out []types.Interval
	for clock.Before(horizon) {
		stage := walker.stageAt(clock.Unix())
		ts := sheddingSchedule(schedules, group.ID, clock, stage)
		if ts == nil {
			clock = clock.Add(forecastStep)
			continue
		}

		wStart, wEnd := schedule.ActiveWindow(*ts, clock)
		iv := types.Interval{Start: wStart.Unix(), End: wEnd.Unix()}
		if n := len(out); n > 0 && iv.Start <= out[n-1].End {
			if iv.End > out[n-1].End {
				out[n-1].End = iv.End
			}
		} else {
			out = append(out, iv)
		}
		clock = wEnd
	}
	return out, nil
}
