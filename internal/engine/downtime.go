package engine

import (
	"context"
	"time"

	"github.com/kvanzyl/shedwatch/internal/schedule"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

const (
	downtimeWindow  = 7 * 24 * time.Hour
	downtimeStep    = 30 * time.Minute
	stepMinutes     = 30
	minutesPerDay   = 24 * 60
	minutesPerWeek  = 7 * minutesPerDay
	downtimeSamples = int(downtimeWindow / downtimeStep)
)

// AggregateDowntime tallies how many minutes the suburb spent without power
// over the seven days ending at now, bucketed by weekday. The simulated
// clock samples every 30 minutes; each sample charges a full 30 minutes to
// either the off or the on side of its weekday bucket.
func (e *Engine) AggregateDowntime(ctx context.Context, suburbID string, now time.Time) (*types.DowntimeReport, error) {
	suburb, group, schedules, err := e.loadSuburbContext(ctx, suburbID)
	if err != nil {
		return nil, err
	}

	start := now.Add(-downtimeWindow)
	seed, entries, err := e.loadStageHistory(ctx, start.Unix())
	if err != nil {
		return nil, err
	}

	walker := newStageWalker(seed, entries)
	perDay := make(map[string]types.MinuteTally, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		perDay[d.String()[:3]] = types.MinuteTally{}
	}

	totalOff := 0
	for i := 0; i < downtimeSamples; i++ {
		clock := start.Add(time.Duration(i) * downtimeStep)
		stage := walker.stageAt(clock.Unix())
		if sheddingSchedule(schedules, group.ID, clock, stage) == nil {
			continue
		}
		day := clock.In(schedule.SAST).Weekday().String()[:3]
		tally := perDay[day]
		tally.Off += stepMinutes
		perDay[day] = tally
		totalOff += stepMinutes
	}

	for day, tally := range perDay {
		tally.On = minutesPerDay - tally.Off
		perDay[day] = tally
	}

	return &types.DowntimeReport{
		Suburb:     *suburb,
		Total:      types.MinuteTally{On: minutesPerWeek - totalOff, Off: totalOff},
		PerWeekday: perDay,
	}, nil
}
