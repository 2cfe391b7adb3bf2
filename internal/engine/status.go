package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kvanzyl/shedwatch/internal/schedule"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

// ResolveRegionStatus partitions a municipality's suburbs into those
// currently without power and those with power, under the given stage at
// the given instant, and tags each of the municipality's geographic
// features with a power status. A feature belonging to no suburb on either
// side is tagged undefined.
func (e *Engine) ResolveRegionStatus(ctx context.Context, municipalityID string, stage int, at time.Time) (*types.RegionStatus, error) {
	var (
		municipality *types.Municipality
		schedules    []types.TimeSchedule
		suburbs      []types.Suburb
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		municipality, err = e.provider.FindMunicipality(gctx, municipalityID)
		if err != nil {
			return fmt.Errorf("loading municipality %q: %w", municipalityID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		schedules, err = e.provider.FindSchedules(gctx, municipalityID)
		if err != nil {
			return fmt.Errorf("loading schedules for %q: %w", municipalityID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		suburbs, err = e.provider.FindSuburbs(gctx, municipalityID)
		if err != nil {
			return fmt.Errorf("loading suburbs for %q: %w", municipalityID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	offGroups, err := e.sheddingGroups(ctx, schedules, at, stage)
	if err != nil {
		return nil, err
	}

	offSuburbs := make(map[string]bool)
	for _, grp := range offGroups {
		for _, sid := range grp.SuburbIDs {
			offSuburbs[sid] = true
		}
	}

	status := &types.RegionStatus{
		MunicipalityID: municipalityID,
		Stage:          stage,
		Off:            []types.Suburb{},
		On:             []types.Suburb{},
		Features:       make(map[int64]types.PowerStatus, len(municipality.Features)),
	}
	for _, sub := range suburbs {
		if offSuburbs[sub.ID] {
			status.Off = append(status.Off, sub)
		} else {
			status.On = append(status.On, sub)
		}
	}

	for _, feat := range municipality.Features {
		status.Features[feat] = featureStatus(feat, status.Off, status.On)
	}
	return status, nil
}

// sheddingGroups collects the groups cut off at the instant: for every
// schedule window containing it, every block at or below the active stage
// contributes the group its rotation selects for that day of month.
func (e *Engine) sheddingGroups(ctx context.Context, schedules []types.TimeSchedule, at time.Time, stage int) ([]types.Group, error) {
	day := schedule.DayOfMonth(at)
	ids := make(map[string]bool)
	for _, ts := range schedules {
		if !schedule.InWindow(ts, at) {
			continue
		}
		for _, block := range ts.Stages {
			if block.Stage > stage {
				continue
			}
			if gid := block.GroupOn(day); gid != "" {
				ids[gid] = true
			}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	ordered := make([]string, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	groups, err := e.provider.FindGroupsByIDs(ctx, ordered)
	if err != nil {
		return nil, fmt.Errorf("loading groups: %w", err)
	}
	return groups, nil
}

func featureStatus(feat int64, off, on []types.Suburb) types.PowerStatus {
	for _, sub := range off {
		if sub.HasFeature(feat) {
			return types.PowerOff
		}
	}
	for _, sub := range on {
		if sub.HasFeature(feat) {
			return types.PowerOn
		}
	}
	return types.PowerUndefined
}
