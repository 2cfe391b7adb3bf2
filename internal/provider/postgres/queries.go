package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kvanzyl/shedwatch/internal/provider"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

func (s *Store) FindMunicipality(ctx context.Context, id string) (*types.Municipality, error) {
	var m types.Municipality
	err := s.pool.QueryRow(ctx, `
		SELECT municipality_id, name, features
		FROM municipalities
		WHERE municipality_id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Features)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) FindSchedules(ctx context.Context, municipalityID string) ([]types.TimeSchedule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT schedule_id, municipality_id, start_hour, start_minute, stop_hour, stop_minute, stages
		FROM time_schedules
		WHERE municipality_id = $1
		ORDER BY schedule_id
	`, municipalityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.TimeSchedule
	for rows.Next() {
		var (
			ts     types.TimeSchedule
			stages []byte
		)
		if err := rows.Scan(&ts.ID, &ts.MunicipalityID, &ts.StartHour, &ts.StartMinute,
			&ts.StopHour, &ts.StopMinute, &stages); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(stages, &ts.Stages); err != nil {
			return nil, fmt.Errorf("unmarshal stage blocks for schedule %s: %w", ts.ID, err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (s *Store) FindSuburbs(ctx context.Context, municipalityID string) ([]types.Suburb, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT suburb_id, municipality_id, name, features
		FROM suburbs
		WHERE municipality_id = $1
		ORDER BY suburb_id
	`, municipalityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSuburbs(rows)
}

func (s *Store) FindSuburb(ctx context.Context, id string) (*types.Suburb, error) {
	var sub types.Suburb
	err := s.pool.QueryRow(ctx, `
		SELECT suburb_id, municipality_id, name, features
		FROM suburbs
		WHERE suburb_id = $1
	`, id).Scan(&sub.ID, &sub.MunicipalityID, &sub.Name, &sub.Features)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) FindSuburbForFeature(ctx context.Context, featureID int64) (*types.Suburb, error) {
	var sub types.Suburb
	err := s.pool.QueryRow(ctx, `
		SELECT suburb_id, municipality_id, name, features
		FROM suburbs
		WHERE features @> ARRAY[$1]::BIGINT[]
		LIMIT 1
	`, featureID).Scan(&sub.ID, &sub.MunicipalityID, &sub.Name, &sub.Features)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) FindGroupsByIDs(ctx context.Context, ids []string) ([]types.Group, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT group_id, number, suburb_ids
		FROM groups
		WHERE group_id = ANY($1)
		ORDER BY number
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Group
	for rows.Next() {
		var g types.Group
		if err := rows.Scan(&g.ID, &g.Number, &g.SuburbIDs); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) FindGroupContainingSuburb(ctx context.Context, suburbID string) (*types.Group, error) {
	var g types.Group
	err := s.pool.QueryRow(ctx, `
		SELECT group_id, number, suburb_ids
		FROM groups
		WHERE suburb_ids @> ARRAY[$1]::TEXT[]
		LIMIT 1
	`, suburbID).Scan(&g.ID, &g.Number, &g.SuburbIDs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) FindStageLogSince(ctx context.Context, since int64) ([]types.StageLogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT entry_id, start_time, end_time, stage
		FROM stage_log
		WHERE start_time >= $1
		ORDER BY start_time ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStageLog(rows)
}

func (s *Store) FindStageLogAtOrBefore(ctx context.Context, at int64) (*types.StageLogEntry, error) {
	var e types.StageLogEntry
	err := s.pool.QueryRow(ctx, `
		SELECT entry_id, start_time, end_time, stage
		FROM stage_log
		WHERE start_time <= $1
		ORDER BY start_time DESC
		LIMIT 1
	`, at).Scan(&e.ID, &e.Start, &e.End, &e.Stage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) FindStageLogByInterval(ctx context.Context, start, end int64) (*types.StageLogEntry, error) {
	var e types.StageLogEntry
	err := s.pool.QueryRow(ctx, `
		SELECT entry_id, start_time, end_time, stage
		FROM stage_log
		WHERE start_time = $1 AND end_time = $2
		LIMIT 1
	`, start, end).Scan(&e.ID, &e.Start, &e.End, &e.Stage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) FindStageLogOverlapping(ctx context.Context, start, end int64) ([]types.StageLogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT entry_id, start_time, end_time, stage
		FROM stage_log
		WHERE start_time < $2 AND end_time > $1
		ORDER BY start_time ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStageLog(rows)
}

func scanSuburbs(rows pgx.Rows) ([]types.Suburb, error) {
	var out []types.Suburb
	for rows.Next() {
		var sub types.Suburb
		if err := rows.Scan(&sub.ID, &sub.MunicipalityID, &sub.Name, &sub.Features); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func scanStageLog(rows pgx.Rows) ([]types.StageLogEntry, error) {
	var out []types.StageLogEntry
	for rows.Next() {
		var e types.StageLogEntry
		if err := rows.Scan(&e.ID, &e.Start, &e.End, &e.Stage); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
