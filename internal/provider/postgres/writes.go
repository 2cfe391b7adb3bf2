package postgres

import (
	"context"
	"fmt"

	"github.com/kvanzyl/shedwatch/pkg/types"
)

func (s *Store) InsertStageLogEntry(ctx context.Context, entry types.StageLogEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO stage_log (entry_id, start_time, end_time, stage)
		VALUES ($1, $2, $3, $4)
	`, entry.ID, entry.Start, entry.End, entry.Stage)
	if err != nil {
		return fmt.Errorf("insert stage log entry %s: %w", entry.ID, err)
	}
	return nil
}

func (s *Store) UpdateStageLogStage(ctx context.Context, id string, stage int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE stage_log SET stage = $2 WHERE entry_id = $1
	`, id, stage)
	if err != nil {
		return fmt.Errorf("update stage log entry %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stage log entry %s: no rows affected", id)
	}
	return nil
}

func (s *Store) DeleteStageLogEntries(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM stage_log WHERE entry_id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("delete stage log entries: %w", err)
	}
	return nil
}
