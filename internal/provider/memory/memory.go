// Package memory implements an in-memory Provider used by tests and by
// `shedwatch serve --dev`.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kvanzyl/shedwatch/internal/provider"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

// Compile-time interface satisfaction check.
var _ provider.Provider = (*Store)(nil)

// Store is an in-memory Provider implementation.
type Store struct {
	mu             sync.Mutex
	municipalities map[string]types.Municipality
	suburbs        map[string]types.Suburb
	groups         map[string]types.Group
	schedules      []types.TimeSchedule
	stageLog       map[string]types.StageLogEntry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		municipalities: make(map[string]types.Municipality),
		suburbs:        make(map[string]types.Suburb),
		groups:         make(map[string]types.Group),
		stageLog:       make(map[string]types.StageLogEntry),
	}
}

// AddMunicipality registers or replaces a municipality record.
func (s *Store) AddMunicipality(m types.Municipality) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.municipalities[m.ID] = m
}

// AddSuburb registers or replaces a suburb record.
func (s *Store) AddSuburb(sub types.Suburb) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suburbs[sub.ID] = sub
}

// AddGroup registers or replaces a group record.
func (s *Store) AddGroup(g types.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
}

// AddSchedule appends a time schedule.
func (s *Store) AddSchedule(ts types.TimeSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, ts)
}

// AddStageLog inserts stage log entries directly, bypassing the reconciler.
func (s *Store) AddStageLog(entries ...types.StageLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.stageLog[e.ID] = e
	}
}

// StageLogSnapshot returns every stage log entry ordered by start time.
func (s *Store) StageLogSnapshot() []types.StageLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedStageLogLocked()
}

func (s *Store) sortedStageLogLocked() []types.StageLogEntry {
	out := make([]types.StageLogEntry, 0, len(s.stageLog))
	for _, e := range s.stageLog {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (s *Store) FindMunicipality(_ context.Context, id string) (*types.Municipality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.municipalities[id]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return &m, nil
}

func (s *Store) FindSchedules(_ context.Context, municipalityID string) ([]types.TimeSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.TimeSchedule
	for _, ts := range s.schedules {
		if ts.MunicipalityID == municipalityID {
			out = append(out, ts)
		}
	}
	return out, nil
}

func (s *Store) FindSuburbs(_ context.Context, municipalityID string) ([]types.Suburb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Suburb
	for _, sub := range s.suburbs {
		if sub.MunicipalityID == municipalityID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindSuburb(_ context.Context, id string) (*types.Suburb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.suburbs[id]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return &sub, nil
}

func (s *Store) FindSuburbForFeature(_ context.Context, featureID int64) (*types.Suburb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.suburbs {
		if sub.HasFeature(featureID) {
			out := sub
			return &out, nil
		}
	}
	return nil, provider.ErrNotFound
}

func (s *Store) FindGroupsByIDs(_ context.Context, ids []string) ([]types.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool, len(ids))
	var out []types.Group
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if g, ok := s.groups[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Store) FindGroupContainingSuburb(_ context.Context, suburbID string) (*types.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		g := s.groups[id]
		for _, sid := range g.SuburbIDs {
			if sid == suburbID {
				out := g
				return &out, nil
			}
		}
	}
	return nil, provider.ErrNotFound
}

func (s *Store) FindStageLogSince(_ context.Context, since int64) ([]types.StageLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.StageLogEntry
	for _, e := range s.sortedStageLogLocked() {
		if e.Start >= since {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) FindStageLogAtOrBefore(_ context.Context, at int64) (*types.StageLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.sortedStageLogLocked()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Start <= at {
			e := entries[i]
			return &e, nil
		}
	}
	return nil, provider.ErrNotFound
}

func (s *Store) FindStageLogByInterval(_ context.Context, start, end int64) (*types.StageLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.stageLog {
		if e.Start == start && e.End == end {
			out := e
			return &out, nil
		}
	}
	return nil, provider.ErrNotFound
}

func (s *Store) FindStageLogOverlapping(_ context.Context, start, end int64) ([]types.StageLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.StageLogEntry
	for _, e := range s.sortedStageLogLocked() {
		if e.Start < end && e.End > start {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) InsertStageLogEntry(_ context.Context, entry types.StageLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageLog[entry.ID] = entry
	return nil
}

func (s *Store) UpdateStageLogStage(_ context.Context, id string, stage int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.stageLog[id]
	if !ok {
		return provider.ErrNotFound
	}
	e.Stage = stage
	s.stageLog[id] = e
	return nil
}

func (s *Store) DeleteStageLogEntries(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.stageLog, id)
	}
	return nil
}

func (s *Store) Start(context.Context) error { return nil }
func (s *Store) Stop(context.Context) error  { return nil }
func (s *Store) Ping(context.Context) error  { return nil }
