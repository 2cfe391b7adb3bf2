// Package provider defines the reference-store interface for shedwatch.
package provider

import (
	"context"
	"errors"

	"github.com/kvanzyl/shedwatch/pkg/types"
)

// ErrNotFound is returned by single-record lookups when no record matches.
// Callers decide whether absence is an error: the region resolver treats a
// missing group as empty, the forecast and downtime walks treat it as fatal.
var ErrNotFound = errors.New("record not found")

// Provider is the storage backend interface. Suburb, group, municipality and
// schedule records are written by the out-of-band ingestion pipeline and are
// read-only here; stage log rows are written only by the stage timeline
// reconciler.
type Provider interface {
	// Reference data
	FindMunicipality(ctx context.Context, id string) (*types.Municipality, error)
	FindSchedules(ctx context.Context, municipalityID string) ([]types.TimeSchedule, error)
	FindSuburbs(ctx context.Context, municipalityID string) ([]types.Suburb, error)
	FindSuburb(ctx context.Context, id string) (*types.Suburb, error)
	FindSuburbForFeature(ctx context.Context, featureID int64) (*types.Suburb, error)
	FindGroupsByIDs(ctx context.Context, ids []string) ([]types.Group, error)
	FindGroupContainingSuburb(ctx context.Context, suburbID string) (*types.Group, error)

	// Stage log reads
	FindStageLogSince(ctx context.Context, since int64) ([]types.StageLogEntry, error) // ascending by start
	FindStageLogAtOrBefore(ctx context.Context, at int64) (*types.StageLogEntry, error)
	FindStageLogByInterval(ctx context.Context, start, end int64) (*types.StageLogEntry, error)
	FindStageLogOverlapping(ctx context.Context, start, end int64) ([]types.StageLogEntry, error)

	// Stage log writes (reconciler only)
	InsertStageLogEntry(ctx context.Context, entry types.StageLogEntry) error
	UpdateStageLogStage(ctx context.Context, id string, stage int) error
	DeleteStageLogEntries(ctx context.Context, ids []string) error

	// Lifecycle
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Ping(ctx context.Context) error
}
