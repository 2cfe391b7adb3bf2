package stagefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kvanzyl/shedwatch/internal/metrics"
	"github.com/kvanzyl/shedwatch/internal/provider"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

// Feed is the source of authoritative stage ranges.
type Feed interface {
	Fetch(ctx context.Context) ([]types.StageRange, error)
}

// Updater is the stage timeline reconciler. It runs on a fixed interval,
// merges the feed into the stored stage log, and republishes the current
// stage. It is the sole writer of both.
type Updater struct {
	provider provider.Provider
	feed     Feed
	current  *CurrentStage
	locker   Locker
	logger   *slog.Logger
	interval time.Duration

	now func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewUpdater creates an Updater. A nil locker defaults to NoopLocker; a nil
// logger falls back to slog.Default.
func NewUpdater(p provider.Provider, feed Feed, current *CurrentStage, locker Locker, logger *slog.Logger, interval time.Duration) *Updater {
	if locker == nil {
		locker = NoopLocker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Updater{
		provider: p,
		feed:     feed,
		current:  current,
		locker:   locker,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the reconcile loop. The first tick runs immediately.
func (u *Updater) Start(ctx context.Context) {
	ctx, u.cancel = context.WithCancel(ctx)

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		u.logger.Info("stage updater started", "interval", u.interval)

		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()

		u.tick(ctx)

		for {
			select {
			case <-ctx.Done():
				u.logger.Info("stage updater stopping")
				return
			case <-ticker.C:
				u.tick(ctx)
			}
		}
	}()
}

// Stop gracefully shuts down the reconcile loop.
func (u *Updater) Stop(ctx context.Context) {
	if u.cancel != nil {
		u.cancel()
	}

	done := make(chan struct{})
	go func() {
		u.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		u.logger.Info("stage updater stopped")
	case <-ctx.Done():
		u.logger.Warn("stage updater stop timed out")
	}
}

func (u *Updater) tick(ctx context.Context) {
	ok, err := u.locker.Acquire(ctx, u.interval)
	if err != nil {
		u.logger.Error("reconcile lock acquire failed", "error", err)
		return
	}
	if !ok {
		u.logger.Debug("reconcile lock held elsewhere, skipping tick")
		return
	}
	defer func() {
		if err := u.locker.Release(ctx); err != nil {
			u.logger.Warn("reconcile lock release failed", "error", err)
		}
	}()

	if err := u.ReconcileOnce(ctx); err != nil {
		metrics.ReconcileFailures.Add(1)
		u.logger.Error("stage reconcile failed", "error", err)
		return
	}
	metrics.ReconcileRuns.Add(1)
}

// ReconcileOnce performs a single fetch-and-merge pass and republishes the
// current stage. Reconciling the same payload twice leaves the stage log
// unchanged.
func (u *Updater) ReconcileOnce(ctx context.Context) error {
	ranges, err := u.feed.Fetch(ctx)
	if err != nil {
		return err
	}

	for _, r := range ranges {
		if err := u.merge(ctx, r); err != nil {
			return err
		}
	}

	return u.publishCurrent(ctx)
}

// merge applies one feed triple. An exact interval match only corrects the
// stage in place; anything else replaces every stored entry the triple
// overlaps.
func (u *Updater) merge(ctx context.Context, r types.StageRange) error {
	existing, err := u.provider.FindStageLogByInterval(ctx, r.Start, r.End)
	if err == nil {
		if existing.Stage == r.Stage {
			return nil
		}
		if err := u.provider.UpdateStageLogStage(ctx, existing.ID, r.Stage); err != nil {
			return fmt.Errorf("correcting stage for [%d,%d): %w", r.Start, r.End, err)
		}
		metrics.StageLogCorrections.Add(1)
		return nil
	}
	if !errors.Is(err, provider.ErrNotFound) {
		return fmt.Errorf("looking up interval [%d,%d): %w", r.Start, r.End, err)
	}

	overlapping, err := u.provider.FindStageLogOverlapping(ctx, r.Start, r.End)
	if err != nil {
		return fmt.Errorf("finding overlaps of [%d,%d): %w", r.Start, r.End, err)
	}
	if len(overlapping) > 0 {
		ids := make([]string, 0, len(overlapping))
		for _, e := range overlapping {
			ids = append(ids, e.ID)
		}
		if err := u.provider.DeleteStageLogEntries(ctx, ids); err != nil {
			return fmt.Errorf("deleting overlaps of [%d,%d): %w", r.Start, r.End, err)
		}
	}

	entry := types.StageLogEntry{
		ID:    ulid.Make().String(),
		Start: r.Start,
		End:   r.End,
		Stage: r.Stage,
	}
	if err := u.provider.InsertStageLogEntry(ctx, entry); err != nil {
		return fmt.Errorf("inserting entry [%d,%d): %w", r.Start, r.End, err)
	}
	metrics.StageLogInserts.Add(1)
	return nil
}

// publishCurrent recomputes the current stage from the stored log. An
// instant not covered by any entry publishes stage 0.
func (u *Updater) publishCurrent(ctx context.Context) error {
	now := u.now().Unix()
	entry, err := u.provider.FindStageLogAtOrBefore(ctx, now)
	if err != nil && !errors.Is(err, provider.ErrNotFound) {
		return fmt.Errorf("recomputing current stage: %w", err)
	}

	stage := 0
	if err == nil && entry.Contains(now) {
		stage = entry.Stage
	}
	u.current.Set(stage)
	metrics.CurrentStage.Set(int64(stage))
	return nil
}
