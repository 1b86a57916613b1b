package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// defaultVisibilityTimeoutMs is how long a claimed-but-unfinished work
// item stays invisible to other claimants before it's considered
// abandoned and re-offered (spec §4.3.3).
const defaultVisibilityTimeoutMs = 5 * 60 * 1000

// defaultRetryBudget bounds a work item's retries when EngineConfig
// doesn't set one explicitly (spec §4.3.3, §8).
var defaultRetryBudget = catalog.RetryBudget{MaxAttempts: 5, BaseDelayMs: 30 * 1000, MaxDelayMs: 10 * 60 * 1000}

// EngineConfig wires the repositories and host capability the Engine
// needs for one provider's sync runs. Grounded on the teacher's
// EngineConfig (Engine/EngineConfig/RunOpts/SyncReport in
// internal/sync/engine.go), generalized from a single local/remote file
// tree to the music catalog's providers/tracks/folders/scan-queue model.
type EngineConfig struct {
	Storage     capability.StorageProvider
	Providers   catalog.ProviderRepository
	Tracks      catalog.TrackRepository
	Folders     catalog.FolderRepository
	Jobs        catalog.SyncJobRepository
	WorkItems   catalog.WorkItemRepository
	Conflicts   *ConflictHandler
	Concurrency int
	Logger      *slog.Logger

	// Aliases and Artworks back the periodic batch conflict-resolution
	// pass (spec §4.3.2 step 3, §4.3.4): cross-provider hash duplicates
	// fold into one canonical Track with the rest recorded as aliases,
	// and artwork no longer referenced by anything is garbage-collected.
	// Both are optional; when nil, that half of the pass is skipped.
	Aliases  catalog.TrackAliasRepository
	Artworks catalog.ArtworkRepository

	// RetryBudget bounds how many times a failed work item is retried
	// before it moves to Failed terminally, and its backoff growth
	// (spec §4.3.3, §8). Defaults to defaultRetryBudget.
	RetryBudget catalog.RetryBudget
}

// RunOpts parameterizes one sync run.
type RunOpts struct {
	Provider catalog.Provider
	SyncType catalog.SyncType
}

// SyncReport summarizes one completed run.
type SyncReport struct {
	Job      catalog.SyncJob
	Duration time.Duration
}

// Engine runs one full observe -> plan -> execute -> commit cycle for a
// single provider. One Engine instance is shared across runs; it is not
// itself safe for concurrent RunOnce calls against the same provider —
// that exclusion is enforced via SyncJobRepository.FindActive before the
// job is created.
type Engine struct {
	cfg EngineConfig
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Conflicts == nil {
		cfg.Conflicts = NewConflictHandler(PreferNewestProviderModified)
	}

	if cfg.RetryBudget == (catalog.RetryBudget{}) {
		cfg.RetryBudget = defaultRetryBudget
	}

	return &Engine{cfg: cfg}
}

// batchSize is how many work items feedQueue claims per round, and the
// unit the periodic batch conflict-resolution pass counts against.
func (e *Engine) batchSize() int { return e.cfg.Concurrency * 4 }

// RunOnce executes one sync cycle for opts.Provider: observe (enumerate
// remote state), plan (enqueue scan-queue work items), execute (claim and
// process items concurrently), commit (persist final job state and
// cursor). Returns coreerr.ErrSyncInProgress if a non-terminal job
// already exists for this provider's kind.
func (e *Engine) RunOnce(ctx context.Context, opts RunOpts) (*SyncReport, error) {
	start := time.Now()

	if active, err := e.cfg.Jobs.FindActive(ctx, opts.Provider.Kind); err != nil {
		return nil, err
	} else if active != nil {
		return nil, coreerr.SyncInProgress(opts.Provider.Kind)
	}

	job := &catalog.SyncJob{
		ID:           catalog.NewID(),
		ProviderKind: opts.Provider.Kind,
		SyncType:     opts.SyncType,
		Status:       catalog.JobRunning,
		StartedAt:    timePtr(time.Now().UTC()),
	}

	if err := e.cfg.Jobs.Insert(ctx, job); err != nil {
		return nil, err
	}

	if err := e.runPhases(ctx, job, opts); err != nil {
		if ctx.Err() != nil {
			err = coreerr.New(coreerr.KindCancelled, "sync: run cancelled", err)
		}

		job.Status = catalog.JobFailed
		job.Error = err.Error()
		job.FinishedAt = timePtr(time.Now().UTC())

		if uErr := e.cfg.Jobs.Update(ctx, job); uErr != nil {
			e.cfg.Logger.Error("sync: failed to persist failed job state", "job_id", job.ID, "error", uErr)
		}

		return nil, err
	}

	job.Status = catalog.JobCompleted
	job.FinishedAt = timePtr(time.Now().UTC())

	if err := e.cfg.Jobs.Update(ctx, job); err != nil {
		return nil, err
	}

	return &SyncReport{Job: *job, Duration: time.Since(start)}, nil
}

func (e *Engine) runPhases(ctx context.Context, job *catalog.SyncJob, opts RunOpts) error {
	files, nextCursor, err := e.observe(ctx, job, opts)
	if err != nil {
		return fmt.Errorf("sync: observe phase: %w", err)
	}

	if err := e.plan(ctx, job, opts.Provider, files); err != nil {
		return fmt.Errorf("sync: plan phase: %w", err)
	}

	if err := e.execute(ctx, job, opts.Provider); err != nil {
		return fmt.Errorf("sync: execute phase: %w", err)
	}

	job.Cursor = string(nextCursor)

	return nil
}

// observe enumerates remote state: a full listing for SyncFull, or a
// cursor-scoped delta for SyncIncremental.
func (e *Engine) observe(ctx context.Context, job *catalog.SyncJob, opts RunOpts) ([]capability.RemoteFile, capability.ChangeCursor, error) {
	cursor := capability.ChangeCursor(job.Cursor)

	if opts.SyncType == catalog.SyncIncremental && cursor != "" {
		return e.cfg.Storage.GetChanges(ctx, cursor)
	}

	return e.cfg.Storage.ListMedia(ctx, cursor)
}

// plan enqueues one WorkItem per observed remote file. Tombstoned
// (removed) entries are handled inline here rather than queued, since
// deleting a track needs no provider round-trip.
func (e *Engine) plan(ctx context.Context, job *catalog.SyncJob, provider catalog.Provider, files []capability.RemoteFile) error {
	for _, f := range files {
		if f.Removed {
			if err := e.handleRemoval(ctx, job, provider, f); err != nil {
				return err
			}

			continue
		}

		item := &catalog.WorkItem{
			JobID:         job.ID,
			RemoteFileRef: f.FileID,
			Priority:      catalog.PriorityNormal,
			Status:        catalog.WorkQueued,
		}

		if err := e.cfg.WorkItems.Insert(ctx, item); err != nil {
			return err
		}
	}

	job.Progress.Total = len(files)

	return e.cfg.Jobs.Update(ctx, job)
}

func (e *Engine) handleRemoval(ctx context.Context, job *catalog.SyncJob, provider catalog.Provider, f capability.RemoteFile) error {
	existing, err := e.cfg.Tracks.FindByProviderFileID(ctx, provider.ID, f.FileID)
	if err != nil {
		return err
	}

	if existing == nil {
		return nil
	}

	if err := e.cfg.Tracks.Delete(ctx, existing.ID); err != nil {
		return err
	}

	job.Stats.Deleted++

	return nil
}

// execute drains the scan queue through a WorkerPool until no claimable
// items remain. Every two batches' worth of processed items (or once
// more at the end, for whatever remains), it invokes the conflict
// resolver over the touched entities (spec §4.3.2 step 3): cross-
// provider hash duplicates fold into one canonical Track, and orphaned
// artwork is garbage-collected.
func (e *Engine) execute(ctx context.Context, job *catalog.SyncJob, provider catalog.Provider) error {
	tracker := newConflictBatchTracker()

	pool := NewWorkerPool(e.cfg.Concurrency, func(ctx context.Context, item catalog.WorkItem) error {
		touched, err := e.processItem(ctx, provider, item)
		if err == nil {
			tracker.add(touched)
		}

		return err
	}, e.cfg.Logger)

	items := make(chan catalog.WorkItem)
	pool.Start(ctx, items)

	feedErr := e.feedQueue(ctx, job.ID, items)
	pool.Wait()

	resolveThreshold := 2 * e.batchSize()
	processed := 0

	for result := range pool.Results() {
		if result.Err != nil {
			job.Stats.Failed++

			if err := e.cfg.WorkItems.Fail(ctx, result.Item.ID, result.Err.Error(), e.cfg.RetryBudget); err != nil {
				e.cfg.Logger.Error("sync: failed to record item failure", "item_id", result.Item.ID, "error", err)
			}

			continue
		}

		job.Stats.Added++

		if err := e.cfg.WorkItems.Complete(ctx, result.Item.ID); err != nil {
			e.cfg.Logger.Error("sync: failed to mark item complete", "item_id", result.Item.ID, "error", err)
		}

		job.Progress.Current++
		processed++

		if resolveThreshold > 0 && processed%resolveThreshold == 0 {
			if err := e.resolveBatchConflicts(ctx, tracker.drain()); err != nil {
				e.cfg.Logger.Error("sync: batch conflict resolution failed", "job_id", job.ID, "error", err)
			}
		}
	}

	if err := e.resolveBatchConflicts(ctx, tracker.drain()); err != nil {
		e.cfg.Logger.Error("sync: final batch conflict resolution failed", "job_id", job.ID, "error", err)
	}

	if feedErr != nil {
		return feedErr
	}

	if err := e.cfg.Jobs.Update(ctx, job); err != nil {
		return err
	}

	if pool.Dropped() > 0 {
		e.cfg.Logger.Warn("sync: error slice truncated", "job_id", job.ID, "dropped", pool.Dropped())
	}

	return nil
}

// feedQueue repeatedly claims batches of items and pushes them onto the
// worker channel until a claim returns empty, then closes the channel.
func (e *Engine) feedQueue(ctx context.Context, jobID catalog.ID, items chan<- catalog.WorkItem) error {
	defer close(items)

	for {
		batch, err := e.cfg.WorkItems.Claim(ctx, jobID, e.batchSize(), defaultVisibilityTimeoutMs)
		if err != nil {
			return err
		}

		if len(batch) == 0 {
			return nil
		}

		for _, item := range batch {
			select {
			case items <- item:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// processItem fetches one claimed item's remote metadata and upserts the
// corresponding Track, resolving a conflict against the existing track
// with the same provider and provider file ID first, if any. It returns
// the ID of the track it touched, so execute can feed a batch of touched
// IDs into the periodic conflict-resolution pass (spec §4.3.2 step 3).
func (e *Engine) processItem(ctx context.Context, provider catalog.Provider, item catalog.WorkItem) (catalog.ID, error) {
	meta, err := e.cfg.Storage.GetFileMetadata(ctx, item.RemoteFileRef)
	if err != nil {
		return catalog.ID{}, fmt.Errorf("sync: fetch metadata for %s: %w", item.RemoteFileRef, err)
	}

	incoming := remoteFileToTrack(provider.ID, meta)

	existing, err := e.cfg.Tracks.FindByProviderFileID(ctx, provider.ID, meta.FileID)
	if err != nil {
		return catalog.ID{}, err
	}

	if existing == nil {
		if err := e.cfg.Tracks.Insert(ctx, &incoming); err != nil {
			return catalog.ID{}, err
		}

		return incoming.ID, nil
	}

	incoming.ID = existing.ID

	decision, err := e.cfg.Conflicts.Resolve(ctx, *existing, incoming)
	if err != nil {
		return catalog.ID{}, err
	}

	if decision.Decision != DecisionMerged {
		return existing.ID, nil
	}

	if err := e.cfg.Tracks.Update(ctx, decision.MergedTrack); err != nil {
		return catalog.ID{}, err
	}

	return decision.MergedTrack.ID, nil
}

func remoteFileToTrack(providerID catalog.ID, f capability.RemoteFile) catalog.Track {
	now := time.Now().UTC()

	return catalog.Track{
		ID:                 catalog.NewID(),
		ProviderID:         providerID,
		ProviderFileID:     f.FileID,
		Hash:               f.ContentHash,
		Title:              f.Name,
		NormalizedTitle:    catalog.Normalize(f.Name),
		MimeType:           f.MimeType,
		FileSize:           int64Ptr(f.Size),
		ProviderModifiedAt: timePtr(f.ModifiedAt),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func timePtr(t time.Time) *time.Time { return &t }
func int64Ptr(v int64) *int64        { return &v }
