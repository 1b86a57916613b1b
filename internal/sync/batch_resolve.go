package sync

import (
	"context"
	"sort"
	"sync"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

// conflictBatchTracker accumulates the Track IDs processItem has touched
// across a batch of worker-pool results, so execute can hand a snapshot
// of them to resolveBatchConflicts every couple of claim rounds. Workers
// run concurrently, so adds need the mutex; drain resets the set for the
// next window.
type conflictBatchTracker struct {
	mu  sync.Mutex
	ids map[catalog.ID]struct{}
}

func newConflictBatchTracker() *conflictBatchTracker {
	return &conflictBatchTracker{ids: make(map[catalog.ID]struct{})}
}

func (t *conflictBatchTracker) add(id catalog.ID) {
	if id.IsZero() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids[id] = struct{}{}
}

// drain returns the tracked IDs and clears the set for the next window.
func (t *conflictBatchTracker) drain() []catalog.ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]catalog.ID, 0, len(t.ids))
	for id := range t.ids {
		out = append(out, id)
	}

	for id := range t.ids {
		delete(t.ids, id)
	}

	return out
}

// resolveBatchConflicts runs the periodic conflict-resolution pass over
// touchedIDs (spec §4.3.2 step 3): fold cross-provider hash duplicates
// into one canonical Track, then sweep artwork that pass left orphaned.
// Individual failures are logged and skipped rather than aborting the
// whole pass — one bad track shouldn't block the rest of the batch.
func (e *Engine) resolveBatchConflicts(ctx context.Context, touchedIDs []catalog.ID) error {
	if len(touchedIDs) == 0 {
		return nil
	}

	if e.cfg.Aliases != nil {
		for _, id := range touchedIDs {
			if err := e.resolveDuplicatesByHash(ctx, id); err != nil {
				e.cfg.Logger.Warn("sync: hash dedup failed", "track_id", id, "error", err)
			}
		}
	}

	if e.cfg.Artworks != nil {
		if err := e.collectOrphanedArtwork(ctx); err != nil {
			return err
		}
	}

	return nil
}

// resolveDuplicatesByHash looks up every Track sharing trackID's content
// hash. When more than one exists, the oldest (by CreatedAt, ties broken
// by ID) is kept as canonical; every other row is recorded as a
// TrackAlias pointing at it and then deleted. IsDuplicateCandidate's
// (provider, normalized title, artist) check corroborates the match but
// is not authoritative here — unlike the incremental per-item conflict
// path, hash equality alone is the dedup signal spec §4.3.4 calls for.
func (e *Engine) resolveDuplicatesByHash(ctx context.Context, trackID catalog.ID) error {
	track, err := e.cfg.Tracks.FindByID(ctx, trackID)
	if err != nil {
		return err
	}

	if track.Hash == "" {
		return nil
	}

	candidates, err := e.cfg.Tracks.FindByHash(ctx, track.Hash)
	if err != nil {
		return err
	}

	if len(candidates) < 2 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].ID.String() < candidates[j].ID.String()
		}

		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	canonical := candidates[0]

	for _, dup := range candidates[1:] {
		if dup.ID == canonical.ID {
			continue
		}

		if IsDuplicateCandidate(canonical, dup) {
			e.cfg.Logger.Debug("sync: hash duplicate corroborated by title/artist match", "track_id", dup.ID)
		}

		alias := &catalog.TrackAlias{
			CanonicalTrackID: canonical.ID,
			ProviderID:       dup.ProviderID,
			ProviderFileID:   dup.ProviderFileID,
		}

		if err := e.cfg.Aliases.Insert(ctx, alias); err != nil {
			return err
		}

		if err := e.cfg.Tracks.Delete(ctx, dup.ID); err != nil {
			return err
		}
	}

	return nil
}

// orphanedArtworkPageSize bounds one FindOrphaned/Delete sweep; a huge
// backlog is worked off across several batch passes rather than one.
const orphanedArtworkPageSize = 100

func (e *Engine) collectOrphanedArtwork(ctx context.Context) error {
	page, err := e.cfg.Artworks.FindOrphaned(ctx, catalog.PageRequest{Page: 0, PageSize: orphanedArtworkPageSize})
	if err != nil {
		return err
	}

	for _, art := range page.Items {
		if err := e.cfg.Artworks.Delete(ctx, art.ID); err != nil {
			return err
		}
	}

	return nil
}
