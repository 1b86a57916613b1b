package enrichment

import (
	"context"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/eventbus"
	"github.com/tonimelisma/musiccore/internal/retry"
)

// JobConfig tunes one EnrichmentJob run. Grounded on the original's
// EnrichmentConfig builder (with_batch_size/with_max_concurrent/
// with_require_wifi).
type JobConfig struct {
	BatchSize     int
	MaxConcurrent int
	RequireWifi   bool
	RetryPolicy   retry.Policy
}

// DefaultJobConfig mirrors the original's documented example values.
func DefaultJobConfig() JobConfig {
	return JobConfig{BatchSize: 50, MaxConcurrent: 5, RequireWifi: false, RetryPolicy: retry.DefaultPolicy}
}

// Job sweeps the catalog for tracks missing artwork or lyrics and
// enriches them in bounded-concurrency batches, respecting network
// constraints and reporting progress on the event bus. Grounded on
// core-metadata/src/enrichment_job.rs's EnrichmentJob (query -> batch ->
// concurrency-limited fetch -> persist -> progress event), generalized
// from tokio::sync::Semaphore to golang.org/x/sync/semaphore and from
// exponential-backoff-by-hand to internal/retry (itself built on
// go-retry, per the teacher's Graph API retry idiom).
type Job struct {
	cfg     JobConfig
	tracks  catalog.TrackRepository
	artwork *ArtworkService
	lyrics  *LyricsService
	network capability.NetworkMonitor // nil = don't gate on connectivity
	bus     *eventbus.Bus
	logger  *slog.Logger
}

func NewJob(cfg JobConfig, tracks catalog.TrackRepository, artwork *ArtworkService, lyrics *LyricsService, network capability.NetworkMonitor, bus *eventbus.Bus, logger *slog.Logger) *Job {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 50
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 5
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Job{cfg: cfg, tracks: tracks, artwork: artwork, lyrics: lyrics, network: network, bus: bus, logger: logger}
}

// ArtistLookup resolves the display names EnrichArtwork/EnrichLyrics
// need from a track's foreign keys — injected rather than hardwired to
// ArtistRepository/AlbumRepository so the job stays testable without a
// full catalog fixture.
type ArtistLookup func(ctx context.Context, track catalog.Track) (artist, album string)

// Run sweeps missing-artwork and missing-lyrics tracks in cfg.BatchSize
// pages, enriching up to cfg.MaxConcurrent tracks at a time per page.
func (j *Job) Run(ctx context.Context, lookup ArtistLookup) error {
	if j.cfg.RequireWifi && j.network != nil && !j.network.IsWifi(ctx) {
		j.logger.Info("enrichment: skipping run, wifi required but not connected")
		return nil
	}

	if err := j.sweepArtwork(ctx, lookup); err != nil {
		return err
	}

	return j.sweepLyrics(ctx, lookup)
}

func (j *Job) sweepArtwork(ctx context.Context, lookup ArtistLookup) error {
	req := catalog.PageRequest{Page: 1, PageSize: j.cfg.BatchSize}

	for {
		page, err := j.tracks.FindByMissingArtwork(ctx, req)
		if err != nil {
			return err
		}

		if len(page.Items) == 0 {
			return nil
		}

		if err := j.processBatch(ctx, page.Items, func(ctx context.Context, t catalog.Track) error {
			artist, album := lookup(ctx, t)
			return retry.Do(ctx, j.cfg.RetryPolicy, func(ctx context.Context) error {
				return j.artwork.Enrich(ctx, t, artist, album)
			})
		}); err != nil {
			return err
		}

		j.emitProgress(len(page.Items), page.TotalItems)

		if !page.HasNext() {
			return nil
		}

		req.Page++
	}
}

func (j *Job) sweepLyrics(ctx context.Context, lookup ArtistLookup) error {
	req := catalog.PageRequest{Page: 1, PageSize: j.cfg.BatchSize}

	for {
		page, err := j.tracks.FindByLyricsStatus(ctx, catalog.LyricsNotFetched, req)
		if err != nil {
			return err
		}

		if len(page.Items) == 0 {
			return nil
		}

		if err := j.processBatch(ctx, page.Items, func(ctx context.Context, t catalog.Track) error {
			artist, _ := lookup(ctx, t)
			return retry.Do(ctx, j.cfg.RetryPolicy, func(ctx context.Context) error {
				return j.lyrics.Enrich(ctx, t, artist, t.Title)
			})
		}); err != nil {
			return err
		}

		j.emitProgress(len(page.Items), page.TotalItems)

		if !page.HasNext() {
			return nil
		}

		req.Page++
	}
}

// processBatch runs fn over tracks with at most cfg.MaxConcurrent
// in flight, collecting but not aborting on individual failures — one
// track's provider error shouldn't stop the rest of the batch.
func (j *Job) processBatch(ctx context.Context, tracks []catalog.Track, fn func(context.Context, catalog.Track) error) error {
	sem := semaphore.NewWeighted(int64(j.cfg.MaxConcurrent))

	for _, t := range tracks {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}

		go func(track catalog.Track) {
			defer sem.Release(1)

			if err := fn(ctx, track); err != nil {
				j.logger.Warn("enrichment: track enrichment failed", "track_id", track.ID, "error", err)
			}
		}(t)
	}

	return sem.Acquire(ctx, int64(j.cfg.MaxConcurrent))
}

func (j *Job) emitProgress(current, total int) {
	if j.bus == nil {
		return
	}

	j.bus.Emit(eventbus.CoreEvent{Kind: eventbus.KindLibrary, Library: &eventbus.LibraryEvent{
		Name: "EnrichmentProgress",
	}})

	j.logger.Info("enrichment: batch complete", "processed", current, "total", total)
}
