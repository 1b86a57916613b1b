package catalog

import "context"

// ProviderRepository persists Provider rows.
//
// Error kinds: NotFound, InvalidInput, Io.
type ProviderRepository interface {
	FindByID(ctx context.Context, id ID) (*Provider, error)
	FindByKindAndProfile(ctx context.Context, kind, profileID string) (*Provider, error)
	Insert(ctx context.Context, p *Provider) error
	Update(ctx context.Context, p *Provider) error
	Delete(ctx context.Context, id ID) error
	Query(ctx context.Context, req PageRequest) (Page[Provider], error)
}

// TrackRepository persists Track rows and answers the enrichment and
// sync pipelines' lookups. FindByMissingArtwork and FindByLyricsStatus
// are the enrichment job's work-discovery queries (spec §4.6, grounded on
// core-metadata/src/enrichment_job.rs's scan-for-candidates step).
//
// Error kinds: NotFound, InvalidInput, Io.
type TrackRepository interface {
	FindByID(ctx context.Context, id ID) (*Track, error)
	FindByProviderFileID(ctx context.Context, providerID ID, providerFileID string) (*Track, error)
	FindByHash(ctx context.Context, hash string) ([]Track, error)
	Insert(ctx context.Context, t *Track) error
	Update(ctx context.Context, t *Track) error
	Delete(ctx context.Context, id ID) error
	Query(ctx context.Context, req PageRequest) (Page[Track], error)
	Search(ctx context.Context, query string, req PageRequest) (Page[Track], error)
	FindByAlbum(ctx context.Context, albumID ID, req PageRequest) (Page[Track], error)
	FindByArtist(ctx context.Context, artistID ID, req PageRequest) (Page[Track], error)
	FindByMissingArtwork(ctx context.Context, req PageRequest) (Page[Track], error)
	FindByLyricsStatus(ctx context.Context, status LyricsStatus, req PageRequest) (Page[Track], error)
}

// AlbumRepository persists Album rows.
//
// Error kinds: NotFound, InvalidInput, Io.
type AlbumRepository interface {
	FindByID(ctx context.Context, id ID) (*Album, error)
	FindByNormalizedName(ctx context.Context, normalizedName string, artistID *ID) (*Album, error)
	Insert(ctx context.Context, a *Album) error
	Update(ctx context.Context, a *Album) error
	Delete(ctx context.Context, id ID) error
	Query(ctx context.Context, req PageRequest) (Page[Album], error)
	Search(ctx context.Context, query string, req PageRequest) (Page[Album], error)
}

// ArtistRepository persists Artist rows.
//
// Error kinds: NotFound, InvalidInput, Io.
type ArtistRepository interface {
	FindByID(ctx context.Context, id ID) (*Artist, error)
	FindByNormalizedName(ctx context.Context, normalizedName string) (*Artist, error)
	Insert(ctx context.Context, a *Artist) error
	Update(ctx context.Context, a *Artist) error
	Delete(ctx context.Context, id ID) error
	Query(ctx context.Context, req PageRequest) (Page[Artist], error)
	Search(ctx context.Context, query string, req PageRequest) (Page[Artist], error)
}

// PlaylistRepository persists Playlist rows and their ordered track
// membership. Reorder rewrites dense [0..n) positions in one transaction.
//
// Error kinds: NotFound, InvalidInput, Io.
type PlaylistRepository interface {
	FindByID(ctx context.Context, id ID) (*Playlist, error)
	Insert(ctx context.Context, p *Playlist) error
	Update(ctx context.Context, p *Playlist) error
	Delete(ctx context.Context, id ID) error
	Query(ctx context.Context, req PageRequest) (Page[Playlist], error)
	Tracks(ctx context.Context, playlistID ID, req PageRequest) (Page[PlaylistTrack], error)
	AddTrack(ctx context.Context, playlistID, trackID ID, position int) error
	RemoveTrack(ctx context.Context, playlistID, trackID ID) error
	Reorder(ctx context.Context, playlistID ID, orderedTrackIDs []ID) error
}

// ArtworkRepository persists content-addressed Artwork blobs.
// FindOrphaned lists artwork no longer referenced by any Track, Album, or
// Playlist — the sync engine's orphaned-artwork garbage-collection input
// (spec §4.3.4).
//
// Error kinds: NotFound, InvalidInput, Io.
type ArtworkRepository interface {
	FindByID(ctx context.Context, id ID) (*Artwork, error)
	FindByHash(ctx context.Context, hash string) (*Artwork, error)
	Insert(ctx context.Context, a *Artwork) error
	Delete(ctx context.Context, id ID) error
	FindOrphaned(ctx context.Context, req PageRequest) (Page[Artwork], error)
}

// LyricsRepository persists per-track Lyrics rows.
//
// Error kinds: NotFound, InvalidInput, Io.
type LyricsRepository interface {
	FindByTrackID(ctx context.Context, trackID ID) (*Lyrics, error)
	Upsert(ctx context.Context, l *Lyrics) error
	Delete(ctx context.Context, trackID ID) error
}

// FolderRepository persists the mirrored remote folder hierarchy.
//
// Error kinds: NotFound, InvalidInput, Io.
type FolderRepository interface {
	FindByID(ctx context.Context, id ID) (*Folder, error)
	FindByProviderFolderID(ctx context.Context, providerID ID, providerFolderID string) (*Folder, error)
	Insert(ctx context.Context, f *Folder) error
	Delete(ctx context.Context, id ID) error
	Children(ctx context.Context, parentID *ID, providerID ID) ([]Folder, error)
}

// CachedTrackRepository persists the offline cache engine's per-track
// state (spec §4.4).
//
// Error kinds: NotFound, InvalidInput, Io.
type CachedTrackRepository interface {
	FindByTrackID(ctx context.Context, trackID ID) (*CachedTrack, error)
	Upsert(ctx context.Context, c *CachedTrack) error
	Delete(ctx context.Context, trackID ID) error
	FindByStatus(ctx context.Context, status CacheStatus, req PageRequest) (Page[CachedTrack], error)
	// FindEvictionCandidates returns cached tracks ordered by the given
	// policy's preference, least-valuable first, for the cache engine's
	// eviction sweep (spec §4.4.2). excludeTrackIDs are tracks referenced
	// by a live streaming pipeline and must never be returned, however
	// favorable their eviction ranking.
	FindEvictionCandidates(ctx context.Context, policy string, limit int, excludeTrackIDs []ID) ([]CachedTrack, error)
	TotalCachedSize(ctx context.Context) (int64, error)
}

// TrackAliasRepository persists TrackAlias rows recording duplicate
// provider files folded into one canonical Track by hash-based dedup
// (spec §4.3.4).
//
// Error kinds: NotFound, InvalidInput, Io.
type TrackAliasRepository interface {
	Insert(ctx context.Context, a *TrackAlias) error
	FindByProviderFileID(ctx context.Context, providerID ID, providerFileID string) (*TrackAlias, error)
	FindByCanonicalTrackID(ctx context.Context, canonicalTrackID ID) ([]TrackAlias, error)
}

// SyncJobRepository persists SyncJob rows — the sync orchestrator's
// durable job state machine (spec §4.3.1).
//
// Error kinds: NotFound, InvalidInput, Io.
type SyncJobRepository interface {
	FindByID(ctx context.Context, id ID) (*SyncJob, error)
	Insert(ctx context.Context, j *SyncJob) error
	Update(ctx context.Context, j *SyncJob) error
	FindActive(ctx context.Context, providerKind string) (*SyncJob, error)
	Query(ctx context.Context, req PageRequest) (Page[SyncJob], error)
}

// WorkItemRepository persists the durable scan queue (spec §4.3.3).
// Claim implements the visibility-timeout lease protocol a crashed
// worker's items recover from; there is no explicit release call.
//
// Error kinds: NotFound, InvalidInput, Io.
type WorkItemRepository interface {
	Insert(ctx context.Context, w *WorkItem) error
	// Claim atomically selects up to n queued-and-visible items for
	// jobID, marks them Claimed, and bumps NextVisibleAt by
	// visibilityTimeout so a crashed worker's claim eventually expires
	// and the item becomes visible again.
	Claim(ctx context.Context, jobID ID, n int, visibilityTimeout int64) ([]WorkItem, error)
	Complete(ctx context.Context, id ID) error
	// Fail records a failed attempt against id. When the item's attempts
	// (after this failure) exceed budget.MaxAttempts it moves to Failed
	// terminally; otherwise it is requeued with an exponential backoff
	// delay derived from budget (spec §4.3.3, §8).
	Fail(ctx context.Context, id ID, errMsg string, budget RetryBudget) error
	CountByStatus(ctx context.Context, jobID ID) (map[WorkItemStatus]int, error)
}
