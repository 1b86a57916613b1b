package catalog

import (
	"time"

	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// LyricsStatus enumerates Track.lyrics_status (spec §3).
type LyricsStatus string

const (
	LyricsNotFetched LyricsStatus = "not_fetched"
	LyricsAvailable  LyricsStatus = "available"
	LyricsUnavailable LyricsStatus = "unavailable"
	LyricsFailed     LyricsStatus = "failed"
)

// Provider is a configured cloud backend account (spec §3). A Provider row
// must exist before any Track references it.
type Provider struct {
	ID          ID
	Kind        string // e.g. "GoogleDrive", "OneDrive" — capability.ProviderKind.String()
	DisplayName string
	ProfileID   string
	CreatedAt   time.Time
}

func (p *Provider) Validate() error {
	if p.Kind == "" {
		return coreerr.InvalidInput("kind", "provider kind must not be empty")
	}

	if p.DisplayName == "" {
		return coreerr.InvalidInput("display_name", "provider display name must not be empty")
	}

	return nil
}

// Track is the central catalog entity (spec §3). (ProviderID, ProviderFileID)
// is unique. Hash, when known, is the content hash used for cross-provider
// dedup.
type Track struct {
	ID                ID
	ProviderID        ID
	ProviderFileID    string
	Hash              string
	Title             string
	NormalizedTitle   string
	AlbumID           *ID
	ArtistID          *ID
	AlbumArtistID     *ID
	TrackNumber       *int
	DiscNumber        int
	Genre             string
	Year              *int
	DurationMs        int64
	Bitrate           *int
	SampleRate        *int
	Channels          *int
	Format            string
	FileSize          *int64
	MimeType          string
	ArtworkID         *ID
	LyricsStatus      LyricsStatus
	ProviderModifiedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (t *Track) Validate() error {
	if t.ProviderID.IsZero() {
		return coreerr.InvalidInput("provider_id", "track must reference a provider")
	}

	if t.ProviderFileID == "" {
		return coreerr.InvalidInput("provider_file_id", "must not be empty")
	}

	if t.Title == "" {
		return coreerr.InvalidInput("title", "must not be empty")
	}

	if t.DurationMs < 0 {
		return coreerr.InvalidInput("duration_ms", "must be non-negative")
	}

	if t.NormalizedTitle != Normalize(t.Title) {
		return coreerr.InvalidInput("normalized_title", "must equal normalize(title)")
	}

	return nil
}

// Album (spec §3). Name must be non-empty.
type Album struct {
	ID               ID
	Name             string
	NormalizedName   string
	ArtistID         *ID
	Year             *int
	ArtworkID        *ID
	TrackCount       int
	TotalDurationMs  int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (a *Album) Validate() error {
	if a.Name == "" {
		return coreerr.InvalidInput("name", "album name must not be empty")
	}

	if a.TrackCount < 0 || a.TotalDurationMs < 0 {
		return coreerr.InvalidInput("track_count", "counts must be non-negative")
	}

	return nil
}

// Artist (spec §3). NormalizedName is the case-folded trimmed form used
// for de-dup on lookup.
type Artist struct {
	ID             ID
	Name           string
	NormalizedName string
	SortName       string
	Bio            string
	Country        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a *Artist) Validate() error {
	if a.Name == "" {
		return coreerr.InvalidInput("name", "artist name must not be empty")
	}

	return nil
}

// PlaylistOwnerType enumerates Playlist.owner_type.
type PlaylistOwnerType string

const (
	PlaylistOwnerUser   PlaylistOwnerType = "user"
	PlaylistOwnerSystem PlaylistOwnerType = "system"
)

// Playlist (spec §3), with ordered membership tracked separately via
// PlaylistTrack.
type Playlist struct {
	ID              ID
	Name            string
	NormalizedName  string
	Description     string
	OwnerType       PlaylistOwnerType
	SortOrder       string
	IsPublic        bool
	TrackCount      int
	TotalDurationMs int64
	ArtworkID       *ID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p *Playlist) Validate() error {
	if p.Name == "" {
		return coreerr.InvalidInput("name", "playlist name must not be empty")
	}

	return nil
}

// PlaylistTrack is one ordered membership row. Positions are dense within
// a playlist: [0..track_count).
type PlaylistTrack struct {
	PlaylistID ID
	TrackID    ID
	Position   int
	AddedAt    time.Time
}

// Artwork is content-addressed by Hash (spec §3); Hash is the
// deduplication key.
type Artwork struct {
	ID            ID
	Hash          string
	MimeType      string
	BinaryBlob    []byte
	Width         int
	Height        int
	FileSize      int64
	DominantColor string
	Source        string
	CreatedAt     time.Time
}

func (a *Artwork) Validate() error {
	if a.Hash == "" {
		return coreerr.InvalidInput("hash", "artwork must have a content hash")
	}

	if len(a.BinaryBlob) == 0 {
		return coreerr.InvalidInput("binary_blob", "must not be empty")
	}

	return nil
}

// Lyrics is keyed by TrackID (spec §3). If Synced, Body conforms to the
// synced-lyric (timestamped-line) format.
type Lyrics struct {
	TrackID       ID
	Source        string
	Synced        bool
	Body          string
	Language      string
	LastCheckedAt time.Time
	CreatedAt     time.Time
}

func (l *Lyrics) Validate() error {
	if l.TrackID.IsZero() {
		return coreerr.InvalidInput("track_id", "lyrics must reference a track")
	}

	if l.Body == "" {
		return coreerr.InvalidInput("body", "must not be empty")
	}

	return nil
}

// Folder mirrors a remote folder hierarchy (spec §3).
type Folder struct {
	ID              ID
	ProviderID      ID
	ProviderFolderID string
	ParentID        *ID
	Name            string
	Path            string
	CreatedAt       time.Time
}

func (f *Folder) Validate() error {
	if f.ProviderID.IsZero() {
		return coreerr.InvalidInput("provider_id", "folder must reference a provider")
	}

	if f.Name == "" {
		return coreerr.InvalidInput("name", "must not be empty")
	}

	return nil
}

// CacheStatus enumerates CachedTrack.status (spec §3).
type CacheStatus string

const (
	CacheNotCached   CacheStatus = "NotCached"
	CacheDownloading CacheStatus = "Downloading"
	CacheCached      CacheStatus = "Cached"
	CacheFailed      CacheStatus = "Failed"
	CacheStale       CacheStatus = "Stale"
)

// CachedTrack tracks the offline cache engine's state for one track
// (spec §3, §4.4). Transitions are the cache engine's sole responsibility.
// Attempts counts the failed download/verify passes of the most recent
// DownloadTrack call (0 once the row reaches Cached); the cache engine
// stops retrying after its
// ManagerConfig.MaxRetryAttempts passes and leaves the row Failed.
type CachedTrack struct {
	TrackID        ID
	Status         CacheStatus
	CachePath      string
	CachedSize     int64
	OriginalSize   int64
	Encrypted      bool
	Hash           string
	PlayCount      int
	Attempts       int
	LastAccessedAt *time.Time
	DownloadedAt   *time.Time
	Error          string
}

// TrackAlias records that providerFileID under ProviderID is a duplicate
// of CanonicalTrackID, discovered by cross-provider hash matching (spec
// §4.3.4). The alias keeps the duplicate's provider linkage addressable
// (so a later delta sync against that provider still resolves to a
// known track) without keeping a second Track row around.
type TrackAlias struct {
	CanonicalTrackID ID
	ProviderID       ID
	ProviderFileID   string
	CreatedAt        time.Time
}

// RetryBudget bounds how many times the scan queue's durable retry loop
// (WorkItemRepository.Fail, driven by the sync Engine) reattempts before
// giving up, and how its backoff delay grows between attempts (spec
// §4.3.3, §8).
type RetryBudget struct {
	MaxAttempts int
	BaseDelayMs int64
	MaxDelayMs  int64
}

// JobStatus enumerates SyncJob.status (spec §3, §4.3.1).
type JobStatus string

const (
	JobPending   JobStatus = "Pending"
	JobRunning   JobStatus = "Running"
	JobCompleted JobStatus = "Completed"
	JobFailed    JobStatus = "Failed"
	JobCancelled JobStatus = "Cancelled"
)

// SyncType enumerates SyncJob.sync_type.
type SyncType string

const (
	SyncFull        SyncType = "Full"
	SyncIncremental SyncType = "Incremental"
)

// JobProgress tracks a SyncJob's progress fields.
type JobProgress struct {
	Current int
	Total   int
	Message string
}

// JobStats tracks a SyncJob's outcome counters.
type JobStats struct {
	Added   int
	Updated int
	Deleted int
	Failed  int
}

// SyncJob is the sync orchestrator's durable job record (spec §3, §4.3.1).
type SyncJob struct {
	ID           ID
	ProviderKind string
	SyncType     SyncType
	Status       JobStatus
	Progress     JobProgress
	Stats        JobStats
	Cursor       string
	StartedAt    *time.Time
	FinishedAt   *time.Time
	Error        string
}

// WorkItemPriority enumerates WorkItem.priority (spec §3, §4.3.3).
type WorkItemPriority string

const (
	PriorityLow    WorkItemPriority = "Low"
	PriorityNormal WorkItemPriority = "Normal"
	PriorityHigh   WorkItemPriority = "High"
)

// WorkItemStatus enumerates WorkItem.status.
type WorkItemStatus string

const (
	WorkQueued  WorkItemStatus = "Queued"
	WorkClaimed WorkItemStatus = "Claimed"
	WorkDone    WorkItemStatus = "Done"
	WorkFailed  WorkItemStatus = "Failed"
)

// WorkItem is one unit of scan-queue work against a SyncJob (spec §3,
// §4.3.3, Glossary).
type WorkItem struct {
	ID            ID
	JobID         ID
	RemoteFileRef string // JSON-encoded capability.RemoteFile
	Priority      WorkItemPriority
	Status        WorkItemStatus
	Attempts      int
	NextVisibleAt time.Time
	LastError     string
}
