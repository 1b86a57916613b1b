// Package musiccore is the portable music-library core (spec §1): a
// single façade, CoreService, that owns every internal component and
// exposes the operations a host application drives. Grounded on the
// teacher's root-level wiring style (small, explicit constructors fed
// capability implementations — no global state, no init() magic) and
// on Design Note "Cyclic module coupling via shared smart pointers":
// components never hold direct references to each other, only to the
// shared internal/eventbus.Bus.
package musiccore

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/tonimelisma/musiccore/internal/auth"
	"github.com/tonimelisma/musiccore/internal/cacheengine"
	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/catalog/sqlrepo"
	"github.com/tonimelisma/musiccore/internal/enrichment"
	"github.com/tonimelisma/musiccore/internal/eventbus"
	"github.com/tonimelisma/musiccore/internal/streaming"
	syncpkg "github.com/tonimelisma/musiccore/internal/sync"
)

// Capabilities bundles every host-supplied adapter CoreService needs.
// A host constructs one of these from its platform bindings and passes
// it to New; which fields are required depends on which operations the
// host actually calls (e.g. PlaybackAdapter/AudioDecoder are unused
// until PlayTrack is first called).
type Capabilities struct {
	HTTP        capability.HttpClient
	FileSystem  capability.FileSystemAccess
	SecureStore capability.SecureStore
	Settings    capability.SettingsStore
	Network     capability.NetworkMonitor
	Background  capability.BackgroundExecutor
	Storage     capability.StorageProvider
	Playback    capability.PlaybackAdapter
	Logger      capability.LoggerSink // optional; a *slog.Logger is built regardless
}

// Config parameterizes the components New builds.
type Config struct {
	DatabasePath     string
	CacheDir         string
	CacheBudgetBytes int64
	EvictionPolicy   string              // LRU | LFU | FIFO | LargestFirst
	CacheHashAlgo    cacheengine.HashAlgo // defaults to HashSHA256
	SyncConcurrency  int
	SyncRetryBudget  catalog.RetryBudget // zero value falls back to the sync engine's default
	EnrichmentConfig enrichment.JobConfig
	StreamingConfig  streaming.StreamingConfig
	Logger           *slog.Logger
}

// CoreService is the single entry point a host application drives.
// Internally it wires internal/catalog repositories, internal/sync's
// Coordinator, internal/cacheengine's Manager, and internal/enrichment's
// Job around one shared internal/eventbus.Bus.
type CoreService struct {
	bus    *eventbus.Bus
	db     *sqlrepo.Adapter
	sync   *syncpkg.Coordinator
	cache  *cacheengine.Manager
	enrich *enrichment.Job

	providers catalog.ProviderRepository
	tracks    catalog.TrackRepository
	albums    catalog.AlbumRepository
	artists   catalog.ArtistRepository
	playlists catalog.PlaylistRepository

	streamingConfig streaming.StreamingConfig
	cacheBudget     int64
	evictionPolicy  string

	logger *slog.Logger
}

// New builds a CoreService. It opens (creating if necessary) the
// catalog database at cfg.DatabasePath, running migrations, before
// wiring the sync, cache, and enrichment subsystems around it.
func New(ctx context.Context, caps Capabilities, cfg Config) (*CoreService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, repos, err := sqlrepo.OpenRepositories(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("musiccore: open catalog: %w", err)
	}

	bus := eventbus.New()

	engine := syncpkg.NewEngine(syncpkg.EngineConfig{
		Storage:     caps.Storage,
		Providers:   repos.Providers,
		Tracks:      repos.Tracks,
		Folders:     repos.Folders,
		Jobs:        repos.SyncJobs,
		WorkItems:   repos.WorkItems,
		Aliases:     repos.Aliases,
		Artworks:    repos.Artworks,
		RetryBudget: cfg.SyncRetryBudget,
		Concurrency: cfg.SyncConcurrency,
		Logger:      logger,
	})

	coordinator := syncpkg.NewCoordinator(engine, repos.SyncJobs, bus, logger)

	cacheMgr := cacheengine.NewManager(cacheengine.ManagerConfig{
		Storage:  caps.Storage,
		FS:       caps.FileSystem,
		Tracks:   repos.Tracks,
		Cached:   repos.CachedTracks,
		Bus:      bus,
		CacheDir: cfg.CacheDir,
		HashAlgo: cfg.CacheHashAlgo,
		Logger:   logger,
	})

	artworkSvc := enrichment.NewArtworkService(nopArtworkProvider{}, repos.Artworks, repos.Tracks)
	lyricsSvc := enrichment.NewLyricsService(nopLyricsProvider{}, repos.Lyrics, repos.Tracks)
	enrichJob := enrichment.NewJob(cfg.EnrichmentConfig, repos.Tracks, artworkSvc, lyricsSvc, caps.Network, bus, logger)

	return &CoreService{
		bus:    bus,
		db:     db,
		sync:   coordinator,
		cache:  cacheMgr,
		enrich: enrichJob,

		providers:       repos.Providers,
		tracks:          repos.Tracks,
		albums:          repos.Albums,
		artists:         repos.Artists,
		playlists:       repos.Playlists,
		streamingConfig: cfg.StreamingConfig,
		cacheBudget:     cfg.CacheBudgetBytes,
		evictionPolicy:  cfg.EvictionPolicy,
		logger:          logger,
	}, nil
}

// StartFullSync launches a full catalog sync for provider.
func (c *CoreService) StartFullSync(ctx context.Context, provider catalog.Provider) (catalog.ID, error) {
	return c.sync.StartFullSync(ctx, provider)
}

// StartIncrementalSync launches a cursor-scoped delta sync.
func (c *CoreService) StartIncrementalSync(ctx context.Context, provider catalog.Provider) (catalog.ID, error) {
	return c.sync.StartIncrementalSync(ctx, provider)
}

// CancelSync cancels the in-flight run for providerKind, if any.
func (c *CoreService) CancelSync(providerKind string) error {
	return c.sync.CancelSync(providerKind)
}

// EnrichLibrary runs one enrichment sweep over tracks missing artwork
// or lyrics. lookup resolves a track's artist/album display names.
func (c *CoreService) EnrichLibrary(ctx context.Context, lookup enrichment.ArtistLookup) error {
	return c.enrich.Run(ctx, lookup)
}

// PlayTrack downloads, verifies and caches track's audio on every call
// (an existing Cached row is not reused; the track is fetched again),
// returning the CachedTrack record a host's streaming.Producer can open
// by its CachePath. CoreService does not itself drive playback —
// per capability.PlaybackAdapter's doc comment, the core only controls
// transport, the host owns the real-time audio callback.
func (c *CoreService) PlayTrack(ctx context.Context, trackID catalog.ID) (*catalog.CachedTrack, error) {
	track, err := c.tracks.FindByID(ctx, trackID)
	if err != nil {
		return nil, err
	}

	cached, err := c.cache.DownloadTrack(ctx, *track)
	if err != nil {
		return nil, err
	}

	c.cache.MarkPlaying(trackID)

	return cached, nil
}

// StopPlayback releases trackID's playback reference, making it eligible
// for eviction again once no other session holds it (spec §4.4.2). Hosts
// call this when a streaming.Producer for trackID stops, mirroring the
// explicit Mark/Unmark pairing PlayTrack establishes.
func (c *CoreService) StopPlayback(trackID catalog.ID) {
	c.cache.UnmarkPlaying(trackID)
}

// NewStreamingProducer builds a streaming.Producer over decoder using
// the core's configured StreamingConfig, ready for the host to run
// (typically via `go producer.Run(ctx)`) and read from via its
// RingBuffer in a PlaybackAdapter callback.
func (c *CoreService) NewStreamingProducer(decoder capability.AudioDecoder) *streaming.Producer {
	ring := streaming.NewRingBuffer(c.streamingConfig.RingBufferCapacity)
	return streaming.NewProducer(decoder, ring, c.streamingConfig, c.logger)
}

// EnforceCacheBudget evicts cached tracks under the configured eviction
// policy until total cache usage is at or below CacheBudgetBytes.
func (c *CoreService) EnforceCacheBudget(ctx context.Context) error {
	if c.cacheBudget <= 0 {
		return nil
	}

	return c.cache.EnforceBudget(ctx, c.cacheBudget, c.evictionPolicy)
}

// NewTokenSource wraps an oauth2 config a host built for providerKind
// (e.g. OneDrive's device-code or authorization-code flow) so silent
// refreshes emit AuthEvents on the core's bus instead of the host having
// to poll. initial is whatever token the host last persisted; the host
// still owns acquiring that first token and persisting later ones.
func (c *CoreService) NewTokenSource(ctx context.Context, providerKind string, oauthCfg *oauth2.Config, initial *oauth2.Token) *auth.TokenSource {
	return auth.New(ctx, auth.Config{OAuth: oauthCfg, Bus: c.bus, Provider: providerKind, Logger: c.logger}, initial)
}

// Subscribe registers a new listener on the core's event bus. Callers
// must eventually call Subscription.Unsubscribe.
func (c *CoreService) Subscribe() *eventbus.Subscription {
	return c.bus.Subscribe()
}

// Close releases the catalog database and closes the event bus,
// unblocking every subscriber.
func (c *CoreService) Close() error {
	c.bus.Close()
	return c.db.Close()
}

// nopArtworkProvider/nopLyricsProvider are the default enrichment
// providers when a host doesn't supply its own — fetching remote
// artwork/lyrics wire shapes is host-specific per spec §6, so a host
// that wants enrichment configures its own enrichment.ArtworkProvider/
// enrichment.LyricsProvider and rebuilds the services with
// enrichment.NewArtworkService/NewLyricsService directly.
type nopArtworkProvider struct{}

func (nopArtworkProvider) FetchArtwork(ctx context.Context, artist, album string) (*enrichment.ArtworkResult, error) {
	return nil, nil
}

type nopLyricsProvider struct{}

func (nopLyricsProvider) FetchLyrics(ctx context.Context, artist, title string, durationMs int64) (*enrichment.LyricsResult, error) {
	return nil, nil
}
