package config

// Default values, chosen as safe starting points for a host that ships
// no config file at all — the same "layer 0" role the teacher's
// defaults.go constants play.
const (
	defaultDatabasePath      = "musiccore.db"
	defaultCacheDir          = "cache"
	defaultCacheBudgetBytes  = 5 * 1024 * 1024 * 1024 // 5GiB
	defaultEvictionPolicy    = "lru"
	defaultHashAlgo          = "sha256"
	defaultSyncConcurrency   = 4
	defaultStreamingPreset   = "default"
	defaultEnrichBatchSize   = 50
	defaultEnrichConcurrency = 5
	defaultLogLevel          = "info"
	defaultLogFormat         = "auto"
)

// DefaultConfig returns a CoreConfig populated with all default values.
// Used both as the decode target (so unset TOML fields keep their
// defaults) and as the fallback when a host has no config file.
func DefaultConfig() *CoreConfig {
	return &CoreConfig{
		Database: DatabaseConfig{Path: defaultDatabasePath},
		Cache: CacheConfig{
			Dir:            defaultCacheDir,
			BudgetBytes:    defaultCacheBudgetBytes,
			EvictionPolicy: defaultEvictionPolicy,
			HashAlgo:       defaultHashAlgo,
		},
		Sync: SyncConfig{Concurrency: defaultSyncConcurrency},
		Streaming: StreamingConfig{
			Preset: defaultStreamingPreset,
		},
		Enrichment: EnrichmentConfig{
			BatchSize:     defaultEnrichBatchSize,
			MaxConcurrent: defaultEnrichConcurrency,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
