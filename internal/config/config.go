// Package config implements TOML configuration loading and validation for
// musiccore hosts, the same way the teacher's internal/config package
// loads onedrive-go's sync settings — a single typed struct, struct-tag
// driven, decoded with BurntSushi/toml.
package config

// CoreConfig is the top-level configuration structure a host loads and
// passes into core.Config (by way of ToCoreConfig). Unlike the teacher's
// per-drive profile sections, musiccore has no config-file concept of a
// "provider" — providers are registered at runtime as catalog.Provider
// rows once a host has completed its own OAuth flow — so this struct only
// covers settings that are genuinely static across a host's lifetime.
type CoreConfig struct {
	Database   DatabaseConfig   `toml:"database"`
	Cache      CacheConfig      `toml:"cache"`
	Sync       SyncConfig       `toml:"sync"`
	Streaming  StreamingConfig  `toml:"streaming"`
	Enrichment EnrichmentConfig `toml:"enrichment"`
	Logging    LoggingConfig    `toml:"logging"`
}

// DatabaseConfig controls where the catalog database lives.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// CacheConfig controls the offline cache engine (spec §4.4).
type CacheConfig struct {
	Dir            string `toml:"dir"`
	BudgetBytes    int64  `toml:"budget_bytes"`
	EvictionPolicy string `toml:"eviction_policy"` // lru | lfu | fifo | largest_first
	HashAlgo       string `toml:"hash_algo"`       // sha256 | quickxor
	EncryptAtRest  bool   `toml:"encrypt_at_rest"`
}

// SyncConfig controls the sync engine (spec §4.2).
type SyncConfig struct {
	Concurrency int `toml:"concurrency"`
}

// StreamingConfig controls the streaming pipeline's default preset
// (spec §4.3). Preset selects one of streaming.DefaultStreamingConfig/
// LowLatencyStreamingConfig/HighQualityStreamingConfig; Overrides, when
// any field is non-zero, replaces the corresponding preset field.
type StreamingConfig struct {
	Preset             string `toml:"preset"` // default | low_latency | high_quality
	RingBufferCapacity int    `toml:"ring_buffer_capacity"`
	PrefetchFrames     int    `toml:"prefetch_frames"`
	RebufferThreshold  int    `toml:"rebuffer_threshold"`
	ChunkFrames        int    `toml:"chunk_frames"`
}

// EnrichmentConfig controls the metadata enrichment job (spec §4.6).
type EnrichmentConfig struct {
	BatchSize     int    `toml:"batch_size"`
	MaxConcurrent int    `toml:"max_concurrent"`
	RequireWifi   bool   `toml:"require_wifi"`
	Schedule      string `toml:"schedule"` // cron-ish cadence hint for a host's own scheduler
}

// LoggingConfig controls structured log output (internal/obslog).
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // auto | text | json
}
