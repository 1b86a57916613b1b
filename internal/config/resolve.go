package config

import (
	"github.com/tonimelisma/musiccore"
	"github.com/tonimelisma/musiccore/internal/cacheengine"
	"github.com/tonimelisma/musiccore/internal/enrichment"
	"github.com/tonimelisma/musiccore/internal/streaming"
)

// evictionPolicyNames maps the TOML-level lowercase policy name to the
// exact-cased string internal/cacheengine's Manager.EnforceBudget
// switches on.
var evictionPolicyNames = map[string]string{
	"lru":           "LRU",
	"lfu":           "LFU",
	"fifo":          "FIFO",
	"largest_first": "LargestFirst",
}

// ToCoreConfig builds the musiccore.Config New expects, resolving each
// section's preset/override/name-casing rules along the way. The host
// still supplies Capabilities and, optionally, its own *slog.Logger.
func (c *CoreConfig) ToCoreConfig() musiccore.Config {
	return musiccore.Config{
		DatabasePath:     c.Database.Path,
		CacheDir:         c.Cache.Dir,
		CacheBudgetBytes: c.Cache.BudgetBytes,
		EvictionPolicy:   evictionPolicyNames[c.Cache.EvictionPolicy],
		CacheHashAlgo:    c.Cache.ResolveHashAlgo(),
		SyncConcurrency:  c.Sync.Concurrency,
		EnrichmentConfig: c.Enrichment.ResolveJobConfig(),
		StreamingConfig:  c.Streaming.ResolveStreamingConfig(),
	}
}

// ResolveStreamingConfig selects the named preset and applies any
// non-zero override fields on top of it.
func (c StreamingConfig) ResolveStreamingConfig() streaming.StreamingConfig {
	var preset streaming.StreamingConfig

	switch c.Preset {
	case "low_latency":
		preset = streaming.LowLatencyStreamingConfig()
	case "high_quality":
		preset = streaming.HighQualityStreamingConfig()
	default:
		preset = streaming.DefaultStreamingConfig()
	}

	if c.RingBufferCapacity > 0 {
		preset.RingBufferCapacity = c.RingBufferCapacity
	}

	if c.PrefetchFrames > 0 {
		preset.PrefetchFrames = c.PrefetchFrames
	}

	if c.RebufferThreshold > 0 {
		preset.RebufferThreshold = c.RebufferThreshold
	}

	if c.ChunkFrames > 0 {
		preset.ChunkFrames = c.ChunkFrames
	}

	return preset
}

// ResolveJobConfig builds an enrichment.JobConfig from the TOML-level
// EnrichmentConfig, falling back to enrichment.DefaultJobConfig's retry
// policy since that isn't meaningfully expressible in TOML.
func (c EnrichmentConfig) ResolveJobConfig() enrichment.JobConfig {
	cfg := enrichment.DefaultJobConfig()
	cfg.BatchSize = c.BatchSize
	cfg.MaxConcurrent = c.MaxConcurrent
	cfg.RequireWifi = c.RequireWifi

	return cfg
}

// ResolveHashAlgo maps the TOML-level hash_algo string to a
// cacheengine.HashAlgo.
func (c CacheConfig) ResolveHashAlgo() cacheengine.HashAlgo {
	if c.HashAlgo == "quickxor" {
		return cacheengine.HashQuickXor
	}

	return cacheengine.HashSHA256
}
