package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads and parses a TOML config file, starting from DefaultConfig
// so unset fields keep their defaults, then validates the result.
// Grounded on the teacher's internal/config.Load (same decode-onto-
// defaults, then-validate shape), minus the two-pass drive-section
// decode — musiccore's config has no per-provider TOML section.
func Load(path string, logger *slog.Logger) (*CoreConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("config: loading file", "path", path)

	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validating %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads path if it exists, otherwise returns DefaultConfig
// unchanged — the zero-config first-run path the teacher's
// LoadOrDefault also supports.
func LoadOrDefault(path string, logger *slog.Logger) (*CoreConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Debug("config: no file found, using defaults", "path", path)
		return DefaultConfig(), nil
	}

	return Load(path, logger)
}

// Validate checks a CoreConfig for internally-consistent values.
func Validate(cfg *CoreConfig) error {
	if cfg.Database.Path == "" {
		return errors.New("config: database.path must not be empty")
	}

	if cfg.Cache.BudgetBytes < 0 {
		return errors.New("config: cache.budget_bytes must not be negative")
	}

	switch cfg.Cache.EvictionPolicy {
	case "lru", "lfu", "fifo", "largest_first":
	default:
		return fmt.Errorf("config: cache.eviction_policy %q is not one of lru|lfu|fifo|largest_first", cfg.Cache.EvictionPolicy)
	}

	switch cfg.Cache.HashAlgo {
	case "sha256", "quickxor":
	default:
		return fmt.Errorf("config: cache.hash_algo %q is not one of sha256|quickxor", cfg.Cache.HashAlgo)
	}

	if cfg.Sync.Concurrency < 1 {
		return errors.New("config: sync.concurrency must be at least 1")
	}

	switch cfg.Streaming.Preset {
	case "", "default", "low_latency", "high_quality":
	default:
		return fmt.Errorf("config: streaming.preset %q is not one of default|low_latency|high_quality", cfg.Streaming.Preset)
	}

	if cfg.Enrichment.BatchSize < 1 {
		return errors.New("config: enrichment.batch_size must be at least 1")
	}

	if cfg.Enrichment.MaxConcurrent < 1 {
		return errors.New("config: enrichment.max_concurrent must be at least 1")
	}

	return nil
}
