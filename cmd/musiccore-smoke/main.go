// musiccore-smoke is a thin local harness for exercising CoreService
// against a real (on-disk or in-memory) catalog database without a host
// application. It wires no platform capabilities, so it can only drive
// the operations that don't need one — opening/migrating the catalog,
// the event bus, and EnforceCacheBudget's no-budget short-circuit.
//
// Usage:
//
//	go run ./cmd/musiccore-smoke --config musiccore.toml
//	go run ./cmd/musiccore-smoke --database-path :memory:
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tonimelisma/musiccore"
	"github.com/tonimelisma/musiccore/internal/config"
	"github.com/tonimelisma/musiccore/internal/obslog"
)

func main() {
	configPath := flag.String("config", "musiccore.toml", "path to a musiccore TOML config file (missing file falls back to defaults)")
	databasePath := flag.String("database-path", "", "override the config's database.path (use :memory: for a throwaway run)")
	logFormat := flag.String("log-format", "auto", "auto | text | json")
	flag.Parse()

	logger := obslog.New(obslog.Options{Format: parseLogFormat(*logFormat)})

	if err := run(*configPath, *databasePath, logger); err != nil {
		fmt.Fprintf(os.Stderr, "musiccore-smoke: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("musiccore-smoke: catalog opened, migrated, and closed successfully")
}

func run(configPath, databasePathOverride string, logger *slog.Logger) error {
	cfg, err := config.LoadOrDefault(configPath, logger)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if databasePathOverride != "" {
		cfg.Database.Path = databasePathOverride
	}

	coreCfg := cfg.ToCoreConfig()
	coreCfg.Logger = logger

	ctx := context.Background()

	core, err := musiccore.New(ctx, musiccore.Capabilities{}, coreCfg)
	if err != nil {
		return fmt.Errorf("opening core: %w", err)
	}
	defer core.Close()

	sub := core.Subscribe()
	defer sub.Unsubscribe()

	if err := core.EnforceCacheBudget(ctx); err != nil {
		return fmt.Errorf("enforcing cache budget: %w", err)
	}

	return nil
}

func parseLogFormat(s string) obslog.Format {
	switch s {
	case "text":
		return obslog.FormatPretty
	case "json":
		return obslog.FormatJSON
	default:
		return obslog.FormatAuto
	}
}
