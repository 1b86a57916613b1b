package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/eventbus"
)

// Coordinator is the single entry point CoreService drives: it enforces
// one active job per provider kind, runs the Engine in its own
// goroutine, and publishes lifecycle events onto the bus. Grounded on
// the teacher's Orchestrator (internal/sync/orchestrator.go), which
// plays the same "own the goroutine lifecycle, one run per target"
// role for a drive's sync run.
type Coordinator struct {
	engine *Engine
	jobs   catalog.SyncJobRepository
	bus    *eventbus.Bus
	logger *slog.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc // keyed by provider kind
}

func NewCoordinator(engine *Engine, jobs catalog.SyncJobRepository, bus *eventbus.Bus, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		engine:  engine,
		jobs:    jobs,
		bus:     bus,
		logger:  logger,
		cancels: make(map[string]context.CancelFunc),
	}
}

// StartFullSync launches a full catalog sync for provider in the
// background and returns immediately with the created job's ID.
func (c *Coordinator) StartFullSync(ctx context.Context, provider catalog.Provider) (catalog.ID, error) {
	return c.start(ctx, provider, catalog.SyncFull)
}

// StartIncrementalSync launches a cursor-scoped delta sync.
func (c *Coordinator) StartIncrementalSync(ctx context.Context, provider catalog.Provider) (catalog.ID, error) {
	return c.start(ctx, provider, catalog.SyncIncremental)
}

func (c *Coordinator) start(parent context.Context, provider catalog.Provider, syncType catalog.SyncType) (catalog.ID, error) {
	c.mu.Lock()

	if _, running := c.cancels[provider.Kind]; running {
		c.mu.Unlock()
		return catalog.ID{}, fmt.Errorf("sync: %s already has a run in progress", provider.Kind)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancels[provider.Kind] = cancel
	c.mu.Unlock()

	jobID := catalog.NewID()

	c.bus.Emit(eventbus.CoreEvent{Kind: eventbus.KindSync, Sync: &eventbus.SyncEvent{
		Name: "Started", JobID: jobID.String(), Provider: provider.Kind,
	}})

	go c.run(runCtx, provider, syncType)

	return jobID, nil
}

func (c *Coordinator) run(ctx context.Context, provider catalog.Provider, syncType catalog.SyncType) {
	defer c.finish(provider.Kind)

	report, err := c.engine.RunOnce(ctx, RunOpts{Provider: provider, SyncType: syncType})
	if err != nil {
		c.logger.Error("sync: run failed", "provider", provider.Kind, "error", err)
		c.bus.Emit(eventbus.CoreEvent{Kind: eventbus.KindSync, Sync: &eventbus.SyncEvent{
			Name: "Failed", Provider: provider.Kind, Error: err.Error(),
		}})

		return
	}

	c.bus.Emit(eventbus.CoreEvent{Kind: eventbus.KindSync, Sync: &eventbus.SyncEvent{
		Name: "Completed", JobID: report.Job.ID.String(), Provider: provider.Kind,
		Current: report.Job.Progress.Current, Total: report.Job.Progress.Total,
	}})
}

func (c *Coordinator) finish(providerKind string) {
	c.mu.Lock()
	delete(c.cancels, providerKind)
	c.mu.Unlock()
}

// CancelSync requests cancellation of the in-flight run for providerKind,
// if any. The Engine observes ctx cancellation inside feedQueue and
// worker processing and unwinds to a Failed job with a Cancelled-kind
// error.
func (c *Coordinator) CancelSync(providerKind string) error {
	c.mu.Lock()
	cancel, ok := c.cancels[providerKind]
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("sync: no run in progress for %s", providerKind)
	}

	cancel()

	c.bus.Emit(eventbus.CoreEvent{Kind: eventbus.KindSync, Sync: &eventbus.SyncEvent{
		Name: "Cancelled", Provider: providerKind,
	}})

	return nil
}
