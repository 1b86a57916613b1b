package sync

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/eventbus"
	"github.com/tonimelisma/musiccore/testutil"
)

func waitForSyncEvent(t *testing.T, sub *eventbus.Subscription, name string) eventbus.CoreEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sub.Recv():
			if ev.Kind == eventbus.KindSync && ev.Sync.Name == name {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for sync event %q", name)
		}
	}
}

func TestCoordinatorStartFullSyncEmitsLifecycleEvents(t *testing.T) {
	repos := newTestRepos(t)
	provider := newTestProvider(t, repos)

	storage := testutil.NewFakeStorageProvider()
	storage.AddFile(capability.RemoteFile{FileID: "f1", Name: "Song", ModifiedAt: time.Now().UTC()}, []byte("x"))

	engine := NewEngine(EngineConfig{
		Storage:   storage,
		Providers: repos.Providers,
		Tracks:    repos.Tracks,
		Folders:   repos.Folders,
		Jobs:      repos.SyncJobs,
		WorkItems: repos.WorkItems,
	})

	bus := eventbus.New()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	coord := NewCoordinator(engine, repos.SyncJobs, bus, slog.Default())

	_, err := coord.StartFullSync(context.Background(), provider)
	require.NoError(t, err)

	waitForSyncEvent(t, sub, "Started")
	waitForSyncEvent(t, sub, "Completed")
}

func TestCoordinatorRejectsConcurrentStart(t *testing.T) {
	repos := newTestRepos(t)
	provider := newTestProvider(t, repos)

	storage := testutil.NewFakeStorageProvider()

	engine := NewEngine(EngineConfig{
		Storage:   storage,
		Providers: repos.Providers,
		Tracks:    repos.Tracks,
		Folders:   repos.Folders,
		Jobs:      repos.SyncJobs,
		WorkItems: repos.WorkItems,
	})

	bus := eventbus.New()
	coord := NewCoordinator(engine, repos.SyncJobs, bus, slog.Default())

	coord.mu.Lock()
	coord.cancels[provider.Kind] = func() {}
	coord.mu.Unlock()

	_, err := coord.StartFullSync(context.Background(), provider)
	require.Error(t, err)
}

func TestCoordinatorCancelSyncWithNoRunReturnsError(t *testing.T) {
	bus := eventbus.New()
	coord := NewCoordinator(nil, nil, bus, slog.Default())

	err := coord.CancelSync("GoogleDrive")
	require.Error(t, err)
}

func TestCoordinatorCancelSyncCancelsContext(t *testing.T) {
	bus := eventbus.New()
	coord := NewCoordinator(nil, nil, bus, slog.Default())

	_, cancel := context.WithCancel(context.Background())
	canceled := make(chan struct{})

	coord.mu.Lock()
	coord.cancels["GoogleDrive"] = func() {
		cancel()
		close(canceled)
	}
	coord.mu.Unlock()

	err := coord.CancelSync("GoogleDrive")
	require.NoError(t, err)

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("cancel func was not invoked")
	}
}
