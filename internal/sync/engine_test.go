package sync

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/catalog/sqlrepo"
	"github.com/tonimelisma/musiccore/internal/coreerr"
	"github.com/tonimelisma/musiccore/testutil"
)

func newTestRepos(t *testing.T) catalog.Repositories {
	t.Helper()

	adapter, repos, err := sqlrepo.OpenRepositories(context.Background(), ":memory:", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return repos
}

func newTestProvider(t *testing.T, repos catalog.Repositories) catalog.Provider {
	t.Helper()

	provider := catalog.Provider{
		ID:          catalog.NewID(),
		Kind:        "GoogleDrive",
		DisplayName: "Test Drive",
		ProfileID:   "profile-1",
		CreatedAt:   time.Now().UTC(),
	}

	require.NoError(t, repos.Providers.Insert(context.Background(), &provider))

	return provider
}

func TestEngineRunOnceFullSync(t *testing.T) {
	repos := newTestRepos(t)
	provider := newTestProvider(t, repos)

	storage := testutil.NewFakeStorageProvider()
	storage.AddFile(capability.RemoteFile{
		FileID:     "f1",
		Name:       "Song One",
		MimeType:   "audio/flac",
		Size:       1024,
		ModifiedAt: time.Now().UTC(),
	}, []byte("content"))

	engine := NewEngine(EngineConfig{
		Storage:     storage,
		Providers:   repos.Providers,
		Tracks:      repos.Tracks,
		Folders:     repos.Folders,
		Jobs:        repos.SyncJobs,
		WorkItems:   repos.WorkItems,
		Concurrency: 2,
	})

	report, err := engine.RunOnce(context.Background(), RunOpts{Provider: provider, SyncType: catalog.SyncFull})
	require.NoError(t, err)
	require.Equal(t, catalog.JobCompleted, report.Job.Status)
	require.Equal(t, 1, report.Job.Stats.Added)

	tracks, err := repos.Tracks.Query(context.Background(), catalog.PageRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, tracks.Items, 1)
	require.Equal(t, "Song One", tracks.Items[0].Title)
}

func TestEngineRunOnceRejectsConcurrentRun(t *testing.T) {
	repos := newTestRepos(t)
	provider := newTestProvider(t, repos)

	existing := &catalog.SyncJob{
		ID:           catalog.NewID(),
		ProviderKind: provider.Kind,
		SyncType:     catalog.SyncFull,
		Status:       catalog.JobRunning,
	}
	require.NoError(t, repos.SyncJobs.Insert(context.Background(), existing))

	engine := NewEngine(EngineConfig{
		Storage:   testutil.NewFakeStorageProvider(),
		Providers: repos.Providers,
		Tracks:    repos.Tracks,
		Folders:   repos.Folders,
		Jobs:      repos.SyncJobs,
		WorkItems: repos.WorkItems,
	})

	_, err := engine.RunOnce(context.Background(), RunOpts{Provider: provider, SyncType: catalog.SyncFull})
	require.Error(t, err)
	require.True(t, errors.Is(err, coreerr.ErrSyncInProgress))
}

func TestEngineRunOnceFoldsCrossProviderHashDuplicateIntoAlias(t *testing.T) {
	repos := newTestRepos(t)
	providerA := newTestProvider(t, repos)

	providerB := catalog.Provider{
		ID: catalog.NewID(), Kind: "OneDrive", DisplayName: "Test OneDrive", ProfileID: "profile-2", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repos.Providers.Insert(context.Background(), &providerB))

	canonical := &catalog.Track{
		ID:                 catalog.NewID(),
		ProviderID:         providerA.ID,
		ProviderFileID:     "fileA",
		Hash:               "sharedhash",
		Title:              "Song One",
		NormalizedTitle:    catalog.Normalize("Song One"),
		CreatedAt:          time.Now().Add(-time.Hour).UTC(),
		UpdatedAt:          time.Now().Add(-time.Hour).UTC(),
	}
	require.NoError(t, repos.Tracks.Insert(context.Background(), canonical))

	storage := testutil.NewFakeStorageProvider()
	storage.AddFile(capability.RemoteFile{
		FileID: "fileB", Name: "Song One (dup)", ContentHash: "sharedhash", ModifiedAt: time.Now().UTC(),
	}, []byte("content"))

	engine := NewEngine(EngineConfig{
		Storage:     storage,
		Providers:   repos.Providers,
		Tracks:      repos.Tracks,
		Folders:     repos.Folders,
		Jobs:        repos.SyncJobs,
		WorkItems:   repos.WorkItems,
		Aliases:     repos.Aliases,
		Artworks:    repos.Artworks,
		Concurrency: 2,
	})

	_, err := engine.RunOnce(context.Background(), RunOpts{Provider: providerB, SyncType: catalog.SyncFull})
	require.NoError(t, err)

	matches, err := repos.Tracks.FindByHash(context.Background(), "sharedhash")
	require.NoError(t, err)
	require.Len(t, matches, 1, "the duplicate track should have been deleted, leaving only the canonical row")
	require.Equal(t, canonical.ID, matches[0].ID)

	aliases, err := repos.Aliases.FindByCanonicalTrackID(context.Background(), canonical.ID)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	require.Equal(t, "fileB", aliases[0].ProviderFileID)
	require.Equal(t, providerB.ID, aliases[0].ProviderID)
}

func TestEngineHandlesRemovedFiles(t *testing.T) {
	repos := newTestRepos(t)
	provider := newTestProvider(t, repos)

	existingTrack := &catalog.Track{
		ID:              catalog.NewID(),
		ProviderID:      provider.ID,
		ProviderFileID:  "f1",
		Title:           "Old Song",
		NormalizedTitle: catalog.Normalize("Old Song"),
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, repos.Tracks.Insert(context.Background(), existingTrack))

	storage := testutil.NewFakeStorageProvider()
	storage.AddFile(capability.RemoteFile{FileID: "f1", Removed: true}, nil)

	engine := NewEngine(EngineConfig{
		Storage:   storage,
		Providers: repos.Providers,
		Tracks:    repos.Tracks,
		Folders:   repos.Folders,
		Jobs:      repos.SyncJobs,
		WorkItems: repos.WorkItems,
	})

	report, err := engine.RunOnce(context.Background(), RunOpts{Provider: provider, SyncType: catalog.SyncFull})
	require.NoError(t, err)
	require.Equal(t, 1, report.Job.Stats.Deleted)

	_, err = repos.Tracks.FindByID(context.Background(), existingTrack.ID)
	require.Error(t, err)
}
