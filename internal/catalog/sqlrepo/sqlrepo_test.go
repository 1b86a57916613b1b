package sqlrepo

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

// newTestRepos opens a fresh in-memory database with migrations applied and
// returns the repository bundle, closing the underlying adapter on test
// cleanup.
func newTestRepos(t *testing.T) catalog.Repositories {
	t.Helper()

	adapter, repos, err := OpenRepositories(context.Background(), ":memory:", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return repos
}

// insertTestProvider inserts and returns a Provider row, the minimum fixture
// every other entity ultimately hangs off.
func insertTestProvider(t *testing.T, repos catalog.Repositories) catalog.Provider {
	t.Helper()

	p := catalog.Provider{ID: catalog.NewID(), Kind: "GoogleDrive", DisplayName: "Drive", ProfileID: catalog.NewID().String(), CreatedAt: time.Now().UTC()}
	require.NoError(t, repos.Providers.Insert(context.Background(), &p))

	return p
}

// insertTestTrack inserts and returns a Track referencing a freshly-inserted
// Provider.
func insertTestTrack(t *testing.T, repos catalog.Repositories, title string) catalog.Track {
	t.Helper()

	provider := insertTestProvider(t, repos)

	track := catalog.Track{
		ID:              catalog.NewID(),
		ProviderID:      provider.ID,
		ProviderFileID:  catalog.NewID().String(),
		Title:           title,
		NormalizedTitle: catalog.Normalize(title),
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, repos.Tracks.Insert(context.Background(), &track))

	return track
}
