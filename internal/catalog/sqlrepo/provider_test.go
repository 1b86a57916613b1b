package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

func TestProviderRepoInsertAndFindByID(t *testing.T) {
	repos := newTestRepos(t)
	p := insertTestProvider(t, repos)

	found, err := repos.Providers.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Kind, found.Kind)
	assert.Equal(t, p.DisplayName, found.DisplayName)
}

func TestProviderRepoFindByIDNotFound(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Providers.FindByID(context.Background(), catalog.NewID())
	assert.Error(t, err)
}

func TestProviderRepoFindByKindAndProfile(t *testing.T) {
	repos := newTestRepos(t)

	p := catalog.Provider{ID: catalog.NewID(), Kind: "OneDrive", DisplayName: "Work", ProfileID: "profile-1"}
	require.NoError(t, repos.Providers.Insert(context.Background(), &p))

	found, err := repos.Providers.FindByKindAndProfile(context.Background(), "OneDrive", "profile-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = repos.Providers.FindByKindAndProfile(context.Background(), "OneDrive", "missing")
	assert.Error(t, err)
}

func TestProviderRepoInsertRejectsEmptyFields(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Providers.Insert(context.Background(), &catalog.Provider{ID: catalog.NewID()})
	assert.Error(t, err)
}

func TestProviderRepoUpdate(t *testing.T) {
	repos := newTestRepos(t)
	p := insertTestProvider(t, repos)

	p.DisplayName = "Renamed Drive"
	require.NoError(t, repos.Providers.Update(context.Background(), &p))

	found, err := repos.Providers.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Drive", found.DisplayName)
}

func TestProviderRepoUpdateNotFound(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Providers.Update(context.Background(), &catalog.Provider{ID: catalog.NewID(), Kind: "GoogleDrive", DisplayName: "x"})
	assert.Error(t, err)
}

func TestProviderRepoDelete(t *testing.T) {
	repos := newTestRepos(t)
	p := insertTestProvider(t, repos)

	require.NoError(t, repos.Providers.Delete(context.Background(), p.ID))

	_, err := repos.Providers.FindByID(context.Background(), p.ID)
	assert.Error(t, err)
}

func TestProviderRepoQueryPagination(t *testing.T) {
	repos := newTestRepos(t)

	for i := 0; i < 3; i++ {
		insertTestProvider(t, repos)
	}

	page, err := repos.Providers.Query(context.Background(), catalog.PageRequest{Page: 0, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasNext())
}
