package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

func insertTestArtist(t *testing.T, repos catalog.Repositories, name string) catalog.Artist {
	t.Helper()

	a := catalog.Artist{ID: catalog.NewID(), Name: name}
	require.NoError(t, repos.Artists.Insert(context.Background(), &a))

	return a
}

func TestArtistRepoInsertAndFindByID(t *testing.T) {
	repos := newTestRepos(t)
	a := insertTestArtist(t, repos, "Radiohead")

	found, err := repos.Artists.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Radiohead", found.Name)
	assert.Equal(t, catalog.Normalize("Radiohead"), found.NormalizedName)
}

func TestArtistRepoInsertRejectsEmptyName(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Artists.Insert(context.Background(), &catalog.Artist{ID: catalog.NewID()})
	assert.Error(t, err)
}

func TestArtistRepoFindByNormalizedName(t *testing.T) {
	repos := newTestRepos(t)
	insertTestArtist(t, repos, "Daft Punk")

	found, err := repos.Artists.FindByNormalizedName(context.Background(), catalog.Normalize("Daft Punk"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Daft Punk", found.Name)

	notFound, err := repos.Artists.FindByNormalizedName(context.Background(), catalog.Normalize("Missing"))
	require.NoError(t, err)
	assert.Nil(t, notFound)
}

func TestArtistRepoUpdate(t *testing.T) {
	repos := newTestRepos(t)
	a := insertTestArtist(t, repos, "Old Name")

	a.Name = "New Name"
	a.Bio = "Updated bio"
	require.NoError(t, repos.Artists.Update(context.Background(), &a))

	found, err := repos.Artists.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", found.Name)
	assert.Equal(t, "Updated bio", found.Bio)
}

func TestArtistRepoDelete(t *testing.T) {
	repos := newTestRepos(t)
	a := insertTestArtist(t, repos, "Gone")

	require.NoError(t, repos.Artists.Delete(context.Background(), a.ID))

	_, err := repos.Artists.FindByID(context.Background(), a.ID)
	assert.Error(t, err)
}

func TestArtistRepoQueryPagination(t *testing.T) {
	repos := newTestRepos(t)

	for i := 0; i < 4; i++ {
		insertTestArtist(t, repos, "Artist")
	}

	page, err := repos.Artists.Query(context.Background(), catalog.PageRequest{PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalItems)
	assert.Len(t, page.Items, 3)
}

func TestArtistRepoSearch(t *testing.T) {
	repos := newTestRepos(t)
	insertTestArtist(t, repos, "Kraftwerk")
	insertTestArtist(t, repos, "Pink Floyd")

	page, err := repos.Artists.Search(context.Background(), "Kraftwerk", catalog.PageRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Kraftwerk", page.Items[0].Name)
}
