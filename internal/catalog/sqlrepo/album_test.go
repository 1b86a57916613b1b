package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

func insertTestAlbum(t *testing.T, repos catalog.Repositories, name string, artistID *catalog.ID) catalog.Album {
	t.Helper()

	a := catalog.Album{ID: catalog.NewID(), Name: name, ArtistID: artistID}
	require.NoError(t, repos.Albums.Insert(context.Background(), &a))

	return a
}

func TestAlbumRepoInsertAndFindByID(t *testing.T) {
	repos := newTestRepos(t)
	a := insertTestAlbum(t, repos, "Abbey Road", nil)

	found, err := repos.Albums.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Abbey Road", found.Name)
	assert.Equal(t, catalog.Normalize("Abbey Road"), found.NormalizedName)
}

func TestAlbumRepoInsertRejectsEmptyName(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Albums.Insert(context.Background(), &catalog.Album{ID: catalog.NewID()})
	assert.Error(t, err)
}

func TestAlbumRepoFindByNormalizedNameWithoutArtist(t *testing.T) {
	repos := newTestRepos(t)
	insertTestAlbum(t, repos, "Greatest Hits", nil)

	found, err := repos.Albums.FindByNormalizedName(context.Background(), catalog.Normalize("Greatest Hits"), nil)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Greatest Hits", found.Name)

	notFound, err := repos.Albums.FindByNormalizedName(context.Background(), catalog.Normalize("Missing"), nil)
	require.NoError(t, err)
	assert.Nil(t, notFound)
}

func TestAlbumRepoFindByNormalizedNameWithArtist(t *testing.T) {
	repos := newTestRepos(t)

	artist := catalog.Artist{ID: catalog.NewID(), Name: "The Beatles"}
	require.NoError(t, repos.Artists.Insert(context.Background(), &artist))

	insertTestAlbum(t, repos, "Revolver", &artist.ID)

	found, err := repos.Albums.FindByNormalizedName(context.Background(), catalog.Normalize("Revolver"), &artist.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, artist.ID, *found.ArtistID)
}

func TestAlbumRepoUpdate(t *testing.T) {
	repos := newTestRepos(t)
	a := insertTestAlbum(t, repos, "Working Title", nil)

	a.Name = "Final Title"
	a.TrackCount = 10
	require.NoError(t, repos.Albums.Update(context.Background(), &a))

	found, err := repos.Albums.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final Title", found.Name)
	assert.Equal(t, 10, found.TrackCount)
}

func TestAlbumRepoDelete(t *testing.T) {
	repos := newTestRepos(t)
	a := insertTestAlbum(t, repos, "Ephemeral", nil)

	require.NoError(t, repos.Albums.Delete(context.Background(), a.ID))

	_, err := repos.Albums.FindByID(context.Background(), a.ID)
	assert.Error(t, err)
}

func TestAlbumRepoQueryPagination(t *testing.T) {
	repos := newTestRepos(t)

	for i := 0; i < 3; i++ {
		insertTestAlbum(t, repos, "Album", nil)
	}

	page, err := repos.Albums.Query(context.Background(), catalog.PageRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)
	assert.Len(t, page.Items, 2)
}

func TestAlbumRepoSearch(t *testing.T) {
	repos := newTestRepos(t)
	insertTestAlbum(t, repos, "Dark Side of the Moon", nil)
	insertTestAlbum(t, repos, "Wish You Were Here", nil)

	page, err := repos.Albums.Search(context.Background(), "Dark", catalog.PageRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Dark Side of the Moon", page.Items[0].Name)
}
