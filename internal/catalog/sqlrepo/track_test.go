package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

func TestTrackRepoInsertAndFindByID(t *testing.T) {
	repos := newTestRepos(t)
	track := insertTestTrack(t, repos, "Song One")

	found, err := repos.Tracks.FindByID(context.Background(), track.ID)
	require.NoError(t, err)
	assert.Equal(t, "Song One", found.Title)
	assert.Equal(t, catalog.Normalize("Song One"), found.NormalizedTitle)
}

func TestTrackRepoFindByIDNotFound(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Tracks.FindByID(context.Background(), catalog.NewID())
	assert.Error(t, err)
}

func TestTrackRepoFindByProviderFileID(t *testing.T) {
	repos := newTestRepos(t)
	track := insertTestTrack(t, repos, "Song Two")

	found, err := repos.Tracks.FindByProviderFileID(context.Background(), track.ProviderID, track.ProviderFileID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, track.ID, found.ID)

	notFound, err := repos.Tracks.FindByProviderFileID(context.Background(), track.ProviderID, "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, notFound)
}

func TestTrackRepoFindByHash(t *testing.T) {
	repos := newTestRepos(t)
	provider := insertTestProvider(t, repos)

	for i := 0; i < 2; i++ {
		track := catalog.Track{
			ID:              catalog.NewID(),
			ProviderID:      provider.ID,
			ProviderFileID:  catalog.NewID().String(),
			Title:           "Dup",
			NormalizedTitle: catalog.Normalize("Dup"),
			Hash:            "same-hash",
		}
		require.NoError(t, repos.Tracks.Insert(context.Background(), &track))
	}

	found, err := repos.Tracks.FindByHash(context.Background(), "same-hash")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestTrackRepoInsertRejectsInvalidTrack(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Tracks.Insert(context.Background(), &catalog.Track{})
	assert.Error(t, err)
}

func TestTrackRepoUpdate(t *testing.T) {
	repos := newTestRepos(t)
	track := insertTestTrack(t, repos, "Original")

	track.Title = "Renamed"
	require.NoError(t, repos.Tracks.Update(context.Background(), &track))

	found, err := repos.Tracks.FindByID(context.Background(), track.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Title)
	assert.Equal(t, catalog.Normalize("Renamed"), found.NormalizedTitle)
}

func TestTrackRepoUpdateNotFound(t *testing.T) {
	repos := newTestRepos(t)
	provider := insertTestProvider(t, repos)

	err := repos.Tracks.Update(context.Background(), &catalog.Track{
		ID:             catalog.NewID(),
		ProviderID:     provider.ID,
		ProviderFileID: "x",
		Title:          "Ghost",
	})
	assert.Error(t, err)
}

func TestTrackRepoDelete(t *testing.T) {
	repos := newTestRepos(t)
	track := insertTestTrack(t, repos, "To Delete")

	require.NoError(t, repos.Tracks.Delete(context.Background(), track.ID))

	_, err := repos.Tracks.FindByID(context.Background(), track.ID)
	assert.Error(t, err)
}

func TestTrackRepoQueryPagination(t *testing.T) {
	repos := newTestRepos(t)

	for i := 0; i < 5; i++ {
		insertTestTrack(t, repos, "Track")
	}

	page, err := repos.Tracks.Query(context.Background(), catalog.PageRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 2)
}

func TestTrackRepoFindByAlbum(t *testing.T) {
	repos := newTestRepos(t)
	provider := insertTestProvider(t, repos)

	album := catalog.Album{ID: catalog.NewID(), Name: "Album One", NormalizedName: catalog.Normalize("Album One")}
	require.NoError(t, repos.Albums.Insert(context.Background(), &album))

	track := catalog.Track{
		ID:              catalog.NewID(),
		ProviderID:      provider.ID,
		ProviderFileID:  "f1",
		Title:           "In Album",
		NormalizedTitle: catalog.Normalize("In Album"),
		AlbumID:         &album.ID,
	}
	require.NoError(t, repos.Tracks.Insert(context.Background(), &track))

	page, err := repos.Tracks.FindByAlbum(context.Background(), album.ID, catalog.PageRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, track.ID, page.Items[0].ID)
}

func TestTrackRepoFindByMissingArtwork(t *testing.T) {
	repos := newTestRepos(t)
	track := insertTestTrack(t, repos, "No Artwork")

	page, err := repos.Tracks.FindByMissingArtwork(context.Background(), catalog.PageRequest{PageSize: 10})
	require.NoError(t, err)

	var found bool
	for _, item := range page.Items {
		if item.ID == track.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTrackRepoFindByLyricsStatus(t *testing.T) {
	repos := newTestRepos(t)
	track := insertTestTrack(t, repos, "Needs Lyrics")
	track.LyricsStatus = catalog.LyricsFailed
	require.NoError(t, repos.Tracks.Update(context.Background(), &track))

	page, err := repos.Tracks.FindByLyricsStatus(context.Background(), catalog.LyricsFailed, catalog.PageRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, track.ID, page.Items[0].ID)
}

func TestTrackRepoSearch(t *testing.T) {
	repos := newTestRepos(t)
	insertTestTrack(t, repos, "Bohemian Rhapsody")
	insertTestTrack(t, repos, "Imagine")

	page, err := repos.Tracks.Search(context.Background(), "Rhapsody", catalog.PageRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bohemian Rhapsody", page.Items[0].Title)
}
