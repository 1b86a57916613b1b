package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

func insertTestArtwork(t *testing.T, repos catalog.Repositories, hash string) catalog.Artwork {
	t.Helper()

	a := catalog.Artwork{ID: catalog.NewID(), Hash: hash, MimeType: "image/jpeg", BinaryBlob: []byte("jpeg-bytes")}
	require.NoError(t, repos.Artworks.Insert(context.Background(), &a))

	return a
}

func TestArtworkRepoInsertAndFindByID(t *testing.T) {
	repos := newTestRepos(t)
	a := insertTestArtwork(t, repos, "hash-1")

	found, err := repos.Artworks.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-1", found.Hash)
	assert.Equal(t, []byte("jpeg-bytes"), found.BinaryBlob)
}

func TestArtworkRepoInsertRejectsEmptyBlob(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Artworks.Insert(context.Background(), &catalog.Artwork{ID: catalog.NewID(), Hash: "x"})
	assert.Error(t, err)
}

func TestArtworkRepoInsertDedupesByHashConflict(t *testing.T) {
	repos := newTestRepos(t)
	insertTestArtwork(t, repos, "shared-hash")

	dup := catalog.Artwork{ID: catalog.NewID(), Hash: "shared-hash", MimeType: "image/png", BinaryBlob: []byte("other-bytes")}
	require.NoError(t, repos.Artworks.Insert(context.Background(), &dup))

	found, err := repos.Artworks.FindByHash(context.Background(), "shared-hash")
	require.NoError(t, err)
	require.NotNil(t, found)
	// The original row wins; the ON CONFLICT DO NOTHING insert is silently skipped.
	assert.Equal(t, "image/jpeg", found.MimeType)
}

func TestArtworkRepoFindByHashNotFound(t *testing.T) {
	repos := newTestRepos(t)

	found, err := repos.Artworks.FindByHash(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestArtworkRepoDelete(t *testing.T) {
	repos := newTestRepos(t)
	a := insertTestArtwork(t, repos, "to-delete")

	require.NoError(t, repos.Artworks.Delete(context.Background(), a.ID))

	_, err := repos.Artworks.FindByID(context.Background(), a.ID)
	assert.Error(t, err)
}

func TestArtworkRepoFindOrphaned(t *testing.T) {
	repos := newTestRepos(t)
	orphan := insertTestArtwork(t, repos, "orphan")
	referenced := insertTestArtwork(t, repos, "referenced")

	track := insertTestTrack(t, repos, "Has Artwork")
	track.ArtworkID = &referenced.ID
	require.NoError(t, repos.Tracks.Update(context.Background(), &track))

	page, err := repos.Artworks.FindOrphaned(context.Background(), catalog.PageRequest{PageSize: 10})
	require.NoError(t, err)

	var ids []catalog.ID
	for _, item := range page.Items {
		ids = append(ids, item.ID)
	}
	assert.Contains(t, ids, orphan.ID)
	assert.NotContains(t, ids, referenced.ID)
}
