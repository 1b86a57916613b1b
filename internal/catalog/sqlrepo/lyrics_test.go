package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

func TestLyricsRepoUpsertInsertsThenUpdates(t *testing.T) {
	repos := newTestRepos(t)
	track := insertTestTrack(t, repos, "Lyric Song")

	l := catalog.Lyrics{TrackID: track.ID, Source: "lrclib", Body: "first draft"}
	require.NoError(t, repos.Lyrics.Upsert(context.Background(), &l))

	found, err := repos.Lyrics.FindByTrackID(context.Background(), track.ID)
	require.NoError(t, err)
	assert.Equal(t, "first draft", found.Body)

	l.Body = "revised lyrics"
	l.Synced = true
	require.NoError(t, repos.Lyrics.Upsert(context.Background(), &l))

	found, err = repos.Lyrics.FindByTrackID(context.Background(), track.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised lyrics", found.Body)
	assert.True(t, found.Synced)
}

func TestLyricsRepoUpsertRejectsEmptyBody(t *testing.T) {
	repos := newTestRepos(t)
	track := insertTestTrack(t, repos, "No Body")

	err := repos.Lyrics.Upsert(context.Background(), &catalog.Lyrics{TrackID: track.ID})
	assert.Error(t, err)
}

func TestLyricsRepoFindByTrackIDNotFound(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Lyrics.FindByTrackID(context.Background(), catalog.NewID())
	assert.Error(t, err)
}

func TestLyricsRepoDelete(t *testing.T) {
	repos := newTestRepos(t)
	track := insertTestTrack(t, repos, "Doomed Lyrics")

	require.NoError(t, repos.Lyrics.Upsert(context.Background(), &catalog.Lyrics{TrackID: track.ID, Body: "x"}))
	require.NoError(t, repos.Lyrics.Delete(context.Background(), track.ID))

	_, err := repos.Lyrics.FindByTrackID(context.Background(), track.ID)
	assert.Error(t, err)
}
