package sqlrepo

import (
	"context"
	"fmt"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// LyricsRepo implements catalog.LyricsRepository over a
// capability.DatabaseAdapter.
type LyricsRepo struct {
	db capability.DatabaseAdapter
}

func NewLyricsRepo(db capability.DatabaseAdapter) *LyricsRepo { return &LyricsRepo{db: db} }

const lyricsColumns = `track_id, source, synced, body, language, last_checked_at, created_at`

func scanLyrics(r capability.Row) (*catalog.Lyrics, error) {
	trackID, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan lyrics track_id: %w", err)
	}

	return &catalog.Lyrics{
		TrackID:       trackID,
		Source:        rowText(r, 1),
		Synced:        rowBool(r, 2),
		Body:          rowText(r, 3),
		Language:      rowText(r, 4),
		LastCheckedAt: rowTime(r, 5),
		CreatedAt:     rowTime(r, 6),
	}, nil
}

func (r *LyricsRepo) FindByTrackID(ctx context.Context, trackID catalog.ID) (*catalog.Lyrics, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+lyricsColumns+` FROM lyrics WHERE track_id = ?`, idArg(trackID))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find lyrics by track id", err)
	}

	if !ok {
		return nil, coreerr.NotFound("Lyrics", trackID.String())
	}

	return scanLyrics(row)
}

func (r *LyricsRepo) Upsert(ctx context.Context, l *catalog.Lyrics) error {
	if err := l.Validate(); err != nil {
		return err
	}

	_, err := r.db.Execute(ctx,
		`INSERT INTO lyrics (`+lyricsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (track_id) DO UPDATE SET
			source = excluded.source, synced = excluded.synced, body = excluded.body,
			language = excluded.language, last_checked_at = excluded.last_checked_at`,
		idArg(l.TrackID), textArg(l.Source), boolArg(l.Synced), textArg(l.Body),
		textArg(l.Language), timeArg(l.LastCheckedAt), timeArg(l.CreatedAt))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "upsert lyrics", err)
	}

	return nil
}

func (r *LyricsRepo) Delete(ctx context.Context, trackID catalog.ID) error {
	n, err := r.db.Execute(ctx, `DELETE FROM lyrics WHERE track_id = ?`, idArg(trackID))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "delete lyrics", err)
	}

	if n == 0 {
		return coreerr.NotFound("Lyrics", trackID.String())
	}

	return nil
}

var _ catalog.LyricsRepository = (*LyricsRepo)(nil)
