package sqlrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// CachedTrackRepo implements catalog.CachedTrackRepository over a
// capability.DatabaseAdapter.
type CachedTrackRepo struct {
	db capability.DatabaseAdapter
}

func NewCachedTrackRepo(db capability.DatabaseAdapter) *CachedTrackRepo { return &CachedTrackRepo{db: db} }

const cachedTrackColumns = `track_id, status, cache_path, cached_size, original_size, encrypted,
	hash, play_count, attempts, last_accessed_at, downloaded_at, error`

func scanCachedTrack(r capability.Row) (*catalog.CachedTrack, error) {
	trackID, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan cached track track_id: %w", err)
	}

	return &catalog.CachedTrack{
		TrackID:        trackID,
		Status:         catalog.CacheStatus(rowText(r, 1)),
		CachePath:      rowText(r, 2),
		CachedSize:     rowInt(r, 3),
		OriginalSize:   rowInt(r, 4),
		Encrypted:      rowBool(r, 5),
		Hash:           rowText(r, 6),
		PlayCount:      int(rowInt(r, 7)),
		Attempts:       int(rowInt(r, 8)),
		LastAccessedAt: rowTimePtr(r, 9),
		DownloadedAt:   rowTimePtr(r, 10),
		Error:          rowText(r, 11),
	}, nil
}

func (r *CachedTrackRepo) FindByTrackID(ctx context.Context, trackID catalog.ID) (*catalog.CachedTrack, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+cachedTrackColumns+` FROM cached_tracks WHERE track_id = ?`, idArg(trackID))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find cached track", err)
	}

	if !ok {
		return nil, coreerr.NotFound("CachedTrack", trackID.String())
	}

	return scanCachedTrack(row)
}

func (r *CachedTrackRepo) Upsert(ctx context.Context, c *catalog.CachedTrack) error {
	_, err := r.db.Execute(ctx,
		`INSERT INTO cached_tracks (`+cachedTrackColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (track_id) DO UPDATE SET
			status = excluded.status, cache_path = excluded.cache_path,
			cached_size = excluded.cached_size, original_size = excluded.original_size,
			encrypted = excluded.encrypted, hash = excluded.hash, play_count = excluded.play_count,
			attempts = excluded.attempts,
			last_accessed_at = excluded.last_accessed_at, downloaded_at = excluded.downloaded_at,
			error = excluded.error`,
		idArg(c.TrackID), textArg(string(c.Status)), textArg(c.CachePath), intArg(c.CachedSize),
		intArg(c.OriginalSize), boolArg(c.Encrypted), textArg(c.Hash), intArg(int64(c.PlayCount)),
		intArg(int64(c.Attempts)), nullableTimeArg(c.LastAccessedAt), nullableTimeArg(c.DownloadedAt),
		textArg(c.Error))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "upsert cached track", err)
	}

	return nil
}

func (r *CachedTrackRepo) Delete(ctx context.Context, trackID catalog.ID) error {
	n, err := r.db.Execute(ctx, `DELETE FROM cached_tracks WHERE track_id = ?`, idArg(trackID))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "delete cached track", err)
	}

	if n == 0 {
		return coreerr.NotFound("CachedTrack", trackID.String())
	}

	return nil
}

func (r *CachedTrackRepo) FindByStatus(ctx context.Context, status catalog.CacheStatus, req catalog.PageRequest) (catalog.Page[catalog.CachedTrack], error) {
	total, err := countRows(ctx, r.db, "cached_tracks", "WHERE status = ?", textArg(string(status)))
	if err != nil {
		return catalog.Page[catalog.CachedTrack]{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+cachedTrackColumns+` FROM cached_tracks WHERE status = ? LIMIT ? OFFSET ?`,
		textArg(string(status)), intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.CachedTrack]{}, coreerr.New(coreerr.KindDatabase, "find cached tracks by status", err)
	}

	items := make([]catalog.CachedTrack, 0, len(rows))

	for _, row := range rows {
		c, err := scanCachedTrack(row)
		if err != nil {
			return catalog.Page[catalog.CachedTrack]{}, err
		}

		items = append(items, *c)
	}

	return catalog.NewPage(items, req, total), nil
}

// evictionOrderBy maps an eviction policy name (spec §4.4.2) to the SQL
// ordering that surfaces its least-valuable-first candidates.
func evictionOrderBy(policy string) string {
	switch policy {
	case "LFU":
		return "play_count ASC, last_accessed_at ASC"
	case "FIFO":
		return "downloaded_at ASC"
	case "LargestFirst":
		return "cached_size DESC"
	default: // "LRU"
		return "last_accessed_at ASC"
	}
}

func (r *CachedTrackRepo) FindEvictionCandidates(ctx context.Context, policy string, limit int, excludeTrackIDs []catalog.ID) ([]catalog.CachedTrack, error) {
	where := `WHERE status = 'Cached'`

	args := make([]capability.Value, 0, len(excludeTrackIDs)+1)

	if len(excludeTrackIDs) > 0 {
		placeholders := make([]string, len(excludeTrackIDs))
		for i, id := range excludeTrackIDs {
			placeholders[i] = "?"
			args = append(args, idArg(id))
		}

		where += ` AND track_id NOT IN (` + strings.Join(placeholders, ", ") + `)`
	}

	args = append(args, intArg(int64(limit)))

	rows, err := r.db.Query(ctx,
		`SELECT `+cachedTrackColumns+` FROM cached_tracks `+where+`
		 ORDER BY `+evictionOrderBy(policy)+` LIMIT ?`, args...)
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find eviction candidates", err)
	}

	out := make([]catalog.CachedTrack, 0, len(rows))

	for _, row := range rows {
		c, err := scanCachedTrack(row)
		if err != nil {
			return nil, err
		}

		out = append(out, *c)
	}

	return out, nil
}

func (r *CachedTrackRepo) TotalCachedSize(ctx context.Context) (int64, error) {
	row, err := r.db.QueryOne(ctx, `SELECT COALESCE(SUM(cached_size), 0) FROM cached_tracks WHERE status = 'Cached'`)
	if err != nil {
		return 0, coreerr.New(coreerr.KindDatabase, "total cached size", err)
	}

	return rowInt(row, 0), nil
}

var _ catalog.CachedTrackRepository = (*CachedTrackRepo)(nil)
