package sqlrepo

import (
	"context"
	"fmt"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// PlaylistRepo implements catalog.PlaylistRepository over a
// capability.DatabaseAdapter.
type PlaylistRepo struct {
	db capability.DatabaseAdapter
}

func NewPlaylistRepo(db capability.DatabaseAdapter) *PlaylistRepo { return &PlaylistRepo{db: db} }

const playlistColumns = `id, name, normalized_name, description, owner_type, sort_order,
	is_public, track_count, total_duration_ms, artwork_id, created_at, updated_at`

func scanPlaylist(r capability.Row) (*catalog.Playlist, error) {
	id, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan playlist id: %w", err)
	}

	artworkID, err := rowIDPtr(r, 9)
	if err != nil {
		return nil, err
	}

	return &catalog.Playlist{
		ID:              id,
		Name:            rowText(r, 1),
		NormalizedName:  rowText(r, 2),
		Description:     rowText(r, 3),
		OwnerType:       catalog.PlaylistOwnerType(rowText(r, 4)),
		SortOrder:       rowText(r, 5),
		IsPublic:        rowBool(r, 6),
		TrackCount:      int(rowInt(r, 7)),
		TotalDurationMs: rowInt(r, 8),
		ArtworkID:       artworkID,
		CreatedAt:       rowTime(r, 10),
		UpdatedAt:       rowTime(r, 11),
	}, nil
}

func (r *PlaylistRepo) FindByID(ctx context.Context, id catalog.ID) (*catalog.Playlist, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = ?`, idArg(id))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find playlist by id", err)
	}

	if !ok {
		return nil, coreerr.NotFound("Playlist", id.String())
	}

	return scanPlaylist(row)
}

func (r *PlaylistRepo) Insert(ctx context.Context, p *catalog.Playlist) error {
	if p.ID.IsZero() {
		p.ID = catalog.NewID()
	}

	if p.NormalizedName == "" {
		p.NormalizedName = catalog.Normalize(p.Name)
	}

	if p.OwnerType == "" {
		p.OwnerType = catalog.PlaylistOwnerUser
	}

	if err := p.Validate(); err != nil {
		return err
	}

	_, err := r.db.Execute(ctx, `INSERT INTO playlists (`+playlistColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idArg(p.ID), textArg(p.Name), textArg(p.NormalizedName), textArg(p.Description),
		textArg(string(p.OwnerType)), textArg(p.SortOrder), boolArg(p.IsPublic),
		intArg(int64(p.TrackCount)), intArg(p.TotalDurationMs), nullableIDArg(p.ArtworkID),
		timeArg(p.CreatedAt), timeArg(p.UpdatedAt))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert playlist", err)
	}

	return nil
}

func (r *PlaylistRepo) Update(ctx context.Context, p *catalog.Playlist) error {
	p.NormalizedName = catalog.Normalize(p.Name)

	if err := p.Validate(); err != nil {
		return err
	}

	n, err := r.db.Execute(ctx, `UPDATE playlists SET name = ?, normalized_name = ?, description = ?,
		owner_type = ?, sort_order = ?, is_public = ?, track_count = ?, total_duration_ms = ?,
		artwork_id = ?, updated_at = ? WHERE id = ?`,
		textArg(p.Name), textArg(p.NormalizedName), textArg(p.Description), textArg(string(p.OwnerType)),
		textArg(p.SortOrder), boolArg(p.IsPublic), intArg(int64(p.TrackCount)), intArg(p.TotalDurationMs),
		nullableIDArg(p.ArtworkID), timeArg(p.UpdatedAt), idArg(p.ID))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "update playlist", err)
	}

	if n == 0 {
		return coreerr.NotFound("Playlist", p.ID.String())
	}

	return nil
}

func (r *PlaylistRepo) Delete(ctx context.Context, id catalog.ID) error {
	n, err := r.db.Execute(ctx, `DELETE FROM playlists WHERE id = ?`, idArg(id))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "delete playlist", err)
	}

	if n == 0 {
		return coreerr.NotFound("Playlist", id.String())
	}

	return nil
}

func (r *PlaylistRepo) Query(ctx context.Context, req catalog.PageRequest) (catalog.Page[catalog.Playlist], error) {
	total, err := countRows(ctx, r.db, "playlists", "")
	if err != nil {
		return catalog.Page[catalog.Playlist]{}, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+playlistColumns+` FROM playlists ORDER BY created_at LIMIT ? OFFSET ?`,
		intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.Playlist]{}, coreerr.New(coreerr.KindDatabase, "query playlists", err)
	}

	items := make([]catalog.Playlist, 0, len(rows))

	for _, row := range rows {
		p, err := scanPlaylist(row)
		if err != nil {
			return catalog.Page[catalog.Playlist]{}, err
		}

		items = append(items, *p)
	}

	return catalog.NewPage(items, req, total), nil
}

func (r *PlaylistRepo) Tracks(ctx context.Context, playlistID catalog.ID, req catalog.PageRequest) (catalog.Page[catalog.PlaylistTrack], error) {
	total, err := countRows(ctx, r.db, "playlist_tracks", "WHERE playlist_id = ?", idArg(playlistID))
	if err != nil {
		return catalog.Page[catalog.PlaylistTrack]{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT playlist_id, track_id, position, added_at FROM playlist_tracks
		 WHERE playlist_id = ? ORDER BY position LIMIT ? OFFSET ?`,
		idArg(playlistID), intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.PlaylistTrack]{}, coreerr.New(coreerr.KindDatabase, "query playlist tracks", err)
	}

	items := make([]catalog.PlaylistTrack, 0, len(rows))

	for _, row := range rows {
		pid, err := rowID(row, 0)
		if err != nil {
			return catalog.Page[catalog.PlaylistTrack]{}, err
		}

		tid, err := rowID(row, 1)
		if err != nil {
			return catalog.Page[catalog.PlaylistTrack]{}, err
		}

		items = append(items, catalog.PlaylistTrack{
			PlaylistID: pid,
			TrackID:    tid,
			Position:   int(rowInt(row, 2)),
			AddedAt:    rowTime(row, 3),
		})
	}

	return catalog.NewPage(items, req, total), nil
}

func (r *PlaylistRepo) AddTrack(ctx context.Context, playlistID, trackID catalog.ID, position int) error {
	return r.db.ExecuteInTransaction(ctx, func(ctx context.Context, tx capability.Tx) error {
		if _, err := tx.Execute(ctx,
			`UPDATE playlist_tracks SET position = position + 1 WHERE playlist_id = ? AND position >= ?`,
			idArg(playlistID), intArg(int64(position))); err != nil {
			return coreerr.New(coreerr.KindDatabase, "shift playlist track positions", err)
		}

		if _, err := tx.Execute(ctx,
			`INSERT INTO playlist_tracks (playlist_id, track_id, position, added_at) VALUES (?, ?, ?, ?)`,
			idArg(playlistID), idArg(trackID), intArg(int64(position)), intArg(nowMillis())); err != nil {
			return coreerr.New(coreerr.KindDatabase, "insert playlist track", err)
		}

		_, err := tx.Execute(ctx,
			`UPDATE playlists SET track_count = track_count + 1 WHERE id = ?`, idArg(playlistID))
		if err != nil {
			return coreerr.New(coreerr.KindDatabase, "bump playlist track count", err)
		}

		return nil
	})
}

func (r *PlaylistRepo) RemoveTrack(ctx context.Context, playlistID, trackID catalog.ID) error {
	return r.db.ExecuteInTransaction(ctx, func(ctx context.Context, tx capability.Tx) error {
		row, ok, err := tx.QueryOneOptional(ctx,
			`SELECT position FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?`,
			idArg(playlistID), idArg(trackID))
		if err != nil {
			return coreerr.New(coreerr.KindDatabase, "find playlist track position", err)
		}

		if !ok {
			return coreerr.NotFound("PlaylistTrack", trackID.String())
		}

		position := rowInt(row, 0)

		if _, err := tx.Execute(ctx,
			`DELETE FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?`,
			idArg(playlistID), idArg(trackID)); err != nil {
			return coreerr.New(coreerr.KindDatabase, "delete playlist track", err)
		}

		if _, err := tx.Execute(ctx,
			`UPDATE playlist_tracks SET position = position - 1 WHERE playlist_id = ? AND position > ?`,
			idArg(playlistID), intArg(position)); err != nil {
			return coreerr.New(coreerr.KindDatabase, "close playlist track position gap", err)
		}

		_, err = tx.Execute(ctx,
			`UPDATE playlists SET track_count = track_count - 1 WHERE id = ?`, idArg(playlistID))
		if err != nil {
			return coreerr.New(coreerr.KindDatabase, "decrement playlist track count", err)
		}

		return nil
	})
}

// Reorder rewrites dense [0..n) positions for playlistID to match
// orderedTrackIDs, which must be a permutation of the playlist's current
// membership.
func (r *PlaylistRepo) Reorder(ctx context.Context, playlistID catalog.ID, orderedTrackIDs []catalog.ID) error {
	return r.db.ExecuteInTransaction(ctx, func(ctx context.Context, tx capability.Tx) error {
		for i, trackID := range orderedTrackIDs {
			n, err := tx.Execute(ctx,
				`UPDATE playlist_tracks SET position = ? WHERE playlist_id = ? AND track_id = ?`,
				intArg(int64(i)), idArg(playlistID), idArg(trackID))
			if err != nil {
				return coreerr.New(coreerr.KindDatabase, "reorder playlist track", err)
			}

			if n == 0 {
				return coreerr.NotFound("PlaylistTrack", trackID.String())
			}
		}

		return nil
	})
}

var _ catalog.PlaylistRepository = (*PlaylistRepo)(nil)
