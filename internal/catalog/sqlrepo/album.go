package sqlrepo

import (
	"context"
	"fmt"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// AlbumRepo implements catalog.AlbumRepository over a
// capability.DatabaseAdapter.
type AlbumRepo struct {
	db capability.DatabaseAdapter
}

func NewAlbumRepo(db capability.DatabaseAdapter) *AlbumRepo { return &AlbumRepo{db: db} }

const albumColumns = `id, name, normalized_name, artist_id, year, artwork_id,
	track_count, total_duration_ms, created_at, updated_at`

func scanAlbum(r capability.Row) (*catalog.Album, error) {
	id, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan album id: %w", err)
	}

	artistID, err := rowIDPtr(r, 3)
	if err != nil {
		return nil, err
	}

	artworkID, err := rowIDPtr(r, 5)
	if err != nil {
		return nil, err
	}

	return &catalog.Album{
		ID:              id,
		Name:            rowText(r, 1),
		NormalizedName:  rowText(r, 2),
		ArtistID:        artistID,
		Year:            rowIntPtr(r, 4),
		ArtworkID:       artworkID,
		TrackCount:      int(rowInt(r, 6)),
		TotalDurationMs: rowInt(r, 7),
		CreatedAt:       rowTime(r, 8),
		UpdatedAt:       rowTime(r, 9),
	}, nil
}

func scanAlbumRows(rows []capability.Row) ([]catalog.Album, error) {
	out := make([]catalog.Album, 0, len(rows))

	for _, row := range rows {
		a, err := scanAlbum(row)
		if err != nil {
			return nil, err
		}

		out = append(out, *a)
	}

	return out, nil
}

func (r *AlbumRepo) FindByID(ctx context.Context, id catalog.ID) (*catalog.Album, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = ?`, idArg(id))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find album by id", err)
	}

	if !ok {
		return nil, coreerr.NotFound("Album", id.String())
	}

	return scanAlbum(row)
}

func (r *AlbumRepo) FindByNormalizedName(ctx context.Context, normalizedName string, artistID *catalog.ID) (*catalog.Album, error) {
	var (
		row capability.Row
		ok  bool
		err error
	)

	if artistID != nil {
		row, ok, err = r.db.QueryOneOptional(ctx,
			`SELECT `+albumColumns+` FROM albums WHERE normalized_name = ? AND artist_id = ?`,
			textArg(normalizedName), idArg(*artistID))
	} else {
		row, ok, err = r.db.QueryOneOptional(ctx,
			`SELECT `+albumColumns+` FROM albums WHERE normalized_name = ? AND artist_id IS NULL`,
			textArg(normalizedName))
	}

	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find album by normalized name", err)
	}

	if !ok {
		return nil, nil
	}

	return scanAlbum(row)
}

func (r *AlbumRepo) Insert(ctx context.Context, a *catalog.Album) error {
	if a.ID.IsZero() {
		a.ID = catalog.NewID()
	}

	if a.NormalizedName == "" {
		a.NormalizedName = catalog.Normalize(a.Name)
	}

	if err := a.Validate(); err != nil {
		return err
	}

	_, err := r.db.Execute(ctx, `INSERT INTO albums (`+albumColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idArg(a.ID), textArg(a.Name), textArg(a.NormalizedName), nullableIDArg(a.ArtistID), nullableIntArg(a.Year),
		nullableIDArg(a.ArtworkID), intArg(int64(a.TrackCount)), intArg(a.TotalDurationMs),
		timeArg(a.CreatedAt), timeArg(a.UpdatedAt))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert album", err)
	}

	return nil
}

func (r *AlbumRepo) Update(ctx context.Context, a *catalog.Album) error {
	a.NormalizedName = catalog.Normalize(a.Name)

	if err := a.Validate(); err != nil {
		return err
	}

	n, err := r.db.Execute(ctx, `UPDATE albums SET name = ?, normalized_name = ?, artist_id = ?, year = ?,
		artwork_id = ?, track_count = ?, total_duration_ms = ?, updated_at = ? WHERE id = ?`,
		textArg(a.Name), textArg(a.NormalizedName), nullableIDArg(a.ArtistID), nullableIntArg(a.Year),
		nullableIDArg(a.ArtworkID), intArg(int64(a.TrackCount)), intArg(a.TotalDurationMs), timeArg(a.UpdatedAt),
		idArg(a.ID))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "update album", err)
	}

	if n == 0 {
		return coreerr.NotFound("Album", a.ID.String())
	}

	return nil
}

func (r *AlbumRepo) Delete(ctx context.Context, id catalog.ID) error {
	n, err := r.db.Execute(ctx, `DELETE FROM albums WHERE id = ?`, idArg(id))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "delete album", err)
	}

	if n == 0 {
		return coreerr.NotFound("Album", id.String())
	}

	return nil
}

func (r *AlbumRepo) Query(ctx context.Context, req catalog.PageRequest) (catalog.Page[catalog.Album], error) {
	total, err := countRows(ctx, r.db, "albums", "")
	if err != nil {
		return catalog.Page[catalog.Album]{}, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+albumColumns+` FROM albums ORDER BY normalized_name LIMIT ? OFFSET ?`,
		intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.Album]{}, coreerr.New(coreerr.KindDatabase, "query albums", err)
	}

	items, err := scanAlbumRows(rows)
	if err != nil {
		return catalog.Page[catalog.Album]{}, err
	}

	return catalog.NewPage(items, req, total), nil
}

func (r *AlbumRepo) Search(ctx context.Context, query string, req catalog.PageRequest) (catalog.Page[catalog.Album], error) {
	row, err := r.db.QueryOne(ctx, `SELECT COUNT(*) FROM albums_fts WHERE albums_fts MATCH ?`, textArg(query))
	if err != nil {
		return catalog.Page[catalog.Album]{}, coreerr.New(coreerr.KindDatabase, "count album search results", err)
	}

	total := int(rowInt(row, 0))

	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.name, a.normalized_name, a.artist_id, a.year, a.artwork_id,
		 a.track_count, a.total_duration_ms, a.created_at, a.updated_at
		 FROM albums a JOIN albums_fts f ON f.rowid = a.rowid
		 WHERE albums_fts MATCH ? ORDER BY rank LIMIT ? OFFSET ?`,
		textArg(query), intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.Album]{}, coreerr.New(coreerr.KindDatabase, "search albums", err)
	}

	items, err := scanAlbumRows(rows)
	if err != nil {
		return catalog.Page[catalog.Album]{}, err
	}

	return catalog.NewPage(items, req, total), nil
}

var _ catalog.AlbumRepository = (*AlbumRepo)(nil)
