package sqlrepo

import (
	"context"
	"fmt"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// ArtistRepo implements catalog.ArtistRepository over a
// capability.DatabaseAdapter.
type ArtistRepo struct {
	db capability.DatabaseAdapter
}

func NewArtistRepo(db capability.DatabaseAdapter) *ArtistRepo { return &ArtistRepo{db: db} }

const artistColumns = `id, name, normalized_name, sort_name, bio, country, created_at, updated_at`

func scanArtist(r capability.Row) (*catalog.Artist, error) {
	id, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan artist id: %w", err)
	}

	return &catalog.Artist{
		ID:             id,
		Name:           rowText(r, 1),
		NormalizedName: rowText(r, 2),
		SortName:       rowText(r, 3),
		Bio:            rowText(r, 4),
		Country:        rowText(r, 5),
		CreatedAt:      rowTime(r, 6),
		UpdatedAt:      rowTime(r, 7),
	}, nil
}

func scanArtistRows(rows []capability.Row) ([]catalog.Artist, error) {
	out := make([]catalog.Artist, 0, len(rows))

	for _, row := range rows {
		a, err := scanArtist(row)
		if err != nil {
			return nil, err
		}

		out = append(out, *a)
	}

	return out, nil
}

func (r *ArtistRepo) FindByID(ctx context.Context, id catalog.ID) (*catalog.Artist, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = ?`, idArg(id))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find artist by id", err)
	}

	if !ok {
		return nil, coreerr.NotFound("Artist", id.String())
	}

	return scanArtist(row)
}

func (r *ArtistRepo) FindByNormalizedName(ctx context.Context, normalizedName string) (*catalog.Artist, error) {
	row, ok, err := r.db.QueryOneOptional(ctx,
		`SELECT `+artistColumns+` FROM artists WHERE normalized_name = ?`, textArg(normalizedName))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find artist by normalized name", err)
	}

	if !ok {
		return nil, nil
	}

	return scanArtist(row)
}

func (r *ArtistRepo) Insert(ctx context.Context, a *catalog.Artist) error {
	if a.ID.IsZero() {
		a.ID = catalog.NewID()
	}

	if a.NormalizedName == "" {
		a.NormalizedName = catalog.Normalize(a.Name)
	}

	if err := a.Validate(); err != nil {
		return err
	}

	_, err := r.db.Execute(ctx, `INSERT INTO artists (`+artistColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		idArg(a.ID), textArg(a.Name), textArg(a.NormalizedName), textArg(a.SortName),
		textArg(a.Bio), textArg(a.Country), timeArg(a.CreatedAt), timeArg(a.UpdatedAt))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert artist", err)
	}

	return nil
}

func (r *ArtistRepo) Update(ctx context.Context, a *catalog.Artist) error {
	a.NormalizedName = catalog.Normalize(a.Name)

	if err := a.Validate(); err != nil {
		return err
	}

	n, err := r.db.Execute(ctx, `UPDATE artists SET name = ?, normalized_name = ?, sort_name = ?,
		bio = ?, country = ?, updated_at = ? WHERE id = ?`,
		textArg(a.Name), textArg(a.NormalizedName), textArg(a.SortName), textArg(a.Bio),
		textArg(a.Country), timeArg(a.UpdatedAt), idArg(a.ID))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "update artist", err)
	}

	if n == 0 {
		return coreerr.NotFound("Artist", a.ID.String())
	}

	return nil
}

func (r *ArtistRepo) Delete(ctx context.Context, id catalog.ID) error {
	n, err := r.db.Execute(ctx, `DELETE FROM artists WHERE id = ?`, idArg(id))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "delete artist", err)
	}

	if n == 0 {
		return coreerr.NotFound("Artist", id.String())
	}

	return nil
}

func (r *ArtistRepo) Query(ctx context.Context, req catalog.PageRequest) (catalog.Page[catalog.Artist], error) {
	total, err := countRows(ctx, r.db, "artists", "")
	if err != nil {
		return catalog.Page[catalog.Artist]{}, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+artistColumns+` FROM artists ORDER BY normalized_name LIMIT ? OFFSET ?`,
		intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.Artist]{}, coreerr.New(coreerr.KindDatabase, "query artists", err)
	}

	items, err := scanArtistRows(rows)
	if err != nil {
		return catalog.Page[catalog.Artist]{}, err
	}

	return catalog.NewPage(items, req, total), nil
}

func (r *ArtistRepo) Search(ctx context.Context, query string, req catalog.PageRequest) (catalog.Page[catalog.Artist], error) {
	row, err := r.db.QueryOne(ctx, `SELECT COUNT(*) FROM artists_fts WHERE artists_fts MATCH ?`, textArg(query))
	if err != nil {
		return catalog.Page[catalog.Artist]{}, coreerr.New(coreerr.KindDatabase, "count artist search results", err)
	}

	total := int(rowInt(row, 0))

	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.name, a.normalized_name, a.sort_name, a.bio, a.country, a.created_at, a.updated_at
		 FROM artists a JOIN artists_fts f ON f.rowid = a.rowid
		 WHERE artists_fts MATCH ? ORDER BY rank LIMIT ? OFFSET ?`,
		textArg(query), intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.Artist]{}, coreerr.New(coreerr.KindDatabase, "search artists", err)
	}

	items, err := scanArtistRows(rows)
	if err != nil {
		return catalog.Page[catalog.Artist]{}, err
	}

	return catalog.NewPage(items, req, total), nil
}

var _ catalog.ArtistRepository = (*ArtistRepo)(nil)
