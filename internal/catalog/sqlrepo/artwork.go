package sqlrepo

import (
	"context"
	"fmt"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// ArtworkRepo implements catalog.ArtworkRepository over a
// capability.DatabaseAdapter.
type ArtworkRepo struct {
	db capability.DatabaseAdapter
}

func NewArtworkRepo(db capability.DatabaseAdapter) *ArtworkRepo { return &ArtworkRepo{db: db} }

const artworkColumns = `id, hash, mime_type, binary_blob, width, height, file_size,
	dominant_color, source, created_at`

func scanArtwork(r capability.Row) (*catalog.Artwork, error) {
	id, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan artwork id: %w", err)
	}

	return &catalog.Artwork{
		ID:            id,
		Hash:          rowText(r, 1),
		MimeType:      rowText(r, 2),
		BinaryBlob:    rowBlob(r, 3),
		Width:         int(rowInt(r, 4)),
		Height:        int(rowInt(r, 5)),
		FileSize:      rowInt(r, 6),
		DominantColor: rowText(r, 7),
		Source:        rowText(r, 8),
		CreatedAt:     rowTime(r, 9),
	}, nil
}

func (r *ArtworkRepo) FindByID(ctx context.Context, id catalog.ID) (*catalog.Artwork, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+artworkColumns+` FROM artworks WHERE id = ?`, idArg(id))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find artwork by id", err)
	}

	if !ok {
		return nil, coreerr.NotFound("Artwork", id.String())
	}

	return scanArtwork(row)
}

func (r *ArtworkRepo) FindByHash(ctx context.Context, hash string) (*catalog.Artwork, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+artworkColumns+` FROM artworks WHERE hash = ?`, textArg(hash))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find artwork by hash", err)
	}

	if !ok {
		return nil, nil
	}

	return scanArtwork(row)
}

func (r *ArtworkRepo) Insert(ctx context.Context, a *catalog.Artwork) error {
	if a.ID.IsZero() {
		a.ID = catalog.NewID()
	}

	if err := a.Validate(); err != nil {
		return err
	}

	_, err := r.db.Execute(ctx, `INSERT INTO artworks (`+artworkColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (hash) DO NOTHING`,
		idArg(a.ID), textArg(a.Hash), textArg(a.MimeType), blobArg(a.BinaryBlob),
		intArg(int64(a.Width)), intArg(int64(a.Height)), intArg(a.FileSize),
		textArg(a.DominantColor), textArg(a.Source), timeArg(a.CreatedAt))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert artwork", err)
	}

	return nil
}

func (r *ArtworkRepo) Delete(ctx context.Context, id catalog.ID) error {
	n, err := r.db.Execute(ctx, `DELETE FROM artworks WHERE id = ?`, idArg(id))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "delete artwork", err)
	}

	if n == 0 {
		return coreerr.NotFound("Artwork", id.String())
	}

	return nil
}

// FindOrphaned lists artwork no longer referenced by any track, album, or
// playlist — the sync engine's orphaned-artwork garbage-collection input
// (spec §4.3.4).
func (r *ArtworkRepo) FindOrphaned(ctx context.Context, req catalog.PageRequest) (catalog.Page[catalog.Artwork], error) {
	whereClause := `WHERE id NOT IN (SELECT artwork_id FROM tracks WHERE artwork_id IS NOT NULL)
		AND id NOT IN (SELECT artwork_id FROM albums WHERE artwork_id IS NOT NULL)
		AND id NOT IN (SELECT artwork_id FROM playlists WHERE artwork_id IS NOT NULL)`

	total, err := countRows(ctx, r.db, "artworks", whereClause)
	if err != nil {
		return catalog.Page[catalog.Artwork]{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+artworkColumns+` FROM artworks `+whereClause+` ORDER BY created_at LIMIT ? OFFSET ?`,
		intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.Artwork]{}, coreerr.New(coreerr.KindDatabase, "find orphaned artwork", err)
	}

	items := make([]catalog.Artwork, 0, len(rows))

	for _, row := range rows {
		a, err := scanArtwork(row)
		if err != nil {
			return catalog.Page[catalog.Artwork]{}, err
		}

		items = append(items, *a)
	}

	return catalog.NewPage(items, req, total), nil
}

var _ catalog.ArtworkRepository = (*ArtworkRepo)(nil)
