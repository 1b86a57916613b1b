package sqlrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// TrackRepo implements catalog.TrackRepository over a
// capability.DatabaseAdapter.
type TrackRepo struct {
	db capability.DatabaseAdapter
}

func NewTrackRepo(db capability.DatabaseAdapter) *TrackRepo { return &TrackRepo{db: db} }

const trackColumns = `id, provider_id, provider_file_id, hash, title, normalized_title,
	album_id, artist_id, album_artist_id, track_number, disc_number, genre, year,
	duration_ms, bitrate, sample_rate, channels, format, file_size, mime_type,
	artwork_id, lyrics_status, provider_modified_at, created_at, updated_at`

func scanTrack(r capability.Row) (*catalog.Track, error) {
	id, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan track id: %w", err)
	}

	providerID, err := rowID(r, 1)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan track provider_id: %w", err)
	}

	albumID, err := rowIDPtr(r, 6)
	if err != nil {
		return nil, err
	}

	artistID, err := rowIDPtr(r, 7)
	if err != nil {
		return nil, err
	}

	albumArtistID, err := rowIDPtr(r, 8)
	if err != nil {
		return nil, err
	}

	artworkID, err := rowIDPtr(r, 20)
	if err != nil {
		return nil, err
	}

	return &catalog.Track{
		ID:                 id,
		ProviderID:         providerID,
		ProviderFileID:     rowText(r, 2),
		Hash:               rowText(r, 3),
		Title:              rowText(r, 4),
		NormalizedTitle:    rowText(r, 5),
		AlbumID:            albumID,
		ArtistID:           artistID,
		AlbumArtistID:      albumArtistID,
		TrackNumber:        rowIntPtr(r, 9),
		DiscNumber:         int(rowInt(r, 10)),
		Genre:              rowText(r, 11),
		Year:               rowIntPtr(r, 12),
		DurationMs:         rowInt(r, 13),
		Bitrate:            rowIntPtr(r, 14),
		SampleRate:         rowIntPtr(r, 15),
		Channels:           rowIntPtr(r, 16),
		Format:             rowText(r, 17),
		FileSize:           rowInt64Ptr(r, 18),
		MimeType:           rowText(r, 19),
		ArtworkID:          artworkID,
		LyricsStatus:       catalog.LyricsStatus(rowText(r, 21)),
		ProviderModifiedAt: rowTimePtr(r, 22),
		CreatedAt:          rowTime(r, 23),
		UpdatedAt:          rowTime(r, 24),
	}, nil
}

func trackArgs(t *catalog.Track) []capability.Value {
	return []capability.Value{
		idArg(t.ID), idArg(t.ProviderID), textArg(t.ProviderFileID), textArg(t.Hash),
		textArg(t.Title), textArg(t.NormalizedTitle),
		nullableIDArg(t.AlbumID), nullableIDArg(t.ArtistID), nullableIDArg(t.AlbumArtistID),
		nullableIntArg(t.TrackNumber), intArg(int64(t.DiscNumber)), textArg(t.Genre), nullableIntArg(t.Year),
		intArg(t.DurationMs), nullableIntArg(t.Bitrate), nullableIntArg(t.SampleRate), nullableIntArg(t.Channels),
		textArg(t.Format), nullableInt64Arg(t.FileSize), textArg(t.MimeType),
		nullableIDArg(t.ArtworkID), textArg(string(t.LyricsStatus)), nullableTimeArg(t.ProviderModifiedAt),
		timeArg(t.CreatedAt), timeArg(t.UpdatedAt),
	}
}

func (r *TrackRepo) findOneBy(ctx context.Context, whereClause string, args ...capability.Value) (*catalog.Track, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+trackColumns+` FROM tracks WHERE `+whereClause, args...)
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find track", err)
	}

	if !ok {
		return nil, nil
	}

	return scanTrack(row)
}

func (r *TrackRepo) FindByID(ctx context.Context, id catalog.ID) (*catalog.Track, error) {
	t, err := r.findOneBy(ctx, "id = ?", idArg(id))
	if err != nil {
		return nil, err
	}

	if t == nil {
		return nil, coreerr.NotFound("Track", id.String())
	}

	return t, nil
}

func (r *TrackRepo) FindByProviderFileID(ctx context.Context, providerID catalog.ID, providerFileID string) (*catalog.Track, error) {
	return r.findOneBy(ctx, "provider_id = ? AND provider_file_id = ?", idArg(providerID), textArg(providerFileID))
}

func (r *TrackRepo) FindByHash(ctx context.Context, hash string) ([]catalog.Track, error) {
	rows, err := r.db.Query(ctx, `SELECT `+trackColumns+` FROM tracks WHERE hash = ?`, textArg(hash))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find tracks by hash", err)
	}

	return scanTrackRows(rows)
}

func scanTrackRows(rows []capability.Row) ([]catalog.Track, error) {
	out := make([]catalog.Track, 0, len(rows))

	for _, row := range rows {
		t, err := scanTrack(row)
		if err != nil {
			return nil, err
		}

		out = append(out, *t)
	}

	return out, nil
}

func (r *TrackRepo) Insert(ctx context.Context, t *catalog.Track) error {
	if t.ID.IsZero() {
		t.ID = catalog.NewID()
	}

	if t.NormalizedTitle == "" {
		t.NormalizedTitle = catalog.Normalize(t.Title)
	}

	if err := t.Validate(); err != nil {
		return err
	}

	placeholders := "?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?"

	_, err := r.db.Execute(ctx, `INSERT INTO tracks (`+trackColumns+`) VALUES (`+placeholders+`)`, trackArgs(t)...)
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert track", err)
	}

	return nil
}

func (r *TrackRepo) Update(ctx context.Context, t *catalog.Track) error {
	t.NormalizedTitle = catalog.Normalize(t.Title)

	if err := t.Validate(); err != nil {
		return err
	}

	args := append(trackArgs(t)[1:], idArg(t.ID))

	n, err := r.db.Execute(ctx, `UPDATE tracks SET
		provider_id = ?, provider_file_id = ?, hash = ?, title = ?, normalized_title = ?,
		album_id = ?, artist_id = ?, album_artist_id = ?, track_number = ?, disc_number = ?,
		genre = ?, year = ?, duration_ms = ?, bitrate = ?, sample_rate = ?, channels = ?,
		format = ?, file_size = ?, mime_type = ?, artwork_id = ?, lyrics_status = ?,
		provider_modified_at = ?, created_at = ?, updated_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "update track", err)
	}

	if n == 0 {
		return coreerr.NotFound("Track", t.ID.String())
	}

	return nil
}

func (r *TrackRepo) Delete(ctx context.Context, id catalog.ID) error {
	n, err := r.db.Execute(ctx, `DELETE FROM tracks WHERE id = ?`, idArg(id))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "delete track", err)
	}

	if n == 0 {
		return coreerr.NotFound("Track", id.String())
	}

	return nil
}

func (r *TrackRepo) Query(ctx context.Context, req catalog.PageRequest) (catalog.Page[catalog.Track], error) {
	return r.pagedWhere(ctx, req, "", "created_at")
}

func (r *TrackRepo) pagedWhere(ctx context.Context, req catalog.PageRequest, whereClause, orderBy string, args ...capability.Value) (catalog.Page[catalog.Track], error) {
	total, err := countRows(ctx, r.db, "tracks", whereClause, args...)
	if err != nil {
		return catalog.Page[catalog.Track]{}, err
	}

	q := `SELECT ` + trackColumns + ` FROM tracks ` + whereClause + ` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	fullArgs := append(append([]capability.Value{}, args...), intArg(int64(req.Limit())), intArg(int64(req.Offset())))

	rows, err := r.db.Query(ctx, q, fullArgs...)
	if err != nil {
		return catalog.Page[catalog.Track]{}, coreerr.New(coreerr.KindDatabase, "query tracks", err)
	}

	items, err := scanTrackRows(rows)
	if err != nil {
		return catalog.Page[catalog.Track]{}, err
	}

	return catalog.NewPage(items, req, total), nil
}

func (r *TrackRepo) Search(ctx context.Context, query string, req catalog.PageRequest) (catalog.Page[catalog.Track], error) {
	total, err := r.searchCount(ctx, query)
	if err != nil {
		return catalog.Page[catalog.Track]{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+trackColumnsPrefixed("t")+` FROM tracks t
		 JOIN tracks_fts f ON f.rowid = t.rowid
		 WHERE tracks_fts MATCH ? ORDER BY rank LIMIT ? OFFSET ?`,
		textArg(query), intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.Track]{}, coreerr.New(coreerr.KindDatabase, "search tracks", err)
	}

	items, err := scanTrackRows(rows)
	if err != nil {
		return catalog.Page[catalog.Track]{}, err
	}

	return catalog.NewPage(items, req, total), nil
}

func (r *TrackRepo) searchCount(ctx context.Context, query string) (int, error) {
	row, err := r.db.QueryOne(ctx,
		`SELECT COUNT(*) FROM tracks_fts WHERE tracks_fts MATCH ?`, textArg(query))
	if err != nil {
		return 0, coreerr.New(coreerr.KindDatabase, "count track search results", err)
	}

	return int(rowInt(row, 0)), nil
}

func (r *TrackRepo) FindByAlbum(ctx context.Context, albumID catalog.ID, req catalog.PageRequest) (catalog.Page[catalog.Track], error) {
	return r.pagedWhere(ctx, req, "WHERE album_id = ?", "disc_number, track_number", idArg(albumID))
}

func (r *TrackRepo) FindByArtist(ctx context.Context, artistID catalog.ID, req catalog.PageRequest) (catalog.Page[catalog.Track], error) {
	return r.pagedWhere(ctx, req, "WHERE artist_id = ?", "created_at", idArg(artistID))
}

func (r *TrackRepo) FindByMissingArtwork(ctx context.Context, req catalog.PageRequest) (catalog.Page[catalog.Track], error) {
	return r.pagedWhere(ctx, req, "WHERE artwork_id IS NULL", "created_at")
}

func (r *TrackRepo) FindByLyricsStatus(ctx context.Context, status catalog.LyricsStatus, req catalog.PageRequest) (catalog.Page[catalog.Track], error) {
	return r.pagedWhere(ctx, req, "WHERE lyrics_status = ?", "created_at", textArg(string(status)))
}

// trackColumnNames mirrors trackColumns as a slice so a FTS join's SELECT
// can qualify each column with the tracks table alias.
var trackColumnNames = []string{
	"id", "provider_id", "provider_file_id", "hash", "title", "normalized_title",
	"album_id", "artist_id", "album_artist_id", "track_number", "disc_number", "genre", "year",
	"duration_ms", "bitrate", "sample_rate", "channels", "format", "file_size", "mime_type",
	"artwork_id", "lyrics_status", "provider_modified_at", "created_at", "updated_at",
}

func trackColumnsPrefixed(alias string) string {
	out := make([]string, len(trackColumnNames))
	for i, c := range trackColumnNames {
		out[i] = alias + "." + c
	}

	return strings.Join(out, ", ")
}

var _ catalog.TrackRepository = (*TrackRepo)(nil)
