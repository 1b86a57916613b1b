package sqlrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// TrackAliasRepo implements catalog.TrackAliasRepository over a
// capability.DatabaseAdapter.
type TrackAliasRepo struct {
	db capability.DatabaseAdapter
}

func NewTrackAliasRepo(db capability.DatabaseAdapter) *TrackAliasRepo { return &TrackAliasRepo{db: db} }

const trackAliasColumns = `canonical_track_id, provider_id, provider_file_id, created_at`

func scanTrackAlias(r capability.Row) (*catalog.TrackAlias, error) {
	canonicalID, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan track alias canonical_track_id: %w", err)
	}

	providerID, err := rowID(r, 1)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan track alias provider_id: %w", err)
	}

	return &catalog.TrackAlias{
		CanonicalTrackID: canonicalID,
		ProviderID:       providerID,
		ProviderFileID:   rowText(r, 2),
		CreatedAt:        rowTime(r, 3),
	}, nil
}

func (r *TrackAliasRepo) Insert(ctx context.Context, a *catalog.TrackAlias) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Execute(ctx,
		`INSERT INTO track_aliases (`+trackAliasColumns+`) VALUES (?, ?, ?, ?)
		 ON CONFLICT (provider_id, provider_file_id) DO UPDATE SET
			canonical_track_id = excluded.canonical_track_id`,
		idArg(a.CanonicalTrackID), idArg(a.ProviderID), textArg(a.ProviderFileID), timeArg(a.CreatedAt))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert track alias", err)
	}

	return nil
}

func (r *TrackAliasRepo) FindByProviderFileID(ctx context.Context, providerID catalog.ID, providerFileID string) (*catalog.TrackAlias, error) {
	row, ok, err := r.db.QueryOneOptional(ctx,
		`SELECT `+trackAliasColumns+` FROM track_aliases WHERE provider_id = ? AND provider_file_id = ?`,
		idArg(providerID), textArg(providerFileID))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find track alias by provider file", err)
	}

	if !ok {
		return nil, coreerr.NotFound("TrackAlias", providerFileID)
	}

	return scanTrackAlias(row)
}

func (r *TrackAliasRepo) FindByCanonicalTrackID(ctx context.Context, canonicalTrackID catalog.ID) ([]catalog.TrackAlias, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+trackAliasColumns+` FROM track_aliases WHERE canonical_track_id = ? ORDER BY created_at`,
		idArg(canonicalTrackID))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find track aliases by canonical track", err)
	}

	out := make([]catalog.TrackAlias, 0, len(rows))

	for _, row := range rows {
		a, err := scanTrackAlias(row)
		if err != nil {
			return nil, err
		}

		out = append(out, *a)
	}

	return out, nil
}

var _ catalog.TrackAliasRepository = (*TrackAliasRepo)(nil)
