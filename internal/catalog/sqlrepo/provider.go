package sqlrepo

import (
	"context"
	"fmt"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// ProviderRepo implements catalog.ProviderRepository over a
// capability.DatabaseAdapter.
type ProviderRepo struct {
	db capability.DatabaseAdapter
}

func NewProviderRepo(db capability.DatabaseAdapter) *ProviderRepo { return &ProviderRepo{db: db} }

const providerColumns = `id, kind, display_name, profile_id, created_at`

func scanProvider(r capability.Row) (*catalog.Provider, error) {
	id, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan provider id: %w", err)
	}

	return &catalog.Provider{
		ID:          id,
		Kind:        rowText(r, 1),
		DisplayName: rowText(r, 2),
		ProfileID:   rowText(r, 3),
		CreatedAt:   rowTime(r, 4),
	}, nil
}

func (r *ProviderRepo) FindByID(ctx context.Context, id catalog.ID) (*catalog.Provider, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+providerColumns+` FROM providers WHERE id = ?`, idArg(id))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find provider by id", err)
	}

	if !ok {
		return nil, coreerr.NotFound("Provider", id.String())
	}

	return scanProvider(row)
}

func (r *ProviderRepo) FindByKindAndProfile(ctx context.Context, kind, profileID string) (*catalog.Provider, error) {
	row, ok, err := r.db.QueryOneOptional(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE kind = ? AND profile_id = ?`,
		textArg(kind), textArg(profileID))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find provider by kind/profile", err)
	}

	if !ok {
		return nil, coreerr.NotFound("Provider", kind+"/"+profileID)
	}

	return scanProvider(row)
}

func (r *ProviderRepo) Insert(ctx context.Context, p *catalog.Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.ID.IsZero() {
		p.ID = catalog.NewID()
	}

	_, err := r.db.Execute(ctx,
		`INSERT INTO providers (`+providerColumns+`) VALUES (?, ?, ?, ?, ?)`,
		idArg(p.ID), textArg(p.Kind), textArg(p.DisplayName), textArg(p.ProfileID), timeArg(p.CreatedAt))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert provider", err)
	}

	return nil
}

func (r *ProviderRepo) Update(ctx context.Context, p *catalog.Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}

	n, err := r.db.Execute(ctx,
		`UPDATE providers SET kind = ?, display_name = ?, profile_id = ? WHERE id = ?`,
		textArg(p.Kind), textArg(p.DisplayName), textArg(p.ProfileID), idArg(p.ID))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "update provider", err)
	}

	if n == 0 {
		return coreerr.NotFound("Provider", p.ID.String())
	}

	return nil
}

func (r *ProviderRepo) Delete(ctx context.Context, id catalog.ID) error {
	n, err := r.db.Execute(ctx, `DELETE FROM providers WHERE id = ?`, idArg(id))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "delete provider", err)
	}

	if n == 0 {
		return coreerr.NotFound("Provider", id.String())
	}

	return nil
}

func (r *ProviderRepo) Query(ctx context.Context, req catalog.PageRequest) (catalog.Page[catalog.Provider], error) {
	total, err := countRows(ctx, r.db, "providers", "")
	if err != nil {
		return catalog.Page[catalog.Provider]{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+providerColumns+` FROM providers ORDER BY created_at LIMIT ? OFFSET ?`,
		intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.Provider]{}, coreerr.New(coreerr.KindDatabase, "query providers", err)
	}

	items := make([]catalog.Provider, 0, len(rows))

	for _, row := range rows {
		p, err := scanProvider(row)
		if err != nil {
			return catalog.Page[catalog.Provider]{}, err
		}

		items = append(items, *p)
	}

	return catalog.NewPage(items, req, total), nil
}

var _ catalog.ProviderRepository = (*ProviderRepo)(nil)
