package sqlrepo

import (
	"context"
	"fmt"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// FolderRepo implements catalog.FolderRepository over a
// capability.DatabaseAdapter.
type FolderRepo struct {
	db capability.DatabaseAdapter
}

func NewFolderRepo(db capability.DatabaseAdapter) *FolderRepo { return &FolderRepo{db: db} }

const folderColumns = `id, provider_id, provider_folder_id, parent_id, name, path, created_at`

func scanFolder(r capability.Row) (*catalog.Folder, error) {
	id, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan folder id: %w", err)
	}

	providerID, err := rowID(r, 1)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan folder provider_id: %w", err)
	}

	parentID, err := rowIDPtr(r, 3)
	if err != nil {
		return nil, err
	}

	return &catalog.Folder{
		ID:               id,
		ProviderID:       providerID,
		ProviderFolderID: rowText(r, 2),
		ParentID:         parentID,
		Name:             rowText(r, 4),
		Path:             rowText(r, 5),
		CreatedAt:        rowTime(r, 6),
	}, nil
}

func (r *FolderRepo) FindByID(ctx context.Context, id catalog.ID) (*catalog.Folder, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+folderColumns+` FROM folders WHERE id = ?`, idArg(id))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find folder by id", err)
	}

	if !ok {
		return nil, coreerr.NotFound("Folder", id.String())
	}

	return scanFolder(row)
}

func (r *FolderRepo) FindByProviderFolderID(ctx context.Context, providerID catalog.ID, providerFolderID string) (*catalog.Folder, error) {
	row, ok, err := r.db.QueryOneOptional(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE provider_id = ? AND provider_folder_id = ?`,
		idArg(providerID), textArg(providerFolderID))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find folder by provider folder id", err)
	}

	if !ok {
		return nil, nil
	}

	return scanFolder(row)
}

func (r *FolderRepo) Insert(ctx context.Context, f *catalog.Folder) error {
	if f.ID.IsZero() {
		f.ID = catalog.NewID()
	}

	if err := f.Validate(); err != nil {
		return err
	}

	_, err := r.db.Execute(ctx, `INSERT INTO folders (`+folderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		idArg(f.ID), idArg(f.ProviderID), textArg(f.ProviderFolderID), nullableIDArg(f.ParentID),
		textArg(f.Name), textArg(f.Path), timeArg(f.CreatedAt))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert folder", err)
	}

	return nil
}

func (r *FolderRepo) Delete(ctx context.Context, id catalog.ID) error {
	n, err := r.db.Execute(ctx, `DELETE FROM folders WHERE id = ?`, idArg(id))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "delete folder", err)
	}

	if n == 0 {
		return coreerr.NotFound("Folder", id.String())
	}

	return nil
}

func (r *FolderRepo) Children(ctx context.Context, parentID *catalog.ID, providerID catalog.ID) ([]catalog.Folder, error) {
	var (
		rows []capability.Row
		err  error
	)

	if parentID != nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+folderColumns+` FROM folders WHERE provider_id = ? AND parent_id = ? ORDER BY name`,
			idArg(providerID), idArg(*parentID))
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+folderColumns+` FROM folders WHERE provider_id = ? AND parent_id IS NULL ORDER BY name`,
			idArg(providerID))
	}

	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find folder children", err)
	}

	out := make([]catalog.Folder, 0, len(rows))

	for _, row := range rows {
		f, err := scanFolder(row)
		if err != nil {
			return nil, err
		}

		out = append(out, *f)
	}

	return out, nil
}

var _ catalog.FolderRepository = (*FolderRepo)(nil)
