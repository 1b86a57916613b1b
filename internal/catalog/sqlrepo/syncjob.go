package sqlrepo

import (
	"context"
	"fmt"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// SyncJobRepo implements catalog.SyncJobRepository over a
// capability.DatabaseAdapter.
type SyncJobRepo struct {
	db capability.DatabaseAdapter
}

func NewSyncJobRepo(db capability.DatabaseAdapter) *SyncJobRepo { return &SyncJobRepo{db: db} }

const syncJobColumns = `id, provider_kind, sync_type, status, progress_current, progress_total,
	progress_message, stats_added, stats_updated, stats_deleted, stats_failed, cursor,
	started_at, finished_at, error`

func scanSyncJob(r capability.Row) (*catalog.SyncJob, error) {
	id, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan sync job id: %w", err)
	}

	return &catalog.SyncJob{
		ID:           id,
		ProviderKind: rowText(r, 1),
		SyncType:     catalog.SyncType(rowText(r, 2)),
		Status:       catalog.JobStatus(rowText(r, 3)),
		Progress: catalog.JobProgress{
			Current: int(rowInt(r, 4)),
			Total:   int(rowInt(r, 5)),
			Message: rowText(r, 6),
		},
		Stats: catalog.JobStats{
			Added:   int(rowInt(r, 7)),
			Updated: int(rowInt(r, 8)),
			Deleted: int(rowInt(r, 9)),
			Failed:  int(rowInt(r, 10)),
		},
		Cursor:     rowText(r, 11),
		StartedAt:  rowTimePtr(r, 12),
		FinishedAt: rowTimePtr(r, 13),
		Error:      rowText(r, 14),
	}, nil
}

func syncJobArgs(j *catalog.SyncJob) []capability.Value {
	return []capability.Value{
		idArg(j.ID), textArg(j.ProviderKind), textArg(string(j.SyncType)), textArg(string(j.Status)),
		intArg(int64(j.Progress.Current)), intArg(int64(j.Progress.Total)), textArg(j.Progress.Message),
		intArg(int64(j.Stats.Added)), intArg(int64(j.Stats.Updated)), intArg(int64(j.Stats.Deleted)),
		intArg(int64(j.Stats.Failed)), textArg(j.Cursor), nullableTimeArg(j.StartedAt),
		nullableTimeArg(j.FinishedAt), textArg(j.Error),
	}
}

func (r *SyncJobRepo) FindByID(ctx context.Context, id catalog.ID) (*catalog.SyncJob, error) {
	row, ok, err := r.db.QueryOneOptional(ctx, `SELECT `+syncJobColumns+` FROM sync_jobs WHERE id = ?`, idArg(id))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find sync job", err)
	}

	if !ok {
		return nil, coreerr.JobNotFound(id.String())
	}

	return scanSyncJob(row)
}

func (r *SyncJobRepo) Insert(ctx context.Context, j *catalog.SyncJob) error {
	if j.ID.IsZero() {
		j.ID = catalog.NewID()
	}

	_, err := r.db.Execute(ctx, `INSERT INTO sync_jobs (`+syncJobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, syncJobArgs(j)...)
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert sync job", err)
	}

	return nil
}

func (r *SyncJobRepo) Update(ctx context.Context, j *catalog.SyncJob) error {
	args := append(syncJobArgs(j)[1:], idArg(j.ID))

	n, err := r.db.Execute(ctx, `UPDATE sync_jobs SET
		provider_kind = ?, sync_type = ?, status = ?, progress_current = ?, progress_total = ?,
		progress_message = ?, stats_added = ?, stats_updated = ?, stats_deleted = ?, stats_failed = ?,
		cursor = ?, started_at = ?, finished_at = ?, error = ? WHERE id = ?`, args...)
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "update sync job", err)
	}

	if n == 0 {
		return coreerr.JobNotFound(j.ID.String())
	}

	return nil
}

// FindActive returns the non-terminal job for providerKind, if any — used
// to enforce "one active job per provider" (spec §4.3.1, SyncInProgress).
func (r *SyncJobRepo) FindActive(ctx context.Context, providerKind string) (*catalog.SyncJob, error) {
	row, ok, err := r.db.QueryOneOptional(ctx,
		`SELECT `+syncJobColumns+` FROM sync_jobs
		 WHERE provider_kind = ? AND status IN ('Pending', 'Running')
		 ORDER BY started_at DESC LIMIT 1`,
		textArg(providerKind))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "find active sync job", err)
	}

	if !ok {
		return nil, nil
	}

	return scanSyncJob(row)
}

func (r *SyncJobRepo) Query(ctx context.Context, req catalog.PageRequest) (catalog.Page[catalog.SyncJob], error) {
	total, err := countRows(ctx, r.db, "sync_jobs", "")
	if err != nil {
		return catalog.Page[catalog.SyncJob]{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+syncJobColumns+` FROM sync_jobs ORDER BY started_at DESC LIMIT ? OFFSET ?`,
		intArg(int64(req.Limit())), intArg(int64(req.Offset())))
	if err != nil {
		return catalog.Page[catalog.SyncJob]{}, coreerr.New(coreerr.KindDatabase, "query sync jobs", err)
	}

	items := make([]catalog.SyncJob, 0, len(rows))

	for _, row := range rows {
		j, err := scanSyncJob(row)
		if err != nil {
			return catalog.Page[catalog.SyncJob]{}, err
		}

		items = append(items, *j)
	}

	return catalog.NewPage(items, req, total), nil
}

var _ catalog.SyncJobRepository = (*SyncJobRepo)(nil)
