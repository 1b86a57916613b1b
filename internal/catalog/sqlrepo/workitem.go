package sqlrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
	"github.com/tonimelisma/musiccore/internal/coreerr"
	"github.com/tonimelisma/musiccore/internal/retry"
)

// WorkItemRepo implements catalog.WorkItemRepository over a
// capability.DatabaseAdapter — the durable scan queue (spec §4.3.3).
type WorkItemRepo struct {
	db capability.DatabaseAdapter
}

func NewWorkItemRepo(db capability.DatabaseAdapter) *WorkItemRepo { return &WorkItemRepo{db: db} }

const workItemColumns = `id, job_id, remote_file_ref, priority, status, attempts, next_visible_at, last_error`

func scanWorkItem(r capability.Row) (*catalog.WorkItem, error) {
	id, err := rowID(r, 0)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan work item id: %w", err)
	}

	jobID, err := rowID(r, 1)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: scan work item job_id: %w", err)
	}

	return &catalog.WorkItem{
		ID:            id,
		JobID:         jobID,
		RemoteFileRef: rowText(r, 2),
		Priority:      catalog.WorkItemPriority(rowText(r, 3)),
		Status:        catalog.WorkItemStatus(rowText(r, 4)),
		Attempts:      int(rowInt(r, 5)),
		NextVisibleAt: rowTime(r, 6),
		LastError:     rowText(r, 7),
	}, nil
}

func (r *WorkItemRepo) Insert(ctx context.Context, w *catalog.WorkItem) error {
	if w.ID.IsZero() {
		w.ID = catalog.NewID()
	}

	if w.Priority == "" {
		w.Priority = catalog.PriorityNormal
	}

	if w.Status == "" {
		w.Status = catalog.WorkQueued
	}

	_, err := r.db.Execute(ctx, `INSERT INTO scan_queue (`+workItemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		idArg(w.ID), idArg(w.JobID), textArg(w.RemoteFileRef), textArg(string(w.Priority)),
		textArg(string(w.Status)), intArg(int64(w.Attempts)), timeArg(w.NextVisibleAt), textArg(w.LastError))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "insert work item", err)
	}

	return nil
}

// priorityRank orders scan_queue claims High, Normal, Low.
const priorityRankCase = `CASE priority WHEN 'High' THEN 0 WHEN 'Normal' THEN 1 ELSE 2 END`

// Claim atomically selects up to n queued-and-visible items for jobID,
// marks them Claimed, and bumps NextVisibleAt by visibilityTimeout
// (milliseconds) so a crashed worker's claim eventually expires and the
// item becomes re-claimable.
func (r *WorkItemRepo) Claim(ctx context.Context, jobID catalog.ID, n int, visibilityTimeout int64) ([]catalog.WorkItem, error) {
	var claimed []catalog.WorkItem

	err := r.db.ExecuteInTransaction(ctx, func(ctx context.Context, tx capability.Tx) error {
		now := nowMillis()

		rows, err := tx.Query(ctx,
			`SELECT `+workItemColumns+` FROM scan_queue
			 WHERE job_id = ? AND status IN ('Queued', 'Claimed') AND next_visible_at <= ?
			 ORDER BY `+priorityRankCase+`, next_visible_at LIMIT ?`,
			idArg(jobID), intArg(now), intArg(int64(n)))
		if err != nil {
			return coreerr.New(coreerr.KindDatabase, "select claimable work items", err)
		}

		newVisibleAt := now + visibilityTimeout

		for _, row := range rows {
			item, err := scanWorkItem(row)
			if err != nil {
				return err
			}

			if _, err := tx.Execute(ctx,
				`UPDATE scan_queue SET status = 'Claimed', attempts = attempts + 1, next_visible_at = ?
				 WHERE id = ?`, intArg(newVisibleAt), idArg(item.ID)); err != nil {
				return coreerr.New(coreerr.KindDatabase, "claim work item", err)
			}

			item.Status = catalog.WorkClaimed
			item.Attempts++
			claimed = append(claimed, *item)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return claimed, nil
}

func (r *WorkItemRepo) Complete(ctx context.Context, id catalog.ID) error {
	n, err := r.db.Execute(ctx, `UPDATE scan_queue SET status = 'Done' WHERE id = ?`, idArg(id))
	if err != nil {
		return coreerr.New(coreerr.KindDatabase, "complete work item", err)
	}

	if n == 0 {
		return coreerr.NotFound("WorkItem", id.String())
	}

	return nil
}

// retryPolicyFromBudget adapts a catalog.RetryBudget's delay bounds into
// an internal/retry.Policy, filling unset bounds from retry.DefaultPolicy
// so a zero-value RetryBudget still backs off sanely.
func retryPolicyFromBudget(budget catalog.RetryBudget) retry.Policy {
	base := time.Duration(budget.BaseDelayMs) * time.Millisecond
	maxDelay := time.Duration(budget.MaxDelayMs) * time.Millisecond

	if base <= 0 {
		base = retry.DefaultPolicy.BaseDelay
	}

	if maxDelay <= 0 {
		maxDelay = retry.DefaultPolicy.MaxDelay
	}

	return retry.Policy{BaseDelay: base, MaxDelay: maxDelay, Exponential: true}
}

// Fail records a failed attempt against id (spec §4.3.3, §8). Claim has
// already bumped attempts for this pass, so once attempts exceeds
// budget.MaxAttempts the item moves to Failed terminally; otherwise it
// is requeued with an exponential backoff delay (base·2^(attempts-1), capped
// at MaxDelayMs) so repeated failures spread out rather than hammering
// the provider on every poll.
func (r *WorkItemRepo) Fail(ctx context.Context, id catalog.ID, errMsg string, budget catalog.RetryBudget) error {
	return r.db.ExecuteInTransaction(ctx, func(ctx context.Context, tx capability.Tx) error {
		row, ok, err := tx.QueryOneOptional(ctx, `SELECT attempts FROM scan_queue WHERE id = ?`, idArg(id))
		if err != nil {
			return coreerr.New(coreerr.KindDatabase, "read work item for fail", err)
		}

		if !ok {
			return coreerr.NotFound("WorkItem", id.String())
		}

		attempts := int(rowInt(row, 0))

		if budget.MaxAttempts > 0 && attempts > budget.MaxAttempts {
			if _, err := tx.Execute(ctx,
				`UPDATE scan_queue SET status = 'Failed', last_error = ? WHERE id = ?`,
				textArg(errMsg), idArg(id)); err != nil {
				return coreerr.New(coreerr.KindDatabase, "fail work item", err)
			}

			return nil
		}

		backoffAttempt := attempts - 1
		if backoffAttempt < 0 {
			backoffAttempt = 0
		}

		delay := retry.BackoffDuration(retryPolicyFromBudget(budget), backoffAttempt)

		if _, err := tx.Execute(ctx,
			`UPDATE scan_queue SET status = 'Queued', last_error = ?, next_visible_at = ? WHERE id = ?`,
			textArg(errMsg), intArg(nowMillis()+delay.Milliseconds()), idArg(id)); err != nil {
			return coreerr.New(coreerr.KindDatabase, "fail work item", err)
		}

		return nil
	})
}

func (r *WorkItemRepo) CountByStatus(ctx context.Context, jobID catalog.ID) (map[catalog.WorkItemStatus]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM scan_queue WHERE job_id = ? GROUP BY status`, idArg(jobID))
	if err != nil {
		return nil, coreerr.New(coreerr.KindDatabase, "count work items by status", err)
	}

	out := make(map[catalog.WorkItemStatus]int, len(rows))

	for _, row := range rows {
		out[catalog.WorkItemStatus(rowText(row, 0))] = int(rowInt(row, 1))
	}

	return out, nil
}

var _ catalog.WorkItemRepository = (*WorkItemRepo)(nil)
