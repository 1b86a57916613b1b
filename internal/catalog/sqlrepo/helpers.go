package sqlrepo

import (
	"context"
	"fmt"

	"github.com/tonimelisma/musiccore/internal/capability"
)

// countRows returns the row count of table, optionally filtered by a
// caller-supplied WHERE clause fragment (including the leading "WHERE").
func countRows(ctx context.Context, db capability.DatabaseAdapter, table, whereClause string, args ...capability.Value) (int, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table, whereClause)

	row, err := db.QueryOne(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlrepo: count %s: %w", table, err)
	}

	return int(rowInt(row, 0)), nil
}
