// Package sqlrepo is the native capability.DatabaseAdapter implementation,
// backed by modernc.org/sqlite, plus the concrete catalog repositories
// built on top of it. Grounded on the teacher's internal/sync.SQLiteStore
// (internal/sync/state.go): WAL mode, foreign keys on, a bounded journal
// size, and a single *sql.DB shared across prepared access.
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, registers as "sqlite"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
)

const walJournalSizeLimit = 67108864 // 64 MiB, matches the teacher's bound

// Adapter is the native capability.DatabaseAdapter, opened on a single
// *sql.DB. SQLite's PRAGMA user_version (separate from goose's own version
// table) backs GetSchemaVersion/SetSchemaVersion for host introspection.
type Adapter struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens path (use ":memory:" for tests), applies pragmas, and runs
// catalog migrations. The returned Adapter owns db and must be Closed.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Adapter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: open sqlite: %w", err)
	}

	if err := setPragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := catalog.RunMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &Adapter{db: db, logger: logger}, nil
}

func setPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA journal_size_limit = %d", walJournalSizeLimit),
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("sqlrepo: set pragma %q: %w", p, err)
		}
	}

	return nil
}

// DB exposes the underlying handle to repository implementations within
// this package; callers outside sqlrepo use the capability.DatabaseAdapter
// surface only.
func (a *Adapter) DB() *sql.DB { return a.db }

func (a *Adapter) Close() error { return a.db.Close() }

func (a *Adapter) Query(ctx context.Context, query string, args ...capability.Value) ([]capability.Row, error) {
	rows, err := a.db.QueryContext(ctx, query, toSQLArgs(args)...)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (a *Adapter) QueryOne(ctx context.Context, query string, args ...capability.Value) (capability.Row, error) {
	row, ok, err := a.QueryOneOptional(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("sqlrepo: query one: %w", sql.ErrNoRows)
	}

	return row, nil
}

func (a *Adapter) QueryOneOptional(ctx context.Context, query string, args ...capability.Value) (capability.Row, bool, error) {
	rows, err := a.db.QueryContext(ctx, query, toSQLArgs(args)...)
	if err != nil {
		return nil, false, fmt.Errorf("sqlrepo: query one: %w", err)
	}
	defer rows.Close()

	all, err := scanRows(rows)
	if err != nil {
		return nil, false, err
	}

	if len(all) == 0 {
		return nil, false, nil
	}

	return all[0], true, nil
}

func (a *Adapter) Execute(ctx context.Context, query string, args ...capability.Value) (int64, error) {
	res, err := a.db.ExecContext(ctx, query, toSQLArgs(args)...)
	if err != nil {
		return 0, fmt.Errorf("sqlrepo: execute: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlrepo: rows affected: %w", err)
	}

	return n, nil
}

func (a *Adapter) ExecuteBatch(ctx context.Context, sqls []string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlrepo: begin batch: %w", err)
	}

	for _, s := range sqls {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlrepo: exec batch statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlrepo: commit batch: %w", err)
	}

	return nil
}

func (a *Adapter) BeginTransaction(ctx context.Context) (capability.Tx, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: begin transaction: %w", err)
	}

	return &sqlTx{tx: tx}, nil
}

func (a *Adapter) ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context, tx capability.Tx) error) error {
	tx, err := a.BeginTransaction(ctx)
	if err != nil {
		return err
	}

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

func (a *Adapter) LastInsertRowID(ctx context.Context) (int64, error) {
	row, err := a.QueryOne(ctx, "SELECT last_insert_rowid()")
	if err != nil {
		return 0, err
	}

	return row[0].Int, nil
}

func (a *Adapter) GetSchemaVersion(ctx context.Context) (int, error) {
	row, ok, err := a.QueryOneOptional(ctx, "PRAGMA user_version")
	if err != nil {
		return 0, fmt.Errorf("sqlrepo: get schema version: %w", err)
	}

	if !ok {
		return 0, nil
	}

	return int(row[0].Int), nil
}

func (a *Adapter) SetSchemaVersion(ctx context.Context, version int) error {
	_, err := a.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version))
	if err != nil {
		return fmt.Errorf("sqlrepo: set schema version: %w", err)
	}

	return nil
}

func (a *Adapter) GetStatistics(ctx context.Context) (capability.Statistics, error) {
	version, err := a.GetSchemaVersion(ctx)
	if err != nil {
		return capability.Statistics{}, err
	}

	pageCount, err := a.scalarInt(ctx, "PRAGMA page_count")
	if err != nil {
		return capability.Statistics{}, err
	}

	pageSize, err := a.scalarInt(ctx, "PRAGMA page_size")
	if err != nil {
		return capability.Statistics{}, err
	}

	return capability.Statistics{
		OpenConnections: a.db.Stats().OpenConnections,
		SchemaVersion:   version,
		PageCount:       pageCount,
		PageSizeBytes:   pageSize,
	}, nil
}

func (a *Adapter) scalarInt(ctx context.Context, query string) (int64, error) {
	row, ok, err := a.QueryOneOptional(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("sqlrepo: scalar %q: %w", query, err)
	}

	if !ok {
		return 0, nil
	}

	return row[0].Int, nil
}

var _ capability.DatabaseAdapter = (*Adapter)(nil)

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Query(ctx context.Context, query string, args ...capability.Value) ([]capability.Row, error) {
	rows, err := t.tx.QueryContext(ctx, query, toSQLArgs(args)...)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: tx query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (t *sqlTx) QueryOne(ctx context.Context, query string, args ...capability.Value) (capability.Row, error) {
	row, ok, err := t.QueryOneOptional(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("sqlrepo: tx query one: %w", sql.ErrNoRows)
	}

	return row, nil
}

func (t *sqlTx) QueryOneOptional(ctx context.Context, query string, args ...capability.Value) (capability.Row, bool, error) {
	rows, err := t.tx.QueryContext(ctx, query, toSQLArgs(args)...)
	if err != nil {
		return nil, false, fmt.Errorf("sqlrepo: tx query one: %w", err)
	}
	defer rows.Close()

	all, err := scanRows(rows)
	if err != nil {
		return nil, false, err
	}

	if len(all) == 0 {
		return nil, false, nil
	}

	return all[0], true, nil
}

func (t *sqlTx) Execute(ctx context.Context, query string, args ...capability.Value) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, toSQLArgs(args)...)
	if err != nil {
		return 0, fmt.Errorf("sqlrepo: tx execute: %w", err)
	}

	return res.RowsAffected()
}

func (t *sqlTx) ExecuteBatch(ctx context.Context, sqls []string) error {
	for _, s := range sqls {
		if _, err := t.tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlrepo: tx exec batch statement: %w", err)
		}
	}

	return nil
}

func (t *sqlTx) LastInsertRowID(ctx context.Context) (int64, error) {
	row, ok, err := t.QueryOneOptional(ctx, "SELECT last_insert_rowid()")
	if err != nil || !ok {
		return 0, err
	}

	return row[0].Int, nil
}

func (t *sqlTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("sqlrepo: commit: %w", err)
	}

	return nil
}

func (t *sqlTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("sqlrepo: rollback: %w", err)
	}

	return nil
}

var _ capability.Tx = (*sqlTx)(nil)
