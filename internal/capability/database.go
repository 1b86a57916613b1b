package capability

import "context"

// ValueKind tags which field of Value is populated.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueInteger
	ValueReal
	ValueText
	ValueBlob
)

// Value is the sum type DatabaseAdapter transacts in, matching spec §4.1's
// {Null,Bool,Integer,Real,Text,Blob}. Exactly one field beyond Kind is
// meaningful.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  int64
	Real float64
	Text string
	Blob []byte
}

// Row is one result row, column-ordered to match the query's SELECT list.
type Row []Value

// Tx is an open database transaction. Nested transactions are not
// supported — a DatabaseAdapter assumes a single active transaction per
// handle (spec §4.2).
type Tx interface {
	Query(ctx context.Context, sql string, args ...Value) ([]Row, error)
	QueryOne(ctx context.Context, sql string, args ...Value) (Row, error)
	QueryOneOptional(ctx context.Context, sql string, args ...Value) (Row, bool, error)
	Execute(ctx context.Context, sql string, args ...Value) (rowsAffected int64, err error)
	ExecuteBatch(ctx context.Context, sqls []string) error
	LastInsertRowID(ctx context.Context) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Statistics reports adapter-level counters surfaced by get_statistics.
type Statistics struct {
	OpenConnections int
	SchemaVersion   int
	PageCount       int64
	PageSizeBytes   int64
}

// DatabaseAdapter is the narrow abstraction the catalog repositories run
// over so the same repository logic works against native SQLite and a
// browser-hosted SQL engine (spec §4.1, §4.2). internal/catalog/sqlrepo
// is the native implementation backed by modernc.org/sqlite.
//
// Error kinds: DatabaseError, NotFound, InvalidInput.
type DatabaseAdapter interface {
	Query(ctx context.Context, sql string, args ...Value) ([]Row, error)
	QueryOne(ctx context.Context, sql string, args ...Value) (Row, error)
	QueryOneOptional(ctx context.Context, sql string, args ...Value) (Row, bool, error)
	Execute(ctx context.Context, sql string, args ...Value) (rowsAffected int64, err error)
	ExecuteBatch(ctx context.Context, sqls []string) error
	BeginTransaction(ctx context.Context) (Tx, error)
	ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	LastInsertRowID(ctx context.Context) (int64, error)
	GetSchemaVersion(ctx context.Context) (int, error)
	SetSchemaVersion(ctx context.Context, version int) error
	GetStatistics(ctx context.Context) (Statistics, error)
}
