package sqlrepo

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tonimelisma/musiccore/internal/capability"
)

// toSQLArgs converts capability.Value arguments into plain driver values.
func toSQLArgs(args []capability.Value) []any {
	out := make([]any, len(args))

	for i, a := range args {
		switch a.Kind {
		case capability.ValueNull:
			out[i] = nil
		case capability.ValueBool:
			out[i] = a.Bool
		case capability.ValueInteger:
			out[i] = a.Int
		case capability.ValueReal:
			out[i] = a.Real
		case capability.ValueText:
			out[i] = a.Text
		case capability.ValueBlob:
			out[i] = a.Blob
		default:
			out[i] = nil
		}
	}

	return out
}

// scanRows materializes *sql.Rows into capability.Row values using the
// column types SQLite reports, so callers get back Integer/Real/Text/Blob
// tagged values regardless of the Go driver's native scan type.
func scanRows(rows *sql.Rows) ([]capability.Row, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: column types: %w", err)
	}

	var out []capability.Row

	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))

		for i := range raw {
			ptrs[i] = &raw[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlrepo: scan row: %w", err)
		}

		row := make(capability.Row, len(cols))
		for i, v := range raw {
			row[i] = toValue(v)
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlrepo: iterate rows: %w", err)
	}

	return out, nil
}

func toValue(v any) capability.Value {
	switch t := v.(type) {
	case nil:
		return capability.Value{Kind: capability.ValueNull}
	case int64:
		return capability.Value{Kind: capability.ValueInteger, Int: t}
	case float64:
		return capability.Value{Kind: capability.ValueReal, Real: t}
	case string:
		return capability.Value{Kind: capability.ValueText, Text: t}
	case []byte:
		return capability.Value{Kind: capability.ValueBlob, Blob: t}
	case bool:
		return capability.Value{Kind: capability.ValueBool, Bool: t}
	default:
		return capability.Value{Kind: capability.ValueText, Text: fmt.Sprintf("%v", t)}
	}
}

// Helpers the repository files use to build capability.Value args and to
// read them back out of a capability.Row.

func textArg(s string) capability.Value   { return capability.Value{Kind: capability.ValueText, Text: s} }
func intArg(i int64) capability.Value     { return capability.Value{Kind: capability.ValueInteger, Int: i} }
func realArg(f float64) capability.Value  { return capability.Value{Kind: capability.ValueReal, Real: f} }
func blobArg(b []byte) capability.Value   { return capability.Value{Kind: capability.ValueBlob, Blob: b} }
func boolArg(b bool) capability.Value {
	if b {
		return intArg(1)
	}

	return intArg(0)
}

func nullArg() capability.Value { return capability.Value{Kind: capability.ValueNull} }

func nullableTextArg(s string) capability.Value {
	if s == "" {
		return nullArg()
	}

	return textArg(s)
}

func nullableIntArg(i *int) capability.Value {
	if i == nil {
		return nullArg()
	}

	return intArg(int64(*i))
}

func nullableInt64Arg(i *int64) capability.Value {
	if i == nil {
		return nullArg()
	}

	return intArg(*i)
}

func timeArg(t time.Time) capability.Value { return intArg(t.UnixMilli()) }

func nullableTimeArg(t *time.Time) capability.Value {
	if t == nil {
		return nullArg()
	}

	return intArg(t.UnixMilli())
}

func rowText(r capability.Row, i int) string {
	if r[i].Kind == capability.ValueNull {
		return ""
	}

	return r[i].Text
}

func rowInt(r capability.Row, i int) int64 {
	return r[i].Int
}

func rowIntPtr(r capability.Row, i int) *int {
	if r[i].Kind == capability.ValueNull {
		return nil
	}

	v := int(r[i].Int)

	return &v
}

func rowInt64Ptr(r capability.Row, i int) *int64 {
	if r[i].Kind == capability.ValueNull {
		return nil
	}

	v := r[i].Int

	return &v
}

func rowBool(r capability.Row, i int) bool {
	return r[i].Int != 0
}

func rowBlob(r capability.Row, i int) []byte {
	return r[i].Blob
}

func rowTime(r capability.Row, i int) time.Time {
	return time.UnixMilli(r[i].Int).UTC()
}

func rowTimePtr(r capability.Row, i int) *time.Time {
	if r[i].Kind == capability.ValueNull {
		return nil
	}

	v := time.UnixMilli(r[i].Int).UTC()

	return &v
}

// nowMillis is used only where a repository method needs a timestamp that
// isn't supplied by the caller (e.g. playlist membership's added_at).
// Callers that own the timestamp (CreatedAt/UpdatedAt) set it explicitly
// before calling Insert/Update instead.
func nowMillis() int64 { return time.Now().UnixMilli() }
