package capability

import "context"

// SettingsValue is the sum type SettingsStore transacts in. Exactly one
// field is meaningful per value; Kind says which.
type SettingsValueKind int

const (
	SettingsString SettingsValueKind = iota
	SettingsBool
	SettingsInt64
	SettingsFloat64
)

type SettingsValue struct {
	Kind SettingsValueKind
	Str  string
	Bool bool
	Int  int64
	Flt  float64
}

// SettingsTx is an open transaction against a SettingsStore.
type SettingsTx interface {
	Set(ctx context.Context, key string, value SettingsValue) error
	Get(ctx context.Context, key string) (SettingsValue, bool, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SettingsStore is typed key/value storage for host preferences the core
// reads (e.g. "require_wifi"). Reading a key with a mismatched type tag
// returns an InvalidInput error rather than coercing.
//
// Error kinds: NotAvailable, InvalidInput, Io.
type SettingsStore interface {
	Get(ctx context.Context, key string) (SettingsValue, bool, error)
	Set(ctx context.Context, key string, value SettingsValue) error
	Begin(ctx context.Context) (SettingsTx, error)
}
