package capability

import "context"

// SecureStore is the host's platform secret store (Keychain, Credential
// Manager, libsecret, or a browser's CryptoKey-wrapped IndexedDB entry).
// Values are opaque byte sequences; the adapter encodes them to whatever
// native secret type the platform uses.
//
// Error kinds: NotAvailable, SecureStorageUnavailable, Io.
type SecureStore interface {
	SetSecret(ctx context.Context, key string, value []byte) error
	GetSecret(ctx context.Context, key string) ([]byte, error)
	DeleteSecret(ctx context.Context, key string) error
	HasSecret(ctx context.Context, key string) (bool, error)

	// ListKeys and ClearAll are optional: an implementation that can't
	// support them returns a NotAvailable error rather than a fake result.
	ListKeys(ctx context.Context) ([]string, error)
	ClearAll(ctx context.Context) error
}
