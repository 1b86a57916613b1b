package capability

import (
	"context"
	"io"
	"time"
)

// ProviderKind enumerates the cloud backends a StorageProvider may front.
// Matches the Provider.kind column (spec §3).
type ProviderKind int

const (
	ProviderUnknown ProviderKind = iota
	ProviderGoogleDrive
	ProviderOneDrive
	ProviderDropbox
	ProviderICloud
)

func (k ProviderKind) String() string {
	switch k {
	case ProviderGoogleDrive:
		return "GoogleDrive"
	case ProviderOneDrive:
		return "OneDrive"
	case ProviderDropbox:
		return "Dropbox"
	case ProviderICloud:
		return "iCloud"
	default:
		return "Unknown"
	}
}

// RemoteFile describes one remote file as returned by list_media/get_changes.
// This is the shape internal/sync's coordinator pushes into the scan queue
// as WorkItems (spec §4.3.2 step 1); the wire format a given provider uses
// to produce it is out of scope (spec §6).
type RemoteFile struct {
	FileID          string
	Name            string
	MimeType        string
	Size            int64
	ContentHash     string // empty if the provider doesn't expose one
	ModifiedAt      time.Time
	Removed         bool // true for a tombstoned change event
	ParentFolderID  string
}

// ChangeCursor is the opaque provider-returned marker used to request
// only changes since the marker (spec Glossary: "Cursor").
type ChangeCursor string

// StorageProvider is the host's cloud backend adapter. The core never
// speaks a provider's wire protocol directly — list_media/get_changes/
// download are the entire surface the sync orchestrator and cache engine
// consume (spec §4.1, §4.3.2).
//
// Error kinds: NotAvailable, AuthenticationFailed, RateLimited, HttpError,
// Io, Timeout.
type StorageProvider interface {
	ListMedia(ctx context.Context, cursor ChangeCursor) (files []RemoteFile, nextCursor ChangeCursor, err error)
	GetChanges(ctx context.Context, cursor ChangeCursor) (changes []RemoteFile, newCursor ChangeCursor, err error)
	Download(ctx context.Context, fileID string, rangeStart, rangeEnd int64) ([]byte, error)
	DownloadStream(ctx context.Context, fileID string) (io.ReadCloser, error)
	GetFileMetadata(ctx context.Context, fileID string) (RemoteFile, error)
}
