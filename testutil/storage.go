package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// FakeStorageProvider implements capability.StorageProvider over a fixed
// in-memory file set a test populates directly, for exercising
// internal/sync and internal/cacheengine without a real cloud backend.
type FakeStorageProvider struct {
	mu      sync.Mutex
	Files   map[string]capability.RemoteFile // keyed by FileID
	Content map[string][]byte                // keyed by FileID
	Cursor  capability.ChangeCursor
	Changes []capability.RemoteFile // queued for the next GetChanges call
}

func NewFakeStorageProvider() *FakeStorageProvider {
	return &FakeStorageProvider{
		Files:   make(map[string]capability.RemoteFile),
		Content: make(map[string][]byte),
	}
}

// AddFile registers f and its content for ListMedia/Download to serve.
func (p *FakeStorageProvider) AddFile(f capability.RemoteFile, content []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Files[f.FileID] = f
	p.Content[f.FileID] = content
}

func (p *FakeStorageProvider) ListMedia(ctx context.Context, cursor capability.ChangeCursor) ([]capability.RemoteFile, capability.ChangeCursor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	files := make([]capability.RemoteFile, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, f)
	}

	return files, p.Cursor, nil
}

func (p *FakeStorageProvider) GetChanges(ctx context.Context, cursor capability.ChangeCursor) ([]capability.RemoteFile, capability.ChangeCursor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	changes := p.Changes
	p.Changes = nil

	return changes, p.Cursor, nil
}

func (p *FakeStorageProvider) Download(ctx context.Context, fileID string, rangeStart, rangeEnd int64) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, ok := p.Content[fileID]
	if !ok {
		return nil, coreerr.NotFound("remote file", fileID)
	}

	if rangeEnd <= 0 || rangeEnd > int64(len(data)) {
		rangeEnd = int64(len(data))
	}

	return data[rangeStart:rangeEnd], nil
}

func (p *FakeStorageProvider) DownloadStream(ctx context.Context, fileID string) (io.ReadCloser, error) {
	data, err := p.Download(ctx, fileID, 0, 0)
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (p *FakeStorageProvider) GetFileMetadata(ctx context.Context, fileID string) (capability.RemoteFile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.Files[fileID]
	if !ok {
		return capability.RemoteFile{}, coreerr.NotFound("remote file", fileID)
	}

	return f, nil
}

var _ capability.StorageProvider = (*FakeStorageProvider)(nil)
