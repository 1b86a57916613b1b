package testutil

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// FakeFileSystem implements capability.FileSystemAccess over an
// in-memory map, for tests that exercise internal/cacheengine without a
// real disk.
type FakeFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewFakeFileSystem() *FakeFileSystem {
	return &FakeFileSystem{files: make(map[string][]byte)}
}

func (f *FakeFileSystem) CreateDir(ctx context.Context, path string) error { return nil }

func (f *FakeFileSystem) Remove(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.files, path)

	return nil
}

func (f *FakeFileSystem) List(ctx context.Context, dir string) ([]capability.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var infos []capability.FileInfo

	prefix := strings.TrimSuffix(dir, "/") + "/"

	for path, data := range f.files {
		if strings.HasPrefix(path, prefix) {
			infos = append(infos, capability.FileInfo{Path: path, Size: int64(len(data))})
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })

	return infos, nil
}

func (f *FakeFileSystem) Stat(ctx context.Context, path string) (capability.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.files[path]
	if !ok {
		return capability.FileInfo{}, coreerr.NotFound("file", path)
	}

	return capability.FileInfo{Path: path, Size: int64(len(data)), ModTime: time.Now()}, nil
}

func (f *FakeFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.files[path]
	if !ok {
		return nil, coreerr.NotFound("file", path)
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

func (f *FakeFileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	f.files[path] = cp

	return nil
}

func (f *FakeFileSystem) OpenReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	data, err := f.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *FakeFileSystem) OpenWriteStream(ctx context.Context, path string) (io.WriteCloser, error) {
	return &fakeWriteCloser{fs: f, path: path}, nil
}

type fakeWriteCloser struct {
	fs   *FakeFileSystem
	path string
	buf  bytes.Buffer
}

func (w *fakeWriteCloser) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *fakeWriteCloser) Close() error {
	return w.fs.WriteFile(context.Background(), w.path, w.buf.Bytes())
}

var _ capability.FileSystemAccess = (*FakeFileSystem)(nil)
