package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// FilesystemStorage keeps one file per report in a directory. Reports are
// written to a temporary file first and renamed into place, so a reader
// never sees half a report.
type FilesystemStorage struct {
	fs  afero.Fs
	dir string
	mu  sync.RWMutex
}

func NewFilesystemStorage(fs afero.Fs, dir string) (*FilesystemStorage, error) {
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FilesystemStorage{fs: fs, dir: dir}, nil
}

func (f *FilesystemStorage) Write(_ context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := afero.TempFile(f.fs, f.dir, ".tmp-"+key)
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmp.Name())
		return err
	}
	return f.fs.Rename(tmp.Name(), filepath.Join(f.dir, key))
}

func (f *FilesystemStorage) Read(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	return afero.ReadFile(f.fs, filepath.Join(f.dir, key))
}

// List skips subdirectories and temporary files of unfinished writes.
func (f *FilesystemStorage) List(_ context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".tmp-") || !strings.HasPrefix(name, prefix) {
			continue
		}
		keys = append(keys, name)
	}
	return newestFirst(keys), nil
}

func (f *FilesystemStorage) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fs.Remove(filepath.Join(f.dir, key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FilesystemStorage) Close() error {
	return nil
}
