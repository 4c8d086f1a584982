package report

import (
	"context"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func newTestBlobStorage(t *testing.T, prefix string) *BlobStorage {
	t.Helper()
	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { bucket.Close() })
	return NewBlobStorageFromBucket(bucket, prefix)
}

func newTestFilesystemStorage(t *testing.T) *FilesystemStorage {
	t.Helper()
	storage, err := NewFilesystemStorage(afero.NewMemMapFs(), "/var/lib/storemigration")
	require.NoError(t, err)
	return storage
}

func TestStorages(t *testing.T) {
	for name, newStorage := range map[string]func(t *testing.T) Storage{
		"filesystem":  func(t *testing.T) Storage { return newTestFilesystemStorage(t) },
		"blob":        func(t *testing.T) Storage { return newTestBlobStorage(t, "") },
		"blob prefix": func(t *testing.T) Storage { return newTestBlobStorage(t, "reports") },
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			storage := newStorage(t)

			require.NoError(t, storage.Write(ctx, "prefix-a", []byte("a")))
			require.NoError(t, storage.Write(ctx, "prefix-c", []byte("c")))
			require.NoError(t, storage.Write(ctx, "prefix-b", []byte("b")))
			require.NoError(t, storage.Write(ctx, "other", []byte("other")))
			require.NoError(t, storage.Write(ctx, "prefix-a", []byte("updated")))

			data, err := storage.Read(ctx, "prefix-a")
			require.NoError(t, err)
			assert.Equal(t, []byte("updated"), data)

			keys, err := storage.List(ctx, "prefix-")
			require.NoError(t, err)
			assert.Equal(t, []string{"prefix-c", "prefix-b", "prefix-a"}, keys)

			require.NoError(t, storage.Delete(ctx, "prefix-a"))
			require.NoError(t, storage.Delete(ctx, "prefix-a"), "delete is idempotent")

			_, err = storage.Read(ctx, "prefix-a")
			require.Error(t, err)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestStorages_InvalidKey(t *testing.T) {
	ctx := context.Background()
	for name, storage := range map[string]Storage{
		"filesystem": newTestFilesystemStorage(t),
		"blob":       newTestBlobStorage(t, "reports"),
	} {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape.json", "nested/report.json", `c:\report.json`} {
				assert.True(t, errors.Is(storage.Write(ctx, key, []byte("{}")), ErrInvalidKey), key)
				_, err := storage.Read(ctx, key)
				assert.True(t, errors.Is(err, ErrInvalidKey), key)
				assert.True(t, errors.Is(storage.Delete(ctx, key), ErrInvalidKey), key)
			}
		})
	}
}

func TestFilesystemStorage_ListSkipsUnfinishedWrites(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	storage, err := NewFilesystemStorage(fs, "/reports")
	require.NoError(t, err)

	require.NoError(t, storage.Write(ctx, "prefix-a", []byte("a")))
	require.NoError(t, afero.WriteFile(fs, "/reports/.tmp-prefix-b123", []byte("half"), 0600))
	require.NoError(t, fs.MkdirAll("/reports/prefix-dir", 0700))

	keys, err := storage.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"prefix-a"}, keys)
}

func TestBlobStorage_ListSkipsNestedObjects(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "reports/")
	require.NoError(t, storage.Write(ctx, "prefix-a", []byte("a")))
	require.NoError(t, storage.bucket.WriteAll(ctx, "reports/archive/prefix-b", []byte("b"), nil))

	keys, err := storage.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"prefix-a"}, keys)
}

func TestFilesystemStorage_Close(t *testing.T) {
	storage := newTestFilesystemStorage(t)
	require.NoError(t, storage.Close())
}
