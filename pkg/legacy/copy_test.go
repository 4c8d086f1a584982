package legacy

import (
	"os"
	"testing"

	"github.com/guzu92/neo4j/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T, fs afero.Fs) *Store {
	t.Helper()
	s, err := New(zaptest.NewLogger(t), fs, testBase)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCopyRelationshipStore(t *testing.T) {
	fs := newLegacyFs(t)
	s := newTestStore(t, fs)

	require.NoError(t, s.CopyRelationshipStore("/target/neostore"))

	source, err := afero.ReadFile(fs, "/db/neostore.relationshipstore.db")
	require.NoError(t, err)
	target, err := afero.ReadFile(fs, "/target/neostore.relationshipstore.db")
	require.NoError(t, err)

	trailer := store.Encode("RelationshipStore v0.A.5")
	require.Len(t, target, len(source))
	assert.Equal(t, source[:len(source)-len(trailer)], target[:len(target)-len(trailer)])
	assert.Equal(t, trailer, target[len(target)-len(trailer):])
	assert.Equal(t, "RelationshipStore v0.A.0", string(source[len(source)-len(trailer):]), "source untouched")

	sourceID, err := afero.ReadFile(fs, "/db/neostore.relationshipstore.db.id")
	require.NoError(t, err)
	targetID, err := afero.ReadFile(fs, "/target/neostore.relationshipstore.db.id")
	require.NoError(t, err)
	assert.Equal(t, sourceID, targetID)

	require.NoError(t, Verify(fs, testBase, "/target/neostore", store.KindRelationshipStore, store.CurrentVersion))
}

func TestCopyStore_TwoDescriptors(t *testing.T) {
	fs := newLegacyFs(t)
	s := newTestStore(t, fs)

	require.NoError(t, s.CopyStore("/a/neostore", store.NodeStoreName, "NodeStore v1.X.1"))
	require.NoError(t, s.CopyStore("/b/neostore", store.NodeStoreName, "NodeStore v2.Y.2"))

	a, err := afero.ReadFile(fs, "/a/neostore.nodestore.db")
	require.NoError(t, err)
	b, err := afero.ReadFile(fs, "/b/neostore.nodestore.db")
	require.NoError(t, err)

	n := len("NodeStore v1.X.1")
	require.Len(t, a, len(b))
	assert.Equal(t, a[:len(a)-n], b[:len(b)-n])
	assert.Equal(t, "NodeStore v1.X.1", string(a[len(a)-n:]))
	assert.Equal(t, "NodeStore v2.Y.2", string(b[len(b)-n:]))
}

func TestCopyOperations(t *testing.T) {
	var table = []struct {
		name    string
		copy    func(s *Store, target string) error
		file    string
		trailer string
	}{
		{"neostore", (*Store).CopyNeoStore, "/t/neostore", "NeoStore v0.A.5"},
		{"relationship", (*Store).CopyRelationshipStore, "/t/neostore.relationshipstore.db", "RelationshipStore v0.A.5"},
		{"relationship type token", (*Store).CopyRelationshipTypeTokenStore, "/t/neostore.relationshiptypestore.db", "RelationshipTypeStore v0.A.5"},
		{"relationship type token names", (*Store).CopyRelationshipTypeTokenNameStore, "/t/neostore.relationshiptypestore.db.names", "StringPropertyStore v0.A.5"},
		{"dynamic string property", (*Store).CopyDynamicStringPropertyStore, "/t/neostore.propertystore.db.strings", "StringPropertyStore v0.A.5"},
		{"dynamic array property", (*Store).CopyDynamicArrayPropertyStore, "/t/neostore.propertystore.db.arrays", "ArrayPropertyStore v0.A.5"},
	}
	for _, tt := range table {
		t.Run(tt.name, func(t *testing.T) {
			fs := newLegacyFs(t)
			s := newTestStore(t, fs)

			require.NoError(t, tt.copy(s, "/t/neostore"))

			trailer, err := ReadTrailer(fs, tt.file, len(tt.trailer))
			require.NoError(t, err)
			assert.Equal(t, tt.trailer, trailer)

			exists, err := afero.Exists(fs, tt.file+store.IDFileSuffix)
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestCopy_UnknownKind(t *testing.T) {
	s := newTestStore(t, newLegacyFs(t))
	err := s.Copy(store.Kind("labels"), "/t/neostore")
	assert.True(t, errors.Is(err, store.ErrUnknownKind))
}

func TestCopy_OverwritesExistingTarget(t *testing.T) {
	fs := newLegacyFs(t)
	s := newTestStore(t, fs)
	require.NoError(t, afero.WriteFile(fs, "/t/neostore.relationshipstore.db", make([]byte, 4096), 0644))

	require.NoError(t, s.CopyRelationshipStore("/t/neostore"))
	require.NoError(t, Verify(fs, testBase, "/t/neostore", store.KindRelationshipStore, store.CurrentVersion))
}

func TestCopyStore_MissingIDFile(t *testing.T) {
	fs := newLegacyFs(t)
	s := newTestStore(t, fs)
	require.NoError(t, fs.Remove("/db/neostore.relationshipstore.db.id"))

	err := s.CopyRelationshipStore("/t/neostore")
	require.Error(t, err)
	assert.True(t, IsUnrecoverable(err))

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "/db/neostore.relationshipstore.db.id", ioErr.Path)

	// no rollback: the restamped data file stays behind
	trailer, err := ReadTrailer(fs, "/t/neostore.relationshipstore.db", len("RelationshipStore v0.A.5"))
	require.NoError(t, err)
	assert.Equal(t, "RelationshipStore v0.A.5", trailer)
}

func TestCopyStore_TargetIsSource(t *testing.T) {
	fs := newLegacyFs(t)
	s := newTestStore(t, fs)
	before, err := afero.ReadFile(fs, "/db/neostore.relationshipstore.db")
	require.NoError(t, err)

	for _, target := range []string{testBase, "/db/./neostore", "/db/../db/neostore"} {
		err := s.CopyRelationshipStore(target)
		require.Error(t, err, target)
		assert.True(t, IsUnrecoverable(err))
		assert.True(t, errors.Is(err, ErrTargetIsSource))
	}

	after, err := afero.ReadFile(fs, "/db/neostore.relationshipstore.db")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCopyStore_TrailerLongerThanFile(t *testing.T) {
	fs := newLegacyFs(t)
	s := newTestStore(t, fs)
	writeStoreFile(t, fs, testBase, ".tiny.db", []byte("abc"), nil)

	err := s.CopyStore("/t/neostore", ".tiny.db", "TinyStore v0.A.5")
	require.Error(t, err)
	assert.True(t, IsUnrecoverable(err))
	assert.True(t, errors.Is(err, ErrTrailerTooLong))
}

func TestVerify_DetectsMismatch(t *testing.T) {
	fs := newLegacyFs(t)
	s := newTestStore(t, fs)
	require.NoError(t, s.CopyDynamicStringPropertyStore("/t/neostore"))

	// wrong version
	err := Verify(fs, testBase, "/t/neostore", store.KindDynamicStringProperty, "v0.A.6")
	assert.True(t, errors.Is(err, ErrVerifyMismatch))

	// tampered content
	f, err := fs.OpenFile("/t/neostore.propertystore.db.strings", os.O_RDWR, 0)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte("X"), 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	err = Verify(fs, testBase, "/t/neostore", store.KindDynamicStringProperty, store.CurrentVersion)
	assert.True(t, errors.Is(err, ErrVerifyMismatch))

	// not copied at all
	err = Verify(fs, testBase, "/t/neostore", store.KindDynamicArrayProperty, store.CurrentVersion)
	assert.True(t, IsUnrecoverable(err))
}

func TestVerify_IDFileDiffers(t *testing.T) {
	fs := newLegacyFs(t)
	s := newTestStore(t, fs)
	require.NoError(t, s.CopyNeoStore("/t/neostore"))
	require.NoError(t, afero.WriteFile(fs, "/t/neostore.id", []byte("changed"), 0644))

	err := Verify(fs, testBase, "/t/neostore", store.KindNeoStore, store.CurrentVersion)
	assert.True(t, errors.Is(err, ErrVerifyMismatch))
}
