// Package legacytest lays out small legacy databases for tests.
package legacytest

import (
	"encoding/binary"
	"testing"

	"github.com/guzu92/neo4j/pkg/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// Base is the neo store file name of the database written by NewFs.
const Base = "/db/neostore"

func BE32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func BE64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Record concatenates the encoded fields of a record.
func Record(parts ...[]byte) []byte {
	var ret []byte
	for _, p := range parts {
		ret = append(ret, p...)
	}
	return ret
}

// Trailer is the legacy version trailer of a store with the given type descriptor.
func Trailer(typeDescriptor string) []byte {
	return store.Encode(store.TypeDescriptorAndVersion(typeDescriptor, store.LegacyVersion))
}

// WriteStoreFile writes a store data file and its id file.
func WriteStoreFile(t testing.TB, fs afero.Fs, base, suffix string, data, id []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, store.FileName(base, suffix), data, 0644))
	require.NoError(t, afero.WriteFile(fs, store.IDFileName(base, suffix), id, 0644))
}

// NewFs returns an in-memory file system holding a legacy database at Base:
// two records in each store read by the legacy readers and some filler
// content in every store that is copied.
func NewFs(t testing.TB) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	WriteDatabase(t, fs, Base)
	return fs
}

// WriteDatabase writes the database described at NewFs to base.
func WriteDatabase(t testing.TB, fs afero.Fs, base string) {
	t.Helper()

	nodes := Record(
		[]byte{0x01}, BE32(7), BE32(0xFFFFFFFF),
		[]byte{0x00}, BE32(0xFFFFFFFF), BE32(0xFFFFFFFF),
		Trailer(store.NodeStoreTypeDescriptor),
	)
	WriteStoreFile(t, fs, base, store.NodeStoreName, nodes, BE64(2))

	index := Record(
		[]byte{0x01}, BE32(3), BE32(11),
		[]byte{0x00}, BE32(0), BE32(0),
		Trailer(store.PropertyIndexStoreTypeDescriptor),
	)
	WriteStoreFile(t, fs, base, store.PropertyKeyTokenStoreName, index, BE64(2))

	block := uint64(2)<<24 | 5
	props := Record(
		[]byte{0x00}, BE32(0xFFFFFFFF), BE32(1), BE64(block), BE64(42), BE64(0), BE64(0),
		[]byte{0x00}, BE32(0), BE32(0xFFFFFFFF), BE64(0), BE64(0), BE64(0), BE64(0),
		Trailer(store.PropertyStoreTypeDescriptor),
	)
	WriteStoreFile(t, fs, base, store.PropertyStoreName, props, BE64(2))

	rels := Record(
		[]byte{0x01}, BE32(1), BE32(2), BE32(4), BE32(0xFFFFFFFF), BE32(1), BE32(0xFFFFFFFF), BE32(0xFFFFFFFF), BE32(9),
		[]byte{0x01}, BE32(2), BE32(1), BE32(4), BE32(0), BE32(0xFFFFFFFF), BE32(0xFFFFFFFF), BE32(0xFFFFFFFF), BE32(0xFFFFFFFF),
		Trailer(store.RelationshipStoreTypeDescriptor),
	)
	WriteStoreFile(t, fs, base, store.RelationshipStoreName, rels, BE64(2))

	for _, kind := range store.Kinds() {
		if kind == store.KindRelationshipStore {
			continue
		}
		layout, err := store.LayoutOf(kind)
		require.NoError(t, err)
		data := Record([]byte("payload of "+string(kind)), Trailer(layout.TypeDescriptor))
		WriteStoreFile(t, fs, base, layout.Suffix, data, BE64(uint64(len(kind))))
	}
}
