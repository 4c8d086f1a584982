package legacy

import (
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/spf13/afero"
)

// PropertyIndexRecordSize is the size of a property key token record.
const PropertyIndexRecordSize = 9

// PropertyIndexRecord is a property key token. KeyBlockID points into the
// dynamic key name store.
type PropertyIndexRecord struct {
	ID         int64
	InUse      bool
	PropCount  int32
	KeyBlockID int32
}

// PropertyIndexStoreReader reads property key tokens from a legacy property index store.
type PropertyIndexStoreReader struct {
	*recordReader
}

func NewPropertyIndexStoreReader(fs afero.Fs, path string) (*PropertyIndexStoreReader, error) {
	r, err := openRecordReader(fs, path, store.PropertyIndexStoreTypeDescriptor, PropertyIndexRecordSize)
	if err != nil {
		return nil, err
	}
	return &PropertyIndexStoreReader{recordReader: r}, nil
}

func (r *PropertyIndexStoreReader) Record(id int64) (PropertyIndexRecord, error) {
	buf, err := r.read(id)
	if err != nil {
		return PropertyIndexRecord{}, err
	}
	return decodePropertyIndex(id, buf), nil
}

func (r *PropertyIndexStoreReader) Walk(fn func(PropertyIndexRecord) error) error {
	return walk(r.recordReader, decodePropertyIndex, fn)
}

func decodePropertyIndex(id int64, buf *Buffer) PropertyIndexRecord {
	return PropertyIndexRecord{
		ID:         id,
		InUse:      buf.Byte() == 1,
		PropCount:  buf.Int(),
		KeyBlockID: buf.Int(),
	}
}
