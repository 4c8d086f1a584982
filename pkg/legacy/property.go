package legacy

import (
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/spf13/afero"
)

const (
	// PropertyRecordSize is a header byte, the previous and next record ids
	// and PropertyBlocksPerRecord value blocks.
	PropertyRecordSize      = 1 + 4 + 4 + 8*PropertyBlocksPerRecord
	PropertyBlocksPerRecord = 4
)

// PropertyRecord holds the raw value blocks of a property record. A block
// header carries the key index in its low 24 bits and the value type above.
// Longer values continue into the following blocks.
type PropertyRecord struct {
	ID       int64
	PrevProp int64
	NextProp int64
	Blocks   [PropertyBlocksPerRecord]int64
}

// InUse reports whether the first block holds a property.
func (p PropertyRecord) InUse() bool {
	return PropertyBlockType(p.Blocks[0]) != 0
}

// PropertyBlockType extracts the value type from a block header. Zero marks an empty block.
func PropertyBlockType(header int64) int {
	return int((header & 0xF000000) >> 24)
}

// PropertyBlockKey extracts the property key token id from a block header.
func PropertyBlockKey(header int64) int {
	return int(header & 0xFFFFFF)
}

// PropertyStoreReader reads property records from a legacy property store.
type PropertyStoreReader struct {
	*recordReader
}

func NewPropertyStoreReader(fs afero.Fs, path string) (*PropertyStoreReader, error) {
	r, err := openRecordReader(fs, path, store.PropertyStoreTypeDescriptor, PropertyRecordSize)
	if err != nil {
		return nil, err
	}
	return &PropertyStoreReader{recordReader: r}, nil
}

func (r *PropertyStoreReader) Record(id int64) (PropertyRecord, error) {
	buf, err := r.read(id)
	if err != nil {
		return PropertyRecord{}, err
	}
	return decodeProperty(id, buf), nil
}

func (r *PropertyStoreReader) Walk(fn func(PropertyRecord) error) error {
	return walk(r.recordReader, decodeProperty, fn)
}

func decodeProperty(id int64, buf *Buffer) PropertyRecord {
	header := int64(buf.Byte())
	prevProp := GetUnsignedInt(buf)
	nextProp := GetUnsignedInt(buf)
	rec := PropertyRecord{
		ID:       id,
		PrevProp: LongFromIntAndMod(prevProp, (header&0xF0)<<28),
		NextProp: LongFromIntAndMod(nextProp, (header&0x0F)<<32),
	}
	for i := range rec.Blocks {
		rec.Blocks[i] = buf.Long()
	}
	return rec
}
