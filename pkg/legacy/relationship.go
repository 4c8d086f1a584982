package legacy

import (
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/spf13/afero"
)

// RelationshipRecordSize is an in-use byte followed by eight ints. The high
// bits of the ids are spread over the in-use byte and the type int.
const RelationshipRecordSize = 33

type RelationshipRecord struct {
	ID            int64
	InUse         bool
	FirstNode     int64
	SecondNode    int64
	Type          int
	FirstPrevRel  int64
	FirstNextRel  int64
	SecondPrevRel int64
	SecondNextRel int64
	NextProp      int64
}

// RelationshipStoreReader reads relationship records from a legacy relationship store.
type RelationshipStoreReader struct {
	*recordReader
}

func NewRelationshipStoreReader(fs afero.Fs, path string) (*RelationshipStoreReader, error) {
	r, err := openRecordReader(fs, path, store.RelationshipStoreTypeDescriptor, RelationshipRecordSize)
	if err != nil {
		return nil, err
	}
	return &RelationshipStoreReader{recordReader: r}, nil
}

func (r *RelationshipStoreReader) Record(id int64) (RelationshipRecord, error) {
	buf, err := r.read(id)
	if err != nil {
		return RelationshipRecord{}, err
	}
	return decodeRelationship(id, buf), nil
}

func (r *RelationshipStoreReader) Walk(fn func(RelationshipRecord) error) error {
	return walk(r.recordReader, decodeRelationship, fn)
}

func decodeRelationship(id int64, buf *Buffer) RelationshipRecord {
	header := int64(buf.Byte())
	firstNode := GetUnsignedInt(buf)
	secondNode := GetUnsignedInt(buf)
	typeInt := GetUnsignedInt(buf)
	firstPrevRel := GetUnsignedInt(buf)
	firstNextRel := GetUnsignedInt(buf)
	secondPrevRel := GetUnsignedInt(buf)
	secondNextRel := GetUnsignedInt(buf)
	nextProp := GetUnsignedInt(buf)
	return RelationshipRecord{
		ID:            id,
		InUse:         header&0x1 == 1,
		FirstNode:     firstNode | (header&0xE)<<31,
		SecondNode:    secondNode | (typeInt&0x70000000)<<4,
		Type:          int(typeInt & 0xFFFF),
		FirstPrevRel:  LongFromIntAndMod(firstPrevRel, (typeInt&0xE000000)<<7),
		FirstNextRel:  LongFromIntAndMod(firstNextRel, (typeInt&0x1C00000)<<10),
		SecondPrevRel: LongFromIntAndMod(secondPrevRel, (typeInt&0x380000)<<13),
		SecondNextRel: LongFromIntAndMod(secondNextRel, (typeInt&0x70000)<<16),
		NextProp:      LongFromIntAndMod(nextProp, (header&0xF0)<<28),
	}
}
