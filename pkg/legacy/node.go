package legacy

import (
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/spf13/afero"
)

// NodeRecordSize is the size of a node record in the legacy layout: an in-use
// byte carrying the high id bits, then the first relationship and first
// property ids.
const NodeRecordSize = 9

type NodeRecord struct {
	ID       int64
	InUse    bool
	NextRel  int64
	NextProp int64
}

// NodeStoreReader reads node records from a legacy node store.
type NodeStoreReader struct {
	*recordReader
}

func NewNodeStoreReader(fs afero.Fs, path string) (*NodeStoreReader, error) {
	r, err := openRecordReader(fs, path, store.NodeStoreTypeDescriptor, NodeRecordSize)
	if err != nil {
		return nil, err
	}
	return &NodeStoreReader{recordReader: r}, nil
}

// Record reads the node with the given id.
func (r *NodeStoreReader) Record(id int64) (NodeRecord, error) {
	buf, err := r.read(id)
	if err != nil {
		return NodeRecord{}, err
	}
	return decodeNode(id, buf), nil
}

// Walk streams every node record, in use or not, in id order.
func (r *NodeStoreReader) Walk(fn func(NodeRecord) error) error {
	return walk(r.recordReader, decodeNode, fn)
}

func decodeNode(id int64, buf *Buffer) NodeRecord {
	header := int64(buf.Byte())
	nextRel := GetUnsignedInt(buf)
	nextProp := GetUnsignedInt(buf)
	return NodeRecord{
		ID:       id,
		InUse:    header&0x1 == 1,
		NextRel:  LongFromIntAndMod(nextRel, (header&0xE)<<31),
		NextProp: LongFromIntAndMod(nextProp, (header&0xF0)<<28),
	}
}
