package legacy

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrBufferUnderflow is the panic value of a read past the readable region of a Buffer.
	ErrBufferUnderflow = errors.New("read past the readable region of the buffer")
	// ErrNegativeLength is returned when a negative number of bytes is requested.
	ErrNegativeLength = errors.New("negative read length")
)

// Buffer is a reusable byte buffer with a read cursor. Only the bytes
// between the cursor and the limit are readable. Values are big-endian,
// as the store files are written.
type Buffer struct {
	b     []byte
	pos   int
	limit int
}

// NewBuffer allocates a buffer able to hold size bytes without growing.
func NewBuffer(size int) *Buffer {
	return &Buffer{b: make([]byte, size)}
}

// Remaining is the number of readable bytes left.
func (b *Buffer) Remaining() int {
	return b.limit - b.pos
}

// Position is the offset of the read cursor.
func (b *Buffer) Position() int {
	return b.pos
}

// Bytes returns the readable region without moving the cursor.
func (b *Buffer) Bytes() []byte {
	return b.b[b.pos:b.limit]
}

// Byte reads one byte. Reading past the readable region panics with
// ErrBufferUnderflow.
func (b *Buffer) Byte() byte {
	return b.next(1)[0]
}

// Int reads a signed 32 bit value.
func (b *Buffer) Int() int32 {
	return int32(binary.BigEndian.Uint32(b.next(4)))
}

// Long reads a signed 64 bit value.
func (b *Buffer) Long() int64 {
	return int64(binary.BigEndian.Uint64(b.next(8)))
}

// next advances the cursor by n bytes within the readable region.
func (b *Buffer) next(n int) []byte {
	if b.Remaining() < n {
		panic(ErrBufferUnderflow)
	}
	v := b.b[b.pos : b.pos+n]
	b.pos += n
	return v
}

func (b *Buffer) reset(n int) {
	if cap(b.b) < n {
		b.b = make([]byte, n)
	}
	b.b = b.b[:cap(b.b)]
	b.pos = 0
	b.limit = n
}

// ReadIntoBuffer fills buf with exactly n bytes read from r. On return the
// readable region of buf starts at offset 0 and is n bytes long. A short
// read is an error; nothing is retried.
func ReadIntoBuffer(r io.Reader, buf *Buffer, n int) error {
	if n < 0 {
		buf.reset(0)
		return ioError("read", name(r), errors.Wrapf(ErrNegativeLength, "%d bytes", n))
	}
	buf.reset(n)
	if _, err := io.ReadFull(r, buf.b[:n]); err != nil {
		buf.limit = 0
		return ioError("read", name(r), err)
	}
	return nil
}

// GetUnsignedInt reads a 32 bit value and returns its bit pattern as an
// unsigned number. Legacy stores keep unsigned ids in signed int slots.
func GetUnsignedInt(buf *Buffer) int64 {
	return int64(uint32(buf.Int()))
}

// LongFromIntAndMod combines the lower 32 bits of an id with the high bits
// kept in the record header. An all-ones base without high bits is the
// "no record" marker and maps to -1.
func LongFromIntAndMod(base, modifier int64) int64 {
	if modifier == 0 && base == noRecordInt {
		return -1
	}
	return base | modifier
}

const noRecordInt = 0xFFFFFFFF

func name(v any) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
