package legacy

import (
	"io"

	"github.com/guzu92/neo4j/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrRecordOutOfRange is returned for ids at or beyond a reader's MaxID.
var ErrRecordOutOfRange = errors.New("record id out of range")

// recordReader reads fixed size records from a legacy store file. The
// trailer at the end of the file is never read as a record.
type recordReader struct {
	path       string
	file       afero.File
	recordSize int
	size       int64
	trailer    int
	buf        *Buffer
}

type namedSection struct {
	*io.SectionReader
	name string
}

func (s namedSection) Name() string {
	return s.name
}

func openRecordReader(fs afero.Fs, path, typeDescriptor string, recordSize int) (*recordReader, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, ioError("open", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, ioError("stat", path, err)
	}
	return &recordReader{
		path:       path,
		file:       file,
		recordSize: recordSize,
		size:       info.Size(),
		trailer:    len(store.Encode(store.TypeDescriptorAndVersion(typeDescriptor, store.LegacyVersion))),
		buf:        NewBuffer(recordSize),
	}, nil
}

// Path is the store file the reader was opened on.
func (r *recordReader) Path() string {
	return r.path
}

// MaxID is the number of records in the store, in use or not.
func (r *recordReader) MaxID() int64 {
	data := r.size - int64(r.trailer)
	if data <= 0 {
		return 0
	}
	return data / int64(r.recordSize)
}

// Trailer reads the version descriptor at the end of the store file.
func (r *recordReader) Trailer() (string, error) {
	if r.size < int64(r.trailer) {
		return "", ioError("read trailer", r.path, ErrTrailerTooLong)
	}
	buf := NewBuffer(r.trailer)
	if err := ReadIntoBuffer(r.section(r.size-int64(r.trailer), r.trailer), buf, r.trailer); err != nil {
		return "", err
	}
	return string(buf.Bytes()), nil
}

// read loads record id into the reader's buffer.
func (r *recordReader) read(id int64) (*Buffer, error) {
	if id < 0 || id >= r.MaxID() {
		return nil, errors.Wrapf(ErrRecordOutOfRange, "%s: %d of %d", r.path, id, r.MaxID())
	}
	if err := ReadIntoBuffer(r.section(id*int64(r.recordSize), r.recordSize), r.buf, r.recordSize); err != nil {
		return nil, err
	}
	return r.buf, nil
}

func (r *recordReader) section(off int64, n int) namedSection {
	return namedSection{SectionReader: io.NewSectionReader(r.file, off, int64(n)), name: r.path}
}

func (r *recordReader) Close() error {
	return r.file.Close()
}

// walk calls fn for every record id from 0 up to MaxID, stopping at the first error.
func walk[T any](r *recordReader, decode func(id int64, buf *Buffer) T, fn func(T) error) error {
	for id := int64(0); id < r.MaxID(); id++ {
		buf, err := r.read(id)
		if err != nil {
			return err
		}
		if err := fn(decode(id, buf)); err != nil {
			return err
		}
	}
	return nil
}
