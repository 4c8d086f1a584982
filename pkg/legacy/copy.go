package legacy

import (
	"io"
	"os"
	"path/filepath"

	"github.com/guzu92/neo4j/pkg/metrics"
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// CopyStore copies the data file <source><suffix> to <targetBase><suffix>,
// overwrites the last len(descriptor) bytes of the copy with descriptor and
// then copies the paired id file unchanged.
//
// Errors are IOErrors. A failed copy is not cleaned up; the target must be
// discarded by the caller.
func (s *Store) CopyStore(targetBase, suffix, descriptor string) error {
	target := store.FileName(targetBase, suffix)
	if filepath.Clean(targetBase) == filepath.Clean(s.storageFileName) {
		return ioError("copy", target, ErrTargetIsSource)
	}
	if _, err := copyFile(s.fs, s.fileName(suffix), target); err != nil {
		return err
	}
	if err := setStoreVersionTrailer(s.fs, target, descriptor); err != nil {
		return err
	}
	_, err := copyFile(s.fs, store.IDFileName(s.storageFileName, suffix), store.IDFileName(targetBase, suffix))
	return err
}

// Copy copies the store of the given kind to targetBase, stamped with the
// current version.
func (s *Store) Copy(kind store.Kind, targetBase string) error {
	layout, err := store.LayoutOf(kind)
	if err != nil {
		return err
	}
	descriptor := layout.Descriptor(s.currentVersion)
	l := s.l.With(
		zap.String("kind", string(kind)),
		zap.String("target", store.FileName(targetBase, layout.Suffix)),
	)

	err = s.CopyStore(targetBase, layout.Suffix, descriptor)
	metrics.StoreCopyCounter.WithLabelValues(string(kind), metrics.Status(err)).Inc()
	if err != nil {
		l.Error("failed to copy store", zap.Error(err))
		return err
	}
	if info, errStat := s.fs.Stat(store.FileName(targetBase, layout.Suffix)); errStat == nil {
		metrics.StoreCopyBytesCounter.WithLabelValues(string(kind)).Add(float64(info.Size()))
	}
	l.Info("copied store", zap.String("descriptor", descriptor))
	return nil
}

func (s *Store) CopyNeoStore(targetBase string) error {
	return s.Copy(store.KindNeoStore, targetBase)
}

func (s *Store) CopyRelationshipStore(targetBase string) error {
	return s.Copy(store.KindRelationshipStore, targetBase)
}

func (s *Store) CopyRelationshipTypeTokenStore(targetBase string) error {
	return s.Copy(store.KindRelationshipTypeTokenStore, targetBase)
}

func (s *Store) CopyRelationshipTypeTokenNameStore(targetBase string) error {
	return s.Copy(store.KindRelationshipTypeTokenNames, targetBase)
}

func (s *Store) CopyDynamicStringPropertyStore(targetBase string) error {
	return s.Copy(store.KindDynamicStringProperty, targetBase)
}

func (s *Store) CopyDynamicArrayPropertyStore(targetBase string) error {
	return s.Copy(store.KindDynamicArrayProperty, targetBase)
}

// copyFile copies source to target byte for byte, replacing target if it
// exists, and returns the number of bytes copied.
func copyFile(fs afero.Fs, source, target string) (int64, error) {
	in, err := fs.Open(source)
	if err != nil {
		return 0, ioError("open", source, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, ioError("stat", source, err)
	}
	if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, ioError("mkdir", filepath.Dir(target), err)
	}
	out, err := fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, ioError("create", target, err)
	}
	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, ioError("copy", target, err)
	}
	return n, ioError("close", target, out.Close())
}

// setStoreVersionTrailer overwrites the end of the file with the encoded
// trailer without changing the file size.
func setStoreVersionTrailer(fs afero.Fs, path, versionTrailer string) error {
	trailer := store.Encode(versionTrailer)

	f, err := fs.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return ioError("open", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return ioError("stat", path, err)
	}
	if info.Size() < int64(len(trailer)) {
		_ = f.Close()
		return ioError("write trailer", path, ErrTrailerTooLong)
	}
	if _, err := f.WriteAt(trailer, info.Size()-int64(len(trailer))); err != nil {
		_ = f.Close()
		return ioError("write trailer", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return ioError("sync", path, err)
	}
	return ioError("close", path, f.Close())
}

// ReadTrailer returns the last n bytes of the file at path.
func ReadTrailer(fs afero.Fs, path string, n int) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", ioError("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", ioError("stat", path, err)
	}
	if info.Size() < int64(n) {
		return "", ioError("read trailer", path, ErrTrailerTooLong)
	}
	buf := NewBuffer(n)
	section := namedSection{SectionReader: io.NewSectionReader(f, info.Size()-int64(n), int64(n)), name: path}
	if err := ReadIntoBuffer(section, buf, n); err != nil {
		return "", err
	}
	return string(buf.Bytes()), nil
}
