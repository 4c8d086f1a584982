package legacy

import (
	"bytes"

	"github.com/guzu92/neo4j/pkg/metrics"
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrVerifyMismatch is returned when a copied store differs from its source
// in more than its trailer.
var ErrVerifyMismatch = errors.New("copied store does not match source")

// Verify checks a store copied by CopyStore against its source: the data file
// has the same size and content up to the trailer, the trailer is the kind's
// descriptor stamped with version, and the id file is identical.
// It only reads.
func Verify(fs afero.Fs, sourceBase, targetBase string, kind store.Kind, version string) (err error) {
	defer func() {
		metrics.VerifyCounter.WithLabelValues(string(kind), metrics.Status(err)).Inc()
	}()

	layout, err := store.LayoutOf(kind)
	if err != nil {
		return err
	}
	trailer := store.Encode(layout.Descriptor(version))

	source, err := readFile(fs, store.FileName(sourceBase, layout.Suffix))
	if err != nil {
		return err
	}
	targetName := store.FileName(targetBase, layout.Suffix)
	target, err := readFile(fs, targetName)
	if err != nil {
		return err
	}
	switch {
	case len(source) != len(target):
		return errors.Wrapf(ErrVerifyMismatch, "%s: size %d, source size %d", targetName, len(target), len(source))
	case len(target) < len(trailer):
		return ioError("verify", targetName, ErrTrailerTooLong)
	}
	content := len(target) - len(trailer)
	if !bytes.Equal(source[:content], target[:content]) {
		return errors.Wrapf(ErrVerifyMismatch, "%s: content differs", targetName)
	}
	if !bytes.Equal(target[content:], trailer) {
		return errors.Wrapf(ErrVerifyMismatch, "%s: trailer %q, expected %q", targetName, target[content:], trailer)
	}

	sourceID, err := readFile(fs, store.IDFileName(sourceBase, layout.Suffix))
	if err != nil {
		return err
	}
	targetIDName := store.IDFileName(targetBase, layout.Suffix)
	targetID, err := readFile(fs, targetIDName)
	if err != nil {
		return err
	}
	if !bytes.Equal(sourceID, targetID) {
		return errors.Wrapf(ErrVerifyMismatch, "%s: id file differs", targetIDName)
	}
	return nil
}

func readFile(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, ioError("read", path, err)
	}
	return data, nil
}
