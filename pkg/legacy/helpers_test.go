package legacy

import (
	"os"
	"sync/atomic"
	"testing"

	"github.com/guzu92/neo4j/pkg/legacy/legacytest"
	"github.com/spf13/afero"
)

const testBase = legacytest.Base

var (
	be32          = legacytest.BE32
	be64          = legacytest.BE64
	record        = legacytest.Record
	legacyTrailer = legacytest.Trailer
)

func writeStoreFile(t *testing.T, fs afero.Fs, base, suffix string, data []byte, id []byte) {
	t.Helper()
	legacytest.WriteStoreFile(t, fs, base, suffix, data, id)
}

func newLegacyFs(t *testing.T) afero.Fs {
	t.Helper()
	return legacytest.NewFs(t)
}

// trackingFs counts the files opened through it and the ones closed again.
type trackingFs struct {
	afero.Fs
	opened *atomic.Int64
	closed *atomic.Int64
}

func newTrackingFs(fs afero.Fs) trackingFs {
	return trackingFs{Fs: fs, opened: &atomic.Int64{}, closed: &atomic.Int64{}}
}

func (fs trackingFs) Open(name string) (afero.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	fs.opened.Add(1)
	return trackedFile{File: f, closed: fs.closed}, nil
}

func (fs trackingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := fs.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	fs.opened.Add(1)
	return trackedFile{File: f, closed: fs.closed}, nil
}

type trackedFile struct {
	afero.File
	closed *atomic.Int64
}

func (f trackedFile) Close() error {
	f.closed.Add(1)
	return f.File.Close()
}

type failingCloser struct {
	err    error
	called bool
}

func (c *failingCloser) Close() error {
	c.called = true
	return c.err
}
