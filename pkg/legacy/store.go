// Package legacy reads store files written by the previous store format
// version. Stores that need no content migration are copied unchanged and
// only get their trailing version descriptor rewritten; the others are
// exposed through legacy record readers.
//
// Only migration from the previous store format version is supported, so the
// reader code is specific to this upgrade and changes with each format
// version.
package legacy

import (
	"io"

	"github.com/guzu92/neo4j/pkg/metrics"
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type (
	// Store owns one legacy reader per store kind for a single database.
	// It is not safe for concurrent use; only one process may work on a
	// store directory at a time.
	Store struct {
		l               *zap.Logger
		fs              afero.Fs
		storageFileName string
		currentVersion  string
		allStoreReaders []io.Closer
		closed          bool

		nodeStoreReader     *NodeStoreReader
		propertyIndexReader *PropertyIndexStoreReader
		propertyStoreReader *PropertyStoreReader
		relStoreReader      *RelationshipStoreReader
	}
	Option func(*Store)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithCurrentVersion sets the version copied stores are stamped with.
func WithCurrentVersion(v string) Option {
	return func(o *Store) {
		o.currentVersion = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New checks that the legacy and current versions have the same encoded
// length and opens a reader on each of the node, property index, property and
// relationship stores of the database whose neo store file is storageFileName.
func New(l *zap.Logger, fs afero.Fs, storageFileName string, opts ...Option) (*Store, error) {
	inst := &Store{
		l:               l.Named("legacy"),
		fs:              fs,
		storageFileName: storageFileName,
		currentVersion:  store.CurrentVersion,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if err := store.CheckEqualEncodedLength(store.LegacyVersion, inst.currentVersion); err != nil {
		return nil, err
	}

	if err := inst.initStorage(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *Store) initStorage() error {
	var err error
	if s.nodeStoreReader, err = NewNodeStoreReader(s.fs, s.fileName(store.NodeStoreName)); err != nil {
		return s.abortInit(err)
	}
	s.register(s.nodeStoreReader)

	if s.propertyIndexReader, err = NewPropertyIndexStoreReader(s.fs, s.fileName(store.PropertyKeyTokenStoreName)); err != nil {
		return s.abortInit(err)
	}
	s.register(s.propertyIndexReader)

	if s.propertyStoreReader, err = NewPropertyStoreReader(s.fs, s.fileName(store.PropertyStoreName)); err != nil {
		return s.abortInit(err)
	}
	s.register(s.propertyStoreReader)

	if s.relStoreReader, err = NewRelationshipStoreReader(s.fs, s.fileName(store.RelationshipStoreName)); err != nil {
		return s.abortInit(err)
	}
	s.register(s.relStoreReader)

	s.l.Debug("opened legacy store readers",
		zap.String("store", s.storageFileName),
		zap.Int("readers", len(s.allStoreReaders)),
	)
	return nil
}

func (s *Store) register(c io.Closer) {
	s.allStoreReaders = append(s.allStoreReaders, c)
	metrics.LegacyReadersGauge.WithLabelValues().Inc()
}

// abortInit releases the readers opened before err and returns err with
// any release failures appended.
func (s *Store) abortInit(err error) error {
	s.l.Error("failed to open legacy store readers", zap.String("store", s.storageFileName), zap.Error(err))
	return multierr.Append(err, s.Close())
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

// StorageFileName is the neo store file name all other store files are derived from.
func (s *Store) StorageFileName() string {
	return s.storageFileName
}

func (s *Store) CurrentVersion() string {
	return s.currentVersion
}

func (s *Store) NodeStoreReader() *NodeStoreReader {
	return s.nodeStoreReader
}

func (s *Store) PropertyIndexReader() *PropertyIndexStoreReader {
	return s.propertyIndexReader
}

func (s *Store) PropertyStoreReader() *PropertyStoreReader {
	return s.propertyStoreReader
}

func (s *Store) RelStoreReader() *RelationshipStoreReader {
	return s.relStoreReader
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Close releases every reader opened by New. A failing reader does not stop
// the others from being released; all failures are returned together.
// Calling Close again returns ErrClosed.
func (s *Store) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	var err error
	for _, storeReader := range s.allStoreReaders {
		if errClose := storeReader.Close(); errClose != nil {
			metrics.ReaderCloseFailedCounter.WithLabelValues().Inc()
			err = multierr.Append(err, errClose)
		}
		metrics.LegacyReadersGauge.WithLabelValues().Dec()
	}
	if err != nil {
		s.l.Warn("failed to close legacy store readers", zap.Error(err))
	}
	return err
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Store) fileName(suffix string) string {
	return store.FileName(s.storageFileName, suffix)
}
