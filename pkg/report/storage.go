package report

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidKey is returned for report keys that are empty or contain a path separator.
var ErrInvalidKey = errors.New("invalid report key")

// Storage keeps serialized reports under flat keys. Reports sort by key, so
// List hands them out newest first.
type Storage interface {
	Write(ctx context.Context, key string, data []byte) error
	// Read returns os.ErrNotExist for an unknown key.
	Read(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete of an unknown key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	return nil
}

func newestFirst(keys []string) []string {
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}
