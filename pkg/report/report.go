package report

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	KeyPrefix = "storemigration-report-"
	KeySuffix = ".json"
	LatestKey = KeyPrefix + "latest" + KeySuffix

	// fixed width, so keys sort by start time
	keyTimeLayout = "20060102T150405.000000000"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Report describes one upgrade run. A report with Error set belongs to an
	// aborted run whose target must be discarded.
	Report struct {
		RunID          string    `json:"runId"`
		Started        time.Time `json:"started"`
		Finished       time.Time `json:"finished"`
		Source         string    `json:"source"`
		Target         string    `json:"target"`
		LegacyVersion  string    `json:"legacyVersion"`
		CurrentVersion string    `json:"currentVersion"`
		Stores         []Entry   `json:"stores"`
		Error          string    `json:"error,omitempty"`
	}
	// Entry is one copied store.
	Entry struct {
		Kind    string `json:"kind"`
		File    string `json:"file"`
		Size    int64  `json:"size"`
		Trailer string `json:"trailer"`
	}
	// Reports persists reports and keeps the newest few.
	Reports struct {
		l       *zap.Logger
		storage Storage
		limit   int
		mu      sync.Mutex
	}
	Option func(*Reports)
)

// ------------------------------------------------------------------------------------------------
// ~ Report
// ------------------------------------------------------------------------------------------------

// New starts a report for a run with a fresh run id.
func New(source, target, legacyVersion, currentVersion string) *Report {
	return &Report{
		RunID:          uuid.New().String(),
		Started:        time.Now().UTC(),
		Source:         source,
		Target:         target,
		LegacyVersion:  legacyVersion,
		CurrentVersion: currentVersion,
	}
}

func (r *Report) Add(e Entry) {
	r.Stores = append(r.Stores, e)
}

// Finish stamps the end of the run and records err, if any.
func (r *Report) Finish(err error) {
	r.Finished = time.Now().UTC()
	if err != nil {
		r.Error = err.Error()
	}
}

func (r *Report) Failed() bool {
	return r.Error != ""
}

func (r *Report) key() string {
	return KeyPrefix + r.Started.UTC().Format(keyTimeLayout) + "-" + r.RunID + KeySuffix
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithLimit(v int) Option {
	return func(o *Reports) {
		o.limit = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewReports(l *zap.Logger, storage Storage, opts ...Option) *Reports {
	inst := &Reports{
		l:       l.Named("reports"),
		storage: storage,
		limit:   10,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Add writes the report under its own key and as the latest report, then
// removes reports beyond the limit.
func (r *Reports) Add(ctx context.Context, rep *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}

	key := rep.key()
	r.l.Debug("writing report",
		zap.String("key", key),
		zap.String("run_id", rep.RunID),
	)
	if err := r.storage.Write(ctx, key, data); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	if err := r.storage.Write(ctx, LatestKey, data); err != nil {
		return errors.Wrap(err, "failed to write latest report")
	}
	if err := r.cleanup(ctx); err != nil {
		return errors.Wrap(err, "failed to clean up reports")
	}
	return nil
}

// Latest reads the most recently added report.
func (r *Reports) Latest(ctx context.Context) (*Report, error) {
	data, err := r.storage.Read(ctx, LatestKey)
	if err != nil {
		return nil, err
	}
	rep := &Report{}
	if err := json.Unmarshal(data, rep); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal report")
	}
	return rep, nil
}

// Keys lists the stored reports, newest first.
func (r *Reports) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.storage.List(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}
	var ret []string
	for _, key := range keys {
		if key != LatestKey && strings.HasSuffix(key, KeySuffix) {
			ret = append(ret, key)
		}
	}
	return ret, nil
}

func (r *Reports) Close() error {
	return r.storage.Close()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (r *Reports) cleanup(ctx context.Context) error {
	keys, err := r.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) <= r.limit {
		return nil
	}
	for _, key := range keys[r.limit:] {
		r.l.Debug("removing outdated report", zap.String("key", key))
		if err := r.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("could not remove report %s: %w", key, err)
		}
	}
	return nil
}
