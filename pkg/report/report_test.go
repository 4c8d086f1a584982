package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestReport(t *testing.T) {
	rep := New("/src/neostore", "/dst/neostore", "v0.A.0", "v0.A.5")
	assert.NotEmpty(t, rep.RunID)
	assert.False(t, rep.Started.IsZero())

	rep.Add(Entry{Kind: "relationship", File: "/dst/neostore.relationshipstore.db", Size: 42, Trailer: "RelationshipStore v0.A.5"})
	rep.Finish(nil)
	assert.False(t, rep.Failed())
	assert.False(t, rep.Finished.Before(rep.Started))

	rep.Finish(errors.New("disk full"))
	assert.True(t, rep.Failed())
	assert.Equal(t, "disk full", rep.Error)
}

func TestReports_Add(t *testing.T) {
	ctx := context.Background()
	reports := NewReports(zaptest.NewLogger(t), newTestBlobStorage(t, "reports"))

	rep := New("/src/neostore", "/dst/neostore", "v0.A.0", "v0.A.5")
	rep.Add(Entry{Kind: "neostore", File: "/dst/neostore", Size: 10, Trailer: "NeoStore v0.A.5"})
	rep.Finish(nil)
	require.NoError(t, reports.Add(ctx, rep))

	latest, err := reports.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, rep.RunID, latest.RunID)
	assert.Equal(t, rep.Stores, latest.Stores)
	assert.True(t, rep.Started.Equal(latest.Started))

	keys, err := reports.Keys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], rep.RunID)
}

func TestReports_Cleanup(t *testing.T) {
	ctx := context.Background()
	reports := NewReports(zaptest.NewLogger(t), newTestFilesystemStorage(t), WithLimit(2))

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var last *Report
	for i := 0; i < 5; i++ {
		last = New(fmt.Sprint("/src/", i), "/dst", "v0.A.0", "v0.A.5")
		last.Started = start.Add(time.Duration(i) * time.Second)
		require.NoError(t, reports.Add(ctx, last))
	}

	keys, err := reports.Keys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Contains(t, keys[0], last.RunID, "newest first")

	latest, err := reports.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/src/4", latest.Source)
}

func TestReports_LatestMissing(t *testing.T) {
	reports := NewReports(zaptest.NewLogger(t), newTestFilesystemStorage(t))
	_, err := reports.Latest(context.Background())
	assert.Error(t, err)
}
