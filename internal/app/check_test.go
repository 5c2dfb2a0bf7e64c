package app

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depsync/internal/types"
)

func TestCheckReturnsDecisionsWithoutMutating(t *testing.T) {
	f := newUpdateFixture(
		[]types.ManifestEntry{
			semverEntry("alpha", "1.2.0"),
			semverEntry("beta", "2.0.0"),
		},
		map[string]string{
			"alpha": "1.3.0",
			"beta":  "3.0.0",
		},
	)

	result, err := f.service.Check(context.Background(), CheckRequest{ManifestPath: testManifestPath})
	require.NoError(t, err)

	require.Len(t, result.Decisions, 2)
	assert.True(t, result.Decisions[0].Selected)
	assert.False(t, result.Decisions[1].Selected)

	// Check never locks, snapshots, saves, or verifies.
	assert.Zero(t, f.lock.acquired)
	assert.Zero(t, f.backup.created)
	assert.Zero(t, f.store.saves)
	assert.Zero(t, f.verifier.calls)
	assert.Equal(t, "1.2.0", f.store.version(testManifestPath, "alpha"))
}

func TestCheckWritesCheckOnlyReport(t *testing.T) {
	f := newUpdateFixture(
		[]types.ManifestEntry{semverEntry("alpha", "1.2.0")},
		map[string]string{"alpha": "1.3.0"},
	)

	result, err := f.service.Check(context.Background(), CheckRequest{ManifestPath: testManifestPath})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ReportPath)

	report := f.lastReport(t)
	assert.True(t, report.CheckOnly)
	assert.Equal(t, types.FinalStateNoopNoUpdates, report.FinalState)
	assert.False(t, report.Verification.Attempted)
}

func TestCheckPropagatesLoadErrors(t *testing.T) {
	f := newUpdateFixture(nil, nil)
	f.store.loadErr = errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("manifest file not found")

	_, err := f.service.Check(context.Background(), CheckRequest{ManifestPath: testManifestPath})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Empty(t, f.reports.reports)
}
