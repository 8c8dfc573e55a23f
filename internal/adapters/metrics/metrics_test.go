package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/metrics"
)

func TestCollector_Counters(t *testing.T) {
	c := metrics.NewCollector()

	c.ActionStarted("default")
	c.ActionStarted("default")
	c.ActionStarted("alt")
	c.ActionFinished("default", 10*time.Millisecond, nil)
	c.ActionFinished("default", 20*time.Millisecond, errors.New("exit 1"))
	c.ActionCached("alt")

	expected := `
# HELP kiln_actions_started_total Total number of actions that acquired a job slot.
# TYPE kiln_actions_started_total counter
kiln_actions_started_total{context="alt"} 1
kiln_actions_started_total{context="default"} 2
# HELP kiln_actions_failed_total Total number of actions that failed.
# TYPE kiln_actions_failed_total counter
kiln_actions_failed_total{context="default"} 1
# HELP kiln_actions_cached_total Total number of actions skipped by the action cache.
# TYPE kiln_actions_cached_total counter
kiln_actions_cached_total{context="alt"} 1
# HELP kiln_actions_in_flight Number of actions currently holding a job slot.
# TYPE kiln_actions_in_flight gauge
kiln_actions_in_flight{context="alt"} 1
kiln_actions_in_flight{context="default"} 0
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected),
		"kiln_actions_started_total",
		"kiln_actions_failed_total",
		"kiln_actions_cached_total",
		"kiln_actions_in_flight",
	))

	n, err := testutil.GatherAndCount(c.Registry(), "kiln_action_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "one histogram series for the default context")
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := metrics.NewCollector()
	b := metrics.NewCollector()

	a.ActionCached("default")

	n, err := testutil.GatherAndCount(a.Registry(), "kiln_actions_cached_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(b.Registry(), "kiln_actions_cached_total")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCollector_WriteSnapshot(t *testing.T) {
	c := metrics.NewCollector()
	c.ActionStarted("default")
	c.ActionFinished("default", time.Second, nil)

	path := filepath.Join(t.TempDir(), "_build", "metrics.prom")
	require.NoError(t, c.WriteSnapshot(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kiln_actions_started_total{context="default"} 1`)
	assert.Contains(t, string(data), `kiln_action_duration_seconds_count{context="default"} 1`)
}

func TestCollector_WriteSnapshotFails(t *testing.T) {
	root := t.TempDir()
	//nolint:gosec // 0600 is fine for test
	require.NoError(t, os.WriteFile(filepath.Join(root, "_build"), []byte("x"), 0o600))

	err := metrics.NewCollector().WriteSnapshot(filepath.Join(root, "_build", "metrics.prom"))
	assert.ErrorContains(t, err, "failed to create metrics directory")
}
