package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveCategoryDuration("posts", 15*time.Millisecond)
	pr.IncCategoryResult("posts", ResultSuccess)
	pr.AddFilesWritten("posts", 3)
	pr.ObserveMaterializeDuration(40 * time.Millisecond)
	pr.IncMaterializeOutcome(OutcomeSuccess)
	pr.ObserveBackendRequest("sites/structure", 2*time.Second, true)
	pr.IncBackendRetry("sites/structure")
	pr.ObserveBuildDuration("docker", "build", 5*time.Second, false)

	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "jekyll_studio_files_written_total")
	assert.Contains(t, names, "jekyll_studio_materialize_outcomes_total")
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncCategoryResult("layouts", ResultFailed)
	pr.AddFilesWritten("layouts", 1)
	pr.ObserveBuildDuration("local", "serve", time.Second, true)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncMaterializeOutcome(OutcomeAborted)

	path := filepath.Join(t.TempDir(), "textfile", "jekyll_studio.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `jekyll_studio_materialize_outcomes_total{outcome="aborted"} 1`))

	assert.NoError(t, WriteTextfile("", reg), "empty path disables export")
}
