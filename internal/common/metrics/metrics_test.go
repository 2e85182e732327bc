package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyCopyCounters(t *testing.T) {
	before := testutil.ToFloat64(SurveyCopiesCompleted.WithLabelValues("SV_metrics"))
	SurveyCopiesCompleted.WithLabelValues("SV_metrics").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SurveyCopiesCompleted.WithLabelValues("SV_metrics")))

	SurveyCopiesFailed.WithLabelValues("SV_metrics", "DECODE_ERROR").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(SurveyCopiesFailed.WithLabelValues("SV_metrics", "DECODE_ERROR")), 1.0)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "survey_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Add(3)

	path := filepath.Join(t.TempDir(), "survey.prom")
	require.NoError(t, WriteTextfile(path, reg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "survey_test_total 3")
}

func TestWriteTextfile_DefaultGatherer(t *testing.T) {
	SurveyCopiesCompleted.WithLabelValues("SV_textfile").Inc()

	path := filepath.Join(t.TempDir(), "survey.prom")
	require.NoError(t, WriteTextfile(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `survey_copies_completed_total{template_id="SV_textfile"}`)
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "survey.prom"), prometheus.NewRegistry())
	assert.Error(t, err)
}
