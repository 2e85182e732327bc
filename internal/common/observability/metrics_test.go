package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	obs, err := New("survey-duplicator-test", Options{
		Registerer:    promclient.NewRegistry(),
		SpanProcessor: recorder,
	})
	require.NoError(t, err)
	defer obs.Shutdown()

	ctx, parent := obs.StartSpan(context.Background(), "duplicate-batch")
	_, child := obs.StartSpan(ctx, "duplicate-survey", attribute.String("course", "CS101"))
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "duplicate-survey", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Contains(t, spans[0].Attributes(), attribute.String("course", "CS101"))
}

func TestObservability_RecordBatch(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New("survey-duplicator-test", Options{Registerer: reg})
	require.NoError(t, err)
	defer obs.Shutdown()

	obs.RecordBatch(context.Background(), "succeeded", 2, 150*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "batches_processed")
	assert.Contains(t, joined, "courses_processed")
	assert.Contains(t, joined, "batches_duration")
}
