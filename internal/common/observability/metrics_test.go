package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAttempt_ExportedThroughPrometheus(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := NewWithRegisterer("evaluator-test", reg)
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordAttempt(ctx, "error", "LOGICAL_ERROR")
	obs.RecordDuration(ctx, 150*time.Millisecond, "error")

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "evaluation_attempts")
	assert.Contains(t, joined, "evaluation_duration")
}

func TestTracer_ProducesValidSpans(t *testing.T) {
	obs := NewWithRegisterer("evaluator-test", promclient.NewRegistry())
	defer obs.Shutdown()

	_, span := obs.Tracer().Start(context.Background(), "evaluation.submit")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
}

func TestNilObservability(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordAttempt(context.Background(), "success", "")
		obs.RecordDuration(context.Background(), time.Second, "success")
		_, span := obs.Tracer().Start(context.Background(), "noop")
		span.End()
		obs.Shutdown()
	})
}
