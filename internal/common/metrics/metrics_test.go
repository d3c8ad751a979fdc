package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEvaluationsFailed_ByCode(t *testing.T) {
	before := testutil.ToFloat64(EvaluationsFailed.WithLabelValues("INPUT_ERROR"))
	EvaluationsFailed.WithLabelValues("INPUT_ERROR").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(EvaluationsFailed.WithLabelValues("INPUT_ERROR")))
}

func TestEvaluationsInFlight(t *testing.T) {
	before := testutil.ToFloat64(EvaluationsInFlight)
	EvaluationsInFlight.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(EvaluationsInFlight))
	EvaluationsInFlight.Dec()
	assert.Equal(t, before, testutil.ToFloat64(EvaluationsInFlight))
}
