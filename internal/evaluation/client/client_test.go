package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"partner-evaluator/internal/common/config"
	apperrors "partner-evaluator/internal/common/errors"
	"partner-evaluator/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	c := New(config.BackendConfig{BaseURL: server.URL + "/", PredictPath: "/predict"}, logger.NewTestLogger(t))
	return c, &calls
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestPredict_SendsRequest(t *testing.T) {
	var got struct {
		method, path, contentType, requestID string
		body                                 map[string]interface{}
	}
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.contentType = r.Header.Get("Content-Type")
		got.requestID = r.Header.Get(HeaderRequestID)
		_ = json.NewDecoder(r.Body).Decode(&got.body)
		respond(http.StatusOK, `{"probability":80,"reachScore":60,"relevanceScore":40}`)(w, r)
	})

	body, err := c.Predict(context.Background(), "https://example.com", "attempt-1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/predict", got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, "attempt-1", got.requestID)
	assert.Equal(t, map[string]interface{}{"url": "https://example.com"}, got.body)
	assert.JSONEq(t, `{"probability":80,"reachScore":60,"relevanceScore":40}`, string(body))
}

func TestPredict_ErrorResolution(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apperrors.ErrorCode
		wantMsg  string
	}{
		{name: "error field wins", status: 400, body: `{"error":"bad url","detail":"ignored"}`, wantCode: apperrors.ErrCodeTransport, wantMsg: "bad url"},
		{name: "detail fallback", status: 500, body: `{"detail":"Model not loaded"}`, wantCode: apperrors.ErrCodeTransport, wantMsg: "Model not loaded"},
		{name: "empty error falls to detail", status: 500, body: `{"error":"","detail":"boom"}`, wantCode: apperrors.ErrCodeTransport, wantMsg: "boom"},
		{name: "structured detail", status: 422, body: `{"detail":[{"loc":["body","url"],"msg":"field required"}]}`, wantCode: apperrors.ErrCodeTransport, wantMsg: `[{"loc":["body","url"],"msg":"field required"}]`},
		{name: "no fields", status: 502, body: `{}`, wantCode: apperrors.ErrCodeTransport, wantMsg: "Failed to evaluate URL"},
		{name: "non json failure", status: 502, body: `<html>Bad Gateway</html>`, wantCode: apperrors.ErrCodeTransport, wantMsg: "Failed to evaluate URL"},
		{name: "success with error field", status: 200, body: `{"error":"bad url"}`, wantCode: apperrors.ErrCodeLogical, wantMsg: "bad url"},
		{name: "success with blank error field", status: 200, body: `{"error":" ","probability":1,"reachScore":1,"relevanceScore":1}`, wantCode: apperrors.ErrCodeLogical, wantMsg: " "},
		{name: "blank error on failure", status: 500, body: `{"error":"  ","detail":"boom"}`, wantCode: apperrors.ErrCodeTransport, wantMsg: "Failed to evaluate URL"},
		{name: "success non json", status: 200, body: `not json`, wantCode: apperrors.ErrCodeTransport, wantMsg: "Failed to evaluate URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, respond(tt.status, tt.body))

			body, err := c.Predict(context.Background(), "https://example.com", "attempt-1")
			require.Error(t, err)
			assert.Nil(t, body)

			std := apperrors.Normalize(err)
			assert.Equal(t, tt.wantCode, std.Code)
			assert.Equal(t, tt.wantMsg, std.Message)
			if tt.status >= 300 {
				assert.Equal(t, tt.status, std.Metadata["status"])
			}
		})
	}
}

func TestPredict_SuccessWithFalsyErrorField(t *testing.T) {
	c, _ := newTestClient(t, respond(200, `{"error":null,"probability":1,"reachScore":1,"relevanceScore":1}`))
	body, err := c.Predict(context.Background(), "https://example.com", "attempt-1")
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}

func TestPredict_NonObjectSuccessIsPassedOn(t *testing.T) {
	c, _ := newTestClient(t, respond(200, `[1,2]`))
	body, err := c.Predict(context.Background(), "https://example.com", "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(body))
}

// ==========================
// Transport Failure Tests
// ==========================

func TestPredict_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + "/predict"
	server.Close()

	c := New(config.BackendConfig{BaseURL: endpoint, PredictPath: ""}, nil)
	_, err := c.Predict(context.Background(), "https://example.com", "attempt-1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTransport))
	assert.Equal(t, "Failed to evaluate URL", apperrors.Normalize(err).Message)
}

func TestPredict_Cancelled(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Predict(ctx, "https://example.com", "attempt-1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTransport))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTextOf(t *testing.T) {
	tests := []struct {
		in     interface{}
		want   string
		wantOK bool
	}{
		{in: nil},
		{in: ""},
		{in: "  ", want: "  ", wantOK: true},
		{in: false},
		{in: 0.0},
		{in: "bad", want: "bad", wantOK: true},
		{in: true, want: "true", wantOK: true},
		{in: 42.0, want: "42", wantOK: true},
		{in: map[string]interface{}{"a": "b"}, want: `{"a":"b"}`, wantOK: true},
	}
	for _, tt := range tests {
		got, ok := textOf(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
