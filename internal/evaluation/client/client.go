// internal/evaluation/client/client.go
package client

import (
	"context"
	"encoding/json"

	"partner-evaluator/internal/common/config"
	apperrors "partner-evaluator/internal/common/errors"
	apphttp "partner-evaluator/internal/common/http"
	"partner-evaluator/internal/common/logger"
)

// HeaderRequestID carries the attempt ID to the backend.
const HeaderRequestID = "X-Request-ID"

// Predictor submits one URL for evaluation and returns the raw success payload.
type Predictor interface {
	Predict(ctx context.Context, targetURL, attemptID string) ([]byte, error)
}

type predictRequest struct {
	URL string `json:"url"`
}

// Client talks to the prediction backend.
type Client struct {
	http     *apphttp.Client
	endpoint string
	logger   logger.Logger
}

func New(cfg config.BackendConfig, log logger.Logger) *Client {
	return NewWithHTTP(cfg.PredictURL(), apphttp.NewClient(config.GetDuration(cfg.Timeout)), log)
}

func NewWithHTTP(endpoint string, hc *apphttp.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{http: hc, endpoint: endpoint, logger: log}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict posts {"url": targetURL}. It returns a TransportError when the call
// fails or the status is not 2xx, and a LogicalError when a 2xx body carries
// an error field.
func (c *Client) Predict(ctx context.Context, targetURL, attemptID string) ([]byte, error) {
	log := c.logger.With(map[string]interface{}{
		"attemptId": attemptID,
		"endpoint":  c.endpoint,
	})

	resp, err := c.http.PostJSON(ctx, c.endpoint, predictRequest{URL: targetURL}, map[string]string{
		HeaderRequestID: attemptID,
	})
	if err != nil {
		log.WithError(err).Warn("Prediction request failed", nil)
		return nil, apperrors.NewTransportError("", err)
	}

	body, decodeErr := decodeObject(resp.Body)

	if !resp.OK() {
		msg := ""
		if decodeErr == nil {
			msg = errorMessage(body)
		}
		log.Warn("Prediction returned failure status", map[string]interface{}{
			"status":  resp.StatusCode,
			"message": msg,
		})
		return nil, apperrors.NewStatusError(resp.StatusCode, msg)
	}

	if decodeErr != nil {
		log.WithError(decodeErr).Warn("Prediction returned unreadable body", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return nil, apperrors.NewTransportError("", decodeErr)
	}

	if msg, ok := textOf(body["error"]); ok {
		log.Info("Prediction rejected", map[string]interface{}{"message": msg})
		return nil, apperrors.NewLogicalError(msg)
	}

	log.Debug("Prediction received", map[string]interface{}{
		"status": resp.StatusCode,
		"bytes":  len(resp.Body),
	})
	return resp.Body, nil
}

// decodeObject reads a JSON body. Non-object JSON decodes to an empty map so
// the caller can still hand the payload on.
func decodeObject(raw []byte) (map[string]interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]interface{}); ok {
		return m, nil
	}
	return map[string]interface{}{}, nil
}

// errorMessage picks the error field, then detail. Empty means use the generic message.
func errorMessage(body map[string]interface{}) string {
	if msg, ok := textOf(body["error"]); ok {
		return msg
	}
	if msg, ok := textOf(body["detail"]); ok {
		return msg
	}
	return ""
}

// textOf turns a truthy JSON value into display text. Strings are used as-is;
// other values such as validation detail lists are shown as compact JSON.
func textOf(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case bool:
		if !t {
			return "", false
		}
	case float64:
		if t == 0 {
			return "", false
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}
