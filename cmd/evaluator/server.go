package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"partner-evaluator/internal/common/config"
	"partner-evaluator/internal/evaluation/controller"
	"partner-evaluator/internal/evaluation/view"
)

type writeFunc func(io.Writer, view.Snapshot) error

func surfaceWriter(format string) (writeFunc, error) {
	switch format {
	case "", "text":
		return view.WriteText, nil
	case "markdown", "md":
		return view.WriteMarkdown, nil
	case "html":
		return view.WriteHTML, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func newMux(ctrl *controller.Controller, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": cfg.App.Version,
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		state := ctrl.State()
		status, code := "ready", http.StatusOK
		if state != controller.Idle {
			status, code = "busy", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]string{
			"status": status,
			"state":  state.String(),
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
