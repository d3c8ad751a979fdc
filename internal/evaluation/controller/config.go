package controller

import (
	"partner-evaluator/internal/common/config"
	"partner-evaluator/internal/common/inflight"
	"partner-evaluator/internal/common/logger"
	"partner-evaluator/internal/common/observability"
	"partner-evaluator/internal/evaluation/client"
	"partner-evaluator/internal/evaluation/render"
	"partner-evaluator/internal/evaluation/view"
	"partner-evaluator/pkg/registry"

	"go.opentelemetry.io/otel/trace"
)

// Dependencies wires a Controller. View and Predictor are required; the rest
// default to an in-process guard, a clamping renderer and no-op telemetry.
type Dependencies struct {
	View          *view.ViewModel
	Predictor     client.Predictor
	Renderer      *render.Renderer
	Guard         inflight.Guard
	Observability *observability.Observability
	// Tracer overrides the Observability tracer.
	Tracer trace.Tracer
	Logger logger.Logger
}

// FromConfig builds the full dependency set described by cfg.
func FromConfig(cfg *config.Config, obs *observability.Observability, log logger.Logger) (Dependencies, error) {
	reg := registry.Default()
	if cfg.Render.RegistryPath != "" {
		loaded, err := registry.LoadRegistry(cfg.Render.RegistryPath)
		if err != nil {
			return Dependencies{}, err
		}
		reg = loaded
	}

	guard, err := inflight.New(cfg)
	if err != nil {
		return Dependencies{}, err
	}

	return Dependencies{
		View:          view.New(reg),
		Predictor:     client.New(cfg.Backend, log),
		Renderer:      render.New(render.Options{ClampBars: cfg.Render.ClampBars}, log),
		Guard:         guard,
		Observability: obs,
		Logger:        log,
	}, nil
}
