// internal/evaluation/controller/controller.go
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "partner-evaluator/internal/common/errors"
	"partner-evaluator/internal/common/inflight"
	"partner-evaluator/internal/common/logger"
	"partner-evaluator/internal/common/metrics"
	"partner-evaluator/internal/common/observability"
	"partner-evaluator/internal/evaluation/client"
	"partner-evaluator/internal/evaluation/render"
	"partner-evaluator/internal/evaluation/view"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Controller drives the Idle -> Loading -> Success|Error -> Idle lifecycle
// and owns every write to the ViewModel outside a render pass.
type Controller struct {
	mu        sync.Mutex
	state     State
	busy      bool
	outcome   State
	lastErr   error
	listeners []TransitionFunc

	view      *view.ViewModel
	predictor client.Predictor
	renderer  *render.Renderer
	guard     inflight.Guard
	obs       *observability.Observability
	tracer    trace.Tracer
	logger    logger.Logger
}

func New(deps Dependencies) (*Controller, error) {
	if deps.View == nil {
		return nil, fmt.Errorf("controller: view is required")
	}
	if deps.Predictor == nil {
		return nil, fmt.Errorf("controller: predictor is required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Renderer == nil {
		deps.Renderer = render.New(render.Options{ClampBars: true}, deps.Logger)
	}
	if deps.Guard == nil {
		deps.Guard = inflight.NewLocalGuard()
	}
	if deps.Tracer == nil {
		deps.Tracer = deps.Observability.Tracer()
	}

	return &Controller{
		state:     Idle,
		outcome:   Idle,
		view:      deps.View,
		predictor: deps.Predictor,
		renderer:  deps.Renderer,
		guard:     deps.Guard,
		obs:       deps.Observability,
		tracer:    deps.Tracer,
		logger:    deps.Logger.With(map[string]interface{}{"component": "controller"}),
	}, nil
}

// View returns the surface the controller writes to.
func (c *Controller) View() *view.ViewModel {
	return c.view
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Outcome returns the terminal state of the latest attempt and its error.
// It is Idle before the first attempt.
func (c *Controller) Outcome() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome, c.lastErr
}

// OnTransition registers fn for every later state change.
func (c *Controller) OnTransition(fn TransitionFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Submit runs one attempt to completion.
func (c *Controller) Submit(ctx context.Context, urlText string) error {
	task, err := c.Start(ctx, urlText)
	if err != nil {
		return err
	}
	return task.Wait()
}

// Start begins an attempt and returns once the request is in flight.
// An empty URL fails immediately with an InputError and makes no call.
// A second attempt while one is loading is rejected with REQUEST_IN_FLIGHT
// and leaves the surface untouched.
func (c *Controller) Start(ctx context.Context, urlText string) (*Task, error) {
	if !c.claim() {
		return nil, apperrors.NewRequestInFlightError("")
	}

	target := strings.TrimSpace(urlText)
	if target == "" {
		err := apperrors.NewInputError()
		c.rejectInput(err)
		return nil, err
	}

	attemptID := uuid.NewString()
	release, err := c.guard.Acquire(ctx, attemptID)
	if err != nil {
		if errors.Is(err, inflight.ErrBusy) {
			c.logger.Warn("Evaluation rejected, another attempt is in flight", map[string]interface{}{
				"attemptId": attemptID,
				"reason":    err.Error(),
			})
			c.abandon()
			return nil, apperrors.NewRequestInFlightError(attemptID)
		}
		c.abandon()
		return nil, apperrors.Normalize(err)
	}

	c.view.HideError()
	c.view.HideResult()
	c.view.BeginLoading()
	c.transition(Loading, attemptID)

	metrics.EvaluationsSubmitted.Inc()
	metrics.EvaluationsInFlight.Inc()

	ctx, cancel := context.WithCancel(ctx)
	ctx, span := c.tracer.Start(ctx, "evaluation.attempt", trace.WithAttributes(
		attribute.String("evaluation.attempt_id", attemptID),
		attribute.String("evaluation.url", target),
	))

	task := newTask(attemptID, cancel)
	go c.run(ctx, task, target, release, span, time.Now())
	return task, nil
}

func (c *Controller) run(ctx context.Context, task *Task, target string, release inflight.ReleaseFunc, span trace.Span, started time.Time) {
	var err error
	defer func() {
		if p := recover(); p != nil {
			err = apperrors.NewRenderError(fmt.Sprint(p), nil)
		}
		c.complete(ctx, task, err, release, span, started)
	}()

	body, err := c.predictor.Predict(ctx, target, task.ID())
	if err != nil {
		return
	}
	err = c.renderer.RenderJSON(body, c.view)
}

// complete runs on every exit path of an attempt.
func (c *Controller) complete(ctx context.Context, task *Task, err error, release inflight.ReleaseFunc, span trace.Span, started time.Time) {
	outcome := Success
	code := ""
	if err != nil {
		std := apperrors.Normalize(err)
		outcome = Error
		code = string(std.Code)
		c.view.ShowError(std.Message)
		span.RecordError(err)
		span.SetStatus(codes.Error, std.Message)
		span.SetAttributes(attribute.String("evaluation.error_code", code))
		c.logger.Warn("Evaluation failed", map[string]interface{}{
			"attemptId": task.ID(),
			"errorCode": code,
			"message":   std.Message,
			"details":   std.Details,
		})
	}
	c.view.EndLoading()

	c.record(outcome, err)
	c.transition(outcome, task.ID())

	if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
		c.logger.WithError(relErr).Error("Failed to release in-flight slot", map[string]interface{}{
			"attemptId": task.ID(),
		})
	}
	c.transition(Idle, task.ID())

	elapsed := time.Since(started)
	metrics.EvaluationsInFlight.Dec()
	metrics.EvaluationDuration.WithLabelValues(outcome.String()).Observe(elapsed.Seconds())
	if err != nil {
		metrics.EvaluationsFailed.WithLabelValues(code).Inc()
	} else {
		metrics.EvaluationsCompleted.Inc()
	}
	c.obs.RecordAttempt(ctx, outcome.String(), code)
	c.obs.RecordDuration(ctx, elapsed, outcome.String())
	span.End()

	task.finish(err)
}

// rejectInput shows an input error without touching the network or the loading state.
func (c *Controller) rejectInput(err *apperrors.StandardError) {
	c.view.ShowError(err.Message)
	c.record(Error, err)
	c.transition(Error, "")
	c.transition(Idle, "")
	metrics.EvaluationsFailed.WithLabelValues(string(err.Code)).Inc()
	c.obs.RecordAttempt(context.Background(), Error.String(), string(err.Code))
}

// claim reserves the controller for one attempt. It fails unless the
// controller is Idle and no other Start holds the claim.
func (c *Controller) claim() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle || c.busy {
		return false
	}
	c.busy = true
	return true
}

// abandon drops a claim that never left Idle.
func (c *Controller) abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

func (c *Controller) record(outcome State, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcome = outcome
	c.lastErr = err
}

func (c *Controller) transition(to State, attemptID string) {
	c.mu.Lock()
	from := c.state
	c.state = to
	if to == Idle {
		c.busy = false
	}
	listeners := append([]TransitionFunc(nil), c.listeners...)
	c.mu.Unlock()

	c.logger.Info("Evaluation state changed", map[string]interface{}{
		"attemptId": attemptID,
		"from":      from.String(),
		"to":        to.String(),
	})
	for _, fn := range listeners {
		fn(from, to)
	}
}
