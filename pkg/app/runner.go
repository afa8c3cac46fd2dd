// Package app runs a single-user application in three phases around a
// persistence Context: Initialize, Run and Shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/miniapp/pkg/core"
)

// Phase names a step of the run.
type Phase string

const (
	PhaseInitialize Phase = "initialize"
	PhaseRun        Phase = "run"
	PhaseShutdown   Phase = "shutdown"
)

// App is implemented by applications driven by a Runner.
// Initialize typically loads state (Data, Import); Shutdown stores it
// (SetData, Export).
type App[T any] interface {
	Initialize(ctx context.Context, data *core.Context[T]) error
	Run(ctx context.Context, data *core.Context[T]) error
	Shutdown(ctx context.Context, data *core.Context[T]) error
}

// ErrorHandler receives the error of a failed phase. Returning nil marks the
// error as handled; returning an error (the same or another) aborts the run.
type ErrorHandler func(phase Phase, err error) error

// PhaseError reports which phase failed.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// Runner drives an App.
type Runner[T any] struct {
	data    *core.Context[T]
	onError ErrorHandler
	logger  *slog.Logger
	phase   Phase
	failed  []string
}

// NewRunner creates a runner around data. A nil onError aborts on the first
// failure; a nil logger discards logs.
func NewRunner[T any](data *core.Context[T], onError ErrorHandler, logger *slog.Logger) *Runner[T] {
	if onError == nil {
		onError = func(_ Phase, err error) error { return err }
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner[T]{data: data, onError: onError, logger: logger}
}

// Run executes Initialize, Run and Shutdown in order.
//
// A failing phase goes to the error handler. If the handler swallows it the
// next phase still runs. Shutdown runs whenever Initialize succeeded (or was
// handled), even when Run failed, so state can still be saved.
func (r *Runner[T]) Run(ctx context.Context, a App[T]) error {
	if err := r.step(ctx, PhaseInitialize, a.Initialize); err != nil {
		return err
	}

	runErr := r.step(ctx, PhaseRun, a.Run)

	if err := r.step(ctx, PhaseShutdown, a.Shutdown); err != nil {
		if runErr != nil {
			r.logger.Error("shutdown failed after run failure", "error", err)
		}
		return err
	}
	return runErr
}

func (r *Runner[T]) step(ctx context.Context, phase Phase, fn func(context.Context, *core.Context[T]) error) error {
	r.phase = phase
	r.logger.Debug("phase started", "phase", phase, "app", r.data.AppID())

	err := r.guard(ctx, phase, fn)
	if err == nil {
		return nil
	}

	r.failed = append(r.failed, string(phase))
	r.logger.Debug("phase failed", "phase", phase, "error", err)
	if handled := r.onError(phase, err); handled != nil {
		return &PhaseError{Phase: phase, Err: handled}
	}
	return nil
}

// guard runs fn on a tracked goroutine and waits for it. A panic becomes an
// error of the phase instead of crashing the process.
func (r *Runner[T]) guard(ctx context.Context, phase Phase, fn func(context.Context, *core.Context[T]) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan struct{})
	var result error

	lifecycle.Go(ctx, func(ctx context.Context) (err error) {
		defer close(done)
		defer func() {
			if recovered := recover(); recovered != nil {
				err = fmt.Errorf("%s panicked: %v", phase, recovered)
				if r.logger.Enabled(ctx, slog.LevelDebug) {
					r.logger.Debug("phase panic", "phase", phase, "stack", string(debug.Stack()))
				}
			}
			result = err
		}()
		return fn(ctx, r.data)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.logger.Debug("phase goroutine reported error", "phase", phase, "error", err)
	}))

	<-done
	return result
}

// RunnerState exposes internal state for observability.
type RunnerState struct {
	App          string   `json:"app"`
	Phase        Phase    `json:"phase"`
	FailedPhases []string `json:"failed_phases,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Runner[T]) State() any {
	return RunnerState{
		App:          r.data.AppID(),
		Phase:        r.phase,
		FailedPhases: append([]string(nil), r.failed...),
	}
}

// ComponentType implements introspection.Component.
func (r *Runner[T]) ComponentType() string {
	return "runner"
}

var _ introspection.Introspectable = (*Runner[core.Fields])(nil)
var _ introspection.Component = (*Runner[core.Fields])(nil)
