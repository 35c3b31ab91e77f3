package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// StepTimer receives a duration measurement for each dispatched step. The
// internal/telemetry package's Telemetry type satisfies this by recording
// into an OTel histogram; Engine works with either that or no timer at all.
type StepTimer interface {
	RecordStepDuration(ctx context.Context, stepName string, start time.Time)
}

// State is one of the Engine Driver's lifecycle states (spec.md §4.6):
// Idle → Loaded → Running → (Completed | Failed | Cancelled) → Idle.
type State string

const (
	StateIdle      State = "idle"
	StateLoaded    State = "loaded"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Engine is the top-level driver: it owns a Document, a Context, and the
// Registry steps dispatch against, and runs the step sequence in order.
// An Engine is single-threaded internally (spec.md §5) — Start(async=true)
// merely moves that single stream onto a goroutine, it never parallelizes
// step execution.
type Engine struct {
	registry *Registry
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	doc       *Document
	execCtx   *Context
	cancelled bool

	timer StepTimer
}

// SetTelemetry installs a StepTimer used to record per-step durations.
// Optional — a nil timer (the default) simply skips instrumentation.
func (e *Engine) SetTelemetry(timer StepTimer) {
	e.timer = timer
}

// NewEngine constructs an Engine bound to registry. logger defaults to
// slog.Default() when nil.
func NewEngine(registry *Registry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{registry: registry, logger: logger, state: StateIdle}
}

// State reports the Engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Context returns the Engine's live Execution Context, or nil before the
// first LoadPipeline.
func (e *Engine) Context() *Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.execCtx
}

// LoadPipeline transitions Idle|Completed|Failed|Cancelled → Loaded,
// resetting Context to a fresh instance seeded with doc.Variables. Loading
// while Running fails with a StateError.
func (e *Engine) LoadPipeline(doc *Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return StateError("cannot load a pipeline while the engine is running")
	}
	e.doc = doc
	e.execCtx = NewContext(doc.Variables)
	e.execCtx.registry = e.registry
	e.cancelled = false
	e.state = StateLoaded
	return nil
}

// LoadPipelineFromFile parses path with the given parser and loads the
// resulting Document. Kept as a thin convenience so callers that only have
// a path never need to reach into the yamlfmt package directly.
func (e *Engine) LoadPipelineFromFile(path string, parse func(string) (*Document, error)) error {
	doc, err := parse(path)
	if err != nil {
		return err
	}
	return e.LoadPipeline(doc)
}

// Handle is returned by Start(async=true): a joinable reference to a
// background run, satisfying spec.md §4.6/§9's "return either a completion
// flag or a join-able handle, do not require two distinct APIs".
type Handle struct {
	done chan struct{}
	ok   bool
	err  error
}

// Join blocks until the run finishes or ctx is cancelled, whichever comes
// first. Returns the run's success flag and any Engine-level error.
func (h *Handle) Join(ctx context.Context) (bool, error) {
	select {
	case <-h.done:
		return h.ok, h.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Start transitions Loaded → Running and iterates the loaded Document's
// steps. async=false blocks until the run reaches a terminal state and
// returns its success flag directly. async=true launches the run on a
// background goroutine and returns immediately with a Handle to join later.
// Starting without a loaded pipeline, or while already Running, fails with
// StateError.
func (e *Engine) Start(ctx context.Context, async bool) (bool, *Handle, error) {
	e.mu.Lock()
	if e.state != StateLoaded {
		e.mu.Unlock()
		return false, nil, StateError("start requires a loaded pipeline (current state: %s)", e.state)
	}
	e.state = StateRunning
	e.mu.Unlock()

	if !async {
		ok, err := e.run(ctx)
		return ok, nil, err
	}

	h := &Handle{done: make(chan struct{})}
	go func() {
		h.ok, h.err = e.run(ctx)
		close(h.done)
	}()
	return false, h, nil
}

// Stop requests cooperative cancellation: the flag is observed between the
// Document's top-level steps. The step in progress, if any, is not
// interrupted — it runs to completion and the run then terminates
// Cancelled. The flag is not checked inside a step, so the iterations and
// nested steps of a loop or condition component keep running until that
// step returns. Stop is a no-op (returns false) unless the engine is
// Running.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning {
		return false
	}
	e.cancelled = true
	return true
}

func (e *Engine) stopRequested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelled
}

// run executes the loaded Document's top-level steps in order, returning
// the run's overall success flag. It always leaves the Engine in a
// terminal state (Completed, Failed, or Cancelled) before returning.
func (e *Engine) run(ctx context.Context) (bool, error) {
	doc := e.doc
	execCtx := e.execCtx.WithContext(ctx)

	success := true
	for i, step := range doc.Steps {
		if e.stopRequested() {
			e.finish(StateCancelled)
			return false, nil
		}
		if err := ctx.Err(); err != nil {
			e.finish(StateCancelled)
			return false, nil
		}

		name := step.EffectiveName(i)
		start := time.Now()
		err := dispatchStep(ctx, e.registry, e.logger, execCtx, step, name)
		if e.timer != nil {
			e.timer.RecordStepDuration(ctx, name, start)
		}
		if err != nil {
			execCtx.AddError(name, err)
			if !step.ContinueOnError {
				success = false
				break
			}
		}
	}

	if success {
		e.finish(StateCompleted)
	} else {
		e.finish(StateFailed)
	}
	return success, nil
}

func (e *Engine) finish(state State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
}
