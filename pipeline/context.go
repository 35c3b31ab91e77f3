package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Slot names for the lazily-populated collaborator handles held by Context.
// Spec.md §3: "Collaborator slot, once populated, is not replaced for the
// remainder of the run."
const (
	SlotTTS             = "tts"
	SlotAPI             = "api"
	SlotLocalLLM        = "local_llm"
	SlotCache           = "cache"
	SlotLogger          = "logger"
	SlotParentalControl = "parental_control"
	SlotContentFilter   = "content_filter"
)

var _ context.Context = (*Context)(nil)

// Context is the per-run shared execution state described in spec.md §3.
// It embeds a real context.Context so suspension points (audio, STT/TTS,
// LLM calls, shell, timer.sleep) can honor cancellation and deadlines the
// same way the rest of the call chain does — mirroring the teacher's
// Execution type, which is both the flow-scoped state and a context.Context.
//
// A Context belongs to exactly one Engine run and is mutated only by that
// run's single execution stream; it is not safe to share across goroutines.
type Context struct {
	ID string

	Variables map[string]any
	State     map[string]any
	Results   map[string]any
	Errors    []ErrorDescriptor
	Timers    map[string]time.Time

	slots map[string]any

	ctx context.Context

	registry *Registry
}

// NewContext creates a fresh Context seeded with the given variables, as
// happens on every Engine.Load (spec.md §4.6).
func NewContext(seedVariables map[string]any) *Context {
	variables := make(map[string]any, len(seedVariables))
	for k, v := range seedVariables {
		variables[k] = v
	}
	return &Context{
		ID:        uuid.NewString(),
		Variables: variables,
		State:     make(map[string]any),
		Results:   make(map[string]any),
		Errors:    nil,
		Timers:    make(map[string]time.Time),
		slots:     make(map[string]any),
		ctx:       context.Background(),
	}
}

func (c *Context) Deadline() (time.Time, bool) { return c.ctx.Deadline() }
func (c *Context) Done() <-chan struct{}       { return c.ctx.Done() }
func (c *Context) Err() error                  { return c.ctx.Err() }
func (c *Context) Value(key any) any           { return c.ctx.Value(key) }

// WithContext returns the Context with ctx installed as its cancellation
// source. Execution is single-threaded so this mutates in place rather than
// copying, unlike the teacher's http.Request-style WithContext — there is
// only ever one live Context per run and no concurrent readers to protect
// against.
func (c *Context) WithContext(ctx context.Context) *Context {
	c.ctx = ctx
	return c
}

// AddError appends an error descriptor. Step dispatch never removes entries.
func (c *Context) AddError(step string, err error) {
	c.Errors = append(c.Errors, descriptorFor(step, err))
}

// Slot returns the collaborator handle in the named slot, if populated.
func (c *Context) Slot(name string) (any, bool) {
	v, ok := c.slots[name]
	return v, ok
}

// SlotOrCreate returns the existing handle in the named slot, or calls
// create to populate it if empty. The created handle is never replaced
// afterward, satisfying the "populated once, read-only thereafter"
// invariant from spec.md §3/§5.
func (c *Context) SlotOrCreate(name string, create func() (any, error)) (any, error) {
	if v, ok := c.slots[name]; ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		return nil, err
	}
	c.slots[name] = v
	return v, nil
}

// errorsAsValues renders Errors as a slice of generic maps so the resolver
// and condition evaluator can walk into them like any other mapping root.
func (c *Context) errorsAsValues() []any {
	out := make([]any, len(c.Errors))
	for i, e := range c.Errors {
		out[i] = map[string]any{
			"step_name": e.StepName,
			"kind":      e.Kind,
			"message":   e.Message,
		}
	}
	return out
}

// Registry returns the Component Registry this run's steps dispatch
// against. The loop and condition components use it to run their nested
// step lists through the same dispatch path as the top-level Driver.
func (c *Context) Registry() *Registry {
	return c.registry
}

// Roots returns the flat map of named roots (variables/results/state/
// errors) that the Variable Resolver and Condition Evaluator walk, per
// spec.md §4.2/§4.3. A "context" key holding a map of the same four roots
// is included because the condition language's identifier roots explicitly
// include "context" itself.
func (c *Context) Roots() map[string]any {
	roots := map[string]any{
		"variables": c.Variables,
		"results":   c.Results,
		"state":     c.State,
		"errors":    c.errorsAsValues(),
	}
	withContext := make(map[string]any, len(roots)+1)
	for k, v := range roots {
		withContext[k] = v
	}
	withContext["context"] = roots
	return withContext
}
