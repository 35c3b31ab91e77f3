package pipeline

import "sort"

// Executor is the uniform contract every built-in or third-party component
// implements (spec.md §4.4/§9 — "dynamic dispatch by registry": composition
// over inheritance, one independent implementation per component). Execute
// must not mutate params; params belongs to the Dispatcher's resolved copy
// for this invocation only.
type Executor interface {
	Execute(params map[string]any, ctx *Context) (success bool, result map[string]any, err error)
}

// ExecutorFunc adapts a plain function to the Executor interface, the way
// the teacher's plugin wrappers adapt reflection-free Go funcs to Task.
type ExecutorFunc func(params map[string]any, ctx *Context) (bool, map[string]any, error)

func (f ExecutorFunc) Execute(params map[string]any, ctx *Context) (bool, map[string]any, error) {
	return f(params, ctx)
}

// Registry maps a component name to its Executor (spec.md §4.4). Names are
// unique; registering under an existing name replaces the prior executor.
type Registry struct {
	executors map[string]Executor
}

func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]Executor)}
}

// Register adds or replaces the executor for name.
func (r *Registry) Register(name string, executor Executor) {
	r.executors[name] = executor
}

// Lookup returns the executor registered under name, if any.
func (r *Registry) Lookup(name string) (Executor, bool) {
	e, ok := r.executors[name]
	return e, ok
}

// List returns all registered component names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.executors))
	for name := range r.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
