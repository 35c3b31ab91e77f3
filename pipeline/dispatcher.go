package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// dispatchStep implements the Step Dispatcher (spec.md §4.5): evaluate the
// guard, resolve the step's variable-bearing fields, invoke the
// type-specific handler, and record the result. A non-nil return means the
// step failed; the caller (Engine.run, or RunSteps for a nested step list)
// is responsible for the continue_on_error decision and for appending the
// error descriptor.
func dispatchStep(ctx context.Context, registry *Registry, logger *slog.Logger, execCtx *Context, step Step, name string) error {
	if !EvaluateCondition(name, step.If, execCtx) {
		return nil
	}

	var (
		success bool
		result  map[string]any
		err     error
	)

	switch step.Type {
	case StepComponent:
		success, result, err = dispatchComponent(registry, step, name, execCtx)
	case StepShell:
		success, result, err = dispatchShell(ctx, step, execCtx)
	case StepScript:
		success, result, err = dispatchScript(ctx, step, execCtx)
	case StepPipeline:
		success, result, err = dispatchSubPipeline(ctx, registry, logger, step, execCtx)
	default:
		return ValidationError(name, "unknown step type %q", step.Type)
	}

	if err != nil {
		return ExecutionError(name, err)
	}
	if !success {
		return ExecutionError(name, fmt.Errorf("step reported failure"))
	}

	execCtx.Results[name] = result
	return nil
}

// structuralParamKeys names, per built-in component, the params that hold a
// nested step list rather than a value to resolve. loop and condition
// interpret these as raw Step definitions dispatched through RunSteps, which
// resolves each nested step's own fields at the moment it runs — resolving
// them ahead of time here would freeze references like
// "${variables.loop_index}" at their pre-loop (absent) value.
var structuralParamKeys = map[string][]string{
	"condition": {"true_pipeline", "false_pipeline"},
	"loop":      {"steps"},
}

func dispatchComponent(registry *Registry, step Step, name string, execCtx *Context) (bool, map[string]any, error) {
	executor, ok := registry.Lookup(step.Component)
	if !ok {
		return false, nil, ValidationError(name, "unregistered component %q", step.Component)
	}

	skip := structuralParamKeys[step.Component]
	params := make(map[string]any, len(step.Params))
	for k, v := range step.Params {
		if containsString(skip, k) {
			params[k] = v
			continue
		}
		params[k] = ResolveValue(v, execCtx)
	}
	return executor.Execute(params, execCtx)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// RunSteps dispatches a nested step list against execCtx's own Registry —
// the same path the Driver uses for a Document's top-level steps, reused
// by the loop and condition components (spec.md §5: "inner sequences
// executed in nested order for loop/branch/sub-pipeline components").
// Each nested step's variable-bearing fields are resolved at the moment it
// runs, not in advance, so per-iteration writes like variables.loop_index
// are visible to the steps that follow them. Returns the nested run's
// overall success flag; a step failure without continue_on_error stops the
// remaining steps in this list.
func RunSteps(ctx context.Context, execCtx *Context, steps []Step) (bool, error) {
	registry := execCtx.Registry()
	if registry == nil {
		return false, StateError("no registry bound to this context")
	}
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return false, nil
		}
		name := step.EffectiveName(i)
		if err := dispatchStep(ctx, registry, nil, execCtx, step, name); err != nil {
			execCtx.AddError(name, err)
			if !step.ContinueOnError {
				return false, nil
			}
		}
	}
	return true, nil
}

func dispatchShell(ctx context.Context, step Step, execCtx *Context) (bool, map[string]any, error) {
	command := resolveToString(step.Command, execCtx)
	workingDir := resolveToString(step.WorkingDir, execCtx)
	return RunShell(ctx, command, workingDir, step.IgnoreErrors)
}

func dispatchScript(ctx context.Context, step Step, execCtx *Context) (bool, map[string]any, error) {
	result, err := RunScript(ctx, step.Code, step.Imports, execCtx)
	if err != nil {
		return false, nil, err
	}
	return true, result, nil
}

// resolveToString resolves a string field through the Variable Resolver,
// coercing a whole-string type-preserved result back to its string form —
// shell commands and working directories are always strings on the wire.
func resolveToString(s string, ctx *Context) string {
	if s == "" {
		return ""
	}
	resolved := resolveString(s, ctx)
	str, ok := resolved.(string)
	if ok {
		return str
	}
	return fmt.Sprintf("%v", resolved)
}
