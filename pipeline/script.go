package pipeline

import (
	"context"
	"fmt"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"
)

// RunScript evaluates a "script" step's code in a sandboxed Risor VM
// (spec.md §4.8, §9's sandboxing design note). risor.WithoutDefaultGlobals
// strips the interpreter's os/exec/file/net builtins entirely; the only
// name visible to script code is "context", exposed as plain data — there
// is no ambient access to the process, filesystem, or network from script
// code, unlike the Python original's bare exec(). This is the
// "purpose-built, restricted evaluation environment" stance spec.md §9
// calls for, adapted from the teacher's Go↔Risor globals bridge rather than
// reimplemented from scratch.
//
// imports is validated against the fixed allowlist below; unrecognized
// names fail the step instead of silently doing nothing, since a script
// requesting a capability it won't get should not look like it succeeded.
//
// The script assigns its output to a "result" global; RunScript returns
// that value converted back to a plain Go map (nil if the script set it to
// something other than a map). A script that never defines result fails
// evaluation, because the trailing "result" reference is then an undefined
// name.
func RunScript(ctx context.Context, code string, imports []string, execCtx *Context) (map[string]any, error) {
	for _, name := range imports {
		if !allowedImports[name] {
			return nil, fmt.Errorf("import %q is not permitted in a sandboxed script", name)
		}
	}

	globals := map[string]any{
		"context": contextAsData(execCtx),
	}

	result, err := risor.Eval(ctx, code+"\nresult",
		risor.WithoutDefaultGlobals(),
		risor.WithGlobals(globals),
	)
	if err != nil {
		return nil, fmt.Errorf("script evaluation: %w", err)
	}

	return objectToMap(result), nil
}

// allowedImports is the fixed set of import identifiers a script step may
// request. None currently unlock additional globals — the allowlist exists
// so that adding a module later is additive, not a breach of an implicit
// "anything goes" contract.
var allowedImports = map[string]bool{}

// contextAsData exposes the subset of Context that script code may read —
// variables/results/state/errors — as plain maps, never the *Context value
// itself, so scripts cannot reach Go methods (Slot population, the
// embedded context.Context, etc.) via Risor's reflection bridge.
func contextAsData(execCtx *Context) map[string]any {
	return execCtx.Roots()
}

// objectToMap converts a Risor return value into a map[string]any, the
// shape every step result takes in this engine.
func objectToMap(obj object.Object) map[string]any {
	if obj == nil {
		return nil
	}
	m, ok := obj.(*object.Map)
	if !ok {
		return nil
	}
	out := make(map[string]any, len(m.Value()))
	for k, v := range m.Value() {
		out[k] = objectToGo(v)
	}
	return out
}

// objectToGo recursively converts a Risor object.Object to a native Go
// value, adapted from the teacher's dsl interpreter bridge.
func objectToGo(obj object.Object) any {
	if obj == nil {
		return nil
	}
	switch o := obj.(type) {
	case *object.Map:
		m := make(map[string]any, len(o.Value()))
		for k, v := range o.Value() {
			m[k] = objectToGo(v)
		}
		return m
	case *object.List:
		items := o.Value()
		out := make([]any, len(items))
		for i, v := range items {
			out[i] = objectToGo(v)
		}
		return out
	case *object.NilType:
		return nil
	default:
		return obj.Interface()
	}
}
