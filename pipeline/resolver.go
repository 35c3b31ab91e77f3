package pipeline

import (
	"fmt"
	"regexp"

	"github.com/Jeffail/gabs/v2"
)

// refPattern matches the ${PATH} variable reference grammar from spec.md §6:
// PATH := SEGMENT ('.' SEGMENT)*, SEGMENT := [A-Za-z0-9_]+.
var refPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)*)\}`)

// ResolveValue expands every ${PATH} reference found in value against ctx,
// per the Variable Resolver contract in spec.md §4.2. Strings, maps, and
// sequences are walked recursively; any other value is returned unchanged.
func ResolveValue(value any, ctx *Context) any {
	switch v := value.(type) {
	case string:
		return resolveString(v, ctx)
	case map[string]any:
		resolved := make(map[string]any, len(v))
		for k, val := range v {
			resolved[k] = ResolveValue(val, ctx)
		}
		return resolved
	case []any:
		resolved := make([]any, len(v))
		for i, val := range v {
			resolved[i] = ResolveValue(val, ctx)
		}
		return resolved
	default:
		return value
	}
}

// resolveString replaces every ${PATH} occurrence in s. When s is exactly
// one ${PATH} token with no surrounding text, the resolved value's native
// type is preserved instead of being stringified — see spec.md §9 open
// question; we take the type-preserving reading since component params
// (e.g. audio_record's duration, loop's collection) need to flow through
// as numbers/maps/lists, not their string representation.
func resolveString(s string, ctx *Context) any {
	if loc := refPattern.FindStringIndex(s); loc != nil && loc[0] == 0 && loc[1] == len(s) {
		path := refPattern.FindStringSubmatch(s)[1]
		return lookupPath(path, ctx)
	}

	return refPattern.ReplaceAllStringFunc(s, func(match string) string {
		path := refPattern.FindStringSubmatch(match)[1]
		value := lookupPath(path, ctx)
		if value == nil {
			return ""
		}
		return fmt.Sprintf("%v", value)
	})
}

// lookupPath descends PATH through the named roots (variables/results/
// state/errors), or the generic context root otherwise, returning nil on
// any miss — a non-mapping intermediate or an absent key never panics or
// returns an error, satisfying the resolver's miss-tolerance invariant.
func lookupPath(path string, ctx *Context) any {
	container := gabs.Wrap(ctx.Roots())
	result := container.Path(path)
	if result == nil {
		return nil
	}
	return result.Data()
}
