package pipeline

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// EvaluateCondition implements the Condition Evaluator contract of spec.md
// §4.3. A nil/empty expression is always true. The expression is first run
// through the Variable Resolver, then compiled and run by expr-lang with
// every built-in function disabled — only identifier lookups against the
// context/variables/results/state/errors roots are available, so scripts
// cannot reach process, file, or arbitrary Go-attribute access. Evaluation
// failure yields false and a diagnostic appended to ctx.Errors; it never
// aborts the run.
func EvaluateCondition(step string, rawExpr string, ctx *Context) bool {
	if rawExpr == "" {
		return true
	}

	resolved := resolveString(rawExpr, ctx)
	exprStr, ok := resolved.(string)
	if !ok {
		exprStr = fmt.Sprintf("%v", resolved)
	}

	env := ctx.Roots()
	program, err := expr.Compile(exprStr, expr.Env(env), expr.AsBool(), expr.DisableAllBuiltins())
	if err != nil {
		ctx.AddError(step, fmt.Errorf("condition %q: %w", rawExpr, err))
		return false
	}

	result, err := expr.Run(program, env)
	if err != nil {
		ctx.AddError(step, fmt.Errorf("condition %q: %w", rawExpr, err))
		return false
	}

	b, ok := result.(bool)
	if !ok {
		ctx.AddError(step, fmt.Errorf("condition %q evaluated to non-boolean %T", rawExpr, result))
		return false
	}
	return b
}
