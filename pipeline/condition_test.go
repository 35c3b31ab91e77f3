package pipeline

import "testing"

func TestEvaluateConditionEmptyIsTrue(t *testing.T) {
	ctx := NewContext(nil)
	if !EvaluateCondition("s", "", ctx) {
		t.Fatal("empty condition must be true")
	}
}

func TestEvaluateConditionFalse(t *testing.T) {
	ctx := NewContext(nil)
	if EvaluateCondition("s", "1 == 2", ctx) {
		t.Fatal("1 == 2 must be false")
	}
}

func TestEvaluateConditionAgainstVariables(t *testing.T) {
	ctx := NewContext(map[string]any{"age": 7})
	if !EvaluateCondition("s", "variables.age < 10", ctx) {
		t.Fatal("expected true")
	}
}

func TestEvaluateConditionLogicalOperators(t *testing.T) {
	ctx := NewContext(map[string]any{"a": true, "b": false})
	if !EvaluateCondition("s", "variables.a and not variables.b", ctx) {
		t.Fatal("expected true")
	}
	if EvaluateCondition("s", "variables.a and variables.b", ctx) {
		t.Fatal("expected false")
	}
}

func TestEvaluateConditionFailureYieldsFalseAndAppendsDiagnostic(t *testing.T) {
	ctx := NewContext(nil)
	if EvaluateCondition("s", "not a valid expr (((", ctx) {
		t.Fatal("malformed expression must evaluate false")
	}
	if len(ctx.Errors) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(ctx.Errors))
	}
}

func TestEvaluateConditionForbidsBuiltins(t *testing.T) {
	ctx := NewContext(nil)
	if EvaluateCondition("s", `len("x") == 1`, ctx) {
		t.Fatal("built-in calls must be rejected, not evaluated")
	}
	if len(ctx.Errors) != 1 {
		t.Fatalf("expected a diagnostic for the rejected builtin call, got %d", len(ctx.Errors))
	}
}
