package pipeline

import "testing"

func TestResolveValueLiteralString(t *testing.T) {
	ctx := NewContext(map[string]any{"greeting": "Hi"})
	got := ResolveValue("${variables.greeting}, world", ctx)
	if got != "Hi, world" {
		t.Fatalf("got %v, want %q", got, "Hi, world")
	}
}

func TestResolveValuePreservesTypeForWholeStringReference(t *testing.T) {
	ctx := NewContext(nil)
	ctx.Results["count"] = 3
	got := ResolveValue("${results.count}", ctx)
	if got != 3 {
		t.Fatalf("got %v (%T), want int 3", got, got)
	}
}

func TestResolveValueIdempotentWithoutReferences(t *testing.T) {
	ctx := NewContext(nil)
	for _, s := range []string{"plain text", "", "no refs here: {not a ref}"} {
		if got := ResolveValue(s, ctx); got != s {
			t.Fatalf("resolve(%q) = %v, want unchanged", s, got)
		}
	}
}

func TestResolveValueMissTolerance(t *testing.T) {
	ctx := NewContext(nil)
	got := ResolveValue("${variables.nope}", ctx)
	if got != nil {
		t.Fatalf("got %v, want nil for a missing whole-string reference", got)
	}
	got2 := ResolveValue("before-${variables.nope}-after", ctx)
	if got2 != "before--after" {
		t.Fatalf("got %v, want empty-string substitution", got2)
	}
}

func TestResolveValueMap(t *testing.T) {
	ctx := NewContext(map[string]any{"name": "Ada"})
	in := map[string]any{"msg": "hi ${variables.name}"}
	out := ResolveValue(in, ctx).(map[string]any)
	if out["msg"] != "hi Ada" {
		t.Fatalf("got %v", out)
	}
}

func TestResolveValueSequence(t *testing.T) {
	ctx := NewContext(map[string]any{"x": "1"})
	in := []any{"${variables.x}", "literal"}
	out := ResolveValue(in, ctx).([]any)
	if out[0] != "1" || out[1] != "literal" {
		t.Fatalf("got %v", out)
	}
}
