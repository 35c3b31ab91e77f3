package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// dispatchSubPipeline implements the "pipeline" step type (spec.md §4.7): a
// fresh Engine sharing the parent's Registry runs a document loaded from
// Path, seeded with the union of parent variables and the step-local
// override (step-local wins), and reports its results/errors back as this
// step's result.
func dispatchSubPipeline(ctx context.Context, registry *Registry, logger *slog.Logger, step Step, parentCtx *Context) (bool, map[string]any, error) {
	path := resolveToString(step.Path, parentCtx)
	path = expandHome(path)

	doc, err := loadDocumentFile(path)
	if err != nil {
		return false, nil, err
	}

	seed := make(map[string]any, len(doc.Variables)+len(parentCtx.Variables)+len(step.SubVariables))
	for k, v := range doc.Variables {
		seed[k] = v
	}
	for k, v := range parentCtx.Variables {
		seed[k] = v
	}
	localOverride := ResolveValue(step.SubVariables, parentCtx)
	if m, ok := localOverride.(map[string]any); ok {
		for k, v := range m {
			seed[k] = v
		}
	}
	doc.Variables = seed

	sub := NewEngine(registry, logger)
	if err := sub.LoadPipeline(doc); err != nil {
		return false, nil, err
	}

	success, _, err := sub.Start(ctx, false)
	if err != nil {
		return false, nil, err
	}

	subCtx := sub.Context()

	if step.ExportVariables {
		for k, v := range subCtx.Variables {
			if _, exists := parentCtx.Variables[k]; !exists {
				parentCtx.Variables[k] = v
			}
		}
	}

	result := map[string]any{
		"results": subCtx.Results,
		"errors":  subCtx.errorsAsValues(),
	}
	return success, result, nil
}

// loadDocumentFile is overridable at package init so the yamlfmt parser can
// register itself without creating an import cycle between pipeline and
// pipeline/yamlfmt.
var loadDocumentFile = func(path string) (*Document, error) {
	return nil, StateError("no document parser registered; import pipeline/yamlfmt")
}

// SetDocumentLoader installs the function used to parse a sub-pipeline's
// document file. pipeline/yamlfmt calls this from an init func so that
// importing it for its side effect is enough to make "pipeline"-type steps
// work; pipeline itself stays parser-agnostic.
func SetDocumentLoader(fn func(path string) (*Document, error)) {
	loadDocumentFile = fn
}

// expandHome tilde-expands a leading "~" against the invoking user's home
// directory, per spec.md §6's sub-pipeline file reference rule.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
