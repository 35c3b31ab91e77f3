// Package yamlfmt implements the Document Parser (spec.md §4.1) over the
// YAML document surface chosen for the pipeline format. Importing the
// package for its side effect wires it into pipeline as the document loader
// used by "pipeline"-type steps (pipeline.SetDocumentLoader).
package yamlfmt

import (
	"fmt"
	"os"

	"github.com/movatalk/pipeline/pipeline"
	goyaml "gopkg.in/yaml.v3"
)

func init() {
	pipeline.SetDocumentLoader(LoadFile)
}

// Parse parses raw YAML bytes into a Document, validating that the required
// steps field is present. variables defaults to an empty map when absent.
func Parse(data []byte) (*pipeline.Document, error) {
	var doc pipeline.Document
	if err := goyaml.Unmarshal(data, &doc); err != nil {
		return nil, pipeline.ParseError("invalid document: %s", err)
	}
	if doc.Steps == nil {
		return nil, pipeline.ValidationError("", "document is missing required field %q", "steps")
	}
	if doc.Variables == nil {
		doc.Variables = make(map[string]any)
	}
	return &doc, nil
}

// LoadFile reads and parses a document from a filesystem path.
func LoadFile(path string) (*pipeline.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	return Parse(data)
}
