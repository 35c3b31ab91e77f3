package pipeline

import "strconv"

// Document is a parsed pipeline description: the result of the Document
// Parser, before any variable resolution has taken place.
type Document struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Version     string         `yaml:"version"`
	Variables   map[string]any `yaml:"variables"`
	Steps       []Step         `yaml:"steps"`
}

// StepType identifies which handler the Dispatcher routes a Step to.
type StepType string

const (
	StepComponent StepType = "component"
	StepShell     StepType = "shell"
	StepScript    StepType = "script"
	StepPipeline  StepType = "pipeline"
)

// Step is a single unit of work in a Document. Only the fields relevant to
// its Type are populated; the rest are left at their zero value.
type Step struct {
	Name            string         `yaml:"name"`
	Type            StepType       `yaml:"type"`
	If              string         `yaml:"if"`
	ContinueOnError bool           `yaml:"continue_on_error"`

	// type: component
	Component string         `yaml:"component"`
	Params    map[string]any `yaml:"params"`

	// type: shell
	Command      string `yaml:"command"`
	WorkingDir   string `yaml:"working_dir"`
	IgnoreErrors bool   `yaml:"ignore_errors"`

	// type: script
	Code    string   `yaml:"code"`
	Imports []string `yaml:"imports"`

	// type: pipeline
	Path            string         `yaml:"path"`
	SubVariables    map[string]any `yaml:"variables"`
	ExportVariables bool           `yaml:"export_variables"`
}

// EffectiveName returns the step's declared Name, defaulting to
// "step_<index>" per spec.md §3.
func (s Step) EffectiveName(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return stepIndexName(index)
}

func stepIndexName(index int) string {
	return "step_" + strconv.Itoa(index)
}
