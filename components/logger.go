package components

import (
	"github.com/movatalk/pipeline/collaborator"
	"github.com/movatalk/pipeline/pipeline"
)

// loggerComponent implements the "logger" component (spec.md §4.8): emit
// message at level through the logger Context slot.
func loggerComponent(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	level, _ := params["level"].(string)
	if level == "" {
		return false, nil, pipeline.ValidationError("logger", "level is required")
	}
	message, _ := params["message"].(string)
	if message == "" {
		return false, nil, pipeline.ValidationError("logger", "message is required")
	}
	logDir, _ := params["log_dir"].(string)
	logToConsole := true
	if v, ok := params["log_to_console"].(bool); ok {
		logToConsole = v
	}

	logAny, err := ctx.SlotOrCreate(pipeline.SlotLogger, func() (any, error) {
		return collaborator.NewSlogLogger(logDir, logToConsole)
	})
	if err != nil {
		return false, nil, err
	}
	logger := logAny.(collaborator.Logger)

	switch level {
	case "debug":
		logger.Debug(message)
	case "info":
		logger.Info(message)
	case "warning":
		logger.Warning(message)
	case "error":
		logger.Error(message)
	case "critical":
		logger.Critical(message)
	default:
		return false, nil, pipeline.ValidationError("logger", "unknown level %q", level)
	}

	return true, map[string]any{"logged": message}, nil
}
