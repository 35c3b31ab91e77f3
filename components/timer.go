package components

import (
	"time"

	"github.com/movatalk/pipeline/pipeline"
)

// timerComponent implements the "timer" component (spec.md §4.8): sleep,
// measure_start, and measure_end actions over Context.Timers.
func timerComponent(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	action, _ := params["action"].(string)
	switch action {
	case "sleep":
		return timerSleep(params, ctx)
	case "measure_start":
		return timerMeasureStart(params, ctx)
	case "measure_end":
		return timerMeasureEnd(params, ctx)
	default:
		return false, nil, pipeline.ValidationError("timer", "action must be one of sleep, measure_start, measure_end")
	}
}

func timerSleep(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	duration := 0.0
	if d, ok := numeric(params["duration"]); ok {
		duration = d
	}

	select {
	case <-time.After(time.Duration(duration * float64(time.Second))):
		return true, map[string]any{"slept": duration}, nil
	case <-ctx.Done():
		return false, nil, ctx.Err()
	}
}

func timerMeasureStart(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	timerName, _ := params["timer_name"].(string)
	if timerName == "" {
		return false, nil, pipeline.ValidationError("timer", "timer_name is required for action %q", "measure_start")
	}
	ctx.Timers[timerName] = time.Now()
	return true, map[string]any{"timer_name": timerName}, nil
}

func timerMeasureEnd(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	timerName, _ := params["timer_name"].(string)
	if timerName == "" {
		return false, nil, pipeline.ValidationError("timer", "timer_name is required for action %q", "measure_end")
	}
	start, ok := ctx.Timers[timerName]
	if !ok {
		return false, nil, pipeline.ValidationError("timer", "no measure_start recorded for timer_name %q", timerName)
	}
	elapsed := time.Since(start).Seconds()

	outputVar, _ := params["output_var"].(string)
	if outputVar != "" {
		ctx.Results[outputVar] = elapsed
	}
	return true, map[string]any{"timer_name": timerName, "elapsed_seconds": elapsed}, nil
}
