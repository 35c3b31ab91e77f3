package pipeline

import (
	"bytes"
	"context"
	"os/exec"
)

// RunShell executes a "shell" step's command through the platform shell, the
// same shape as the Python original's subprocess.Popen(shell=True), adapted
// to the teacher's pattern of handing a step.Context-derived context.Context
// down to the underlying call, so cancelling the context passed to
// Engine.Start kills an in-flight command. Engine.Stop does not: it only
// takes effect between steps.
//
// The step succeeds when the command exits 0, or unconditionally when
// ignoreErrors is set (spec.md §4.8's shell component: "ignore_errors lets a
// non-zero exit still count as step success"). Non-zero exit without
// ignoreErrors is reported as a failure result, not a Go error — the
// Dispatcher decides whether that failure aborts the run via
// ContinueOnError, matching every other component's (success, result, err)
// contract.
func RunShell(ctx context.Context, command, workingDir string, ignoreErrors bool) (bool, map[string]any, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if workingDir != "" {
		cmd.Dir = workingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return false, nil, runErr
		}
	}

	result := map[string]any{
		"exit_code": exitCode,
		"stdout":    stdout.String(),
		"stderr":    stderr.String(),
	}

	success := exitCode == 0 || ignoreErrors
	return success, result, nil
}
