// Command movatalkctl loads a pipeline document and runs it to completion,
// the minimal driver for the engine core — spec.md's non-goals explicitly
// exclude CLI argument-parsing frameworks, so flag parsing here stays to
// the standard library.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/movatalk/pipeline/components"
	"github.com/movatalk/pipeline/internal/telemetry"
	"github.com/movatalk/pipeline/pipeline"
	"github.com/movatalk/pipeline/pipeline/yamlfmt"
)

func main() {
	var (
		path         = flag.String("pipeline", "", "path to a pipeline document (required)")
		otlpEndpoint = flag.String("otlp-endpoint", "", "OTLP gRPC collector address; empty disables export")
		serviceName  = flag.String("service-name", "movatalk-pipeline", "service name reported to telemetry")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: movatalkctl -pipeline <path>")
		os.Exit(2)
	}

	ctx := context.Background()

	tel, err := telemetry.New(ctx, telemetry.Config{ServiceName: *serviceName, Endpoint: *otlpEndpoint})
	if err != nil {
		log.Fatalf("initializing telemetry: %v", err)
	}
	defer tel.Shutdown(ctx)

	registry := pipeline.NewRegistry()
	components.Register(registry)

	engine := pipeline.NewEngine(registry, tel.Logger)
	engine.SetTelemetry(tel)

	if err := engine.LoadPipelineFromFile(*path, yamlfmt.LoadFile); err != nil {
		log.Fatalf("loading pipeline %s: %v", *path, err)
	}

	success, _, err := engine.Start(ctx, false)
	if err != nil {
		log.Fatalf("running pipeline: %v", err)
	}

	execCtx := engine.Context()
	tel.Logger.Info("pipeline run finished",
		slog.Bool("success", success),
		slog.Int("error_count", len(execCtx.Errors)),
	)

	if !success {
		for _, e := range execCtx.Errors {
			fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", e.Kind, e.StepName, e.Message)
		}
		os.Exit(1)
	}
}
