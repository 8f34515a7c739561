package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-commentary/internal/app"
	"github.com/riskibarqy/match-commentary/internal/config"
	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
	"github.com/riskibarqy/match-commentary/internal/observability"
	"github.com/riskibarqy/match-commentary/internal/platform/logging"
	"github.com/riskibarqy/match-commentary/internal/usecase"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 2 {
		printUsage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	cfg = cfg.WithPaths(argAt(args, 0), argAt(args, 1))

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Warn("stop pyroscope", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, span := usecase.StartRunSpan(ctx, "pipeline.run")
	defer span.End()

	pipeline, err := app.NewPipeline(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "build pipeline", "error", err, "kind", errorKind(err))
		return 1
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logger.Warn("close pipeline resources", "error", err)
		}
	}()

	logger.InfoContext(ctx, "pipeline starting", "input", cfg.InputPath, "output", cfg.OutputPath, "workers", cfg.MaxWorkers)

	summary, err := pipeline.Service.Run(ctx)
	if err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "pipeline failed", "error", err, "kind", errorKind(err))
		return 1
	}

	if cfg.SummaryPath != "" {
		if err := usecase.WriteSummary(cfg.SummaryPath, summary); err != nil {
			logger.ErrorContext(ctx, "write run summary", "error", err, "path", cfg.SummaryPath)
			return 1
		}
	}

	return 0
}

func argAt(args []string, idx int) string {
	if idx < len(args) {
		return args[idx]
	}
	return ""
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, commentary.ErrSchemaViolation):
		return "schema_violation"
	case errors.Is(err, commentary.ErrOutputWrite):
		return "output_write"
	case errors.Is(err, usecase.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return "dependency_unavailable"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "internal"
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "usage: %s [input.csv] [output.csv]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "paths default to PIPELINE_INPUT_PATH and PIPELINE_OUTPUT_PATH")
}
