package logging

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).With("run_id", "r1")

	logger.Warn("match excluded", "match_id", "M1", "sides", 3, "error", errors.New("boom"), "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["run_id"] != "r1" {
		t.Fatalf("missing run_id field: %+v", fields)
	}
	if fields["match_id"] != "M1" {
		t.Fatalf("missing match_id field: %+v", fields)
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field: %+v", fields["error"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept: %+v", fields)
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := FromZap(zap.New(core))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown")

	if logs.Len() != 1 {
		t.Fatalf("expected only the error entry, got %d", logs.Len())
	}
}

func TestLogger_AddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "with trace")
	logger.InfoContext(context.Background(), "without trace")

	entries := logs.All()
	if entries[0].ContextMap()["trace_id"] != "0102030405060708090a0b0c0d0e0f10" {
		t.Fatalf("missing trace id: %+v", entries[0].ContextMap())
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Fatalf("unexpected trace id without span")
	}
}

func TestLogger_NilUsesDefault(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	previous := Default()
	SetDefault(FromZap(zap.New(core)))
	t.Cleanup(func() { SetDefault(previous) })

	var logger *Logger
	logger.Info("via default")

	if logs.Len() != 1 {
		t.Fatalf("expected default logger to receive entry")
	}
}
