package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/sujalbistaa/twitclone/internal/service"

const resultKey = attribute.Key("twitclone.result")

type telemetry struct {
	tracer trace.Tracer
	ops    metric.Int64Counter
}

// newTelemetry builds the tracer and the operation counter. Nil providers
// fall back to the process-wide ones installed by the caller.
func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (telemetry, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	t := telemetry{tracer: tp.Tracer(instrumentationName)}
	ops, err := mp.Meter(instrumentationName).Int64Counter("twitclone.service.operations",
		metric.WithDescription("Service operations by name and result kind"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		t.ops, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("twitclone.service.operations")
		return t, err
	}
	t.ops = ops
	return t, nil
}

func initTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) telemetry {
	t, err := newTelemetry(tp, mp)
	if err != nil {
		slog.Warn("Operation counter disabled", "error", err)
	}
	return t
}

func (t telemetry) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "service."+op, trace.WithAttributes(attrs...))
}

// end closes span and counts the operation. Pass the operation's final error.
func (t telemetry) end(ctx context.Context, span trace.Span, op string, err error) {
	result := "ok"
	if err != nil {
		result = string(KindOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
	}
	span.SetAttributes(resultKey.String(result))
	t.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		resultKey.String(result),
	))
	span.End()
}
