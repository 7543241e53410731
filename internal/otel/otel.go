package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/contractgraph/internal/eventbus"
	events "github.com/hanpama/contractgraph/internal/events"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("contractgraph")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer       trace.Tracer
	compileSpans sync.Map // contract name -> trace.Span
	phaseSpans   sync.Map // contract name + "/" + phase -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.CompileStart) {
		_, span := s.tracer.Start(ctx, "contract.compile")
		span.SetAttributes(attribute.String("contract.name", e.Contract))
		s.compileSpans.Store(e.Contract, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.CompileFinish) {
		v, ok := s.compileSpans.LoadAndDelete(e.Contract)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("contract.violation_count", e.Violations))
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.PhaseStart) {
		_, span := s.tracer.Start(ctx, "contract.phase")
		span.SetAttributes(
			attribute.String("contract.name", e.Contract),
			attribute.String("contract.phase", e.Phase),
		)
		s.phaseSpans.Store(e.Contract+"/"+e.Phase, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.PhaseFinish) {
		v, ok := s.phaseSpans.LoadAndDelete(e.Contract + "/" + e.Phase)
		if !ok {
			return
		}
		v.(trace.Span).End()
	})
}
