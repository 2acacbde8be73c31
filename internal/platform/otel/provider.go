// Package otel wires OpenTelemetry tracing for the voidlight binaries.
package otel

import (
	"context"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	endpointVar    = "VOIDLIGHT_OTEL_ENDPOINT"
	enabledVar     = "VOIDLIGHT_OTEL_ENABLED"
	sampleRatioVar = "VOIDLIGHT_OTEL_SAMPLE_RATIO"
)

// Settings is the tracing configuration read from the environment.
type Settings struct {
	Endpoint    string
	Enabled     bool
	SampleRatio float64
}

// SettingsFromEnv reads VOIDLIGHT_OTEL_* variables. Tracing is enabled only
// when an endpoint is present and VOIDLIGHT_OTEL_ENABLED is not "false".
func SettingsFromEnv() Settings {
	s := Settings{
		Endpoint:    strings.TrimSpace(os.Getenv(endpointVar)),
		SampleRatio: 1,
	}
	s.Enabled = s.Endpoint != "" && !strings.EqualFold(os.Getenv(enabledVar), "false")
	if raw := strings.TrimSpace(os.Getenv(sampleRatioVar)); raw != "" {
		if ratio, err := strconv.ParseFloat(raw, 64); err == nil && ratio >= 0 && ratio <= 1 {
			s.SampleRatio = ratio
		}
	}
	return s
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// When tracing is disabled Setup returns a no-op shutdown function and no
// global provider is registered. The returned shutdown function flushes
// pending spans and should be deferred by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	settings := SettingsFromEnv()
	if !settings.Enabled {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(settings.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace("voidlight"),
		),
	)
	if err != nil {
		return noop, err
	}

	sampler := sdktrace.AlwaysSample()
	if settings.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.SampleRatio))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer from the global provider. It is a no-op
// tracer until Setup registers a real provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer("github.com/louisbranch/voidlight/" + name)
}
