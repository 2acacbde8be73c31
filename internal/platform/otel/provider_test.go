package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/voidlight/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("VOIDLIGHT_OTEL_ENDPOINT", "")
	t.Setenv("VOIDLIGHT_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("VOIDLIGHT_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("VOIDLIGHT_OTEL_ENABLED", "false")

	if otel.SettingsFromEnv().Enabled {
		t.Fatal("expected tracing disabled")
	}
	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export happens.
	t.Setenv("VOIDLIGHT_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("VOIDLIGHT_OTEL_ENABLED", "")
	t.Setenv("VOIDLIGHT_OTEL_SAMPLE_RATIO", "0.5")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSettingsFromEnvSampleRatio(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", 1},
		{"0.25", 0.25},
		{"nope", 1},
		{"2", 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("VOIDLIGHT_OTEL_SAMPLE_RATIO", tt.raw)
			if got := otel.SettingsFromEnv().SampleRatio; got != tt.want {
				t.Fatalf("ratio = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTracerWithoutSetupIsUsable(t *testing.T) {
	_, span := otel.Tracer("test").Start(context.Background(), "op")
	span.End()
}

func TestSetup_NoopShutdownIgnoresCancelledContext(t *testing.T) {
	t.Setenv("VOIDLIGHT_OTEL_ENDPOINT", "")
	t.Setenv("VOIDLIGHT_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "noop-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}
