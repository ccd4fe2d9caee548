package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/studyhub/logger"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{2.0, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{0.5, sdktrace.TraceIDRatioBased(0.5).Description()},
	}
	for _, tc := range tests {
		if got := samplerFor(tc.rate).Description(); got != tc.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
}

func TestTracerUsesGivenProvider(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := Tracer(tp).Start(context.Background(), SpanHTTPRequest)
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != SpanHTTPRequest {
		t.Errorf("span name = %q", spans[0].Name())
	}
	if spans[0].InstrumentationScope().Name != InstrumentationName {
		t.Errorf("scope = %q", spans[0].InstrumentationScope().Name)
	}
}

func TestTracerFallsBackToGlobal(t *testing.T) {
	if Tracer(nil) == nil {
		t.Fatal("expected non-nil tracer")
	}
	if Meter(nil) == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestNewClientMetricsNoop(t *testing.T) {
	metrics, err := NewClientMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	metrics.RecordRequest(ctx, "GET", "ok", 200, 10*time.Millisecond)
	metrics.RecordRefresh(ctx, RefreshSuccess)
}

func TestNilClientMetrics(t *testing.T) {
	var m *ClientMetrics
	m.RecordRequest(context.Background(), "GET", "ok", 200, time.Millisecond)
	m.RecordRefresh(context.Background(), RefreshFailure)
}

func TestClientMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := NewClientMetrics(Meter(mp))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	metrics.RecordRequest(ctx, "GET", "ok", 200, 5*time.Millisecond)
	metrics.RecordRequest(ctx, "GET", "unauthorized", 401, 5*time.Millisecond)
	metrics.RecordRefresh(ctx, RefreshSuccess)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}

	if got := sumCounter(t, rm, "api.request.total"); got != 2 {
		t.Errorf("api.request.total = %d, want 2", got)
	}
	if got := sumCounter(t, rm, "auth.refresh.total"); got != 1 {
		t.Errorf("auth.refresh.total = %d, want 1", got)
	}
}

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s has unexpected data type %T", name, m.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestOperationContext(t *testing.T) {
	oc := NewOperationContext("get", "req-1")
	ctx := WithOperationContext(context.Background(), oc)

	if got := OperationContextFromContext(ctx); got != oc {
		t.Fatal("expected the stored operation context")
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("request id = %q", got)
	}
	if oc.Duration() < 0 {
		t.Error("expected non-negative duration")
	}
}

func TestOperationContextNotSet(t *testing.T) {
	if OperationContextFromContext(context.Background()) != nil {
		t.Error("expected nil")
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("expected empty request id")
	}
}

func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := DefaultTracerConfig("test-service")
	tp, err := InitTracer(context.Background(), cfg, logger.Nop())
	if err != nil {
		// resource schema URLs can conflict across otel releases
		t.Skipf("InitTracer failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = tp.Shutdown(ctx)
}

func TestInitMeter(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	cfg := DefaultMeterConfig("test-service")
	cfg.Insecure = false
	cfg.Interval = 0
	mp, err := InitMeter(context.Background(), cfg, nil)
	if err != nil {
		t.Skipf("InitMeter failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = mp.Shutdown(ctx)
}
