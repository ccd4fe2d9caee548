// Package observability wires OpenTelemetry tracing and metrics for the
// API client.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("studyhub"), log)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("studyhub"), log)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewClientMetrics(observability.Meter("studyhub"))
//	metrics.RecordRequest(ctx, "GET", "ok", 200, elapsed)
//
// Without Init* calls the global no-op providers apply and every
// instrument is free.
package observability
