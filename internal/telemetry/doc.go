// Package telemetry provides OpenTelemetry tracing and metrics for f2q.
//
// Telemetry is off by default. When enabled, spans and metrics are exported
// over OTLP (gRPC by default, or HTTP/protobuf) to a local collector:
//
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	tracer := tel.Tracer("github.com/fyrsmithlabs/f2q/cmd/f2q")
//	ctx, span := tracer.Start(ctx, "f2q.convert")
//	defer span.End()
//
// Exporter failures never abort a run; the instance is marked degraded and
// falls back to the global no-op providers.
//
// Tests use NewTestTelemetry, which records spans and metrics in memory.
package telemetry
