// Package logging provides structured logging with OpenTelemetry integration.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Output on stderr, so stdout stays reserved for Pauli-sum documents
//   - Optional OpenTelemetry log bridge
//   - Automatic context field injection (trace_id, span_id, run.id)
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRunID(ctx, logging.NewRunID())
//	logger.Info(ctx, "mapping complete", zap.Int("terms", n))
//
// # Format
//
// "json" and "console" select the encoder directly. "auto" picks console
// when stderr is a terminal and JSON otherwise.
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	engine, _ := mapping.New(cfg, mapping.WithLogger(tl.Logger))
//	...
//	tl.AssertLogged(t, zapcore.InfoLevel, "mapping complete")
package logging
