package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/f2q/internal/config"
	"github.com/fyrsmithlabs/f2q/internal/encoding"
	"github.com/fyrsmithlabs/f2q/internal/logging"
	"github.com/fyrsmithlabs/f2q/internal/mapping"
	"github.com/fyrsmithlabs/f2q/internal/serialize"
	"github.com/fyrsmithlabs/f2q/internal/telemetry"
)

const instrumentationName = "github.com/fyrsmithlabs/f2q/cmd/f2q"

// app holds the per-invocation services built by setup.
type app struct {
	cmd       *cobra.Command
	cfg       *config.Config
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	registry  *prometheus.Registry
	metrics   *mapping.Metrics

	commands    metric.Int64Counter
	outputBytes metric.Int64Histogram
	start       time.Time
}

var current *app

// setup loads configuration and builds logging, telemetry and metrics. It
// stores the logger and a run id in the command context.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tel, err := telemetry.New(ctx, telemetryConfig(cfg))
	if err != nil {
		return err
	}

	logCfg, err := loggingConfig(cfg)
	if err != nil {
		return err
	}
	logProvider := tel.LoggerProvider()
	if logCfg.Output.OTEL && logProvider == nil {
		logProvider = global.GetLoggerProvider()
	}
	logger, err := logging.NewLogger(logCfg, logProvider)
	if err != nil {
		return err
	}

	runID := logging.NewRunID()
	ctx = logging.WithRunID(ctx, runID)
	ctx = logging.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	if err := tel.Err(); err != nil {
		logger.Warn(ctx, "telemetry degraded", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	a := &app{
		cmd:       cmd,
		cfg:       cfg,
		logger:    logger,
		telemetry: tel,
		registry:  reg,
		metrics:   mapping.NewMetrics(reg),
		start:     time.Now(),
	}

	meter := tel.Meter(instrumentationName)
	if a.commands, err = meter.Int64Counter("f2q.commands",
		metric.WithDescription("CLI commands executed")); err != nil {
		return fmt.Errorf("create commands counter: %w", err)
	}
	if a.outputBytes, err = meter.Int64Histogram("f2q.output.size",
		metric.WithDescription("Size of written documents"),
		metric.WithUnit("By")); err != nil {
		return fmt.Errorf("create output histogram: %w", err)
	}

	logger.Debug(ctx, "configuration loaded",
		zap.String("command", cmd.CommandPath()),
		zap.String("encoding", cfg.Mapping.Encoding),
		zap.Int("workers", cfg.Mapping.Workers),
		zap.String("output.format", cfg.Output.Format),
		zap.Bool("telemetry", cfg.Telemetry.Enabled))

	current = a
	return nil
}

// teardown finishes the current invocation. Cobra skips post-run hooks
// when a command fails, so main calls it again with the error.
func teardown(cmdErr error) error {
	a := current
	if a == nil {
		return nil
	}
	current = nil
	return a.finish(cmdErr)
}

// finish records the command, writes the metrics textfile and flushes
// telemetry and logs.
func (a *app) finish(cmdErr error) error {
	cmd := a.cmd
	ctx := cmd.Context()
	status := "ok"
	if cmdErr != nil {
		status = "error"
	}
	a.commands.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", cmd.Name()),
		attribute.String("status", status),
	))

	var errs []error
	if path := a.cfg.Output.MetricsFile; path != "" {
		if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics file: %w", err))
		}
	}
	if err := a.telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
		a.logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
	}
	fields := []zap.Field{
		zap.String("command", cmd.CommandPath()),
		zap.String("status", status),
		zap.Duration("duration", time.Since(a.start)),
	}
	if cmdErr != nil {
		a.logger.Debug(ctx, "command failed", append(fields, zap.Error(cmdErr))...)
	} else {
		a.logger.Debug(ctx, "command finished", fields...)
	}
	if err := a.logger.Sync(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// applyFlags lets explicitly set flags override loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = metricsFile
	}
	if flags.Changed("telemetry") {
		cfg.Telemetry.Enabled = telemetryEnabled
	}
	if flags.Changed("encoding") {
		cfg.Mapping.Encoding, _ = flags.GetString("encoding")
	}
	if flags.Changed("workers") {
		cfg.Mapping.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("batch-size") {
		cfg.Mapping.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("normalize") {
		cfg.Mapping.Normalize, _ = flags.GetBool("normalize")
	}
	if flags.Changed("tolerance") {
		cfg.Mapping.Tolerance, _ = flags.GetFloat64("tolerance")
	}
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if err := cfg.Validate(); err != nil {
		return &exitError{code: 2, err: err}
	}
	return nil
}

func loggingConfig(cfg *config.Config) (*logging.Config, error) {
	lc := logging.NewDefaultConfig()
	lvl, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	lc.Level = lvl
	lc.Format = cfg.Logging.Format
	lc.Sampling.Enabled = cfg.Logging.Sampling
	lc.Output.OTEL = cfg.Logging.OTEL
	lc.Fields["version"] = version
	return lc, nil
}

func telemetryConfig(cfg *config.Config) *telemetry.Config {
	tc := telemetry.NewDefaultConfig()
	tc.Enabled = cfg.Telemetry.Enabled
	tc.Endpoint = cfg.Telemetry.Endpoint
	tc.Protocol = cfg.Telemetry.Protocol
	tc.Insecure = cfg.Telemetry.Insecure
	tc.ServiceVersion = version
	tc.Sampling.Rate = cfg.Telemetry.SampleRate
	tc.Metrics.Enabled = cfg.Telemetry.Metrics
	tc.Shutdown.Timeout = cfg.Telemetry.ShutdownTimeout
	return tc
}

// engine builds a mapping engine from the mapping section.
func (a *app) engine() (*mapping.Engine, error) {
	mc := mapping.NewDefaultConfig()
	if a.cfg.Mapping.Workers > 0 {
		mc.Workers = a.cfg.Mapping.Workers
	}
	mc.BatchSize = a.cfg.Mapping.BatchSize
	mc.Normalize = a.cfg.Mapping.Normalize
	mc.Tolerance = a.cfg.Mapping.Tolerance
	return mapping.New(mc,
		mapping.WithLogger(a.logger),
		mapping.WithMetrics(a.metrics),
		mapping.WithTracer(a.telemetry.Tracer(instrumentationName)),
	)
}

func (a *app) encodingKind() encoding.Kind {
	// Validated by config.Validate.
	kind, _ := encoding.ParseKind(a.cfg.Mapping.Encoding)
	return kind
}

// outputFormat picks the format for writing to path: an explicit --format,
// else the extension of path, else output.format from config.
func (a *app) outputFormat(cmd *cobra.Command, path string) serialize.Format {
	if !cmd.Flags().Changed("format") && path != "" && path != "-" {
		if f, err := serialize.FormatFromPath(path); err == nil {
			return f
		}
	}
	f, _ := serialize.ParseFormat(a.cfg.Output.Format)
	return f
}

// readInput reads path, or stdin for "" and "-". The format comes from
// override when set, else from the file extension, else JSON.
func readInput(cmd *cobra.Command, path, override string) ([]byte, serialize.Format, error) {
	format := serialize.FormatJSON
	if override != "" {
		f, err := serialize.ParseFormat(override)
		if err != nil {
			return nil, "", usageError("--input-format: %v", err)
		}
		format = f
	} else if path != "" && path != "-" {
		if f, err := serialize.FormatFromPath(path); err == nil {
			format = f
		}
	}

	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read file %s: %w", path, err)
		}
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("no input")
	}
	return data, format, nil
}

// writeOutput runs write against path, or stdout for "" and "-". Binary
// formats are not written to a terminal.
func (a *app) writeOutput(cmd *cobra.Command, path string, format serialize.Format, write func(io.Writer) error) error {
	var w io.Writer
	if path == "" || path == "-" {
		out := cmd.OutOrStdout()
		if f, ok := out.(*os.File); ok && format.Binary() && isatty.IsTerminal(f.Fd()) {
			return usageError("refusing to write %s to a terminal; use --output", format)
		}
		w = out
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	cw := &countingWriter{w: w}
	if err := write(cw); err != nil {
		return fmt.Errorf("write %s output: %w", format, err)
	}
	a.outputBytes.Record(cmd.Context(), cw.n, metric.WithAttributes(
		attribute.String("format", string(format)),
	))
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
