// Package mapping drives an encoding over a Hamiltonian in parallel and
// assembles the canonical Pauli sum.
package mapping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/f2q/internal/encoding"
	"github.com/fyrsmithlabs/f2q/internal/fermion"
	"github.com/fyrsmithlabs/f2q/internal/hamil"
	"github.com/fyrsmithlabs/f2q/internal/logging"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
)

const instrumentationName = "github.com/fyrsmithlabs/f2q/internal/mapping"

// Engine maps Hamiltonians to Pauli sums.
//
// An Engine holds no per-run state and may be shared; each Map call owns its
// workers and their partial sums.
type Engine struct {
	config  *Config
	logger  *logging.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Without it the logger stored in the
// Map context is used.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records runs into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// New creates an engine. A nil cfg uses NewDefaultConfig.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mapping config: %w", err)
	}
	e := &Engine{
		config: cfg,
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics(nil)
	}
	return e, nil
}

// Map encodes every operator of h with enc and returns the merged sum.
//
// A Materialized h is returned as a copy without touching enc. Otherwise h is
// rewound, pulled on a single dispatcher goroutine and fanned out to
// Config.Workers encoders. Operators with a zero coefficient are skipped, and
// their indices are not checked. The first failure cancels the run and no
// partial result is returned.
//
// The result is checked for non-finite coefficients (paulisum.ErrNumericOverflow)
// and, when Config.Normalize is set, stripped of coefficients below
// Config.Tolerance.
func (e *Engine) Map(ctx context.Context, h *hamil.Hamil, enc encoding.Encoding) (*paulisum.Sum, error) {
	if h == nil {
		return nil, errors.New("hamiltonian is required")
	}

	ctx, span := e.tracer.Start(ctx, "mapping.map")
	defer span.End()

	encName := "none"
	if enc != nil {
		encName = enc.Kind().String()
		span.SetAttributes(attribute.Int("qubits", enc.NumQubits()))
	}
	span.SetAttributes(
		attribute.String("encoding", encName),
		attribute.String("hamiltonian", h.Kind().String()),
		attribute.Int("workers", e.config.Workers),
	)

	logger := e.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	logger = logger.Named("mapping")

	start := time.Now()
	e.metrics.RunsTotal.WithLabelValues(encName).Inc()

	sum, err := e.run(ctx, h, enc, logger)
	if err == nil {
		err = e.finish(sum)
	}
	elapsed := time.Since(start)
	e.metrics.Duration.WithLabelValues(encName).Observe(elapsed.Seconds())

	if err != nil {
		e.metrics.ErrorsTotal.WithLabelValues(encName).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx, "mapping failed",
			zap.String("encoding", encName),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return nil, err
	}

	e.metrics.OutputTerms.Set(float64(sum.Len()))
	span.SetAttributes(attribute.Int("terms", sum.Len()))
	logger.Info(ctx, "mapping complete",
		zap.String("encoding", encName),
		zap.Int("terms", sum.Len()),
		zap.Duration("duration", elapsed))
	return sum, nil
}

func (e *Engine) run(ctx context.Context, h *hamil.Hamil, enc encoding.Encoding, logger *logging.Logger) (*paulisum.Sum, error) {
	if sum, ok := h.Materialized(); ok {
		logger.Debug(ctx, "hamiltonian already encoded", zap.Int("terms", sum.Len()))
		return sum.Clone(), nil
	}
	if enc == nil {
		return nil, errors.New("encoding is required for a fermionic hamiltonian")
	}

	h.Reset()
	defer h.Close()

	workers := e.config.Workers
	g, gctx := errgroup.WithContext(ctx)
	batches := make(chan []fermion.Operator, workers)

	g.Go(func() error {
		defer close(batches)
		return e.dispatch(gctx, h, batches)
	})

	partials := make([]*paulisum.Sum, workers)
	counts := make([][3]int, workers)
	for w := range workers {
		partials[w] = paulisum.New()
		g.Go(func() error {
			return encodeBatches(gctx, enc, batches, partials[w], &counts[w])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := partials[0]
	for w := 1; w < workers; w++ {
		sum.Merge(partials[w])
	}
	for _, c := range counts {
		e.metrics.recordOperators(c)
	}
	logger.Debug(ctx, "partial sums merged", zap.Int("workers", workers), zap.Int("terms", sum.Len()))
	return sum, nil
}

// dispatch pulls h and sends fixed-size batches until h is exhausted or ctx
// is cancelled.
func (e *Engine) dispatch(ctx context.Context, h *hamil.Hamil, out chan<- []fermion.Operator) error {
	size := e.config.BatchSize
	batch := make([]fermion.Operator, 0, size)
	send := func() error {
		select {
		case out <- batch:
			batch = make([]fermion.Operator, 0, size)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	skipped := 0
	for {
		op, ok := h.Next()
		if !ok {
			break
		}
		if op.Coeff == 0 {
			skipped++
			continue
		}
		batch = append(batch, op)
		if len(batch) == size {
			if err := send(); err != nil {
				return err
			}
		}
	}
	e.metrics.SkippedTotal.Add(float64(skipped))
	if len(batch) > 0 {
		return send()
	}
	return nil
}

func encodeBatches(ctx context.Context, enc encoding.Encoding, in <-chan []fermion.Operator, out *paulisum.Sum, counts *[3]int) error {
	for batch := range in {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, op := range batch {
			if err := encoding.Apply(enc, op, out); err != nil {
				return fmt.Errorf("mapping %s: %w", op, err)
			}
			if int(op.Kind) < len(counts) {
				counts[op.Kind]++
			}
		}
	}
	return nil
}

func (e *Engine) finish(sum *paulisum.Sum) error {
	if err := sum.Validate(); err != nil {
		return err
	}
	if e.config.Normalize {
		sum.Normalize(e.config.Tolerance)
	}
	return nil
}
