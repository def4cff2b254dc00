// Package main implements the f2q CLI: fermion-to-qubit mappings of
// second-quantized Hamiltonians.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// version information
	version = "dev"

	// configPath overrides ~/.config/f2q/config.yaml
	configPath string
	// envFile is read for F2Q_* settings before the process environment
	envFile string
	// logLevel and logFormat override the logging section
	logLevel  string
	logFormat string
	// metricsFile receives a Prometheus textfile after each command
	metricsFile string
	// telemetryEnabled turns on OTLP export
	telemetryEnabled bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	if ferr := teardown(err); ferr != nil && err == nil {
		err = ferr
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "f2q",
	Short: "Map fermionic Hamiltonians onto qubits",
	Long: `f2q converts second-quantized fermionic Hamiltonians (constant offset,
one-body and two-body integrals over spin-orbitals) into canonical sums of
weighted Pauli strings on up to 64 qubits.

Supported encodings: jordan-wigner (jw), bravyi-kitaev (bk).
Supported formats:   json, yaml, toml, msgpack.

Configuration is read from ~/.config/f2q/config.yaml, a .env file and F2Q_*
environment variables, in that order; flags win over all of them.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown(nil)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ~/.config/f2q/config.yaml)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file with F2Q_* settings")
	pf.StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: json, console, auto")
	pf.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	pf.BoolVar(&telemetryEnabled, "telemetry", false, "export traces and metrics over OTLP")
}

// exitError carries a specific exit status, e.g. for diff.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// usageError reports invalid flag combinations.
func usageError(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}
