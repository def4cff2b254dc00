package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/f2q/internal/encoding"
	"github.com/fyrsmithlabs/f2q/internal/hamil"
	"github.com/fyrsmithlabs/f2q/internal/logging"
	"github.com/fyrsmithlabs/f2q/internal/serialize"
)

var (
	convertOutput      string
	convertInputFormat string
	convertQubits      int
)

func init() {
	rootCmd.AddCommand(convertCmd)

	f := convertCmd.Flags()
	f.StringP("encoding", "e", "jordan-wigner", "encoding: jordan-wigner (jw) or bravyi-kitaev (bk)")
	f.StringP("format", "f", "json", "output format: json, yaml, toml, msgpack")
	f.Int("workers", 0, "encoding goroutines (0 = GOMAXPROCS)")
	f.Int("batch-size", 256, "operators per worker batch")
	f.Bool("normalize", true, "drop coefficients below --tolerance")
	f.Float64("tolerance", 1e-12, "normalization threshold")
	f.StringVarP(&convertOutput, "output", "o", "-", "output file (- for stdout)")
	f.StringVar(&convertInputFormat, "input-format", "", "input format (default: from extension, else json)")
	f.IntVar(&convertQubits, "qubits", 0, "register size (default: num_orbitals of the input)")
}

// convertCmd maps a fermionic Hamiltonian onto qubits
var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Map a fermionic Hamiltonian to a Pauli sum",
	Long: `Read a fermionic Hamiltonian and write its qubit encoding as a Pauli-sum
document.

The input is either an integral table

  num_orbitals: 4
  constant: 0.71
  one_body: [{p: 0, q: 0, value: -1.25}]
  two_body: [{p: 0, q: 1, r: 1, s: 0, value: 0.33}]

or a fermion document ({"type": "sumrepr", "encoding": "fermions", ...}).
The output is {"type": "sumrepr", "encoding": "qubits", "terms": [...]} with
terms in canonical order.

Examples:
  # Jordan-Wigner, JSON to stdout
  f2q convert h2.yaml

  # Bravyi-Kitaev, MessagePack to a file
  f2q convert -e bk -f msgpack -o h2.mp h2.yaml

  # From stdin
  f2q generate fermions --orbitals 8 | f2q convert -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	a := current
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	data, format, err := readInput(cmd, path, convertInputFormat)
	if err != nil {
		return err
	}
	in, err := serialize.ReadIntegrals(data, format)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	nQubits := in.NumOrbitals
	if cmd.Flags().Changed("qubits") {
		if convertQubits < in.NumOrbitals {
			return usageError("--qubits %d is below num_orbitals %d", convertQubits, in.NumOrbitals)
		}
		nQubits = convertQubits
	}
	enc, err := encoding.New(a.encodingKind(), nQubits)
	if err != nil {
		return err
	}
	engine, err := a.engine()
	if err != nil {
		return err
	}

	logger.Info(ctx, "converting",
		zap.String("input", path),
		zap.String("input.format", string(format)),
		zap.Int("orbitals", in.NumOrbitals),
		zap.Int("operators", in.Len()))

	sum, err := engine.Map(ctx, hamil.FromIntegrals(in), enc)
	if err != nil {
		return err
	}

	out := a.outputFormat(cmd, convertOutput)
	return a.writeOutput(cmd, convertOutput, out, func(w io.Writer) error {
		return serialize.WriteSum(w, out, sum)
	})
}
