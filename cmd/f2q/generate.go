package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/f2q/internal/fermion"
	"github.com/fyrsmithlabs/f2q/internal/logging"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
	"github.com/fyrsmithlabs/f2q/internal/serialize"
)

var (
	// generateSeed seeds the PCG streams; 0 uses generate.seed from config
	generateSeed   uint64
	generateOutput string
	genOrbitals    int
	genTerms       int
	genFull        bool
	genHermitian   bool
	genQubits      int
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(generateFermionsCmd)
	generateCmd.AddCommand(generateQubitsCmd)

	pf := generateCmd.PersistentFlags()
	pf.Uint64Var(&generateSeed, "seed", 0, "random seed (0 = generate.seed from config)")
	pf.StringP("format", "f", "json", "output format: json, yaml, toml, msgpack")
	pf.StringVarP(&generateOutput, "output", "o", "-", "output file (- for stdout)")

	ff := generateFermionsCmd.Flags()
	ff.IntVar(&genOrbitals, "orbitals", 4, "number of spin-orbitals (max 64)")
	ff.IntVar(&genTerms, "terms", 16, "number of random terms")
	ff.BoolVar(&genFull, "full", false, "enumerate every one- and two-body term instead of sampling")
	ff.BoolVar(&genHermitian, "hermitian", false, "pair every term with its adjoint")

	qf := generateQubitsCmd.Flags()
	qf.IntVar(&genQubits, "qubits", 4, "number of qubits (max 64)")
	qf.IntVar(&genTerms, "terms", 16, "number of random Pauli strings")
}

// generateCmd is the parent command for random inputs
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate random Hamiltonians",
	Long: `Generate random fermionic Hamiltonians or random Pauli sums.

Output is deterministic for a given seed.

Examples:
  # 32 random terms over 8 spin-orbitals
  f2q generate fermions --orbitals 8 --terms 32

  # Every term over 64 spin-orbitals, as MessagePack
  f2q generate fermions --orbitals 64 --full -f msgpack -o full64.mp

  # A random Pauli sum
  f2q generate qubits --qubits 6 --terms 20`,
}

// generateFermionsCmd writes a fermion document
var generateFermionsCmd = &cobra.Command{
	Use:   "fermions",
	Short: "Generate a random fermionic Hamiltonian",
	Args:  cobra.NoArgs,
	RunE:  runGenerateFermions,
}

// generateQubitsCmd writes a qubit document
var generateQubitsCmd = &cobra.Command{
	Use:   "qubits",
	Short: "Generate a random Pauli sum",
	Args:  cobra.NoArgs,
	RunE:  runGenerateQubits,
}

func seed(a *app) uint64 {
	if generateSeed != 0 {
		return generateSeed
	}
	return a.cfg.Generate.Seed
}

func runGenerateFermions(cmd *cobra.Command, args []string) error {
	a := current
	ctx := cmd.Context()

	if genOrbitals < 0 || genOrbitals > fermion.MaxOrbitals {
		return usageError("--orbitals must be in 0..%d, got %d", fermion.MaxOrbitals, genOrbitals)
	}
	if genTerms < 0 {
		return usageError("--terms must be >= 0, got %d", genTerms)
	}

	s := seed(a)
	g := fermion.Random(s, genOrbitals, genTerms)
	if genFull {
		g = fermion.Full(s, genOrbitals)
	}
	if genHermitian {
		g = fermion.Hermitian(g)
	}
	in, err := fermion.Collect(g, genOrbitals)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info(ctx, "generated fermions",
		zap.Uint64("seed", s),
		zap.Int("orbitals", genOrbitals),
		zap.Int("operators", in.Len()),
		zap.Bool("full", genFull))

	out := a.outputFormat(cmd, generateOutput)
	return a.writeOutput(cmd, generateOutput, out, func(w io.Writer) error {
		return serialize.WriteFermions(w, out, in)
	})
}

func runGenerateQubits(cmd *cobra.Command, args []string) error {
	a := current
	ctx := cmd.Context()

	if genQubits < 0 || genQubits > 64 {
		return usageError("--qubits must be in 0..64, got %d", genQubits)
	}
	if genTerms < 0 {
		return usageError("--terms must be >= 0, got %d", genTerms)
	}

	s := seed(a)
	sum := paulisum.Random(s, genQubits, genTerms)

	logging.FromContext(ctx).Info(ctx, "generated qubits",
		zap.Uint64("seed", s),
		zap.Int("qubits", genQubits),
		zap.Int("terms", sum.Len()))

	out := a.outputFormat(cmd, generateOutput)
	return a.writeOutput(cmd, generateOutput, out, func(w io.Writer) error {
		return serialize.WriteSum(w, out, sum)
	})
}
