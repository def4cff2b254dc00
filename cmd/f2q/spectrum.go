package main

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/f2q/internal/encoding"
	"github.com/fyrsmithlabs/f2q/internal/hamil"
	"github.com/fyrsmithlabs/f2q/internal/logging"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
	"github.com/fyrsmithlabs/f2q/internal/serialize"
	"github.com/fyrsmithlabs/f2q/internal/spectrum"
)

var (
	spectrumInputFormat string
	spectrumFermions    bool
	spectrumCompare     bool
	spectrumGround      bool
)

func init() {
	rootCmd.AddCommand(spectrumCmd)

	f := spectrumCmd.Flags()
	f.StringVar(&spectrumInputFormat, "input-format", "", "input format (default: from extension, else json)")
	f.BoolVar(&spectrumFermions, "fermions", false, "input is a fermionic Hamiltonian; map it first")
	f.StringP("encoding", "e", "jordan-wigner", "encoding used with --fermions")
	f.BoolVar(&spectrumCompare, "compare", false, "with --fermions, check that both encodings give the same spectrum")
	f.BoolVar(&spectrumGround, "ground", false, "print only the ground-state energy")
}

// spectrumCmd diagonalizes a small Pauli sum
var spectrumCmd = &cobra.Command{
	Use:   "spectrum [file]",
	Short: "Print the eigenvalues of a small Hamiltonian",
	Long: fmt.Sprintf(`Diagonalize a Pauli sum on at most %d qubits and print its eigenvalues in
ascending order, one per line.

With --fermions the input is an integral table or fermion document that is
mapped first. --compare maps it with both encodings and fails when the
spectra differ.

Examples:
  f2q spectrum h2-jw.json
  f2q spectrum --fermions --compare h2.yaml
  f2q spectrum --fermions -e bk --ground h2.yaml`, spectrum.MaxQubits),
	Args: cobra.MaximumNArgs(1),
	RunE: runSpectrum,
}

const (
	spectrumTolerance = 1e-8
	// zeroCutoff hides eigensolver round-off around zero.
	zeroCutoff = 1e-12
)

func runSpectrum(cmd *cobra.Command, args []string) error {
	a := current
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	if spectrumCompare && !spectrumFermions {
		return usageError("--compare requires --fermions")
	}
	data, format, err := readInput(cmd, path, spectrumInputFormat)
	if err != nil {
		return err
	}

	var (
		sum     *paulisum.Sum
		nQubits int
	)
	if spectrumFermions {
		in, err := serialize.ReadIntegrals(data, format)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		nQubits = in.NumOrbitals
		if sum, err = a.mapIntegrals(cmd, in.NumOrbitals, a.encodingKind(), hamil.FromIntegrals(in)); err != nil {
			return err
		}
		if spectrumCompare {
			other := encoding.KindBravyiKitaev
			if a.encodingKind() == other {
				other = encoding.KindJordanWigner
			}
			otherSum, err := a.mapIntegrals(cmd, in.NumOrbitals, other, hamil.FromIntegrals(in))
			if err != nil {
				return err
			}
			if err := compareSpectra(sum, otherSum, nQubits); err != nil {
				return err
			}
			logger.Info(ctx, "spectra agree",
				zap.String("encoding", a.encodingKind().String()),
				zap.String("other", other.String()))
		}
	} else {
		if sum, err = serialize.ReadSum(data, format); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		nQubits = sum.MaxQubit()
	}

	vals, err := spectrum.Eigenvalues(sum, nQubits)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "diagonalized", zap.Int("qubits", nQubits), zap.Int("eigenvalues", len(vals)))

	w := cmd.OutOrStdout()
	if spectrumGround {
		vals = vals[:1]
	}
	return printValues(w, vals)
}

func (a *app) mapIntegrals(cmd *cobra.Command, n int, kind encoding.Kind, h *hamil.Hamil) (*paulisum.Sum, error) {
	enc, err := encoding.New(kind, n)
	if err != nil {
		return nil, err
	}
	engine, err := a.engine()
	if err != nil {
		return nil, err
	}
	return engine.Map(cmd.Context(), h, enc)
}

func compareSpectra(a, b *paulisum.Sum, n int) error {
	av, err := spectrum.Eigenvalues(a, n)
	if err != nil {
		return err
	}
	bv, err := spectrum.Eigenvalues(b, n)
	if err != nil {
		return err
	}
	if !spectrum.EqualSpectra(av, bv, spectrumTolerance) {
		return &exitError{code: 1, err: fmt.Errorf("spectra differ beyond %g", spectrumTolerance)}
	}
	return nil
}

func printValues(w io.Writer, vals []float64) error {
	for _, v := range vals {
		if math.Abs(v) < zeroCutoff {
			v = 0
		}
		if _, err := fmt.Fprintf(w, "%.12g\n", v); err != nil {
			return err
		}
	}
	return nil
}
