package main

import (
	"fmt"
	"math/cmplx"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/f2q/internal/pauli"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
	"github.com/fyrsmithlabs/f2q/internal/serialize"
)

var diffTolerance float64

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().Float64Var(&diffTolerance, "tol", 1e-10, "largest coefficient difference treated as equal")
}

// diffCmd compares two Pauli-sum documents
var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compare two Pauli-sum documents",
	Long: `Compare two qubit documents term by term. Missing terms count as zero.
Differing terms are listed and the command exits with status 1.

Examples:
  f2q diff h2-jw.json h2-jw.mp
  f2q diff --tol 1e-6 before.yaml after.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	sums := make([]*paulisum.Sum, 2)
	for i, path := range args {
		data, format, err := readInput(cmd, path, "")
		if err != nil {
			return err
		}
		if sums[i], err = serialize.ReadSum(data, format); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}

	if sums[0].ApproxEqual(sums[1], diffTolerance) {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "equal")
		return err
	}

	w := cmd.OutOrStdout()
	n := 0
	for _, k := range unionKeys(sums[0], sums[1]) {
		ca, cb := sums[0].Coeff(k), sums[1].Coeff(k)
		if cmplx.Abs(ca-cb) > diffTolerance {
			n++
			fmt.Fprintf(w, "%s\t%s\t%s\n", pauli.FromKey(k), formatCoeff(ca), formatCoeff(cb))
		}
	}
	return &exitError{code: 1, err: fmt.Errorf("%d terms differ", n)}
}

func unionKeys(a, b *paulisum.Sum) []pauli.Key {
	u := a.Clone()
	for t := range b.All() {
		u.Add(t.Key(), 0)
	}
	return u.Keys()
}
