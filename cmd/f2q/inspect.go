package main

import (
	"cmp"
	"fmt"
	"io"
	"math/cmplx"
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/f2q/internal/paulisum"
	"github.com/fyrsmithlabs/f2q/internal/serialize"
)

var (
	inspectInputFormat string
	inspectTop         int
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectInputFormat, "input-format", "", "input format (default: from extension, else json)")
	inspectCmd.Flags().IntVar(&inspectTop, "top", 5, "number of largest terms to list")
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	sparkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

const sparklineHeight = 4

// inspectCmd prints statistics about a Pauli sum
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show statistics of a Pauli-sum document",
	Long: `Print term count, register size, Pauli weight histogram and the largest
terms of a qubit document.

Examples:
  f2q inspect h2-jw.json
  f2q convert -e bk h2.yaml | f2q inspect`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	data, format, err := readInput(cmd, path, inspectInputFormat)
	if err != nil {
		return err
	}
	sum, err := serialize.ReadSum(data, format)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	_, err = io.WriteString(cmd.OutOrStdout(), renderStats(sum, current.cfg.Mapping.Tolerance, inspectTop)+"\n")
	return err
}

// renderStats formats the summary box shown by inspect.
func renderStats(sum *paulisum.Sum, tol float64, top int) string {
	st := sum.Stats(max(tol, 1e-12))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Pauli sum") + "\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("terms", fmt.Sprint(st.Terms))
	row("qubits", fmt.Sprint(st.Qubits))
	row("max weight", fmt.Sprint(st.MaxWeight))
	row("1-norm", fmt.Sprintf("%.6g", st.OneNorm))
	row("identity", formatCoeff(st.Identity))
	if st.Hermitian {
		row("hermitian", "yes")
	} else {
		b.WriteString(labelStyle.Render("hermitian") + warnStyle.Render("no") + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("weights") + "\n")
	b.WriteString(weightHistogram(st.Weights) + "\n")
	for w, n := range st.Weights {
		if n > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  w=%-3d %d", w, n)) + "\n")
		}
	}

	if top > 0 && st.Terms > 0 {
		b.WriteString("\n" + titleStyle.Render("largest terms") + "\n")
		for _, t := range largestTerms(sum, top) {
			b.WriteString(fmt.Sprintf("  %s  %s\n", valueStyle.Render(formatCoeff(t.coeff)), t.code))
		}
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// weightHistogram draws one sparkline column per Pauli weight.
func weightHistogram(weights []int) string {
	if len(weights) == 0 {
		return dimStyle.Render("no data")
	}
	spark := sparkline.New(len(weights), sparklineHeight)
	for _, n := range weights {
		spark.Push(float64(n))
	}
	spark.Draw()
	return sparkStyle.Render(spark.View())
}

type rankedTerm struct {
	code  string
	coeff complex128
	mag   float64
}

func largestTerms(sum *paulisum.Sum, n int) []rankedTerm {
	ranked := make([]rankedTerm, 0, sum.Len())
	for t, c := range sum.All() {
		ranked = append(ranked, rankedTerm{code: t.String(), coeff: c, mag: cmplx.Abs(c)})
	}
	// Ties keep canonical order.
	slices.SortStableFunc(ranked, func(a, b rankedTerm) int {
		return cmp.Compare(b.mag, a.mag)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func formatCoeff(c complex128) string {
	if imag(c) == 0 {
		return fmt.Sprintf("%+.6g", real(c))
	}
	return fmt.Sprintf("%+.6g%+.6gi", real(c), imag(c))
}
