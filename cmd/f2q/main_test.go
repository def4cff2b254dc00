package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/f2q/internal/config"
	"github.com/fyrsmithlabs/f2q/internal/pauli"
	"github.com/fyrsmithlabs/f2q/internal/serialize"
)

const numberOps = `
num_orbitals: 2
one_body:
  - {p: 0, q: 0, value: 1}
  - {p: 1, q: 1, value: 1}
`

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--log-level", "error", "--env-file", filepath.Join(t.TempDir(), ".env")}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	if ferr := teardown(err); err == nil {
		err = ferr
	}
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCommands_Registered(t *testing.T) {
	want := []string{"convert", "generate", "inspect", "spectrum", "diff"}
	for _, name := range want {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				assert.NotEmpty(t, cmd.Short, "%s should have Short description", name)
				break
			}
		}
		assert.True(t, found, "%s command not found in rootCmd", name)
	}
}

func TestConvert_JordanWignerJSON(t *testing.T) {
	path := writeTemp(t, "n.yaml", numberOps)

	out, err := execute(t, "", "convert", path)
	require.NoError(t, err)

	sum, err := serialize.ReadSum([]byte(out), serialize.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Len())
	assert.Equal(t, complex(1, 0), sum.Coeff(pauli.Identity().Key()))
	assert.Equal(t, complex(-0.5, 0), sum.Coeff(pauli.MustParse("Z").Key()))
	assert.Equal(t, complex(-0.5, 0), sum.Coeff(pauli.MustParse("IZ").Key()))
}

func TestConvert_BravyiKitaevToFile(t *testing.T) {
	path := writeTemp(t, "n.yaml", numberOps)
	dst := filepath.Join(t.TempDir(), "out.mp")

	out, err := execute(t, "", "convert", "-e", "bk", "-f", "msgpack", "-o", dst, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	sum, err := serialize.ReadSum(data, serialize.FormatMsgpack)
	require.NoError(t, err)
	// BK stores the parity of orbitals 0..1 on qubit 1.
	assert.Equal(t, complex(1, 0), sum.Coeff(pauli.Identity().Key()))
	assert.Equal(t, complex(-0.5, 0), sum.Coeff(pauli.MustParse("Z").Key()))
	assert.Equal(t, complex(-0.5, 0), sum.Coeff(pauli.MustParse("ZZ").Key()))
}

func TestConvert_OutputFormatFromExtension(t *testing.T) {
	path := writeTemp(t, "n.yaml", numberOps)
	dir := t.TempDir()

	tests := []struct {
		name   string
		file   string
		args   []string
		format serialize.Format
	}{
		{name: "yaml", file: "out.yaml", format: serialize.FormatYAML},
		{name: "yml", file: "out.yml", format: serialize.FormatYAML},
		{name: "toml", file: "out.toml", format: serialize.FormatTOML},
		{name: "msgpack", file: "out.mp", format: serialize.FormatMsgpack},
		{name: "unknown extension falls back to config", file: "out.txt", format: serialize.FormatJSON},
		{name: "flag wins over extension", file: "flag.yaml", args: []string{"-f", "toml"}, format: serialize.FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := filepath.Join(dir, tt.file)
			args := append([]string{"convert", "-o", dst}, tt.args...)
			out, err := execute(t, "", append(args, path)...)
			require.NoError(t, err)
			assert.Empty(t, out)

			data, err := os.ReadFile(dst)
			require.NoError(t, err)
			sum, err := serialize.ReadSum(data, tt.format)
			require.NoError(t, err)
			assert.Equal(t, 3, sum.Len())
			assert.Equal(t, complex(-0.5, 0), sum.Coeff(pauli.MustParse("Z").Key()))
		})
	}
}

func TestGenerate_OutputFormatFromExtension(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "h.toml")
	_, err := execute(t, "", "generate", "fermions", "--orbitals", "3", "--terms", "5", "--seed", "2", "-o", dst)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	in, err := serialize.ReadIntegrals(data, serialize.FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, 3, in.NumOrbitals)
}

func TestConvert_Stdin(t *testing.T) {
	out, err := execute(t, numberOps, "convert", "--input-format", "yaml", "-f", "yaml", "-")
	require.NoError(t, err)

	sum, err := serialize.ReadSum([]byte(out), serialize.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Len())
}

func TestConvert_EncodingFromEnvironment(t *testing.T) {
	path := writeTemp(t, "n.yaml", numberOps)
	t.Setenv("F2Q_MAPPING_ENCODING", "bk")

	out, err := execute(t, "", "convert", path)
	require.NoError(t, err)
	sum, err := serialize.ReadSum([]byte(out), serialize.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, complex(-0.5, 0), sum.Coeff(pauli.MustParse("ZZ").Key()))
}

func TestConvert_InvalidInput(t *testing.T) {
	path := writeTemp(t, "bad.json", `{"num_orbitals": 2, "one_body": [{"p": 0, "q": 3, "value": 1}]}`)

	_, err := execute(t, "", "convert", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, serialize.ErrInvalidDocument)
	assert.ErrorIs(t, err, pauli.ErrInvalidQubitIndex)
}

func TestConvert_QubitsBelowOrbitals(t *testing.T) {
	path := writeTemp(t, "n.yaml", numberOps)

	_, err := execute(t, "", "convert", "--qubits", "1", path)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestConvert_InvalidFlagValue(t *testing.T) {
	path := writeTemp(t, "n.yaml", numberOps)

	_, err := execute(t, "", "convert", "-e", "parity", path)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestConvert_MetricsFile(t *testing.T) {
	path := writeTemp(t, "n.yaml", numberOps)
	metrics := filepath.Join(t.TempDir(), "f2q.prom")

	_, err := execute(t, "", "--metrics-file", metrics, "convert", path)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `f2q_mapping_runs_total{encoding="jordan-wigner"} 1`)
	assert.Contains(t, text, `f2q_mapping_operators_total{kind="one_body"} 2`)
	assert.Contains(t, text, "f2q_mapping_output_terms 3")
}

func TestGenerate_FermionsThenConvert(t *testing.T) {
	dir := t.TempDir()
	ferm := filepath.Join(dir, "h.yaml")

	_, err := execute(t, "", "generate", "fermions", "--orbitals", "5", "--terms", "12", "--seed", "7", "--hermitian", "-f", "yaml", "-o", ferm)
	require.NoError(t, err)

	data, err := os.ReadFile(ferm)
	require.NoError(t, err)
	in, err := serialize.ReadIntegrals(data, serialize.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 5, in.NumOrbitals)

	out, err := execute(t, "", "convert", "-e", "bk", ferm)
	require.NoError(t, err)
	sum, err := serialize.ReadSum([]byte(out), serialize.FormatJSON)
	require.NoError(t, err)
	assert.True(t, sum.IsHermitian(1e-12))
	assert.LessOrEqual(t, sum.MaxQubit(), 5)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := execute(t, "", "generate", "qubits", "--qubits", "6", "--terms", "10", "--seed", "3")
	require.NoError(t, err)
	b, err := execute(t, "", "generate", "qubits", "--qubits", "6", "--terms", "10", "--seed", "3")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := execute(t, "", "generate", "qubits", "--qubits", "6", "--terms", "10", "--seed", "4")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerate_FullCount(t *testing.T) {
	out, err := execute(t, "", "generate", "fermions", "--orbitals", "3", "--full")
	require.NoError(t, err)

	in, err := serialize.ReadIntegrals([]byte(out), serialize.FormatJSON)
	require.NoError(t, err)
	assert.Len(t, in.OneBody, 9)
	assert.Len(t, in.TwoBody, 9)
}

func TestGenerate_RejectsBadOrbitals(t *testing.T) {
	_, err := execute(t, "", "generate", "fermions", "--orbitals", "65")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestInspect(t *testing.T) {
	doc := `{"type": "sumrepr", "encoding": "qubits", "terms": [
		{"code": "I", "value": 1},
		{"code": "XZZX", "value": 0.25},
		{"code": "YZZY", "value": 0.25},
		{"code": "Z", "value": -0.5}
	]}`

	out, err := execute(t, doc, "inspect")
	require.NoError(t, err)
	for _, want := range []string{"terms", "qubits", "max weight", "XZZX", "hermitian"} {
		assert.Contains(t, out, want)
	}
}

func TestSpectrum_Qubits(t *testing.T) {
	doc := `{"type": "sumrepr", "encoding": "qubits", "terms": [{"code": "XX", "value": 1}, {"code": "YY", "value": 1}, {"code": "ZZ", "value": 1}]}`

	out, err := execute(t, doc, "spectrum")
	require.NoError(t, err)
	assert.Equal(t, []string{"-3", "1", "1", "1"}, strings.Fields(out))
}

func TestSpectrum_FermionsCompare(t *testing.T) {
	path := writeTemp(t, "n.yaml", numberOps)

	out, err := execute(t, "", "spectrum", "--fermions", "--compare", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "1", "2"}, strings.Fields(out))

	out, err = execute(t, "", "spectrum", "--fermions", "-e", "bk", "--ground", path)
	require.NoError(t, err)
	assert.Equal(t, "0", strings.TrimSpace(out))
}

func TestSpectrum_CompareNeedsFermions(t *testing.T) {
	_, err := execute(t, `{"type": "sumrepr", "encoding": "qubits", "terms": []}`, "spectrum", "--compare")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestDiff(t *testing.T) {
	a := writeTemp(t, "a.json", `{"type": "sumrepr", "encoding": "qubits", "terms": [{"code": "XY", "value": 0.5}]}`)
	b := writeTemp(t, "b.yaml", "type: sumrepr\nencoding: qubits\nterms:\n  - {code: XY, value: 0.5}\n")
	c := writeTemp(t, "c.json", `{"type": "sumrepr", "encoding": "qubits", "terms": [{"code": "XY", "value": 0.5}, {"code": "Z", "value": 1}]}`)

	out, err := execute(t, "", "diff", a, b)
	require.NoError(t, err)
	assert.Equal(t, "equal\n", out)

	out, err = execute(t, "", "diff", a, c)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, "Z\t+0\t+1")
}

func TestApplyFlags_OverridesConfig(t *testing.T) {
	resetFlags(rootCmd)
	cfg := config.Default()
	require.NoError(t, convertCmd.ParseFlags([]string{"-e", "bk", "--workers", "3", "--normalize=false", "-f", "toml"}))
	require.NoError(t, applyFlags(convertCmd, cfg))

	assert.Equal(t, "bk", cfg.Mapping.Encoding)
	assert.Equal(t, 3, cfg.Mapping.Workers)
	assert.False(t, cfg.Mapping.Normalize)
	assert.Equal(t, "toml", cfg.Output.Format)
	assert.Equal(t, 256, cfg.Mapping.BatchSize)
	resetFlags(rootCmd)
}
