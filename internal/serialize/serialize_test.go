package serialize

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/f2q/internal/fermion"
	"github.com/fyrsmithlabs/f2q/internal/pauli"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
)

func sumOf(t *testing.T, terms map[string]complex128) *paulisum.Sum {
	t.Helper()
	s := paulisum.New()
	for code, c := range terms {
		term, err := pauli.Parse(code)
		require.NoError(t, err)
		s.InsertOrAdd(term, c)
	}
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "toml", want: FormatTOML},
		{in: " msgpack ", want: FormatMsgpack},
		{in: "mp", want: FormatMsgpack},
		{in: "csv", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/data/h2.yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromPath("out.mpk")
	require.NoError(t, err)
	assert.Equal(t, FormatMsgpack, f)

	_, err = FormatFromPath("README")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormat_Binary(t *testing.T) {
	assert.True(t, FormatMsgpack.Binary())
	assert.False(t, FormatJSON.Binary())
}

func TestEncode_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, Format("xml"), struct{}{}), ErrUnknownFormat)
	assert.ErrorIs(t, Decode([]byte("{}"), Format("xml"), &struct{}{}), ErrUnknownFormat)
}

func TestWriteSum_JSONLayout(t *testing.T) {
	s := sumOf(t, map[string]complex128{"I": 0.1})

	var buf bytes.Buffer
	require.NoError(t, WriteSum(&buf, FormatJSON, s))

	assert.JSONEq(t, `{
		"type": "sumrepr",
		"encoding": "qubits",
		"terms": [{"code": "I", "value": 0.1}]
	}`, buf.String())
}

func TestNewQubitDocument_CanonicalOrder(t *testing.T) {
	s := sumOf(t, map[string]complex128{
		"ZZ": 4,
		"X":  2,
		"I":  1,
		"Z":  3,
		"XY": complex(0, 5),
	})

	doc := NewQubitDocument(s)
	want := []QubitTerm{
		{Code: "I", Value: 1},
		{Code: "Z", Value: 3},
		{Code: "ZZ", Value: 4},
		{Code: "X", Value: 2},
		{Code: "XY", Imag: 5},
	}
	if diff := cmp.Diff(want, doc.Terms); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
}

func TestSum_RoundTrip(t *testing.T) {
	s := sumOf(t, map[string]complex128{
		"I":    0.1,
		"XY":   0.2,
		"IIZ":  complex(-0.5, 0.25),
		"YZZX": -1e-3,
	})

	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteSum(&buf, f, s))

			got, err := ReadSum(buf.Bytes(), f)
			require.NoError(t, err)
			assert.True(t, s.ApproxEqual(got, 1e-15))

			if diff := cmp.Diff(NewQubitDocument(s), NewQubitDocument(got), cmpopts.EquateApprox(0, 1e-15)); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadSum_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "wrong type", doc: `{"type": "list", "encoding": "qubits", "terms": []}`},
		{name: "wrong encoding", doc: `{"type": "sumrepr", "encoding": "fermions", "terms": []}`},
		{name: "missing tags", doc: `{"terms": []}`},
		{name: "bad letter", doc: `{"type": "sumrepr", "encoding": "qubits", "terms": [{"code": "XQ", "value": 1}]}`},
		{name: "empty code", doc: `{"type": "sumrepr", "encoding": "qubits", "terms": [{"code": "", "value": 1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSum([]byte(tt.doc), FormatJSON)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestReadSum_MalformedSyntax(t *testing.T) {
	_, err := ReadSum([]byte(`{"type": `), FormatJSON)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidDocument)
}

func TestReadSum_RepeatedCodesAccumulate(t *testing.T) {
	doc := `
type: sumrepr
encoding: qubits
terms:
  - {code: XZ, value: 0.5}
  - {code: XZ, value: 0.25, imag: 1}
`
	got, err := ReadSum([]byte(doc), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, complex(0.75, 1), got.Coeff(pauli.MustParse("XZ").Key()))
}

func TestReadSum_TOML(t *testing.T) {
	doc := `
type = "sumrepr"
encoding = "qubits"

[[terms]]
code = "ZZ"
value = -0.25

[[terms]]
code = "I"
value = 1.0
`
	got, err := ReadSum([]byte(doc), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, complex(-0.25, 0), got.Coeff(pauli.MustParse("ZZ").Key()))
	assert.Equal(t, complex(1, 0), got.Coeff(pauli.Identity().Key()))
}

func TestFermionDocument_RoundTrip(t *testing.T) {
	in := &fermion.Integrals{
		NumOrbitals: 4,
		Constant:    0.7,
		OneBody: []fermion.OneBodyEntry{
			{P: 0, Q: 1, Value: 0.2},
			{P: 1, Q: 0, Value: 0.2},
			{P: 3, Q: 3, Value: -1.25},
		},
		TwoBody: []fermion.TwoBodyEntry{
			{P: 0, Q: 1, R: 1, S: 0, Value: 0.3},
			{P: 2, Q: 3, R: 0, S: 1, Value: 0.05, Imag: -0.01},
		},
	}

	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteFermions(&buf, f, in))

			got, err := ReadIntegrals(buf.Bytes(), f)
			require.NoError(t, err)
			if diff := cmp.Diff(in, got, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
				t.Errorf("integrals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFermionDocument_JSONLayout(t *testing.T) {
	in := &fermion.Integrals{
		NumOrbitals: 2,
		TwoBody:     []fermion.TwoBodyEntry{{P: 0, Q: 1, R: 1, S: 0, Value: 0.3}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFermions(&buf, FormatJSON, in))

	assert.JSONEq(t, `{
		"type": "sumrepr",
		"encoding": "fermions",
		"num_orbitals": 2,
		"terms": [{"code": [0, 1, 1, 0], "value": 0.3}]
	}`, buf.String())
}

func TestReadIntegrals_FermionDocumentInfersOrbitals(t *testing.T) {
	doc := `{
		"type": "sumrepr",
		"encoding": "fermions",
		"terms": [
			{"code": [], "value": 0.1},
			{"code": [1, 2], "value": 0.2},
			{"code": [0, 1, 1, 0], "value": 0.3}
		]
	}`
	got, err := ReadIntegrals([]byte(doc), FormatJSON)
	require.NoError(t, err)

	want := &fermion.Integrals{
		NumOrbitals: 3,
		Constant:    0.1,
		OneBody:     []fermion.OneBodyEntry{{P: 1, Q: 2, Value: 0.2}},
		TwoBody:     []fermion.TwoBodyEntry{{P: 0, Q: 1, R: 1, S: 0, Value: 0.3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("integrals mismatch (-want +got):\n%s", diff)
	}
}

func TestReadIntegrals_FermionDocumentRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "wrong encoding", doc: `{"type": "sumrepr", "encoding": "qubits", "terms": []}`},
		{name: "wrong type", doc: `{"type": "fermions", "encoding": "fermions", "terms": []}`},
		{name: "three indices", doc: `{"type": "sumrepr", "encoding": "fermions", "terms": [{"code": [0, 1, 2], "value": 1}]}`},
		{name: "repeated creation", doc: `{"type": "sumrepr", "encoding": "fermions", "terms": [{"code": [1, 1, 0, 2], "value": 1}]}`},
		{name: "beyond declared orbitals", doc: `{"type": "sumrepr", "encoding": "fermions", "num_orbitals": 2, "terms": [{"code": [0, 2], "value": 1}]}`},
		{name: "beyond 64 orbitals", doc: `{"type": "sumrepr", "encoding": "fermions", "terms": [{"code": [0, 64], "value": 1}]}`},
		{name: "complex constant", doc: `{"type": "sumrepr", "encoding": "fermions", "terms": [{"code": [], "value": 1, "imag": 1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadIntegrals([]byte(tt.doc), FormatJSON)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}

	_, err := ReadIntegrals([]byte(tests[len(tests)-1].doc), FormatJSON)
	assert.ErrorIs(t, err, fermion.ErrComplexConstant)
}

func TestReadIntegrals_PlainTable(t *testing.T) {
	want := &fermion.Integrals{
		NumOrbitals: 4,
		Constant:    0.71,
		OneBody: []fermion.OneBodyEntry{
			{P: 0, Q: 0, Value: -1.25},
			{P: 1, Q: 1, Value: -1.25},
		},
		TwoBody: []fermion.TwoBodyEntry{
			{P: 0, Q: 1, R: 1, S: 0, Value: 0.33},
		},
	}

	yamlDoc := `
num_orbitals: 4
constant: 0.71
one_body:
  - {p: 0, q: 0, value: -1.25}
  - {p: 1, q: 1, value: -1.25}
two_body:
  - {p: 0, q: 1, r: 1, s: 0, value: 0.33}
`
	got, err := ReadIntegrals([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}

	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteIntegrals(&buf, f, want))
			got, err := ReadIntegrals(buf.Bytes(), f)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadIntegrals_PlainTableInvalid(t *testing.T) {
	doc := `{"num_orbitals": 2, "one_body": [{"p": 0, "q": 5, "value": 1}]}`
	_, err := ReadIntegrals([]byte(doc), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.ErrorIs(t, err, pauli.ErrInvalidQubitIndex)
}
