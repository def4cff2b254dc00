package serialize

import (
	"errors"
	"fmt"
	"io"

	"github.com/fyrsmithlabs/f2q/internal/pauli"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
)

const (
	documentType     = "sumrepr"
	encodingQubits   = "qubits"
	encodingFermions = "fermions"
)

// ErrInvalidDocument is returned when a document has the wrong type or
// encoding tag, or a malformed term.
var ErrInvalidDocument = errors.New("invalid document")

// QubitTerm is one weighted Pauli string.
type QubitTerm struct {
	Code  string  `json:"code" yaml:"code" toml:"code" msgpack:"code"`
	Value float64 `json:"value" yaml:"value" toml:"value" msgpack:"value"`
	Imag  float64 `json:"imag,omitempty" yaml:"imag,omitempty" toml:"imag,omitzero" msgpack:"imag,omitempty"`
}

// QubitDocument is the serialized form of a Pauli sum.
type QubitDocument struct {
	Type     string      `json:"type" yaml:"type" toml:"type" msgpack:"type"`
	Encoding string      `json:"encoding" yaml:"encoding" toml:"encoding" msgpack:"encoding"`
	Terms    []QubitTerm `json:"terms" yaml:"terms" toml:"terms" msgpack:"terms"`
}

// NewQubitDocument converts s into a document with terms in canonical order.
func NewQubitDocument(s *paulisum.Sum) QubitDocument {
	doc := QubitDocument{
		Type:     documentType,
		Encoding: encodingQubits,
		Terms:    make([]QubitTerm, 0, s.Len()),
	}
	for t, c := range s.All() {
		doc.Terms = append(doc.Terms, QubitTerm{Code: t.String(), Value: real(c), Imag: imag(c)})
	}
	return doc
}

// Sum checks the document tags and rebuilds the Pauli sum. Repeated codes
// accumulate.
func (d QubitDocument) Sum() (*paulisum.Sum, error) {
	if err := checkTags(d.Type, d.Encoding, encodingQubits); err != nil {
		return nil, err
	}
	s := paulisum.WithCapacity(len(d.Terms))
	for i, term := range d.Terms {
		t, err := pauli.Parse(term.Code)
		if err != nil {
			return nil, fmt.Errorf("%w: term %d: %w", ErrInvalidDocument, i, err)
		}
		s.Add(t.Key(), complex(term.Value, term.Imag))
	}
	return s, nil
}

// WriteSum encodes s as a qubit document.
func WriteSum(w io.Writer, f Format, s *paulisum.Sum) error {
	return Encode(w, f, NewQubitDocument(s))
}

// ReadSum decodes a qubit document.
func ReadSum(data []byte, f Format) (*paulisum.Sum, error) {
	var doc QubitDocument
	if err := Decode(data, f, &doc); err != nil {
		return nil, fmt.Errorf("decode %s qubit document: %w", f, err)
	}
	return doc.Sum()
}

func checkTags(typ, enc, want string) error {
	if typ != documentType {
		return fmt.Errorf("%w: type should be %q, got %q", ErrInvalidDocument, documentType, typ)
	}
	if enc != want {
		return fmt.Errorf("%w: encoding should be %q, got %q", ErrInvalidDocument, want, enc)
	}
	return nil
}
