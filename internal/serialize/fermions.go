package serialize

import (
	"fmt"
	"io"

	"github.com/fyrsmithlabs/f2q/internal/fermion"
)

// FermionTerm is one weighted fermionic operator. Code holds zero indices
// for the constant, (p, q) for a†_p a_q and (p, q, r, s) for
// a†_p a†_q a_r a_s.
type FermionTerm struct {
	Code  []int   `json:"code" yaml:"code,flow" toml:"code" msgpack:"code"`
	Value float64 `json:"value" yaml:"value" toml:"value" msgpack:"value"`
	Imag  float64 `json:"imag,omitempty" yaml:"imag,omitempty" toml:"imag,omitzero" msgpack:"imag,omitempty"`
}

// FermionDocument is the serialized form of a fermionic Hamiltonian.
type FermionDocument struct {
	Type        string        `json:"type" yaml:"type" toml:"type" msgpack:"type"`
	Encoding    string        `json:"encoding" yaml:"encoding" toml:"encoding" msgpack:"encoding"`
	NumOrbitals int           `json:"num_orbitals,omitempty" yaml:"num_orbitals,omitempty" toml:"num_orbitals,omitzero" msgpack:"num_orbitals,omitempty"`
	Terms       []FermionTerm `json:"terms" yaml:"terms" toml:"terms" msgpack:"terms"`
}

// NewFermionDocument converts in into a document. Terms follow the table
// order; a zero constant is omitted.
func NewFermionDocument(in *fermion.Integrals) FermionDocument {
	doc := FermionDocument{
		Type:        documentType,
		Encoding:    encodingFermions,
		NumOrbitals: in.NumOrbitals,
		Terms:       make([]FermionTerm, 0, in.Len()),
	}
	for i := 0; ; i++ {
		op, ok := in.Term(i)
		if !ok {
			break
		}
		if op.Kind == fermion.Constant && op.Coeff == 0 {
			continue
		}
		code := make([]int, 0, 4)
		switch op.Kind {
		case fermion.OneBody:
			code = append(code, op.Indices[:2]...)
		case fermion.TwoBody:
			code = append(code, op.Indices[:4]...)
		}
		doc.Terms = append(doc.Terms, FermionTerm{Code: code, Value: real(op.Coeff), Imag: imag(op.Coeff)})
	}
	return doc
}

// Integrals checks the document tags and rebuilds the integral table. When
// num_orbitals is absent it is inferred from the highest index.
func (d FermionDocument) Integrals() (*fermion.Integrals, error) {
	if err := checkTags(d.Type, d.Encoding, encodingFermions); err != nil {
		return nil, err
	}
	if d.NumOrbitals < 0 || d.NumOrbitals > fermion.MaxOrbitals {
		return nil, fmt.Errorf("%w: num_orbitals %d out of range 0..%d", ErrInvalidDocument, d.NumOrbitals, fermion.MaxOrbitals)
	}
	limit := fermion.MaxOrbitals
	if d.NumOrbitals > 0 {
		limit = d.NumOrbitals
	}

	in := &fermion.Integrals{NumOrbitals: d.NumOrbitals}
	for i, term := range d.Terms {
		c := complex(term.Value, term.Imag)
		var op fermion.Operator
		switch len(term.Code) {
		case 0:
			op = fermion.NewConstant(c)
		case 2:
			op = fermion.Operator{Kind: fermion.OneBody, Indices: [4]int{term.Code[0], term.Code[1]}, Coeff: c}
		case 4:
			op = fermion.Operator{Kind: fermion.TwoBody, Indices: [4]int(term.Code), Coeff: c}
		default:
			return nil, fmt.Errorf("%w: term %d: code must have 0, 2 or 4 indices, got %d", ErrInvalidDocument, i, len(term.Code))
		}
		if err := op.Validate(limit); err != nil {
			return nil, fmt.Errorf("%w: term %d: %w", ErrInvalidDocument, i, err)
		}
		if err := in.Add(op); err != nil {
			return nil, fmt.Errorf("%w: term %d: %w", ErrInvalidDocument, i, err)
		}
	}
	return in, nil
}

// WriteFermions encodes in as a fermion document.
func WriteFermions(w io.Writer, f Format, in *fermion.Integrals) error {
	return Encode(w, f, NewFermionDocument(in))
}
