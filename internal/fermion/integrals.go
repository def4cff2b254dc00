package fermion

import (
	"errors"
	"fmt"
)

// ErrComplexConstant is returned when a constant offset has an imaginary part.
// The table stores the offset as a real number.
var ErrComplexConstant = errors.New("constant must be real")

// OneBodyEntry is the coefficient of a†_p a_q.
type OneBodyEntry struct {
	P     int     `json:"p" yaml:"p" toml:"p" msgpack:"p"`
	Q     int     `json:"q" yaml:"q" toml:"q" msgpack:"q"`
	Value float64 `json:"value" yaml:"value" toml:"value" msgpack:"value"`
	Imag  float64 `json:"imag,omitempty" yaml:"imag,omitempty" toml:"imag,omitempty" msgpack:"imag,omitempty"`
}

// TwoBodyEntry is the coefficient of a†_p a†_q a_r a_s.
type TwoBodyEntry struct {
	P     int     `json:"p" yaml:"p" toml:"p" msgpack:"p"`
	Q     int     `json:"q" yaml:"q" toml:"q" msgpack:"q"`
	R     int     `json:"r" yaml:"r" toml:"r" msgpack:"r"`
	S     int     `json:"s" yaml:"s" toml:"s" msgpack:"s"`
	Value float64 `json:"value" yaml:"value" toml:"value" msgpack:"value"`
	Imag  float64 `json:"imag,omitempty" yaml:"imag,omitempty" toml:"imag,omitempty" msgpack:"imag,omitempty"`
}

// Integrals is a sparse molecular Hamiltonian:
//
//	H = Constant + Σ h_pq a†_p a_q + Σ g_pqrs a†_p a†_q a_r a_s
//
// Values are used as given; no symmetry factors are applied.
type Integrals struct {
	NumOrbitals int            `json:"num_orbitals" yaml:"num_orbitals" toml:"num_orbitals" msgpack:"num_orbitals"`
	Constant    float64        `json:"constant,omitempty" yaml:"constant,omitempty" toml:"constant,omitempty" msgpack:"constant,omitempty"`
	OneBody     []OneBodyEntry `json:"one_body,omitempty" yaml:"one_body,omitempty" toml:"one_body,omitempty" msgpack:"one_body,omitempty"`
	TwoBody     []TwoBodyEntry `json:"two_body,omitempty" yaml:"two_body,omitempty" toml:"two_body,omitempty" msgpack:"two_body,omitempty"`
}

// Validate checks the orbital count and every entry's indices.
func (in *Integrals) Validate() error {
	if in.NumOrbitals < 0 || in.NumOrbitals > MaxOrbitals {
		return fmt.Errorf("num_orbitals %d out of range 0..%d", in.NumOrbitals, MaxOrbitals)
	}
	for i := 0; i < in.Len(); i++ {
		op, _ := in.Term(i)
		if op.Coeff == 0 {
			continue
		}
		if err := op.Validate(in.NumOrbitals); err != nil {
			return fmt.Errorf("term %d: %w", i, err)
		}
	}
	return nil
}

// Len returns the number of positions served by Term.
func (in *Integrals) Len() int {
	return 1 + len(in.OneBody) + len(in.TwoBody)
}

// Term returns the operator at position i: the constant first, then the
// one-body entries, then the two-body entries, in file order. It reports
// false once i runs past the table. Term does not mutate in, so it can back a
// generator Hamiltonian directly.
func (in *Integrals) Term(i int) (Operator, bool) {
	if i < 0 {
		return Operator{}, false
	}
	if i == 0 {
		return NewConstant(complex(in.Constant, 0)), true
	}
	i--
	if i < len(in.OneBody) {
		e := in.OneBody[i]
		return Operator{
			Kind:    OneBody,
			Indices: [4]int{e.P, e.Q},
			Coeff:   complex(e.Value, e.Imag),
		}, true
	}
	i -= len(in.OneBody)
	if i < len(in.TwoBody) {
		e := in.TwoBody[i]
		return Operator{
			Kind:    TwoBody,
			Indices: [4]int{e.P, e.Q, e.R, e.S},
			Coeff:   complex(e.Value, e.Imag),
		}, true
	}
	return Operator{}, false
}

// Add appends op to the table. Constants accumulate into Constant and must
// be real.
func (in *Integrals) Add(op Operator) error {
	switch op.Kind {
	case Constant:
		if imag(op.Coeff) != 0 {
			return fmt.Errorf("%w: got %v", ErrComplexConstant, op.Coeff)
		}
		in.Constant += real(op.Coeff)
	case OneBody:
		in.OneBody = append(in.OneBody, OneBodyEntry{
			P: op.Indices[0], Q: op.Indices[1],
			Value: real(op.Coeff), Imag: imag(op.Coeff),
		})
	case TwoBody:
		in.TwoBody = append(in.TwoBody, TwoBodyEntry{
			P: op.Indices[0], Q: op.Indices[1], R: op.Indices[2], S: op.Indices[3],
			Value: real(op.Coeff), Imag: imag(op.Coeff),
		})
	}
	if m := op.MaxIndex() + 1; m > in.NumOrbitals {
		in.NumOrbitals = m
	}
	return nil
}
