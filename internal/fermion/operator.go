package fermion

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/f2q/internal/pauli"
)

// MaxOrbitals is the largest number of spin-orbitals that can be mapped onto
// qubits.
const MaxOrbitals = pauli.MaxQubits

// ErrInvalidOperatorIndices is returned for index patterns that do not form a
// valid operator, e.g. a repeated creation index in a two-body term.
var ErrInvalidOperatorIndices = errors.New("invalid operator indices")

// Kind distinguishes the operator variants.
type Kind uint8

const (
	Constant Kind = iota
	OneBody
	TwoBody
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Constant:
		return "constant"
	case OneBody:
		return "one_body"
	case TwoBody:
		return "two_body"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Operator is a single fermionic term.
//
// For OneBody, Indices[0:2] hold (p, q) of a†_p a_q. For TwoBody,
// Indices[0:4] hold (p, q, r, s) of a†_p a†_q a_r a_s. Unused indices are
// zero.
type Operator struct {
	Kind    Kind
	Indices [4]int
	Coeff   complex128
}

// NewConstant returns an identity offset with coefficient c.
func NewConstant(c complex128) Operator {
	return Operator{Kind: Constant, Coeff: c}
}

// NewOneBody returns a†_p a_q with coefficient c.
func NewOneBody(p, q int, c complex128) (Operator, error) {
	op := Operator{Kind: OneBody, Indices: [4]int{p, q}, Coeff: c}
	if err := op.Validate(MaxOrbitals); err != nil {
		return Operator{}, err
	}
	return op, nil
}

// NewTwoBody returns a†_p a†_q a_r a_s with coefficient c.
func NewTwoBody(p, q, r, s int, c complex128) (Operator, error) {
	op := Operator{Kind: TwoBody, Indices: [4]int{p, q, r, s}, Coeff: c}
	if err := op.Validate(MaxOrbitals); err != nil {
		return Operator{}, err
	}
	return op, nil
}

func (o Operator) arity() int {
	switch o.Kind {
	case OneBody:
		return 2
	case TwoBody:
		return 4
	default:
		return 0
	}
}

// Validate checks the indices against nOrbitals (capped at MaxOrbitals).
//
// Out-of-range indices yield pauli.ErrInvalidQubitIndex; negative indices,
// unknown kinds and repeated creation or annihilation indices yield
// ErrInvalidOperatorIndices.
func (o Operator) Validate(nOrbitals int) error {
	if o.Kind > TwoBody {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidOperatorIndices, o.Kind)
	}
	limit := min(nOrbitals, MaxOrbitals)
	for _, idx := range o.Indices[:o.arity()] {
		if idx < 0 {
			return fmt.Errorf("%w: negative index in %s", ErrInvalidOperatorIndices, o)
		}
		if idx >= limit {
			return fmt.Errorf("%w: orbital %d in %s, %d orbitals", pauli.ErrInvalidQubitIndex, idx, o, limit)
		}
	}
	if o.Kind == TwoBody {
		p, q, r, s := o.Indices[0], o.Indices[1], o.Indices[2], o.Indices[3]
		if p == q || r == s {
			return fmt.Errorf("%w: repeated index in %s", ErrInvalidOperatorIndices, o)
		}
	}
	return nil
}

// Canonical returns the operator with creation indices ascending and
// annihilation indices ascending. Each swap of two anticommuting ladder
// operators negates the coefficient, so the result equals o.
func (o Operator) Canonical() (Operator, error) {
	if o.Kind != TwoBody {
		return o, nil
	}
	p, q, r, s := o.Indices[0], o.Indices[1], o.Indices[2], o.Indices[3]
	if p == q || r == s {
		return Operator{}, fmt.Errorf("%w: repeated index in %s", ErrInvalidOperatorIndices, o)
	}
	c := o.Coeff
	if p > q {
		p, q = q, p
		c = -c
	}
	if r > s {
		r, s = s, r
		c = -c
	}
	return Operator{Kind: TwoBody, Indices: [4]int{p, q, r, s}, Coeff: c}, nil
}

// Adjoint returns the Hermitian conjugate of o.
func (o Operator) Adjoint() Operator {
	adj := Operator{Kind: o.Kind, Coeff: complex(real(o.Coeff), -imag(o.Coeff))}
	switch o.Kind {
	case OneBody:
		adj.Indices = [4]int{o.Indices[1], o.Indices[0]}
	case TwoBody:
		adj.Indices = [4]int{o.Indices[3], o.Indices[2], o.Indices[1], o.Indices[0]}
	}
	return adj
}

// MaxIndex returns the highest orbital index referenced, or -1 for constants.
func (o Operator) MaxIndex() int {
	m := -1
	for _, idx := range o.Indices[:o.arity()] {
		m = max(m, idx)
	}
	return m
}

// String implements fmt.Stringer.
func (o Operator) String() string {
	switch o.Kind {
	case OneBody:
		return fmt.Sprintf("a+_%d a_%d", o.Indices[0], o.Indices[1])
	case TwoBody:
		return fmt.Sprintf("a+_%d a+_%d a_%d a_%d", o.Indices[0], o.Indices[1], o.Indices[2], o.Indices[3])
	default:
		return "1"
	}
}
