// Package encoding maps fermionic operators onto sums of Pauli strings.
//
// Two encodings are provided: JordanWigner, which keeps occupation numbers
// in the qubits and carries parity in a contiguous Z string, and
// BravyiKitaev, which stores partial parities in a Fenwick tree so every
// ladder operator touches O(log n) qubits.
//
// Both are expressed through the same primitive: for each orbital j an
// encoding supplies two Hermitian Pauli strings M0 and M1 such that
//
//	a†_j = ½(M0 - i·M1)    a_j = ½(M0 + i·M1)
//
// Operator products are expanded over these pairs and multiplied with
// pauli.Multiply, so phases stay exact.
package encoding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/f2q/internal/fermion"
	"github.com/fyrsmithlabs/f2q/internal/pauli"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
)

// ErrEncodingNotInitialized is returned by an encoding whose precomputed
// tables have not been built.
var ErrEncodingNotInitialized = errors.New("encoding not initialized")

// Kind selects an encoding.
type Kind uint8

const (
	KindJordanWigner Kind = iota
	KindBravyiKitaev
)

// String implements fmt.Stringer. The names are the ones accepted by
// ParseKind and used in configuration.
func (k Kind) String() string {
	switch k {
	case KindJordanWigner:
		return "jordan-wigner"
	case KindBravyiKitaev:
		return "bravyi-kitaev"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind accepts "jordan-wigner", "bravyi-kitaev" and the short forms
// "jw" and "bk", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jordan-wigner", "jordan_wigner", "jordanwigner", "jw":
		return KindJordanWigner, nil
	case "bravyi-kitaev", "bravyi_kitaev", "bravyikitaev", "bk":
		return KindBravyiKitaev, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q (want jordan-wigner or bravyi-kitaev)", s)
	}
}

// Encoding maps single fermionic operators into a Pauli sum.
//
// Implementations are immutable after construction and safe for concurrent
// use by multiple goroutines writing into distinct sums.
type Encoding interface {
	Kind() Kind
	NumQubits() int
	// RequiresPrecomputation reports whether the encoding depends on tables
	// built at construction time.
	RequiresPrecomputation() bool
	MapOneBody(op fermion.Operator, out *paulisum.Sum) error
	MapTwoBody(op fermion.Operator, out *paulisum.Sum) error
}

// New returns the encoding of kind over nQubits qubits, with any tables it
// needs already built.
func New(kind Kind, nQubits int) (Encoding, error) {
	if nQubits < 0 || nQubits > pauli.MaxQubits {
		return nil, fmt.Errorf("%w: %d qubits requested, at most %d supported", pauli.ErrInvalidQubitIndex, nQubits, pauli.MaxQubits)
	}
	switch kind {
	case KindJordanWigner:
		return NewJordanWigner(nQubits), nil
	case KindBravyiKitaev:
		return NewBravyiKitaev(nQubits), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %v", kind)
	}
}

// Apply maps op with enc, dispatching on the operator kind. Constants add to
// the identity.
func Apply(enc Encoding, op fermion.Operator, out *paulisum.Sum) error {
	switch op.Kind {
	case fermion.Constant:
		out.Add(pauli.Key{}, op.Coeff)
		return nil
	case fermion.OneBody:
		return enc.MapOneBody(op, out)
	case fermion.TwoBody:
		return enc.MapTwoBody(op, out)
	default:
		return fmt.Errorf("%w: unknown kind %d", fermion.ErrInvalidOperatorIndices, op.Kind)
	}
}

// majoranaSource supplies the M0, M1 pair of an orbital.
type majoranaSource interface {
	majoranas(j int) (m0, m1 pauli.Term)
}

// ladderProduct expands coeff · Π ladder(idx[k], dagger[k]) into out.
//
// Each factor contributes ½M0 or ∓½i·M1, giving 2^len(idx) products. They
// are summed locally first, and exact cancellations are dropped before
// touching out.
func ladderProduct(src majoranaSource, idx []int, dagger []bool, coeff complex128, out *paulisum.Sum) {
	n := len(idx)
	m0 := make([]pauli.Term, n)
	m1 := make([]pauli.Term, n)
	for k, j := range idx {
		m0[k], m1[k] = src.majoranas(j)
		if dagger[k] {
			m1[k].Phase = m1[k].Phase.Mul(pauli.PhaseMinusI)
		} else {
			m1[k].Phase = m1[k].Phase.Mul(pauli.PhasePlusI)
		}
	}

	scale := coeff
	for range n {
		scale *= 0.5
	}

	local := make(map[pauli.Key]complex128, 1<<n)
	order := make([]pauli.Key, 0, 1<<n)
	for choice := 0; choice < 1<<n; choice++ {
		term := pauli.Identity()
		for k := 0; k < n; k++ {
			if choice&(1<<k) == 0 {
				term = pauli.Multiply(term, m0[k])
			} else {
				term = pauli.Multiply(term, m1[k])
			}
		}
		key := term.Key()
		if _, ok := local[key]; !ok {
			order = append(order, key)
		}
		local[key] += term.Phase.Apply(scale)
	}

	for _, key := range order {
		if c := local[key]; c != 0 {
			out.Add(key, c)
		}
	}
}

func checkOperator(op fermion.Operator, want fermion.Kind, nQubits int) error {
	if op.Kind != want {
		return fmt.Errorf("%w: expected %v operator, got %v", fermion.ErrInvalidOperatorIndices, want, op.Kind)
	}
	return op.Validate(nQubits)
}

func mapOneBody(src majoranaSource, op fermion.Operator, nQubits int, out *paulisum.Sum) error {
	if err := checkOperator(op, fermion.OneBody, nQubits); err != nil {
		return err
	}
	ladderProduct(src, op.Indices[:2], []bool{true, false}, op.Coeff, out)
	return nil
}

func mapTwoBody(src majoranaSource, op fermion.Operator, nQubits int, out *paulisum.Sum) error {
	if err := checkOperator(op, fermion.TwoBody, nQubits); err != nil {
		return err
	}
	canon, err := op.Canonical()
	if err != nil {
		return err
	}
	ladderProduct(src, canon.Indices[:], []bool{true, true, false, false}, canon.Coeff, out)
	return nil
}
