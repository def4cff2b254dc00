package pauli

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// MaxQubits is the largest number of qubits a Term can address.
const MaxQubits = 64

// ErrInvalidQubitIndex is returned when a qubit index is outside the declared
// qubit count or beyond MaxQubits.
var ErrInvalidQubitIndex = errors.New("invalid qubit index")

// Kind is a single-qubit Pauli operator.
type Kind uint8

const (
	I Kind = iota
	X
	Y
	Z
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case I:
		return "I"
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Key is the phase-free identity of a Pauli string.
type Key struct {
	X uint64
	Z uint64
}

// Less orders keys as the unsigned 128-bit integer X<<64 | Z.
func (k Key) Less(o Key) bool {
	if k.X != o.X {
		return k.X < o.X
	}
	return k.Z < o.Z
}

// Term is a Pauli string with a phase.
type Term struct {
	X     uint64
	Z     uint64
	Phase Phase
}

// Identity returns the identity string with phase +1.
func Identity() Term {
	return Term{}
}

// FromKey returns the term for key with phase +1.
func FromKey(k Key) Term {
	return Term{X: k.X, Z: k.Z}
}

// Single returns the one-qubit term kind on qubit. nQubits is the declared
// register size.
func Single(qubit int, kind Kind, nQubits int) (Term, error) {
	if qubit < 0 || qubit >= MaxQubits || qubit >= nQubits {
		return Term{}, fmt.Errorf("%w: qubit %d, register of %d", ErrInvalidQubitIndex, qubit, nQubits)
	}
	var t Term
	t.set(qubit, kind)
	return t, nil
}

// Key returns the phase-free key of t.
func (t Term) Key() Key {
	return Key{X: t.X, Z: t.Z}
}

// At returns the Pauli operator acting on qubit. Qubits outside 0..63 carry I.
func (t Term) At(qubit int) Kind {
	if qubit < 0 || qubit >= MaxQubits {
		return I
	}
	xb := (t.X >> qubit) & 1
	zb := (t.Z >> qubit) & 1
	switch {
	case xb == 1 && zb == 1:
		return Y
	case xb == 1:
		return X
	case zb == 1:
		return Z
	default:
		return I
	}
}

// With returns a copy of t with qubit replaced by kind.
func (t Term) With(qubit int, kind Kind) (Term, error) {
	if qubit < 0 || qubit >= MaxQubits {
		return t, fmt.Errorf("%w: qubit %d", ErrInvalidQubitIndex, qubit)
	}
	t.set(qubit, kind)
	return t, nil
}

func (t *Term) set(qubit int, kind Kind) {
	bit := uint64(1) << qubit
	t.X &^= bit
	t.Z &^= bit
	switch kind {
	case X:
		t.X |= bit
	case Y:
		t.X |= bit
		t.Z |= bit
	case Z:
		t.Z |= bit
	}
}

// Weight returns the number of non-identity factors.
func (t Term) Weight() int {
	return bits.OnesCount64(t.X | t.Z)
}

// Support returns a mask of the qubits carrying a non-identity factor.
func (t Term) Support() uint64 {
	return t.X | t.Z
}

// FitsIn reports whether every non-identity factor lies below nQubits.
func (t Term) FitsIn(nQubits int) bool {
	if nQubits >= MaxQubits {
		return true
	}
	if nQubits <= 0 {
		return t.Support() == 0
	}
	return t.Support()>>nQubits == 0
}

// Multiply returns the operator product a*b.
//
// Per qubit, XY, YZ and ZX contribute +i and YX, ZY, XZ contribute -i; equal
// factors and products with the identity contribute nothing.
func Multiply(a, b Term) Term {
	ax, ay, az := a.X&^a.Z, a.X&a.Z, a.Z&^a.X
	bx, by, bz := b.X&^b.Z, b.X&b.Z, b.Z&^b.X

	plus := (ax & by) | (ay & bz) | (az & bx)
	minus := (ay & bx) | (az & by) | (ax & bz)

	k := bits.OnesCount64(plus) - bits.OnesCount64(minus)
	return Term{
		X:     a.X ^ b.X,
		Z:     a.Z ^ b.Z,
		Phase: a.Phase.Mul(b.Phase).Mul(Phase(((k % 4) + 4) % 4)),
	}
}

// Commutes reports whether a and b commute. Phases are irrelevant.
func Commutes(a, b Term) bool {
	return bits.OnesCount64((a.X&b.Z)^(a.Z&b.X))%2 == 0
}

// String renders the Pauli letters, qubit 0 first, trailing identities
// trimmed. The phase is not included.
func (t Term) String() string {
	n := MaxQubits - bits.LeadingZeros64(t.Support())
	if n == 0 {
		return "I"
	}
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteString(t.At(i).String())
	}
	return sb.String()
}

// Parse reads the format produced by Term.String.
func Parse(s string) (Term, error) {
	if len(s) == 0 || len(s) > MaxQubits {
		return Term{}, fmt.Errorf("pauli string length %d out of range 1..%d", len(s), MaxQubits)
	}
	var t Term
	for i, ch := range []byte(s) {
		var k Kind
		switch ch {
		case 'I':
			k = I
		case 'X':
			k = X
		case 'Y':
			k = Y
		case 'Z':
			k = Z
		default:
			return Term{}, fmt.Errorf("character %q at position %d must be one of I, X, Y, Z", ch, i)
		}
		t.set(i, k)
	}
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constant tables.
func MustParse(s string) Term {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}
