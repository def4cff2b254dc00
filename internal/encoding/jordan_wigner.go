package encoding

import (
	"github.com/fyrsmithlabs/f2q/internal/fermion"
	"github.com/fyrsmithlabs/f2q/internal/pauli"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
)

// JordanWigner is the contiguous-parity encoding: qubit j holds the
// occupation of orbital j and the sign of a ladder operator is carried by
// Z on every lower qubit.
//
//	M0 = X_j Z_{j-1} … Z_0
//	M1 = Y_j Z_{j-1} … Z_0
type JordanWigner struct {
	nQubits int
}

// NewJordanWigner returns the encoding over nQubits qubits.
func NewJordanWigner(nQubits int) *JordanWigner {
	return &JordanWigner{nQubits: nQubits}
}

func (*JordanWigner) Kind() Kind                   { return KindJordanWigner }
func (jw *JordanWigner) NumQubits() int            { return jw.nQubits }
func (*JordanWigner) RequiresPrecomputation() bool { return false }

func (jw *JordanWigner) majoranas(j int) (pauli.Term, pauli.Term) {
	bit := uint64(1) << j
	parity := bit - 1
	return pauli.Term{X: bit, Z: parity}, pauli.Term{X: bit, Z: parity | bit}
}

// MapOneBody adds the image of a†_p a_q. For p != q this yields the XX, YY,
// XY and YX strings on p and q joined by Z on the qubits strictly between
// them; for p == q it yields coeff/2 on I and -coeff/2 on Z_p.
func (jw *JordanWigner) MapOneBody(op fermion.Operator, out *paulisum.Sum) error {
	return mapOneBody(jw, op, jw.nQubits, out)
}

// MapTwoBody adds the image of a†_p a†_q a_r a_s after reordering the index
// pairs ascending.
func (jw *JordanWigner) MapTwoBody(op fermion.Operator, out *paulisum.Sum) error {
	return mapTwoBody(jw, op, jw.nQubits, out)
}
