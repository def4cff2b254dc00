package encoding

import (
	"fmt"
	"math/bits"

	"github.com/fyrsmithlabs/f2q/internal/fermion"
	"github.com/fyrsmithlabs/f2q/internal/pauli"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
)

// BravyiKitaev is the Fenwick-tree encoding. Qubit k stores the parity of the
// orbitals in the Fenwick range ending at k, so the ladder operator of
// orbital j acts on
//
//	U(j)  qubits that must flip with orbital j (X)
//	P(j)  qubits whose parity equals that of orbitals 0..j-1 (Z)
//	F(j)  qubits whose parity, with qubit j, gives the occupation of j
//	R(j)  P(j) ⊕ F(j)
//
// giving M0 = X_{U(j)} X_j Z_{P(j)} and M1 = X_{U(j)} Y_j Z_{R(j)}.
//
// The sets are computed once by NewBravyiKitaev and never modified. The zero
// value is not usable: every mapping fails with ErrEncodingNotInitialized.
type BravyiKitaev struct {
	nQubits int
	tables  *fenwickSets
}

type fenwickSets struct {
	update    []uint64
	parity    []uint64
	flip      []uint64
	remainder []uint64
}

// NewBravyiKitaev builds the Fenwick sets for nQubits qubits.
func NewBravyiKitaev(nQubits int) *BravyiKitaev {
	n := min(max(nQubits, 0), pauli.MaxQubits)
	t := &fenwickSets{
		update:    make([]uint64, n),
		parity:    make([]uint64, n),
		flip:      make([]uint64, n),
		remainder: make([]uint64, n),
	}
	for j := 0; j < n; j++ {
		t.update[j] = updateMask(j, n)
		t.parity[j] = parityMask(j)
		t.flip[j] = flipMask(j)
		t.remainder[j] = t.parity[j] ^ t.flip[j]
	}
	return &BravyiKitaev{nQubits: n, tables: t}
}

// Fenwick indices are 1-based: orbital j lives at node j+1.

// updateMask collects the ancestors of node j+1 up to n.
func updateMask(j, n int) uint64 {
	var m uint64
	for k := j + 1; ; {
		k += k & -k
		if k > n {
			return m
		}
		m |= 1 << (k - 1)
	}
}

// parityMask collects the nodes whose ranges tile orbitals 0..j-1.
func parityMask(j int) uint64 {
	var m uint64
	for k := j; k > 0; k &= k - 1 {
		m |= 1 << (k - 1)
	}
	return m
}

// flipMask collects the children of node j+1.
func flipMask(j int) uint64 {
	var m uint64
	k := j + 1
	parent := k & (k - 1)
	for c := k - 1; c != parent; c &= c - 1 {
		m |= 1 << (c - 1)
	}
	return m
}

func (*BravyiKitaev) Kind() Kind                   { return KindBravyiKitaev }
func (bk *BravyiKitaev) NumQubits() int            { return bk.nQubits }
func (*BravyiKitaev) RequiresPrecomputation() bool { return true }

func (bk *BravyiKitaev) ready() error {
	if bk == nil || bk.tables == nil {
		return ErrEncodingNotInitialized
	}
	return nil
}

func (bk *BravyiKitaev) set(pick func(*fenwickSets) []uint64, i int) ([]int, error) {
	if err := bk.ready(); err != nil {
		return nil, err
	}
	if i < 0 || i >= bk.nQubits {
		return nil, fmt.Errorf("%w: orbital %d, %d qubits", pauli.ErrInvalidQubitIndex, i, bk.nQubits)
	}
	return maskIndices(pick(bk.tables)[i]), nil
}

// UpdateSet returns U(i) in ascending order.
func (bk *BravyiKitaev) UpdateSet(i int) ([]int, error) {
	return bk.set(func(t *fenwickSets) []uint64 { return t.update }, i)
}

// ParitySet returns P(i) in ascending order.
func (bk *BravyiKitaev) ParitySet(i int) ([]int, error) {
	return bk.set(func(t *fenwickSets) []uint64 { return t.parity }, i)
}

// FlipSet returns F(i) in ascending order.
func (bk *BravyiKitaev) FlipSet(i int) ([]int, error) {
	return bk.set(func(t *fenwickSets) []uint64 { return t.flip }, i)
}

// RemainderSet returns R(i) in ascending order.
func (bk *BravyiKitaev) RemainderSet(i int) ([]int, error) {
	return bk.set(func(t *fenwickSets) []uint64 { return t.remainder }, i)
}

func maskIndices(m uint64) []int {
	out := make([]int, 0, bits.OnesCount64(m))
	for m != 0 {
		i := bits.TrailingZeros64(m)
		out = append(out, i)
		m &= m - 1
	}
	return out
}

func (bk *BravyiKitaev) majoranas(j int) (pauli.Term, pauli.Term) {
	bit := uint64(1) << j
	x := bk.tables.update[j] | bit
	return pauli.Term{X: x, Z: bk.tables.parity[j]},
		pauli.Term{X: x, Z: bk.tables.remainder[j] | bit}
}

// MapOneBody adds the image of a†_p a_q.
func (bk *BravyiKitaev) MapOneBody(op fermion.Operator, out *paulisum.Sum) error {
	if err := bk.ready(); err != nil {
		return err
	}
	return mapOneBody(bk, op, bk.nQubits, out)
}

// MapTwoBody adds the image of a†_p a†_q a_r a_s after reordering the index
// pairs ascending.
func (bk *BravyiKitaev) MapTwoBody(op fermion.Operator, out *paulisum.Sum) error {
	if err := bk.ready(); err != nil {
		return err
	}
	return mapTwoBody(bk, op, bk.nQubits, out)
}
