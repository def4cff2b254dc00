// Package hamil provides the input Hamiltonian handed to the mapping engine.
//
// A Hamil is one of three variants behind a uniform pull interface:
//
//   - Materialized: an already encoded Pauli sum, passed through unchanged.
//   - Generator: operators produced by a pure function of their position.
//   - Sequence: operators pulled lazily from an iter.Seq.
package hamil

import (
	"iter"

	"github.com/fyrsmithlabs/f2q/internal/fermion"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
)

// Kind identifies the Hamil variant.
type Kind uint8

const (
	Materialized Kind = iota
	Generator
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Materialized:
		return "materialized"
	case Generator:
		return "generator"
	case Sequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Hamil is a source of fermionic operators, or a finished Pauli sum.
//
// A Hamil holds its own cursor and is not safe for concurrent use; the
// engine pulls from it on a single goroutine.
type Hamil struct {
	kind Kind

	sum *paulisum.Sum

	gen fermion.Generator
	pos int

	seq  iter.Seq[fermion.Operator]
	next func() (fermion.Operator, bool)
	stop func()
}

// FromSum wraps an already encoded sum.
func FromSum(sum *paulisum.Sum) *Hamil {
	if sum == nil {
		sum = paulisum.New()
	}
	return &Hamil{kind: Materialized, sum: sum}
}

// FromGenerator wraps a positional generator. gen(i) must return the same
// operator every time it is called with i, and false once i is past the end.
func FromGenerator(gen fermion.Generator) *Hamil {
	return &Hamil{kind: Generator, gen: gen}
}

// FromIntegrals walks the constant, one-body and two-body entries of in.
func FromIntegrals(in *fermion.Integrals) *Hamil {
	return FromGenerator(in.Term)
}

// FromSeq wraps a lazy sequence. The sequence is started on the first Next
// and restarted from scratch by Reset.
func FromSeq(seq iter.Seq[fermion.Operator]) *Hamil {
	return &Hamil{kind: Sequence, seq: seq}
}

// Kind returns the variant.
func (h *Hamil) Kind() Kind { return h.kind }

// Materialized returns the stored sum when h is a Materialized Hamil.
func (h *Hamil) Materialized() (*paulisum.Sum, bool) {
	if h.kind != Materialized {
		return nil, false
	}
	return h.sum, true
}

// Next returns the next operator. It returns false when the source is
// exhausted, and always for Materialized Hamils.
func (h *Hamil) Next() (fermion.Operator, bool) {
	switch h.kind {
	case Generator:
		op, ok := h.gen(h.pos)
		if !ok {
			return fermion.Operator{}, false
		}
		h.pos++
		return op, true
	case Sequence:
		if h.next == nil {
			h.next, h.stop = iter.Pull(h.seq)
		}
		return h.next()
	default:
		return fermion.Operator{}, false
	}
}

// Reset rewinds h so the next pull starts from the first operator.
func (h *Hamil) Reset() {
	switch h.kind {
	case Generator:
		h.pos = 0
	case Sequence:
		h.Close()
	}
}

// Close releases the goroutine behind a started Sequence. It is safe to call
// on any variant and more than once.
func (h *Hamil) Close() {
	if h.stop != nil {
		h.stop()
	}
	h.next, h.stop = nil, nil
}
