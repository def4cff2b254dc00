package paulisum

import (
	"math/cmplx"
	"math/rand/v2"

	"github.com/fyrsmithlabs/f2q/internal/pauli"
)

// Stats summarizes a sum.
type Stats struct {
	Terms     int
	Qubits    int
	MaxWeight int
	// Weights[w] is the number of terms acting non-trivially on w qubits.
	Weights   []int
	OneNorm   float64
	Identity  complex128
	Hermitian bool
}

// Stats computes summary statistics. The Hermiticity check uses tol.
func (s *Sum) Stats(tol float64) Stats {
	st := Stats{
		Terms:     s.Len(),
		Qubits:    s.MaxQubit(),
		Identity:  s.Coeff(pauli.Key{}),
		Hermitian: s.IsHermitian(tol),
	}
	st.Weights = make([]int, st.Qubits+1)
	for t, c := range s.All() {
		w := t.Weight()
		st.Weights[w]++
		st.MaxWeight = max(st.MaxWeight, w)
		st.OneNorm += cmplx.Abs(c)
	}
	return st
}

// Random returns a sum of n random Pauli strings on nQubits qubits with real
// coefficients uniform in [-1, 1). Repeated strings accumulate, so the
// result may hold fewer than n terms.
func Random(seed uint64, nQubits, n int) *Sum {
	r := rand.New(rand.NewPCG(seed, uint64(nQubits)))
	nQubits = min(max(nQubits, 0), pauli.MaxQubits)

	s := WithCapacity(n)
	for range n {
		var t pauli.Term
		for q := range nQubits {
			t, _ = t.With(q, pauli.Kind(r.IntN(4)))
		}
		s.InsertOrAdd(t, complex(2*r.Float64()-1, 0))
	}
	return s
}
