package fermion

import (
	"fmt"
	"math/rand/v2"
)

// Generator returns the operator at a position, or false past the end. A
// Generator must be a pure function of its argument.
type Generator func(i int) (Operator, bool)

// Random returns a generator of n random terms over nOrbitals spin-orbitals.
// Each term is drawn from a PCG stream keyed by (seed, position), so the
// generator holds no state and replays identically.
//
// Terms are constants, one-body a†_p a_q, or two-body a†_p a†_q a_r a_s with
// p != q and r != s, with coefficients uniform in [-1, 1).
func Random(seed uint64, nOrbitals, n int) Generator {
	return func(i int) (Operator, bool) {
		if i < 0 || i >= n {
			return Operator{}, false
		}
		r := rand.New(rand.NewPCG(seed, uint64(i)))
		category := r.IntN(3)
		if nOrbitals < 1 {
			category = 0
		} else if nOrbitals < 2 && category == 2 {
			category = 1
		}
		c := complex(2*r.Float64()-1, 0)
		switch category {
		case 1:
			return Operator{
				Kind:    OneBody,
				Indices: [4]int{r.IntN(nOrbitals), r.IntN(nOrbitals)},
				Coeff:   c,
			}, true
		case 2:
			p, q := distinctPair(r, nOrbitals)
			s, t := distinctPair(r, nOrbitals)
			return Operator{Kind: TwoBody, Indices: [4]int{p, q, s, t}, Coeff: c}, true
		default:
			return NewConstant(c), true
		}
	}
}

func distinctPair(r *rand.Rand, n int) (int, int) {
	p := r.IntN(n)
	q := r.IntN(n - 1)
	if q >= p {
		q++
	}
	return p, q
}

// Full returns a generator enumerating every term over nOrbitals
// spin-orbitals: one constant, all n² one-body terms a†_p a_q, and all
// two-body terms a†_p a†_q a_r a_s with p < q and r < s. Coefficients are
// drawn per position from a PCG stream keyed by seed.
func Full(seed uint64, nOrbitals int) Generator {
	var pairs [][2]int
	for p := 0; p < nOrbitals; p++ {
		for q := p + 1; q < nOrbitals; q++ {
			pairs = append(pairs, [2]int{p, q})
		}
	}
	nOne := nOrbitals * nOrbitals
	nTwo := len(pairs) * len(pairs)

	return func(i int) (Operator, bool) {
		if i < 0 || i >= 1+nOne+nTwo {
			return Operator{}, false
		}
		r := rand.New(rand.NewPCG(seed, uint64(i)))
		c := complex(2*r.Float64()-1, 0)
		if i == 0 {
			return NewConstant(c), true
		}
		i--
		if i < nOne {
			return Operator{Kind: OneBody, Indices: [4]int{i / nOrbitals, i % nOrbitals}, Coeff: c}, true
		}
		i -= nOne
		cr, an := pairs[i/len(pairs)], pairs[i%len(pairs)]
		return Operator{Kind: TwoBody, Indices: [4]int{cr[0], cr[1], an[0], an[1]}, Coeff: c}, true
	}
}

// FullLen returns the number of terms Full produces for nOrbitals.
func FullLen(nOrbitals int) int {
	pairs := nOrbitals * (nOrbitals - 1) / 2
	return 1 + nOrbitals*nOrbitals + pairs*pairs
}

// Collect gathers every operator of g into an Integrals table.
func Collect(g Generator, nOrbitals int) (*Integrals, error) {
	in := &Integrals{NumOrbitals: nOrbitals}
	for i := 0; ; i++ {
		op, ok := g(i)
		if !ok {
			return in, nil
		}
		if err := in.Add(op); err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
	}
}

// Hermitian pairs every term of g with its adjoint, each at half weight, so
// the generated operator is (G + G†)/2. Position 2i holds ½g(i) and 2i+1
// holds ½g(i)†.
func Hermitian(g Generator) Generator {
	return func(i int) (Operator, bool) {
		if i < 0 {
			return Operator{}, false
		}
		op, ok := g(i / 2)
		if !ok {
			return Operator{}, false
		}
		if i%2 == 1 {
			op = op.Adjoint()
		}
		op.Coeff /= 2
		return op, true
	}
}
