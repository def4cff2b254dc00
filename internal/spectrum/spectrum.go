// Package spectrum diagonalizes small Pauli sums.
//
// A Hermitian operator H = A + iB on n qubits is embedded as the real
// symmetric matrix
//
//	[ A  -B ]
//	[ B   A ]
//
// of size 2^(n+1). Every eigenvalue of H appears twice in the embedding.
package spectrum

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/fyrsmithlabs/f2q/internal/pauli"
	"github.com/fyrsmithlabs/f2q/internal/paulisum"
)

// MaxQubits bounds the register size accepted by Eigenvalues.
const MaxQubits = 10

// HermitianTolerance is the largest imaginary coefficient treated as zero.
const HermitianTolerance = 1e-9

var (
	// ErrNotHermitian is returned for sums with complex coefficients.
	ErrNotHermitian = errors.New("operator is not hermitian")

	// ErrTooLarge is returned when the register exceeds MaxQubits.
	ErrTooLarge = errors.New("register too large to diagonalize")

	// ErrNoConvergence is returned when the eigensolver fails.
	ErrNoConvergence = errors.New("eigendecomposition did not converge")
)

// Eigenvalues returns the 2^nQubits eigenvalues of s in ascending order.
func Eigenvalues(s *paulisum.Sum, nQubits int) ([]float64, error) {
	if err := check(s, nQubits); err != nil {
		return nil, err
	}

	var es mat.EigenSym
	if !es.Factorize(embed(s, nQubits), false) {
		return nil, ErrNoConvergence
	}
	doubled := es.Values(nil)
	slices.Sort(doubled)

	vals := make([]float64, len(doubled)/2)
	for i := range vals {
		vals[i] = doubled[2*i]
	}
	return vals, nil
}

// GroundEnergy returns the smallest eigenvalue of s.
func GroundEnergy(s *paulisum.Sum, nQubits int) (float64, error) {
	vals, err := Eigenvalues(s, nQubits)
	if err != nil {
		return 0, err
	}
	return floats.Min(vals), nil
}

// EqualSpectra reports whether a and b have the same eigenvalues within tol.
func EqualSpectra(a, b []float64, tol float64) bool {
	return len(a) == len(b) && floats.EqualApprox(a, b, tol)
}

func check(s *paulisum.Sum, nQubits int) error {
	if nQubits < 0 || nQubits > MaxQubits {
		return fmt.Errorf("%w: %d qubits, max %d", ErrTooLarge, nQubits, MaxQubits)
	}
	if m := s.MaxQubit(); m > nQubits {
		return fmt.Errorf("%w: sum acts on %d qubits, register has %d", pauli.ErrInvalidQubitIndex, m, nQubits)
	}
	if !s.IsHermitian(HermitianTolerance) {
		return ErrNotHermitian
	}
	return nil
}

// embed builds the real symmetric embedding of s. Imaginary parts of the
// coefficients are ignored; only the matrix entries carry i.
func embed(s *paulisum.Sum, nQubits int) *mat.SymDense {
	dim := 1 << nQubits
	re := mat.NewDense(dim, dim, nil)
	im := mat.NewDense(dim, dim, nil)

	for t, c := range s.All() {
		w := real(c)
		// P = i^|x&z| X^x Z^z, so P|b> = i^|x&z| (-1)^|z&b| |b^x>.
		base := pauli.Phase(bits.OnesCount64(t.X&t.Z) & 3)
		for b := 0; b < dim; b++ {
			ph := base
			if bits.OnesCount64(t.Z&uint64(b))%2 == 1 {
				ph = ph.Mul(pauli.PhaseMinusOne)
			}
			v := ph.Apply(complex(w, 0))
			row := b ^ int(t.X)
			re.Set(row, b, re.At(row, b)+real(v))
			im.Set(row, b, im.At(row, b)+imag(v))
		}
	}

	sym := mat.NewSymDense(2*dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			sym.SetSym(i, j, re.At(i, j))
			sym.SetSym(dim+i, dim+j, re.At(i, j))
		}
		for j := 0; j < dim; j++ {
			sym.SetSym(i, dim+j, -im.At(i, j))
		}
	}
	return sym
}
