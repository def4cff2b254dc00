// Package paulisum holds the canonical Pauli-sum representation produced by
// the fermion-to-qubit mappings.
package paulisum

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"maps"
	"math"
	"math/cmplx"
	"slices"

	"github.com/fyrsmithlabs/f2q/internal/pauli"
)

// DefaultTolerance is the magnitude below which Normalize drops entries when
// no tolerance is configured.
const DefaultTolerance = 1e-12

// ErrNumericOverflow is returned when a coefficient is no longer finite.
var ErrNumericOverflow = errors.New("numeric overflow")

// Sum maps phase-free Pauli keys to complex coefficients.
//
// A Sum is not safe for concurrent mutation. Workers accumulate into private
// sums and combine them with Merge.
type Sum struct {
	terms map[pauli.Key]complex128
}

// New returns an empty sum.
func New() *Sum {
	return &Sum{terms: make(map[pauli.Key]complex128)}
}

// WithCapacity returns an empty sum sized for n keys.
func WithCapacity(n int) *Sum {
	return &Sum{terms: make(map[pauli.Key]complex128, n)}
}

func (s *Sum) init() {
	if s.terms == nil {
		s.terms = make(map[pauli.Key]complex128)
	}
}

// InsertOrAdd folds the phase of term into coeff and adds the result to the
// entry for term's key.
func (s *Sum) InsertOrAdd(term pauli.Term, coeff complex128) {
	s.Add(term.Key(), term.Phase.Apply(coeff))
}

// Add adds coeff to the entry for key, creating it when missing.
func (s *Sum) Add(key pauli.Key, coeff complex128) {
	s.init()
	s.terms[key] += coeff
}

// Coeff returns the coefficient stored for key, or zero.
func (s *Sum) Coeff(key pauli.Key) complex128 {
	if s == nil {
		return 0
	}
	return s.terms[key]
}

// Len returns the number of stored keys.
func (s *Sum) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

// Merge adds every entry of other into s. other is left unchanged.
func (s *Sum) Merge(other *Sum) {
	if other == nil {
		return
	}
	s.init()
	for k, c := range other.terms {
		s.terms[k] += c
	}
}

// Normalize removes entries whose magnitude is below tolerance.
func (s *Sum) Normalize(tolerance float64) {
	if s == nil {
		return
	}
	for k, c := range s.terms {
		if cmplx.Abs(c) < tolerance {
			delete(s.terms, k)
		}
	}
}

// Clone returns a deep copy of s.
func (s *Sum) Clone() *Sum {
	if s == nil {
		return New()
	}
	return &Sum{terms: maps.Clone(s.terms)}
}

// Keys returns the stored keys in canonical order.
func (s *Sum) Keys() []pauli.Key {
	if s == nil {
		return nil
	}
	keys := slices.Collect(maps.Keys(s.terms))
	slices.SortFunc(keys, func(a, b pauli.Key) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Z, b.Z)
	})
	return keys
}

// All yields (term, coefficient) pairs in canonical order. Every call starts
// a fresh traversal over the entries present at that moment.
func (s *Sum) All() iter.Seq2[pauli.Term, complex128] {
	return func(yield func(pauli.Term, complex128) bool) {
		for _, k := range s.Keys() {
			if !yield(pauli.FromKey(k), s.terms[k]) {
				return
			}
		}
	}
}

// Validate reports ErrNumericOverflow for the first non-finite coefficient in
// canonical order.
func (s *Sum) Validate() error {
	for t, c := range s.All() {
		if cmplx.IsNaN(c) || cmplx.IsInf(c) {
			return fmt.Errorf("%w: coefficient of %s is %v", ErrNumericOverflow, t, c)
		}
	}
	return nil
}

// MaxQubit returns one more than the highest qubit acted on by any term, or
// zero for sums of identities only.
func (s *Sum) MaxQubit() int {
	if s == nil {
		return 0
	}
	var support uint64
	for k := range s.terms {
		support |= k.X | k.Z
	}
	n := 0
	for support != 0 {
		support >>= 1
		n++
	}
	return n
}

// ApproxEqual reports whether s and other hold the same keys with
// coefficients within tol. Keys missing on one side compare against zero,
// and a nil Sum is empty.
func (s *Sum) ApproxEqual(other *Sum, tol float64) bool {
	if s == nil {
		s = &Sum{}
	}
	if other == nil {
		other = &Sum{}
	}
	for k, c := range s.terms {
		if cmplx.Abs(c-other.Coeff(k)) > tol {
			return false
		}
	}
	for k, c := range other.terms {
		if _, ok := s.terms[k]; ok {
			continue
		}
		if cmplx.Abs(c) > tol {
			return false
		}
	}
	return true
}

// IsHermitian reports whether every coefficient is real within tol. Pauli
// strings are Hermitian, so this is the Hermiticity of the whole operator.
func (s *Sum) IsHermitian(tol float64) bool {
	if s == nil {
		return true
	}
	for _, c := range s.terms {
		if math.Abs(imag(c)) > tol {
			return false
		}
	}
	return true
}
