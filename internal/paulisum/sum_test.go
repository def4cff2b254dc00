package paulisum

import (
	"math"
	"testing"

	"github.com/fyrsmithlabs/f2q/internal/pauli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) pauli.Key {
	return pauli.MustParse(s).Key()
}

func TestSum_InsertOrAddFoldsPhase(t *testing.T) {
	s := New()
	term := pauli.MustParse("XY")
	term.Phase = pauli.PhaseMinusI

	s.InsertOrAdd(term, 2)
	s.InsertOrAdd(pauli.MustParse("XY"), 1)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, complex(1, -2), s.Coeff(key("XY")))
}

func TestSum_ZeroValueUsable(t *testing.T) {
	var s Sum
	s.Add(key("Z"), 0.5)
	assert.Equal(t, complex(0.5, 0), s.Coeff(key("Z")))

	var nilSum *Sum
	assert.Equal(t, 0, nilSum.Len())
	assert.Equal(t, complex128(0), nilSum.Coeff(key("Z")))
}

func TestSum_NilReceiver(t *testing.T) {
	var nilSum *Sum

	assert.NotPanics(t, func() { nilSum.Normalize(1e-12) })
	assert.Equal(t, 0, nilSum.MaxQubit())
	assert.True(t, nilSum.IsHermitian(1e-9))
	assert.NoError(t, nilSum.Validate())
	assert.Empty(t, nilSum.Keys())
	assert.Equal(t, 0, nilSum.Clone().Len())

	assert.True(t, nilSum.ApproxEqual(New(), 1e-12))
	assert.True(t, New().ApproxEqual(nilSum, 1e-12))
	assert.True(t, nilSum.ApproxEqual(nil, 1e-12))

	s := New()
	s.Add(key("X"), 1)
	assert.False(t, nilSum.ApproxEqual(s, 1e-12))
	assert.False(t, s.ApproxEqual(nilSum, 1e-12))

	st := nilSum.Stats(1e-12)
	assert.Equal(t, 0, st.Terms)
	assert.True(t, st.Hermitian)
}

func TestSum_Merge(t *testing.T) {
	a := New()
	a.Add(key("X"), 1)
	a.Add(key("Z"), 2)

	b := New()
	b.Add(key("Z"), -2)
	b.Add(key("Y"), 3i)

	a.Merge(b)
	assert.Equal(t, complex128(1), a.Coeff(key("X")))
	assert.Equal(t, complex128(0), a.Coeff(key("Z")))
	assert.Equal(t, complex(0, 3), a.Coeff(key("Y")))
	assert.Equal(t, 2, b.Len(), "merge source must stay unchanged")
}

func TestSum_Normalize(t *testing.T) {
	s := New()
	s.Add(key("X"), 1e-14)
	s.Add(key("Y"), 0.25)
	s.Add(key("Z"), complex(0, -1e-13))

	s.Normalize(DefaultTolerance)
	assert.Equal(t, []pauli.Key{key("Y")}, s.Keys())
}

func TestSum_CanonicalOrder(t *testing.T) {
	s := New()
	for _, code := range []string{"ZZ", "X", "I", "IY", "XZ", "Z"} {
		s.Add(key(code), 1)
	}

	var got []string
	for term := range s.All() {
		got = append(got, term.String())
	}
	// ordered by the 128-bit value X<<64 | Z
	assert.Equal(t, []string{"I", "Z", "ZZ", "X", "XZ", "IY"}, got)

	// restartable
	var again []string
	for term := range s.All() {
		again = append(again, term.String())
	}
	assert.Equal(t, got, again)
}

func TestSum_AllStopsEarly(t *testing.T) {
	s := New()
	s.Add(key("X"), 1)
	s.Add(key("Y"), 1)
	n := 0
	for range s.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestSum_Validate(t *testing.T) {
	s := New()
	s.Add(key("X"), 1)
	require.NoError(t, s.Validate())

	s.Add(key("Z"), complex(math.Inf(1), 0))
	assert.ErrorIs(t, s.Validate(), ErrNumericOverflow)

	s = New()
	s.Add(key("Y"), complex(0, math.NaN()))
	assert.ErrorIs(t, s.Validate(), ErrNumericOverflow)
}

func TestSum_ApproxEqual(t *testing.T) {
	a := New()
	a.Add(key("X"), 1)
	a.Add(key("Z"), 1e-15)

	b := New()
	b.Add(key("X"), 1+1e-13)

	assert.True(t, a.ApproxEqual(b, 1e-10))
	assert.True(t, b.ApproxEqual(a, 1e-10))

	b.Add(key("Y"), 0.1)
	assert.False(t, a.ApproxEqual(b, 1e-10))
	assert.False(t, b.ApproxEqual(a, 1e-10))
}

func TestSum_CloneIsIndependent(t *testing.T) {
	a := New()
	a.Add(key("X"), 1)
	b := a.Clone()
	b.Add(key("X"), 1)
	assert.Equal(t, complex128(1), a.Coeff(key("X")))
	assert.Equal(t, complex128(2), b.Coeff(key("X")))
}

func TestSum_MaxQubitAndHermitian(t *testing.T) {
	s := New()
	s.Add(key("I"), 1)
	assert.Equal(t, 0, s.MaxQubit())
	s.Add(key("IIZ"), 0.5)
	assert.Equal(t, 3, s.MaxQubit())
	assert.True(t, s.IsHermitian(1e-12))
	s.Add(key("X"), 0.5i)
	assert.False(t, s.IsHermitian(1e-12))
}
