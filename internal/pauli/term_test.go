package pauli

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matrices for the single-qubit check below, row-major 2x2
var single = map[Kind][4]complex128{
	I: {1, 0, 0, 1},
	X: {0, 1, 1, 0},
	Y: {0, -1i, 1i, 0},
	Z: {1, 0, 0, -1},
}

func mul2(a, b [4]complex128) [4]complex128 {
	return [4]complex128{
		a[0]*b[0] + a[1]*b[2], a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2], a[2]*b[1] + a[3]*b[3],
	}
}

func TestSingle(t *testing.T) {
	tests := []struct {
		name  string
		qubit int
		kind  Kind
		want  Term
	}{
		{"x0", 0, X, Term{X: 1}},
		{"y3", 3, Y, Term{X: 8, Z: 8}},
		{"z63", 63, Z, Term{Z: 1 << 63}},
		{"identity", 5, I, Term{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Single(tt.qubit, tt.kind, 64)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, PhasePlusOne, got.Phase)
		})
	}
}

func TestSingle_InvalidQubit(t *testing.T) {
	_, err := Single(64, X, 64)
	assert.ErrorIs(t, err, ErrInvalidQubitIndex)

	_, err = Single(4, Z, 4)
	assert.ErrorIs(t, err, ErrInvalidQubitIndex)

	_, err = Single(-1, Z, 4)
	assert.ErrorIs(t, err, ErrInvalidQubitIndex)
}

func TestMultiply_SingleQubitTable(t *testing.T) {
	kinds := []Kind{I, X, Y, Z}
	for _, ka := range kinds {
		for _, kb := range kinds {
			a, err := Single(0, ka, 1)
			require.NoError(t, err)
			b, err := Single(0, kb, 1)
			require.NoError(t, err)

			got := Multiply(a, b)
			want := mul2(single[ka], single[kb])

			m := single[got.At(0)]
			ph := got.Phase.Complex()
			for i := range m {
				assert.Equal(t, want[i], ph*m[i], "%v*%v entry %d", ka, kb, i)
			}
		}
	}
}

func TestMultiply_SelfIsIdentity(t *testing.T) {
	for q := 0; q < MaxQubits; q++ {
		for _, k := range []Kind{X, Y, Z} {
			p, err := Single(q, k, MaxQubits)
			require.NoError(t, err)
			got := Multiply(p, p)
			assert.Equal(t, Identity(), got, "qubit %d kind %v", q, k)
		}
	}
}

func TestMultiply_CarriesInputPhases(t *testing.T) {
	a := MustParse("XZ")
	a.Phase = PhasePlusI
	b := MustParse("YZ")
	b.Phase = PhasePlusI

	// X*Y = iZ on qubit 0, Z*Z = I on qubit 1, times i and i
	got := Multiply(a, b)
	assert.Equal(t, "Z", got.String())
	assert.Equal(t, PhaseMinusI, got.Phase)
}

func randomTerm(r *rand.Rand) Term {
	return Term{X: r.Uint64(), Z: r.Uint64(), Phase: Phase(r.IntN(4))}
}

func TestCommutes_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		a, b := randomTerm(r), randomTerm(r)

		assert.Equal(t, Commutes(a, b), Commutes(b, a))

		ab := Multiply(a, b)
		ba := Multiply(b, a)
		require.Equal(t, ab.Key(), ba.Key())
		if Commutes(a, b) {
			assert.Equal(t, ab.Phase, ba.Phase)
		} else {
			assert.Equal(t, ab.Phase, ba.Phase.Mul(PhaseMinusOne))
		}
	}
}

func TestMultiply_Associative(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		a, b, c := randomTerm(r), randomTerm(r), randomTerm(r)
		assert.Equal(t, Multiply(Multiply(a, b), c), Multiply(a, Multiply(b, c)))
	}
}

func TestString_Parse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"I", "I"},
		{"IIII", "I"},
		{"X", "X"},
		{"IXYZ", "IXYZ"},
		{"ZZII", "ZZ"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}

	full := Term{X: ^uint64(0), Z: ^uint64(0)}
	assert.Len(t, full.String(), 64)
	back, err := Parse(full.String())
	require.NoError(t, err)
	assert.Equal(t, full, back)
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "IP", "XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestTerm_WeightAndFits(t *testing.T) {
	p := MustParse("XIYZ")
	assert.Equal(t, 3, p.Weight())
	assert.True(t, p.FitsIn(4))
	assert.False(t, p.FitsIn(3))
	assert.True(t, Identity().FitsIn(0))
}

func TestKey_Less(t *testing.T) {
	assert.True(t, Key{X: 0, Z: 5}.Less(Key{X: 1, Z: 0}))
	assert.True(t, Key{X: 1, Z: 0}.Less(Key{X: 1, Z: 1}))
	assert.False(t, Key{X: 1, Z: 1}.Less(Key{X: 1, Z: 1}))
}

func TestPhase_Apply(t *testing.T) {
	c := complex(0.5, -2)
	for p := Phase(0); p < 4; p++ {
		assert.Equal(t, p.Complex()*c, p.Apply(c), p.String())
		assert.Equal(t, PhasePlusOne, p.Mul(p.Conj()))
	}
}
