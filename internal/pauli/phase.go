package pauli

// Phase is a power of the imaginary unit: i^k for k in 0..3.
type Phase uint8

const (
	PhasePlusOne  Phase = 0
	PhasePlusI    Phase = 1
	PhaseMinusOne Phase = 2
	PhaseMinusI   Phase = 3
)

// Mul multiplies two phases.
func (p Phase) Mul(o Phase) Phase {
	return (p + o) & 3
}

// Conj returns the complex conjugate.
func (p Phase) Conj() Phase {
	return (4 - p&3) & 3
}

// Complex returns the phase as a unit complex number.
func (p Phase) Complex() complex128 {
	switch p & 3 {
	case PhasePlusI:
		return complex(0, 1)
	case PhaseMinusOne:
		return complex(-1, 0)
	case PhaseMinusI:
		return complex(0, -1)
	default:
		return complex(1, 0)
	}
}

// Apply multiplies c by the phase without rounding.
func (p Phase) Apply(c complex128) complex128 {
	re, im := real(c), imag(c)
	switch p & 3 {
	case PhasePlusI:
		return complex(-im, re)
	case PhaseMinusOne:
		return complex(-re, -im)
	case PhaseMinusI:
		return complex(im, -re)
	default:
		return c
	}
}

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p & 3 {
	case PhasePlusI:
		return "+i"
	case PhaseMinusOne:
		return "-1"
	case PhaseMinusI:
		return "-i"
	default:
		return "+1"
	}
}
