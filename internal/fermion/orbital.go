package fermion

// Spin is the spin projection of an orbital.
type Spin uint8

const (
	Down Spin = iota
	Up
)

// String implements fmt.Stringer.
func (s Spin) String() string {
	if s == Up {
		return "up"
	}
	return "down"
}

// Orbital is a spatial orbital with a spin. Spin-orbitals are enumerated with
// both spins of a spatial orbital adjacent: 2*Index + Spin.
type Orbital struct {
	Index int
	Spin  Spin
}

// OrbitalFromIndex inverts Orbital.Enumerate.
func OrbitalFromIndex(i int) Orbital {
	return Orbital{Index: i / 2, Spin: Spin(i % 2)}
}

// Enumerate returns the spin-orbital index, which is also the qubit index.
func (o Orbital) Enumerate() int {
	return 2*o.Index + int(o.Spin)
}

// OrbitalRange returns the spin-orbitals with enumerated index in [lo, hi).
func OrbitalRange(lo, hi int) []Orbital {
	if hi <= lo {
		return nil
	}
	out := make([]Orbital, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, OrbitalFromIndex(i))
	}
	return out
}
