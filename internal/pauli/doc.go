// Package pauli implements the symplectic encoding of Pauli strings over at
// most 64 qubits.
//
// A Term stores two bit masks. Bit i of X marks an X or Y factor on qubit i,
// bit i of Z marks a Z or Y factor. A qubit with both bits set carries Y.
// The global phase (one of +1, +i, -1, -i) is kept next to the masks and is
// combined on multiplication; it never takes part in equality or hashing.
//
// # Usage
//
//	x0, _ := pauli.Single(0, pauli.X, 2)
//	y0, _ := pauli.Single(0, pauli.Y, 2)
//	p := pauli.Multiply(x0, y0) // i*Z_0
//	fmt.Println(p.Phase, p)     // +i Z
//
// # Text format
//
// Terms render one letter per qubit, qubit 0 first, with trailing identities
// trimmed. The identity renders as "I".
package pauli
