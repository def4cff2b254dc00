// Package fermion models second-quantized fermionic operators: constant
// offsets, one-body excitations a†_p a_q and two-body excitations
// a†_p a†_q a_r a_s, each carrying the integral value supplied by the caller.
//
// Integrals holds a sparse integral table as read from disk and exposes it as
// a positional term source. Random and Full build synthetic Hamiltonians for
// benchmarks and tests.
package fermion
