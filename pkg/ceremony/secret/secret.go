// Copyright 2025 Certen Protocol

// Package secret models private contribution scalars (tau, alpha,
// beta, delta, delta-inverse) as scoped values that zeroize their
// backing memory on every exit path, per the spec's "secret erasure as
// a contract" design note — not as plain *big.Int data a caller might
// forget to wipe.
package secret

import "math/big"

// Scalar owns one private field element for the lifetime of a single
// contribution. Callers must defer s.Zeroize() immediately after
// construction so every return path (success, error, or panic) erases
// the underlying digits.
type Scalar struct {
	v *big.Int
}

// NewScalar takes ownership of v. The caller must not retain v after
// this call; use s.Value() to read it back.
func NewScalar(v *big.Int) *Scalar {
	return &Scalar{v: v}
}

// Value returns the wrapped scalar. The returned pointer aliases the
// Scalar's internal storage and becomes invalid after Zeroize.
func (s *Scalar) Value() *big.Int {
	return s.v
}

// Zeroize overwrites the scalar's backing words with zero and detaches
// it, making the Scalar safe (but useless) to keep referencing. Safe
// to call more than once.
func (s *Scalar) Zeroize() {
	if s.v == nil {
		return
	}
	bits := s.v.Bits()
	for i := range bits {
		bits[i] = 0
	}
	s.v.SetInt64(0)
	s.v = nil
}

// Triple bundles the three Phase-1 contribution scalars (tau, alpha,
// beta) so a single defer erases all of them together.
type Triple struct {
	Tau, Alpha, Beta *Scalar
}

func NewTriple(tau, alpha, beta *big.Int) *Triple {
	return &Triple{
		Tau:   NewScalar(tau),
		Alpha: NewScalar(alpha),
		Beta:  NewScalar(beta),
	}
}

func (t *Triple) Zeroize() {
	t.Tau.Zeroize()
	t.Alpha.Zeroize()
	t.Beta.Zeroize()
}
