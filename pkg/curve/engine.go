// Copyright 2025 Certen Protocol
//
// Package curve abstracts the pairing-friendly curves used by the
// ceremony core behind a single non-generic Engine interface. Each
// supported curve gets its own implementation file; callers dispatch
// on CurveKind once at the command boundary and pass the resulting
// Engine down through the rest of the core.
package curve

import (
	"fmt"
	"io"
	"math/big"
)

// CurveKind names a pairing-friendly curve the ceremony can run over.
type CurveKind int

const (
	BLS12_377 CurveKind = iota
	BW6_761
	MNT4_753
	MNT6_753
	BLS12_381
)

func (k CurveKind) String() string {
	switch k {
	case BLS12_377:
		return "bls12-377"
	case BW6_761:
		return "bw6-761"
	case MNT4_753:
		return "mnt4-753"
	case MNT6_753:
		return "mnt6-753"
	case BLS12_381:
		return "bls12-381"
	default:
		return fmt.Sprintf("curve(%d)", int(k))
	}
}

// ParseCurveKind maps a configuration string to a CurveKind.
func ParseCurveKind(s string) (CurveKind, error) {
	switch s {
	case "bls12-377", "bls12_377":
		return BLS12_377, nil
	case "bw6-761", "bw6_761":
		return BW6_761, nil
	case "mnt4-753", "mnt4_753":
		return MNT4_753, nil
	case "mnt6-753", "mnt6_753":
		return MNT6_753, nil
	case "bls12-381", "bls12_381":
		return BLS12_381, nil
	default:
		return 0, fmt.Errorf("curve: unknown curve kind %q", s)
	}
}

// CheckLevel is the decode-time correctness check level from C1.
type CheckLevel int

const (
	CheckNone CheckLevel = iota
	CheckOnlyNonZero
	CheckOnlyInGroup
	CheckFull
)

// PointG1 and PointG2 are opaque handles to group elements. Concrete
// representation is owned by the Engine that produced them; callers
// must only pass a PointG1/PointG2 back to the Engine that created it.
type PointG1 interface{ isCurvePointG1() }
type PointG2 interface{ isCurvePointG2() }

// Engine is the one non-generic trait the rest of the core programs
// against. It captures exactly the operations the ceremony needs:
// scalar field, two groups, generators, subgroup checks, pairing, and
// batched affine multiplication. No deeper generics exist beyond it.
type Engine interface {
	Kind() CurveKind

	// Sizes, in bytes, of a single encoded element.
	G1Size(compressed bool) int
	G2Size(compressed bool) int

	G1Generator() PointG1
	G2Generator() PointG2
	G1Identity() PointG1
	G2Identity() PointG2

	EncodeG1(p PointG1, compressed bool) []byte
	DecodeG1(buf []byte, compressed bool, check CheckLevel) (PointG1, error)
	EncodeG2(p PointG2, compressed bool) []byte
	DecodeG2(buf []byte, compressed bool, check CheckLevel) (PointG2, error)

	AddG1(a, b PointG1) PointG1
	AddG2(a, b PointG2) PointG2
	NegG1(p PointG1) PointG1
	NegG2(p PointG2) PointG2
	ScalarMulG1(p PointG1, scalar *big.Int) PointG1
	ScalarMulG2(p PointG2, scalar *big.Int) PointG2
	EqualG1(a, b PointG1) bool
	EqualG2(a, b PointG2) bool
	IsIdentityG1(p PointG1) bool
	IsIdentityG2(p PointG2) bool
	IsOnCurveG1(p PointG1) bool
	IsOnCurveG2(p PointG2) bool
	IsInSubGroupG1(p PointG1) bool
	IsInSubGroupG2(p PointG2) bool

	// BatchScalarMul applies either a single shared scalar (len(scalars)==1)
	// or one scalar per base (len(scalars)==len(bases)) using the
	// batch-inversion affine trick described in C2. direct selects the
	// naive per-element path instead.
	BatchScalarMulG1(bases []PointG1, scalars []*big.Int, direct bool) ([]PointG1, error)
	BatchScalarMulG2(bases []PointG2, scalars []*big.Int, direct bool) ([]PointG2, error)

	// PairingCheck returns true iff the product of e(g1s[i], g2s[i]) is 1.
	PairingCheck(g1s []PointG1, g2s []PointG2) (bool, error)

	// Scalar field helpers (Fr of this curve).
	RandomScalar(rng io.Reader) (*big.Int, error)
	ScalarFromCanonicalBytes(b []byte) (*big.Int, error)
	ScalarFieldModulus() *big.Int

	// HashToG2 is the domain-separated, rejection-sampling hash used by
	// the public-key sub-protocol (C5).
	HashToG2(msg []byte) PointG2

	// FFTDomain returns a radix-2 evaluation domain of the requested
	// size (rounded up to a power of two internally by the caller).
	FFTDomain(size int) (FFTDomain, error)
}

// FFTDomain performs the inverse FFT over Fr-scalar coefficients
// of G1/G2 points via the curve's own multiplicative subgroup.
type FFTDomain interface {
	Size() int
	// InvFFTG1/InvFFTG2 convert values (evaluations at domain points) in
	// place into coefficients. The slice length must equal Size().
	InvFFTG1(values []PointG1) error
	InvFFTG2(values []PointG2) error
}

// New returns the Engine for kind, or an error for curves the
// underlying pairing library does not implement (MNT4_753/MNT6_753;
// see DESIGN.md).
func New(kind CurveKind) (Engine, error) {
	switch kind {
	case BLS12_377:
		return newBLS12_377(), nil
	case BW6_761:
		return newBW6_761(), nil
	case BLS12_381:
		return newBLS12_381(), nil
	case MNT4_753, MNT6_753:
		return nil, fmt.Errorf("curve: %s is not supported by the available pairing library: %w", kind, ErrUnsupportedCurve)
	default:
		return nil, fmt.Errorf("curve: unknown curve kind %d", int(kind))
	}
}
