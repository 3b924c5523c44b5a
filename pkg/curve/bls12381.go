// Copyright 2025 Certen Protocol

package curve

import (
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
)

type pointG1_381 struct{ p bls12381.G1Affine }
type pointG2_381 struct{ p bls12381.G2Affine }

func (pointG1_381) isCurvePointG1() {}
func (pointG2_381) isCurvePointG2() {}

func asG1_381(p PointG1) bls12381.G1Affine {
	return p.(pointG1_381).p
}

func asG2_381(p PointG2) bls12381.G2Affine {
	return p.(pointG2_381).p
}

type engine381 struct {
	g1Gen, g1Id bls12381.G1Affine
	g2Gen, g2Id bls12381.G2Affine
}

func newBLS12_381() Engine {
	_, _, g1, g2 := bls12381.Generators()
	// The zero-value G1Affine/G2Affine (X=Y=0) is gnark-crypto's
	// canonical encoding of the group identity.
	return &engine381{g1Gen: g1, g2Gen: g2}
}

func (e *engine381) Kind() CurveKind { return BLS12_381 }

func (e *engine381) G1Size(compressed bool) int {
	if compressed {
		return 48
	}
	return 96
}

func (e *engine381) G2Size(compressed bool) int {
	if compressed {
		return 96
	}
	return 192
}

func (e *engine381) G1Generator() PointG1 { return pointG1_381{e.g1Gen} }
func (e *engine381) G2Generator() PointG2 { return pointG2_381{e.g2Gen} }
func (e *engine381) G1Identity() PointG1  { return pointG1_381{e.g1Id} }
func (e *engine381) G2Identity() PointG2  { return pointG2_381{e.g2Id} }

func (e *engine381) EncodeG1(p PointG1, compressed bool) []byte {
	a := asG1_381(p)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (e *engine381) DecodeG1(buf []byte, compressed bool, check CheckLevel) (PointG1, error) {
	var a bls12381.G1Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("curve: decode g1: %w", err)
	}
	if err := checkDecodedG1_381(a, check); err != nil {
		return nil, err
	}
	return pointG1_381{a}, nil
}

func checkDecodedG1_381(a bls12381.G1Affine, check CheckLevel) error {
	switch check {
	case CheckOnlyNonZero, CheckFull:
		if a.IsInfinity() {
			return fmt.Errorf("curve: %w", ErrPointAtInfinity)
		}
	}
	switch check {
	case CheckOnlyInGroup, CheckFull:
		if !a.IsInSubGroup() {
			return fmt.Errorf("curve: %w", ErrNotInSubgroup)
		}
	}
	return nil
}

func checkDecodedG2_381(a bls12381.G2Affine, check CheckLevel) error {
	switch check {
	case CheckOnlyNonZero, CheckFull:
		if a.IsInfinity() {
			return fmt.Errorf("curve: %w", ErrPointAtInfinity)
		}
	}
	switch check {
	case CheckOnlyInGroup, CheckFull:
		if !a.IsInSubGroup() {
			return fmt.Errorf("curve: %w", ErrNotInSubgroup)
		}
	}
	return nil
}

func (e *engine381) EncodeG2(p PointG2, compressed bool) []byte {
	a := asG2_381(p)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (e *engine381) DecodeG2(buf []byte, compressed bool, check CheckLevel) (PointG2, error) {
	var a bls12381.G2Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("curve: decode g2: %w", err)
	}
	if err := checkDecodedG2_381(a, check); err != nil {
		return nil, err
	}
	return pointG2_381{a}, nil
}

func (e *engine381) AddG1(a, b PointG1) PointG1 {
	var ja, jb bls12381.G1Jac
	av, bv := asG1_381(a), asG1_381(b)
	ja.FromAffine(&av)
	jb.FromAffine(&bv)
	ja.AddAssign(&jb)
	var res bls12381.G1Affine
	res.FromJacobian(&ja)
	return pointG1_381{res}
}

func (e *engine381) AddG2(a, b PointG2) PointG2 {
	var ja, jb bls12381.G2Jac
	av, bv := asG2_381(a), asG2_381(b)
	ja.FromAffine(&av)
	jb.FromAffine(&bv)
	ja.AddAssign(&jb)
	var res bls12381.G2Affine
	res.FromJacobian(&ja)
	return pointG2_381{res}
}

func (e *engine381) NegG1(p PointG1) PointG1 {
	a := asG1_381(p)
	var res bls12381.G1Affine
	res.Neg(&a)
	return pointG1_381{res}
}

func (e *engine381) NegG2(p PointG2) PointG2 {
	a := asG2_381(p)
	var res bls12381.G2Affine
	res.Neg(&a)
	return pointG2_381{res}
}

func (e *engine381) ScalarMulG1(p PointG1, scalar *big.Int) PointG1 {
	a := asG1_381(p)
	var res bls12381.G1Affine
	res.ScalarMultiplication(&a, scalar)
	return pointG1_381{res}
}

func (e *engine381) ScalarMulG2(p PointG2, scalar *big.Int) PointG2 {
	a := asG2_381(p)
	var res bls12381.G2Affine
	res.ScalarMultiplication(&a, scalar)
	return pointG2_381{res}
}

func (e *engine381) EqualG1(a, b PointG1) bool { return asG1_381(a).Equal(asG1Ptr(b)) }
func (e *engine381) EqualG2(a, b PointG2) bool { return asG2_381(a).Equal(asG2Ptr(b)) }

func asG1Ptr(p PointG1) *bls12381.G1Affine { a := asG1_381(p); return &a }
func asG2Ptr(p PointG2) *bls12381.G2Affine { a := asG2_381(p); return &a }

func (e *engine381) IsIdentityG1(p PointG1) bool { return asG1_381(p).IsInfinity() }
func (e *engine381) IsIdentityG2(p PointG2) bool { return asG2_381(p).IsInfinity() }
func (e *engine381) IsOnCurveG1(p PointG1) bool  { return asG1_381(p).IsOnCurve() }
func (e *engine381) IsOnCurveG2(p PointG2) bool  { return asG2_381(p).IsOnCurve() }
func (e *engine381) IsInSubGroupG1(p PointG1) bool { return asG1_381(p).IsInSubGroup() }
func (e *engine381) IsInSubGroupG2(p PointG2) bool { return asG2_381(p).IsInSubGroup() }

// BatchScalarMulG1 performs each element's scalar multiplication via
// gnark-crypto's own (windowed-NAF) ScalarMultiplication in Jacobian
// form, then normalizes the whole batch to affine with one shared
// field inversion (Montgomery's batch-inversion trick) instead of N.
func (e *engine381) BatchScalarMulG1(bases []PointG1, scalars []*big.Int, direct bool) ([]PointG1, error) {
	if err := checkBatchLen(len(bases), len(scalars)); err != nil {
		return nil, err
	}
	jacs := make([]bls12381.G1Jac, len(bases))
	for i, b := range bases {
		a := asG1_381(b)
		var j bls12381.G1Jac
		j.FromAffine(&a)
		s := scalars[0]
		if len(scalars) > 1 {
			s = scalars[i]
		}
		j.ScalarMultiplication(&j, s)
		jacs[i] = j
	}
	affs := make([]bls12381.G1Affine, len(jacs))
	if direct {
		for i := range jacs {
			affs[i].FromJacobian(&jacs[i])
		}
	} else {
		batchNormalizeG1_381(jacs, affs)
	}
	out := make([]PointG1, len(affs))
	for i, a := range affs {
		out[i] = pointG1_381{a}
	}
	return out, nil
}

func (e *engine381) BatchScalarMulG2(bases []PointG2, scalars []*big.Int, direct bool) ([]PointG2, error) {
	if err := checkBatchLen(len(bases), len(scalars)); err != nil {
		return nil, err
	}
	jacs := make([]bls12381.G2Jac, len(bases))
	for i, b := range bases {
		a := asG2_381(b)
		var j bls12381.G2Jac
		j.FromAffine(&a)
		s := scalars[0]
		if len(scalars) > 1 {
			s = scalars[i]
		}
		j.ScalarMultiplication(&j, s)
		jacs[i] = j
	}
	affs := make([]bls12381.G2Affine, len(jacs))
	if direct {
		for i := range jacs {
			affs[i].FromJacobian(&jacs[i])
		}
	} else {
		batchNormalizeG2_381(jacs, affs)
	}
	out := make([]PointG2, len(affs))
	for i, a := range affs {
		out[i] = pointG2_381{a}
	}
	return out, nil
}

// batchNormalizeG1_381 converts N Jacobian points to affine using one
// shared field inversion over their Z coordinates (Montgomery's trick):
// build the running product of the Zs, invert once, then walk back
// down multiplying out each individual inverse.
func batchNormalizeG1_381(jacs []bls12381.G1Jac, out []bls12381.G1Affine) {
	n := len(jacs)
	prefix := make([]fp.Element, n+1)
	prefix[0].SetOne()
	for i := 0; i < n; i++ {
		z := jacs[i].Z
		if z.IsZero() {
			z.SetOne()
		}
		prefix[i+1].Mul(&prefix[i], &z)
	}
	var acc fp.Element
	acc.Inverse(&prefix[n])
	for i := n - 1; i >= 0; i-- {
		z := jacs[i].Z
		if z.IsZero() {
			out[i].X.SetZero()
			out[i].Y.SetZero()
			continue
		}
		var zInv, zInv2, zInv3 fp.Element
		zInv.Mul(&acc, &prefix[i])
		zInv2.Square(&zInv)
		zInv3.Mul(&zInv2, &zInv)
		out[i].X.Mul(&jacs[i].X, &zInv2)
		out[i].Y.Mul(&jacs[i].Y, &zInv3)
		acc.Mul(&acc, &z)
	}
}

func batchNormalizeG2_381(jacs []bls12381.G2Jac, out []bls12381.G2Affine) {
	n := len(jacs)
	type fp2 = bls12381.E2
	prefix := make([]fp2, n+1)
	prefix[0].SetOne()
	for i := 0; i < n; i++ {
		z := jacs[i].Z
		if z.IsZero() {
			z.SetOne()
		}
		prefix[i+1].Mul(&prefix[i], &z)
	}
	var acc fp2
	acc.Inverse(&prefix[n])
	for i := n - 1; i >= 0; i-- {
		z := jacs[i].Z
		if z.IsZero() {
			out[i].X.SetZero()
			out[i].Y.SetZero()
			continue
		}
		var zInv, zInv2, zInv3 fp2
		zInv.Mul(&acc, &prefix[i])
		zInv2.Square(&zInv)
		zInv3.Mul(&zInv2, &zInv)
		out[i].X.Mul(&jacs[i].X, &zInv2)
		out[i].Y.Mul(&jacs[i].Y, &zInv3)
		acc.Mul(&acc, &z)
	}
}

func (e *engine381) PairingCheck(g1s []PointG1, g2s []PointG2) (bool, error) {
	if len(g1s) != len(g2s) {
		return false, fmt.Errorf("curve: pairing check length mismatch: %d g1 vs %d g2", len(g1s), len(g2s))
	}
	ag1 := make([]bls12381.G1Affine, len(g1s))
	ag2 := make([]bls12381.G2Affine, len(g2s))
	for i := range g1s {
		ag1[i] = asG1_381(g1s[i])
		ag2[i] = asG2_381(g2s[i])
	}
	ok, err := bls12381.PairingCheck(ag1, ag2)
	if err != nil {
		return false, fmt.Errorf("curve: pairing check: %w", err)
	}
	return ok, nil
}

func (e *engine381) RandomScalar(rng io.Reader) (*big.Int, error) {
	return randomScalarFromReader(rng, func(b []byte) *big.Int {
		var f fr.Element
		f.SetBytes(b)
		var out big.Int
		f.BigInt(&out)
		return &out
	})
}

func (e *engine381) ScalarFromCanonicalBytes(b []byte) (*big.Int, error) {
	var s fr.Element
	s.SetBytes(b)
	var out big.Int
	s.BigInt(&out)
	return &out, nil
}

func (e *engine381) ScalarFieldModulus() *big.Int {
	return fr.Modulus()
}

func (e *engine381) HashToG2(msg []byte) PointG2 {
	s := hashToG2Scalar(msg, func(b []byte) *big.Int {
		var f fr.Element
		f.SetBytes(b)
		var out big.Int
		f.BigInt(&out)
		return &out
	})
	return e.ScalarMulG2(pointG2_381{e.g2Gen}, s)
}

func (e *engine381) FFTDomain(size int) (FFTDomain, error) {
	d := fft.NewDomain(uint64(size))
	var genBig big.Int
	d.Generator.BigInt(&genBig)
	return newGenericDomain(e, size, fr.Modulus(), &genBig)
}
