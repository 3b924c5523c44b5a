// Copyright 2025 Certen Protocol

package curve

import (
	"fmt"
	"io"
	"math/big"

	bw6761 "github.com/consensys/gnark-crypto/ecc/bw6-761"
	"github.com/consensys/gnark-crypto/ecc/bw6-761/fp"
	"github.com/consensys/gnark-crypto/ecc/bw6-761/fr"
	"github.com/consensys/gnark-crypto/ecc/bw6-761/fr/fft"
)

type pointG1_761 struct{ p bw6761.G1Affine }
type pointG2_761 struct{ p bw6761.G2Affine }

func (pointG1_761) isCurvePointG1() {}
func (pointG2_761) isCurvePointG2() {}

func asG1_761(p PointG1) bw6761.G1Affine {
	return p.(pointG1_761).p
}

func asG2_761(p PointG2) bw6761.G2Affine {
	return p.(pointG2_761).p
}

type engine761 struct {
	g1Gen, g1Id bw6761.G1Affine
	g2Gen, g2Id bw6761.G2Affine
}

func newBW6_761() Engine {
	_, _, g1, g2 := bw6761.Generators()
	// The zero-value G1Affine/G2Affine (X=Y=0) is gnark-crypto's
	// canonical encoding of the group identity.
	return &engine761{g1Gen: g1, g2Gen: g2}
}

func (e *engine761) Kind() CurveKind { return BW6_761 }

func (e *engine761) G1Size(compressed bool) int {
	if compressed {
		return 96
	}
	return 192
}

func (e *engine761) G2Size(compressed bool) int {
	if compressed {
		return 96
	}
	return 192
}

func (e *engine761) G1Generator() PointG1 { return pointG1_761{e.g1Gen} }
func (e *engine761) G2Generator() PointG2 { return pointG2_761{e.g2Gen} }
func (e *engine761) G1Identity() PointG1  { return pointG1_761{e.g1Id} }
func (e *engine761) G2Identity() PointG2  { return pointG2_761{e.g2Id} }

func (e *engine761) EncodeG1(p PointG1, compressed bool) []byte {
	a := asG1_761(p)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (e *engine761) DecodeG1(buf []byte, compressed bool, check CheckLevel) (PointG1, error) {
	var a bw6761.G1Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("curve: decode g1: %w", err)
	}
	if err := checkDecodedG1_761(a, check); err != nil {
		return nil, err
	}
	return pointG1_761{a}, nil
}

func checkDecodedG1_761(a bw6761.G1Affine, check CheckLevel) error {
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

func checkDecodedG2_761(a bw6761.G2Affine, check CheckLevel) error {
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

func (e *engine761) EncodeG2(p PointG2, compressed bool) []byte {
	a := asG2_761(p)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (e *engine761) DecodeG2(buf []byte, compressed bool, check CheckLevel) (PointG2, error) {
	var a bw6761.G2Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("curve: decode g2: %w", err)
	}
	if err := checkDecodedG2_761(a, check); err != nil {
		return nil, err
	}
	return pointG2_761{a}, nil
}

func (e *engine761) AddG1(a, b PointG1) PointG1 {
	var ja, jb bw6761.G1Jac
	av, bv := asG1_761(a), asG1_761(b)
	ja.FromAffine(&av)
	jb.FromAffine(&bv)
	ja.AddAssign(&jb)
	var res bw6761.G1Affine
	res.FromJacobian(&ja)
	return pointG1_761{res}
}

func (e *engine761) AddG2(a, b PointG2) PointG2 {
	var ja, jb bw6761.G2Jac
	av, bv := asG2_761(a), asG2_761(b)
	ja.FromAffine(&av)
	jb.FromAffine(&bv)
	ja.AddAssign(&jb)
	var res bw6761.G2Affine
	res.FromJacobian(&ja)
	return pointG2_761{res}
}

func (e *engine761) NegG1(p PointG1) PointG1 {
	a := asG1_761(p)
	var res bw6761.G1Affine
	res.Neg(&a)
	return pointG1_761{res}
}

func (e *engine761) NegG2(p PointG2) PointG2 {
	a := asG2_761(p)
	var res bw6761.G2Affine
	res.Neg(&a)
	return pointG2_761{res}
}

func (e *engine761) ScalarMulG1(p PointG1, scalar *big.Int) PointG1 {
	a := asG1_761(p)
	var res bw6761.G1Affine
	res.ScalarMultiplication(&a, scalar)
	return pointG1_761{res}
}

func (e *engine761) ScalarMulG2(p PointG2, scalar *big.Int) PointG2 {
	a := asG2_761(p)
	var res bw6761.G2Affine
	res.ScalarMultiplication(&a, scalar)
	return pointG2_761{res}
}

func (e *engine761) EqualG1(a, b PointG1) bool { return asG1_761(a).Equal(asG1Ptr761(b)) }
func (e *engine761) EqualG2(a, b PointG2) bool { return asG2_761(a).Equal(asG2Ptr761(b)) }

func asG1Ptr761(p PointG1) *bw6761.G1Affine { a := asG1_761(p); return &a }
func asG2Ptr761(p PointG2) *bw6761.G2Affine { a := asG2_761(p); return &a }

func (e *engine761) IsIdentityG1(p PointG1) bool { return asG1_761(p).IsInfinity() }
func (e *engine761) IsIdentityG2(p PointG2) bool { return asG2_761(p).IsInfinity() }
func (e *engine761) IsOnCurveG1(p PointG1) bool  { return asG1_761(p).IsOnCurve() }
func (e *engine761) IsOnCurveG2(p PointG2) bool  { return asG2_761(p).IsOnCurve() }
func (e *engine761) IsInSubGroupG1(p PointG1) bool { return asG1_761(p).IsInSubGroup() }
func (e *engine761) IsInSubGroupG2(p PointG2) bool { return asG2_761(p).IsInSubGroup() }

// BatchScalarMulG1 performs each element's scalar multiplication via
// gnark-crypto's own (windowed-NAF) ScalarMultiplication in Jacobian
// form, then normalizes the whole batch to affine with one shared
// field inversion (Montgomery's batch-inversion trick) instead of N.
func (e *engine761) BatchScalarMulG1(bases []PointG1, scalars []*big.Int, direct bool) ([]PointG1, error) {
	if err := checkBatchLen(len(bases), len(scalars)); err != nil {
		return nil, err
	}
	jacs := make([]bw6761.G1Jac, len(bases))
	for i, b := range bases {
		a := asG1_761(b)
		var j bw6761.G1Jac
		j.FromAffine(&a)
		s := scalars[0]
		if len(scalars) > 1 {
			s = scalars[i]
		}
		j.ScalarMultiplication(&j, s)
		jacs[i] = j
	}
	affs := make([]bw6761.G1Affine, len(jacs))
	if direct {
		for i := range jacs {
			affs[i].FromJacobian(&jacs[i])
		}
	} else {
		batchNormalizeG1_761(jacs, affs)
	}
	out := make([]PointG1, len(affs))
	for i, a := range affs {
		out[i] = pointG1_761{a}
	}
	return out, nil
}

func (e *engine761) BatchScalarMulG2(bases []PointG2, scalars []*big.Int, direct bool) ([]PointG2, error) {
	if err := checkBatchLen(len(bases), len(scalars)); err != nil {
		return nil, err
	}
	jacs := make([]bw6761.G2Jac, len(bases))
	for i, b := range bases {
		a := asG2_761(b)
		var j bw6761.G2Jac
		j.FromAffine(&a)
		s := scalars[0]
		if len(scalars) > 1 {
			s = scalars[i]
		}
		j.ScalarMultiplication(&j, s)
		jacs[i] = j
	}
	affs := make([]bw6761.G2Affine, len(jacs))
	if direct {
		for i := range jacs {
			affs[i].FromJacobian(&jacs[i])
		}
	} else {
		batchNormalizeG2_761(jacs, affs)
	}
	out := make([]PointG2, len(affs))
	for i, a := range affs {
		out[i] = pointG2_761{a}
	}
	return out, nil
}

// batchNormalizeG1_761 converts N Jacobian points to affine using one
// shared field inversion over their Z coordinates (Montgomery's trick):
// build the running product of the Zs, invert once, then walk back
// down multiplying out each individual inverse.
func batchNormalizeG1_761(jacs []bw6761.G1Jac, out []bw6761.G1Affine) {
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

// batchNormalizeG2_761 mirrors batchNormalizeG1_761. Unlike the BLS12
// families, BW6-761's G2 is not defined over an Fp2 twist: its
// coordinates are plain base-field elements, the same type as G1's.
func batchNormalizeG2_761(jacs []bw6761.G2Jac, out []bw6761.G2Affine) {
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

func (e *engine761) PairingCheck(g1s []PointG1, g2s []PointG2) (bool, error) {
	if len(g1s) != len(g2s) {
		return false, fmt.Errorf("curve: pairing check length mismatch: %d g1 vs %d g2", len(g1s), len(g2s))
	}
	ag1 := make([]bw6761.G1Affine, len(g1s))
	ag2 := make([]bw6761.G2Affine, len(g2s))
	for i := range g1s {
		ag1[i] = asG1_761(g1s[i])
		ag2[i] = asG2_761(g2s[i])
	}
	ok, err := bw6761.PairingCheck(ag1, ag2)
	if err != nil {
		return false, fmt.Errorf("curve: pairing check: %w", err)
	}
	return ok, nil
}

func (e *engine761) RandomScalar(rng io.Reader) (*big.Int, error) {
	return randomScalarFromReader(rng, func(b []byte) *big.Int {
		var f fr.Element
		f.SetBytes(b)
		var out big.Int
		f.BigInt(&out)
		return &out
	})
}

func (e *engine761) ScalarFromCanonicalBytes(b []byte) (*big.Int, error) {
	var s fr.Element
	s.SetBytes(b)
	var out big.Int
	s.BigInt(&out)
	return &out, nil
}

func (e *engine761) ScalarFieldModulus() *big.Int {
	return fr.Modulus()
}

func (e *engine761) HashToG2(msg []byte) PointG2 {
	s := hashToG2Scalar(msg, func(b []byte) *big.Int {
		var f fr.Element
		f.SetBytes(b)
		var out big.Int
		f.BigInt(&out)
		return &out
	})
	return e.ScalarMulG2(pointG2_761{e.g2Gen}, s)
}

func (e *engine761) FFTDomain(size int) (FFTDomain, error) {
	d := fft.NewDomain(uint64(size))
	var genBig big.Int
	d.Generator.BigInt(&genBig)
	return newGenericDomain(e, size, fr.Modulus(), &genBig)
}
