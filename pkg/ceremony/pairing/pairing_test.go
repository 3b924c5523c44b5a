// Copyright 2025 Certen Protocol

package pairing

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/certen/trusted-setup/pkg/curve"
)

func TestSameRatioHolds(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	x := big.NewInt(42)
	a1 := eng.G1Generator()
	a2 := eng.ScalarMulG1(a1, x)
	b1 := eng.G2Generator()
	b2 := eng.ScalarMulG2(b1, x)

	ok, err := SameRatio(eng, a1, a2, b1, b2)
	if err != nil {
		t.Fatalf("SameRatio() error = %v", err)
	}
	if !ok {
		t.Fatalf("SameRatio() = false, want true")
	}
}

func TestSameRatioFailsOnMismatch(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	a1 := eng.G1Generator()
	a2 := eng.ScalarMulG1(a1, big.NewInt(42))
	b1 := eng.G2Generator()
	b2 := eng.ScalarMulG2(b1, big.NewInt(43))

	ok, err := SameRatio(eng, a1, a2, b1, b2)
	if err != nil {
		t.Fatalf("SameRatio() error = %v", err)
	}
	if ok {
		t.Fatalf("SameRatio() = true, want false for mismatched exponents")
	}
}

func TestSameRatioRejectsIdentity(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	_, err = SameRatio(eng, eng.G1Identity(), eng.G1Generator(), eng.G2Generator(), eng.G2Generator())
	if err == nil {
		t.Fatalf("SameRatio() error = nil, want failure on identity input")
	}
}

func TestPowerPairsDetectsGeometricProgression(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	x := big.NewInt(7)
	v := make([]curve.PointG1, 5)
	v[0] = eng.G1Generator()
	for i := 1; i < len(v); i++ {
		v[i] = eng.ScalarMulG1(v[i-1], x)
	}

	p1, p2, err := PowerPairs(eng, rand.Reader, v)
	if err != nil {
		t.Fatalf("PowerPairs() error = %v", err)
	}
	b2 := eng.ScalarMulG2(eng.G2Generator(), x)
	ok, err := SameRatio(eng, p1, p2, eng.G2Generator(), b2)
	if err != nil {
		t.Fatalf("SameRatio() error = %v", err)
	}
	if !ok {
		t.Fatalf("PowerPairs() result failed its own same_ratio check against x")
	}
}

func TestPowerPairsTooSmall(t *testing.T) {
	eng, err := curve.New(curve.BLS12_377)
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	_, _, err = PowerPairs(eng, rand.Reader, []curve.PointG1{eng.G1Generator()})
	if err == nil {
		t.Fatalf("PowerPairs() error = nil, want BatchTooSmall for a 1-element vector")
	}
}
