// Copyright 2025 Certen Protocol

package secret

import (
	"math/big"
	"testing"
)

func TestZeroizeClearsValue(t *testing.T) {
	v := big.NewInt(0)
	v.SetString("123456789012345678901234567890", 10)
	s := NewScalar(v)

	if s.Value().Sign() == 0 {
		t.Fatalf("precondition: scalar must be non-zero before Zeroize")
	}
	s.Zeroize()
	if s.Value() != nil {
		t.Fatalf("Value() after Zeroize() = %v, want nil", s.Value())
	}
	if v.Sign() != 0 {
		t.Fatalf("backing big.Int not cleared: %v", v)
	}
}

func TestZeroizeIdempotent(t *testing.T) {
	s := NewScalar(big.NewInt(42))
	s.Zeroize()
	s.Zeroize()
}

func TestTripleZeroizesAll(t *testing.T) {
	tr := NewTriple(big.NewInt(1), big.NewInt(2), big.NewInt(3))
	tr.Zeroize()
	if tr.Tau.Value() != nil || tr.Alpha.Value() != nil || tr.Beta.Value() != nil {
		t.Fatalf("Triple.Zeroize() left a scalar non-nil")
	}
}
